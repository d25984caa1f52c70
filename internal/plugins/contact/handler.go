package contact

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// Handler handles HTTP requests for the contact form and admin inbox.
type Handler struct {
	service ContactService
}

// NewHandler creates a new contact handler.
func NewHandler(service ContactService) *Handler {
	return &Handler{service: service}
}

// Submit handles POST /contact from the public site.
func (h *Handler) Submit(c echo.Context) error {
	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	sub, err := h.service.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": sub.ID})
}

// List handles GET /admin/contact. ?unread=true filters to the unread inbox.
func (h *Handler) List(c echo.Context) error {
	unreadOnly := c.QueryParam("unread") == "true"
	subs, err := h.service.List(c.Request().Context(), unreadOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"submissions": subs})
}

// MarkRead handles PUT /admin/contact/:id/read.
func (h *Handler) MarkRead(c echo.Context) error {
	id, err := submissionID(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /admin/contact/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := submissionID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// submissionID parses the :id path parameter.
func submissionID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid submission id")
	}
	return id, nil
}
