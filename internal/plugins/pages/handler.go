package pages

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// Handler handles HTTP requests for page content.
type Handler struct {
	service PageService
}

// NewHandler creates a new page handler.
func NewHandler(service PageService) *Handler {
	return &Handler{service: service}
}

// Show handles GET /pages/:slug and GET /admin/pages/:slug.
func (h *Handler) Show(c echo.Context) error {
	page, err := h.service.Page(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// List handles GET /admin/pages.
func (h *Handler) List(c echo.Context) error {
	slugs, err := h.service.ListPages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"pages": slugs})
}

// Update handles PUT /admin/pages/:slug with a body of section key -> HTML.
func (h *Handler) Update(c echo.Context) error {
	var sections map[string]string
	if err := c.Bind(&sections); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	page, err := h.service.UpdateSections(c.Request().Context(), c.Param("slug"), sections)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// DeleteSection handles DELETE /admin/pages/:slug/:key.
func (h *Handler) DeleteSection(c echo.Context) error {
	if err := h.service.DeleteSection(c.Request().Context(), c.Param("slug"), c.Param("key")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
