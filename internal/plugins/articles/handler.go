package articles

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// Handler handles HTTP requests for the news section.
type Handler struct {
	service ArticleService
}

// NewHandler creates a new article handler.
func NewHandler(service ArticleService) *Handler {
	return &Handler{service: service}
}

// List handles GET /articles and GET /admin/articles.
func (h *Handler) List(publishedOnly bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		articles, err := h.service.List(c.Request().Context(), publishedOnly)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{"articles": articles})
	}
}

// Show handles GET /articles/:slug. Drafts are hidden from the public site.
func (h *Handler) Show(c echo.Context) error {
	ctx := c.Request().Context()

	a, err := h.service.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return err
	}
	if !a.IsPublished {
		return apperror.NewNotFound("article not found")
	}

	view, err := h.service.WithMedia(ctx, a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// AdminShow handles GET /admin/articles/:id, drafts included.
func (h *Handler) AdminShow(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := articleID(c)
	if err != nil {
		return err
	}
	a, err := h.service.Get(ctx, id)
	if err != nil {
		return err
	}

	view, err := h.service.WithMedia(ctx, a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /admin/articles.
func (h *Handler) Create(c echo.Context) error {
	var in CreateArticleInput
	if err := c.Bind(&in); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	a, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Update handles PUT /admin/articles/:id.
func (h *Handler) Update(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}

	var in UpdateArticleInput
	if err := c.Bind(&in); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	a, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /admin/articles/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// articleID parses the :id path parameter.
func articleID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid article id")
	}
	return id, nil
}
