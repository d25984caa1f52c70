package products

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// Handler handles HTTP requests for the product catalog.
type Handler struct {
	service ProductService
}

// NewHandler creates a new product handler.
func NewHandler(service ProductService) *Handler {
	return &Handler{service: service}
}

// List handles GET /products and GET /admin/products. The public route only
// sees published entries; the admin route sees everything.
func (h *Handler) List(publishedOnly bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		category := c.QueryParam("category")
		if category != "" && !validCategories[category] {
			return apperror.NewBadRequest("unknown product category: " + category)
		}

		products, err := h.service.List(c.Request().Context(), category, publishedOnly)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{"products": products})
	}
}

// Show handles GET /products/:slug. Unpublished products are hidden from the
// public catalog as if they did not exist.
func (h *Handler) Show(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.service.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return err
	}
	if !p.IsPublished {
		return apperror.NewNotFound("product not found")
	}

	view, err := h.service.WithMedia(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// AdminShow handles GET /admin/products/:id, drafts included.
func (h *Handler) AdminShow(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := productID(c)
	if err != nil {
		return err
	}
	p, err := h.service.Get(ctx, id)
	if err != nil {
		return err
	}

	view, err := h.service.WithMedia(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /admin/products.
func (h *Handler) Create(c echo.Context) error {
	var in CreateProductInput
	if err := c.Bind(&in); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /admin/products/:id.
func (h *Handler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	var in UpdateProductInput
	if err := c.Bind(&in); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	p, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /admin/products/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// productID parses the :id path parameter.
func productID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid product id")
	}
	return id, nil
}
