package seo

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/articles"
	"github.com/resonoraudio/resonora/internal/plugins/products"
)

// Handler serves assembled metadata: a public endpoint the frontend reads
// for static pages, and admin previews for entity pages.
type Handler struct {
	service  SEOService
	products products.ProductService
	articles articles.ArticleService
}

// NewHandler creates a new SEO handler.
func NewHandler(service SEOService, productSvc products.ProductService, articleSvc articles.ArticleService) *Handler {
	return &Handler{service: service, products: productSvc, articles: articleSvc}
}

// Page handles GET /seo/:page for the static pages.
func (h *Handler) Page(c echo.Context) error {
	page := c.Param("page")
	path := "/" + page
	if page == "home" {
		path = "/"
	}
	meta := h.service.ForPage(c.Request().Context(), path, "", "")
	return c.JSON(http.StatusOK, meta)
}

// ProductPreview handles GET /admin/seo/products/:id.
func (h *Handler) ProductPreview(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperror.NewBadRequest("invalid product id")
	}
	p, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.service.ForProduct(c.Request().Context(), p))
}

// ArticlePreview handles GET /admin/seo/articles/:id.
func (h *Handler) ArticlePreview(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperror.NewBadRequest("invalid article id")
	}
	a, err := h.articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.service.ForArticle(c.Request().Context(), a))
}
