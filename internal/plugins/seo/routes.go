package seo

import (
	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/plugins/auth"
)

// RegisterRoutes sets up the public metadata endpoint and admin previews.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/api/seo/:page", h.Page)

	g := e.Group("/admin/seo", auth.RequireAuth(authSvc))
	g.GET("/products/:id", h.ProductPreview)
	g.GET("/articles/:id", h.ArticlePreview)
}
