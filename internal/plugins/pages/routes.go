package pages

import (
	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/plugins/auth"
)

// RegisterRoutes sets up the public page read and the admin editing routes.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/api/pages/:slug", h.Show)

	g := e.Group("/admin/pages", auth.RequireAuth(authSvc))
	g.GET("", h.List)
	g.GET("/:slug", h.Show)
	g.PUT("/:slug", h.Update)
	g.DELETE("/:slug/:key", h.DeleteSection)
}
