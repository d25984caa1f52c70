package products

import (
	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/plugins/auth"
)

// RegisterRoutes sets up the public catalog routes and the admin CRUD routes.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/api/products", h.List(true))
	e.GET("/api/products/:slug", h.Show)

	g := e.Group("/admin/products", auth.RequireAuth(authSvc))
	g.GET("", h.List(false))
	g.GET("/:id", h.AdminShow)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
