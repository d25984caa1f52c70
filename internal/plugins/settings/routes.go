package settings

import (
	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/plugins/auth"
)

// RegisterRoutes sets up the settings routes. Admin only.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	g := e.Group("/admin/settings", auth.RequireAuth(authSvc))
	g.GET("", h.Show)
	g.PUT("", h.Update)
}
