package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/middleware"
)

// RegisterRoutes sets up the auth routes. Login is public; RequireAuth is
// exported separately for other plugins to protect their route groups.
//
// Login POSTs are rate-limited to slow brute-force attempts.
func RegisterRoutes(e *echo.Echo, h *Handler, service AuthService) {
	e.GET("/admin/login", h.LoginForm)
	e.POST("/admin/login", h.Login, middleware.RateLimit(10, time.Minute))
	e.POST("/admin/logout", h.Logout)
	e.POST("/admin/password", h.ChangePassword, RequireAuth(service))
}
