package contact

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/middleware"
	"github.com/resonoraudio/resonora/internal/plugins/auth"
)

// RegisterRoutes sets up the public contact form and the admin inbox routes.
// The public endpoint is rate-limited; it is the one unauthenticated write.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.POST("/api/contact", h.Submit, middleware.RateLimit(5, time.Minute))

	g := e.Group("/admin/contact", auth.RequireAuth(authSvc))
	g.GET("", h.List)
	g.PUT("/:id/read", h.MarkRead)
	g.DELETE("/:id", h.Delete)
}
