package media

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/middleware"
	"github.com/resonoraudio/resonora/internal/plugins/auth"
)

// RegisterRoutes sets up the media library routes. Everything here is admin
// surface; public visitors only ever see the resolved URLs under /storage.
// maxUploadSize caps the upload request body so oversized payloads are
// rejected before being read into memory.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService, maxUploadSize int64) {
	authMw := auth.RequireAuth(authSvc)

	// Rate limit uploads: 30 per minute per IP.
	uploadRateLimit := middleware.RateLimit(30, time.Minute)

	// 10% margin over the file size cap for multipart encoding overhead.
	bodyLimit := bodyLimitMiddleware(maxUploadSize + maxUploadSize/10)

	g := e.Group("/admin/media", authMw)
	g.GET("", h.List)
	g.GET("/:id", h.Show)
	g.POST("/upload", h.Upload, uploadRateLimit, bodyLimit)
	g.PATCH("/:id", h.Update)
	g.PUT("/:id/owner", h.SyncOwner)
	g.DELETE("/:id", h.Delete)
	g.POST("/batch-delete", h.BatchDelete)
}

// bodyLimitMiddleware rejects request bodies exceeding maxBytes before the
// handler reads them into memory.
func bodyLimitMiddleware(maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().ContentLength > maxBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body too large; maximum is %d MB", maxBytes/(1024*1024)))
			}
			c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes)
			return next(c)
		}
	}
}
