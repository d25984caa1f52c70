package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys for storing session data in the Echo context.
const (
	contextKeySession = "auth_session"
	contextKeyAdminID = "auth_admin_id"
)

// RequireAuth returns middleware that validates the session cookie and
// injects the session into the request context. Unauthenticated API requests
// get a 401; browser requests are redirected to the login page.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return handleUnauthenticated(c)
			}

			session, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				// Invalid or expired session -- clear the stale cookie.
				clearSessionCookie(c)
				return handleUnauthenticated(c)
			}

			c.Set(contextKeySession, session)
			c.Set(contextKeyAdminID, session.AdminID)
			return next(c)
		}
	}
}

// handleUnauthenticated returns 401 JSON for API-shaped requests and a 303
// redirect to the login page for everything else.
func handleUnauthenticated(c echo.Context) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login")
}

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil when the middleware was not applied or auth failed.
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetAdminID retrieves the authenticated admin's ID from the Echo context.
func GetAdminID(c echo.Context) string {
	id, ok := c.Get(contextKeyAdminID).(string)
	if !ok {
		return ""
	}
	return id
}

// wantsJSON reports whether the request expects a JSON response: either it
// targets /api/, or it declares a JSON Accept/Content-Type. The admin media
// endpoints are JSON even though they live under /admin.
func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/") {
		return true
	}
	if strings.Contains(c.Request().Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(c.Request().Header.Get("Content-Type"), "application/json")
}
