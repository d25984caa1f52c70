package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/middleware"
)

// sessionCookieName is the HTTP cookie holding the session token.
const sessionCookieName = "resonora_session"

// Handler handles HTTP requests for admin authentication. Handlers are thin:
// bind, call the service, render.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// LoginForm renders the login page (GET /admin/login).
func (h *Handler) LoginForm(c echo.Context) error {
	// Already signed in: straight to the dashboard.
	if token := getSessionToken(c); token != "" {
		if _, err := h.service.ValidateSession(c.Request().Context(), token); err == nil {
			return c.Redirect(http.StatusSeeOther, "/admin")
		}
	}
	return middleware.Render(c, http.StatusOK, LoginPage(middleware.GetCSRFToken(c), "", ""))
}

// Login processes the login form submission (POST /admin/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	token, _, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Re-render the form with the error instead of bouncing through the
		// global error page.
		return middleware.Render(c, http.StatusOK,
			LoginPage(middleware.GetCSRFToken(c), req.Email, apperror.SafeMessage(err)))
	}

	setSessionCookie(c, token)
	return c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout destroys the session and clears the cookie (POST /admin/logout).
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		// The cookie is cleared regardless.
		_ = h.service.DestroySession(c.Request().Context(), token)
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/admin/login")
}

// changePasswordRequest is the body for password changes.
type changePasswordRequest struct {
	Current string `json:"current" form:"current"`
	New     string `json:"new" form:"new"`
}

// ChangePassword updates the signed-in admin's password (POST /admin/password).
func (h *Handler) ChangePassword(c echo.Context) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return apperror.NewUnauthorized("authentication required")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if err := h.service.ChangePassword(c.Request().Context(), adminID, req.Current, req.New); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie: HttpOnly, Secure behind TLS,
// SameSite=Lax.
func setSessionCookie(c echo.Context, token string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60, // 30 days in seconds
	})
}

// clearSessionCookie removes the session cookie.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
