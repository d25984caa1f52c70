package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// Handler handles HTTP requests for site settings.
type Handler struct {
	service SettingsService
}

// NewHandler creates a new settings handler.
func NewHandler(service SettingsService) *Handler {
	return &Handler{service: service}
}

// Show returns the typed site configuration (GET /admin/settings).
func (h *Handler) Show(c echo.Context) error {
	config, err := h.service.Config(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, config)
}

// Update applies submitted settings (PUT /admin/settings). The body is a
// flat map of setting key to value.
func (h *Handler) Update(c echo.Context) error {
	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.Update(c.Request().Context(), values); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
