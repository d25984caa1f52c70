package media

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

// Handler handles HTTP requests for the media library.
type Handler struct {
	service MediaService
}

// NewHandler creates a new media handler.
func NewHandler(service MediaService) *Handler {
	return &Handler{service: service}
}

// Upload handles multipart file uploads (POST /admin/media/upload).
// Expects form fields: file, context, and optional alt_text/caption.
func (h *Handler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperror.NewBadRequest("no file provided")
	}

	src, err := file.Open()
	if err != nil {
		return apperror.NewInternal(err)
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return apperror.NewInternal(err)
	}

	item, err := h.service.Upload(c.Request().Context(), UploadInput{
		Context:      c.FormValue("context"),
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		AltText:      c.FormValue("alt_text"),
		Caption:      c.FormValue("caption"),
		Data:         fileBytes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, item)
}

// List returns one page of the media library (GET /admin/media).
func (h *Handler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	items, total, err := h.service.List(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}

	records := make([]DisplayRecord, 0, len(items))
	for i := range items {
		records = append(records, h.service.FormatItem(c.Request().Context(), &items[i], assetstore.SizeThumb))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": records,
		"total": total,
	})
}

// Show returns one formatted media item (GET /admin/media/:id). The optional
// size query parameter selects the preferred conversion.
func (h *Handler) Show(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	preferred := c.QueryParam("size")
	if _, ok := assetstore.SizeByName(preferred); !ok {
		preferred = assetstore.SizeLarge
	}

	item, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.service.FormatItem(c.Request().Context(), item, preferred))
}

// Update edits display metadata (PATCH /admin/media/:id).
func (h *Handler) Update(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	var in UpdateMetaInput
	if err := c.Bind(&in); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	item, err := h.service.UpdateMeta(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// syncOwnerRequest is the body for owner reassignment.
type syncOwnerRequest struct {
	OwnerType string `json:"owner_type"`
	OwnerID   int64  `json:"owner_id"`
}

// SyncOwner attaches or detaches an owner entity (PUT /admin/media/:id/owner).
func (h *Handler) SyncOwner(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	var req syncOwnerRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.SyncOwner(c.Request().Context(), id, req.OwnerType, req.OwnerID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Delete removes one media item (DELETE /admin/media/:id). Items in use by an
// owner entity are refused with a conflict naming the owner.
func (h *Handler) Delete(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// batchDeleteRequest is the body for batch deletion.
type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchDelete deletes several items independently (POST /admin/media/batch-delete)
// and returns per-item results.
func (h *Handler) BatchDelete(c echo.Context) error {
	var req batchDeleteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if len(req.IDs) == 0 {
		return apperror.NewBadRequest("no ids provided")
	}

	results := h.service.BatchDelete(c.Request().Context(), req.IDs)
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}

// itemID parses the :id route parameter.
func itemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequest("invalid media id")
	}
	return id, nil
}
