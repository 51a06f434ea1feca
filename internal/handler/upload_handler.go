package handler

import (
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/rudrakalshethra/academy-api/pkg/config"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
	"github.com/rudrakalshethra/academy-api/pkg/response"
	"github.com/rudrakalshethra/academy-api/pkg/storage"
)

// UploadHandler accepts image uploads for catalog entries.
type UploadHandler struct {
	storage *storage.LocalStorage
	cfg     config.UploadsConfig
}

// NewUploadHandler creates a new handler.
func NewUploadHandler(store *storage.LocalStorage, cfg config.UploadsConfig) *UploadHandler {
	return &UploadHandler{storage: store, cfg: cfg}
}

// Upload godoc
// @Summary Upload an image
// @Description Stores an image file and returns its public path
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file field is required"))
		return
	}

	if fileHeader.Size > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file exceeds the %d byte limit", h.cfg.MaxFileSizeBytes)))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !h.allowedMIME(contentType) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("unsupported content type %q", contentType)))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload"))
		return
	}
	defer src.Close() //nolint:errcheck

	name := storage.UniqueName(fileHeader.Filename)
	if _, err := h.storage.SaveStream(name, src); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to store upload"))
		return
	}

	response.Created(c, gin.H{
		"filename": name,
		"path":     path.Join("/uploads", name),
	})
}

func (h *UploadHandler) allowedMIME(contentType string) bool {
	for _, allowed := range h.cfg.AllowedMIMEs {
		if contentType == allowed {
			return true
		}
	}
	return false
}
