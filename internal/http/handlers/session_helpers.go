package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/internal/services/fetcher"
	"github.com/phambaophuc/vector-art/internal/services/orchestrator"
	"github.com/phambaophuc/vector-art/internal/services/preview"
	"github.com/phambaophuc/vector-art/internal/services/remote"
	"github.com/phambaophuc/vector-art/internal/services/storage"
	"github.com/phambaophuc/vector-art/pkg/utils"
	"go.uber.org/zap"
)

// === REQUEST PARSING ===

func (h *SessionHandler) readUpload(c *gin.Context) (*models.UploadFile, error) {
	file, header, err := c.Request.FormFile(imageParamKey)
	if err != nil {
		return nil, fmt.Errorf("No image file provided")
	}
	defer file.Close()

	maxSize := h.config.Storage.MaxFileSize
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("Failed to read image: %v", err)
	}

	contentType := header.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		contentType = http.DetectContentType(data)
	}
	if !h.isAllowedType(contentType) {
		return nil, fmt.Errorf("Unsupported image type: %s", contentType)
	}

	upload := &models.UploadFile{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}
	if err := preview.ValidateImage(*upload, maxSize, h.config.Storage.MaxPixels); err != nil {
		return nil, fmt.Errorf("Invalid image: %v", err)
	}

	return upload, nil
}

func (h *SessionHandler) isAllowedType(contentType string) bool {
	if !utils.IsValidImageType(contentType) {
		return false
	}
	ct := strings.ToLower(contentType)
	for _, allowed := range h.config.Storage.AllowedTypes {
		if strings.HasPrefix(ct, allowed) {
			return true
		}
	}
	return false
}

// === RESPONSE HANDLING ===

func (h *SessionHandler) respondError(c *gin.Context, statusCode int, message string) {
	respondError(c, statusCode, message)
}

func respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondSessionError maps controller errors to status codes. The message is
// the one the user would see next to the action.
func (h *SessionHandler) respondSessionError(c *gin.Context, err error) {
	statusCode := sessionErrorStatus(err)
	if statusCode >= http.StatusInternalServerError {
		h.logger.Error("Session request failed",
			zap.String("session_id", c.Param("id")),
			zap.Int("status", statusCode),
			zap.Error(err))
	}

	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "Internal server error"
	}
	h.respondError(c, statusCode, message)
}

func sessionErrorStatus(err error) int {
	var (
		transportErr *remote.TransportError
		jobErr       *remote.JobFailedError
		timeoutErr   *remote.TimeoutError
		exhaustedErr *fetcher.DownloadExhaustedError
	)

	switch {
	case errors.Is(err, orchestrator.ErrNoUpload), errors.Is(err, orchestrator.ErrNoResult):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, storage.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &exhaustedErr),
		errors.As(err, &transportErr),
		errors.As(err, &jobErr),
		errors.As(err, &timeoutErr),
		errors.Is(err, fetcher.ErrMissingResult):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
