package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/vector-art/internal/config"
	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/internal/services/storage"
	"go.uber.org/zap"
)

const (
	maxCacheAge   = 3600
	imageParamKey = "image"
)

// SessionController is the session API the handlers drive.
type SessionController interface {
	CreateSession(ctx context.Context) (*models.Session, error)
	Session(ctx context.Context, id string) (*models.Session, error)
	FileSelected(ctx context.Context, id string, file models.UploadFile) (*models.Session, error)
	StartGenerate(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (*models.Artifact, error)
	Reset(ctx context.Context, id string) (*models.Session, error)
}

type ResultLookup interface {
	LookupResult(ctx context.Context, jobID string) (string, error)
}

type SessionHandler struct {
	controller SessionController
	results    ResultLookup
	logger     *zap.Logger
	config     *config.Config
}

func NewSessionHandler(
	controller SessionController,
	results ResultLookup,
	logger *zap.Logger,
	config *config.Config,
) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		results:    results,
		logger:     logger,
		config:     config,
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.controller.CreateSession(c.Request.Context())
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    session,
	})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.controller.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    session,
	})
}

// UploadImage validates the multipart image and hands it to the session.
func (h *SessionHandler) UploadImage(c *gin.Context) {
	file, err := h.readUpload(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.controller.FileSelected(c.Request.Context(), c.Param("id"), *file)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    session,
	})
}

// Generate starts the job in the background. Clients follow its progress on GET /sessions/:id.
func (h *SessionHandler) Generate(c *gin.Context) {
	id := c.Param("id")
	if err := h.controller.StartGenerate(c.Request.Context(), id); err != nil {
		h.respondSessionError(c, err)
		return
	}

	session, err := h.controller.Session(c.Request.Context(), id)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    session,
	})
}

// Download returns the saved result as an attachment.
func (h *SessionHandler) Download(c *gin.Context) {
	artifact, err := h.controller.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	contentType := artifact.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Name))
	if artifact.Location != "" {
		c.Header("X-Artifact-Location", artifact.Location)
	}
	c.Data(http.StatusOK, contentType, artifact.Data)
}

func (h *SessionHandler) Reset(c *gin.Context) {
	session, err := h.controller.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    session,
	})
}

// JobResult returns the result address recorded for a completed job.
func (h *SessionHandler) JobResult(c *gin.Context) {
	jobID := c.Param("jobId")
	address, err := h.results.LookupResult(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, storage.ErrResultNotFound) {
			h.respondError(c, http.StatusNotFound, "Unknown job")
			return
		}
		h.logger.Error("Failed to look up job result", zap.String("job_id", jobID), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to look up job result")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: gin.H{
			"job_id":         jobID,
			"result_address": address,
		},
	})
}
