package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/vector-art/internal/models"
)

// RequireMultipart rejects requests whose body is not multipart/form-data.
// File contents are validated by the handlers.
func RequireMultipart() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		contentType := ctx.GetHeader("Content-Type")

		if !strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, models.APIResponse{
				Success: false,
				Error:   "Expected multipart/form-data upload",
			})
			return
		}

		ctx.Next()
	}
}
