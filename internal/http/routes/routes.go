package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/vector-art/internal/http/handlers"
	"github.com/phambaophuc/vector-art/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	sessionHandler *handlers.SessionHandler
	healthHandler  *handlers.HealthHandler
	proxyHandler   *handlers.ProxyHandler
	allowedOrigins []string
	logger         *zap.Logger
}

func NewRouter(
	sessionHandler *handlers.SessionHandler,
	healthHandler *handlers.HealthHandler,
	proxyHandler *handlers.ProxyHandler,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		sessionHandler: sessionHandler,
		healthHandler:  healthHandler,
		proxyHandler:   proxyHandler,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS(r.allowedOrigins))
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.healthHandler.HealthCheck)
		v1.GET("/stats", r.healthHandler.GetStats)
		v1.GET("/download-proxy", r.proxyHandler.DownloadProxy)
		v1.GET("/jobs/:jobId/result", r.sessionHandler.JobResult)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.sessionHandler.CreateSession)
			sessions.GET("/:id", r.sessionHandler.GetSession)
			sessions.POST("/:id/upload", middleware.RequireMultipart(), r.sessionHandler.UploadImage)
			sessions.POST("/:id/generate", r.sessionHandler.Generate)
			sessions.POST("/:id/download", r.sessionHandler.Download)
			sessions.POST("/:id/reset", r.sessionHandler.Reset)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Vector art service is running",
		})
	})

	return router
}
