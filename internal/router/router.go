package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stowage/internal/config"
	"stowage/internal/handler"
	"stowage/internal/metrics"
	"stowage/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Bucket       *handler.BucketHandler
	Object       *handler.ObjectHandler
	Folder       *handler.FolderHandler
	Notification *handler.NotificationHandler
	Audit        *handler.AuditHandler
	Health       *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, validator middleware.TokenValidator, h Handlers, log *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// Protected routes - require valid JWT
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(validator))

	buckets := v1.Group("/buckets")
	buckets.GET("", h.Bucket.List)
	buckets.POST("", h.Bucket.Create)
	buckets.DELETE("/:bucket", h.Bucket.Delete)

	// Object listing and bulk operations
	objects := buckets.Group("/:bucket/objects")
	objects.GET("", h.Object.List)
	objects.POST("", h.Object.Upload)
	objects.GET("/export", h.Object.Export)
	objects.POST("/fetch", h.Object.Fetch)
	objects.POST("/delete", h.Object.DeleteBatch)

	// Single object operations, keyed by the "key" query parameter
	object := buckets.Group("/:bucket/object")
	object.GET("", h.Object.Head)
	object.DELETE("", h.Object.Delete)
	object.GET("/exists", h.Object.Exists)
	object.GET("/size", h.Object.Size)
	object.GET("/url", h.Object.SignedURL)
	object.POST("/copy", h.Object.Copy)
	object.POST("/rename", h.Object.Rename)

	folders := buckets.Group("/:bucket/folders")
	folders.POST("", h.Folder.Create)
	folders.DELETE("", h.Folder.Delete)
	folders.GET("/exists", h.Folder.Exists)

	notifications := v1.Group("/notifications")
	notifications.POST("/sms", h.Notification.SendSMS)
	notifications.POST("/email", h.Notification.SendEmail)

	v1.GET("/audit", h.Audit.List)

	return r
}
