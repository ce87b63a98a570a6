package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clerkrota/backend/config"
	"clerkrota/backend/internal/api/handler"
	"clerkrota/backend/internal/api/middleware"
	"clerkrota/backend/pkg/redis"
)

// maxBodyBytes caps request bodies; bulk assignment batches stay well under
// this.
const maxBodyBytes = 1 << 20 // 1MB

// Setup builds the Gin engine with the full middleware chain and route map.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── Health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		students := v1.Group("/students")
		{
			students.POST("", h.Student.Create)
			students.GET("", h.Student.List)
			students.GET("/:id", h.Student.Get)
			students.PUT("/:id", h.Student.Update)
			students.DELETE("/:id", h.Student.Delete)
			students.GET("/:id/progress", h.Assignment.GetProgress)
		}

		sites := v1.Group("/sites")
		{
			sites.POST("", h.Site.Create)
			sites.GET("", h.Site.List)
			sites.GET("/:id", h.Site.Get)
			sites.PUT("/:id", h.Site.Update)
			sites.DELETE("/:id", h.Site.Delete)
		}

		preceptors := v1.Group("/preceptors")
		{
			preceptors.POST("", h.Preceptor.Create)
			preceptors.GET("", h.Preceptor.List)
			preceptors.GET("/:id", h.Preceptor.Get)
			preceptors.PUT("/:id", h.Preceptor.Update)
			preceptors.DELETE("/:id", h.Preceptor.Delete)
			preceptors.GET("/:id/availability", h.Availability.ListByPreceptor)
		}

		clerkships := v1.Group("/clerkships")
		{
			clerkships.POST("", h.Clerkship.Create)
			clerkships.GET("", h.Clerkship.List)
			clerkships.GET("/:id", h.Clerkship.Get)
			clerkships.PUT("/:id", h.Clerkship.Update)
			clerkships.DELETE("/:id", h.Clerkship.Delete)
		}

		availability := v1.Group("/availability")
		{
			availability.PUT("", h.Availability.Set)
			availability.PUT("/range", h.Availability.SetRange)
			availability.DELETE("/:preceptor_id/:date", h.Availability.Delete)
		}

		blackouts := v1.Group("/blackouts")
		{
			blackouts.POST("", h.Blackout.Create)
			blackouts.GET("", h.Blackout.ListRange)
			blackouts.DELETE("/:date", h.Blackout.Delete)
		}

		assignments := v1.Group("/assignments")
		{
			assignments.POST("", h.Assignment.Create)
			assignments.POST("/bulk", h.Assignment.BulkCreate)
			assignments.POST("/validate", h.Assignment.Validate)
			assignments.GET("", h.Assignment.List)
			assignments.GET("/:id", h.Assignment.Get)
			assignments.PUT("/:id", h.Assignment.Update)
			assignments.DELETE("/:id", h.Assignment.Delete)
		}

		// Regeneration mutates many records at once; rate limit it harder
		// than the rest of the surface.
		schedule := v1.Group("/schedule")
		schedule.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			schedule.POST("/impact", h.Regeneration.AnalyzeImpact)
			schedule.POST("/regenerate", h.Regeneration.Apply)
		}
	}

	return r
}
