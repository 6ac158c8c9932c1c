package httptransport

import (
	"log/slog"

	"github.com/Arolejosia/kanban-fullstack/internal/http/handler"
	"github.com/Arolejosia/kanban-fullstack/internal/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, taskHandler *handler.TaskHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Credential endpoints are unauthenticated but throttled per IP.
	authLimiter := middleware.RateLimit(middleware.NewTokenBucket(1, 10))
	auth := r.Group("/api/auth", authLimiter)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	tasks := r.Group("/api/tasks", middleware.Auth(jwtKey))
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/due-soon", taskHandler.ListDueSoon)
	tasks.GET("/reminders", taskHandler.ListReminders)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.POST("/:id/mark-reminder-sent", taskHandler.MarkReminderSent)

	return r
}
