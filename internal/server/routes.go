package server

import (
	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/handlers"
	"example.com/syncscript/backend/internal/metrics"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	projectHandler *handlers.ProjectHandler,
	energyHandler *handlers.EnergyHandler,
	bandHandler *handlers.BandHandler,
	goalHandler *handlers.GoalHandler,
	templateHandler *handlers.TemplateHandler,
	suggestionHandler *handlers.SuggestionHandler,
	briefingHandler *handlers.BriefingHandler,
	notificationHandler *handlers.NotificationHandler,
	m *metrics.Metrics,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	suggestionsRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	tasks := api.Group("/tasks", authMiddleware)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.PATCH("/reorder", taskHandler.Reorder)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.PATCH("/:id/complete", taskHandler.Complete)
	tasks.POST("/:id/duplicate", taskHandler.Duplicate)
	tasks.POST("/:id/subtasks", taskHandler.CreateSubtask)

	subtasks := api.Group("/subtasks", authMiddleware)
	subtasks.PATCH("/:subtaskId/toggle", taskHandler.ToggleSubtask)
	subtasks.DELETE("/:subtaskId", taskHandler.DeleteSubtask)

	projects := api.Group("/projects", authMiddleware)
	projects.GET("", projectHandler.List)
	projects.POST("", projectHandler.Create)
	projects.PATCH("/reorder", projectHandler.Reorder)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.GET("/:id/export/json", projectHandler.ExportJSON)
	projects.GET("/:id/export/csv", projectHandler.ExportCSV)

	energy := api.Group("/energy", authMiddleware)
	energy.GET("", energyHandler.List)
	energy.POST("", energyHandler.Create)
	energy.GET("/latest", energyHandler.Latest)
	energy.GET("/summary", energyHandler.Summary)
	energy.GET("/streak", energyHandler.Streak)

	bands := api.Group("/bands", authMiddleware)
	bands.GET("", bandHandler.List)
	bands.PUT("", bandHandler.Upsert)
	bands.DELETE("/:categoryId", bandHandler.Delete)

	goals := api.Group("/goals", authMiddleware)
	goals.GET("", goalHandler.List)
	goals.POST("", goalHandler.Create)
	goals.PUT("/:id", goalHandler.Update)
	goals.DELETE("/:id", goalHandler.Delete)
	goals.POST("/:id/progress", goalHandler.AddProgress)

	templates := api.Group("/templates", authMiddleware)
	templates.GET("", templateHandler.List)
	templates.POST("", templateHandler.Create)
	templates.PUT("/:id", templateHandler.Update)
	templates.DELETE("/:id", templateHandler.Delete)
	templates.POST("/:id/tasks", taskHandler.CreateFromTemplate)

	suggestions := api.Group("/suggestions", authMiddleware, suggestionsRateLimiter)
	suggestions.GET("", suggestionHandler.List)

	briefings := api.Group("/briefings", authMiddleware)
	briefings.GET("/morning", briefingHandler.Morning)
	briefings.GET("/evening", briefingHandler.Evening)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)
}
