package events

import (
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes (read-only)
	events := rg.Group("/events")
	{
		events.GET("", controller.GetAllEvents) // GET /api/v1/events
		events.GET("/:id", controller.GetEvent) // GET /api/v1/events/:id
	}

	// Admin routes
	admin := rg.Group("/events")
	admin.Use(middleware.RequireCaller(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateEvent)                  // POST /api/v1/events
		admin.PUT("/:id", controller.UpdateEvent)               // PUT /api/v1/events/:id
		admin.PATCH("/:id/status", controller.UpdateStatus)     // PATCH /api/v1/events/:id/status
		admin.PATCH("/:id/capacity", controller.UpdateCapacity) // PATCH /api/v1/events/:id/capacity
		admin.POST("/:id/promote", controller.PromoteWaitlist)  // POST /api/v1/events/:id/promote
	}
}
