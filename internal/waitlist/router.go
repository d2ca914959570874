package waitlist

import (
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWaitlistRoutes configures all waitlist-related routes
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller) {
	waitlist := rg.Group("/events/:id/waitlist")
	{
		waitlist.GET("/stats", controller.GetStats) // GET /api/v1/events/:id/waitlist/stats

		waitlist.GET("/position", middleware.RequireCaller(), controller.GetPosition) // GET /api/v1/events/:id/waitlist/position

		waitlist.GET("", middleware.RequireCaller(), middleware.RequireAdmin(), controller.GetEntries) // GET /api/v1/events/:id/waitlist
	}
}
