package registrations

import (
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRegistrationRoutes configures all registration-related routes
func SetupRegistrationRoutes(rg *gin.RouterGroup, controller *Controller) {
	registrations := rg.Group("/registrations")
	registrations.Use(middleware.RequireCaller())
	{
		registrations.POST("", controller.Register)                      // POST /api/v1/registrations
		registrations.GET("/:id", controller.GetRegistration)            // GET /api/v1/registrations/:id
		registrations.POST("/:id/cancel", controller.CancelRegistration) // POST /api/v1/registrations/:id/cancel
	}

	users := rg.Group("/users")
	users.Use(middleware.RequireCaller())
	{
		users.GET("/registrations", controller.GetUserRegistrations) // GET /api/v1/users/registrations
	}

	events := rg.Group("/events")
	events.Use(middleware.RequireCaller(), middleware.RequireAdmin())
	{
		events.GET("/:id/registrations", controller.GetEventRegistrations) // GET /api/v1/events/:id/registrations
	}
}
