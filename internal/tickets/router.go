package tickets

import (
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures all ticket-related routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	regs := rg.Group("/registrations")
	regs.Use(middleware.RequireCaller())
	{
		regs.POST("/:id/tickets", controller.IssueTickets) // POST /api/v1/registrations/:id/tickets
		regs.GET("/:id/tickets", controller.GetTickets)    // GET /api/v1/registrations/:id/tickets
	}

	tickets := rg.Group("/tickets")
	tickets.Use(middleware.RequireCaller(), middleware.RequireAdmin())
	{
		tickets.GET("/:code", controller.GetTicketByCode) // GET /api/v1/tickets/:code
		tickets.POST("/check-in", controller.CheckIn)     // POST /api/v1/tickets/check-in
	}
}
