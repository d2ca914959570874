package tickets

import (
	"errors"
	"net/http"

	"campusevents/internal/registrations"
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// IssueTickets handles POST /api/v1/registrations/:id/tickets
func (c *Controller) IssueTickets(ctx *gin.Context) {
	registrationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	resp, err := c.service.Issue(ctx.Request.Context(), registrationID, callerID, middleware.IsAdmin(ctx))
	if err != nil {
		status, message := issueErrorStatus(err)
		ctx.JSON(status, gin.H{
			"error":   message,
			"details": err.Error(),
		})
		return
	}

	if resp.AlreadyIssued {
		ctx.JSON(http.StatusConflict, gin.H{
			"message": "Tickets were already issued for this registration",
			"data":    resp,
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Tickets issued successfully",
		"data":    resp,
	})
}

// GetTickets handles GET /api/v1/registrations/:id/tickets
func (c *Controller) GetTickets(ctx *gin.Context) {
	registrationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tickets, err := c.service.ListByRegistration(ctx.Request.Context(), registrationID, callerID, middleware.IsAdmin(ctx))
	if err != nil {
		if errors.Is(err, registrations.ErrNotOwner) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get tickets",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Tickets retrieved successfully",
		"data": gin.H{
			"tickets": tickets,
			"count":   len(tickets),
		},
	})
}

// GetTicketByCode handles GET /api/v1/tickets/:code (admin)
func (c *Controller) GetTicketByCode(ctx *gin.Context) {
	code := ctx.Param("code")

	ticket, err := c.service.GetByCode(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get ticket",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Ticket retrieved successfully",
		"data":    ticket,
	})
}

// CheckIn handles POST /api/v1/tickets/check-in (admin)
func (c *Controller) CheckIn(ctx *gin.Context) {
	var req CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := c.service.CheckIn(ctx.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		case errors.Is(err, ErrTicketNotActive):
			ctx.JSON(http.StatusConflict, gin.H{
				"error":   "Ticket cannot be checked in",
				"details": err.Error(),
			})
		case errors.Is(err, ErrEventClosed):
			ctx.JSON(http.StatusConflict, gin.H{
				"error":   "Event does not allow check-in",
				"details": err.Error(),
			})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to check in ticket",
				"details": err.Error(),
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Ticket checked in successfully",
		"data":    resp,
	})
}

func issueErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, registrations.ErrRegistrationNotFound):
		return http.StatusNotFound, "Registration not found"
	case errors.Is(err, registrations.ErrNotOwner):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, ErrNotConfirmed):
		return http.StatusConflict, "Registration is not confirmed"
	case errors.Is(err, ErrEventClosed):
		return http.StatusConflict, "Event does not allow ticket issuance"
	default:
		return http.StatusInternalServerError, "Failed to issue tickets"
	}
}
