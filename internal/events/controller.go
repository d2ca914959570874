package events

import (
	"errors"
	"net/http"

	"campusevents/internal/ledger"
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

// CreateEvent handles POST /api/v1/events (admin)
func (c *Controller) CreateEvent(ctx *gin.Context) {
	adminID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := c.service.CreateEvent(ctx.Request.Context(), adminID, req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to create event",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"data":    response,
	})
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	response, err := c.service.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ledger.ErrEventNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get event",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event retrieved successfully",
		"data":    response,
	})
}

// GetAllEvents handles GET /api/v1/events
func (c *Controller) GetAllEvents(ctx *gin.Context) {
	var query EventListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	result, err := c.service.GetAllEvents(ctx.Request.Context(), query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get events",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Events retrieved successfully",
		"data":    result,
	})
}

// UpdateEvent handles PUT /api/v1/events/:id (admin)
func (c *Controller) UpdateEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := c.service.UpdateEvent(ctx.Request.Context(), eventID, req)
	if err != nil {
		if errors.Is(err, ledger.ErrEventNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to update event",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully",
		"data":    response,
	})
}

// UpdateStatus handles PATCH /api/v1/events/:id/status (admin)
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := c.service.UpdateStatus(ctx.Request.Context(), eventID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEventNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, ErrInvalidTransition):
			ctx.JSON(http.StatusConflict, gin.H{
				"error":   "Invalid status transition",
				"details": err.Error(),
			})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to update status",
				"details": err.Error(),
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event status updated successfully",
		"data":    response,
	})
}

// UpdateCapacity handles PATCH /api/v1/events/:id/capacity (admin)
func (c *Controller) UpdateCapacity(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req UpdateCapacityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	change, err := c.service.SetCapacity(ctx.Request.Context(), eventID, req.TotalCapacity)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEventNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, ErrCapacityBelowConfirmed):
			ctx.JSON(http.StatusConflict, gin.H{
				"error":   "Capacity cannot drop below confirmed seats",
				"details": err.Error(),
			})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to update capacity",
				"details": err.Error(),
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event capacity updated successfully",
		"data":    change,
	})
}

// PromoteWaitlist handles POST /api/v1/events/:id/promote (admin)
func (c *Controller) PromoteWaitlist(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	result, err := c.service.PromoteWaitlist(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ledger.ErrEventNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to promote waitlist",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Waitlist promotion completed",
		"data":    result,
	})
}
