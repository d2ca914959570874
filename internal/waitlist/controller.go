package waitlist

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

// GetEntries handles GET /api/v1/events/:id/waitlist (admin)
func (c *Controller) GetEntries(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	entries, err := c.service.GetEntries(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ledger.ErrEventNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get waitlist entries",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Waitlist entries retrieved successfully",
		"data": gin.H{
			"entries": entries,
			"count":   len(entries),
		},
	})
}

// GetPosition handles GET /api/v1/events/:id/waitlist/position
func (c *Controller) GetPosition(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	position, err := c.service.GetPosition(ctx.Request.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEventNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, ErrNotWaitlisted):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not on the waitlist for this event"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to get waitlist position",
				"details": err.Error(),
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Waitlist position retrieved successfully",
		"data":    position,
	})
}

// GetStats handles GET /api/v1/events/:id/waitlist/stats
func (c *Controller) GetStats(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	stats, err := c.service.GetStats(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ledger.ErrEventNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get waitlist stats",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Waitlist stats retrieved successfully",
		"data":    stats,
	})
}
