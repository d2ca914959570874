package registrations

import (
	"errors"
	"net/http"

	"campusevents/internal/events"
	"campusevents/internal/ledger"
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// Register handles POST /api/v1/registrations
func (c *Controller) Register(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": err.Error(),
		})
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), userID, eventID, req.Quantity)
	if err != nil {
		status, message := registerErrorStatus(err)
		ctx.JSON(status, gin.H{
			"error":   message,
			"details": err.Error(),
		})
		return
	}

	message := "Registration confirmed"
	if resp.Status == StatusWaitlisted {
		message = "Event is full, registration waitlisted"
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": message,
		"data":    resp,
	})
}

// GetRegistration handles GET /api/v1/registrations/:id
func (c *Controller) GetRegistration(ctx *gin.Context) {
	regID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reg, err := c.service.GetRegistration(ctx.Request.Context(), regID)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get registration",
			"details": err.Error(),
		})
		return
	}

	if !middleware.IsAdmin(ctx) && reg.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Registration retrieved successfully",
		"data":    reg.ToResponse(),
	})
}

// GetUserRegistrations handles GET /api/v1/users/registrations
func (c *Controller) GetUserRegistrations(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	regs, err := c.service.GetUserRegistrations(ctx.Request.Context(), userID, query.Limit, query.Offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get registrations",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Registrations retrieved successfully",
		"data": gin.H{
			"registrations": regs,
			"count":         len(regs),
			"limit":         query.Limit,
			"offset":        query.Offset,
		},
	})
}

// GetEventRegistrations handles GET /api/v1/events/:id/registrations
func (c *Controller) GetEventRegistrations(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	regs, err := c.service.GetEventRegistrations(ctx.Request.Context(), eventID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get event registrations",
			"details": err.Error(),
		})
		return
	}

	responses := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		responses = append(responses, regs[i].ToResponse())
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event registrations retrieved successfully",
		"data": gin.H{
			"registrations": responses,
			"count":         len(responses),
		},
	})
}

// CancelRegistration handles POST /api/v1/registrations/:id/cancel
func (c *Controller) CancelRegistration(ctx *gin.Context) {
	regID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var (
		resp *CancelResponse
	)
	if middleware.IsAdmin(ctx) {
		resp, err = c.service.CancelInternal(ctx.Request.Context(), regID)
	} else {
		resp, err = c.service.Cancel(ctx.Request.Context(), regID, userID)
	}
	if err != nil {
		status, message := cancelErrorStatus(err)
		ctx.JSON(status, gin.H{
			"error":   message,
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Registration cancelled successfully",
		"data":    resp,
	})
}

func registerErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrEventNotFound):
		return http.StatusNotFound, "Event not found"
	case errors.Is(err, events.ErrEventClosed):
		return http.StatusConflict, "Event is not accepting registrations"
	case errors.Is(err, ErrAlreadyRegistered):
		return http.StatusConflict, "Already registered for this event"
	case errors.Is(err, ledger.ErrInvalidQuantity), errors.Is(err, ErrQuantityTooLarge):
		return http.StatusBadRequest, "Invalid quantity"
	default:
		return http.StatusInternalServerError, "Failed to register"
	}
}

func cancelErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRegistrationNotFound):
		return http.StatusNotFound, "Registration not found"
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, ErrAlreadyCancelled):
		return http.StatusConflict, "Registration is already cancelled"
	default:
		return http.StatusInternalServerError, "Failed to cancel registration"
	}
}
