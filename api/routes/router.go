// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"campusevents/internal/events"
	"campusevents/internal/ledger"
	"campusevents/internal/notifications"
	"campusevents/internal/registrations"
	"campusevents/internal/shared/config"
	"campusevents/internal/shared/database"
	"campusevents/internal/tickets"
	"campusevents/internal/waitlist"
	"campusevents/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	publisher    *notifications.Publisher
	cacheService cache.Service
	policy       ledger.Policy
}

// NewRouter creates a new router instance. The producer may be nil when
// Kafka is disabled; notifications are then dropped silently.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.NotificationProducer) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: notifications.NewPublisher(producer),
		policy:    ledger.ParsePolicy(cfg.Engine.PromotionPolicy),
	}
	if redisClient := db.GetRedisClient(); redisClient != nil {
		r.cacheService = cache.NewService(redisClient)
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEventRoutes(api)
		r.setupRegistrationRoutes(api)
		r.setupWaitlistRoutes(api)
		r.setupTicketRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "campusevents-api",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "campusevents-api",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, &events.ServiceConfig{
		PromotionPolicy: r.policy,
		EventCacheTTL:   r.config.Redis.EventCacheTTL,
	})
	if r.cacheService != nil {
		eventService.SetCacheService(r.cacheService)
	}
	eventService.SetNotifier(r.publisher)
	eventController := events.NewController(eventService)

	events.SetupEventRoutes(rg, eventController)
}

// setupRegistrationRoutes configures registration lifecycle routes
func (r *Router) setupRegistrationRoutes(rg *gin.RouterGroup) {
	regStore := registrations.NewStore(r.db.GetPostgreSQL())
	regService := registrations.NewService(regStore, &registrations.ServiceConfig{
		MaxQuantityPerUser: r.config.Engine.MaxQuantityPerUser,
		PromotionPolicy:    r.policy,
	})
	regService.SetNotifier(r.publisher)
	regController := registrations.NewController(regService)

	registrations.SetupRegistrationRoutes(rg, regController)
}

// setupWaitlistRoutes configures waitlist inspection routes
func (r *Router) setupWaitlistRoutes(rg *gin.RouterGroup) {
	waitlistRepo := waitlist.NewRepository(r.db.GetPostgreSQL())
	waitlistService := waitlist.NewService(waitlistRepo, &waitlist.ServiceConfig{
		PositionTTL: r.config.Redis.PositionCacheTTL,
	})
	if r.cacheService != nil {
		waitlistService.SetCacheService(r.cacheService)
	}
	waitlistController := waitlist.NewController(waitlistService)

	waitlist.SetupWaitlistRoutes(rg, waitlistController)
}

// setupTicketRoutes configures ticket issuance and check-in routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketStore := tickets.NewStore(r.db.GetPostgreSQL())
	ticketService := tickets.NewService(ticketStore)
	ticketService.SetNotifier(r.publisher)
	ticketService.SetEncoder(tickets.NewQREncoder("", 0))
	ticketController := tickets.NewController(ticketService)

	tickets.SetupTicketRoutes(rg, ticketController)
}
