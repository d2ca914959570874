package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"campusevents/internal/ledger"
	"campusevents/internal/shared/constants"
	"campusevents/pkg/cache"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
)

// Notifier informs affected users when a capacity change or an explicit
// promotion run confirms waitlisted registrations.
type Notifier interface {
	WaitlistPromoted(ctx context.Context, eventID uuid.UUID, promotions []ledger.Promotion)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetNotifier(notifier Notifier)

	CreateEvent(ctx context.Context, adminID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*EventResponse, error)
	SetCapacity(ctx context.Context, id uuid.UUID, newTotal int) (*CapacityChange, error)
	PromoteWaitlist(ctx context.Context, id uuid.UUID) (*PromotionResult, error)
}

// ServiceConfig carries the engine tunables the events module honours.
type ServiceConfig struct {
	PromotionPolicy ledger.Policy
	// EventCacheTTL bounds staleness of cached event details, which carry
	// live capacity.
	EventCacheTTL time.Duration
}

type service struct {
	repo         Repository
	config       *ServiceConfig
	cacheService cache.Service
	notifier     Notifier
	log          *logger.Logger
}

func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{PromotionPolicy: ledger.PolicyStrictFIFO}
	}
	if config.EventCacheTTL <= 0 {
		config.EventCacheTTL = constants.TTL_EVENT_DETAIL
	}
	return &service{
		repo:   repo,
		config: config,
		log:    logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Cache helper methods

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		s.log.WarnContext(ctx, "cache set failed", "key", key, "error", err.Error())
	}
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cacheService == nil {
		return false
	}
	err := s.cacheService.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.WarnContext(ctx, "cache get failed", "key", key, "error", err.Error())
	}
	return false
}

func (s *service) invalidateEventCache(ctx context.Context, eventID *uuid.UUID) {
	if s.cacheService == nil {
		return
	}

	patterns := []string{
		constants.PATTERN_INVALIDATE_EVENT_ALL,
	}
	if eventID != nil {
		patterns = append(patterns,
			constants.PATTERN_INVALIDATE_EVENT_DETAIL+eventID.String()+"*",
			constants.PATTERN_INVALIDATE_WAITLIST+eventID.String()+"*",
		)
	}

	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			s.log.WarnContext(ctx, "cache invalidation failed", "pattern", pattern, "error", err.Error())
		}
	}
}

func (s *service) CreateEvent(ctx context.Context, adminID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if req.StartsAt.Before(time.Now()) {
		return nil, errors.New("event start time must be in the future")
	}

	event := &Event{
		Name:          req.Name,
		Description:   req.Description,
		Venue:         req.Venue,
		StartsAt:      req.StartsAt,
		TotalCapacity: req.TotalCapacity,
		Capacity:      req.TotalCapacity,
		Status:        StatusUpcoming,
		CreatedBy:     adminID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.log.LogEventCreated(ctx, event.ID.String(), adminID.String())
	s.invalidateEventCache(ctx, nil)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	cacheKey := constants.BuildEventDetailKey(id.String())

	var cached EventResponse
	if s.getCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := event.ToResponse()
	s.setCache(ctx, cacheKey, response, s.config.EventCacheTTL)

	return &response, nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	// Search results bypass the cache; the key space would be unbounded.
	cacheable := query.Search == "" && query.Venue == ""
	cacheKey := constants.BuildEventListKey(query.Page, query.Limit, query.Status)

	if cacheable {
		var cached PaginatedEvents
		if s.getCache(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	events, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	eventResponses := make([]EventResponse, len(events))
	for i := range events {
		eventResponses[i] = events[i].ToResponse()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	result := &PaginatedEvents{
		Events:     eventResponses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	if cacheable {
		s.setCache(ctx, cacheKey, result, constants.TTL_EVENT_LIST)
	}

	return result, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.StartsAt != nil {
		if req.StartsAt.Before(time.Now()) {
			return nil, errors.New("event start time must be in the future")
		}
		updates["starts_at"] = *req.StartsAt
	}
	if len(updates) == 0 {
		return nil, errors.New("no fields to update")
	}
	updates["updated_at"] = time.Now()

	event, err := s.repo.UpdateFields(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	s.invalidateEventCache(ctx, &id)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*EventResponse, error) {
	event, err := s.repo.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}

	s.invalidateEventCache(ctx, &id)

	response := event.ToResponse()
	return &response, nil
}

// SetCapacity adjusts the event's capacity ceiling. Raising it frees seats
// and promotes waitlisted registrations immediately; lowering it is bounded
// by the seats already confirmed.
func (s *service) SetCapacity(ctx context.Context, id uuid.UUID, newTotal int) (*CapacityChange, error) {
	event, freed, promotions, err := s.repo.SetCapacity(ctx, id, newTotal, s.config.PromotionPolicy)
	if err != nil {
		return nil, err
	}

	s.log.LogCapacityChanged(ctx, id.String(), event.TotalCapacity-freed, event.TotalCapacity, event.Capacity)
	if len(promotions) > 0 {
		s.log.LogWaitlistPromotion(ctx, id.String(), len(promotions), event.Capacity)
		if s.notifier != nil {
			s.notifier.WaitlistPromoted(ctx, id, promotions)
		}
	}
	s.invalidateEventCache(ctx, &id)

	return &CapacityChange{
		Event:      event.ToResponse(),
		FreedSeats: freed,
		Promoted:   toPromotedRefs(promotions),
	}, nil
}

// PromoteWaitlist runs the promotion engine explicitly. A no-op when the
// event has no free capacity or no one waiting fits.
func (s *service) PromoteWaitlist(ctx context.Context, id uuid.UUID) (*PromotionResult, error) {
	promotions, remaining, err := s.repo.Promote(ctx, id, s.config.PromotionPolicy)
	if err != nil {
		return nil, err
	}

	if len(promotions) > 0 {
		s.log.LogWaitlistPromotion(ctx, id.String(), len(promotions), remaining)
		if s.notifier != nil {
			s.notifier.WaitlistPromoted(ctx, id, promotions)
		}
		s.invalidateEventCache(ctx, &id)
	}

	return &PromotionResult{
		Promoted:          toPromotedRefs(promotions),
		RemainingCapacity: remaining,
	}, nil
}

func toPromotedRefs(promotions []ledger.Promotion) []PromotedRef {
	refs := make([]PromotedRef, 0, len(promotions))
	for _, p := range promotions {
		refs = append(refs, PromotedRef{
			RegistrationID: p.RegistrationID.String(),
			UserID:         p.UserID.String(),
			Quantity:       p.Quantity,
		})
	}
	return refs
}
