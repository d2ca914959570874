package waitlist

import (
	"context"
	"errors"
	"time"

	"campusevents/internal/shared/constants"
	"campusevents/pkg/cache"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
)

// Service exposes read-only views over an event's waitlist. Joining and
// leaving the queue happen through the registrations module; promotion
// through the events module.
type Service interface {
	SetCacheService(cacheService cache.Service)

	GetEntries(ctx context.Context, eventID uuid.UUID) ([]WaitlistEntryResponse, error)
	GetPosition(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error)
	GetStats(ctx context.Context, eventID uuid.UUID) (*WaitlistStatsResponse, error)
}

// ServiceConfig carries the cache tunables the waitlist module honours.
type ServiceConfig struct {
	// PositionTTL bounds staleness of cached queue positions.
	PositionTTL time.Duration
}

type service struct {
	repo         Repository
	config       *ServiceConfig
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}
	if config.PositionTTL <= 0 {
		config.PositionTTL = constants.TTL_WAITLIST_POSITION
	}
	return &service{
		repo:   repo,
		config: config,
		log:    logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetEntries(ctx context.Context, eventID uuid.UUID) ([]WaitlistEntryResponse, error) {
	return s.repo.Entries(ctx, eventID)
}

// GetPosition is cache-aside with a short TTL; positions move whenever a
// promotion or cancellation lands, so staleness is bounded tightly.
func (s *service) GetPosition(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error) {
	cacheKey := constants.BuildWaitlistPositionKey(eventID.String(), userID.String())

	if s.cacheService != nil {
		var cached PositionResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "cache get failed", "key", cacheKey, "error", err.Error())
		}
	}

	position, err := s.repo.Position(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, position, s.config.PositionTTL); err != nil {
			s.log.WarnContext(ctx, "cache set failed", "key", cacheKey, "error", err.Error())
		}
	}

	return position, nil
}

func (s *service) GetStats(ctx context.Context, eventID uuid.UUID) (*WaitlistStatsResponse, error) {
	cacheKey := constants.BuildWaitlistStatsKey(eventID.String())

	if s.cacheService != nil {
		var cached WaitlistStatsResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "cache get failed", "key", cacheKey, "error", err.Error())
		}
	}

	stats, err := s.repo.Stats(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, stats, constants.TTL_WAITLIST_STATS); err != nil {
			s.log.WarnContext(ctx, "cache set failed", "key", cacheKey, "error", err.Error())
		}
	}

	return stats, nil
}
