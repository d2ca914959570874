package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/ledger"
	"campusevents/internal/registrations"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the waitlist as an ordered index over waitlisted
// registrations. It never mutates anything; promotion happens in the ledger.
type Repository interface {
	// Entries returns the queue in FIFO order.
	Entries(ctx context.Context, eventID uuid.UUID) ([]WaitlistEntryResponse, error)

	// Position returns the user's 1-based place in the queue plus the queue
	// length and the waitlisted registration itself.
	Position(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error)

	// Stats summarizes the queue and the event's remaining capacity.
	Stats(ctx context.Context, eventID uuid.UUID) (*WaitlistStatsResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Entries(ctx context.Context, eventID uuid.UUID) ([]WaitlistEntryResponse, error) {
	if err := r.eventExists(ctx, eventID); err != nil {
		return nil, err
	}

	var regs []registrations.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("status = ?", registrations.StatusWaitlisted).
		Order("created_at ASC, id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist entries: %w", err)
	}

	entries := make([]WaitlistEntryResponse, len(regs))
	for i, reg := range regs {
		entries[i] = WaitlistEntryResponse{
			RegistrationID: reg.ID,
			UserID:         reg.UserID,
			Quantity:       reg.Quantity,
			Position:       i + 1,
			JoinedAt:       reg.CreatedAt,
		}
	}
	return entries, nil
}

func (r *repository) Position(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error) {
	var reg registrations.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("user_id = ?", userID).
		Where("status = ?", registrations.StatusWaitlisted).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.eventExists(ctx, eventID); err != nil {
				return nil, err
			}
			return nil, ErrNotWaitlisted
		}
		return nil, err
	}

	// Rank by (created_at, id), same order the promotion engine uses.
	var ahead int64
	err = r.db.WithContext(ctx).Model(&registrations.Registration{}).
		Where("event_id = ?", eventID).
		Where("status = ?", registrations.StatusWaitlisted).
		Where("(created_at < ?) OR (created_at = ? AND id < ?)", reg.CreatedAt, reg.CreatedAt, reg.ID).
		Count(&ahead).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute waitlist position: %w", err)
	}

	var total int64
	err = r.db.WithContext(ctx).Model(&registrations.Registration{}).
		Where("event_id = ?", eventID).
		Where("status = ?", registrations.StatusWaitlisted).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count waitlist: %w", err)
	}

	return &PositionResponse{
		EventID:        eventID,
		RegistrationID: reg.ID,
		Position:       int(ahead) + 1,
		QueueLength:    int(total),
		Quantity:       reg.Quantity,
	}, nil
}

func (r *repository) Stats(ctx context.Context, eventID uuid.UUID) (*WaitlistStatsResponse, error) {
	var ev struct {
		Capacity int
	}
	err := r.db.WithContext(ctx).Table("events").
		Select("capacity").
		Where("id = ?", eventID).
		First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrEventNotFound
		}
		return nil, err
	}

	var agg struct {
		Total  int64
		Seats  int64
		Oldest *time.Time
	}
	err = r.db.WithContext(ctx).Model(&registrations.Registration{}).
		Select("COUNT(*) AS total, COALESCE(SUM(quantity), 0) AS seats, MIN(created_at) AS oldest").
		Where("event_id = ?", eventID).
		Where("status = ?", registrations.StatusWaitlisted).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate waitlist stats: %w", err)
	}

	return &WaitlistStatsResponse{
		EventID:        eventID,
		TotalInQueue:   int(agg.Total),
		RequestedSeats: int(agg.Seats),
		OldestJoinedAt: agg.Oldest,
		RemainingSeats: ev.Capacity,
	}, nil
}

func (r *repository) eventExists(ctx context.Context, eventID uuid.UUID) error {
	var count int64
	err := r.db.WithContext(ctx).Table("events").
		Where("id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ledger.ErrEventNotFound
	}
	return nil
}
