package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the engine relies on for
// concurrency control. AutoMigrate cannot express partial unique indexes.
func MigrateConstraints(db *gorm.DB) error {
	// At most one non-cancelled registration per (user, event). The engine
	// checks this inside the event transaction; the index is the backstop
	// that makes a racing duplicate a hard failure rather than silent
	// corruption.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_active_registration
		ON registrations (user_id, event_id)
		WHERE status != 'CANCELLED';
	`).Error
	if err != nil {
		return err
	}

	// Waitlist is read as an ordered index: status + arrival time.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_registrations_waitlist_order
		ON registrations (event_id, status, created_at);
	`).Error
	if err != nil {
		return err
	}

	// Remaining capacity can never exceed the ceiling.
	err = db.Exec(`
		ALTER TABLE events
		DROP CONSTRAINT IF EXISTS capacity_within_ceiling;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		ALTER TABLE events
		ADD CONSTRAINT capacity_within_ceiling
		CHECK (capacity <= total_capacity);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
