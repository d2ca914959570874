package database

import (
	"campusevents/internal/events"
	"campusevents/internal/registrations"
	"campusevents/internal/tickets"
	"campusevents/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&registrations.Registration{},
		&tickets.Ticket{},
	)
}
