package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"campusevents/internal/events"
	"campusevents/internal/registrations"
	"campusevents/internal/shared/config"
	"campusevents/internal/shared/database"
	"campusevents/internal/users"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Campus Events Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"tickets",
		"registrations",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	eventIDs, err := s.SeedEvents(userIDs["admin"])
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedRegistrations(eventIDs, userIDs); err != nil {
		return fmt.Errorf("failed to seed registrations: %w", err)
	}

	// Clear Redis cache so reads reflect the fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates 1 admin and 4 regular attendees.
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Campus", "Admin", "admin@campus.edu", users.RoleAdmin},
		{"user1", "Ada", "Lovelace", "ada@campus.edu", users.RoleUser},
		{"user2", "Grace", "Hopper", "grace@campus.edu", users.RoleUser},
		{"user3", "Alan", "Turing", "alan@campus.edu", users.RoleUser},
		{"user4", "Edsger", "Dijkstra", "edsger@campus.edu", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedEvents creates sample events, including a deliberately tiny one so the
// waitlist has something to do out of the box.
func (s *Seeder) SeedEvents(adminID uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🎪 Seeding events...")

	var eventIDs []uuid.UUID

	eventsData := []struct {
		name          string
		description   string
		venue         string
		totalCapacity int
		daysFromNow   int
	}{
		{
			name:          "Orientation Week Kickoff",
			description:   "Welcome session for incoming students with campus tours and club booths.",
			venue:         "Main Auditorium",
			totalCapacity: 500,
			daysFromNow:   14,
		},
		{
			name:          "Guest Lecture: Distributed Systems",
			description:   "A visiting researcher walks through consensus protocols in production.",
			venue:         "Lecture Hall B",
			totalCapacity: 120,
			daysFromNow:   21,
		},
		{
			name:          "Robotics Club Workshop",
			description:   "Hands-on workshop with a strictly limited number of lab benches.",
			venue:         "Engineering Lab 3",
			totalCapacity: 4,
			daysFromNow:   7,
		},
		{
			name:          "Spring Career Fair",
			description:   "Employers from across the region with on-the-spot interview slots.",
			venue:         "Sports Complex",
			totalCapacity: 1000,
			daysFromNow:   45,
		},
	}

	for _, eventData := range eventsData {
		event := events.Event{
			ID:            uuid.New(),
			Name:          eventData.name,
			Description:   eventData.description,
			Venue:         eventData.venue,
			StartsAt:      time.Now().AddDate(0, 0, eventData.daysFromNow),
			TotalCapacity: eventData.totalCapacity,
			Capacity:      eventData.totalCapacity,
			Status:        events.StatusUpcoming,
			CreatedBy:     adminID,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return nil, fmt.Errorf("failed to create event %s: %w", event.Name, err)
		}

		eventIDs = append(eventIDs, event.ID)
		fmt.Printf("    ✅ Created event: %s (capacity %d)\n", event.Name, event.TotalCapacity)
	}

	return eventIDs, nil
}

// SeedRegistrations fills the workshop event to capacity and queues the
// overflow, keeping events.capacity consistent with the confirmed rows.
func (s *Seeder) SeedRegistrations(eventIDs []uuid.UUID, userIDs map[string]uuid.UUID) error {
	fmt.Println("  📝 Seeding registrations...")

	workshopID := eventIDs[2]

	registrationsData := []struct {
		userKey  string
		quantity int
		status   registrations.Status
	}{
		{"user1", 2, registrations.StatusConfirmed},
		{"user2", 2, registrations.StatusConfirmed},
		{"user3", 1, registrations.StatusWaitlisted},
		{"user4", 3, registrations.StatusWaitlisted},
	}

	confirmedSeats := 0
	for i, regData := range registrationsData {
		now := time.Now()
		reg := registrations.Registration{
			ID:       uuid.New(),
			UserID:   userIDs[regData.userKey],
			EventID:  workshopID,
			Quantity: regData.quantity,
			Status:   regData.status,
			// Stagger created_at so the waitlist order is deterministic
			CreatedAt: now.Add(time.Duration(i) * time.Second),
			UpdatedAt: now,
		}
		if regData.status == registrations.StatusConfirmed {
			reg.ConfirmedAt = &now
			confirmedSeats += regData.quantity
		}

		if err := s.db.PostgreSQL.Create(&reg).Error; err != nil {
			return fmt.Errorf("failed to create registration for %s: %w", regData.userKey, err)
		}
		fmt.Printf("    ✅ Created registration: %s x%d (%s)\n", regData.userKey, regData.quantity, regData.status)
	}

	// Keep the ledger consistent with the rows just inserted
	if err := s.db.PostgreSQL.Exec(
		"UPDATE events SET capacity = total_capacity - ? WHERE id = ?",
		confirmedSeats, workshopID,
	).Error; err != nil {
		return fmt.Errorf("failed to sync event capacity: %w", err)
	}

	return nil
}
