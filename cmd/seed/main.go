package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/shows"
	"cinebook/internal/users"
	"cinebook/internal/venues"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db  *database.DB
	cfg *config.Config
}

func main() {
	fmt.Println("🌱 Starting CineBook Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.MigrateConstraints(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to apply database constraints: %v", err)
	}

	seeder := &Seeder{db: db, cfg: cfg}

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

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"receipts",
		"settlement_events",
		"reservation_seats",
		"reservations",
		"show_prices",
		"shows",
		"movies",
		"seats",
		"auditoriums",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Users first (no dependencies)
	if _, err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	auditoriumIDs, err := s.SeedAuditoriums()
	if err != nil {
		return fmt.Errorf("failed to seed auditoriums: %w", err)
	}

	movieIDs, err := s.SeedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	if err := s.SeedShows(movieIDs, auditoriumIDs); err != nil {
		return fmt.Errorf("failed to seed shows: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 3 users: 1 admin and 2 regular users
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@cinebook.dev", users.RoleAdmin},
		{"user1", "Ava", "Moreno", "ava.moreno@example.com", users.RoleUser},
		{"user2", "Liam", "Okafor", "liam.okafor@example.com", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
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

// SeedAuditoriums creates two screens with full seat layouts
func (s *Seeder) SeedAuditoriums() ([]uuid.UUID, error) {
	fmt.Println("  🎬 Seeding auditoriums...")

	var auditoriumIDs []uuid.UUID

	// Screen 1: standard room, rows A-E with a wheelchair pair in row E
	screen1 := venues.Auditorium{
		ID:   uuid.New(),
		Name: "Screen 1",
	}
	for _, row := range []string{"A", "B", "C", "D"} {
		screen1.Seats = append(screen1.Seats, buildRow(row, 10, venues.SeatTypeStandard)...)
	}
	rowE := buildRow("E", 8, venues.SeatTypeStandard)
	rowE = append(rowE, buildSeat("E", 9, venues.SeatTypeWheelchair), buildSeat("E", 10, venues.SeatTypeWheelchair))
	screen1.Seats = append(screen1.Seats, rowE...)

	if err := s.db.PostgreSQL.Create(&screen1).Error; err != nil {
		return nil, fmt.Errorf("failed to create auditorium %s: %w", screen1.Name, err)
	}
	auditoriumIDs = append(auditoriumIDs, screen1.ID)
	fmt.Printf("    ✅ Created auditorium: %s (%d seats)\n", screen1.Name, len(screen1.Seats))

	// Screen 2: premium room, rows A-B premium, C-D standard
	screen2 := venues.Auditorium{
		ID:   uuid.New(),
		Name: "Screen 2 IMAX",
	}
	for _, row := range []string{"A", "B"} {
		screen2.Seats = append(screen2.Seats, buildRow(row, 8, venues.SeatTypePremium)...)
	}
	for _, row := range []string{"C", "D"} {
		screen2.Seats = append(screen2.Seats, buildRow(row, 12, venues.SeatTypeStandard)...)
	}

	if err := s.db.PostgreSQL.Create(&screen2).Error; err != nil {
		return nil, fmt.Errorf("failed to create auditorium %s: %w", screen2.Name, err)
	}
	auditoriumIDs = append(auditoriumIDs, screen2.ID)
	fmt.Printf("    ✅ Created auditorium: %s (%d seats)\n", screen2.Name, len(screen2.Seats))

	return auditoriumIDs, nil
}

func buildRow(row string, count int, seatType venues.SeatType) []venues.Seat {
	seats := make([]venues.Seat, 0, count)
	for i := 1; i <= count; i++ {
		seats = append(seats, buildSeat(row, i, seatType))
	}
	return seats
}

func buildSeat(row string, position int, seatType venues.SeatType) venues.Seat {
	return venues.Seat{
		ID:       uuid.New(),
		Label:    fmt.Sprintf("%s%d", row, position),
		Row:      row,
		Position: position,
		Type:     seatType,
	}
}

// SeedMovies creates sample movies
func (s *Seeder) SeedMovies() ([]uuid.UUID, error) {
	fmt.Println("  🎞️ Seeding movies...")

	var movieIDs []uuid.UUID

	moviesData := []struct {
		title       string
		description string
		duration    int
		rating      string
	}{
		{"The Silent Orbit", "A stranded astronaut discovers she is not alone on a derelict station.", 128, "PG-13"},
		{"Midnight Express Lane", "Two rival couriers race across the city in one chaotic night.", 102, "R"},
		{"Paper Lanterns", "Three generations of a family reunite for a festival that changes everything.", 115, "PG"},
	}

	for _, movieData := range moviesData {
		movie := shows.Movie{
			ID:              uuid.New(),
			Title:           movieData.title,
			Description:     movieData.description,
			DurationMinutes: movieData.duration,
			Rating:          movieData.rating,
		}

		if err := s.db.PostgreSQL.Create(&movie).Error; err != nil {
			return nil, fmt.Errorf("failed to create movie %s: %w", movie.Title, err)
		}

		movieIDs = append(movieIDs, movie.ID)
		fmt.Printf("    ✅ Created movie: %s\n", movie.Title)
	}

	return movieIDs, nil
}

// SeedShows schedules each movie across the screens with per-seat-type pricing
func (s *Seeder) SeedShows(movieIDs, auditoriumIDs []uuid.UUID) error {
	fmt.Println("  🕗 Seeding shows...")

	showsData := []struct {
		movieIdx      int
		auditoriumIdx int
		daysFromNow   int
		hour          int
		duration      int
		prices        map[venues.SeatType]int64
	}{
		{0, 0, 1, 18, 128, map[venues.SeatType]int64{
			venues.SeatTypeStandard:   1400,
			venues.SeatTypeWheelchair: 1400,
		}},
		{0, 1, 1, 21, 128, map[venues.SeatType]int64{
			venues.SeatTypeStandard: 1800,
			venues.SeatTypePremium:  2600,
		}},
		{1, 0, 2, 20, 102, map[venues.SeatType]int64{
			venues.SeatTypeStandard:   1400,
			venues.SeatTypeWheelchair: 1400,
		}},
		{2, 1, 3, 17, 115, map[venues.SeatType]int64{
			venues.SeatTypeStandard: 1600,
			venues.SeatTypePremium:  2400,
		}},
	}

	for _, showData := range showsData {
		startsAt := time.Now().AddDate(0, 0, showData.daysFromNow).
			Truncate(24 * time.Hour).
			Add(time.Duration(showData.hour) * time.Hour)

		show := shows.Show{
			ID:           uuid.New(),
			MovieID:      movieIDs[showData.movieIdx],
			AuditoriumID: auditoriumIDs[showData.auditoriumIdx],
			StartsAt:     startsAt,
			EndsAt:       startsAt.Add(time.Duration(showData.duration)*time.Minute + 15*time.Minute),
			Status:       shows.ShowStatusScheduled,
		}
		for seatType, cents := range showData.prices {
			show.Prices = append(show.Prices, shows.ShowPrice{
				ID:         uuid.New(),
				SeatType:   seatType,
				PriceCents: cents,
			})
		}

		if err := s.db.PostgreSQL.Create(&show).Error; err != nil {
			return fmt.Errorf("failed to create show: %w", err)
		}

		fmt.Printf("    ✅ Created show at %s\n", startsAt.Format(time.RFC1123))
	}

	return nil
}
