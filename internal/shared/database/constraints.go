package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints and indexes the booking flow
// relies on. Seat exclusivity itself is enforced by the serialized conflict
// check inside the reservation transaction; these indexes keep that check fast.
func MigrateConstraints(db *gorm.DB) error {
	// Conflict query walks active reservations for a show
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_show_status_expiry
		ON reservations (show_id, status, expires_at);
	`).Error
	if err != nil {
		return err
	}

	// Seat lookup within a reservation
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservation_seats_show_seat
		ON reservation_seats (show_id, seat_id);
	`).Error
	if err != nil {
		return err
	}

	// Settlement facts are deduplicated by provider event id
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_settlement_provider_event
		ON settlement_events (provider_event_id);
	`).Error
	if err != nil {
		return err
	}

	// Exactly one receipt per reservation
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_receipt_per_reservation
		ON receipts (reservation_id);
	`).Error
	if err != nil {
		return err
	}

	// Overlap checks scan shows per auditorium by time
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_shows_auditorium_time
		ON shows (auditorium_id, starts_at, ends_at);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
