package database

import (
	"cinebook/internal/payments"
	"cinebook/internal/reservations"
	"cinebook/internal/shows"
	"cinebook/internal/users"
	"cinebook/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&venues.Auditorium{},
		&venues.Seat{},
		&shows.Movie{},
		&shows.Show{},
		&shows.ShowPrice{},
		&reservations.Reservation{},
		&reservations.ReservationSeat{},
		&payments.SettlementEvent{},
		&payments.Receipt{},
	)
}
