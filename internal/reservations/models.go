package reservations

import (
	"time"

	"cinebook/internal/venues"

	"github.com/google/uuid"
)

// Reservation is a row in the booking ledger. Rows are never deleted;
// the status column plus expires_at tell the full story of each hold.
type Reservation struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;index;not null"`
	ShowID         uuid.UUID  `json:"show_id" gorm:"type:uuid;index;not null"`
	Status         Status     `json:"status" gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'EXPIRED');default:'PENDING'"`
	TotalCents     int64      `json:"total_cents" gorm:"not null"`
	Currency       string     `json:"currency" gorm:"type:varchar(3);default:'USD'"`
	ReservationRef string     `json:"reservation_ref" gorm:"unique;not null"`
	ExpiresAt      time.Time  `json:"expires_at" gorm:"not null"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Seats []ReservationSeat `json:"seats,omitempty" gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE;"`
}

// ReservationSeat pins one seat to a reservation. Seat label and type are
// denormalized so conflict messages and receipts need no joins.
type ReservationSeat struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ReservationID uuid.UUID       `json:"reservation_id" gorm:"type:uuid;index;not null"`
	ShowID        uuid.UUID       `json:"show_id" gorm:"type:uuid;index;not null"`
	SeatID        uuid.UUID       `json:"seat_id" gorm:"type:uuid;index;not null"`
	SeatLabel     string          `json:"seat_label" gorm:"not null;size:10"`
	SeatType      venues.SeatType `json:"seat_type" gorm:"type:varchar(20);not null"`
	PriceCents    int64           `json:"price_cents" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// TableName sets the table name for ReservationSeat
func (ReservationSeat) TableName() string {
	return "reservation_seats"
}

// IsPending reports a live or lapsed hold
func (r *Reservation) IsPending() bool {
	return r.Status == StatusPending
}

// IsConfirmed reports a settled reservation
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// HasLapsed reports whether a PENDING hold is past its deadline
func (r *Reservation) HasLapsed(now time.Time) bool {
	return r.Status == StatusPending && !r.ExpiresAt.After(now)
}

// Occupies reports whether the reservation keeps its seats at the instant
func (r *Reservation) Occupies(now time.Time) bool {
	return r.Status.Occupies(r.ExpiresAt, now)
}

// SeatLabels returns the denormalized labels in seat order
func (r *Reservation) SeatLabels() []string {
	labels := make([]string, 0, len(r.Seats))
	for _, s := range r.Seats {
		labels = append(labels, s.SeatLabel)
	}
	return labels
}
