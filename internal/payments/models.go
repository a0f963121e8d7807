package payments

import (
	"time"

	"github.com/google/uuid"
)

// SettlementEvent is the append-only record of every provider notification
// the reconciler has processed. The unique index on ProviderEventID is what
// makes webhook replays harmless.
type SettlementEvent struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProviderEventID string    `json:"provider_event_id" gorm:"uniqueIndex:unique_settlement_provider_event;not null"`
	ReservationID   uuid.UUID `json:"reservation_id" gorm:"type:uuid;not null;index"`
	Outcome         Outcome   `json:"outcome" gorm:"type:varchar(20);not null"`
	AmountCents     int64     `json:"amount_cents" gorm:"not null"`
	Currency        string    `json:"currency" gorm:"type:varchar(3);not null"`
	CreatedAt       time.Time `json:"created_at"`
}

// Receipt is issued exactly once per reservation, on the settlement that
// confirms it. Movie, auditorium and seat details are copied in at
// confirmation time so later catalog edits never change what a receipt says.
type Receipt struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ReservationID  uuid.UUID `json:"reservation_id" gorm:"type:uuid;uniqueIndex:unique_receipt_per_reservation;not null"`
	ReservationRef string    `json:"reservation_ref" gorm:"not null"`
	MovieTitle     string    `json:"movie_title" gorm:"not null;size:255"`
	AuditoriumName string    `json:"auditorium_name" gorm:"not null;size:255"`
	ShowStartsAt   time.Time `json:"show_starts_at" gorm:"not null"`
	SeatSummary    string    `json:"seat_summary" gorm:"not null"`
	AmountCents    int64     `json:"amount_cents" gorm:"not null"`
	Currency       string    `json:"currency" gorm:"type:varchar(3);not null"`
	ProviderRef    string    `json:"provider_ref"`
	IssuedAt       time.Time `json:"issued_at" gorm:"not null"`
}

func (SettlementEvent) TableName() string {
	return "settlement_events"
}

func (Receipt) TableName() string {
	return "receipts"
}
