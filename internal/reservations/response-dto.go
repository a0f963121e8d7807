package reservations

import "time"

type ReservationResponse struct {
	ID             string                    `json:"id"`
	ReservationRef string                    `json:"reservation_ref"`
	ShowID         string                    `json:"show_id"`
	Status         string                    `json:"status"`
	TotalCents     int64                     `json:"total_cents"`
	Currency       string                    `json:"currency"`
	Seats          []ReservationSeatResponse `json:"seats"`
	ExpiresAt      time.Time                 `json:"expires_at"`
	ConfirmedAt    *time.Time                `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time                `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
}

type ReservationSeatResponse struct {
	SeatID     string `json:"seat_id"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	PriceCents int64  `json:"price_cents"`
}

type PaginatedReservations struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}
