package payments

import "time"

type ReceiptResponse struct {
	ID             string    `json:"id"`
	ReservationID  string    `json:"reservation_id"`
	ReservationRef string    `json:"reservation_ref"`
	MovieTitle     string    `json:"movie_title"`
	AuditoriumName string    `json:"auditorium_name"`
	ShowStartsAt   time.Time `json:"show_starts_at"`
	SeatSummary    string    `json:"seat_summary"`
	AmountCents    int64     `json:"amount_cents"`
	Currency       string    `json:"currency"`
	ProviderRef    string    `json:"provider_ref,omitempty"`
	IssuedAt       time.Time `json:"issued_at"`
}

type VerifyPaymentResponse struct {
	ReservationID string           `json:"reservation_id"`
	Status        string           `json:"status"`
	Receipt       *ReceiptResponse `json:"receipt,omitempty"`
}
