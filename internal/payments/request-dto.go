package payments

type CreateCheckoutRequest struct {
	ReservationID string `json:"reservation_id" binding:"required,uuid"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}
