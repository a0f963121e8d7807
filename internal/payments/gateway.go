package payments

import (
	"context"

	"cinebook/internal/reservations"

	"github.com/google/uuid"
)

// SettlementFact is what the reconciler actually consumes: a normalized
// statement from the provider about one reservation's money. Both webhook
// delivery and client-triggered verification reduce to this shape.
type SettlementFact struct {
	// ProviderEventID is empty for facts obtained by polling the provider
	// (no event envelope exists); those dedup on reservation status alone.
	ProviderEventID string
	ReservationID   uuid.UUID
	Outcome         Outcome
	AmountCents     int64
	Currency        string
	ProviderRef     string
}

// CheckoutSession is the provider-hosted payment page handed to the client.
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// CheckoutItem is one priced line on the provider checkout page.
type CheckoutItem struct {
	Name       string
	PriceCents int64
	Quantity   int64
}

// Gateway abstracts the payment provider so the reconciler can be tested
// without touching the network.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, reservation *reservations.Reservation, items []CheckoutItem) (*CheckoutSession, error)

	// VerifySession polls the provider for the session's current state.
	// Returns nil fact (no error) when the session is still unpaid.
	VerifySession(ctx context.Context, sessionID string) (*SettlementFact, error)

	// ParseWebhook verifies the payload signature and maps the event to a
	// fact. Returns ErrUnhandledEvent for event types the reconciler does
	// not care about.
	ParseWebhook(payload []byte, signature string) (*SettlementFact, error)
}
