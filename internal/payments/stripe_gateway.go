package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cinebook/internal/reservations"
	"cinebook/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	metadataReservationID = "reservation_id"
	metadataShowID        = "show_id"
	metadataUserID        = "user_id"
)

// stripeGateway settles through Stripe Checkout. Each reservation gets a
// hosted session carrying the reservation id in session metadata, and the
// same id is copied onto the payment intent so refund and failure events
// can be traced back without a session lookup.
type stripeGateway struct {
	cfg *config.Config
}

func NewStripeGateway(cfg *config.Config) Gateway {
	stripe.Key = cfg.Stripe.SecretKey
	return &stripeGateway{cfg: cfg}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, reservation *reservations.Reservation, items []CheckoutItem) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.cfg.Stripe.Currency),
				UnitAmount: stripe.Int64(item.PriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lineItems,
		SuccessURL:        stripe.String(g.cfg.CheckoutSuccessURL()),
		CancelURL:         stripe.String(g.cfg.CheckoutCancelURL()),
		ClientReferenceID: stripe.String(reservation.ReservationRef),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{},
	}
	params.Context = ctx
	params.AddMetadata(metadataReservationID, reservation.ID.String())
	params.AddMetadata(metadataShowID, reservation.ShowID.String())
	params.AddMetadata(metadataUserID, reservation.UserID.String())
	params.PaymentIntentData.AddMetadata(metadataReservationID, reservation.ID.String())

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}

func (g *stripeGateway) VerifySession(ctx context.Context, sessionID string) (*SettlementFact, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checkout session: %w", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, nil
	}

	reservationID, err := reservationIDFromMetadata(sess.Metadata)
	if err != nil {
		return nil, err
	}

	fact := &SettlementFact{
		ReservationID: reservationID,
		Outcome:       OutcomePaid,
		AmountCents:   sess.AmountTotal,
		Currency:      strings.ToUpper(string(sess.Currency)),
	}
	if sess.PaymentIntent != nil {
		fact.ProviderRef = sess.PaymentIntent.ID
	}
	return fact, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*SettlementFact, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.cfg.Stripe.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		return factFromSession(event, OutcomePaid)

	case "checkout.session.async_payment_failed":
		return factFromSession(event, OutcomeFailed)

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		reservationID, err := reservationIDFromMetadata(intent.Metadata)
		if err != nil {
			return nil, err
		}
		return &SettlementFact{
			ProviderEventID: event.ID,
			ReservationID:   reservationID,
			Outcome:         OutcomeFailed,
			AmountCents:     intent.Amount,
			Currency:        strings.ToUpper(string(intent.Currency)),
			ProviderRef:     intent.ID,
		}, nil

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("failed to decode charge: %w", err)
		}
		// Charge.Refunded only flips on a full refund; partial refunds do
		// not release seats.
		if !charge.Refunded {
			return nil, fmt.Errorf("%w: charge only partially refunded", ErrUnhandledEvent)
		}
		reservationID, err := reservationIDFromMetadata(charge.Metadata)
		if err != nil {
			return nil, err
		}
		return &SettlementFact{
			ProviderEventID: event.ID,
			ReservationID:   reservationID,
			Outcome:         OutcomeRefunded,
			AmountCents:     charge.AmountRefunded,
			Currency:        strings.ToUpper(string(charge.Currency)),
			ProviderRef:     charge.ID,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnhandledEvent, event.Type)
}

func factFromSession(event stripe.Event, outcome Outcome) (*SettlementFact, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	// A completed session can still be unpaid when the payment method is
	// asynchronous; the async_payment_succeeded event settles it later.
	if outcome == OutcomePaid && sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, fmt.Errorf("%w: session not yet paid", ErrUnhandledEvent)
	}

	reservationID, err := reservationIDFromMetadata(sess.Metadata)
	if err != nil {
		return nil, err
	}

	fact := &SettlementFact{
		ProviderEventID: event.ID,
		ReservationID:   reservationID,
		Outcome:         outcome,
		AmountCents:     sess.AmountTotal,
		Currency:        strings.ToUpper(string(sess.Currency)),
	}
	if sess.PaymentIntent != nil {
		fact.ProviderRef = sess.PaymentIntent.ID
	}
	return fact, nil
}

func reservationIDFromMetadata(metadata map[string]string) (uuid.UUID, error) {
	raw, ok := metadata[metadataReservationID]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s metadata", ErrUnhandledEvent, metadataReservationID)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad %s metadata", ErrUnhandledEvent, metadataReservationID)
	}
	return id, nil
}
