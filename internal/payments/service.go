package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinebook/internal/reservations"
	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// StatusNotPaid is the verify outcome for a session the provider has not
// settled yet. The poll mutates nothing in that case.
const StatusNotPaid = "NOT_PAID"

// Notifier decouples settlement from outbound messaging. Implemented by the
// notifications package; settlement never fails because a message did not go
// out.
type Notifier interface {
	NotifyReservationConfirmed(ctx context.Context, reservation *reservations.Reservation, receipt *Receipt)
	NotifyReservationCancelled(ctx context.Context, reservation *reservations.Reservation)
}

// Service interface defines the contract for payment settlement
type Service interface {
	SetCacheService(cacheService cache.Service)
	SetNotifier(notifier Notifier)

	CreateCheckout(ctx context.Context, userID uuid.UUID, req CreateCheckoutRequest) (*CheckoutSession, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetReceipt(ctx context.Context, reservationID, userID uuid.UUID, isAdmin bool) (*ReceiptResponse, error)
}

type service struct {
	repo         Repository
	gateway      Gateway
	cacheService cache.Service
	notifier     Notifier
	log          *logger.Logger
}

func NewService(repo Repository, gateway Gateway) Service {
	return &service{
		repo:    repo,
		gateway: gateway,
		log:     logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// SetNotifier injects the notification dependency
func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) CreateCheckout(ctx context.Context, userID uuid.UUID, req CreateCheckoutRequest) (*CheckoutSession, error) {
	reservationID, err := uuid.Parse(req.ReservationID)
	if err != nil {
		return nil, ErrReservationNotFound
	}

	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, ErrNotOwner
	}
	if !reservation.IsPending() || reservation.HasLapsed(time.Now()) {
		return nil, ErrReservationNotPayable
	}

	items := make([]CheckoutItem, 0, len(reservation.Seats))
	for _, seat := range reservation.Seats {
		items = append(items, CheckoutItem{
			Name:       fmt.Sprintf("Seat %s (%s)", seat.SeatLabel, seat.SeatType),
			PriceCents: seat.PriceCents,
			Quantity:   1,
		})
	}

	return s.gateway.CreateCheckoutSession(ctx, reservation, items)
}

func (s *service) VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	fact, err := s.gateway.VerifySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if fact == nil {
		return &VerifyPaymentResponse{Status: StatusNotPaid}, nil
	}

	reservation, err := s.repo.GetReservation(ctx, fact.ReservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, ErrNotOwner
	}

	if err := s.ApplySettlement(ctx, fact); err != nil {
		return nil, err
	}

	reservation, err = s.repo.GetReservation(ctx, fact.ReservationID)
	if err != nil {
		return nil, err
	}

	resp := &VerifyPaymentResponse{
		ReservationID: reservation.ID.String(),
		Status:        reservation.Status.String(),
	}
	if receipt, err := s.repo.GetReceiptByReservation(ctx, reservation.ID); err == nil {
		resp.Receipt = toReceiptResponse(receipt)
	}
	return resp, nil
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	fact, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, ErrUnhandledEvent) {
			// Acknowledge so the provider stops retrying events we will
			// never act on.
			return nil
		}
		return err
	}
	return s.ApplySettlement(ctx, fact)
}

// ApplySettlement is the reconciler. It is idempotent on two axes: the
// provider event id (same delivery replayed) and the reservation status
// (same outcome reported through different channels). Either duplicate is
// absorbed silently.
func (s *service) ApplySettlement(ctx context.Context, fact *SettlementFact) error {
	var (
		confirmed   *reservations.Reservation
		cancelled   *reservations.Reservation
		receipt     *Receipt
		latePayment bool
		orphan      bool
	)

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		if fact.ProviderEventID != "" {
			event := &SettlementEvent{
				ProviderEventID: fact.ProviderEventID,
				ReservationID:   fact.ReservationID,
				Outcome:         fact.Outcome,
				AmountCents:     fact.AmountCents,
				Currency:        fact.Currency,
			}
			if err := tx.InsertSettlementEvent(ctx, event); err != nil {
				if errors.Is(err, ErrDuplicateEvent) {
					s.log.LogSettlementDuplicate(ctx, fact.ReservationID.String(), fact.ProviderEventID)
					return errAlreadyApplied
				}
				return err
			}
		}

		reservation, err := tx.LockReservation(ctx, fact.ReservationID)
		if err != nil {
			if errors.Is(err, ErrReservationNotFound) && fact.ProviderEventID != "" {
				// Keep the recorded event and acknowledge; the provider
				// would redeliver forever and the ledger row will not
				// appear later.
				orphan = true
				return nil
			}
			return err
		}

		now := time.Now()
		switch fact.Outcome {
		case OutcomePaid:
			if reservation.Status == reservations.StatusConfirmed {
				// Already settled through another channel.
				s.log.LogSettlementDuplicate(ctx, reservation.ID.String(), fact.ProviderEventID)
				return nil
			}
			if reservation.Status == reservations.StatusCancelled {
				// Money arrived for a cancelled reservation. The event is
				// recorded for reconciliation; seats stay released.
				return nil
			}
			latePayment = reservation.Status == reservations.StatusExpired || reservation.HasLapsed(now)

			reservation.Status = reservations.StatusConfirmed
			reservation.ConfirmedAt = &now
			if err := tx.UpdateReservation(ctx, reservation); err != nil {
				return err
			}

			snapshot, err := tx.GetShowSnapshot(ctx, reservation.ShowID)
			if err != nil {
				return err
			}
			withSeats, err := tx.GetReservation(ctx, reservation.ID)
			if err != nil {
				return err
			}

			receipt = &Receipt{
				ReservationID:  reservation.ID,
				ReservationRef: reservation.ReservationRef,
				MovieTitle:     snapshot.MovieTitle,
				AuditoriumName: snapshot.AuditoriumName,
				ShowStartsAt:   snapshot.StartsAt,
				SeatSummary:    strings.Join(withSeats.SeatLabels(), ", "),
				AmountCents:    fact.AmountCents,
				Currency:       fact.Currency,
				ProviderRef:    fact.ProviderRef,
				IssuedAt:       now,
			}
			if err := tx.CreateReceipt(ctx, receipt); err != nil {
				return err
			}
			confirmed = reservation

		case OutcomeFailed:
			// A failed attempt never releases the hold; the user may retry
			// until the hold lapses on its own.
			return nil

		case OutcomeRefunded:
			if reservation.Status != reservations.StatusConfirmed {
				return nil
			}
			reservation.Status = reservations.StatusCancelled
			reservation.CancelledAt = &now
			if err := tx.UpdateReservation(ctx, reservation); err != nil {
				return err
			}
			cancelled = reservation

		default:
			return fmt.Errorf("unknown settlement outcome: %s", fact.Outcome)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyApplied) {
			return nil
		}
		return err
	}

	if orphan {
		s.log.LogOrphanSettlement(ctx, fact.ReservationID.String(), fact.ProviderEventID)
		return nil
	}
	s.log.LogSettlementApplied(ctx, fact.ReservationID.String(), fact.ProviderEventID, fact.Outcome.String())

	if confirmed != nil {
		// Reload with seats for the notification body; the locked row was
		// fetched bare.
		if full, err := s.repo.GetReservation(ctx, confirmed.ID); err == nil {
			confirmed = full
		}
		if latePayment {
			s.log.LogLatePayment(ctx, confirmed.ID.String(), fact.ProviderEventID)
		}
		s.log.LogReservationConfirmed(ctx, confirmed.ID.String(), confirmed.ShowID.String(), confirmed.UserID.String())
		s.invalidateSeatMap(ctx, confirmed.ShowID)
		if s.notifier != nil {
			s.notifier.NotifyReservationConfirmed(ctx, confirmed, receipt)
		}
	}
	if cancelled != nil {
		s.log.LogReservationCancelled(ctx, cancelled.ID.String(), cancelled.ShowID.String(), cancelled.UserID.String())
		s.invalidateSeatMap(ctx, cancelled.ShowID)
		if s.notifier != nil {
			s.notifier.NotifyReservationCancelled(ctx, cancelled)
		}
	}
	return nil
}

func (s *service) GetReceipt(ctx context.Context, reservationID, userID uuid.UUID, isAdmin bool) (*ReceiptResponse, error) {
	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && reservation.UserID != userID {
		return nil, ErrNotOwner
	}

	receipt, err := s.repo.GetReceiptByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(receipt), nil
}

// errAlreadyApplied rolls back the settlement transaction when the event id
// dedup fires; nothing past the duplicate insert may commit.
var errAlreadyApplied = errors.New("settlement already applied")

func (s *service) invalidateSeatMap(ctx context.Context, showID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildSeatMapKey(showID.String())); err != nil {
		fmt.Printf("Warning: failed to invalidate seat map cache: %v\n", err)
	}
}

func toReceiptResponse(r *Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:             r.ID.String(),
		ReservationID:  r.ReservationID.String(),
		ReservationRef: r.ReservationRef,
		MovieTitle:     r.MovieTitle,
		AuditoriumName: r.AuditoriumName,
		ShowStartsAt:   r.ShowStartsAt,
		SeatSummary:    r.SeatSummary,
		AmountCents:    r.AmountCents,
		Currency:       r.Currency,
		ProviderRef:    r.ProviderRef,
		IssuedAt:       r.IssuedAt,
	}
}
