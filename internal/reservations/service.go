package reservations

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"cinebook/internal/shared/constants"
	"cinebook/internal/shows"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service interface defines the contract for the reservation ledger
type Service interface {
	SetCacheService(cacheService cache.Service)

	// CreateReservation runs the conflict check and places a PENDING hold
	CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error)

	GetReservation(ctx context.Context, reservationID, userID uuid.UUID, isAdmin bool) (*ReservationResponse, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID, query ReservationListQuery) (*PaginatedReservations, error)

	// ActiveSeatIDs feeds the seat map; includes pending holds that have
	// not lapsed.
	ActiveSeatIDs(ctx context.Context, showID uuid.UUID) (map[uuid.UUID]bool, error)

	// ExpireStaleReservations is the reporting sweep run by the job
	// processor.
	ExpireStaleReservations(ctx context.Context) (int64, error)
}

type service struct {
	repo         Repository
	holdDuration time.Duration
	maxSeats     int
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository, holdDuration time.Duration, maxSeats int) Service {
	if holdDuration <= 0 {
		holdDuration = 10 * time.Minute
	}
	if maxSeats <= 0 {
		maxSeats = 10
	}
	return &service{
		repo:         repo,
		holdDuration: holdDuration,
		maxSeats:     maxSeats,
		log:          logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// CreateReservation places a hold on the requested seats. The whole check
// runs inside one transaction with the show row locked, so concurrent
// requests for the same show serialize and at most one of two competing
// requests for a seat can commit.
func (s *service) CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad show id", ErrInvalidSeats)
	}

	seatIDs, err := parseSeatIDs(req.SeatIDs, s.maxSeats)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reservation := &Reservation{
		UserID:    userID,
		ShowID:    showID,
		Status:    StatusPending,
		Currency:  "USD",
		ExpiresAt: now.Add(s.holdDuration),
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		show, err := tx.LockShow(ctx, showID)
		if err != nil {
			return err
		}
		if show.Status != string(shows.ShowStatusScheduled) {
			return ErrShowNotBookable
		}
		if show.StartsAt.Before(now) {
			return ErrShowNotBookable
		}

		seats, err := tx.GetSeats(ctx, show.AuditoriumID, seatIDs)
		if err != nil {
			return fmt.Errorf("failed to load seats: %w", err)
		}
		if len(seats) != len(seatIDs) {
			return fmt.Errorf("%w: unknown seats for this auditorium", ErrInvalidSeats)
		}

		prices, err := tx.GetShowPrices(ctx, showID)
		if err != nil {
			return fmt.Errorf("failed to load show prices: %w", err)
		}
		for _, seat := range seats {
			if _, ok := prices[seat.Type]; !ok {
				return fmt.Errorf("%w: no price for seat type %s", ErrPricingIncomplete, seat.Type)
			}
		}

		// Conflicts count seats held by OTHER users only. A user holding a
		// seat again just races their own earlier hold, which is harmless.
		conflicts, err := tx.FindConflictingSeatLabels(ctx, showID, seatIDs, userID, now)
		if err != nil {
			return fmt.Errorf("failed to check seat conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return &SeatConflictError{Labels: conflicts}
		}

		ref, err := generateReservationRef()
		if err != nil {
			return fmt.Errorf("failed to generate reservation reference: %w", err)
		}
		reservation.ReservationRef = ref

		for _, seat := range seats {
			price := prices[seat.Type]
			reservation.TotalCents += price
			reservation.Seats = append(reservation.Seats, ReservationSeat{
				ShowID:     showID,
				SeatID:     seat.ID,
				SeatLabel:  seat.Label,
				SeatType:   seat.Type,
				PriceCents: price,
			})
		}

		return tx.Create(ctx, reservation)
	})
	if err != nil {
		if conflict, ok := IsSeatConflict(err); ok {
			s.log.LogSeatConflict(ctx, showID.String(), userID.String(), conflict.Labels)
		}
		return nil, err
	}

	s.log.LogReservationCreated(ctx, reservation.ID.String(), showID.String(), userID.String(), len(reservation.Seats))
	s.invalidateSeatMap(ctx, showID)

	return toReservationResponse(reservation), nil
}

func (s *service) GetReservation(ctx context.Context, reservationID, userID uuid.UUID, isAdmin bool) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if !isAdmin && reservation.UserID != userID {
		return nil, ErrNotOwner
	}

	return toReservationResponse(reservation), nil
}

func (s *service) GetUserReservations(ctx context.Context, userID uuid.UUID, query ReservationListQuery) (*PaginatedReservations, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	reservations, totalCount, err := s.repo.GetByUserID(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	responses := make([]ReservationResponse, 0, len(reservations))
	for i := range reservations {
		responses = append(responses, *toReservationResponse(&reservations[i]))
	}

	return &PaginatedReservations{
		Reservations: responses,
		TotalCount:   totalCount,
		Page:         query.Page,
		Limit:        query.Limit,
	}, nil
}

func (s *service) ActiveSeatIDs(ctx context.Context, showID uuid.UUID) (map[uuid.UUID]bool, error) {
	seatIDs, err := s.repo.ActiveSeatIDs(ctx, showID, time.Now())
	if err != nil {
		return nil, err
	}
	occupied := make(map[uuid.UUID]bool, len(seatIDs))
	for _, id := range seatIDs {
		occupied[id] = true
	}
	return occupied, nil
}

func (s *service) ExpireStaleReservations(ctx context.Context) (int64, error) {
	return s.repo.ExpirePending(ctx, time.Now())
}

func (s *service) invalidateSeatMap(ctx context.Context, showID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildSeatMapKey(showID.String())); err != nil {
		fmt.Printf("Warning: failed to invalidate seat map cache: %v\n", err)
	}
}

func parseSeatIDs(raw []string, maxSeats int) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", ErrInvalidSeats)
	}
	if len(raw) > maxSeats {
		return nil, fmt.Errorf("%w: at most %d seats per reservation", ErrInvalidSeats, maxSeats)
	}

	seen := make(map[uuid.UUID]bool, len(raw))
	seatIDs := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: bad seat id %q", ErrInvalidSeats, s)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate seat %s", ErrInvalidSeats, s)
		}
		seen[id] = true
		seatIDs = append(seatIDs, id)
	}
	return seatIDs, nil
}

// generateReservationRef generates a unique reservation reference
func generateReservationRef() (string, error) {
	timestamp := time.Now().Format("20060102")

	// Generate 6 random uppercase letters
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("RSV-%s-%s", timestamp, string(randomPart)), nil
}

func toReservationResponse(r *Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:             r.ID.String(),
		ReservationRef: r.ReservationRef,
		ShowID:         r.ShowID.String(),
		Status:         r.Status.String(),
		TotalCents:     r.TotalCents,
		Currency:       r.Currency,
		ExpiresAt:      r.ExpiresAt,
		ConfirmedAt:    r.ConfirmedAt,
		CancelledAt:    r.CancelledAt,
		CreatedAt:      r.CreatedAt,
	}
	for _, seat := range r.Seats {
		resp.Seats = append(resp.Seats, ReservationSeatResponse{
			SeatID:     seat.SeatID.String(),
			Label:      seat.SeatLabel,
			Type:       seat.SeatType.String(),
			PriceCents: seat.PriceCents,
		})
	}
	return resp
}
