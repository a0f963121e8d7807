package reservations

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/shows"
	"cinebook/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository keeps everything in memory and reuses the real occupancy
// predicate, so the service-level flow can be exercised without a database.
type fakeRepository struct {
	show     *ShowRow
	seats    map[uuid.UUID]venues.Seat
	prices   map[venues.SeatType]int64
	stored   []*Reservation
	txErr    error
	txCalled int
}

func newFakeRepository() *fakeRepository {
	auditoriumID := uuid.New()
	f := &fakeRepository{
		show: &ShowRow{
			ID:           uuid.New(),
			AuditoriumID: auditoriumID,
			Status:       string(shows.ShowStatusScheduled),
			StartsAt:     time.Now().Add(2 * time.Hour),
		},
		seats:  make(map[uuid.UUID]venues.Seat),
		prices: map[venues.SeatType]int64{venues.SeatTypeStandard: 1400},
	}
	for _, label := range []string{"A1", "A2", "A3", "B1"} {
		id := uuid.New()
		f.seats[id] = venues.Seat{
			ID:           id,
			AuditoriumID: auditoriumID,
			Label:        label,
			Type:         venues.SeatTypeStandard,
		}
	}
	return f
}

func (f *fakeRepository) seatIDByLabel(label string) uuid.UUID {
	for id, seat := range f.seats {
		if seat.Label == label {
			return id
		}
	}
	return uuid.Nil
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	f.txCalled++
	if f.txErr != nil {
		return f.txErr
	}
	return fn(f)
}

func (f *fakeRepository) LockShow(ctx context.Context, showID uuid.UUID) (*ShowRow, error) {
	if f.show == nil || f.show.ID != showID {
		return nil, ErrShowNotFound
	}
	return f.show, nil
}

func (f *fakeRepository) GetShowPrices(ctx context.Context, showID uuid.UUID) (map[venues.SeatType]int64, error) {
	return f.prices, nil
}

func (f *fakeRepository) GetSeats(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]venues.Seat, error) {
	var result []venues.Seat
	for _, id := range seatIDs {
		if seat, ok := f.seats[id]; ok && seat.AuditoriumID == auditoriumID {
			result = append(result, seat)
		}
	}
	return result, nil
}

func (f *fakeRepository) FindConflictingSeatLabels(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID, excludeUserID uuid.UUID, now time.Time) ([]string, error) {
	requested := make(map[uuid.UUID]bool, len(seatIDs))
	for _, id := range seatIDs {
		requested[id] = true
	}

	var labels []string
	for _, r := range f.stored {
		if r.ShowID != showID || r.UserID == excludeUserID {
			continue
		}
		if !r.Occupies(now) {
			continue
		}
		for _, seat := range r.Seats {
			if requested[seat.SeatID] {
				labels = append(labels, seat.SeatLabel)
			}
		}
	}
	return labels, nil
}

func (f *fakeRepository) Create(ctx context.Context, reservation *Reservation) error {
	reservation.ID = uuid.New()
	reservation.CreatedAt = time.Now()
	f.stored = append(f.stored, reservation)
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	for _, r := range f.stored {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrReservationNotFound
}

func (f *fakeRepository) GetByUserID(ctx context.Context, userID uuid.UUID, query ReservationListQuery) ([]Reservation, int64, error) {
	var result []Reservation
	for _, r := range f.stored {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeRepository) ActiveSeatIDs(ctx context.Context, showID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, r := range f.stored {
		if r.ShowID != showID || !r.Occupies(now) {
			continue
		}
		for _, seat := range r.Seats {
			ids = append(ids, seat.SeatID)
		}
	}
	return ids, nil
}

func (f *fakeRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	for _, r := range f.stored {
		if r.Status == StatusPending && !r.ExpiresAt.After(now) {
			r.Status = StatusExpired
			expired++
		}
	}
	return expired, nil
}

func requestFor(repo *fakeRepository, labels ...string) CreateReservationRequest {
	req := CreateReservationRequest{ShowID: repo.show.ID.String()}
	for _, label := range labels {
		req.SeatIDs = append(req.SeatIDs, repo.seatIDByLabel(label).String())
	}
	return req
}

func TestCreateReservation_PlacesPendingHold(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)
	userID := uuid.New()

	resp, err := svc.CreateReservation(context.Background(), userID, requestFor(repo, "A1", "A2"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending.String(), resp.Status)
	assert.Equal(t, int64(2800), resp.TotalCents)
	assert.Len(t, resp.Seats, 2)
	assert.Regexp(t, `^RSV-\d{8}-[A-Z]{6}$`, resp.ReservationRef)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), resp.ExpiresAt, 5*time.Second)
}

func TestCreateReservation_PriceSnapshotSurvivesRepricing(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A1", "A2"))
	require.NoError(t, err)
	require.Equal(t, int64(2800), first.TotalCents)

	// Admin reprices the show after the hold was taken
	repo.prices[venues.SeatTypeStandard] = 9900

	stored := repo.stored[0]
	assert.Equal(t, int64(2800), stored.TotalCents)
	for _, seat := range stored.Seats {
		assert.Equal(t, int64(1400), seat.PriceCents)
	}

	// New holds pay the new price; existing ones keep their copy
	second, err := svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A3"))
	require.NoError(t, err)
	assert.Equal(t, int64(9900), second.TotalCents)
	assert.Equal(t, int64(2800), repo.stored[0].TotalCents)
}

func TestCreateReservation_ConflictWithOtherUser(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)

	_, err := svc.CreateReservation(context.Background(), uuid.New(), requestFor(repo, "A1", "A2"))
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), uuid.New(), requestFor(repo, "A2", "A3"))
	require.Error(t, err)

	conflict, ok := IsSeatConflict(err)
	require.True(t, ok)
	assert.Equal(t, []string{"A2"}, conflict.Labels)
}

func TestCreateReservation_SameUserMayRaceOwnHold(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)
	userID := uuid.New()

	_, err := svc.CreateReservation(context.Background(), userID, requestFor(repo, "A1"))
	require.NoError(t, err)

	// The same user's earlier hold never counts as a conflict
	_, err = svc.CreateReservation(context.Background(), userID, requestFor(repo, "A1"))
	require.NoError(t, err)
}

func TestCreateReservation_LapsedHoldFreesSeats(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)

	firstUser := uuid.New()
	_, err := svc.CreateReservation(context.Background(), firstUser, requestFor(repo, "A1"))
	require.NoError(t, err)

	// Walk the stored hold past its expiry without running any sweep
	repo.stored[0].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.CreateReservation(context.Background(), uuid.New(), requestFor(repo, "A1"))
	require.NoError(t, err)
}

func TestCreateReservation_ConfirmedSeatStaysTaken(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)

	_, err := svc.CreateReservation(context.Background(), uuid.New(), requestFor(repo, "A1"))
	require.NoError(t, err)

	// Confirmed reservations occupy seats even past the old hold expiry
	repo.stored[0].Status = StatusConfirmed
	repo.stored[0].ExpiresAt = time.Now().Add(-time.Hour)

	_, err = svc.CreateReservation(context.Background(), uuid.New(), requestFor(repo, "A1"))
	require.Error(t, err)
	_, ok := IsSeatConflict(err)
	assert.True(t, ok)
}

func TestCreateReservation_InvalidSeatSelections(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 2)
	ctx := context.Background()
	userID := uuid.New()

	// Unknown seat for the auditorium
	req := requestFor(repo, "A1")
	req.SeatIDs = append(req.SeatIDs, uuid.New().String())
	_, err := svc.CreateReservation(ctx, userID, req)
	assert.ErrorIs(t, err, ErrInvalidSeats)

	// Duplicate seat in the request
	req = requestFor(repo, "A1", "A1")
	_, err = svc.CreateReservation(ctx, userID, req)
	assert.ErrorIs(t, err, ErrInvalidSeats)

	// Over the per-reservation cap
	req = requestFor(repo, "A1", "A2", "A3")
	_, err = svc.CreateReservation(ctx, userID, req)
	assert.ErrorIs(t, err, ErrInvalidSeats)

	// Empty selection
	req = CreateReservationRequest{ShowID: repo.show.ID.String()}
	_, err = svc.CreateReservation(ctx, userID, req)
	assert.ErrorIs(t, err, ErrInvalidSeats)

	// Nothing was stored by any of the rejected attempts
	assert.Empty(t, repo.stored)
}

func TestCreateReservation_PricingIncomplete(t *testing.T) {
	repo := newFakeRepository()
	// Drop the price entry the requested seats need
	repo.prices = map[venues.SeatType]int64{venues.SeatTypePremium: 2600}
	svc := NewService(repo, 10*time.Minute, 10)

	_, err := svc.CreateReservation(context.Background(), uuid.New(), requestFor(repo, "A1"))
	assert.ErrorIs(t, err, ErrPricingIncomplete)
	assert.Empty(t, repo.stored)
}

func TestCreateReservation_ShowGuards(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)
	ctx := context.Background()

	// Unknown show
	req := requestFor(repo, "A1")
	req.ShowID = uuid.New().String()
	_, err := svc.CreateReservation(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrShowNotFound)

	// Cancelled show
	repo.show.Status = string(shows.ShowStatusCancelled)
	_, err = svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A1"))
	assert.ErrorIs(t, err, ErrShowNotBookable)

	// Show already started
	repo.show.Status = string(shows.ShowStatusScheduled)
	repo.show.StartsAt = time.Now().Add(-time.Minute)
	_, err = svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A1"))
	assert.ErrorIs(t, err, ErrShowNotBookable)
}

func TestGetReservation_OwnershipChecks(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.CreateReservation(ctx, owner, requestFor(repo, "A1"))
	require.NoError(t, err)
	reservationID := uuid.MustParse(created.ID)

	_, err = svc.GetReservation(ctx, reservationID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotOwner)

	// Admins can read any reservation
	got, err := svc.GetReservation(ctx, reservationID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	got, err = svc.GetReservation(ctx, reservationID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, created.ReservationRef, got.ReservationRef)
}

func TestExpireStaleReservations(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A1"))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A2"))
	require.NoError(t, err)

	repo.stored[0].ExpiresAt = time.Now().Add(-time.Minute)

	expired, err := svc.ExpireStaleReservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Equal(t, StatusExpired, repo.stored[0].Status)
	assert.Equal(t, StatusPending, repo.stored[1].Status)
}

func TestActiveSeatIDs_SkipsLapsedHolds(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 10*time.Minute, 10)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A1"))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, uuid.New(), requestFor(repo, "A2"))
	require.NoError(t, err)

	repo.stored[1].ExpiresAt = time.Now().Add(-time.Minute)

	occupied, err := svc.ActiveSeatIDs(ctx, repo.show.ID)
	require.NoError(t, err)
	assert.True(t, occupied[repo.seatIDByLabel("A1")])
	assert.False(t, occupied[repo.seatIDByLabel("A2")])
}

func TestStatusOccupies(t *testing.T) {
	now := time.Now()

	assert.True(t, StatusConfirmed.Occupies(now.Add(-time.Hour), now))
	assert.True(t, StatusPending.Occupies(now.Add(time.Minute), now))
	assert.False(t, StatusPending.Occupies(now.Add(-time.Second), now))
	assert.False(t, StatusCancelled.Occupies(now.Add(time.Hour), now))
	assert.False(t, StatusExpired.Occupies(now.Add(time.Hour), now))
}
