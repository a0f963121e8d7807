package shows

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepository struct {
	movies map[uuid.UUID]*Movie
	shows  map[uuid.UUID]*Show
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		movies: make(map[uuid.UUID]*Movie),
		shows:  make(map[uuid.UUID]*Show),
	}
}

func (f *fakeRepository) addMovie(title string, durationMinutes int) *Movie {
	m := &Movie{ID: uuid.New(), Title: title, DurationMinutes: durationMinutes}
	f.movies[m.ID] = m
	return m
}

func (f *fakeRepository) CreateMovie(ctx context.Context, movie *Movie) error {
	movie.ID = uuid.New()
	f.movies[movie.ID] = movie
	return nil
}

func (f *fakeRepository) GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	if m, ok := f.movies[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetAllMovies(ctx context.Context, query MovieListQuery) ([]Movie, int64, error) {
	var result []Movie
	for _, m := range f.movies {
		result = append(result, *m)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRepository) CreateShowWithOverlapCheck(ctx context.Context, show *Show) error {
	for _, existing := range f.shows {
		if existing.AuditoriumID == show.AuditoriumID &&
			existing.Status == ShowStatusScheduled &&
			show.StartsAt.Before(existing.EndsAt) && existing.StartsAt.Before(show.EndsAt) {
			return ErrShowOverlap
		}
	}
	show.ID = uuid.New()
	f.shows[show.ID] = show
	return nil
}

func (f *fakeRepository) GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	if s, ok := f.shows[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetShowWithRelations(ctx context.Context, id uuid.UUID) (*Show, error) {
	show, err := f.GetShowByID(ctx, id)
	if err != nil {
		return nil, err
	}
	show.Movie = f.movies[show.MovieID]
	return show, nil
}

func (f *fakeRepository) GetShowsByDate(ctx context.Context, dayStart, dayEnd time.Time, movieID *uuid.UUID) ([]Show, error) {
	var result []Show
	for _, s := range f.shows {
		if s.StartsAt.Before(dayStart) || !s.StartsAt.Before(dayEnd) {
			continue
		}
		if movieID != nil && s.MovieID != *movieID {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (f *fakeRepository) UpdateShowStatus(ctx context.Context, id uuid.UUID, status ShowStatus) error {
	show, err := f.GetShowByID(ctx, id)
	if err != nil {
		return err
	}
	show.Status = status
	return nil
}

func (f *fakeRepository) GetPrices(ctx context.Context, showID uuid.UUID) ([]ShowPrice, error) {
	show, err := f.GetShowByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	return show.Prices, nil
}

func (f *fakeRepository) ReplacePrices(ctx context.Context, showID uuid.UUID, prices []ShowPrice) error {
	show, err := f.GetShowByID(ctx, showID)
	if err != nil {
		return err
	}
	show.Prices = prices
	return nil
}

type fakeVenueService struct {
	seats []venues.Seat
}

func (f *fakeVenueService) GetSeats(ctx context.Context, auditoriumID uuid.UUID) ([]venues.Seat, error) {
	return f.seats, nil
}

type fakeReservationReader struct {
	occupied map[uuid.UUID]bool
}

func (f *fakeReservationReader) ActiveSeatIDs(ctx context.Context, showID uuid.UUID) (map[uuid.UUID]bool, error) {
	return f.occupied, nil
}

func standardPrices() []ShowPriceRequest {
	return []ShowPriceRequest{
		{SeatType: "STANDARD", PriceCents: 1400},
		{SeatType: "PREMIUM", PriceCents: 2600},
	}
}

func TestCreateShow_EndsAtIncludesCleaningBuffer(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movie := repo.addMovie("Arrival", 116)

	startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	resp, err := svc.CreateShow(context.Background(), CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: uuid.New().String(),
		StartsAt:     startsAt,
		Prices:       standardPrices(),
	})
	require.NoError(t, err)

	wantEnd := startsAt.Add(116*time.Minute + cleaningBuffer)
	assert.Equal(t, wantEnd, resp.EndsAt)
	assert.Equal(t, ShowStatusScheduled.String(), resp.Status)
}

func TestCreateShow_Rejections(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movie := repo.addMovie("Arrival", 116)
	ctx := context.Background()
	startsAt := time.Now().Add(24 * time.Hour)

	_, err := svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: uuid.New().String(),
		StartsAt:     time.Now().Add(-time.Hour),
		Prices:       standardPrices(),
	})
	assert.ErrorIs(t, err, ErrShowInPast)

	_, err = svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      uuid.New().String(),
		AuditoriumID: uuid.New().String(),
		StartsAt:     startsAt,
		Prices:       standardPrices(),
	})
	assert.ErrorIs(t, err, ErrMovieNotFound)

	_, err = svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: uuid.New().String(),
		StartsAt:     startsAt,
		Prices: []ShowPriceRequest{
			{SeatType: "STANDARD", PriceCents: 1400},
			{SeatType: "STANDARD", PriceCents: 1500},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicatePriceTag)
}

func TestCreateShow_OverlapInSameAuditorium(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movie := repo.addMovie("Arrival", 116)
	ctx := context.Background()

	auditoriumID := uuid.New().String()
	startsAt := time.Now().Add(24 * time.Hour)

	_, err := svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: auditoriumID,
		StartsAt:     startsAt,
		Prices:       standardPrices(),
	})
	require.NoError(t, err)

	// One hour into the first screening, same room.
	_, err = svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: auditoriumID,
		StartsAt:     startsAt.Add(time.Hour),
		Prices:       standardPrices(),
	})
	assert.ErrorIs(t, err, ErrShowOverlap)

	// A different auditorium at the same time is fine.
	_, err = svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: uuid.New().String(),
		StartsAt:     startsAt.Add(time.Hour),
		Prices:       standardPrices(),
	})
	assert.NoError(t, err)
}

func TestGetSeatMap(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movie := repo.addMovie("Arrival", 116)
	ctx := context.Background()

	auditoriumID := uuid.New()
	seatA1 := venues.Seat{ID: uuid.New(), AuditoriumID: auditoriumID, Label: "A1", Row: "A", Position: 1, Type: venues.SeatTypeStandard}
	seatA2 := venues.Seat{ID: uuid.New(), AuditoriumID: auditoriumID, Label: "A2", Row: "A", Position: 2, Type: venues.SeatTypePremium}
	svc.SetVenueService(&fakeVenueService{seats: []venues.Seat{seatA1, seatA2}})

	resp, err := svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: auditoriumID.String(),
		StartsAt:     time.Now().Add(24 * time.Hour),
		Prices:       standardPrices(),
	})
	require.NoError(t, err)
	showID := uuid.MustParse(resp.ID)

	svc.SetReservationReader(&fakeReservationReader{occupied: map[uuid.UUID]bool{seatA1.ID: true}})

	seatMap, err := svc.GetSeatMap(ctx, showID)
	require.NoError(t, err)
	require.Len(t, seatMap.Seats, 2)

	byLabel := make(map[string]SeatMapSeat, 2)
	for _, s := range seatMap.Seats {
		byLabel[s.Label] = s
	}
	assert.True(t, byLabel["A1"].Occupied)
	assert.False(t, byLabel["A2"].Occupied)
	assert.Equal(t, int64(1400), byLabel["A1"].PriceCents)
	assert.Equal(t, int64(2600), byLabel["A2"].PriceCents)

	_, err = svc.GetSeatMap(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestCancelShow(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movie := repo.addMovie("Arrival", 116)
	ctx := context.Background()

	resp, err := svc.CreateShow(ctx, CreateShowRequest{
		MovieID:      movie.ID.String(),
		AuditoriumID: uuid.New().String(),
		StartsAt:     time.Now().Add(24 * time.Hour),
		Prices:       standardPrices(),
	})
	require.NoError(t, err)
	showID := uuid.MustParse(resp.ID)

	require.NoError(t, svc.CancelShow(ctx, showID))
	assert.Equal(t, ShowStatusCancelled, repo.shows[showID].Status)

	assert.ErrorIs(t, svc.CancelShow(ctx, uuid.New()), ErrShowNotFound)
}
