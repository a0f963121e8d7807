package venues

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepository struct {
	auditoriums map[uuid.UUID]*Auditorium
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{auditoriums: make(map[uuid.UUID]*Auditorium)}
}

func (f *fakeRepository) CreateAuditorium(ctx context.Context, auditorium *Auditorium) error {
	auditorium.ID = uuid.New()
	for i := range auditorium.Seats {
		auditorium.Seats[i].ID = uuid.New()
		auditorium.Seats[i].AuditoriumID = auditorium.ID
	}
	f.auditoriums[auditorium.ID] = auditorium
	return nil
}

func (f *fakeRepository) GetAuditoriumByID(ctx context.Context, id uuid.UUID) (*Auditorium, error) {
	if a, ok := f.auditoriums[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetAuditoriumWithSeats(ctx context.Context, id uuid.UUID) (*Auditorium, error) {
	return f.GetAuditoriumByID(ctx, id)
}

func (f *fakeRepository) GetAllAuditoriums(ctx context.Context, query AuditoriumListQuery) ([]Auditorium, int64, error) {
	var result []Auditorium
	for _, a := range f.auditoriums {
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRepository) DeleteAuditorium(ctx context.Context, id uuid.UUID) error {
	delete(f.auditoriums, id)
	return nil
}

func (f *fakeRepository) GetSeatsByAuditorium(ctx context.Context, auditoriumID uuid.UUID) ([]Seat, error) {
	a, err := f.GetAuditoriumByID(ctx, auditoriumID)
	if err != nil {
		return nil, err
	}
	return a.Seats, nil
}

func (f *fakeRepository) GetSeatsByIDs(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	all, err := f.GetSeatsByAuditorium(ctx, auditoriumID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]bool, len(seatIDs))
	for _, id := range seatIDs {
		wanted[id] = true
	}
	var result []Seat
	for _, seat := range all {
		if wanted[seat.ID] {
			result = append(result, seat)
		}
	}
	return result, nil
}

func (f *fakeRepository) CountSeats(ctx context.Context, auditoriumID uuid.UUID) (int64, error) {
	a, err := f.GetAuditoriumByID(ctx, auditoriumID)
	if err != nil {
		return 0, err
	}
	return int64(len(a.Seats)), nil
}

func TestCreateAuditorium(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	resp, err := svc.CreateAuditorium(context.Background(), CreateAuditoriumRequest{
		Name: "Screen 1",
		Seats: []SeatSpec{
			{Label: "A1", Row: "A", Position: 1},
			{Label: "A2", Row: "A", Position: 2, Type: "PREMIUM"},
			{Label: "B1", Row: "B", Position: 1, Type: "WHEELCHAIR"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Screen 1", resp.Name)
	assert.Equal(t, 3, resp.SeatCount)

	stored := repo.auditoriums[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored)
	// Untyped seats default to STANDARD
	assert.Equal(t, SeatTypeStandard, stored.Seats[0].Type)
	assert.Equal(t, SeatTypePremium, stored.Seats[1].Type)
	assert.Equal(t, SeatTypeWheelchair, stored.Seats[2].Type)
}

func TestCreateAuditorium_DuplicateLabel(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.CreateAuditorium(context.Background(), CreateAuditoriumRequest{
		Name: "Screen 1",
		Seats: []SeatSpec{
			{Label: "A1", Row: "A", Position: 1},
			{Label: "A1", Row: "A", Position: 2},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateSeatLabel)
	assert.Empty(t, repo.auditoriums)
}

func TestGetAuditoriumLayout_GroupsByRow(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateAuditorium(ctx, CreateAuditoriumRequest{
		Name: "Screen 1",
		Seats: []SeatSpec{
			{Label: "A1", Row: "A", Position: 1},
			{Label: "A2", Row: "A", Position: 2},
			{Label: "B1", Row: "B", Position: 1},
		},
	})
	require.NoError(t, err)

	layout, err := svc.GetAuditoriumLayout(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, 3, layout.SeatCount)
	require.Len(t, layout.Rows, 2)
	assert.Equal(t, "A", layout.Rows[0].Row)
	assert.Len(t, layout.Rows[0].Seats, 2)
	assert.Equal(t, "B", layout.Rows[1].Row)
	assert.Len(t, layout.Rows[1].Seats, 1)

	_, err = svc.GetAuditoriumLayout(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAuditoriumNotFound)
}
