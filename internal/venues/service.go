package venues

import (
	"context"
	"errors"
	"fmt"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAuditoriumNotFound = errors.New("auditorium not found")
	ErrDuplicateSeatLabel = errors.New("duplicate seat label in layout")
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateAuditorium(ctx context.Context, req CreateAuditoriumRequest) (*AuditoriumResponse, error)
	GetAuditorium(ctx context.Context, id uuid.UUID) (*AuditoriumResponse, error)
	GetAuditoriumLayout(ctx context.Context, id uuid.UUID) (*AuditoriumLayoutResponse, error)
	GetAllAuditoriums(ctx context.Context, query AuditoriumListQuery) (*PaginatedAuditoriums, error)
	DeleteAuditorium(ctx context.Context, id uuid.UUID) error

	// Seat lookups used by the show and reservation flows
	GetSeats(ctx context.Context, auditoriumID uuid.UUID) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateAuditorium(ctx context.Context, req CreateAuditoriumRequest) (*AuditoriumResponse, error) {
	// Labels must be unique within the auditorium
	seen := make(map[string]bool, len(req.Seats))
	for _, spec := range req.Seats {
		if seen[spec.Label] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeatLabel, spec.Label)
		}
		seen[spec.Label] = true
	}

	auditorium := &Auditorium{
		Name:  req.Name,
		Seats: make([]Seat, 0, len(req.Seats)),
	}
	for _, spec := range req.Seats {
		seatType := SeatType(spec.Type)
		if spec.Type == "" {
			seatType = SeatTypeStandard
		}
		auditorium.Seats = append(auditorium.Seats, Seat{
			Label:    spec.Label,
			Row:      spec.Row,
			Position: spec.Position,
			Type:     seatType,
		})
	}

	if err := s.repo.CreateAuditorium(ctx, auditorium); err != nil {
		return nil, fmt.Errorf("failed to create auditorium: %w", err)
	}

	s.invalidateVenueCaches(ctx)

	return toAuditoriumResponse(auditorium, len(auditorium.Seats)), nil
}

func (s *service) GetAuditorium(ctx context.Context, id uuid.UUID) (*AuditoriumResponse, error) {
	auditorium, err := s.repo.GetAuditoriumByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditoriumNotFound
		}
		return nil, err
	}

	count, err := s.repo.CountSeats(ctx, id)
	if err != nil {
		return nil, err
	}

	return toAuditoriumResponse(auditorium, int(count)), nil
}

func (s *service) GetAuditoriumLayout(ctx context.Context, id uuid.UUID) (*AuditoriumLayoutResponse, error) {
	// Layouts are immutable after creation, so a long TTL is safe
	if s.cacheService != nil {
		var cached AuditoriumLayoutResponse
		key := constants.BuildAuditoriumLayoutKey(id.String())
		err := s.cacheService.GetOrSet(ctx, key, constants.TTL_AUDITORIUM_LAYOUT, func() (interface{}, error) {
			return s.buildLayout(ctx, id)
		}, &cached)
		if err == nil {
			return &cached, nil
		}
		if errors.Is(err, ErrAuditoriumNotFound) {
			return nil, err
		}
		// Fall through to the database on cache trouble
	}

	return s.buildLayout(ctx, id)
}

func (s *service) buildLayout(ctx context.Context, id uuid.UUID) (*AuditoriumLayoutResponse, error) {
	auditorium, err := s.repo.GetAuditoriumWithSeats(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditoriumNotFound
		}
		return nil, err
	}

	layout := &AuditoriumLayoutResponse{
		ID:        auditorium.ID.String(),
		Name:      auditorium.Name,
		SeatCount: len(auditorium.Seats),
	}

	// Seats arrive ordered by row and position
	var currentRow *AuditoriumRowResponse
	for _, seat := range auditorium.Seats {
		if currentRow == nil || currentRow.Row != seat.Row {
			layout.Rows = append(layout.Rows, AuditoriumRowResponse{Row: seat.Row})
			currentRow = &layout.Rows[len(layout.Rows)-1]
		}
		currentRow.Seats = append(currentRow.Seats, SeatResponse{
			ID:       seat.ID.String(),
			Label:    seat.Label,
			Row:      seat.Row,
			Position: seat.Position,
			Type:     seat.Type.String(),
		})
	}

	return layout, nil
}

func (s *service) GetAllAuditoriums(ctx context.Context, query AuditoriumListQuery) (*PaginatedAuditoriums, error) {
	auditoriums, totalCount, err := s.repo.GetAllAuditoriums(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]AuditoriumResponse, 0, len(auditoriums))
	for i := range auditoriums {
		count, err := s.repo.CountSeats(ctx, auditoriums[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *toAuditoriumResponse(&auditoriums[i], int(count)))
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	return &PaginatedAuditoriums{
		Auditoriums: responses,
		TotalCount:  totalCount,
		Page:        query.Page,
		Limit:       query.Limit,
	}, nil
}

func (s *service) DeleteAuditorium(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetAuditoriumByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuditoriumNotFound
		}
		return err
	}

	if err := s.repo.DeleteAuditorium(ctx, id); err != nil {
		return fmt.Errorf("failed to delete auditorium: %w", err)
	}

	s.invalidateVenueCaches(ctx)
	return nil
}

func (s *service) GetSeats(ctx context.Context, auditoriumID uuid.UUID) ([]Seat, error) {
	return s.repo.GetSeatsByAuditorium(ctx, auditoriumID)
}

func (s *service) GetSeatsByIDs(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	return s.repo.GetSeatsByIDs(ctx, auditoriumID, seatIDs)
}

func (s *service) invalidateVenueCaches(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_VENUES_ALL); err != nil {
		fmt.Printf("Warning: failed to invalidate venue caches: %v\n", err)
	}
}

func toAuditoriumResponse(a *Auditorium, seatCount int) *AuditoriumResponse {
	return &AuditoriumResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		SeatCount: seatCount,
		CreatedAt: a.CreatedAt,
	}
}
