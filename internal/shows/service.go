package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/shared/constants"
	"cinebook/internal/venues"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// cleaningBuffer is added after the runtime so back-to-back shows leave
// time to clear the auditorium.
const cleaningBuffer = 15 * time.Minute

var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrShowNotFound      = errors.New("show not found")
	ErrShowInPast        = errors.New("show start time is in the past")
	ErrDuplicatePriceTag = errors.New("duplicate seat type in price list")
)

// VenueService is the narrow slice of the venues service the show flow
// needs (avoids a package cycle through controllers).
type VenueService interface {
	GetSeats(ctx context.Context, auditoriumID uuid.UUID) ([]venues.Seat, error)
}

// ReservationReader reports which seats are occupied for a show. Implemented
// by the reservations service and injected at startup.
type ReservationReader interface {
	ActiveSeatIDs(ctx context.Context, showID uuid.UUID) (map[uuid.UUID]bool, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetVenueService(venueService VenueService)
	SetReservationReader(reader ReservationReader)

	// Movies
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*MovieResponse, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*MovieResponse, error)
	GetAllMovies(ctx context.Context, query MovieListQuery) (*PaginatedMovies, error)

	// Shows
	CreateShow(ctx context.Context, req CreateShowRequest) (*ShowResponse, error)
	GetShow(ctx context.Context, id uuid.UUID) (*ShowResponse, error)
	GetShowsByDate(ctx context.Context, query ShowListQuery) ([]ShowResponse, error)
	CancelShow(ctx context.Context, id uuid.UUID) error
	UpdateShowPrices(ctx context.Context, id uuid.UUID, req UpdateShowPricesRequest) (*ShowResponse, error)

	// Seat map
	GetSeatMap(ctx context.Context, showID uuid.UUID) (*SeatMapResponse, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	venueService VenueService
	reservations ReservationReader
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetVenueService(venueService VenueService) {
	s.venueService = venueService
}

func (s *service) SetReservationReader(reader ReservationReader) {
	s.reservations = reader
}

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*MovieResponse, error) {
	movie := &Movie{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
		PosterURL:       req.PosterURL,
	}

	if err := s.repo.CreateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidate(ctx, constants.PATTERN_INVALIDATE_MOVIES_ALL)

	return toMovieResponse(movie), nil
}

func (s *service) GetMovie(ctx context.Context, id uuid.UUID) (*MovieResponse, error) {
	if s.cacheService != nil {
		var cached MovieResponse
		key := constants.BuildMovieDetailKey(id.String())
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	movie, err := s.repo.GetMovieByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	resp := toMovieResponse(movie)
	if s.cacheService != nil {
		key := constants.BuildMovieDetailKey(id.String())
		if err := s.cacheService.Set(ctx, key, resp, constants.TTL_MOVIE_DETAIL); err != nil {
			fmt.Printf("Warning: failed to cache movie detail: %v\n", err)
		}
	}
	return resp, nil
}

func (s *service) GetAllMovies(ctx context.Context, query MovieListQuery) (*PaginatedMovies, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	fetch := func() (interface{}, error) {
		movies, totalCount, err := s.repo.GetAllMovies(ctx, query)
		if err != nil {
			return nil, err
		}
		responses := make([]MovieResponse, 0, len(movies))
		for i := range movies {
			responses = append(responses, *toMovieResponse(&movies[i]))
		}
		return &PaginatedMovies{
			Movies:     responses,
			TotalCount: totalCount,
			Page:       query.Page,
			Limit:      query.Limit,
		}, nil
	}

	if s.cacheService != nil {
		var cached PaginatedMovies
		key := constants.BuildMoviesListKey(query.Page, query.Limit)
		if err := s.cacheService.GetOrSet(ctx, key, constants.TTL_MOVIES_LIST, fetch, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	return result.(*PaginatedMovies), nil
}

func (s *service) CreateShow(ctx context.Context, req CreateShowRequest) (*ShowResponse, error) {
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID: %w", err)
	}
	auditoriumID, err := uuid.Parse(req.AuditoriumID)
	if err != nil {
		return nil, fmt.Errorf("invalid auditorium ID: %w", err)
	}

	if req.StartsAt.Before(time.Now()) {
		return nil, ErrShowInPast
	}

	movie, err := s.repo.GetMovieByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	prices, err := buildPrices(req.Prices)
	if err != nil {
		return nil, err
	}

	show := &Show{
		MovieID:      movieID,
		AuditoriumID: auditoriumID,
		StartsAt:     req.StartsAt,
		EndsAt:       req.StartsAt.Add(time.Duration(movie.DurationMinutes)*time.Minute + cleaningBuffer),
		Status:       ShowStatusScheduled,
		Prices:       prices,
	}

	if err := s.repo.CreateShowWithOverlapCheck(ctx, show); err != nil {
		return nil, err
	}

	s.invalidate(ctx, constants.PATTERN_INVALIDATE_SHOWS_ALL)

	created, err := s.repo.GetShowWithRelations(ctx, show.ID)
	if err != nil {
		return nil, err
	}
	return toShowResponse(created), nil
}

func (s *service) GetShow(ctx context.Context, id uuid.UUID) (*ShowResponse, error) {
	fetch := func() (interface{}, error) {
		show, err := s.repo.GetShowWithRelations(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShowNotFound
			}
			return nil, err
		}
		return toShowResponse(show), nil
	}

	if s.cacheService != nil {
		var cached ShowResponse
		key := constants.BuildShowDetailKey(id.String())
		if err := s.cacheService.GetOrSet(ctx, key, constants.TTL_SHOW_DETAIL, fetch, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	return result.(*ShowResponse), nil
}

func (s *service) GetShowsByDate(ctx context.Context, query ShowListQuery) ([]ShowResponse, error) {
	date := query.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	dayStart, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	var movieID *uuid.UUID
	if query.MovieID != "" {
		id, err := uuid.Parse(query.MovieID)
		if err != nil {
			return nil, fmt.Errorf("invalid movie ID: %w", err)
		}
		movieID = &id
	}

	shows, err := s.repo.GetShowsByDate(ctx, dayStart, dayEnd, movieID)
	if err != nil {
		return nil, err
	}

	responses := make([]ShowResponse, 0, len(shows))
	for i := range shows {
		responses = append(responses, *toShowResponse(&shows[i]))
	}
	return responses, nil
}

func (s *service) CancelShow(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetShowByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShowNotFound
		}
		return err
	}

	if err := s.repo.UpdateShowStatus(ctx, id, ShowStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel show: %w", err)
	}

	s.invalidate(ctx, constants.PATTERN_INVALIDATE_SHOWS_ALL)
	s.invalidateSeatMap(ctx, id)
	return nil
}

func (s *service) UpdateShowPrices(ctx context.Context, id uuid.UUID, req UpdateShowPricesRequest) (*ShowResponse, error) {
	if _, err := s.repo.GetShowByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}

	prices, err := buildPrices(req.Prices)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplacePrices(ctx, id, prices); err != nil {
		return nil, err
	}

	s.invalidate(ctx, constants.PATTERN_INVALIDATE_SHOWS_ALL)
	s.invalidateSeatMap(ctx, id)

	show, err := s.repo.GetShowWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	return toShowResponse(show), nil
}

// GetSeatMap builds the browse view of a show's seats with occupancy.
// Occupancy covers confirmed reservations plus pending holds that have not
// lapsed. The map is cached briefly and dropped on reservation writes, so
// it can run a beat behind the ledger; the reservation transaction is the
// only authority on seat exclusivity.
func (s *service) GetSeatMap(ctx context.Context, showID uuid.UUID) (*SeatMapResponse, error) {
	fetch := func() (interface{}, error) {
		return s.buildSeatMap(ctx, showID)
	}

	if s.cacheService != nil {
		var cached SeatMapResponse
		key := constants.BuildSeatMapKey(showID.String())
		if err := s.cacheService.GetOrSet(ctx, key, constants.TTL_SEAT_MAP, fetch, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	return result.(*SeatMapResponse), nil
}

func (s *service) buildSeatMap(ctx context.Context, showID uuid.UUID) (*SeatMapResponse, error) {
	show, err := s.repo.GetShowWithRelations(ctx, showID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}

	seats, err := s.venueService.GetSeats(ctx, show.AuditoriumID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	occupied := map[uuid.UUID]bool{}
	if s.reservations != nil {
		occupied, err = s.reservations.ActiveSeatIDs(ctx, showID)
		if err != nil {
			return nil, fmt.Errorf("failed to load seat occupancy: %w", err)
		}
	}

	priceByType := make(map[venues.SeatType]int64, len(show.Prices))
	for _, p := range show.Prices {
		priceByType[p.SeatType] = p.PriceCents
	}

	resp := &SeatMapResponse{
		ShowID:       show.ID.String(),
		AuditoriumID: show.AuditoriumID.String(),
		GeneratedAt:  time.Now(),
	}
	if show.Auditorium != nil {
		resp.AuditoriumName = show.Auditorium.Name
	}

	for _, seat := range seats {
		resp.Seats = append(resp.Seats, SeatMapSeat{
			SeatID:     seat.ID.String(),
			Label:      seat.Label,
			Row:        seat.Row,
			Position:   seat.Position,
			Type:       seat.Type.String(),
			PriceCents: priceByType[seat.Type],
			Occupied:   occupied[seat.ID],
		})
	}

	return resp, nil
}

func (s *service) invalidate(ctx context.Context, pattern string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
		fmt.Printf("Warning: failed to invalidate cache pattern %s: %v\n", pattern, err)
	}
}

func (s *service) invalidateSeatMap(ctx context.Context, showID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildSeatMapKey(showID.String())); err != nil {
		fmt.Printf("Warning: failed to invalidate seat map cache: %v\n", err)
	}
}

func buildPrices(reqs []ShowPriceRequest) ([]ShowPrice, error) {
	seen := make(map[string]bool, len(reqs))
	prices := make([]ShowPrice, 0, len(reqs))
	for _, p := range reqs {
		if seen[p.SeatType] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePriceTag, p.SeatType)
		}
		seen[p.SeatType] = true
		prices = append(prices, ShowPrice{
			SeatType:   venues.SeatType(p.SeatType),
			PriceCents: p.PriceCents,
		})
	}
	return prices, nil
}

func toMovieResponse(m *Movie) *MovieResponse {
	return &MovieResponse{
		ID:              m.ID.String(),
		Title:           m.Title,
		Description:     m.Description,
		DurationMinutes: m.DurationMinutes,
		Rating:          m.Rating,
		PosterURL:       m.PosterURL,
		CreatedAt:       m.CreatedAt,
	}
}

func toShowResponse(show *Show) *ShowResponse {
	resp := &ShowResponse{
		ID:           show.ID.String(),
		MovieID:      show.MovieID.String(),
		AuditoriumID: show.AuditoriumID.String(),
		StartsAt:     show.StartsAt,
		EndsAt:       show.EndsAt,
		Status:       show.Status.String(),
	}
	if show.Movie != nil {
		resp.MovieTitle = show.Movie.Title
	}
	if show.Auditorium != nil {
		resp.AuditoriumName = show.Auditorium.Name
	}
	for _, p := range show.Prices {
		resp.Prices = append(resp.Prices, ShowPriceResponse{
			SeatType:   p.SeatType.String(),
			PriceCents: p.PriceCents,
		})
	}
	return resp
}
