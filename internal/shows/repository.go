package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAuditoriumMissing = errors.New("auditorium not found")
	ErrShowOverlap       = errors.New("show overlaps an existing show in this auditorium")
)

type Repository interface {
	// Movies
	CreateMovie(ctx context.Context, movie *Movie) error
	GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	GetAllMovies(ctx context.Context, query MovieListQuery) ([]Movie, int64, error)

	// Shows
	CreateShowWithOverlapCheck(ctx context.Context, show *Show) error
	GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error)
	GetShowWithRelations(ctx context.Context, id uuid.UUID) (*Show, error)
	GetShowsByDate(ctx context.Context, dayStart, dayEnd time.Time, movieID *uuid.UUID) ([]Show, error)
	UpdateShowStatus(ctx context.Context, id uuid.UUID, status ShowStatus) error

	// Pricing
	GetPrices(ctx context.Context, showID uuid.UUID) ([]ShowPrice, error)
	ReplacePrices(ctx context.Context, showID uuid.UUID, prices []ShowPrice) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMovie(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *repository) GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) GetAllMovies(ctx context.Context, query MovieListQuery) ([]Movie, int64, error) {
	var movies []Movie
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	baseQuery := r.db.WithContext(ctx).Model(&Movie{})

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("title ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&movies).Error

	return movies, totalCount, err
}

// CreateShowWithOverlapCheck creates a show and its prices atomically. The
// auditorium row is locked so two concurrent schedulers cannot both pass the
// overlap check.
func (r *repository) CreateShowWithOverlapCheck(ctx context.Context, show *Show) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var auditorium struct {
			ID uuid.UUID `gorm:"column:id"`
		}

		err := tx.Table("auditoriums").
			Select("id").
			Where("id = ?", show.AuditoriumID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&auditorium).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuditoriumMissing
			}
			return fmt.Errorf("failed to lock auditorium: %w", err)
		}

		// Two windows overlap when each starts before the other ends
		var overlapping int64
		err = tx.Model(&Show{}).
			Where("auditorium_id = ?", show.AuditoriumID).
			Where("status = ?", ShowStatusScheduled).
			Where("starts_at < ? AND ends_at > ?", show.EndsAt, show.StartsAt).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("failed to check overlapping shows: %w", err)
		}
		if overlapping > 0 {
			return ErrShowOverlap
		}

		if err := tx.Create(show).Error; err != nil {
			return fmt.Errorf("failed to create show: %w", err)
		}

		return nil
	})
}

func (r *repository) GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&show).Error
	if err != nil {
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetShowWithRelations(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Auditorium").
		Preload("Prices").
		Where("id = ?", id).
		First(&show).Error
	if err != nil {
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetShowsByDate(ctx context.Context, dayStart, dayEnd time.Time, movieID *uuid.UUID) ([]Show, error) {
	var shows []Show

	query := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Auditorium").
		Preload("Prices").
		Where("starts_at >= ? AND starts_at < ?", dayStart, dayEnd).
		Where("status = ?", ShowStatusScheduled)

	if movieID != nil {
		query = query.Where("movie_id = ?", *movieID)
	}

	err := query.Order("starts_at ASC").Find(&shows).Error
	return shows, err
}

func (r *repository) UpdateShowStatus(ctx context.Context, id uuid.UUID, status ShowStatus) error {
	return r.db.WithContext(ctx).
		Model(&Show{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) GetPrices(ctx context.Context, showID uuid.UUID) ([]ShowPrice, error) {
	var prices []ShowPrice
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Find(&prices).Error
	return prices, err
}

func (r *repository) ReplacePrices(ctx context.Context, showID uuid.UUID, prices []ShowPrice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("show_id = ?", showID).Delete(&ShowPrice{}).Error; err != nil {
			return fmt.Errorf("failed to clear show prices: %w", err)
		}
		for i := range prices {
			prices[i].ShowID = showID
		}
		if err := tx.Create(&prices).Error; err != nil {
			return fmt.Errorf("failed to create show prices: %w", err)
		}
		return nil
	})
}
