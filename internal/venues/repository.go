package venues

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface for auditorium and seat inventory operations
type Repository interface {
	// Auditoriums
	CreateAuditorium(ctx context.Context, auditorium *Auditorium) error
	GetAuditoriumByID(ctx context.Context, id uuid.UUID) (*Auditorium, error)
	GetAuditoriumWithSeats(ctx context.Context, id uuid.UUID) (*Auditorium, error)
	GetAllAuditoriums(ctx context.Context, query AuditoriumListQuery) ([]Auditorium, int64, error)
	DeleteAuditorium(ctx context.Context, id uuid.UUID) error

	// Seats
	GetSeatsByAuditorium(ctx context.Context, auditoriumID uuid.UUID) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)
	CountSeats(ctx context.Context, auditoriumID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAuditorium(ctx context.Context, auditorium *Auditorium) error {
	// Seats are created in the same insert through the association
	return r.db.WithContext(ctx).Create(auditorium).Error
}

func (r *repository) GetAuditoriumByID(ctx context.Context, id uuid.UUID) (*Auditorium, error) {
	var auditorium Auditorium
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&auditorium).Error
	if err != nil {
		return nil, err
	}
	return &auditorium, nil
}

func (r *repository) GetAuditoriumWithSeats(ctx context.Context, id uuid.UUID) (*Auditorium, error) {
	var auditorium Auditorium
	err := r.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("row ASC, position ASC")
		}).
		Where("id = ?", id).
		First(&auditorium).Error
	if err != nil {
		return nil, err
	}
	return &auditorium, nil
}

func (r *repository) GetAllAuditoriums(ctx context.Context, query AuditoriumListQuery) ([]Auditorium, int64, error) {
	var auditoriums []Auditorium
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	baseQuery := r.db.WithContext(ctx).Model(&Auditorium{})

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("name ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&auditoriums).Error

	return auditoriums, totalCount, err
}

func (r *repository) DeleteAuditorium(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Auditorium{}, "id = ?", id).Error
}

func (r *repository) GetSeatsByAuditorium(ctx context.Context, auditoriumID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("auditorium_id = ?", auditoriumID).
		Order("row ASC, position ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByIDs(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("auditorium_id = ?", auditoriumID).
		Where("id IN ?", seatIDs).
		Find(&seats).Error
	return seats, err
}

func (r *repository) CountSeats(ctx context.Context, auditoriumID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("auditorium_id = ?", auditoriumID).
		Count(&count).Error
	return count, err
}
