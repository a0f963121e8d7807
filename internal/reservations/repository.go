package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/shows"
	"cinebook/internal/venues"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShowRow is the slice of a show the reservation transaction needs after
// taking the row lock.
type ShowRow struct {
	ID           uuid.UUID `gorm:"column:id"`
	AuditoriumID uuid.UUID `gorm:"column:auditorium_id"`
	Status       string    `gorm:"column:status"`
	StartsAt     time.Time `gorm:"column:starts_at"`
}

type Repository interface {
	// WithTx runs fn inside a database transaction. The Repository passed
	// to fn operates on the transaction, so every read and write in fn
	// shares one atomic scope.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// LockShow takes a FOR UPDATE lock on the show row, serializing all
	// reservation attempts for the show.
	LockShow(ctx context.Context, showID uuid.UUID) (*ShowRow, error)

	GetShowPrices(ctx context.Context, showID uuid.UUID) (map[venues.SeatType]int64, error)
	GetSeats(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]venues.Seat, error)

	// FindConflictingSeatLabels returns the labels of requested seats held
	// by other users at the given instant.
	FindConflictingSeatLabels(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID, excludeUserID uuid.UUID, now time.Time) ([]string, error)

	Create(ctx context.Context, reservation *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, query ReservationListQuery) ([]Reservation, int64, error)

	// ActiveSeatIDs returns the seats occupied for a show at the instant
	ActiveSeatIDs(ctx context.Context, showID uuid.UUID, now time.Time) ([]uuid.UUID, error)

	// ExpirePending marks lapsed PENDING rows as EXPIRED for reporting.
	// Correctness never depends on this; occupancy checks evaluate
	// expires_at directly.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) LockShow(ctx context.Context, showID uuid.UUID) (*ShowRow, error) {
	var show ShowRow
	err := r.db.WithContext(ctx).
		Table("shows").
		Select("id, auditorium_id, status, starts_at").
		Where("id = ?", showID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("failed to lock show: %w", err)
	}
	return &show, nil
}

func (r *repository) GetShowPrices(ctx context.Context, showID uuid.UUID) (map[venues.SeatType]int64, error) {
	var prices []shows.ShowPrice
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Find(&prices).Error
	if err != nil {
		return nil, err
	}

	priceMap := make(map[venues.SeatType]int64, len(prices))
	for _, p := range prices {
		priceMap[p.SeatType] = p.PriceCents
	}
	return priceMap, nil
}

func (r *repository) GetSeats(ctx context.Context, auditoriumID uuid.UUID, seatIDs []uuid.UUID) ([]venues.Seat, error) {
	var seats []venues.Seat
	err := r.db.WithContext(ctx).
		Where("auditorium_id = ?", auditoriumID).
		Where("id IN ?", seatIDs).
		Find(&seats).Error
	return seats, err
}

func (r *repository) FindConflictingSeatLabels(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID, excludeUserID uuid.UUID, now time.Time) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).
		Table("reservation_seats rs").
		Select("rs.seat_label").
		Joins("JOIN reservations r ON r.id = rs.reservation_id").
		Where("rs.show_id = ?", showID).
		Where("rs.seat_id IN ?", seatIDs).
		Where("r.user_id <> ?", excludeUserID).
		Where("(r.status = ? OR (r.status = ? AND r.expires_at > ?))",
			StatusConfirmed, StatusPending, now).
		Order("rs.seat_label ASC").
		Scan(&labels).Error
	return labels, err
}

func (r *repository) Create(ctx context.Context, reservation *Reservation) error {
	// Seats are inserted through the association in the same statement
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID, query ReservationListQuery) ([]Reservation, int64, error) {
	var reservations []Reservation
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("user_id = ?", userID)

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&reservations).Error

	return reservations, totalCount, err
}

func (r *repository) ActiveSeatIDs(ctx context.Context, showID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	var seatIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("reservation_seats rs").
		Select("rs.seat_id").
		Joins("JOIN reservations r ON r.id = rs.reservation_id").
		Where("rs.show_id = ?", showID).
		Where("(r.status = ? OR (r.status = ? AND r.expires_at > ?))",
			StatusConfirmed, StatusPending, now).
		Scan(&seatIDs).Error
	return seatIDs, err
}

func (r *repository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("status = ?", StatusPending).
		Where("expires_at <= ?", now).
		Updates(map[string]interface{}{
			"status":     StatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
