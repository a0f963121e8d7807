package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinebook/internal/reservations"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository gives the reconciler its transactional primitives. Everything
// the reconciler decides happens between LockReservation and the commit of
// the surrounding WithTx, so two deliveries of the same event serialize on
// the reservation row.
type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	// InsertSettlementEvent records the provider event. Returns
	// ErrDuplicateEvent when the provider event id was already recorded.
	InsertSettlementEvent(ctx context.Context, event *SettlementEvent) error

	// LockReservation loads the reservation with a FOR UPDATE lock.
	LockReservation(ctx context.Context, reservationID uuid.UUID) (*reservations.Reservation, error)

	GetReservation(ctx context.Context, reservationID uuid.UUID) (*reservations.Reservation, error)
	UpdateReservation(ctx context.Context, reservation *reservations.Reservation) error

	// GetShowSnapshot reads the catalog details a receipt freezes at
	// confirmation time.
	GetShowSnapshot(ctx context.Context, showID uuid.UUID) (*ShowSnapshot, error)

	CreateReceipt(ctx context.Context, receipt *Receipt) error
	GetReceiptByReservation(ctx context.Context, reservationID uuid.UUID) (*Receipt, error)
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

func (r *repository) InsertSettlementEvent(ctx context.Context, event *SettlementEvent) error {
	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil {
		if isUniqueViolation(err, "unique_settlement_provider_event") {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("failed to record settlement event: %w", err)
	}
	return nil
}

func (r *repository) LockReservation(ctx context.Context, reservationID uuid.UUID) (*reservations.Reservation, error) {
	var reservation reservations.Reservation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", reservationID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to lock reservation: %w", err)
	}
	return &reservation, nil
}

func (r *repository) GetReservation(ctx context.Context, reservationID uuid.UUID) (*reservations.Reservation, error) {
	var reservation reservations.Reservation
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("id = ?", reservationID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	return &reservation, nil
}

// ShowSnapshot is the slice of the catalog a receipt copies so later movie
// or auditorium edits cannot rewrite history.
type ShowSnapshot struct {
	MovieTitle     string    `gorm:"column:movie_title"`
	AuditoriumName string    `gorm:"column:auditorium_name"`
	StartsAt       time.Time `gorm:"column:starts_at"`
}

func (r *repository) GetShowSnapshot(ctx context.Context, showID uuid.UUID) (*ShowSnapshot, error) {
	var snapshot ShowSnapshot
	err := r.db.WithContext(ctx).
		Table("shows").
		Select("movies.title AS movie_title, auditoriums.name AS auditorium_name, shows.starts_at").
		Joins("JOIN movies ON movies.id = shows.movie_id").
		Joins("JOIN auditoriums ON auditoriums.id = shows.auditorium_id").
		Where("shows.id = ?", showID).
		Take(&snapshot).Error
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot show details: %w", err)
	}
	return &snapshot, nil
}

func (r *repository) UpdateReservation(ctx context.Context, reservation *reservations.Reservation) error {
	if err := r.db.WithContext(ctx).Save(reservation).Error; err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	return nil
}

func (r *repository) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	if err := r.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	return nil
}

func (r *repository) GetReceiptByReservation(ctx context.Context, reservationID uuid.UUID) (*Receipt, error) {
	var receipt Receipt
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to fetch receipt: %w", err)
	}
	return &receipt, nil
}

func isUniqueViolation(err error, constraint string) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), constraint) ||
		strings.Contains(err.Error(), "duplicate key value")
}
