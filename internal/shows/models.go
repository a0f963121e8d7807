package shows

import (
	"time"

	"cinebook/internal/venues"

	"github.com/google/uuid"
)

// Movie is a catalog entry shows are scheduled from
type Movie struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `json:"title" gorm:"not null;size:255"`
	Description     string    `json:"description" gorm:"type:text"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null;check:duration_minutes > 0"`
	Rating          string    `json:"rating" gorm:"size:10"`
	PosterURL       string    `json:"poster_url" gorm:"size:500"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Show is a screening of a movie in an auditorium at a point in time.
// EndsAt includes the cleaning buffer, so two shows in the same auditorium
// may not have overlapping [StartsAt, EndsAt) windows.
type Show struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID      uuid.UUID  `json:"movie_id" gorm:"type:uuid;index;not null"`
	AuditoriumID uuid.UUID  `json:"auditorium_id" gorm:"type:uuid;index;not null"`
	StartsAt     time.Time  `json:"starts_at" gorm:"not null"`
	EndsAt       time.Time  `json:"ends_at" gorm:"not null"`
	Status       ShowStatus `json:"status" gorm:"type:varchar(20);default:'SCHEDULED'"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Movie      *Movie             `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:RESTRICT;"`
	Auditorium *venues.Auditorium `json:"auditorium,omitempty" gorm:"foreignKey:AuditoriumID;constraint:OnDelete:RESTRICT;"`
	Prices     []ShowPrice        `json:"prices,omitempty" gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE;"`
}

// ShowPrice fixes the price of one seat type for one show. Amounts are in
// minor currency units.
type ShowPrice struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ShowID     uuid.UUID       `json:"show_id" gorm:"type:uuid;not null;uniqueIndex:unique_price_per_seat_type"`
	SeatType   venues.SeatType `json:"seat_type" gorm:"type:varchar(20);not null;uniqueIndex:unique_price_per_seat_type"`
	PriceCents int64           `json:"price_cents" gorm:"not null;check:price_cents >= 0"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}

// TableName sets the table name for Show
func (Show) TableName() string {
	return "shows"
}

// TableName sets the table name for ShowPrice
func (ShowPrice) TableName() string {
	return "show_prices"
}
