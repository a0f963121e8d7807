package venues

import (
	"time"

	"github.com/google/uuid"
)

// SeatType classifies seats for pricing purposes
type SeatType string

const (
	SeatTypeStandard   SeatType = "STANDARD"
	SeatTypePremium    SeatType = "PREMIUM"
	SeatTypeWheelchair SeatType = "WHEELCHAIR"
)

// IsValid checks if the seat type is one of the known categories
func (t SeatType) IsValid() bool {
	switch t {
	case SeatTypeStandard, SeatTypePremium, SeatTypeWheelchair:
		return true
	}
	return false
}

func (t SeatType) String() string {
	return string(t)
}

// Auditorium is a physical room with a fixed seat layout
type Auditorium struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:AuditoriumID;constraint:OnDelete:CASCADE;"`
}

// Seat is a single bookable position inside an auditorium. The layout is
// fixed at creation time; shows reference seats through the auditorium.
type Seat struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	AuditoriumID uuid.UUID `json:"auditorium_id" gorm:"type:uuid;not null;uniqueIndex:unique_seat_label_per_auditorium"`
	Label        string    `json:"label" gorm:"not null;size:10;uniqueIndex:unique_seat_label_per_auditorium"`
	Row          string    `json:"row" gorm:"not null;size:3"`
	Position     int       `json:"position" gorm:"not null"`
	Type         SeatType  `json:"type" gorm:"type:varchar(20);not null;default:'STANDARD'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Auditorium *Auditorium `json:"auditorium,omitempty" gorm:"foreignKey:AuditoriumID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Auditorium
func (Auditorium) TableName() string {
	return "auditoriums"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}
