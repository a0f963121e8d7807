package reservations

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// IsValid checks if the reservation status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Occupies reports whether a reservation in this status keeps its seats
// at the given instant. A PENDING hold occupies seats only until it lapses;
// the row may still read PENDING after that, expiry is evaluated lazily.
func (s Status) Occupies(expiresAt, now time.Time) bool {
	switch s {
	case StatusConfirmed:
		return true
	case StatusPending:
		return expiresAt.After(now)
	}
	return false
}
