package reservations

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrShowNotFound        = errors.New("show not found")
	ErrShowNotBookable     = errors.New("show is not open for reservations")
	ErrInvalidSeats        = errors.New("invalid seat selection")
	ErrPricingIncomplete   = errors.New("show pricing does not cover all requested seat types")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotOwner            = errors.New("reservation does not belong to user")
)

// SeatConflictError reports which seats lost the race. Callers surface the
// labels so the client can redraw its seat map.
type SeatConflictError struct {
	Labels []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.Labels, ", "))
}

// IsSeatConflict extracts a SeatConflictError from an error chain
func IsSeatConflict(err error) (*SeatConflictError, bool) {
	var conflict *SeatConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
