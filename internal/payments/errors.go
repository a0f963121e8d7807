package payments

import "errors"

var (
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrNotOwner              = errors.New("reservation does not belong to user")
	ErrReservationNotPayable = errors.New("reservation is not awaiting payment")
	ErrReceiptNotFound       = errors.New("no receipt issued for reservation")
	ErrDuplicateEvent        = errors.New("settlement event already processed")
	ErrBadSignature          = errors.New("webhook signature verification failed")
	ErrUnhandledEvent        = errors.New("event type not handled")
)
