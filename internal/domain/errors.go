package domain

import "errors"

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrUnknownCabin    = errors.New("unknown cabin class")
	ErrSeatUnavailable = errors.New("seat not found or is occupied")
	ErrNoSeatsLeft     = errors.New("no available seats matching preference")
	ErrEmptyBooking    = errors.New("booking is empty")
	ErrConsentDecided  = errors.New("consent already decided")
)
