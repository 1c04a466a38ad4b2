package notify

import "errors"

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrNotFound     = errors.New("notification not found")
	ErrInvalidInput = errors.New("invalid input")
)
