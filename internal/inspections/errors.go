package inspections

import "errors"

var (
	ErrNotFound     = errors.New("inspection not found")
	ErrItemNotFound = errors.New("inspection item not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid inspection state")
)
