package shortlinks

import (
	"errors"
	"time"
)

// Link maps a short code to a target URL.
type Link struct {
	Code      string    `json:"code"`
	TargetURL string    `json:"targetUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

var (
	ErrNotFound      = errors.New("short link not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrCodeExhausted = errors.New("could not allocate a unique short code")
)
