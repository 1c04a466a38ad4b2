package shortlinks

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"inspection-backend/internal/shared/metrics"
	"inspection-backend/internal/shared/telemetry"
)

// maxAttempts bounds collision retries when allocating a code.
const maxAttempts = 5

// Service creates and resolves short links.
type Service struct {
	Store   Store
	TTL     time.Duration
	BaseURL string

	newCode func() (string, error)
	now     func() time.Time
}

func NewService(store Store, baseURL string, ttl time.Duration) *Service {
	return &Service{
		Store:   store,
		TTL:     ttl,
		BaseURL: strings.TrimRight(baseURL, "/"),
		newCode: NewCode,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create allocates a fresh code pointing at target.
func (s *Service) Create(ctx context.Context, target string) (Link, error) {
	parsed, err := url.Parse(strings.TrimSpace(target))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return Link{}, fmt.Errorf("%w: target must be an absolute http(s) URL", ErrInvalidInput)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return Link{}, err
		}
		link := Link{Code: code, TargetURL: parsed.String(), CreatedAt: s.now()}
		ok, err := s.Store.PutIfAbsent(ctx, link, s.TTL)
		if err != nil {
			return Link{}, err
		}
		if ok {
			if s.TTL > 0 {
				link.ExpiresAt = link.CreatedAt.Add(s.TTL)
			}
			metrics.IncShortLinkCreated()
			return link, nil
		}
		telemetry.Warn("shortlinks.collision", map[string]any{"attempt": attempt})
	}
	return Link{}, ErrCodeExhausted
}

// Resolve returns the link for code, or ErrNotFound when unknown or expired.
func (s *Service) Resolve(ctx context.Context, code string) (Link, error) {
	if !ValidCode(code) {
		return Link{}, ErrNotFound
	}
	return s.Store.Get(ctx, code)
}

// URL is the public short URL for code.
func (s *Service) URL(code string) string {
	return s.BaseURL + "/s/" + code
}
