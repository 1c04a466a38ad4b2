package notify

import "context"

// Repo records notification attempts.
type Repo interface {
	Create(ctx context.Context, n Notification) error
	UpdateStatus(ctx context.Context, id, status, providerMessageID, errMsg string) error
	Get(ctx context.Context, id string) (Notification, error)
}
