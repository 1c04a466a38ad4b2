package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inspection-backend/internal/queue"
	"inspection-backend/internal/shared/metrics"
	"inspection-backend/internal/shared/telemetry"
)

// Request is one outgoing customer SMS.
type Request struct {
	InspectionID string
	RequestID    string
	To           string
	Body         string
	ShortCode    string
}

// Dispatcher records and delivers notifications. With a Queue configured,
// delivery is handed to the worker; otherwise Sender is called inline.
type Dispatcher struct {
	Sender Sender
	Queue  queue.Client
	Repo   Repo

	now func() time.Time
}

func NewDispatcher(sender Sender, q queue.Client, repo Repo) *Dispatcher {
	return &Dispatcher{
		Sender: sender,
		Queue:  q,
		Repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch validates the recipient, records the notification and sends or enqueues it.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Notification, error) {
	to, err := NormalizePhone(req.To)
	if err != nil {
		return Notification{}, err
	}
	if strings.TrimSpace(req.Body) == "" {
		return Notification{}, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}

	n := Notification{
		ID:           uuid.NewString(),
		InspectionID: req.InspectionID,
		Channel:      "sms",
		Recipient:    to,
		Body:         req.Body,
		ShortCode:    req.ShortCode,
		Status:       StatusPending,
	}
	if err := d.Repo.Create(ctx, n); err != nil {
		return Notification{}, fmt.Errorf("record notification: %w", err)
	}

	if d.Queue != nil {
		msg := queue.Message{
			NotificationID: n.ID,
			InspectionID:   n.InspectionID,
			RequestID:      req.RequestID,
			To:             to,
			Body:           n.Body,
			EnqueuedAt:     d.now().Format(time.RFC3339),
			Version:        queue.MessageVersion,
		}
		if err := d.Queue.Send(ctx, msg); err != nil {
			d.markStatus(ctx, n.ID, StatusFailed, "", err.Error())
			return Notification{}, fmt.Errorf("enqueue notification: %w", err)
		}
		metrics.IncSMSQueued()
		d.markStatus(ctx, n.ID, StatusQueued, "", "")
		n.Status = StatusQueued
		return n, nil
	}

	providerID, err := d.send(ctx, n.InspectionID, to, n.Body)
	if err != nil {
		d.markStatus(ctx, n.ID, StatusFailed, "", err.Error())
		return Notification{}, err
	}
	d.markStatus(ctx, n.ID, StatusSent, providerID, "")
	n.Status = StatusSent
	n.ProviderMessageID = providerID
	return n, nil
}

// Deliver sends a queued notification. Errors leave the job for retry.
func (d *Dispatcher) Deliver(ctx context.Context, msg queue.Message) error {
	to, err := NormalizePhone(msg.To)
	if err != nil {
		return err
	}
	providerID, err := d.send(ctx, msg.InspectionID, to, msg.Body)
	if err != nil {
		if msg.NotificationID != "" {
			d.markStatus(ctx, msg.NotificationID, StatusFailed, "", err.Error())
		}
		return err
	}
	if msg.NotificationID != "" {
		d.markStatus(ctx, msg.NotificationID, StatusSent, providerID, "")
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, inspectionID, to, body string) (string, error) {
	providerID, err := d.Sender.Send(ctx, to, body)
	if err != nil {
		metrics.IncSMSFailed()
		telemetry.Error("notify.sms.failed", map[string]any{
			"inspection_id": inspectionID,
			"to":            maskPhone(to),
			"error":         err,
		})
		return "", err
	}
	metrics.IncSMSSent()
	telemetry.Info("notify.sms.sent", map[string]any{
		"inspection_id": inspectionID,
		"to":            maskPhone(to),
		"message_id":    providerID,
	})
	return providerID, nil
}

func (d *Dispatcher) markStatus(ctx context.Context, id, status, providerID, errMsg string) {
	if err := d.Repo.UpdateStatus(ctx, id, status, providerID, errMsg); err != nil && !errors.Is(err, context.Canceled) {
		telemetry.Warn("notify.status_update_failed", map[string]any{
			"notification_id": id,
			"status":          status,
			"error":           err,
		})
	}
}
