/*
Package events describes user lifecycle notifications.

Publishing is best-effort: a broker outage never fails the request that
produced the event. Consumers must not rely on exactly-once delivery.
*/
package events

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/metrics"
)

const (
	UserRegistered = "user.registered"
	UserCreated    = "user.created"
	UserUpdated    = "user.updated"
	UserDeleted    = "user.deleted"
)

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishUserEvent(ctx context.Context, evt UserEvent) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishUserEvent(context.Context, UserEvent) error { return nil }

// Emit publishes evt and records the outcome. Failures are logged, never returned.
func Emit(ctx context.Context, pub Publisher, evt UserEvent) {
	if pub == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	if err := pub.PublishUserEvent(ctx, evt); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(evt.Type, "error").Inc()
		logger.WithCtx(ctx).Warn().
			Err(err).
			Str("event", evt.Type).
			Int64("user_id", evt.UserID).
			Msg("event_publish_failed")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(evt.Type, "ok").Inc()
}
