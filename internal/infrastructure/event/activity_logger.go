package event

import (
	"context"

	"github.com/tourops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogger is a wildcard event handler that writes an audit line for
// every domain event published on the bus. It gives operators a trail of
// payment status changes, tour closures and recomputations without a
// dedicated audit store.
type ActivityLogger struct {
	logger *zap.Logger
}

// NewActivityLogger creates an activity logger backed by the given zap logger.
func NewActivityLogger(logger *zap.Logger) *ActivityLogger {
	return &ActivityLogger{logger: logger}
}

// Handle logs the event metadata at info level.
func (a *ActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	a.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil so the handler receives all event types.
func (a *ActivityLogger) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*ActivityLogger)(nil)
