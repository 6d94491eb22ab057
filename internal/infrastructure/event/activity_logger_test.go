package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tourops/backend/tests/testutil"
)

func TestActivityLogger_LogsEventMetadata(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	al := NewActivityLogger(zap.New(core))

	event := testutil.NewTestEvent("OrderPaymentStatusChanged")
	err := al.Handle(context.Background(), event)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "OrderPaymentStatusChanged", fields["event_type"])
	assert.Equal(t, "TestAggregate", fields["aggregate_type"])
	assert.Equal(t, event.EventID().String(), fields["event_id"])
}

func TestActivityLogger_SubscribesAsWildcard(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewActivityLogger(zap.New(core)))

	require.NoError(t, bus.Publish(context.Background(), testutil.NewTestEvent("TourClosed")))
	require.NoError(t, bus.Publish(context.Background(), testutil.NewTestEvent("OrderCreated")))

	assert.Len(t, logs.All(), 2)
}
