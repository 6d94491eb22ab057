package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tourops/backend/tests/testutil"
)

func TestHandlerRegistry_Register(t *testing.T) {
	t.Run("specific types", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := testutil.NewMockEventHandler("OrderCreated", "OrderMembersChanged")

		registry.Register(handler, "OrderCreated", "OrderMembersChanged")

		assert.Len(t, registry.GetHandlers("OrderCreated"), 1)
		assert.Len(t, registry.GetHandlers("OrderMembersChanged"), 1)
		assert.Empty(t, registry.GetHandlers("TourClosed"))
	})

	t.Run("no types registers a wildcard", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := testutil.NewMockEventHandler()

		registry.Register(handler)

		assert.Len(t, registry.GetHandlers("OrderCreated"), 1)
		assert.Len(t, registry.GetHandlers("ReceiptVoided"), 1)
	})

	t.Run("wildcard and specific handlers combine", func(t *testing.T) {
		registry := NewHandlerRegistry()
		specific := testutil.NewMockEventHandler("OrderCreated")
		wildcard := testutil.NewMockEventHandler()

		registry.Register(specific, "OrderCreated")
		registry.Register(wildcard)

		assert.Len(t, registry.GetHandlers("OrderCreated"), 2)

		other := registry.GetHandlers("TourClosed")
		assert.Len(t, other, 1)
		assert.Same(t, wildcard, other[0])
	})
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	t.Run("removes only the target handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		first := testutil.NewMockEventHandler("OrderCreated")
		second := testutil.NewMockEventHandler("OrderCreated")

		registry.Register(first, "OrderCreated")
		registry.Register(second, "OrderCreated")
		assert.Len(t, registry.GetHandlers("OrderCreated"), 2)

		registry.Unregister(first)

		remaining := registry.GetHandlers("OrderCreated")
		assert.Len(t, remaining, 1)
		assert.Same(t, second, remaining[0])
	})

	t.Run("removes wildcard handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		wildcard := testutil.NewMockEventHandler()

		registry.Register(wildcard)
		assert.Len(t, registry.GetHandlers("AnyEvent"), 1)

		registry.Unregister(wildcard)
		assert.Empty(t, registry.GetHandlers("AnyEvent"))
	})
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	t.Run("counts every registered handler once", func(t *testing.T) {
		registry := NewHandlerRegistry()
		registry.Register(testutil.NewMockEventHandler("OrderCreated"), "OrderCreated")
		registry.Register(testutil.NewMockEventHandler("TourClosed"), "TourClosed")
		registry.Register(testutil.NewMockEventHandler())

		assert.Len(t, registry.GetAllHandlers(), 3)
	})

	t.Run("deduplicates multi-type registrations", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := testutil.NewMockEventHandler("OrderCreated", "OrderMembersChanged")

		registry.Register(handler, "OrderCreated", "OrderMembersChanged")

		assert.Len(t, registry.GetAllHandlers(), 1)
	})
}
