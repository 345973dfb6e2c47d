package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler("sale.opened", "sale.completed")

	registry.Register(handler, "sale.opened", "sale.completed")

	handlers := registry.GetHandlers("sale.opened")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("sale.completed")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	assert.Empty(t, registry.GetHandlers("sale.cancelled"))
}

func TestHandlerRegistry_Register_CatchAll(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler()

	registry.Register(handler)

	for _, eventType := range []string{"sale.opened", "plot.reserved", "ledger.posted"} {
		handlers := registry.GetHandlers(eventType)
		assert.Len(t, handlers, 1)
		assert.Equal(t, handler, handlers[0])
	}
}

func TestHandlerRegistry_Register_TypedAndCatchAll(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newTestHandler("receipt.approved")
	catchAll := newTestHandler()

	registry.Register(typed, "receipt.approved")
	registry.Register(catchAll)

	assert.Len(t, registry.GetHandlers("receipt.approved"), 2)

	handlers := registry.GetHandlers("expense.recorded")
	assert.Len(t, handlers, 1)
	assert.Equal(t, catchAll, handlers[0])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	t.Run("typed handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		first := newTestHandler("sale.opened")
		second := newTestHandler("sale.opened")

		registry.Register(first, "sale.opened")
		registry.Register(second, "sale.opened")
		assert.Len(t, registry.GetHandlers("sale.opened"), 2)

		registry.Unregister(first)

		handlers := registry.GetHandlers("sale.opened")
		assert.Len(t, handlers, 1)
		assert.Equal(t, second, handlers[0])
	})

	t.Run("catch-all handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		catchAll := newTestHandler()

		registry.Register(catchAll)
		assert.Len(t, registry.GetHandlers("plot.released"), 1)

		registry.Unregister(catchAll)
		assert.Empty(t, registry.GetHandlers("plot.released"))
	})
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	saleHandler := newTestHandler("sale.opened")
	receiptHandler := newTestHandler("receipt.approved")
	catchAll := newTestHandler()

	registry.Register(saleHandler, "sale.opened")
	registry.Register(receiptHandler, "receipt.approved")
	registry.Register(catchAll)

	assert.Len(t, registry.GetAllHandlers(), 3)
}

func TestHandlerRegistry_GetAllHandlers_DeduplicatesAcrossTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler("sale.opened", "sale.completed")

	registry.Register(handler, "sale.opened", "sale.completed")

	assert.Len(t, registry.GetAllHandlers(), 1)
}
