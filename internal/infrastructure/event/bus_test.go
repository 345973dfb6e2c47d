package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	PlotNumber string `json:"plot_number"`
}

func newTestEvent(eventType string, branchID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Plot", uuid.New(), branchID),
		PlotNumber:      "P-101",
	}
}

type recordingHandler struct {
	eventTypes []string
	mu         sync.Mutex
	seen       []shared.DomainEvent
	err        error
}

func newTestHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{
		eventTypes: eventTypes,
		seen:       make([]shared.DomainEvent, 0),
	}
}

func (h *recordingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, evt)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) failWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *recordingHandler) events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.seen...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("plot.reserved")
	bus.Subscribe(handler, "plot.reserved")

	evt := newTestEvent("plot.reserved", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, handler.events(), 1)
	assert.Equal(t, evt, handler.events()[0])
}

func TestInMemoryEventBus_Publish_Batch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("receipt.recorded")
	bus.Subscribe(handler, "receipt.recorded")

	err := bus.Publish(context.Background(),
		newTestEvent("receipt.recorded", uuid.New()),
		newTestEvent("receipt.recorded", uuid.New()),
	)

	require.NoError(t, err)
	assert.Len(t, handler.events(), 2)
}

func TestInMemoryEventBus_Publish_FansOut(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	first := newTestHandler("sale.completed")
	second := newTestHandler("sale.completed")
	bus.Subscribe(first, "sale.completed")
	bus.Subscribe(second, "sale.completed")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("sale.completed", uuid.New())))

	assert.Len(t, first.events(), 1)
	assert.Len(t, second.events(), 1)
}

func TestInMemoryEventBus_Publish_CatchAllHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	catchAll := newTestHandler()
	bus.Subscribe(catchAll)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("cancellation.requested", uuid.New())))

	assert.Len(t, catchAll.events(), 1)
}

func TestInMemoryEventBus_Publish_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("sale.completed")
	failing.failWith(errors.New("ledger write rejected"))
	healthy := newTestHandler("sale.completed")
	bus.Subscribe(failing, "sale.completed")
	bus.Subscribe(healthy, "sale.completed")

	err := bus.Publish(context.Background(), newTestEvent("sale.completed", uuid.New()))

	require.NoError(t, err)
	assert.Len(t, failing.events(), 1)
	assert.Len(t, healthy.events(), 1)
}

func TestInMemoryEventBus_Publish_NoSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("expense.approved")
	bus.Subscribe(handler, "expense.approved")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("plot.released", uuid.New())))

	assert.Empty(t, handler.events())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("plot.sold")
	bus.Subscribe(handler, "plot.sold")

	_ = bus.Publish(context.Background(), newTestEvent("plot.sold", uuid.New()))
	assert.Len(t, handler.events(), 1)

	bus.Unsubscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("plot.sold", uuid.New()))
	assert.Len(t, handler.events(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))

	handler := newTestHandler("sale.opened")
	bus.Subscribe(handler, "sale.opened")
	require.NoError(t, bus.Publish(ctx, newTestEvent("sale.opened", uuid.New())))
	assert.Len(t, handler.events(), 1)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))
}
