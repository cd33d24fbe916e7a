package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/conveyorhq/conveyor/pkg/channels/gochannel"
	"github.com/conveyorhq/conveyor/pkg/eventbus"
	"github.com/conveyorhq/conveyor/pkg/events"
	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NewStdLogger(false, false))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := setupBus(t)
	ctx := t.Context()

	received := make(chan *events.NodeSuccess, 1)

	err := bus.Handle(events.NodeSuccessEvent, func(_ context.Context, event any) error {
		typed, ok := event.(*events.NodeSuccess)
		require.True(t, ok)

		received <- typed

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	sent := events.NodeSuccess{
		BaseEvent: events.NewBaseEvent(events.NodeSuccessEvent, "exec-1", "user-1", "wf-1"),
		NodeID:    "agent-1",
		NodeType:  models.NodeTypeAgentWeather,
		Result:    map[string]any{"temperature": 75},
	}

	require.NoError(t, bus.Publish(ctx, "wf-1", sent))

	select {
	case got := <-received:
		assert.Equal(t, "agent-1", got.NodeID)
		assert.Equal(t, "exec-1", got.ExecutionID)
		assert.Equal(t, "wf-1", got.WorkflowID)
		assert.Equal(t, events.NodeSuccessEvent, got.GetType())
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledTypesAreSkipped(t *testing.T) {
	bus := setupBus(t)
	ctx := t.Context()

	completed := make(chan struct{}, 1)

	err := bus.Handle(events.WorkflowCompleteEvent, func(context.Context, any) error {
		completed <- struct{}{}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for node starts; the bus must move past it.
	require.NoError(t, bus.Publish(ctx, "wf-1", events.NodeStart{
		BaseEvent: events.NewBaseEvent(events.NodeStartEvent, "exec-1", "user-1", "wf-1"),
		NodeID:    "start-1",
		NodeType:  models.NodeTypeStart,
	}))

	require.NoError(t, bus.Publish(ctx, "wf-1", events.WorkflowComplete{
		BaseEvent: events.NewBaseEvent(events.WorkflowCompleteEvent, "exec-1", "user-1", "wf-1"),
	}))

	select {
	case <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("workflow complete event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := setupBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
