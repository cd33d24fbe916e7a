package queue_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/queue"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueue(t *testing.T) *queue.Queue {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
	})

	return queue.NewQueue(client, queue.DefaultStream, slog.Default())
}

func TestQueue_AppendClaimAck(t *testing.T) {
	ctx := t.Context()
	q := setupQueue(t)

	require.NoError(t, q.EnsureGroup(ctx, queue.DefaultGroup))

	triggeredAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	msg := models.NewRunWorkflowMessage("wf-1", "user-1", "sched-1", triggeredAt)

	messageID, err := q.Append(ctx, msg)
	require.NoError(t, err)
	assert.NotEmpty(t, messageID)

	delivery, err := q.Claim(ctx, queue.DefaultGroup, "worker-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, delivery)

	assert.Equal(t, messageID, delivery.ID)
	assert.Equal(t, models.RunWorkflowEvent, delivery.Event)
	assert.Equal(t, "wf-1", delivery.Data.WorkflowID)
	assert.Equal(t, "user-1", delivery.Data.UserID)
	assert.Equal(t, "sched-1", delivery.Data.ScheduleID)

	require.NoError(t, q.Ack(ctx, queue.DefaultGroup, delivery.ID))

	// Nothing left undelivered.
	delivery, err = q.Claim(ctx, queue.DefaultGroup, "worker-1", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, delivery)
}

func TestQueue_DuplicateAppendsAreIndependent(t *testing.T) {
	ctx := t.Context()
	q := setupQueue(t)

	require.NoError(t, q.EnsureGroup(ctx, queue.DefaultGroup))

	msg := models.NewRunWorkflowMessage("wf-1", "user-1", "sched-1", time.Now().UTC())

	first, err := q.Append(ctx, msg)
	require.NoError(t, err)

	second, err := q.Append(ctx, msg)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	one, err := q.Claim(ctx, queue.DefaultGroup, "worker-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, one)

	two, err := q.Claim(ctx, queue.DefaultGroup, "worker-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, two)

	assert.NotEqual(t, one.ID, two.ID)
	assert.Equal(t, one.Data, two.Data)
}

func TestQueue_EnsureGroupIdempotent(t *testing.T) {
	ctx := t.Context()
	q := setupQueue(t)

	require.NoError(t, q.EnsureGroup(ctx, queue.DefaultGroup))
	require.NoError(t, q.EnsureGroup(ctx, queue.DefaultGroup))
}

func TestQueue_IndependentConsumerGroups(t *testing.T) {
	ctx := t.Context()
	q := setupQueue(t)

	require.NoError(t, q.EnsureGroup(ctx, "group-a"))
	require.NoError(t, q.EnsureGroup(ctx, "group-b"))

	_, err := q.Append(ctx, models.NewRunWorkflowMessage("wf-1", "user-1", "", time.Now().UTC()))
	require.NoError(t, err)

	// Each group receives its own cursor over the log.
	fromA, err := q.Claim(ctx, "group-a", "worker-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, fromA)

	fromB, err := q.Claim(ctx, "group-b", "worker-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, fromB)

	assert.Equal(t, fromA.ID, fromB.ID)
}

func TestQueue_ClaimTimeout(t *testing.T) {
	ctx := t.Context()
	q := setupQueue(t)

	require.NoError(t, q.EnsureGroup(ctx, queue.DefaultGroup))

	delivery, err := q.Claim(ctx, queue.DefaultGroup, "worker-1", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, delivery)
}
