// Package queue implements the durable workflow queue on Redis Streams: an
// append-only, replayable log with independent consumer groups.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	redis "github.com/redis/go-redis/v9"
)

const (
	// DefaultStream is the stream key carrying RUN_WORKFLOW messages.
	DefaultStream = "workflow:queue"

	// DefaultGroup is the consumer group shared by the worker pool.
	DefaultGroup = "workflow:consumer:group"

	// DefaultBlock is how long a claim waits for an undelivered message.
	DefaultBlock = 5 * time.Second

	eventField = "event"
	dataField  = "data"
)

// Delivery is one claimed message. ID is the stream entry ID used for acking.
type Delivery struct {
	ID    string
	Event string
	Data  models.RunWorkflowData
}

// Queue wraps one Redis stream. It is safe for concurrent producers and
// consumers.
type Queue struct {
	client redis.UniversalClient
	stream string
	logger *slog.Logger
}

// NewQueue creates a queue over the given stream key.
func NewQueue(client redis.UniversalClient, stream string, logger *slog.Logger) *Queue {
	return &Queue{
		client: client,
		stream: stream,
		logger: logger.With("module", "queue", "stream", stream),
	}
}

// Stream returns the stream key this queue appends to.
func (q *Queue) Stream() string {
	return q.stream
}

// Append writes a message to the log and returns its opaque entry ID. The
// log is never deduplicated: appending the same message twice yields two
// independent deliveries.
func (q *Queue) Append(ctx context.Context, msg models.QueueMessage) (string, error) {
	data, err := msg.EncodeData()
	if err != nil {
		return "", models.NewQueueError("append", q.stream, err)
	}

	id, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			eventField: msg.Event,
			dataField:  data,
		},
	}).Result()
	if err != nil {
		return "", models.NewQueueError("append", q.stream, err)
	}

	q.logger.DebugContext(ctx, "Appended message", "message_id", id, "event", msg.Event)

	return id, nil
}

// EnsureGroup creates the consumer group at the start of the stream,
// creating the stream itself if needed. Losing the creation race to another
// process is expected and treated as success.
func (q *Queue) EnsureGroup(ctx context.Context, group string) error {
	err := q.client.XGroupCreateMkStream(ctx, q.stream, group, "0").Err()
	if err != nil {
		if strings.Contains(err.Error(), "BUSYGROUP") {
			q.logger.InfoContext(ctx, "Consumer group already exists", "group", group)

			return nil
		}

		return models.NewQueueError("group", q.stream, err)
	}

	q.logger.InfoContext(ctx, "Consumer group created", "group", group)

	return nil
}

// Claim blocks up to block waiting for the next undelivered message assigned
// to this consumer within its group. A nil delivery with nil error means the
// wait timed out.
func (q *Queue) Claim(ctx context.Context, group, consumer string, block time.Duration) (*Delivery, error) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{q.stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, models.NewQueueError("claim", q.stream, err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			return q.decode(message)
		}
	}

	return nil, nil
}

// Ack acknowledges a delivery to its group so it is never redelivered.
func (q *Queue) Ack(ctx context.Context, group, messageID string) error {
	err := q.client.XAck(ctx, q.stream, group, messageID).Err()
	if err != nil {
		return models.NewQueueError("ack", q.stream, err)
	}

	return nil
}

func (q *Queue) decode(message redis.XMessage) (*Delivery, error) {
	event, _ := message.Values[eventField].(string)
	raw, _ := message.Values[dataField].(string)

	data, err := models.DecodeRunWorkflowData(raw)
	if err != nil {
		return nil, models.NewQueueError("claim", q.stream, fmt.Errorf("malformed payload in message %s: %w", message.ID, err))
	}

	return &Delivery{
		ID:    message.ID,
		Event: event,
		Data:  data,
	}, nil
}
