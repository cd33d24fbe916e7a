package cmd

import (
	"log/slog"

	"github.com/conveyorhq/conveyor/pkg/queue"
	redis "github.com/redis/go-redis/v9"
)

// NewQueue connects to Redis and wraps the workflow stream.
func NewQueue(redisURL, stream string, logger *slog.Logger) (*queue.Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if stream == "" {
		stream = queue.DefaultStream
	}

	return queue.NewQueue(redis.NewClient(opts), stream, logger), nil
}
