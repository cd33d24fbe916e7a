package kafka_test

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/conveyorhq/conveyor/pkg/channels/kafka"
	"github.com/stretchr/testify/require"
)

func TestCreateChannel_RequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")

	_, _, err := kafka.CreateChannel(watermill.NopLogger{}, "conveyor-worker")
	require.Error(t, err)
	require.Contains(t, err.Error(), "KAFKA_BROKERS")
}
