package registry_test

import (
	"log/slog"
	"testing"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRegistry_NodeTypes(t *testing.T) {
	t.Parallel()

	reg := registry.NewBuiltinRegistry(slog.Default())

	assert.ElementsMatch(t, []string{
		models.NodeTypeStart,
		models.NodeTypeCondition,
		models.NodeTypeAgentWeather,
		models.NodeTypeAgentSummarizer,
	}, reg.NodeTypes())
}

func TestRegistry_CreateNode(t *testing.T) {
	t.Parallel()

	reg := registry.NewBuiltinRegistry(slog.Default())

	handler, err := reg.CreateNode(t.Context(), &models.Node{
		ID:   "agent-1",
		Type: models.NodeTypeAgentWeather,
		Data: map[string]any{"prompt": "weather in Berlin"},
	})
	require.NoError(t, err)

	assert.Equal(t, "agent-1", handler.ID())
	assert.Equal(t, models.NodeTypeAgentWeather, handler.Type())
}

func TestRegistry_CreateNodeUnknownType(t *testing.T) {
	t.Parallel()

	reg := registry.NewBuiltinRegistry(slog.Default())

	_, err := reg.CreateNode(t.Context(), &models.Node{
		ID:   "mystery-1",
		Type: "agent:mystery",
	})
	require.Error(t, err)
	assert.True(t, models.IsUnsupportedNodeType(err))
}

func TestRegistry_CreateNodeRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	reg := registry.NewBuiltinRegistry(slog.Default())

	// Agent nodes require a prompt.
	_, err := reg.CreateNode(t.Context(), &models.Node{
		ID:   "agent-1",
		Type: models.NodeTypeAgentWeather,
		Data: map[string]any{},
	})
	require.Error(t, err)
	assert.True(t, models.IsConfigurationError(err))

	// Condition nodes require variable, operator and value.
	_, err = reg.CreateNode(t.Context(), &models.Node{
		ID:   "cond-1",
		Type: models.NodeTypeCondition,
		Data: map[string]any{"variable": "temperature"},
	})
	require.Error(t, err)
	assert.True(t, models.IsConfigurationError(err))
}

func TestRegistry_StartNodeNeedsNoConfig(t *testing.T) {
	t.Parallel()

	reg := registry.NewBuiltinRegistry(slog.Default())

	handler, err := reg.CreateNode(t.Context(), &models.Node{
		ID:   "start-1",
		Type: models.NodeTypeStart,
	})
	require.NoError(t, err)
	assert.Equal(t, models.NodeTypeStart, handler.Type())
}
