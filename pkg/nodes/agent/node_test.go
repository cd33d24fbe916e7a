package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/conveyorhq/conveyor/pkg/capability"
	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/nodes/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCapability struct {
	prompt string
	input  models.AgentOutput
	err    error
}

func (c *recordingCapability) Name() string { return "recording" }

func (c *recordingCapability) Invoke(_ context.Context, userPrompt string, input models.AgentOutput) (models.AgentOutput, error) {
	c.prompt = userPrompt
	c.input = input

	if c.err != nil {
		return models.AgentOutput{}, c.err
	}

	return models.AgentOutput{Text: "done", Data: map[string]any{}}, nil
}

func TestAgentNode_Execute(t *testing.T) {
	t.Parallel()

	cap := &recordingCapability{}
	node := agent.NewAgentNode("agent-1", "agent:recording", "do the thing", cap)

	input := models.AgentOutput{Text: "upstream", Data: map[string]any{"value": 1}}

	result, err := node.Execute(t.Context(), input)
	require.NoError(t, err)

	assert.Equal(t, "done", result.Output.Text)
	assert.Empty(t, result.Branch)
	assert.Equal(t, "do the thing", cap.prompt)
	assert.Equal(t, input, cap.input)
}

func TestAgentNode_WrapsCapabilityFailure(t *testing.T) {
	t.Parallel()

	cap := &recordingCapability{err: errors.New("model unavailable")}
	node := agent.NewAgentNode("agent-1", "agent:recording", "do the thing", cap)

	_, err := node.Execute(t.Context(), models.AgentOutput{})
	require.Error(t, err)
	assert.True(t, models.IsCapabilityError(err))
}

func TestAgentNodeFactory_RequiresPrompt(t *testing.T) {
	t.Parallel()

	factory := agent.NewAgentNodeFactory("agent:weather", "Weather", "weather lookup", capability.NewWeather())

	_, err := factory.Create(t.Context(), "agent-1", map[string]any{})
	require.Error(t, err)

	handler, err := factory.Create(t.Context(), "agent-1", map[string]any{"prompt": "weather in Berlin"})
	require.NoError(t, err)
	assert.Equal(t, "agent:weather", handler.Type())
}
