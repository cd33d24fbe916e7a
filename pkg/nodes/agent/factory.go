package agent

import (
	"context"
	"fmt"

	"github.com/conveyorhq/conveyor/pkg/capability"
	"github.com/conveyorhq/conveyor/pkg/protocol"
)

// AgentNodeFactory creates AgentNode instances for a single capability. Each
// capability gets its own registry entry ("agent:weather", "agent:summarizer").
type AgentNodeFactory struct {
	nodeType    string
	name        string
	description string
	capability  capability.Capability
}

// NewAgentNodeFactory creates a factory for the given node type backed by cap.
func NewAgentNodeFactory(nodeType, name, description string, cap capability.Capability) protocol.NodeFactory {
	return &AgentNodeFactory{
		nodeType:    nodeType,
		name:        name,
		description: description,
		capability:  cap,
	}
}

func (f *AgentNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.NodeHandler, error) {
	prompt, _ := config["prompt"].(string)
	if prompt == "" {
		return nil, fmt.Errorf("missing required field 'prompt' for node %s", id)
	}

	return NewAgentNode(id, f.nodeType, prompt, f.capability), nil
}

func (f *AgentNodeFactory) ID() string {
	return f.nodeType
}

func (f *AgentNodeFactory) Name() string {
	return f.name
}

func (f *AgentNodeFactory) Description() string {
	return f.description
}

func (f *AgentNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       f.name + " Node Configuration",
		"description": f.description,
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "Task handed to the capability, prepended to the upstream input",
			},
		},
		"required": []string{"prompt"},
	}
}
