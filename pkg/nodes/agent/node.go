// Package agent provides the node that invokes an external AI-agent capability.
package agent

import (
	"context"

	"github.com/conveyorhq/conveyor/pkg/capability"
	"github.com/conveyorhq/conveyor/pkg/models"
)

// AgentNode dispatches to an external capability with the node's configured
// prompt and the upstream result. The capability call is the suspension point
// of a run; no timeout is enforced here.
type AgentNode struct {
	id         string
	nodeType   string
	prompt     string
	capability capability.Capability
}

// NewAgentNode creates an agent node bound to the given capability.
func NewAgentNode(id, nodeType, prompt string, cap capability.Capability) *AgentNode {
	return &AgentNode{
		id:         id,
		nodeType:   nodeType,
		prompt:     prompt,
		capability: cap,
	}
}

func (n *AgentNode) ID() string {
	return n.id
}

func (n *AgentNode) Type() string {
	return n.nodeType
}

func (n *AgentNode) Execute(ctx context.Context, input models.AgentOutput) (*models.NodeResult, error) {
	output, err := n.capability.Invoke(ctx, n.prompt, input)
	if err != nil {
		if models.IsCapabilityError(err) {
			return nil, err
		}

		return nil, models.NewCapabilityError(n.capability.Name(), err)
	}

	return &models.NodeResult{Output: output}, nil
}
