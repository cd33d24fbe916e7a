// Package start provides the workflow entry-point node.
package start

import (
	"context"

	"github.com/conveyorhq/conveyor/pkg/models"
)

// StartNode is the identity entry point of a workflow run. It ignores its
// configuration and emits an empty output for its children to consume.
type StartNode struct {
	id string
}

func NewStartNode(id string) *StartNode {
	return &StartNode{id: id}
}

func (n *StartNode) ID() string {
	return n.id
}

func (n *StartNode) Type() string {
	return models.NodeTypeStart
}

func (n *StartNode) Execute(_ context.Context, _ models.AgentOutput) (*models.NodeResult, error) {
	return &models.NodeResult{Output: models.EmptyAgentOutput()}, nil
}
