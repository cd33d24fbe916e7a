// Package protocol defines the interfaces and contracts for pluggable node handlers.
package protocol

import (
	"context"

	"github.com/conveyorhq/conveyor/pkg/models"
)

// NodeHandler executes one node of a workflow run. Input is the upstream
// result forwarded along the selected edge; nodes without a parent receive an
// empty output.
type NodeHandler interface {
	// ID returns the node instance identifier
	ID() string

	// Type returns the node type this handler was created for
	Type() string

	// Execute runs the node and returns its result. Condition handlers set
	// NodeResult.Branch; all other handlers leave it empty.
	Execute(ctx context.Context, input models.AgentOutput) (*models.NodeResult, error)
}

// NodeFactory creates node handler instances and provides metadata about the
// node type.
type NodeFactory interface {
	// Create creates a new handler for a node instance with the given configuration
	Create(ctx context.Context, id string, config map[string]any) (NodeHandler, error)

	// ID returns the unique identifier for this node type
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any
}
