package start

import (
	"context"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/protocol"
)

// StartNodeFactory creates StartNode instances.
type StartNodeFactory struct{}

// NewStartNodeFactory creates a new factory instance.
func NewStartNodeFactory() protocol.NodeFactory {
	return &StartNodeFactory{}
}

func (f *StartNodeFactory) Create(_ context.Context, id string, _ map[string]any) (protocol.NodeHandler, error) {
	return NewStartNode(id), nil
}

func (f *StartNodeFactory) ID() string {
	return models.NodeTypeStart
}

func (f *StartNodeFactory) Name() string {
	return "Start"
}

func (f *StartNodeFactory) Description() string {
	return "Entry point of a workflow. Produces an empty output for downstream nodes."
}

func (f *StartNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"title":                "Start Node Configuration",
		"properties":           map[string]any{},
		"additionalProperties": true,
	}
}
