package condition

import (
	"context"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/protocol"
)

// ConditionNodeFactory creates ConditionNode instances.
type ConditionNodeFactory struct{}

// NewConditionNodeFactory creates a new factory instance.
func NewConditionNodeFactory() protocol.NodeFactory {
	return &ConditionNodeFactory{}
}

func (f *ConditionNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewConditionNode(id, config)
}

func (f *ConditionNodeFactory) ID() string {
	return models.NodeTypeCondition
}

func (f *ConditionNodeFactory) Name() string {
	return "Condition"
}

func (f *ConditionNodeFactory) Description() string {
	return "Evaluates a field of the upstream result and routes execution to the true or false branch."
}

func (f *ConditionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Condition Node Configuration",
		"description": "Compares a field of the upstream structured data against a fixed value",
		"properties": map[string]any{
			"variable": map[string]any{
				"type":        "string",
				"description": "Key looked up in the upstream result's data map",
				"examples":    []string{"temperature", "status", "count"},
			},
			"operator": map[string]any{
				"type": "string",
				"enum": []string{OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpContains},
			},
			"value": map[string]any{
				"description": "Right-hand operand of the comparison",
			},
		},
		"required": []string{"variable", "operator", "value"},
		"examples": []map[string]any{
			{"variable": "temperature", "operator": ">", "value": 70},
			{"variable": "status", "operator": "==", "value": "ok"},
			{"variable": "tags", "operator": "contains", "value": "urgent"},
		},
	}
}
