// Package condition provides the boolean branching node for workflow graph execution.
package condition

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/conveyorhq/conveyor/pkg/models"
)

// Supported comparison operators.
const (
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpContains     = "contains"
)

// ConditionNode evaluates a field of the upstream result against a configured
// value and routes the run to the "true" or "false" branch.
type ConditionNode struct {
	id       string
	variable string
	operator string
	value    any
}

// NewConditionNode creates a new branching node from its configuration.
func NewConditionNode(id string, config map[string]any) (*ConditionNode, error) {
	variable, ok := config["variable"].(string)
	if !ok || variable == "" {
		return nil, errors.New("missing required field 'variable'")
	}

	operator, ok := config["operator"].(string)
	if !ok {
		return nil, errors.New("missing required field 'operator'")
	}

	switch operator {
	case OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpContains:
	default:
		return nil, fmt.Errorf("unsupported operator %q", operator)
	}

	value, ok := config["value"]
	if !ok {
		return nil, errors.New("missing required field 'value'")
	}

	return &ConditionNode{
		id:       id,
		variable: variable,
		operator: operator,
		value:    value,
	}, nil
}

func (n *ConditionNode) ID() string {
	return n.id
}

func (n *ConditionNode) Type() string {
	return models.NodeTypeCondition
}

// Execute reads the variable from the upstream structured data, applies the
// operator and selects the branch. The upstream output is forwarded unchanged
// to the surviving children.
func (n *ConditionNode) Execute(_ context.Context, input models.AgentOutput) (*models.NodeResult, error) {
	actual, exists := input.Data[n.variable]
	if !exists {
		actual = nil
	}

	branch := models.BranchFalse
	if n.evaluate(actual) {
		branch = models.BranchTrue
	}

	return &models.NodeResult{
		Output: input,
		Branch: branch,
	}, nil
}

func (n *ConditionNode) evaluate(actual any) bool {
	switch n.operator {
	case OpEqual:
		return looseEqual(actual, n.value)
	case OpNotEqual:
		return !looseEqual(actual, n.value)
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		left, leftOK := toNumber(actual)
		right, rightOK := toNumber(n.value)

		if !leftOK || !rightOK {
			return false
		}

		switch n.operator {
		case OpGreater:
			return left > right
		case OpLess:
			return left < right
		case OpGreaterEqual:
			return left >= right
		default:
			return left <= right
		}
	case OpContains:
		return contains(actual, n.value)
	default:
		return false
	}
}

// looseEqual mirrors the permissive equality of the original engine: values
// that both read as numbers compare numerically ("5" == 5), everything else
// compares by string form.
func looseEqual(left, right any) bool {
	leftNum, leftOK := toNumber(left)
	rightNum, rightOK := toNumber(right)

	if leftOK && rightOK {
		return leftNum == rightNum
	}

	return stringify(left) == stringify(right)
}

// contains requires a string or array left operand; anything else is false.
func contains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, stringify(needle))
	case []any:
		for _, item := range h {
			if looseEqual(item, needle) {
				return true
			}
		}

		return false
	case []string:
		target := stringify(needle)
		for _, item := range h {
			if item == target {
				return true
			}
		}

		return false
	default:
		return false
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)

		return parsed, err == nil
	case bool:
		if v {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}
