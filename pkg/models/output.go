package models

// AgentOutput is the result shape produced by start and agent nodes and
// forwarded downstream as the next node's input.
type AgentOutput struct {
	Text string         `json:"text"`
	Data map[string]any `json:"data"`
}

// EmptyAgentOutput returns an output with no text and an empty data map.
// The start node produces this, and it is the input of nodes with no parent.
func EmptyAgentOutput() AgentOutput {
	return AgentOutput{Data: make(map[string]any)}
}

// ConditionOutput is the result shape produced by condition nodes: the
// selected branch plus the output forwarded to the surviving children.
type ConditionOutput struct {
	Branch string      `json:"branch"`
	Output AgentOutput `json:"output"`
}

// NodeResult is the uniform handler return value. Branch is empty for
// start/agent nodes and "true"/"false" for condition nodes.
type NodeResult struct {
	Output AgentOutput `json:"output"`
	Branch string      `json:"branch,omitempty"`
}

// IsConditional reports whether this result selects a branch.
func (r *NodeResult) IsConditional() bool {
	return r.Branch != ""
}

// Condition returns the result reshaped as a ConditionOutput for event
// payloads. Only meaningful when IsConditional is true.
func (r *NodeResult) Condition() ConditionOutput {
	return ConditionOutput{Branch: r.Branch, Output: r.Output}
}
