// Package models defines the core domain models for node-based workflow automation.
package models

// Node type identifiers for the built-in node set.
const (
	NodeTypeStart     = "start"
	NodeTypeCondition = "condition"

	// Agent node types invoke an external capability by name.
	NodeTypeAgentWeather    = "agent:weather"
	NodeTypeAgentSummarizer = "agent:summarizer"

	agentNodeTypePrefix = "agent:"
)

// Position is the editor placement of a node. It has no effect on execution.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node represents a single typed unit of work inside a workflow graph.
// The definition is immutable during execution; per-run inputs are tracked
// by the executor, never written back onto the node.
type Node struct {
	ID       string         `json:"id"       validate:"required"`
	Type     string         `json:"type"     validate:"required"`
	Data     map[string]any `json:"data"`
	Position Position       `json:"position"`
}

// IsStartNode reports whether this node is the workflow entry point.
func (n *Node) IsStartNode() bool {
	return n.Type == NodeTypeStart
}

// IsConditionNode reports whether this node branches on a boolean outcome.
func (n *Node) IsConditionNode() bool {
	return n.Type == NodeTypeCondition
}

// IsAgentNode reports whether this node invokes an external capability.
func (n *Node) IsAgentNode() bool {
	return len(n.Type) > len(agentNodeTypePrefix) && n.Type[:len(agentNodeTypePrefix)] == agentNodeTypePrefix
}

// CapabilityName returns the capability identifier for agent nodes
// ("weather" for "agent:weather"). Empty for non-agent nodes.
func (n *Node) CapabilityName() string {
	if !n.IsAgentNode() {
		return ""
	}

	return n.Type[len(agentNodeTypePrefix):]
}
