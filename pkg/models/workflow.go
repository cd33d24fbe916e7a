package models

import "time"

// Viewport is the editor camera state stored alongside the graph.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// WorkflowGraph is the node/edge structure defining an automation's steps.
type WorkflowGraph struct {
	Nodes    []*Node   `json:"nodes"`
	Edges    []*Edge   `json:"edges"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Workflow represents a user-defined automation: a graph of typed nodes with
// exactly one start node as the entry point.
type Workflow struct {
	ID                    string         `json:"id"`
	UserID                string         `json:"user_id"`
	Name                  string         `json:"name"        validate:"required,min=3"`
	Graph                 WorkflowGraph  `json:"graph"`
	Features              map[string]any `json:"features,omitempty"`
	ConversationVariables map[string]any `json:"conversation_variables,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// StartNode returns the workflow's unique start node, or nil if the graph has
// no start node. Callers needing the exactly-one invariant enforced should
// build a Graph instead.
func (w *Workflow) StartNode() *Node {
	for _, node := range w.Graph.Nodes {
		if node.IsStartNode() {
			return node
		}
	}

	return nil
}
