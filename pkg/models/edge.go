package models

// Branch labels carried by edges leaving a condition node.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// EdgeData carries optional edge metadata. BranchPath is only meaningful when
// the edge's source is a condition node: it selects which downstream edges
// fire for a given boolean outcome.
type EdgeData struct {
	BranchPath string `json:"branchPath,omitempty"`
}

// Edge connects two nodes in a workflow graph.
type Edge struct {
	ID           string   `json:"id"     validate:"required"`
	Source       string   `json:"source" validate:"required"`
	Target       string   `json:"target" validate:"required"`
	SourceHandle string   `json:"sourceHandle,omitempty"`
	TargetHandle string   `json:"targetHandle,omitempty"`
	Data         EdgeData `json:"data,omitempty"`
}
