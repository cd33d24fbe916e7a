package models

import "time"

// ExecutionStatus is the state of a single workflow run.
type ExecutionStatus string

const (
	ExecutionStatusRunning ExecutionStatus = "RUNNING"
	ExecutionStatusSuccess ExecutionStatus = "SUCCESS"
	ExecutionStatusFailed  ExecutionStatus = "FAILED"
)

// WorkflowExecution tracks one concrete run of a workflow from start to
// terminal status. There is one execution record per run regardless of how
// many nodes the run dispatches.
type WorkflowExecution struct {
	ID         string          `json:"id"`
	WorkflowID string          `json:"workflow_id"`
	Status     ExecutionStatus `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	EndedAt    *time.Time      `json:"ended_at,omitempty"`
	Output     map[string]any  `json:"output,omitempty"`
}

// Finished reports whether the execution reached a terminal status.
func (e *WorkflowExecution) Finished() bool {
	return e.Status == ExecutionStatusSuccess || e.Status == ExecutionStatusFailed
}

// NodeEventRecord is the persisted trace of a node lifecycle phase within an
// execution. The executor produces these; storage belongs to the persistence
// layer.
type NodeEventRecord struct {
	ID          string         `json:"id"`
	ExecutionID string         `json:"execution_id"`
	NodeID      string         `json:"node_id"`
	NodeType    string         `json:"node_type"`
	Phase       string         `json:"phase"`
	Payload     map[string]any `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
