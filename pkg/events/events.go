// Package events defines the lifecycle event stream emitted by the workflow executor.
package events

import (
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic is the broadcast channel carrying serialized lifecycle events for
// live subscribers.
const Topic = "conveyor.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Per-node lifecycle events.
	NodeStartEvent   EventType = "node:start"
	NodeSuccessEvent EventType = "node:success"
	NodeErrorEvent   EventType = "node:error"

	// Per-run lifecycle events.
	WorkflowCompleteEvent EventType = "workflow:complete"
	WorkflowFailedEvent   EventType = "workflow:failed"
)

// BaseEvent carries the identity shared by every lifecycle event. Events are
// transient: the executor produces them, collaborators persist or fan them out.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ExecutionID string    `json:"execution_id"`
	UserID      string    `json:"user_id"`
	WorkflowID  string    `json:"workflow_id"`
}

// NodeStart is emitted before a node is dispatched to its handler.
type NodeStart struct {
	BaseEvent

	NodeID   string             `json:"node_id"`
	NodeType string             `json:"node_type"`
	Input    models.AgentOutput `json:"input"`
}

func (e NodeStart) GetType() EventType {
	return NodeStartEvent
}

// NodeSuccess is emitted after a handler returns without error. Result is
// either an AgentOutput or, for condition nodes, a ConditionOutput.
type NodeSuccess struct {
	BaseEvent

	NodeID   string `json:"node_id"`
	NodeType string `json:"node_type"`
	Result   any    `json:"result"`
}

func (e NodeSuccess) GetType() EventType {
	return NodeSuccessEvent
}

// NodeError is emitted when a handler fails. The run aborts immediately after.
type NodeError struct {
	BaseEvent

	NodeID   string `json:"node_id"`
	NodeType string `json:"node_type"`
	Error    string `json:"error"`
}

func (e NodeError) GetType() EventType {
	return NodeErrorEvent
}

// WorkflowComplete is emitted once all reachable nodes have run.
type WorkflowComplete struct {
	BaseEvent
}

func (e WorkflowComplete) GetType() EventType {
	return WorkflowCompleteEvent
}

// WorkflowFailed is emitted when a run aborts on a node failure.
type WorkflowFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (e WorkflowFailed) GetType() EventType {
	return WorkflowFailedEvent
}

// NewBaseEvent stamps an event with identity, type and the current time.
func NewBaseEvent(eventType EventType, executionID, userID, workflowID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		ExecutionID: executionID,
		UserID:      userID,
		WorkflowID:  workflowID,
	}
}
