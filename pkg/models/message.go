package models

import (
	"encoding/json"
	"time"
)

// RunWorkflowEvent is the only event kind currently written to the queue.
const RunWorkflowEvent = "RUN_WORKFLOW"

// RunWorkflowData is the payload of a RUN_WORKFLOW message.
type RunWorkflowData struct {
	WorkflowID  string    `json:"workflowId"`
	UserID      string    `json:"userId"`
	ScheduleID  string    `json:"scheduleId,omitempty"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

// QueueMessage is a durable "run this workflow" instruction. Messages are
// append-only: once written to the log they are never mutated.
type QueueMessage struct {
	Event string          `json:"event"`
	Data  RunWorkflowData `json:"data"`
}

// NewRunWorkflowMessage builds a RUN_WORKFLOW message stamped with the
// trigger time.
func NewRunWorkflowMessage(workflowID, userID, scheduleID string, triggeredAt time.Time) QueueMessage {
	return QueueMessage{
		Event: RunWorkflowEvent,
		Data: RunWorkflowData{
			WorkflowID:  workflowID,
			UserID:      userID,
			ScheduleID:  scheduleID,
			TriggeredAt: triggeredAt.UTC(),
		},
	}
}

// EncodeData serializes the message payload for the queue's data field.
func (m QueueMessage) EncodeData() (string, error) {
	raw, err := json.Marshal(m.Data)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

// DecodeRunWorkflowData parses a queue data field back into its payload.
func DecodeRunWorkflowData(raw string) (RunWorkflowData, error) {
	var data RunWorkflowData

	err := json.Unmarshal([]byte(raw), &data)

	return data, err
}
