// Package web exposes the job registration API over HTTP.
package web

import (
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
)

// IntervalRequest describes a fixed-cadence schedule in a registration
// request. Time, when set, anchors the fire to a HH:MM time of day.
type IntervalRequest struct {
	Unit  string `json:"unit"           validate:"required,oneof=MINUTES HOURS DAYS WEEKS MONTHS"`
	Value int    `json:"value"          validate:"required,min=1"`
	Time  string `json:"time,omitempty"`
}

// RegisterJobRequest is the body of POST /jobs/register. Exactly one of the
// mode-specific fields must be present: cronExpression for CRON, interval
// for INTERVAL, scheduleTime for CALENDAR. Workflow, when set, is saved
// under workflowId before the schedule is armed; otherwise the workflow
// must already exist.
type RegisterJobRequest struct {
	UserID         string           `json:"userId"                   validate:"required"`
	WorkflowID     string           `json:"workflowId"               validate:"required"`
	ScheduleID     string           `json:"scheduleId,omitempty"`
	ScheduleMode   string           `json:"scheduleMode"             validate:"required,oneof=CRON INTERVAL CALENDAR"`
	CronExpression string           `json:"cronExpression,omitempty"`
	Interval       *IntervalRequest `json:"interval,omitempty"`
	ScheduleTime   *time.Time       `json:"scheduleTime,omitempty"`
	Timezone       string           `json:"timezone,omitempty"`
	Workflow       *models.Workflow `json:"workflow,omitempty"`
}

// RegisterJobResponse confirms an armed schedule.
type RegisterJobResponse struct {
	ScheduleID string    `json:"scheduleId"`
	WorkflowID string    `json:"workflowId"`
	Mode       string    `json:"scheduleMode"`
	Status     string    `json:"status"`
	NextRunAt  time.Time `json:"nextRunAt"`
}

// ExecutionResponse is one workflow run with its node event trail.
type ExecutionResponse struct {
	Execution *models.WorkflowExecution `json:"execution"`
	Events    []*models.NodeEventRecord `json:"events"`
}
