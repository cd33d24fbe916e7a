// Package persistence provides the data storage abstraction consumed by the
// executor, the registrar and the worker pool. Record updates are assumed to
// be atomic per record; the core does no locking of its own.
package persistence

import (
	"context"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
)

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ScheduleRepository() ScheduleRepository
	ExecutionRepository() ExecutionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository loads and stores workflow definitions.
type WorkflowRepository interface {
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// ScheduleRepository stores schedule rules and powers the daily re-scan.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.WorkflowSchedule) error
	GetByID(ctx context.Context, id string) (*models.WorkflowSchedule, error)
	Update(ctx context.Context, schedule *models.WorkflowSchedule) error
	Delete(ctx context.Context, id string) error

	// ListRecurring returns ACTIVE CRON and INTERVAL schedules.
	ListRecurring(ctx context.Context) ([]*models.WorkflowSchedule, error)

	// ListCalendarDue returns unarmed ACTIVE CALENDAR schedules with
	// NextRunAt inside [from, until].
	ListCalendarDue(ctx context.Context, from, until time.Time) ([]*models.WorkflowSchedule, error)

	// MarkScheduled flips IsScheduled after a timer has been armed, and
	// records NextRunAt recomputed for the next occurrence.
	MarkScheduled(ctx context.Context, id string, nextRunAt time.Time) error
}

// ExecutionRepository tracks workflow runs and their node event trail.
type ExecutionRepository interface {
	CreateExecution(ctx context.Context, workflowID string, status models.ExecutionStatus) (*models.WorkflowExecution, error)
	UpdateExecution(ctx context.Context, execution *models.WorkflowExecution) error
	GetExecution(ctx context.Context, id string) (*models.WorkflowExecution, error)

	// ListExecutions returns executions for a workflow ordered by start
	// time, oldest first. An empty workflow ID returns every execution.
	ListExecutions(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error)
	RecordNodeEvent(ctx context.Context, record *models.NodeEventRecord) error
	NodeEvents(ctx context.Context, executionID string) ([]*models.NodeEventRecord, error)
}
