package models

import "time"

// ScheduleType discriminates how a schedule describes its fire times.
type ScheduleType string

const (
	ScheduleTypeCron     ScheduleType = "CRON"     // standard 5-field cron expression
	ScheduleTypeInterval ScheduleType = "INTERVAL" // fixed cadence, optionally anchored to a time of day
	ScheduleTypeCalendar ScheduleType = "CALENDAR" // one-off absolute timestamp
)

// ScheduleStatus is the lifecycle state of a schedule.
type ScheduleStatus string

const (
	ScheduleStatusActive ScheduleStatus = "ACTIVE"
	ScheduleStatusPaused ScheduleStatus = "PAUSED"
)

// IntervalUnit is the cadence unit of an interval schedule.
type IntervalUnit string

const (
	IntervalUnitMinutes IntervalUnit = "MINUTES"
	IntervalUnitHours   IntervalUnit = "HOURS"
	IntervalUnitDays    IntervalUnit = "DAYS"
	IntervalUnitWeeks   IntervalUnit = "WEEKS"
	IntervalUnitMonths  IntervalUnit = "MONTHS"
)

// IntervalConfig describes a fixed-cadence schedule. Time, when set, anchors
// the fire to a HH:MM time of day in the schedule's timezone.
type IntervalConfig struct {
	Unit  IntervalUnit `json:"unit"  validate:"required"`
	Value int          `json:"value" validate:"required,min=1"`
	Time  string       `json:"time,omitempty"`
}

// WorkflowSchedule is a persisted rule describing when a workflow should
// automatically run. NextRunAt is recomputed on creation and after each fire.
// IsScheduled flips to true once a timer has been armed in the current
// process, so the daily re-scan does not arm the same schedule twice.
type WorkflowSchedule struct {
	ID              string          `json:"id"`
	WorkflowID      string          `json:"workflow_id" validate:"required"`
	UserID          string          `json:"user_id"`
	Type            ScheduleType    `json:"type"        validate:"required"`
	CronExpression  string          `json:"cron_expression,omitempty"`
	IntervalSeconds int64           `json:"interval_seconds,omitempty"`
	IntervalConfig  *IntervalConfig `json:"interval_config,omitempty"`
	CalendarDate    *time.Time      `json:"calendar_date,omitempty"`
	Timezone        string          `json:"timezone"`
	Status          ScheduleStatus  `json:"status"`
	NextRunAt       time.Time       `json:"next_run_at"`
	LastRunAt       *time.Time      `json:"last_run_at,omitempty"`
	IsScheduled     bool            `json:"is_scheduled"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsActive reports whether the schedule should be considered for arming.
func (s *WorkflowSchedule) IsActive() bool {
	return s.Status == ScheduleStatusActive
}
