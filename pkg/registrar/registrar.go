// Package registrar arms schedules: recurring cron entries for CRON and
// INTERVAL schedules, one-shot timers for CALENDAR ones. Every fire appends a
// RUN_WORKFLOW message to the durable queue.
package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/conveyorhq/conveyor/pkg/queue"
	"github.com/conveyorhq/conveyor/pkg/schedule"
	"github.com/robfig/cron/v3"
)

// rescanSpec fires the daily re-derivation of unarmed schedules at midnight UTC.
const rescanSpec = "0 0 * * *"

// Job describes one arming request, either from the registration endpoint or
// from the re-scan.
type Job struct {
	ScheduleID     string
	WorkflowID     string
	UserID         string
	Mode           models.ScheduleType
	CronExpression string
	ScheduleTime   time.Time
}

// JobFromSchedule converts a persisted schedule into an arming request.
func JobFromSchedule(s *models.WorkflowSchedule) Job {
	job := Job{
		ScheduleID:     s.ID,
		WorkflowID:     s.WorkflowID,
		UserID:         s.UserID,
		Mode:           s.Type,
		CronExpression: s.CronExpression,
	}

	if s.CalendarDate != nil {
		job.ScheduleTime = *s.CalendarDate
	}

	return job
}

// Registrar owns every armed timer of the current process, keyed by schedule
// ID so arming is idempotent and cancellable. Timers live in memory only;
// after a crash the daily re-scan recovers them best-effort.
type Registrar struct {
	queue     *queue.Queue
	schedules persistence.ScheduleRepository
	logger    *slog.Logger

	mu      sync.Mutex
	runner  *cron.Cron
	entries map[string]cron.EntryID
	timers  map[string]*time.Timer
	started bool
}

// NewRegistrar creates a registrar producing into q. The schedule repository
// may be nil; then fires are not written back and the re-scan is a no-op.
func NewRegistrar(q *queue.Queue, schedules persistence.ScheduleRepository, logger *slog.Logger) *Registrar {
	return &Registrar{
		queue:     q,
		schedules: schedules,
		logger:    logger.With("module", "registrar"),
		runner: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(
				cron.SkipIfStillRunning(cron.DefaultLogger),
				cron.Recover(cron.DefaultLogger),
			),
		),
		entries: make(map[string]cron.EntryID),
		timers:  make(map[string]*time.Timer),
	}
}

// Start arms the daily re-scan and begins firing recurring entries. An
// initial re-scan runs immediately to recover schedules across restarts.
func (r *Registrar) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()

		return nil
	}

	r.started = true
	r.mu.Unlock()

	_, err := r.runner.AddFunc(rescanSpec, func() {
		r.logger.Info("Running daily schedule re-scan")

		if err := r.Rescan(context.Background()); err != nil {
			r.logger.Error("Daily re-scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to arm daily re-scan: %w", err)
	}

	r.runner.Start()

	if err := r.Rescan(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Startup re-scan failed", "error", err)
	}

	r.logger.InfoContext(ctx, "Registrar started")

	return nil
}

// Stop halts the cron runner and cancels all one-shot timers.
func (r *Registrar) Stop(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runner.Stop()

	for scheduleID, timer := range r.timers {
		timer.Stop()
		delete(r.timers, scheduleID)
	}

	r.logger.InfoContext(ctx, "Registrar stopped")
}

// RegisterJob arms the job according to its mode.
func (r *Registrar) RegisterJob(ctx context.Context, job Job) error {
	switch job.Mode {
	case models.ScheduleTypeCron, models.ScheduleTypeInterval:
		return r.RegisterCron(ctx, job)
	case models.ScheduleTypeCalendar:
		return r.RegisterCalendar(ctx, job)
	default:
		return models.NewInvalidScheduleError(job.ScheduleID, fmt.Sprintf("unknown schedule mode %q", job.Mode), nil)
	}
}

// RegisterCron arms a recurring entry keyed by the job's cron expression.
// Arming the same schedule twice is a no-op.
func (r *Registrar) RegisterCron(ctx context.Context, job Job) error {
	if err := schedule.ValidateCron(job.CronExpression); err != nil {
		return models.NewInvalidScheduleError(job.ScheduleID, "malformed cron expression", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[job.ScheduleID]; exists {
		return nil
	}

	entryID, err := r.runner.AddFunc(job.CronExpression, func() {
		r.fire(context.Background(), job)
	})
	if err != nil {
		return models.NewInvalidScheduleError(job.ScheduleID, "failed to arm cron entry", err)
	}

	r.entries[job.ScheduleID] = entryID

	r.logger.InfoContext(ctx, "Armed recurring schedule",
		"schedule_id", job.ScheduleID,
		"workflow_id", job.WorkflowID,
		"cron", job.CronExpression,
	)

	return nil
}

// RegisterCalendar arms a one-shot timer firing at the job's schedule time.
// Times not in the future are rejected and nothing is armed.
func (r *Registrar) RegisterCalendar(ctx context.Context, job Job) error {
	delay := time.Until(job.ScheduleTime)
	if delay <= 0 {
		return models.NewInvalidScheduleError(job.ScheduleID, "schedule time must be in the future", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.timers[job.ScheduleID]; exists {
		return nil
	}

	r.timers[job.ScheduleID] = time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.timers, job.ScheduleID)
		r.mu.Unlock()

		r.fire(context.Background(), job)
	})

	r.logger.InfoContext(ctx, "Armed one-shot schedule",
		"schedule_id", job.ScheduleID,
		"workflow_id", job.WorkflowID,
		"delay", delay,
	)

	return nil
}

// Cancel disarms whatever is registered for the schedule ID.
func (r *Registrar) Cancel(scheduleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entryID, exists := r.entries[scheduleID]; exists {
		r.runner.Remove(entryID)
		delete(r.entries, scheduleID)
	}

	if timer, exists := r.timers[scheduleID]; exists {
		timer.Stop()
		delete(r.timers, scheduleID)
	}
}

// Armed reports whether the schedule has a live entry or timer in this process.
func (r *Registrar) Armed(scheduleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, entry := r.entries[scheduleID]
	_, timer := r.timers[scheduleID]

	return entry || timer
}

// fire produces one RUN_WORKFLOW message and re-derives the schedule's next
// occurrence on the persisted record.
func (r *Registrar) fire(ctx context.Context, job Job) {
	now := time.Now().UTC()

	message := models.NewRunWorkflowMessage(job.WorkflowID, job.UserID, job.ScheduleID, now)

	messageID, err := r.queue.Append(ctx, message)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to enqueue workflow run",
			"error", err,
			"schedule_id", job.ScheduleID,
			"workflow_id", job.WorkflowID,
		)

		return
	}

	r.logger.InfoContext(ctx, "Schedule fired",
		"schedule_id", job.ScheduleID,
		"workflow_id", job.WorkflowID,
		"message_id", messageID,
	)

	r.recordFire(ctx, job, now)
}

func (r *Registrar) recordFire(ctx context.Context, job Job, firedAt time.Time) {
	if r.schedules == nil || job.ScheduleID == "" {
		return
	}

	record, err := r.schedules.GetByID(ctx, job.ScheduleID)
	if err != nil {
		r.logger.WarnContext(ctx, "Fired schedule not found in store", "schedule_id", job.ScheduleID, "error", err)

		return
	}

	record.LastRunAt = &firedAt

	if next, err := schedule.NextRunAt(record, firedAt); err == nil {
		record.NextRunAt = next
	}

	if err := r.schedules.Update(ctx, record); err != nil {
		r.logger.ErrorContext(ctx, "Failed to update schedule after fire", "schedule_id", job.ScheduleID, "error", err)
	}
}

// Rescan re-derives and arms every ACTIVE schedule not yet armed in this
// process: all recurring schedules, plus calendar schedules due before end of
// day. Best-effort: per-schedule failures are logged and skipped.
func (r *Registrar) Rescan(ctx context.Context) error {
	if r.schedules == nil {
		return nil
	}

	now := time.Now().UTC()

	recurring, err := r.schedules.ListRecurring(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recurring schedules: %w", err)
	}

	armedRecurring := 0

	for _, s := range recurring {
		if s.IsScheduled && r.Armed(s.ID) {
			continue
		}

		if s.CronExpression == "" {
			r.logger.WarnContext(ctx, "Recurring schedule without cron expression", "schedule_id", s.ID)

			continue
		}

		if err := r.RegisterCron(ctx, JobFromSchedule(s)); err != nil {
			r.logger.ErrorContext(ctx, "Failed to arm recurring schedule", "schedule_id", s.ID, "error", err)

			continue
		}

		r.markScheduled(ctx, s, now)
		armedRecurring++
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)

	calendar, err := r.schedules.ListCalendarDue(ctx, now, endOfDay)
	if err != nil {
		return fmt.Errorf("failed to list due calendar schedules: %w", err)
	}

	armedCalendar := 0

	for _, s := range calendar {
		if err := r.RegisterCalendar(ctx, JobFromSchedule(s)); err != nil {
			r.logger.ErrorContext(ctx, "Failed to arm calendar schedule", "schedule_id", s.ID, "error", err)

			continue
		}

		r.markScheduled(ctx, s, now)
		armedCalendar++
	}

	r.logger.InfoContext(ctx, "Re-scan complete",
		"recurring_armed", armedRecurring,
		"calendar_armed", armedCalendar,
	)

	return nil
}

func (r *Registrar) markScheduled(ctx context.Context, s *models.WorkflowSchedule, now time.Time) {
	nextRunAt := s.NextRunAt

	if next, err := schedule.NextRunAt(s, now); err == nil {
		nextRunAt = next
	}

	if err := r.schedules.MarkScheduled(ctx, s.ID, nextRunAt); err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark schedule as armed", "schedule_id", s.ID, "error", err)
	}
}
