package web

import (
	"log/slog"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/conveyorhq/conveyor/pkg/registrar"
	"github.com/conveyorhq/conveyor/pkg/schedule"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type APIHandlers struct {
	persistence persistence.Persistence
	registrar   *registrar.Registrar
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewAPIHandlers(
	store persistence.Persistence,
	reg *registrar.Registrar,
	validate *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		persistence: store,
		registrar:   reg,
		validator:   validate,
		logger:      logger.With("module", "web"),
	}
}

// RegisterJob creates a schedule record, arms it and returns 201 with the
// computed next fire time. Malformed cron expressions and calendar times in
// the past are rejected with 400 and nothing is armed.
func (h *APIHandlers) RegisterJob(c fiber.Ctx) error {
	var req RegisterJobRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	ctx := c.Context()
	workflows := h.persistence.WorkflowRepository()

	if req.Workflow != nil {
		req.Workflow.ID = req.WorkflowID
		req.Workflow.UserID = req.UserID

		if err := workflows.Save(ctx, req.Workflow); err != nil {
			return internalError(c, err)
		}
	} else if _, err := workflows.GetByID(ctx, req.WorkflowID); err != nil {
		return handleScheduleError(c, err)
	}

	record, err := h.buildSchedule(req)
	if err != nil {
		return handleScheduleError(c, err)
	}

	nextRunAt, err := schedule.NextRunAt(record, time.Now().UTC())
	if err != nil {
		return handleScheduleError(c, err)
	}

	record.NextRunAt = nextRunAt

	schedules := h.persistence.ScheduleRepository()

	if err := schedules.Create(ctx, record); err != nil {
		return internalError(c, err)
	}

	if err := h.registrar.RegisterJob(ctx, registrar.JobFromSchedule(record)); err != nil {
		return handleScheduleError(c, err)
	}

	if err := schedules.MarkScheduled(ctx, record.ID, nextRunAt); err != nil {
		h.logger.ErrorContext(ctx, "Failed to mark schedule as armed", "schedule_id", record.ID, "error", err)
	}

	h.logger.InfoContext(ctx, "Registered job",
		"schedule_id", record.ID,
		"workflow_id", record.WorkflowID,
		"mode", record.Type,
		"next_run_at", nextRunAt,
	)

	return c.Status(fiber.StatusCreated).JSON(RegisterJobResponse{
		ScheduleID: record.ID,
		WorkflowID: record.WorkflowID,
		Mode:       string(record.Type),
		Status:     string(record.Status),
		NextRunAt:  nextRunAt,
	})
}

// buildSchedule translates the request into a schedule record, deriving the
// cron expression, interval seconds and calendar date for its mode.
func (h *APIHandlers) buildSchedule(req RegisterJobRequest) (*models.WorkflowSchedule, error) {
	scheduleID := req.ScheduleID
	if scheduleID == "" {
		scheduleID = uuid.New().String()
	}

	now := time.Now().UTC()

	record := &models.WorkflowSchedule{
		ID:         scheduleID,
		WorkflowID: req.WorkflowID,
		UserID:     req.UserID,
		Type:       models.ScheduleType(req.ScheduleMode),
		Timezone:   req.Timezone,
		Status:     models.ScheduleStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch record.Type {
	case models.ScheduleTypeCron:
		if req.CronExpression == "" {
			return nil, models.NewInvalidScheduleError(scheduleID, "cronExpression is required for CRON schedules", nil)
		}

		if err := schedule.ValidateCron(req.CronExpression); err != nil {
			return nil, models.NewInvalidScheduleError(scheduleID, "malformed cron expression", err)
		}

		record.CronExpression = req.CronExpression

	case models.ScheduleTypeInterval:
		if req.Interval == nil {
			return nil, models.NewInvalidScheduleError(scheduleID, "interval is required for INTERVAL schedules", nil)
		}

		config := models.IntervalConfig{
			Unit:  models.IntervalUnit(req.Interval.Unit),
			Value: req.Interval.Value,
			Time:  req.Interval.Time,
		}

		seconds, err := schedule.IntervalSeconds(config.Unit, config.Value)
		if err != nil {
			return nil, models.NewInvalidScheduleError(scheduleID, "invalid interval", err)
		}

		expr, err := schedule.CronForInterval(config)
		if err != nil {
			return nil, models.NewInvalidScheduleError(scheduleID, "invalid interval", err)
		}

		record.IntervalConfig = &config
		record.IntervalSeconds = seconds
		record.CronExpression = expr

	case models.ScheduleTypeCalendar:
		if req.ScheduleTime == nil {
			return nil, models.NewInvalidScheduleError(scheduleID, "scheduleTime is required for CALENDAR schedules", nil)
		}

		calendarDate := req.ScheduleTime.UTC()
		record.CalendarDate = &calendarDate

	default:
		return nil, models.NewInvalidScheduleError(scheduleID, "unknown schedule mode "+req.ScheduleMode, nil)
	}

	return record, nil
}

func (h *APIHandlers) GetSchedule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Schedule ID is required")
	}

	record, err := h.persistence.ScheduleRepository().GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsScheduleNotFound(err) {
			return notFound(c, "Schedule not found")
		}

		return internalError(c, err)
	}

	return c.JSON(record)
}

// DeleteSchedule disarms and removes a schedule.
func (h *APIHandlers) DeleteSchedule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Schedule ID is required")
	}

	h.registrar.Cancel(id)

	if err := h.persistence.ScheduleRepository().Delete(c.Context(), id); err != nil {
		if persistence.IsScheduleNotFound(err) {
			return notFound(c, "Schedule not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	executions := h.persistence.ExecutionRepository()

	execution, err := executions.GetExecution(c.Context(), id)
	if err != nil {
		if persistence.IsExecutionNotFound(err) {
			return notFound(c, "Execution not found")
		}

		return internalError(c, err)
	}

	events, err := executions.NodeEvents(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(ExecutionResponse{
		Execution: execution,
		Events:    events,
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
