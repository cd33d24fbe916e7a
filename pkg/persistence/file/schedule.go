package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/google/uuid"
)

// ScheduleRepository handles schedule-related file operations.
type ScheduleRepository struct {
	root string
}

func (sr *ScheduleRepository) dir() string {
	return filepath.Join(sr.root, "schedules")
}

func (sr *ScheduleRepository) path(id string) string {
	return filepath.Join(sr.dir(), id+".json")
}

func (sr *ScheduleRepository) Create(_ context.Context, schedule *models.WorkflowSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	if err := writeJSON(sr.path(schedule.ID), schedule); err != nil {
		return persistence.NewStoreError("Create", schedule.ID, err)
	}

	return nil
}

func (sr *ScheduleRepository) GetByID(_ context.Context, id string) (*models.WorkflowSchedule, error) {
	var schedule models.WorkflowSchedule

	found, err := readJSON(sr.path(id), &schedule)
	if err != nil {
		return nil, persistence.NewStoreError("GetByID", id, err)
	}

	if !found {
		return nil, persistence.NewStoreError("GetByID", id, persistence.ErrScheduleNotFound)
	}

	return &schedule, nil
}

func (sr *ScheduleRepository) Update(_ context.Context, schedule *models.WorkflowSchedule) error {
	var existing models.WorkflowSchedule

	found, err := readJSON(sr.path(schedule.ID), &existing)
	if err != nil {
		return persistence.NewStoreError("Update", schedule.ID, err)
	}

	if !found {
		return persistence.NewStoreError("Update", schedule.ID, persistence.ErrScheduleNotFound)
	}

	schedule.UpdatedAt = time.Now().UTC()

	if err := writeJSON(sr.path(schedule.ID), schedule); err != nil {
		return persistence.NewStoreError("Update", schedule.ID, err)
	}

	return nil
}

func (sr *ScheduleRepository) Delete(_ context.Context, id string) error {
	if err := removeFile(sr.path(id)); err != nil {
		return persistence.NewStoreError("Delete", id, err)
	}

	return nil
}

func (sr *ScheduleRepository) ListRecurring(ctx context.Context) ([]*models.WorkflowSchedule, error) {
	schedules, err := sr.list(ctx)
	if err != nil {
		return nil, err
	}

	recurring := make([]*models.WorkflowSchedule, 0, len(schedules))

	for _, schedule := range schedules {
		if !schedule.IsActive() {
			continue
		}

		if schedule.Type == models.ScheduleTypeCron || schedule.Type == models.ScheduleTypeInterval {
			recurring = append(recurring, schedule)
		}
	}

	return recurring, nil
}

func (sr *ScheduleRepository) ListCalendarDue(ctx context.Context, from, until time.Time) ([]*models.WorkflowSchedule, error) {
	schedules, err := sr.list(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]*models.WorkflowSchedule, 0)

	for _, schedule := range schedules {
		if schedule.Type != models.ScheduleTypeCalendar || schedule.IsScheduled || !schedule.IsActive() {
			continue
		}

		if schedule.NextRunAt.Before(from) || schedule.NextRunAt.After(until) {
			continue
		}

		due = append(due, schedule)
	}

	return due, nil
}

func (sr *ScheduleRepository) MarkScheduled(ctx context.Context, id string, nextRunAt time.Time) error {
	schedule, err := sr.GetByID(ctx, id)
	if err != nil {
		return err
	}

	schedule.IsScheduled = true
	schedule.NextRunAt = nextRunAt

	return sr.Update(ctx, schedule)
}

func (sr *ScheduleRepository) list(_ context.Context) ([]*models.WorkflowSchedule, error) {
	root := os.DirFS(sr.dir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, persistence.NewStoreError("List", "schedules", err)
	}

	schedules := make([]*models.WorkflowSchedule, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		var schedule models.WorkflowSchedule

		found, err := readJSON(filepath.Join(sr.dir(), name), &schedule)
		if err != nil {
			return nil, persistence.NewStoreError("List", name, err)
		}

		if found {
			schedules = append(schedules, &schedule)
		}
	}

	return schedules, nil
}
