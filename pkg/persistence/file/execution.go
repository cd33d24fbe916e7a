package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/google/uuid"
)

// ExecutionRepository handles execution records and their node event trail.
type ExecutionRepository struct {
	root string
}

func (er *ExecutionRepository) path(id string) string {
	return filepath.Join(er.root, "executions", id+".json")
}

func (er *ExecutionRepository) eventsDir(executionID string) string {
	return filepath.Join(er.root, "node_events", executionID)
}

func (er *ExecutionRepository) CreateExecution(_ context.Context, workflowID string, status models.ExecutionStatus) (*models.WorkflowExecution, error) {
	execution := &models.WorkflowExecution{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		Status:     status,
		StartedAt:  time.Now().UTC(),
	}

	if err := writeJSON(er.path(execution.ID), execution); err != nil {
		return nil, persistence.NewStoreError("CreateExecution", execution.ID, err)
	}

	return execution, nil
}

func (er *ExecutionRepository) UpdateExecution(_ context.Context, execution *models.WorkflowExecution) error {
	var existing models.WorkflowExecution

	found, err := readJSON(er.path(execution.ID), &existing)
	if err != nil {
		return persistence.NewStoreError("UpdateExecution", execution.ID, err)
	}

	if !found {
		return persistence.NewStoreError("UpdateExecution", execution.ID, persistence.ErrExecutionNotFound)
	}

	if err := writeJSON(er.path(execution.ID), execution); err != nil {
		return persistence.NewStoreError("UpdateExecution", execution.ID, err)
	}

	return nil
}

func (er *ExecutionRepository) GetExecution(_ context.Context, id string) (*models.WorkflowExecution, error) {
	var execution models.WorkflowExecution

	found, err := readJSON(er.path(id), &execution)
	if err != nil {
		return nil, persistence.NewStoreError("GetExecution", id, err)
	}

	if !found {
		return nil, persistence.NewStoreError("GetExecution", id, persistence.ErrExecutionNotFound)
	}

	return &execution, nil
}

func (er *ExecutionRepository) ListExecutions(_ context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	dir := filepath.Join(er.root, "executions")

	root := os.DirFS(dir)

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, persistence.NewStoreError("ListExecutions", workflowID, err)
	}

	executions := make([]*models.WorkflowExecution, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		var execution models.WorkflowExecution

		found, err := readJSON(filepath.Join(dir, name), &execution)
		if err != nil {
			return nil, persistence.NewStoreError("ListExecutions", name, err)
		}

		if !found {
			continue
		}

		if workflowID == "" || execution.WorkflowID == workflowID {
			executions = append(executions, &execution)
		}
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.Before(executions[j].StartedAt)
	})

	return executions, nil
}

func (er *ExecutionRepository) RecordNodeEvent(_ context.Context, record *models.NodeEventRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	// Nanosecond prefix keeps directory listing in emission order.
	name := fmt.Sprintf("%020d-%s.json", record.CreatedAt.UnixNano(), record.ID)

	if err := writeJSON(filepath.Join(er.eventsDir(record.ExecutionID), name), record); err != nil {
		return persistence.NewStoreError("RecordNodeEvent", record.ID, err)
	}

	return nil
}

func (er *ExecutionRepository) NodeEvents(_ context.Context, executionID string) ([]*models.NodeEventRecord, error) {
	dir := er.eventsDir(executionID)

	root := os.DirFS(dir)

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, persistence.NewStoreError("NodeEvents", executionID, err)
	}

	sort.Strings(jsonFiles)

	records := make([]*models.NodeEventRecord, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		var record models.NodeEventRecord

		found, err := readJSON(filepath.Join(dir, name), &record)
		if err != nil {
			return nil, persistence.NewStoreError("NodeEvents", name, err)
		}

		if found {
			records = append(records, &record)
		}
	}

	return records, nil
}
