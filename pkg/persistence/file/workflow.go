package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/google/uuid"
)

// WorkflowRepository handles workflow-related file operations.
type WorkflowRepository struct {
	root string
}

func (wr *WorkflowRepository) path(id string) string {
	return filepath.Join(wr.root, "workflows", id+".json")
}

func (wr *WorkflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow

	found, err := readJSON(wr.path(id), &workflow)
	if err != nil {
		return nil, persistence.NewStoreError("GetByID", id, err)
	}

	if !found {
		return nil, persistence.NewStoreError("GetByID", id, persistence.ErrWorkflowNotFound)
	}

	return &workflow, nil
}

func (wr *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if err := writeJSON(wr.path(workflow.ID), workflow); err != nil {
		return persistence.NewStoreError("Save", workflow.ID, err)
	}

	return nil
}

func (wr *WorkflowRepository) Delete(_ context.Context, id string) error {
	if err := removeFile(wr.path(id)); err != nil {
		return persistence.NewStoreError("Delete", id, err)
	}

	return nil
}
