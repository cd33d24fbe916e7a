// Package file provides a file-based persistence implementation for
// workflows, schedules and executions. Intended for development and tests.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conveyorhq/conveyor/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root          string
	workflowRepo  *WorkflowRepository
	scheduleRepo  *ScheduleRepository
	executionRepo *ExecutionRepository
}

// NewPersistence creates a new instance rooted at the given directory. A
// "file://" prefix is accepted and stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:          cleanRoot,
		workflowRepo:  &WorkflowRepository{root: cleanRoot},
		scheduleRepo:  &ScheduleRepository{root: cleanRoot},
		executionRepo: &ExecutionRepository{root: cleanRoot},
	}
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

func (fp *Persistence) ScheduleRepository() persistence.ScheduleRepository {
	return fp.scheduleRepo
}

func (fp *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return fp.executionRepo
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// fileMu serializes writes; record updates must be atomic per record and the
// file system gives no such guarantee on its own.
var fileMu sync.Mutex

func writeJSON(path string, value any) error {
	fileMu.Lock()
	defer fileMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return os.Rename(tmp, path)
}

func readJSON(path string, value any) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to read record: %w", err)
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return false, fmt.Errorf("failed to decode record: %w", err)
	}

	return true, nil
}

func removeFile(path string) error {
	fileMu.Lock()
	defer fileMu.Unlock()

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
