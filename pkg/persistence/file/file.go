// Package file provides file-based persistence for workflow configuration.
// Each workflow is stored as one JSON document under <root>/workflows/.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/paperflow/paperflow/pkg/models"
	"github.com/paperflow/paperflow/pkg/persistence"
)

type Persistence struct {
	root string
}

func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) workflowsDir() string {
	return filepath.Join(fp.root, "workflows")
}

func (fp *Persistence) workflowPath(id string) string {
	return filepath.Join(fp.workflowsDir(), id+".json")
}

func (fp *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	if _, err := os.Stat(fp.workflowsDir()); errors.Is(err, fs.ErrNotExist) {
		return []*models.Workflow{}, nil
	}

	entries, err := fs.Glob(os.DirFS(fp.workflowsDir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		id := strings.TrimSuffix(entry, ".json")

		workflow, err := fp.WorkflowByID(ctx, id)
		if err != nil {
			// One unreadable or drifted file must not block the rest of the
			// configuration; the broken workflow is skipped until repaired.
			slog.Warn("Skipping workflow file that failed to load",
				"workflow_id", id,
				"error", err)

			continue
		}

		if workflow != nil {
			workflows = append(workflows, workflow)
		}
	}

	return workflows, nil
}

func (fp *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	data, err := os.ReadFile(fp.workflowPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	// Reject hand-edited files that drifted from the expected shape before
	// they reach the engine.
	if err := models.ValidateWorkflowJSON(data); err != nil {
		return nil, err
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

func (fp *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	if err := os.MkdirAll(fp.workflowsDir(), 0o750); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	// Nil trigger/action lists would serialize as null and be rejected by the
	// schema on load, so store them as empty arrays.
	stored := *workflow
	if stored.Triggers == nil {
		stored.Triggers = []*models.WorkflowTrigger{}
	}

	if stored.Actions == nil {
		stored.Actions = []*models.WorkflowAction{}
	}

	data, err := json.MarshalIndent(&stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	if err := os.WriteFile(fp.workflowPath(workflow.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write workflow file: %w", err)
	}

	return nil
}

func (fp *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	if err := os.Remove(fp.workflowPath(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to delete workflow file: %w", err)
	}

	return nil
}
