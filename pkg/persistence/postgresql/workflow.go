package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paperflow/paperflow/pkg/models"
)

// WorkflowRepository handles workflow rows.
type WorkflowRepository struct {
	db *sql.DB
}

func NewWorkflowRepository(db *sql.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return p.workflowRepo.list(ctx)
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return p.workflowRepo.byID(ctx, id)
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	return p.workflowRepo.save(ctx, workflow)
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.workflowRepo.delete(ctx, id)
}

const workflowColumns = "id, name, evaluation_order, enabled, triggers, actions, created_at, updated_at"

func (wr *WorkflowRepository) list(ctx context.Context) ([]*models.Workflow, error) {
	rows, err := wr.db.QueryContext(ctx,
		"SELECT "+workflowColumns+" FROM workflows ORDER BY evaluation_order, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workflows: %w", err)
	}

	return workflows, nil
}

func (wr *WorkflowRepository) byID(ctx context.Context, id string) (*models.Workflow, error) {
	row := wr.db.QueryRowContext(ctx,
		"SELECT "+workflowColumns+" FROM workflows WHERE id = $1", id)

	workflow, err := scanWorkflow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return workflow, nil
}

func (wr *WorkflowRepository) save(ctx context.Context, workflow *models.Workflow) error {
	// Nil lists are stored as empty JSON arrays, matching the file store.
	triggerList := workflow.Triggers
	if triggerList == nil {
		triggerList = []*models.WorkflowTrigger{}
	}

	actionList := workflow.Actions
	if actionList == nil {
		actionList = []*models.WorkflowAction{}
	}

	triggers, err := json.Marshal(triggerList)
	if err != nil {
		return fmt.Errorf("failed to marshal triggers: %w", err)
	}

	actions, err := json.Marshal(actionList)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	_, err = wr.db.ExecContext(ctx, `
		INSERT INTO workflows (id, name, evaluation_order, enabled, triggers, actions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			evaluation_order = EXCLUDED.evaluation_order,
			enabled = EXCLUDED.enabled,
			triggers = EXCLUDED.triggers,
			actions = EXCLUDED.actions,
			updated_at = EXCLUDED.updated_at
	`, workflow.ID, workflow.Name, workflow.Order, workflow.Enabled,
		triggers, actions, workflow.CreatedAt, workflow.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}

	return nil
}

func (wr *WorkflowRepository) delete(ctx context.Context, id string) error {
	_, err := wr.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow models.Workflow
		triggers []byte
		actions  []byte
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Order,
		&workflow.Enabled,
		&triggers,
		&actions,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to scan workflow row: %w", err)
	}

	if err := json.Unmarshal(triggers, &workflow.Triggers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal triggers for workflow %s: %w", workflow.ID, err)
	}

	if err := json.Unmarshal(actions, &workflow.Actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions for workflow %s: %w", workflow.ID, err)
	}

	return &workflow, nil
}
