package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/paperflow/paperflow/pkg/models"
	"github.com/paperflow/paperflow/pkg/persistence"
)

// Repository manages workflow configuration. The engine only reads from it;
// writes come from configuration tooling. Configuration changes take effect
// for events dispatched after the change is committed, never mid-evaluation.
type Repository struct {
	persistence persistence.Persistence
	validate    *validator.Validate
}

func NewRepository(persistence persistence.Persistence) *Repository {
	return &Repository{
		persistence: persistence,
		validate:    validator.New(),
	}
}

func (r *Repository) HealthCheck(ctx context.Context) (string, bool) {
	if r.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := r.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (r *Repository) FetchAll(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := r.persistence.Workflows(ctx)
	if err != nil {
		return make([]*models.Workflow, 0), err
	}

	return workflows, nil
}

// FetchEnabled returns the read-only configuration snapshot one evaluation
// runs against.
func (r *Repository) FetchEnabled(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	enabled := make([]*models.Workflow, 0, len(workflows))

	for _, workflow := range workflows {
		if workflow.Enabled {
			enabled = append(enabled, workflow)
		}
	}

	return enabled, nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := r.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

func (r *Repository) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	r.fillComponentIDs(workflow)

	if err := r.validate.Struct(workflow); err != nil {
		return nil, fmt.Errorf("workflow validation failed: %w", err)
	}

	now := time.Now()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if err := r.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

func (r *Repository) Update(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := r.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrWorkflowNotFound
	}

	workflow.ID = id
	r.fillComponentIDs(workflow)

	if err := r.validate.Struct(workflow); err != nil {
		return nil, fmt.Errorf("workflow validation failed: %w", err)
	}

	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now()

	if err := r.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	existing, err := r.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrWorkflowNotFound
	}

	return r.persistence.DeleteWorkflow(ctx, id)
}

func (r *Repository) fillComponentIDs(workflow *models.Workflow) {
	// Stored definitions always carry arrays: a nil slice would serialize as
	// null and fail schema validation when the workflow is loaded back.
	if workflow.Triggers == nil {
		workflow.Triggers = []*models.WorkflowTrigger{}
	}

	if workflow.Actions == nil {
		workflow.Actions = []*models.WorkflowAction{}
	}

	for _, trigger := range workflow.Triggers {
		if trigger.ID == "" {
			trigger.ID = uuid.New().String()
		}
	}

	for _, action := range workflow.Actions {
		if action.ID == "" {
			action.ID = uuid.New().String()
		}
	}
}
