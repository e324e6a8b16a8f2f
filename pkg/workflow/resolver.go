package workflow

import (
	"fmt"
	"log/slog"

	"github.com/paperflow/paperflow/pkg/models"
	"github.com/paperflow/paperflow/pkg/template"
)

// Resolver folds the assignment actions of an ordered workflow sequence into
// one mutation set.
type Resolver struct {
	logger *slog.Logger
}

func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger.With("module", "action_resolver")}
}

// Resolve merges every assignment action across the ordered workflows.
// Scalar fields are last-writer-wins: a later workflow overwrites an earlier
// one, while an unset field never clears a prior assignment. Multi-value
// fields accumulate as a union. Title templates are rendered against the
// event context here, not at commit time, so resolution is deterministic.
// Performs no I/O. A workflow with an unresolvable action is skipped whole
// and reported; its earlier actions do not leak into the mutation set.
func (r *Resolver) Resolve(event *models.DocumentEvent, orderedWorkflows []*models.Workflow) (*models.MutationSet, []*ConfigError) {
	mutation := models.NewMutationSet()

	var configErrors []*ConfigError

	for _, wf := range orderedWorkflows {
		staged := models.NewMutationSet()

		if err := r.applyActions(event, wf, staged); err != nil {
			configErrors = append(configErrors, err)
			r.logger.Warn("Skipping workflow with invalid action configuration",
				"workflow_id", wf.ID,
				"workflow_name", wf.Name,
				"error", err)

			continue
		}

		merge(mutation, staged, wf.ID)
	}

	return mutation, configErrors
}

func (r *Resolver) applyActions(event *models.DocumentEvent, wf *models.Workflow, into *models.MutationSet) *ConfigError {
	for _, action := range wf.Actions {
		switch action.Type {
		case models.ActionTypeAssignment:
			if err := r.applyAssignment(event, wf.ID, action, into); err != nil {
				return err
			}
		default:
			return &ConfigError{
				WorkflowID: wf.ID,
				ActionID:   action.ID,
				Field:      "type",
				Err:        fmt.Errorf("unsupported action type %q", action.Type),
			}
		}
	}

	return nil
}

func (r *Resolver) applyAssignment(event *models.DocumentEvent, workflowID string, action *models.WorkflowAction, into *models.MutationSet) *ConfigError {
	if action.AssignTitle != "" {
		title, err := template.RenderTitle(action.AssignTitle, event)
		if err != nil {
			return &ConfigError{
				WorkflowID: workflowID,
				ActionID:   action.ID,
				Field:      "assign_title",
				Err:        err,
			}
		}

		into.SetScalar(models.FieldTitle, title, workflowID)
	}

	if action.AssignDocumentType != "" {
		into.SetScalar(models.FieldDocumentType, action.AssignDocumentType, workflowID)
	}

	if action.AssignCorrespondent != "" {
		into.SetScalar(models.FieldCorrespondent, action.AssignCorrespondent, workflowID)
	}

	if action.AssignStoragePath != "" {
		into.SetScalar(models.FieldStoragePath, action.AssignStoragePath, workflowID)
	}

	if action.AssignOwner != "" {
		into.SetScalar(models.FieldOwner, action.AssignOwner, workflowID)
	}

	into.Add(models.FieldTags, action.AssignTags, workflowID)
	into.Add(models.FieldViewUsers, action.AssignViewUsers, workflowID)
	into.Add(models.FieldViewGroups, action.AssignViewGroups, workflowID)
	into.Add(models.FieldChangeUsers, action.AssignChangeUsers, workflowID)
	into.Add(models.FieldChangeGroups, action.AssignChangeGroups, workflowID)
	into.Add(models.FieldCustomFields, action.AssignCustomFields, workflowID)

	return nil
}

// merge folds one workflow's staged assignments into the accumulated set.
func merge(into, staged *models.MutationSet, workflowID string) {
	if staged.Title != nil {
		into.SetScalar(models.FieldTitle, *staged.Title, workflowID)
	}

	if staged.DocumentType != nil {
		into.SetScalar(models.FieldDocumentType, *staged.DocumentType, workflowID)
	}

	if staged.Correspondent != nil {
		into.SetScalar(models.FieldCorrespondent, *staged.Correspondent, workflowID)
	}

	if staged.StoragePath != nil {
		into.SetScalar(models.FieldStoragePath, *staged.StoragePath, workflowID)
	}

	if staged.Owner != nil {
		into.SetScalar(models.FieldOwner, *staged.Owner, workflowID)
	}

	into.Add(models.FieldTags, staged.AddTags, workflowID)
	into.Add(models.FieldViewUsers, staged.AddViewUsers, workflowID)
	into.Add(models.FieldViewGroups, staged.AddViewGroups, workflowID)
	into.Add(models.FieldChangeUsers, staged.AddChangeUsers, workflowID)
	into.Add(models.FieldChangeGroups, staged.AddChangeGroups, workflowID)
	into.Add(models.FieldCustomFields, staged.AddCustomFields, workflowID)
}
