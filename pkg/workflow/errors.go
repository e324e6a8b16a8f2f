package workflow

import (
	"errors"
	"fmt"

	"github.com/paperflow/paperflow/pkg/documents"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

// ConfigError marks a workflow whose configuration cannot be evaluated, e.g.
// a malformed glob pattern or an unsupported action type. It fails only the
// owning workflow; other workflows in the same evaluation still proceed.
type ConfigError struct {
	WorkflowID string
	TriggerID  string
	ActionID   string
	Field      string
	Err        error
}

func (e *ConfigError) Error() string {
	switch {
	case e.TriggerID != "":
		return fmt.Sprintf("workflow %s trigger %s: invalid %s: %v", e.WorkflowID, e.TriggerID, e.Field, e.Err)
	case e.ActionID != "":
		return fmt.Sprintf("workflow %s action %s: invalid %s: %v", e.WorkflowID, e.ActionID, e.Field, e.Err)
	default:
		return fmt.Sprintf("workflow %s: invalid %s: %v", e.WorkflowID, e.Field, e.Err)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ResolutionError reports an identity referenced by an assignment that no
// longer exists at mutation time. It aborts the whole mutation set for the
// event and is never retried.
type ResolutionError struct {
	WorkflowID string
	Field      string
	Kind       documents.IdentityKind
	ID         string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("workflow %s: %s %s referenced by %s does not exist", e.WorkflowID, e.Kind, e.ID, e.Field)
}
