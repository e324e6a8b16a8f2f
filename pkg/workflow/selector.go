package workflow

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/paperflow/paperflow/pkg/models"
)

// Selector finds the workflows whose triggers match a document event.
type Selector struct {
	logger *slog.Logger
}

func NewSelector(logger *slog.Logger) *Selector {
	return &Selector{logger: logger.With("module", "trigger_selector")}
}

// Select returns the matching workflows sorted ascending by order, ties
// broken by ID ascending, so repeated calls with identical inputs always
// yield the same sequence. A workflow matches when any of its triggers
// matches (OR). Disabled workflows and workflows without triggers are
// excluded. A workflow whose trigger configuration cannot be evaluated is
// skipped and reported in the second return value; it never blocks other
// workflows.
func (s *Selector) Select(event *models.DocumentEvent, workflows []*models.Workflow) ([]*models.Workflow, []*ConfigError) {
	matched := make([]*models.Workflow, 0)

	var configErrors []*ConfigError

	for _, wf := range workflows {
		if !wf.Enabled || !wf.HasTriggers() {
			continue
		}

		ok, err := s.anyTriggerMatches(wf, event)
		if err != nil {
			var configErr *ConfigError
			if errors.As(err, &configErr) {
				configErr.WorkflowID = wf.ID
				configErrors = append(configErrors, configErr)
				s.logger.Warn("Skipping workflow with invalid trigger configuration",
					"workflow_id", wf.ID,
					"workflow_name", wf.Name,
					"error", configErr)
			}

			continue
		}

		if ok {
			matched = append(matched, wf)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Order != matched[j].Order {
			return matched[i].Order < matched[j].Order
		}

		return matched[i].ID < matched[j].ID
	})

	s.logger.Debug("Completed trigger selection",
		"document_id", event.DocumentID,
		"event_kind", event.Kind,
		"matches", len(matched),
		"config_errors", len(configErrors))

	return matched, configErrors
}

func (s *Selector) anyTriggerMatches(wf *models.Workflow, event *models.DocumentEvent) (bool, error) {
	for _, trigger := range wf.Triggers {
		ok, err := Matches(trigger, event)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}

	return false, nil
}
