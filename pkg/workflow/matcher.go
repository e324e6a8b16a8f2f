package workflow

import (
	"github.com/paperflow/paperflow/pkg/models"
)

// Matches evaluates a single trigger against a document event. Pure, no side
// effects. All configured filters are conjunctive; an absent filter imposes
// no constraint. A malformed glob pattern surfaces as an error so the caller
// can report the broken workflow instead of silently matching nothing (or
// everything).
func Matches(trigger *models.WorkflowTrigger, event *models.DocumentEvent) (bool, error) {
	if trigger.Type != event.Kind {
		return false, nil
	}

	if !trigger.AllowsSource(event.Source) {
		return false, nil
	}

	if trigger.FilterFilename != "" {
		ok, err := matchGlob(trigger.FilterFilename, event.Filename)
		if err != nil {
			return false, &ConfigError{TriggerID: trigger.ID, Field: "filter_filename", Err: err}
		}

		if !ok {
			return false, nil
		}
	}

	if trigger.FilterPath != "" {
		ok, err := matchGlob(trigger.FilterPath, event.Path)
		if err != nil {
			return false, &ConfigError{TriggerID: trigger.ID, Field: "filter_path", Err: err}
		}

		if !ok {
			return false, nil
		}
	}

	if trigger.FilterMailRule != "" {
		// An event without a mail-rule identity can never satisfy a
		// mail-rule filter.
		if event.MailRuleID == "" || event.MailRuleID != trigger.FilterMailRule {
			return false, nil
		}
	}

	return true, nil
}
