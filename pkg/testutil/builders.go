// Package testutil provides test data builders.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/paperflow/paperflow/pkg/models"
)

// CreateTestWorkflow creates an enabled workflow with one catch-all
// consumption trigger. Overrides can be applied in order.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	workflow := &models.Workflow{
		ID:      uuid.New().String(),
		Name:    "Test Workflow",
		Order:   0,
		Enabled: true,
		Triggers: []*models.WorkflowTrigger{
			{ID: uuid.New().String(), Type: models.TriggerTypeConsumption},
		},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// WithID sets the workflow ID.
func WithID(id string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.ID = id
	}
}

// WithName sets the workflow name.
func WithName(name string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Name = name
	}
}

// WithOrder sets the evaluation order.
func WithOrder(order int) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Order = order
	}
}

// WithEnabled sets the enabled flag.
func WithEnabled(enabled bool) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Enabled = enabled
	}
}

// WithTriggers replaces the trigger list.
func WithTriggers(triggers ...*models.WorkflowTrigger) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Triggers = triggers
	}
}

// WithActions replaces the action list.
func WithActions(actions ...*models.WorkflowAction) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Actions = actions
	}
}

// CreateTestTrigger creates a consumption trigger.
func CreateTestTrigger(overrides ...func(*models.WorkflowTrigger)) *models.WorkflowTrigger {
	trigger := &models.WorkflowTrigger{
		ID:   uuid.New().String(),
		Type: models.TriggerTypeConsumption,
	}

	for _, override := range overrides {
		override(trigger)
	}

	return trigger
}

// WithTriggerType sets the trigger type.
func WithTriggerType(triggerType models.TriggerType) func(*models.WorkflowTrigger) {
	return func(t *models.WorkflowTrigger) {
		t.Type = triggerType
	}
}

// WithSources restricts the trigger to the given source channels.
func WithSources(sources ...models.DocumentSource) func(*models.WorkflowTrigger) {
	return func(t *models.WorkflowTrigger) {
		t.Sources = sources
	}
}

// WithFilterFilename sets the filename glob.
func WithFilterFilename(pattern string) func(*models.WorkflowTrigger) {
	return func(t *models.WorkflowTrigger) {
		t.FilterFilename = pattern
	}
}

// WithFilterPath sets the path glob.
func WithFilterPath(pattern string) func(*models.WorkflowTrigger) {
	return func(t *models.WorkflowTrigger) {
		t.FilterPath = pattern
	}
}

// WithFilterMailRule sets the mail rule reference.
func WithFilterMailRule(id string) func(*models.WorkflowTrigger) {
	return func(t *models.WorkflowTrigger) {
		t.FilterMailRule = id
	}
}

// CreateTestAssignment creates an assignment action.
func CreateTestAssignment(overrides ...func(*models.WorkflowAction)) *models.WorkflowAction {
	action := &models.WorkflowAction{
		ID:   uuid.New().String(),
		Type: models.ActionTypeAssignment,
	}

	for _, override := range overrides {
		override(action)
	}

	return action
}

// CreateTestEvent creates a consumption event for a consume-folder document.
func CreateTestEvent(overrides ...func(*models.DocumentEvent)) *models.DocumentEvent {
	event := &models.DocumentEvent{
		DocumentID: uuid.New().String(),
		Kind:       models.TriggerTypeConsumption,
		Source:     models.SourceConsumeFolder,
		Filename:   "scan.pdf",
		Path:       "/consume",
		Created:    time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Added:      time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC),
	}

	for _, override := range overrides {
		override(event)
	}

	return event
}

// WithEventDocument sets the document identity.
func WithEventDocument(id string) func(*models.DocumentEvent) {
	return func(e *models.DocumentEvent) {
		e.DocumentID = id
	}
}

// WithEventKind sets the event kind.
func WithEventKind(kind models.TriggerType) func(*models.DocumentEvent) {
	return func(e *models.DocumentEvent) {
		e.Kind = kind
	}
}

// WithEventSource sets the originating channel.
func WithEventSource(source models.DocumentSource) func(*models.DocumentEvent) {
	return func(e *models.DocumentEvent) {
		e.Source = source
	}
}

// WithEventFilename sets the original filename.
func WithEventFilename(filename string) func(*models.DocumentEvent) {
	return func(e *models.DocumentEvent) {
		e.Filename = filename
	}
}

// WithEventPath sets the storage path.
func WithEventPath(path string) func(*models.DocumentEvent) {
	return func(e *models.DocumentEvent) {
		e.Path = path
	}
}

// WithEventMailRule sets the originating mail rule.
func WithEventMailRule(id string) func(*models.DocumentEvent) {
	return func(e *models.DocumentEvent) {
		e.MailRuleID = id
	}
}
