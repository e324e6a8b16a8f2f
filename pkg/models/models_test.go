package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_Validation_Valid(t *testing.T) {
	workflow := &Workflow{
		ID:      "wf-1",
		Name:    "Inbox tagging",
		Order:   1,
		Enabled: true,
		Triggers: []*WorkflowTrigger{
			{ID: "t-1", Type: TriggerTypeConsumption, FilterFilename: "invoice*.pdf"},
		},
		Actions: []*WorkflowAction{
			{ID: "a-1", Type: ActionTypeAssignment, AssignTags: []string{"tag-5"}},
		},
	}

	validate := validator.New()
	assert.NoError(t, validate.Struct(workflow))
}

func TestWorkflow_Validation_NameTooShort(t *testing.T) {
	workflow := &Workflow{ID: "wf-1", Name: "ab"}

	validate := validator.New()
	assert.Error(t, validate.Struct(workflow))
}

func TestWorkflowTrigger_Validation_UnknownType(t *testing.T) {
	trigger := &WorkflowTrigger{ID: "t-1", Type: "scheduled"}

	validate := validator.New()
	assert.Error(t, validate.Struct(trigger))
}

func TestWorkflowTrigger_Validation_UnknownSource(t *testing.T) {
	trigger := &WorkflowTrigger{
		ID:      "t-1",
		Type:    TriggerTypeConsumption,
		Sources: []DocumentSource{"carrier_pigeon"},
	}

	validate := validator.New()
	assert.Error(t, validate.Struct(trigger))
}

func TestWorkflowTrigger_AllowsSource(t *testing.T) {
	unrestricted := &WorkflowTrigger{ID: "t-1", Type: TriggerTypeConsumption}
	assert.True(t, unrestricted.AllowsSource(SourceAPIUpload))
	assert.True(t, unrestricted.AllowsSource(SourceMailFetch))

	restricted := &WorkflowTrigger{
		ID:      "t-2",
		Type:    TriggerTypeConsumption,
		Sources: []DocumentSource{SourceMailFetch},
	}
	assert.True(t, restricted.AllowsSource(SourceMailFetch))
	assert.False(t, restricted.AllowsSource(SourceAPIUpload))
}

func TestWorkflow_HasTriggers(t *testing.T) {
	workflow := &Workflow{ID: "wf-1", Name: "No triggers"}
	assert.False(t, workflow.HasTriggers())

	workflow.Triggers = []*WorkflowTrigger{{ID: "t-1", Type: TriggerTypeConsumption}}
	assert.True(t, workflow.HasTriggers())
}

func TestMutationSet_ScalarLastWriterWins(t *testing.T) {
	m := NewMutationSet()
	m.SetScalar(FieldCorrespondent, "corr-a", "wf-1")
	m.SetScalar(FieldCorrespondent, "corr-b", "wf-2")

	require.NotNil(t, m.Correspondent)
	assert.Equal(t, "corr-b", *m.Correspondent)
	assert.Equal(t, "wf-2", m.Origin(FieldCorrespondent))
}

func TestMutationSet_AddDeduplicates(t *testing.T) {
	m := NewMutationSet()
	m.Add(FieldTags, []string{"t1", "t2"}, "wf-1")
	m.Add(FieldTags, []string{"t2", "t3"}, "wf-2")

	assert.Equal(t, []string{"t1", "t2", "t3"}, m.AddTags)
	assert.Equal(t, "wf-1", m.OriginOf(FieldTags, "t2"))
	assert.Equal(t, "wf-2", m.OriginOf(FieldTags, "t3"))
}

func TestMutationSet_IsEmpty(t *testing.T) {
	m := NewMutationSet()
	assert.True(t, m.IsEmpty())

	m.Add(FieldViewUsers, []string{"u1"}, "wf-1")
	assert.False(t, m.IsEmpty())
}

func TestValidateWorkflowJSON_Valid(t *testing.T) {
	data := []byte(`{
		"name": "Invoice routing",
		"order": 2,
		"enabled": true,
		"triggers": [{"id": "t-1", "type": "consumption", "filter_filename": "invoice*.pdf"}],
		"actions": [{"id": "a-1", "type": "assignment", "assign_tags": ["tag-5"]}]
	}`)

	assert.NoError(t, ValidateWorkflowJSON(data))
}

func TestValidateWorkflowJSON_UnknownTriggerType(t *testing.T) {
	data := []byte(`{
		"name": "Broken",
		"triggers": [{"id": "t-1", "type": "cron"}]
	}`)

	assert.Error(t, ValidateWorkflowJSON(data))
}

func TestValidateWorkflowJSON_UnknownActionType(t *testing.T) {
	data := []byte(`{
		"name": "Broken",
		"actions": [{"id": "a-1", "type": "webhook"}]
	}`)

	assert.Error(t, ValidateWorkflowJSON(data))
}
