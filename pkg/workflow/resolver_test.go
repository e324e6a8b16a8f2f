package workflow

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperflow/paperflow/pkg/models"
	"github.com/paperflow/paperflow/pkg/testutil"
)

func testResolver() *Resolver {
	return NewResolver(slog.Default())
}

func TestResolver_ScalarLastWriterWins(t *testing.T) {
	first := testutil.CreateTestWorkflow(
		testutil.WithID("wf-1"),
		testutil.WithOrder(1),
		testutil.WithActions(testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
			a.AssignCorrespondent = "corr-a"
			a.AssignOwner = "alice"
		})),
	)
	second := testutil.CreateTestWorkflow(
		testutil.WithID("wf-2"),
		testutil.WithOrder(2),
		testutil.WithActions(testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
			a.AssignCorrespondent = "corr-b"
		})),
	)

	mutation, configErrors := testResolver().Resolve(testutil.CreateTestEvent(), []*models.Workflow{first, second})
	require.Empty(t, configErrors)

	require.NotNil(t, mutation.Correspondent)
	assert.Equal(t, "corr-b", *mutation.Correspondent)
	assert.Equal(t, "wf-2", mutation.Origin(models.FieldCorrespondent))

	// An unset field in a later workflow does not clear the earlier value.
	require.NotNil(t, mutation.Owner)
	assert.Equal(t, "alice", *mutation.Owner)
	assert.Equal(t, "wf-1", mutation.Origin(models.FieldOwner))
}

func TestResolver_MultiValueUnion(t *testing.T) {
	first := testutil.CreateTestWorkflow(
		testutil.WithID("wf-1"),
		testutil.WithActions(testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
			a.AssignTags = []string{"t1"}
			a.AssignViewUsers = []string{"alice"}
		})),
	)
	second := testutil.CreateTestWorkflow(
		testutil.WithID("wf-2"),
		testutil.WithActions(testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
			a.AssignTags = []string{"t2", "t1"}
			a.AssignViewUsers = []string{"bob"}
			a.AssignCustomFields = []string{"cf-1"}
		})),
	)

	mutation, configErrors := testResolver().Resolve(testutil.CreateTestEvent(), []*models.Workflow{first, second})
	require.Empty(t, configErrors)

	assert.Equal(t, []string{"t1", "t2"}, mutation.AddTags)
	assert.Equal(t, []string{"alice", "bob"}, mutation.AddViewUsers)
	assert.Equal(t, []string{"cf-1"}, mutation.AddCustomFields)
}

func TestResolver_TitleTemplateResolvedAgainstEvent(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(
		testutil.WithID("wf-1"),
		testutil.WithActions(testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
			a.AssignTitle = "{correspondent} {created_year}"
		})),
	)
	event := testutil.CreateTestEvent(func(e *models.DocumentEvent) {
		e.Correspondent = "ACME"
	})

	mutation, configErrors := testResolver().Resolve(event, []*models.Workflow{workflow})
	require.Empty(t, configErrors)
	require.NotNil(t, mutation.Title)
	assert.Equal(t, "ACME 2024", *mutation.Title)
}

func TestResolver_BadTitleTemplateSkipsWholeWorkflow(t *testing.T) {
	broken := testutil.CreateTestWorkflow(
		testutil.WithID("wf-broken"),
		testutil.WithActions(
			testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
				a.AssignTags = []string{"t-leak"}
			}),
			testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
				a.AssignTitle = "{unknown_thing}"
			}),
		),
	)
	healthy := testutil.CreateTestWorkflow(
		testutil.WithID("wf-healthy"),
		testutil.WithActions(testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
			a.AssignTags = []string{"t1"}
		})),
	)

	mutation, configErrors := testResolver().Resolve(testutil.CreateTestEvent(), []*models.Workflow{broken, healthy})

	require.Len(t, configErrors, 1)
	assert.Equal(t, "wf-broken", configErrors[0].WorkflowID)
	assert.Equal(t, "assign_title", configErrors[0].Field)

	// Nothing from the broken workflow leaked into the mutation.
	assert.Equal(t, []string{"t1"}, mutation.AddTags)
}

func TestResolver_UnsupportedActionType(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(
		testutil.WithID("wf-1"),
		testutil.WithActions(&models.WorkflowAction{ID: "a-1", Type: "webhook"}),
	)

	mutation, configErrors := testResolver().Resolve(testutil.CreateTestEvent(), []*models.Workflow{workflow})

	require.Len(t, configErrors, 1)
	assert.Equal(t, "type", configErrors[0].Field)
	assert.True(t, mutation.IsEmpty())
}

func TestResolver_NoActionsYieldsEmptyMutation(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithID("wf-1"))

	mutation, configErrors := testResolver().Resolve(testutil.CreateTestEvent(), []*models.Workflow{workflow})
	require.Empty(t, configErrors)
	assert.True(t, mutation.IsEmpty())
}
