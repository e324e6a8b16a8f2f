package workflow

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperflow/paperflow/pkg/models"
	"github.com/paperflow/paperflow/pkg/testutil"
)

func testSelector() *Selector {
	return NewSelector(slog.Default())
}

func TestSelector_OrdersByOrderThenID(t *testing.T) {
	workflows := []*models.Workflow{
		testutil.CreateTestWorkflow(testutil.WithID("wf-c"), testutil.WithOrder(2)),
		testutil.CreateTestWorkflow(testutil.WithID("wf-b"), testutil.WithOrder(1)),
		testutil.CreateTestWorkflow(testutil.WithID("wf-a"), testutil.WithOrder(2)),
	}

	matched, configErrors := testSelector().Select(testutil.CreateTestEvent(), workflows)
	require.Empty(t, configErrors)
	require.Len(t, matched, 3)
	assert.Equal(t, "wf-b", matched[0].ID)
	assert.Equal(t, "wf-a", matched[1].ID)
	assert.Equal(t, "wf-c", matched[2].ID)
}

func TestSelector_Deterministic(t *testing.T) {
	workflows := []*models.Workflow{
		testutil.CreateTestWorkflow(testutil.WithID("wf-2"), testutil.WithOrder(1)),
		testutil.CreateTestWorkflow(testutil.WithID("wf-1"), testutil.WithOrder(1)),
		testutil.CreateTestWorkflow(testutil.WithID("wf-3"), testutil.WithOrder(0)),
	}
	event := testutil.CreateTestEvent()
	selector := testSelector()

	first, _ := selector.Select(event, workflows)

	for range 10 {
		again, _ := selector.Select(event, workflows)
		require.Equal(t, first, again)
	}
}

func TestSelector_AnyTriggerMatches(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithTriggers(
		testutil.CreateTestTrigger(testutil.WithFilterFilename("*.png")),
		testutil.CreateTestTrigger(testutil.WithFilterFilename("*.pdf")),
	))

	matched, _ := testSelector().Select(
		testutil.CreateTestEvent(testutil.WithEventFilename("scan.pdf")),
		[]*models.Workflow{workflow},
	)
	assert.Len(t, matched, 1)
}

func TestSelector_ExcludesWorkflowWithoutTriggers(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithTriggers())

	matched, configErrors := testSelector().Select(testutil.CreateTestEvent(), []*models.Workflow{workflow})
	assert.Empty(t, matched)
	assert.Empty(t, configErrors)
}

func TestSelector_ExcludesDisabledWorkflow(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithEnabled(false))

	matched, _ := testSelector().Select(testutil.CreateTestEvent(), []*models.Workflow{workflow})
	assert.Empty(t, matched)
}

func TestSelector_BadWorkflowDoesNotBlockOthers(t *testing.T) {
	broken := testutil.CreateTestWorkflow(
		testutil.WithID("wf-broken"),
		testutil.WithOrder(1),
		testutil.WithTriggers(testutil.CreateTestTrigger(testutil.WithFilterFilename("scan-[.pdf"))),
	)
	healthy := testutil.CreateTestWorkflow(testutil.WithID("wf-healthy"), testutil.WithOrder(2))

	matched, configErrors := testSelector().Select(testutil.CreateTestEvent(), []*models.Workflow{broken, healthy})

	require.Len(t, matched, 1)
	assert.Equal(t, "wf-healthy", matched[0].ID)

	require.Len(t, configErrors, 1)
	assert.Equal(t, "wf-broken", configErrors[0].WorkflowID)
	assert.ErrorIs(t, configErrors[0], ErrBadPattern)
}
