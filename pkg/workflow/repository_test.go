package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperflow/paperflow/pkg/models"
	"github.com/paperflow/paperflow/pkg/persistence/file"
	"github.com/paperflow/paperflow/pkg/testutil"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()

	return NewRepository(file.NewPersistence(t.TempDir()))
}

func TestRepository_CreateAndFetch(t *testing.T) {
	repo := testRepository(t)

	created, err := repo.Create(t.Context(), testutil.CreateTestWorkflow(
		testutil.WithName("Invoice intake"),
		testutil.WithActions(testutil.CreateTestAssignment(func(a *models.WorkflowAction) {
			a.AssignTags = []string{"t1"}
		})),
	))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := repo.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invoice intake", fetched.Name)
	require.Len(t, fetched.Actions, 1)
	assert.Equal(t, []string{"t1"}, fetched.Actions[0].AssignTags)
}

func TestRepository_CreateGeneratesComponentIDs(t *testing.T) {
	repo := testRepository(t)

	created, err := repo.Create(t.Context(), &models.Workflow{
		Name:     "Generated IDs",
		Enabled:  true,
		Triggers: []*models.WorkflowTrigger{{Type: models.TriggerTypeConsumption}},
		Actions:  []*models.WorkflowAction{{Type: models.ActionTypeAssignment}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Triggers[0].ID)
	assert.NotEmpty(t, created.Actions[0].ID)
}

func TestRepository_RoundTripsWorkflowWithoutActions(t *testing.T) {
	repo := testRepository(t)

	created, err := repo.Create(t.Context(), &models.Workflow{
		Name:     "Trigger only",
		Enabled:  true,
		Triggers: []*models.WorkflowTrigger{{Type: models.TriggerTypeConsumption}},
	})
	require.NoError(t, err)

	// Loading back must succeed even though no action was ever configured.
	enabled, err := repo.FetchEnabled(t.Context())
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, created.ID, enabled[0].ID)
	assert.Empty(t, enabled[0].Actions)
}

func TestRepository_RoundTripsWorkflowWithoutTriggers(t *testing.T) {
	repo := testRepository(t)

	created, err := repo.Create(t.Context(), &models.Workflow{
		Name:    "No triggers yet",
		Enabled: true,
	})
	require.NoError(t, err)

	fetched, err := repo.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Triggers)
	assert.False(t, fetched.HasTriggers())
}

func TestRepository_CreateRejectsInvalidWorkflow(t *testing.T) {
	repo := testRepository(t)

	_, err := repo.Create(t.Context(), testutil.CreateTestWorkflow(testutil.WithName("ab")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = repo.Create(t.Context(), testutil.CreateTestWorkflow(testutil.WithOrder(-1)))
	require.Error(t, err)
}

func TestRepository_Update(t *testing.T) {
	repo := testRepository(t)

	created, err := repo.Create(t.Context(), testutil.CreateTestWorkflow(testutil.WithName("Before update")))
	require.NoError(t, err)

	updated, err := repo.Update(t.Context(), created.ID, testutil.CreateTestWorkflow(
		testutil.WithName("After update"),
		testutil.WithOrder(7),
	))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	fetched, err := repo.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "After update", fetched.Name)
	assert.Equal(t, 7, fetched.Order)
}

func TestRepository_UpdateMissingWorkflow(t *testing.T) {
	repo := testRepository(t)

	_, err := repo.Update(t.Context(), "no-such-id", testutil.CreateTestWorkflow())
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := testRepository(t)

	created, err := repo.Create(t.Context(), testutil.CreateTestWorkflow())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(t.Context(), created.ID))

	_, err = repo.FetchByID(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)

	assert.ErrorIs(t, repo.Delete(t.Context(), created.ID), ErrWorkflowNotFound)
}

func TestRepository_FetchEnabledFiltersDisabled(t *testing.T) {
	repo := testRepository(t)

	_, err := repo.Create(t.Context(), testutil.CreateTestWorkflow(
		testutil.WithID("wf-on"),
		testutil.WithName("Enabled workflow"),
	))
	require.NoError(t, err)

	_, err = repo.Create(t.Context(), testutil.CreateTestWorkflow(
		testutil.WithID("wf-off"),
		testutil.WithName("Disabled workflow"),
		testutil.WithEnabled(false),
	))
	require.NoError(t, err)

	all, err := repo.FetchAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	enabled, err := repo.FetchEnabled(t.Context())
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "wf-on", enabled[0].ID)
}

func TestRepository_HealthCheck(t *testing.T) {
	repo := testRepository(t)

	message, healthy := repo.HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.NotEmpty(t, message)

	_, healthy = NewRepository(nil).HealthCheck(t.Context())
	assert.False(t, healthy)
}
