package workflow

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperflow/paperflow/pkg/documents"
	"github.com/paperflow/paperflow/pkg/models"
)

func testApplierStore(t *testing.T) (*Applier, *documents.MemoryStore) {
	t.Helper()

	store := documents.NewMemoryStore()
	applier := NewApplier(store, store, slog.Default())

	return applier, store
}

func TestApplier_AppliesWholeMutationSet(t *testing.T) {
	applier, store := testApplierStore(t)

	store.PutDocument(&models.DocumentSnapshot{ID: "doc-1", ViewUsers: []string{"alice"}})
	store.RegisterIdentity(documents.KindTag, "t1")
	store.RegisterIdentity(documents.KindCorrespondent, "corr-1")
	store.RegisterIdentity(documents.KindUser, "bob")

	m := models.NewMutationSet()
	m.SetScalar(models.FieldCorrespondent, "corr-1", "wf-1")
	m.SetScalar(models.FieldTitle, "Statement March", "wf-1")
	m.Add(models.FieldTags, []string{"t1"}, "wf-1")
	m.Add(models.FieldViewUsers, []string{"bob"}, "wf-1")

	require.NoError(t, applier.Apply(t.Context(), "doc-1", m))

	doc, err := store.GetDocument(t.Context(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "corr-1", doc.Correspondent)
	assert.Equal(t, "Statement March", doc.Title)
	assert.Equal(t, []string{"t1"}, doc.Tags)
	assert.ElementsMatch(t, []string{"alice", "bob"}, doc.ViewUsers)
}

func TestApplier_MissingIdentityAbortsWholeSet(t *testing.T) {
	applier, store := testApplierStore(t)

	store.PutDocument(&models.DocumentSnapshot{ID: "doc-1"})
	store.RegisterIdentity(documents.KindTag, "t1")
	// storage path sp-1 is never registered

	m := models.NewMutationSet()
	m.Add(models.FieldTags, []string{"t1"}, "wf-1")
	m.SetScalar(models.FieldStoragePath, "sp-1", "wf-2")

	err := applier.Apply(t.Context(), "doc-1", m)
	require.Error(t, err)

	var resolutionErr *ResolutionError

	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, "wf-2", resolutionErr.WorkflowID)
	assert.Equal(t, models.FieldStoragePath, resolutionErr.Field)
	assert.Equal(t, documents.KindStoragePath, resolutionErr.Kind)
	assert.Equal(t, "sp-1", resolutionErr.ID)

	// No field landed, tags included.
	doc, err := store.GetDocument(t.Context(), "doc-1")
	require.NoError(t, err)
	assert.Empty(t, doc.Tags)
	assert.Empty(t, doc.StoragePath)
}

func TestApplier_EmptyMutationIsNoOp(t *testing.T) {
	applier, store := testApplierStore(t)
	store.PutDocument(&models.DocumentSnapshot{ID: "doc-1", Title: "Untouched"})

	require.NoError(t, applier.Apply(t.Context(), "doc-1", models.NewMutationSet()))

	doc, err := store.GetDocument(t.Context(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Untouched", doc.Title)
	assert.True(t, doc.Modified.IsZero())
}

func TestApplier_GroupGrantsChecked(t *testing.T) {
	applier, store := testApplierStore(t)

	store.PutDocument(&models.DocumentSnapshot{ID: "doc-1"})

	m := models.NewMutationSet()
	m.Add(models.FieldChangeGroups, []string{"accounting"}, "wf-1")

	err := applier.Apply(t.Context(), "doc-1", m)

	var resolutionErr *ResolutionError

	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, documents.KindGroup, resolutionErr.Kind)
}
