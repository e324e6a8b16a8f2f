package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paperflow/paperflow/pkg/documents"
	"github.com/paperflow/paperflow/pkg/models"
)

// Applier commits a resolved mutation set to a document through the document
// repository collaborator.
type Applier struct {
	repository documents.Repository
	identities documents.IdentityResolver
	logger     *slog.Logger
}

func NewApplier(repository documents.Repository, identities documents.IdentityResolver, logger *slog.Logger) *Applier {
	return &Applier{
		repository: repository,
		identities: identities,
		logger:     logger.With("module", "mutation_applier"),
	}
}

// Apply validates every identity the mutation references and then commits
// the whole set in one repository call. A missing identity aborts the entire
// mutation before anything is written, so a partially-applied workflow is
// never observable. The repository's ApplyMutation contract guarantees the
// commit itself is transactional and that grant sets are unioned with the
// document's existing grants.
func (a *Applier) Apply(ctx context.Context, documentID string, mutation *models.MutationSet) error {
	if mutation.IsEmpty() {
		return nil
	}

	if err := a.resolveIdentities(ctx, mutation); err != nil {
		return err
	}

	if err := a.repository.ApplyMutation(ctx, documentID, mutation); err != nil {
		return fmt.Errorf("failed to apply mutation to document %s: %w", documentID, err)
	}

	a.logger.Debug("Applied mutation", "document_id", documentID)

	return nil
}

func (a *Applier) resolveIdentities(ctx context.Context, m *models.MutationSet) error {
	scalars := []struct {
		field string
		kind  documents.IdentityKind
		value *string
	}{
		{models.FieldDocumentType, documents.KindDocumentType, m.DocumentType},
		{models.FieldCorrespondent, documents.KindCorrespondent, m.Correspondent},
		{models.FieldStoragePath, documents.KindStoragePath, m.StoragePath},
		{models.FieldOwner, documents.KindUser, m.Owner},
	}

	for _, s := range scalars {
		if s.value == nil {
			continue
		}

		if err := a.checkIdentity(ctx, s.kind, *s.value, s.field, m.Origin(s.field)); err != nil {
			return err
		}
	}

	sets := []struct {
		field string
		kind  documents.IdentityKind
		ids   []string
	}{
		{models.FieldTags, documents.KindTag, m.AddTags},
		{models.FieldViewUsers, documents.KindUser, m.AddViewUsers},
		{models.FieldViewGroups, documents.KindGroup, m.AddViewGroups},
		{models.FieldChangeUsers, documents.KindUser, m.AddChangeUsers},
		{models.FieldChangeGroups, documents.KindGroup, m.AddChangeGroups},
		{models.FieldCustomFields, documents.KindCustomField, m.AddCustomFields},
	}

	for _, s := range sets {
		for _, id := range s.ids {
			if err := a.checkIdentity(ctx, s.kind, id, s.field, m.OriginOf(s.field, id)); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *Applier) checkIdentity(ctx context.Context, kind documents.IdentityKind, id, field, workflowID string) error {
	exists, err := a.identities.Exists(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("failed to resolve %s %s: %w", kind, id, err)
	}

	if !exists {
		return &ResolutionError{
			WorkflowID: workflowID,
			Field:      field,
			Kind:       kind,
			ID:         id,
		}
	}

	return nil
}
