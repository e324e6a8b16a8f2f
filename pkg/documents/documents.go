// Package documents defines the document repository and identity resolver
// collaborators the engine mutates documents through, plus an in-memory
// implementation used by tests and dev mode.
package documents

import (
	"context"
	"errors"

	"github.com/paperflow/paperflow/pkg/models"
)

var ErrDocumentNotFound = errors.New("document not found")

// IdentityKind names the reference kinds an assignment action may carry.
type IdentityKind string

const (
	KindTag           IdentityKind = "tag"
	KindCorrespondent IdentityKind = "correspondent"
	KindDocumentType  IdentityKind = "document_type"
	KindStoragePath   IdentityKind = "storage_path"
	KindUser          IdentityKind = "user"
	KindGroup         IdentityKind = "group"
	KindCustomField   IdentityKind = "custom_field"
)

// Repository is the document store collaborator. ApplyMutation must be
// transactional: either every field of the mutation set lands or none do.
type Repository interface {
	GetDocument(ctx context.Context, id string) (*models.DocumentSnapshot, error)
	ApplyMutation(ctx context.Context, id string, mutation *models.MutationSet) error
}

// IdentityResolver answers existence checks for the identities referenced by
// assignment actions.
type IdentityResolver interface {
	Exists(ctx context.Context, kind IdentityKind, id string) (bool, error)
}
