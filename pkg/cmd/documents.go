package cmd

import (
	"github.com/paperflow/paperflow/pkg/documents"
	"github.com/paperflow/paperflow/pkg/persistence"
	"github.com/paperflow/paperflow/pkg/persistence/postgresql"
)

// DocumentStore bundles the repository and identity resolver roles every
// store implementation satisfies together.
type DocumentStore interface {
	documents.Repository
	documents.IdentityResolver
}

// NewDocumentStore returns the document store matching the configuration
// store: PostgreSQL-backed persistence shares its connection pool, everything
// else falls back to the in-memory store for local development.
func NewDocumentStore(p persistence.Persistence) DocumentStore {
	if pg, ok := p.(*postgresql.Persistence); ok {
		return documents.NewPostgresStore(pg.DB())
	}

	return documents.NewMemoryStore()
}
