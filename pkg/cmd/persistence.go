package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/paperflow/paperflow/pkg/persistence"
	"github.com/paperflow/paperflow/pkg/persistence/file"
	"github.com/paperflow/paperflow/pkg/persistence/postgresql"
)

// NewPersistence selects the workflow configuration store by URL scheme.
// Anything that is not a recognized database URL is treated as a filesystem
// root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
