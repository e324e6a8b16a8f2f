package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paperflow/paperflow/pkg/models"
)

// PostgresStore is a document repository and identity resolver backed by the
// shared PostgreSQL connection pool. ApplyMutation runs in one transaction
// with the document row locked, so concurrent workers on the same database
// never interleave partial writes.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const documentColumns = `id, title, filename, path, correspondent, document_type,
	storage_path, owner, tags, view_users, view_groups, change_users,
	change_groups, custom_fields, created, added, modified`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) GetDocument(ctx context.Context, id string) (*models.DocumentSnapshot, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1", id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
		}

		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}

	return doc, nil
}

func (s *PostgresStore) ApplyMutation(ctx context.Context, id string, mutation *models.MutationSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for document %s: %w", id, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1 FOR UPDATE", id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
		}

		return fmt.Errorf("failed to load document %s: %w", id, err)
	}

	if mutation.Title != nil {
		doc.Title = *mutation.Title
	}

	if mutation.DocumentType != nil {
		doc.DocumentType = *mutation.DocumentType
	}

	if mutation.Correspondent != nil {
		doc.Correspondent = *mutation.Correspondent
	}

	if mutation.StoragePath != nil {
		doc.StoragePath = *mutation.StoragePath
	}

	if mutation.Owner != nil {
		doc.Owner = *mutation.Owner
	}

	doc.Tags = union(doc.Tags, mutation.AddTags)
	doc.ViewUsers = union(doc.ViewUsers, mutation.AddViewUsers)
	doc.ViewGroups = union(doc.ViewGroups, mutation.AddViewGroups)
	doc.ChangeUsers = union(doc.ChangeUsers, mutation.AddChangeUsers)
	doc.ChangeGroups = union(doc.ChangeGroups, mutation.AddChangeGroups)
	doc.CustomFields = union(doc.CustomFields, mutation.AddCustomFields)
	doc.Modified = time.Now().UTC()

	if err := updateDocument(ctx, tx, doc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mutation for document %s: %w", id, err)
	}

	return nil
}

// UpsertDocument writes the whole snapshot, used by intake tooling when a
// document enters the system.
func (s *PostgresStore) UpsertDocument(ctx context.Context, doc *models.DocumentSnapshot) error {
	sets, err := marshalSets(doc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			filename = EXCLUDED.filename,
			path = EXCLUDED.path,
			correspondent = EXCLUDED.correspondent,
			document_type = EXCLUDED.document_type,
			storage_path = EXCLUDED.storage_path,
			owner = EXCLUDED.owner,
			tags = EXCLUDED.tags,
			view_users = EXCLUDED.view_users,
			view_groups = EXCLUDED.view_groups,
			change_users = EXCLUDED.change_users,
			change_groups = EXCLUDED.change_groups,
			custom_fields = EXCLUDED.custom_fields,
			modified = EXCLUDED.modified`,
		doc.ID, doc.Title, doc.Filename, doc.Path, doc.Correspondent,
		doc.DocumentType, doc.StoragePath, doc.Owner,
		sets[0], sets[1], sets[2], sets[3], sets[4], sets[5],
		doc.Created, doc.Added, doc.Modified)
	if err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
	}

	return nil
}

// RegisterIdentity makes an identity known to the resolver.
func (s *PostgresStore) RegisterIdentity(ctx context.Context, kind IdentityKind, ids ...string) error {
	for _, id := range ids {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO identities (kind, id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			string(kind), id)
		if err != nil {
			return fmt.Errorf("failed to register %s %s: %w", kind, id, err)
		}
	}

	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, kind IdentityKind, id string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM identities WHERE kind = $1 AND id = $2)",
		string(kind), id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", kind, id, err)
	}

	return exists, nil
}

func updateDocument(ctx context.Context, tx *sql.Tx, doc *models.DocumentSnapshot) error {
	sets, err := marshalSets(doc)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE documents SET
			title = $2,
			correspondent = $3,
			document_type = $4,
			storage_path = $5,
			owner = $6,
			tags = $7,
			view_users = $8,
			view_groups = $9,
			change_users = $10,
			change_groups = $11,
			custom_fields = $12,
			modified = $13
		WHERE id = $1`,
		doc.ID, doc.Title, doc.Correspondent, doc.DocumentType,
		doc.StoragePath, doc.Owner,
		sets[0], sets[1], sets[2], sets[3], sets[4], sets[5],
		doc.Modified)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", doc.ID, err)
	}

	return nil
}

func marshalSets(doc *models.DocumentSnapshot) ([6][]byte, error) {
	var out [6][]byte

	fields := [][]string{
		doc.Tags, doc.ViewUsers, doc.ViewGroups,
		doc.ChangeUsers, doc.ChangeGroups, doc.CustomFields,
	}

	for i, field := range fields {
		if field == nil {
			field = []string{}
		}

		data, err := json.Marshal(field)
		if err != nil {
			return out, fmt.Errorf("failed to marshal document %s: %w", doc.ID, err)
		}

		out[i] = data
	}

	return out, nil
}

func scanDocument(row rowScanner) (*models.DocumentSnapshot, error) {
	var (
		doc  models.DocumentSnapshot
		sets [6][]byte
	)

	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Filename, &doc.Path, &doc.Correspondent,
		&doc.DocumentType, &doc.StoragePath, &doc.Owner,
		&sets[0], &sets[1], &sets[2], &sets[3], &sets[4], &sets[5],
		&doc.Created, &doc.Added, &doc.Modified)
	if err != nil {
		return nil, err
	}

	targets := []*[]string{
		&doc.Tags, &doc.ViewUsers, &doc.ViewGroups,
		&doc.ChangeUsers, &doc.ChangeGroups, &doc.CustomFields,
	}

	for i, target := range targets {
		if err := json.Unmarshal(sets[i], target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", doc.ID, err)
		}
	}

	return &doc, nil
}
