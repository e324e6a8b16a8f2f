package documents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paperflow/paperflow/pkg/models"
)

// MemoryStore keeps documents and known identities in memory. It satisfies
// both Repository and IdentityResolver.
type MemoryStore struct {
	mu         sync.RWMutex
	documents  map[string]*models.DocumentSnapshot
	identities map[IdentityKind]map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:  make(map[string]*models.DocumentSnapshot),
		identities: make(map[IdentityKind]map[string]bool),
	}
}

// PutDocument stores a copy of the snapshot.
func (s *MemoryStore) PutDocument(doc *models.DocumentSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[doc.ID] = cloneSnapshot(doc)
}

// RegisterIdentity makes an identity known to the resolver.
func (s *MemoryStore) RegisterIdentity(kind IdentityKind, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identities[kind] == nil {
		s.identities[kind] = make(map[string]bool)
	}

	for _, id := range ids {
		s.identities[kind][id] = true
	}
}

// RemoveIdentity forgets an identity, for simulating deleted references.
func (s *MemoryStore) RemoveIdentity(kind IdentityKind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.identities[kind], id)
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (*models.DocumentSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	return cloneSnapshot(doc), nil
}

// ApplyMutation commits the whole mutation set under a single lock. Grants
// and other set fields are unioned with existing members, never replaced.
func (s *MemoryStore) ApplyMutation(_ context.Context, id string, mutation *models.MutationSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	updated := cloneSnapshot(doc)

	if mutation.Title != nil {
		updated.Title = *mutation.Title
	}

	if mutation.DocumentType != nil {
		updated.DocumentType = *mutation.DocumentType
	}

	if mutation.Correspondent != nil {
		updated.Correspondent = *mutation.Correspondent
	}

	if mutation.StoragePath != nil {
		updated.StoragePath = *mutation.StoragePath
	}

	if mutation.Owner != nil {
		updated.Owner = *mutation.Owner
	}

	updated.Tags = union(updated.Tags, mutation.AddTags)
	updated.ViewUsers = union(updated.ViewUsers, mutation.AddViewUsers)
	updated.ViewGroups = union(updated.ViewGroups, mutation.AddViewGroups)
	updated.ChangeUsers = union(updated.ChangeUsers, mutation.AddChangeUsers)
	updated.ChangeGroups = union(updated.ChangeGroups, mutation.AddChangeGroups)
	updated.CustomFields = union(updated.CustomFields, mutation.AddCustomFields)
	updated.Modified = time.Now().UTC()

	s.documents[id] = updated

	return nil
}

func (s *MemoryStore) Exists(_ context.Context, kind IdentityKind, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identities[kind][id], nil
}

func union(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, id := range existing {
		seen[id] = true
	}

	result := existing
	for _, id := range added {
		if !seen[id] {
			result = append(result, id)
			seen[id] = true
		}
	}

	return result
}

func cloneSnapshot(doc *models.DocumentSnapshot) *models.DocumentSnapshot {
	copied := *doc
	copied.Tags = append([]string(nil), doc.Tags...)
	copied.ViewUsers = append([]string(nil), doc.ViewUsers...)
	copied.ViewGroups = append([]string(nil), doc.ViewGroups...)
	copied.ChangeUsers = append([]string(nil), doc.ChangeUsers...)
	copied.ChangeGroups = append([]string(nil), doc.ChangeGroups...)
	copied.CustomFields = append([]string(nil), doc.CustomFields...)

	return &copied
}
