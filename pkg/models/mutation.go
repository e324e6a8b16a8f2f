package models

// Scalar mutation field names, also used as provenance keys.
const (
	FieldTitle         = "title"
	FieldDocumentType  = "document_type"
	FieldCorrespondent = "correspondent"
	FieldStoragePath   = "storage_path"
	FieldOwner         = "owner"
	FieldTags          = "tags"
	FieldViewUsers     = "view_users"
	FieldViewGroups    = "view_groups"
	FieldChangeUsers   = "change_users"
	FieldChangeGroups  = "change_groups"
	FieldCustomFields  = "custom_fields"
)

// MutationSet is the resolved, conflict-free set of field assignments one
// evaluation produces. Scalar fields hold the last writer's value; set
// fields accumulate every writer's members. Insertion order is preserved so
// resolution stays deterministic. The set must not be mutated after it has
// been handed to the applier.
type MutationSet struct {
	Title         *string `json:"title,omitempty"`
	DocumentType  *string `json:"document_type,omitempty"`
	Correspondent *string `json:"correspondent,omitempty"`
	StoragePath   *string `json:"storage_path,omitempty"`
	Owner         *string `json:"owner,omitempty"`

	AddTags         []string `json:"add_tags,omitempty"`
	AddViewUsers    []string `json:"add_view_users,omitempty"`
	AddViewGroups   []string `json:"add_view_groups,omitempty"`
	AddChangeUsers  []string `json:"add_change_users,omitempty"`
	AddChangeGroups []string `json:"add_change_groups,omitempty"`
	AddCustomFields []string `json:"add_custom_fields,omitempty"`

	// provenance maps a scalar field name, or "<field>/<id>" for a set
	// member, to the ID of the workflow that assigned it.
	provenance map[string]string
}

// NewMutationSet returns an empty mutation set.
func NewMutationSet() *MutationSet {
	return &MutationSet{provenance: make(map[string]string)}
}

// IsEmpty reports whether the set carries no assignments at all.
func (m *MutationSet) IsEmpty() bool {
	return m.Title == nil &&
		m.DocumentType == nil &&
		m.Correspondent == nil &&
		m.StoragePath == nil &&
		m.Owner == nil &&
		len(m.AddTags) == 0 &&
		len(m.AddViewUsers) == 0 &&
		len(m.AddViewGroups) == 0 &&
		len(m.AddChangeUsers) == 0 &&
		len(m.AddChangeGroups) == 0 &&
		len(m.AddCustomFields) == 0
}

// SetScalar records a last-writer-wins assignment for a scalar field.
func (m *MutationSet) SetScalar(field, value, workflowID string) {
	v := value

	switch field {
	case FieldTitle:
		m.Title = &v
	case FieldDocumentType:
		m.DocumentType = &v
	case FieldCorrespondent:
		m.Correspondent = &v
	case FieldStoragePath:
		m.StoragePath = &v
	case FieldOwner:
		m.Owner = &v
	default:
		return
	}

	m.provenance[field] = workflowID
}

// Add appends members to a set field, skipping duplicates. The first
// workflow to add a member owns its provenance.
func (m *MutationSet) Add(field string, ids []string, workflowID string) {
	var target *[]string

	switch field {
	case FieldTags:
		target = &m.AddTags
	case FieldViewUsers:
		target = &m.AddViewUsers
	case FieldViewGroups:
		target = &m.AddViewGroups
	case FieldChangeUsers:
		target = &m.AddChangeUsers
	case FieldChangeGroups:
		target = &m.AddChangeGroups
	case FieldCustomFields:
		target = &m.AddCustomFields
	default:
		return
	}

	for _, id := range ids {
		key := field + "/" + id
		if _, seen := m.provenance[key]; seen {
			continue
		}

		*target = append(*target, id)
		m.provenance[key] = workflowID
	}
}

// Origin returns the ID of the workflow that assigned a scalar field. For
// set members use OriginOf.
func (m *MutationSet) Origin(field string) string {
	return m.provenance[field]
}

// OriginOf returns the ID of the workflow that first added a set member.
func (m *MutationSet) OriginOf(field, id string) string {
	return m.provenance[field+"/"+id]
}
