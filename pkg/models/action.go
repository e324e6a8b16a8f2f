package models

// ActionType enumerates workflow action kinds. Assignment is the only kind
// currently defined; the enumeration stays open for future kinds, so
// consumers must reject types they do not know.
type ActionType string

const ActionTypeAssignment ActionType = "assignment"

// WorkflowAction describes the classification metadata its workflow assigns
// to a matched document. Every assignment field is optional; an unset field
// leaves the document (and earlier workflows' assignments) untouched.
type WorkflowAction struct {
	ID   string     `json:"id"   validate:"required"`
	Type ActionType `json:"type" validate:"required"`

	// AssignTitle may embed placeholders resolved from the document event
	// context, e.g. "{correspondent} {created_year}".
	AssignTitle string `json:"assign_title,omitempty"`

	AssignTags          []string `json:"assign_tags,omitempty"`
	AssignDocumentType  string   `json:"assign_document_type,omitempty"`
	AssignCorrespondent string   `json:"assign_correspondent,omitempty"`
	AssignStoragePath   string   `json:"assign_storage_path,omitempty"`
	AssignOwner         string   `json:"assign_owner,omitempty"`

	AssignViewUsers    []string `json:"assign_view_users,omitempty"`
	AssignViewGroups   []string `json:"assign_view_groups,omitempty"`
	AssignChangeUsers  []string `json:"assign_change_users,omitempty"`
	AssignChangeGroups []string `json:"assign_change_groups,omitempty"`

	// AssignCustomFields attaches the referenced custom fields with empty
	// values. Value assignment is out of scope for assignment actions.
	AssignCustomFields []string `json:"assign_custom_fields,omitempty"`
}
