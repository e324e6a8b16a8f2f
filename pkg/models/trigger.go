package models

// TriggerType is the closed enumeration of document events a trigger may
// react to.
type TriggerType string

const (
	TriggerTypeConsumption     TriggerType = "consumption"
	TriggerTypeDocumentAdded   TriggerType = "document_added"
	TriggerTypeDocumentUpdated TriggerType = "document_updated"
)

// DocumentSource is the channel a document event originated from.
type DocumentSource string

const (
	SourceConsumeFolder DocumentSource = "consume_folder"
	SourceAPIUpload     DocumentSource = "api_upload"
	SourceMailFetch     DocumentSource = "mail_fetch"
)

// WorkflowTrigger is a predicate over a document event. All configured
// filters are conjunctive; an absent filter imposes no constraint, so a
// trigger with no filters matches every event of its type.
type WorkflowTrigger struct {
	ID   string      `json:"id"   validate:"required"`
	Type TriggerType `json:"type" validate:"required,oneof=consumption document_added document_updated"`

	// Sources restricts matching to events originating from the listed
	// channels. Empty means any source.
	Sources []DocumentSource `json:"sources,omitempty" validate:"dive,oneof=consume_folder api_upload mail_fetch"`

	// FilterFilename is a case-insensitive glob (*, ?) matched against the
	// document's original filename.
	FilterFilename string `json:"filter_filename,omitempty"`

	// FilterPath is a glob with the same semantics matched against the
	// document's storage path.
	FilterPath string `json:"filter_path,omitempty"`

	// FilterMailRule requires the event to have originated from the
	// referenced mail rule.
	FilterMailRule string `json:"filter_mail_rule,omitempty"`
}

// AllowsSource reports whether the trigger's source set admits the given
// channel.
func (t *WorkflowTrigger) AllowsSource(source DocumentSource) bool {
	if len(t.Sources) == 0 {
		return true
	}

	for _, s := range t.Sources {
		if s == source {
			return true
		}
	}

	return false
}
