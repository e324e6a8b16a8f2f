package models

import "time"

// DocumentEvent is the ephemeral context a single evaluation runs against.
// It is delivered by the event source and never persisted by the engine.
type DocumentEvent struct {
	DocumentID string         `json:"document_id" validate:"required"`
	Kind       TriggerType    `json:"kind"        validate:"required,oneof=consumption document_added document_updated"`
	Source     DocumentSource `json:"source"      validate:"required,oneof=consume_folder api_upload mail_fetch"`

	Filename string `json:"filename"`
	Path     string `json:"path"`

	// MailRuleID is set only for events originating from a mail fetch.
	MailRuleID string `json:"mail_rule_id,omitempty"`

	// Current classification state, populated for document_updated events so
	// re-evaluation stays idempotent and for title placeholder resolution.
	Title         string   `json:"title,omitempty"`
	Correspondent string   `json:"correspondent,omitempty"`
	DocumentType  string   `json:"document_type,omitempty"`
	StoragePath   string   `json:"storage_path,omitempty"`
	Owner         string   `json:"owner,omitempty"`
	Tags          []string `json:"tags,omitempty"`

	Created time.Time `json:"created,omitzero"`
	Added   time.Time `json:"added,omitzero"`
}

// DocumentSnapshot is the document record as read from the document
// repository collaborator.
type DocumentSnapshot struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Filename      string    `json:"filename"`
	Path          string    `json:"path"`
	Correspondent string    `json:"correspondent,omitempty"`
	DocumentType  string    `json:"document_type,omitempty"`
	StoragePath   string    `json:"storage_path,omitempty"`
	Owner         string    `json:"owner,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	ViewUsers     []string  `json:"view_users,omitempty"`
	ViewGroups    []string  `json:"view_groups,omitempty"`
	ChangeUsers   []string  `json:"change_users,omitempty"`
	ChangeGroups  []string  `json:"change_groups,omitempty"`
	CustomFields  []string  `json:"custom_fields,omitempty"`
	Created       time.Time `json:"created"`
	Added         time.Time `json:"added"`
	Modified      time.Time `json:"modified"`
}
