// Package models defines the core domain models for document workflow automation.
package models

import "time"

// Workflow bundles an ordered set of triggers with the actions to apply when
// any of them matches a document event. Order defines evaluation precedence
// across workflows; ties are broken by ID ascending.
type Workflow struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"    validate:"required,min=3"`
	Order     int                `json:"order"   validate:"gte=0"`
	Enabled   bool               `json:"enabled"`
	Triggers  []*WorkflowTrigger `json:"triggers"            validate:"dive"`
	Actions   []*WorkflowAction  `json:"actions"             validate:"dive"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// HasTriggers reports whether the workflow can ever match an event. A
// workflow with an empty trigger list never matches.
func (w *Workflow) HasTriggers() bool {
	return len(w.Triggers) > 0
}
