// Package events defines the event types exchanged with the document event
// source and the observability sink.
package events

import (
	"time"

	"github.com/paperflow/paperflow/pkg/models"
)

type EventType string

// Kafka topics.
const DocumentTopic = "paperflow.document.events"  // Incoming document events
const OutcomeTopic = "paperflow.workflow.outcomes" // Evaluation outcomes

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	DocumentEventReceivedEvent EventType = "document.event.received"

	WorkflowAppliedEvent EventType = "workflow.applied"
	WorkflowNoOpEvent    EventType = "workflow.noop"
	WorkflowFailedEvent  EventType = "workflow.failed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	WorkerID  string         `json:"worker_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// DocumentEventReceived wraps a document event as delivered by the event
// source.
type DocumentEventReceived struct {
	BaseEvent

	Event *models.DocumentEvent `json:"event"`
}

func (d DocumentEventReceived) GetType() EventType {
	return DocumentEventReceivedEvent
}

// WorkflowApplied signals that the merged mutation of the listed workflows
// was committed to the document.
type WorkflowApplied struct {
	BaseEvent

	DocumentID  string        `json:"document_id"`
	WorkflowIDs []string      `json:"workflow_ids"`
	Duration    time.Duration `json:"duration"`
}

func (w WorkflowApplied) GetType() EventType {
	return WorkflowAppliedEvent
}

// WorkflowNoOp signals that no workflow matched the event. This is a normal
// outcome, not an error.
type WorkflowNoOp struct {
	BaseEvent

	DocumentID string `json:"document_id"`
}

func (w WorkflowNoOp) GetType() EventType {
	return WorkflowNoOpEvent
}

// WorkflowFailed signals a terminal evaluation failure. WorkflowID names the
// originating workflow when the failure is attributable to one.
type WorkflowFailed struct {
	BaseEvent

	DocumentID string        `json:"document_id"`
	WorkflowID string        `json:"workflow_id,omitempty"`
	Reason     string        `json:"reason"`
	Duration   time.Duration `json:"duration"`
}

func (w WorkflowFailed) GetType() EventType {
	return WorkflowFailedEvent
}
