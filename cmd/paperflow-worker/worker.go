package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/paperflow/paperflow/pkg/eventbus"
	"github.com/paperflow/paperflow/pkg/events"
	"github.com/paperflow/paperflow/pkg/workflow"
)

// Worker consumes document events from the bus and hands each one to the
// engine. It stays up until interrupted.
type Worker struct {
	id       string
	engine   *workflow.Engine
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func NewWorker(id string, engine *workflow.Engine, eventBus eventbus.EventBus, logger *slog.Logger) *Worker {
	return &Worker{
		id:       id,
		engine:   engine,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	if err := w.eventBus.Handle(events.DocumentEventReceivedEvent, w.handleDocumentEvent); err != nil {
		return err
	}

	if err := w.eventBus.Subscribe(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	w.logger.InfoContext(ctx, "Worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}

func (w *Worker) handleDocumentEvent(ctx context.Context, event any) error {
	received, ok := event.(*events.DocumentEventReceived)
	if !ok || received.Event == nil {
		w.logger.ErrorContext(ctx, "Invalid payload for document event")

		return nil
	}

	result := w.engine.Handle(ctx, received.Event)

	// A failed evaluation is terminal for this event: the outcome has been
	// published, redelivery would just repeat the same failure.
	if result.Outcome == workflow.OutcomeFailed {
		w.logger.ErrorContext(ctx, "Evaluation failed",
			"document_id", result.DocumentID,
			"workflow_id", result.FailedWorkflowID,
			"error", result.Err)
	}

	return nil
}
