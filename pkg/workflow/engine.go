package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paperflow/paperflow/pkg/documents"
	"github.com/paperflow/paperflow/pkg/eventbus"
	"github.com/paperflow/paperflow/pkg/events"
	"github.com/paperflow/paperflow/pkg/locks"
	"github.com/paperflow/paperflow/pkg/models"
	"github.com/paperflow/paperflow/pkg/otelhelper"
)

// Outcome is the terminal state of one event evaluation.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeNoOp    Outcome = "noop"
	OutcomeFailed  Outcome = "failed"
)

// Result describes how one document event was handled.
type Result struct {
	Outcome    Outcome
	DocumentID string

	// WorkflowIDs lists the matched workflows in evaluation order.
	WorkflowIDs []string

	// FailedWorkflowID names the originating workflow when the failure is
	// attributable to one.
	FailedWorkflowID string

	// ConfigErrors carries per-workflow configuration errors that did not
	// fail the evaluation.
	ConfigErrors []*ConfigError

	Err      error
	Duration time.Duration
}

// EngineConfig tunes engine behavior.
type EngineConfig struct {
	WorkerID string

	// MaxLockRetries bounds retries when the per-document lock is contended.
	MaxLockRetries uint64

	// LockRetryInterval is the initial backoff interval between lock
	// attempts.
	LockRetryInterval time.Duration
}

// EngineDeps are the engine's collaborators.
type EngineDeps struct {
	Workflows  *Repository
	Documents  documents.Repository
	Identities documents.IdentityResolver
	Locker     locks.DocumentLocker
	Publisher  eventbus.EventPublisher
	Tracer     trace.Tracer
	Logger     *slog.Logger
}

// Engine evaluates document events against the workflow configuration and
// applies the resulting mutations. It holds no mutable state across events,
// so evaluations for different documents may run concurrently; events for
// the same document are serialized through the locker.
type Engine struct {
	workflows  *Repository
	selector   *Selector
	resolver   *Resolver
	applier    *Applier
	locker     locks.DocumentLocker
	publisher  eventbus.EventPublisher
	tracer     trace.Tracer
	logger     *slog.Logger
	workerID   string
	maxRetries uint64
	interval   time.Duration
}

func NewEngine(cfg EngineConfig, deps EngineDeps) *Engine {
	if cfg.MaxLockRetries == 0 {
		cfg.MaxLockRetries = 5
	}

	if cfg.LockRetryInterval <= 0 {
		cfg.LockRetryInterval = 50 * time.Millisecond
	}

	logger := deps.Logger.With("module", "workflow_engine")

	return &Engine{
		workflows:  deps.Workflows,
		selector:   NewSelector(deps.Logger),
		resolver:   NewResolver(deps.Logger),
		applier:    NewApplier(deps.Documents, deps.Identities, deps.Logger),
		locker:     deps.Locker,
		publisher:  deps.Publisher,
		tracer:     deps.Tracer,
		logger:     logger,
		workerID:   cfg.WorkerID,
		maxRetries: cfg.MaxLockRetries,
		interval:   cfg.LockRetryInterval,
	}
}

// Handle runs one document event to a terminal outcome. Failures are
// isolated per event: a bad workflow or missing identity here never affects
// any other event's evaluation.
func (e *Engine) Handle(ctx context.Context, event *models.DocumentEvent) *Result {
	start := time.Now()

	var span trace.Span

	if e.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.handle",
			attribute.String(otelhelper.DocumentIDKey, event.DocumentID),
			attribute.String(otelhelper.EventKindKey, string(event.Kind)))
		defer span.End()
	}

	logger := e.logger.With(
		"document_id", event.DocumentID,
		"event_kind", event.Kind,
		"source", event.Source)

	result := e.evaluate(ctx, logger, event)
	result.Duration = time.Since(start)

	if span != nil {
		span.SetAttributes(attribute.String(otelhelper.OutcomeKey, string(result.Outcome)))

		if result.Err != nil {
			otelhelper.SetError(span, result.Err,
				attribute.String(otelhelper.WorkflowIDKey, result.FailedWorkflowID))
		}
	}

	e.publishOutcome(ctx, result)

	return result
}

func (e *Engine) evaluate(ctx context.Context, logger *slog.Logger, event *models.DocumentEvent) *Result {
	result := &Result{DocumentID: event.DocumentID}

	if event.DocumentID == "" || event.Kind == "" {
		result.Outcome = OutcomeFailed
		result.Err = errors.New("document event is missing document ID or kind")

		return result
	}

	// Snapshot the configuration once; changes committed after this point
	// apply only to later events.
	workflows, err := e.workflows.FetchEnabled(ctx)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("failed to fetch workflow configuration: %w", err)

		return result
	}

	matched, configErrors := e.selector.Select(event, workflows)
	result.ConfigErrors = configErrors

	if len(matched) == 0 {
		logger.Info("No workflow matched")

		result.Outcome = OutcomeNoOp

		return result
	}

	for _, wf := range matched {
		result.WorkflowIDs = append(result.WorkflowIDs, wf.ID)
	}

	mutation, resolveErrors := e.resolver.Resolve(event, matched)
	result.ConfigErrors = append(result.ConfigErrors, resolveErrors...)

	if mutation.IsEmpty() {
		logger.Info("Matched workflows assign nothing", "workflow_ids", result.WorkflowIDs)

		result.Outcome = OutcomeApplied

		return result
	}

	release, err := e.acquireLock(ctx, event.DocumentID)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err

		return result
	}
	defer release()

	if err := e.applier.Apply(ctx, event.DocumentID, mutation); err != nil {
		var resolutionErr *ResolutionError
		if errors.As(err, &resolutionErr) {
			result.FailedWorkflowID = resolutionErr.WorkflowID
		}

		logger.Error("Failed to apply mutation", "error", err)

		result.Outcome = OutcomeFailed
		result.Err = err

		return result
	}

	logger.Info("Applied workflows", "workflow_ids", result.WorkflowIDs)

	result.Outcome = OutcomeApplied

	return result
}

// acquireLock retries contended locks with bounded exponential backoff.
// Anything other than contention is permanent and surfaces immediately.
func (e *Engine) acquireLock(ctx context.Context, documentID string) (func(), error) {
	var release func()

	operation := func() error {
		r, err := e.locker.Acquire(ctx, documentID)
		if err != nil {
			if errors.Is(err, locks.ErrLockHeld) {
				return err
			}

			return backoff.Permanent(err)
		}

		release = r

		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = e.interval

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, e.maxRetries), ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for document %s: %w", documentID, err)
	}

	return release, nil
}

// publishOutcome reports the terminal outcome to the observability sink. A
// sink failure is logged, never propagated into the evaluation result.
func (e *Engine) publishOutcome(ctx context.Context, result *Result) {
	if e.publisher == nil {
		return
	}

	base := events.BaseEvent{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		WorkerID:  e.workerID,
	}

	var event eventbus.Event

	switch result.Outcome {
	case OutcomeApplied:
		base.Type = events.WorkflowAppliedEvent
		event = events.WorkflowApplied{
			BaseEvent:   base,
			DocumentID:  result.DocumentID,
			WorkflowIDs: result.WorkflowIDs,
			Duration:    result.Duration,
		}
	case OutcomeNoOp:
		base.Type = events.WorkflowNoOpEvent
		event = events.WorkflowNoOp{
			BaseEvent:  base,
			DocumentID: result.DocumentID,
		}
	case OutcomeFailed:
		base.Type = events.WorkflowFailedEvent
		event = events.WorkflowFailed{
			BaseEvent:  base,
			DocumentID: result.DocumentID,
			WorkflowID: result.FailedWorkflowID,
			Reason:     result.Err.Error(),
			Duration:   result.Duration,
		}
	}

	if err := e.publisher.Publish(ctx, result.DocumentID, event); err != nil {
		e.logger.Error("Failed to publish outcome event",
			"document_id", result.DocumentID,
			"outcome", result.Outcome,
			"error", err)
	}
}
