package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/paperflow/paperflow/pkg/cmd"
	"github.com/paperflow/paperflow/pkg/log"
	"github.com/paperflow/paperflow/pkg/otelhelper"
	"github.com/paperflow/paperflow/pkg/workflow"
)

func main() {
	command := &cli.Command{
		Name:                  "paperflow-worker",
		EnableShellCompletion: true,
		Usage:                 "Evaluate document events against workflow configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for workflow configuration",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "kafka",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the shared document lock (in-process lock if unset)",
				Value:   "",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "lock-ttl",
				Usage:   "TTL for the shared document lock",
				Value:   30 * time.Second,
				Sources: cli.EnvVars("LOCK_TTL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	workerID := command.String("worker-id")
	if workerID == "" {
		workerID = "worker-" + uuid.New().String()[:8]
	}

	logger := log.WithModule("paperflow-worker").With("worker_id", workerID)

	logger.InfoContext(ctx, "Initializing worker")

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), "paperflow-worker", logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	locker, err := cmd.NewDocumentLocker(command.String("redis-url"), command.Duration("lock-ttl"))
	if err != nil {
		return fmt.Errorf("failed to initialize document locker: %w", err)
	}

	deps := workflow.EngineDeps{
		Workflows: workflow.NewRepository(persistence),
		Locker:    locker,
		Publisher: eventBus,
		Logger:    logger,
	}

	store := cmd.NewDocumentStore(persistence)
	deps.Documents = store
	deps.Identities = store

	if command.Bool("tracing") {
		tracer, err := otelhelper.NewTracer(ctx, "paperflow-worker")
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}

		deps.Tracer = tracer
	}

	engine := workflow.NewEngine(workflow.EngineConfig{WorkerID: workerID}, deps)

	return NewWorker(workerID, engine, eventBus, logger).Start(ctx)
}
