package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/conveyorhq/conveyor/pkg/cmd"
	"github.com/conveyorhq/conveyor/pkg/log"
	"github.com/conveyorhq/conveyor/pkg/otelhelper"
	"github.com/conveyorhq/conveyor/pkg/queue"
	"github.com/conveyorhq/conveyor/pkg/registry"
	"github.com/conveyorhq/conveyor/pkg/worker"
	"github.com/conveyorhq/conveyor/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "conveyor-worker",
		EnableShellCompletion: true,
		Usage:                 "Start workers to consume the workflow queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "redis-url",
				Usage:    "Redis connection URL for the workflow queue",
				Required: true,
				Sources:  cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "queue-stream",
				Usage:   "Stream key of the workflow queue",
				Value:   queue.DefaultStream,
				Sources: cli.EnvVars("QUEUE_STREAM"),
			},
			&cli.StringFlag{
				Name:    "consumer-group",
				Usage:   "Consumer group shared by the worker pool",
				Value:   queue.DefaultGroup,
				Sources: cli.EnvVars("CONSUMER_GROUP"),
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Number of concurrent workers",
				Value:   worker.DefaultWorkerCount,
				Sources: cli.EnvVars("WORKER_COUNT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type for lifecycle events (kafka, gochannel); disabled when empty",
				Value:   "",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("conveyor-worker")

			logger.InfoContext(ctx, "Initializing Conveyor Worker")

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			persistence := cmd.NewPersistence(command.String("database-url"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			q, err := cmd.NewQueue(command.String("redis-url"), command.String("queue-stream"), logger)
			if err != nil {
				return err
			}

			reg := registry.NewBuiltinRegistry(logger)

			executorOpts := []workflow.Option{}

			if provider := command.String("event-bus"); provider != "" {
				eventBus := cmd.NewEventBus(provider, "conveyor-worker", logger)
				defer func() {
					if err := eventBus.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
					}
				}()

				executorOpts = append(executorOpts, workflow.WithPublisher(eventBus))
			}

			executor := workflow.NewExecutor(reg, persistence.ExecutionRepository(), logger, executorOpts...)

			poolOpts := []worker.Option{
				worker.WithWorkers(command.Int("workers")),
			}

			if tracer, err := otelhelper.NewTracer(ctx, "conveyor-worker"); err != nil {
				logger.WarnContext(ctx, "Tracing disabled", "error", err)
			} else {
				poolOpts = append(poolOpts, worker.WithTracer(tracer))
			}

			pool := worker.NewPool(
				q,
				command.String("consumer-group"),
				persistence,
				executor,
				logger,
				poolOpts...,
			)

			if err := pool.Start(ctx); err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			<-sigChan
			logger.InfoContext(ctx, "Shutting down worker pool...")
			cancel()
			pool.Wait()

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
