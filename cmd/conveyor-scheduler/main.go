package main

import (
	"context"
	"os"

	"github.com/conveyorhq/conveyor/pkg/cmd"
	"github.com/conveyorhq/conveyor/pkg/log"
	"github.com/conveyorhq/conveyor/pkg/queue"
	"github.com/conveyorhq/conveyor/pkg/registrar"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "conveyor-scheduler",
		EnableShellCompletion: true,
		Usage:                 "Start the job registration API and schedule timers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   9091,
				Sources: cli.EnvVars("PORT"),
			},
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
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("conveyor-scheduler")

			logger.InfoContext(ctx, "Initializing Conveyor Scheduler")

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

			reg := registrar.NewRegistrar(q, persistence.ScheduleRepository(), logger)

			if err := reg.Start(ctx); err != nil {
				return err
			}
			defer reg.Stop(ctx)

			api := NewAPI(logger, persistence, reg)

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
