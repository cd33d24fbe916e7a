// Package worker runs the consuming side of the durable queue: a fixed pool
// of workers that claim RUN_WORKFLOW messages, execute the workflow and
// record the run's terminal status.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/otelhelper"
	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/conveyorhq/conveyor/pkg/queue"
	"github.com/conveyorhq/conveyor/pkg/workflow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultWorkerCount is the pool size when none is configured.
const DefaultWorkerCount = 4

// Pool is a set of workers sharing one consumer group. Each worker claims at
// most one message at a time; every claimed message is acknowledged exactly
// once, whether the run succeeded or failed.
type Pool struct {
	queue       *queue.Queue
	group       string
	persistence persistence.Persistence
	executor    *workflow.Executor
	logger      *slog.Logger
	tracer      trace.Tracer
	workers     int
	block       time.Duration
	wg          sync.WaitGroup
}

// Option configures the pool.
type Option func(*Pool)

// WithWorkers sets the pool size.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBlock sets how long each claim waits for a message.
func WithBlock(block time.Duration) Option {
	return func(p *Pool) {
		p.block = block
	}
}

// WithTracer enables span creation around message processing.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pool) {
		p.tracer = tracer
	}
}

// NewPool creates a pool consuming from q within the given group.
func NewPool(
	q *queue.Queue,
	group string,
	store persistence.Persistence,
	executor *workflow.Executor,
	logger *slog.Logger,
	opts ...Option,
) *Pool {
	pool := &Pool{
		queue:       q,
		group:       group,
		persistence: store,
		executor:    executor,
		logger:      logger.With("module", "worker"),
		workers:     DefaultWorkerCount,
		block:       queue.DefaultBlock,
	}

	for _, opt := range opts {
		opt(pool)
	}

	return pool
}

// Start ensures the consumer group exists and launches the workers. Workers
// run until ctx is cancelled; Wait blocks until they have all returned.
func (p *Pool) Start(ctx context.Context) error {
	if err := p.queue.EnsureGroup(ctx, p.group); err != nil {
		return err
	}

	for i := 1; i <= p.workers; i++ {
		consumer := fmt.Sprintf("worker-%d", i)

		p.wg.Add(1)

		go func() {
			defer p.wg.Done()
			p.run(ctx, consumer)
		}()
	}

	p.logger.InfoContext(ctx, "Worker pool started", "workers", p.workers, "group", p.group)

	return nil
}

// Wait blocks until every worker has stopped.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, consumer string) {
	logger := p.logger.With("worker_id", consumer)
	logger.InfoContext(ctx, "Worker started")

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Worker stopped")

			return
		default:
		}

		delivery, err := p.queue.Claim(ctx, p.group, consumer, p.block)
		if err != nil {
			if ctx.Err() != nil {
				logger.InfoContext(ctx, "Worker stopped")

				return
			}

			logger.ErrorContext(ctx, "Failed to claim message", "error", err)
			time.Sleep(time.Second)

			continue
		}

		if delivery == nil {
			continue
		}

		p.process(ctx, logger, consumer, delivery)

		if err := p.queue.Ack(ctx, p.group, delivery.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to ack message", "error", err, "message_id", delivery.ID)
		}
	}
}

// process runs one claimed message to a terminal execution status. It never
// returns an error: delivery handling always ends in an ack, so failures are
// recorded on the execution instead of the queue.
func (p *Pool) process(ctx context.Context, logger *slog.Logger, consumer string, delivery *queue.Delivery) {
	var span trace.Span

	if p.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, p.tracer, "worker.process",
			attribute.String(otelhelper.WorkerIDKey, consumer),
			attribute.String(otelhelper.MessageIDKey, delivery.ID),
			attribute.String(otelhelper.WorkflowIDKey, delivery.Data.WorkflowID),
			attribute.String(otelhelper.ScheduleIDKey, delivery.Data.ScheduleID),
		)
		defer span.End()
	}

	logger = logger.With(
		"message_id", delivery.ID,
		"workflow_id", delivery.Data.WorkflowID,
		"schedule_id", delivery.Data.ScheduleID,
	)
	logger.InfoContext(ctx, "Processing workflow run message")

	if delivery.Event != models.RunWorkflowEvent {
		logger.WarnContext(ctx, "Skipping message with unknown event", "event", delivery.Event)

		return
	}

	wf, err := p.persistence.WorkflowRepository().GetByID(ctx, delivery.Data.WorkflowID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load workflow", "error", err)

		return
	}

	executions := p.persistence.ExecutionRepository()

	execution, err := executions.CreateExecution(ctx, wf.ID, models.ExecutionStatusRunning)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create execution record", "error", err)

		return
	}

	logger = logger.With("execution_id", execution.ID)

	outputs, runErr := p.executor.Execute(ctx, workflow.Run{
		ExecutionID: execution.ID,
		UserID:      delivery.Data.UserID,
		Workflow:    wf,
	})

	endedAt := time.Now().UTC()
	execution.EndedAt = &endedAt

	if runErr != nil {
		execution.Status = models.ExecutionStatusFailed

		if span != nil {
			otelhelper.SetError(span, runErr, attribute.String(otelhelper.ExecutionIDKey, execution.ID))
		}

		logger.ErrorContext(ctx, "Workflow run failed", "error", runErr)
	} else {
		execution.Status = models.ExecutionStatusSuccess
		execution.Output = outputs

		logger.InfoContext(ctx, "Workflow run completed")
	}

	if err := executions.UpdateExecution(ctx, execution); err != nil {
		logger.ErrorContext(ctx, "Failed to update execution record", "error", err)
	}
}
