// Package workflow implements the graph execution engine.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conveyorhq/conveyor/pkg/eventbus"
	"github.com/conveyorhq/conveyor/pkg/events"
	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/conveyorhq/conveyor/pkg/registry"
)

// DefaultDispatchBudget bounds the total number of node dispatches in a
// single run. The graph model does not forbid cycles; the budget guarantees
// every run terminates.
const DefaultDispatchBudget = 1000

// Run identifies one execution of a workflow.
type Run struct {
	ExecutionID string
	UserID      string
	Workflow    *models.Workflow
}

type workItem struct {
	node  *models.Node
	input models.AgentOutput
}

// Executor walks a workflow graph breadth-first from its start node,
// dispatches each node to its registered handler, forwards outputs along
// edges and prunes condition branches. A single node failure aborts the run.
type Executor struct {
	registry       *registry.Registry
	executions     persistence.ExecutionRepository
	publisher      eventbus.EventPublisher
	logger         *slog.Logger
	dispatchBudget int
}

// Option configures an Executor.
type Option func(*Executor)

// WithDispatchBudget overrides the per-run dispatch bound.
func WithDispatchBudget(budget int) Option {
	return func(e *Executor) {
		e.dispatchBudget = budget
	}
}

// WithPublisher fans lifecycle events out to live subscribers in addition to
// persisting them.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Executor) {
		e.publisher = publisher
	}
}

// NewExecutor creates an execution engine. The executions repository is
// required; the publisher is optional.
func NewExecutor(reg *registry.Registry, executions persistence.ExecutionRepository, logger *slog.Logger, opts ...Option) *Executor {
	executor := &Executor{
		registry:       reg,
		executions:     executions,
		logger:         logger.With("module", "workflow_executor"),
		dispatchBudget: DefaultDispatchBudget,
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor
}

// Execute runs the workflow to completion and returns the per-node outputs.
// The returned error is the first node failure, a graph configuration error,
// or an exhausted dispatch budget; in every failure case a workflow:failed
// event has already been emitted.
func (e *Executor) Execute(ctx context.Context, run Run) (map[string]any, error) {
	logger := e.logger.With(
		"workflow_id", run.Workflow.ID,
		"execution_id", run.ExecutionID,
	)

	graph, err := models.NewGraph(run.Workflow)
	if err != nil {
		e.emitWorkflowFailed(ctx, run, err)

		return nil, err
	}

	for _, edgeID := range graph.DroppedEdges {
		logger.DebugContext(ctx, "Dropped edge referencing unknown node", "edge_id", edgeID)
	}

	outputs := make(map[string]any)
	queue := []workItem{{node: graph.Start, input: models.EmptyAgentOutput()}}
	dispatched := 0

	for len(queue) > 0 {
		if dispatched >= e.dispatchBudget {
			err := models.NewConfigurationError(
				fmt.Sprintf("dispatch budget of %d nodes exhausted, graph likely cyclic", e.dispatchBudget))
			e.emitWorkflowFailed(ctx, run, err)

			return nil, err
		}

		item := queue[0]
		queue = queue[1:]
		dispatched++

		result, err := e.dispatch(ctx, run, item)
		if err != nil {
			e.emitWorkflowFailed(ctx, run, err)

			return nil, err
		}

		if result.IsConditional() {
			outputs[item.node.ID] = result.Condition()
		} else {
			outputs[item.node.ID] = result.Output
		}

		queue = append(queue, e.selectChildren(graph, item.node, result)...)
	}

	e.emit(ctx, run, "", "", events.WorkflowComplete{
		BaseEvent: events.NewBaseEvent(events.WorkflowCompleteEvent, run.ExecutionID, run.UserID, run.Workflow.ID),
	})

	logger.InfoContext(ctx, "Workflow execution completed", "nodes_dispatched", dispatched)

	return outputs, nil
}

// dispatch runs one node through its handler, framed by node:start and
// node:success / node:error events. Handler construction is part of the
// dispatch, so node:start precedes even type-resolution failures.
func (e *Executor) dispatch(ctx context.Context, run Run, item workItem) (*models.NodeResult, error) {
	node := item.node

	e.emit(ctx, run, node.ID, node.Type, events.NodeStart{
		BaseEvent: events.NewBaseEvent(events.NodeStartEvent, run.ExecutionID, run.UserID, run.Workflow.ID),
		NodeID:    node.ID,
		NodeType:  node.Type,
		Input:     item.input,
	})

	handler, err := e.registry.CreateNode(ctx, node)
	if err != nil {
		e.emit(ctx, run, node.ID, node.Type, events.NodeError{
			BaseEvent: events.NewBaseEvent(events.NodeErrorEvent, run.ExecutionID, run.UserID, run.Workflow.ID),
			NodeID:    node.ID,
			NodeType:  node.Type,
			Error:     err.Error(),
		})

		return nil, err
	}

	result, err := handler.Execute(ctx, item.input)
	if err != nil {
		e.emit(ctx, run, node.ID, node.Type, events.NodeError{
			BaseEvent: events.NewBaseEvent(events.NodeErrorEvent, run.ExecutionID, run.UserID, run.Workflow.ID),
			NodeID:    node.ID,
			NodeType:  node.Type,
			Error:     err.Error(),
		})

		return nil, fmt.Errorf("node %s failed: %w", node.ID, err)
	}

	var payload any = result.Output
	if result.IsConditional() {
		payload = result.Condition()
	}

	e.emit(ctx, run, node.ID, node.Type, events.NodeSuccess{
		BaseEvent: events.NewBaseEvent(events.NodeSuccessEvent, run.ExecutionID, run.UserID, run.Workflow.ID),
		NodeID:    node.ID,
		NodeType:  node.Type,
		Result:    payload,
	})

	return result, nil
}

// selectChildren enqueues the node's children. For condition results only
// edges labeled with the emitted branch survive; every other node fans out to
// all children, each receiving the full result as its input.
func (e *Executor) selectChildren(graph *models.Graph, node *models.Node, result *models.NodeResult) []workItem {
	children := graph.ChildrenOf(node.ID)
	next := make([]workItem, 0, len(children))

	for _, child := range children {
		if result.IsConditional() && child.BranchPath != result.Branch {
			continue
		}

		next = append(next, workItem{node: child.Node, input: result.Output})
	}

	return next
}

func (e *Executor) emitWorkflowFailed(ctx context.Context, run Run, cause error) {
	e.emit(ctx, run, "", "", events.WorkflowFailed{
		BaseEvent: events.NewBaseEvent(events.WorkflowFailedEvent, run.ExecutionID, run.UserID, run.Workflow.ID),
		Error:     cause.Error(),
	})
}

// emit persists node-level events through the execution repository and fans
// every event out to live subscribers when a publisher is configured.
// Emission failures are logged, never fatal to the run.
func (e *Executor) emit(ctx context.Context, run Run, nodeID, nodeType string, event eventbus.Event) {
	if nodeID != "" && e.executions != nil {
		record := &models.NodeEventRecord{
			ExecutionID: run.ExecutionID,
			NodeID:      nodeID,
			NodeType:    nodeType,
			Phase:       string(event.GetType()),
			Payload:     eventPayload(event),
		}

		if err := e.executions.RecordNodeEvent(ctx, record); err != nil {
			e.logger.ErrorContext(ctx, "Failed to record node event", "error", err, "node_id", nodeID)
		}
	}

	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, run.Workflow.ID, event); err != nil {
			e.logger.ErrorContext(ctx, "Failed to publish lifecycle event", "error", err, "event_type", event.GetType())
		}
	}
}

func eventPayload(event eventbus.Event) map[string]any {
	switch ev := event.(type) {
	case events.NodeStart:
		return map[string]any{"input": ev.Input}
	case events.NodeSuccess:
		return map[string]any{"result": ev.Result}
	case events.NodeError:
		return map[string]any{"error": ev.Error}
	default:
		return nil
	}
}
