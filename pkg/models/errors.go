// Package models provides standardized error types for the workflow core.
package models

import (
	"errors"
	"fmt"
)

// Standard error categories shared across the engine, scheduler and queue.
var (
	// ErrConfiguration indicates a malformed workflow graph, such as a
	// missing or duplicated start node.
	ErrConfiguration = errors.New("invalid workflow configuration")

	// ErrInvalidSchedule indicates a bad cron expression or a calendar
	// time already in the past.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrUnsupportedNodeType indicates a node type with no registered handler.
	ErrUnsupportedNodeType = errors.New("unsupported node type")

	// ErrCapability indicates an agent capability invocation failure.
	ErrCapability = errors.New("capability invocation failed")

	// ErrQueue indicates a stream, consumer-group or append failure.
	ErrQueue = errors.New("queue operation failed")
)

// ConfigurationError describes why a workflow graph could not be built.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid workflow configuration: %s", e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a configuration error with the given reason.
func NewConfigurationError(reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason}
}

// InvalidScheduleError wraps schedule validation failures with context.
type InvalidScheduleError struct {
	ScheduleID string
	Reason     string
	Err        error
}

func (e *InvalidScheduleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid schedule %s: %s: %v", e.ScheduleID, e.Reason, e.Err)
	}

	return fmt.Sprintf("invalid schedule %s: %s", e.ScheduleID, e.Reason)
}

func (e *InvalidScheduleError) Unwrap() error {
	return e.Err
}

func (e *InvalidScheduleError) Is(target error) bool {
	return target == ErrInvalidSchedule
}

// NewInvalidScheduleError creates an invalid-schedule error with context.
func NewInvalidScheduleError(scheduleID, reason string, err error) *InvalidScheduleError {
	return &InvalidScheduleError{ScheduleID: scheduleID, Reason: reason, Err: err}
}

// UnsupportedNodeTypeError identifies the node and type that failed dispatch.
type UnsupportedNodeTypeError struct {
	NodeID   string
	NodeType string
}

func (e *UnsupportedNodeTypeError) Error() string {
	return fmt.Sprintf("unsupported node type %q for node %s", e.NodeType, e.NodeID)
}

func (e *UnsupportedNodeTypeError) Is(target error) bool {
	return target == ErrUnsupportedNodeType
}

// CapabilityError wraps failures from external agent capabilities.
type CapabilityError struct {
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %q failed: %v", e.Capability, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

func (e *CapabilityError) Is(target error) bool {
	return target == ErrCapability
}

// NewCapabilityError creates a capability error for the named capability.
func NewCapabilityError(capability string, err error) *CapabilityError {
	return &CapabilityError{Capability: capability, Err: err}
}

// QueueError wraps queue failures with the operation being performed.
type QueueError struct {
	Op     string // operation being performed ("append", "claim", "ack", "group")
	Stream string
	Err    error
}

func (e *QueueError) Error() string {
	return fmt.Sprintf("queue %s failed on stream %s: %v", e.Op, e.Stream, e.Err)
}

func (e *QueueError) Unwrap() error {
	return e.Err
}

func (e *QueueError) Is(target error) bool {
	return target == ErrQueue
}

// NewQueueError creates a queue error for the given operation and stream.
func NewQueueError(op, stream string, err error) *QueueError {
	return &QueueError{Op: op, Stream: stream, Err: err}
}

// IsConfigurationError checks if an error indicates a malformed graph.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsInvalidSchedule checks if an error indicates a rejected schedule.
func IsInvalidSchedule(err error) bool {
	return errors.Is(err, ErrInvalidSchedule)
}

// IsUnsupportedNodeType checks if an error indicates an unknown node type.
func IsUnsupportedNodeType(err error) bool {
	return errors.Is(err, ErrUnsupportedNodeType)
}

// IsCapabilityError checks if an error originated in an agent capability.
func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrCapability)
}

// IsQueueError checks if an error originated in the durable queue.
func IsQueueError(err error) bool {
	return errors.Is(err, ErrQueue)
}
