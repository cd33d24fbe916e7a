package registry

import (
	"log/slog"

	"github.com/conveyorhq/conveyor/pkg/capability"
	"github.com/conveyorhq/conveyor/pkg/nodes/agent"
	"github.com/conveyorhq/conveyor/pkg/nodes/condition"
	"github.com/conveyorhq/conveyor/pkg/nodes/start"
)

// NewDefaultRegistry registers the built-in node set: start, condition, and
// one agent factory per capability.
func NewDefaultRegistry(logger *slog.Logger, capabilities ...capability.Capability) *Registry {
	registry := NewRegistry(logger)

	registry.RegisterNode(start.NewStartNodeFactory())
	registry.RegisterNode(condition.NewConditionNodeFactory())

	for _, cap := range capabilities {
		registry.RegisterNode(agent.NewAgentNodeFactory(
			"agent:"+cap.Name(),
			cap.Name(),
			"Invokes the "+cap.Name()+" capability with the configured prompt and the upstream result.",
			cap,
		))
	}

	return registry
}

// NewBuiltinRegistry wires the local reference capabilities. Production
// callers register their own providers via NewDefaultRegistry.
func NewBuiltinRegistry(logger *slog.Logger) *Registry {
	return NewDefaultRegistry(logger, capability.NewWeather(), capability.NewSummarizer())
}
