// Package capability defines the contract for external AI-agent capabilities
// invoked by agent-type nodes, plus local reference implementations used for
// development and tests. Production deployments plug in their own providers.
package capability

import (
	"context"

	"github.com/conveyorhq/conveyor/pkg/models"
)

// Capability is the fixed input/output contract of an agent capability: it
// receives the node's configured prompt and the upstream result, and returns
// a new result. Failures surface as CapabilityError to the executor.
type Capability interface {
	// Name returns the capability identifier ("weather", "summarizer").
	Name() string

	// Invoke runs the capability. There is no timeout enforced here; callers
	// bound the invocation via ctx if they need one.
	Invoke(ctx context.Context, userPrompt string, input models.AgentOutput) (models.AgentOutput, error)
}

// Func adapts a plain function into a Capability.
type Func struct {
	CapabilityName string
	Fn             func(ctx context.Context, userPrompt string, input models.AgentOutput) (models.AgentOutput, error)
}

func (f Func) Name() string {
	return f.CapabilityName
}

func (f Func) Invoke(ctx context.Context, userPrompt string, input models.AgentOutput) (models.AgentOutput, error) {
	return f.Fn(ctx, userPrompt, input)
}
