// Package registry maps node types to their handler factories.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

type Registry struct {
	logger        *slog.Logger
	nodeFactories map[string]protocol.NodeFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:        logger,
		nodeFactories: make(map[string]protocol.NodeFactory),
	}
}

func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.nodeFactories[factory.ID()] = factory
}

// CreateNode validates the node's configuration against the factory schema
// and builds a handler. Unknown types fail with UnsupportedNodeTypeError.
func (r *Registry) CreateNode(ctx context.Context, node *models.Node) (protocol.NodeHandler, error) {
	factory, ok := r.nodeFactories[node.Type]
	if !ok {
		return nil, &models.UnsupportedNodeTypeError{NodeID: node.ID, NodeType: node.Type}
	}

	if err := r.validateConfig(node.Data, factory.Schema()); err != nil {
		return nil, models.NewConfigurationError(
			fmt.Sprintf("node %s config rejected by %s schema: %v", node.ID, factory.ID(), err))
	}

	return factory.Create(ctx, node.ID, node.Data)
}

// NodeTypes returns the registered node type identifiers.
func (r *Registry) NodeTypes() []string {
	types := make([]string, 0, len(r.nodeFactories))
	for nodeType := range r.nodeFactories {
		types = append(types, nodeType)
	}

	return types
}

func (r *Registry) validateConfig(config map[string]any, schema map[string]any) error {
	if config == nil {
		config = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
