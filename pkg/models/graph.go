package models

import "fmt"

// GraphChild is an outgoing neighbor of a node together with the branch label
// of the connecting edge, if any.
type GraphChild struct {
	Node       *Node
	BranchPath string
}

// Graph is the adjacency view of a workflow used by the executor. Nodes are
// indexed by ID and edges resolved into child lists at construction time.
type Graph struct {
	Start        *Node
	NodesByID    map[string]*Node
	Children     map[string][]GraphChild
	DroppedEdges []string
}

// NewGraph builds the adjacency structure for a workflow. It fails with a
// ConfigurationError unless the graph contains exactly one start node. Edges
// referencing unknown node IDs are dropped and reported via DroppedEdges so
// the caller can log them; the editor may leave dangling edges behind after
// pruning nodes.
func NewGraph(workflow *Workflow) (*Graph, error) {
	graph := &Graph{
		NodesByID: make(map[string]*Node, len(workflow.Graph.Nodes)),
		Children:  make(map[string][]GraphChild),
	}

	for _, node := range workflow.Graph.Nodes {
		if node.ID == "" {
			return nil, NewConfigurationError("node with empty id")
		}

		if _, exists := graph.NodesByID[node.ID]; exists {
			return nil, NewConfigurationError(fmt.Sprintf("duplicate node id %q", node.ID))
		}

		graph.NodesByID[node.ID] = node

		if node.IsStartNode() {
			if graph.Start != nil {
				return nil, NewConfigurationError("workflow has more than one start node")
			}

			graph.Start = node
		}
	}

	if graph.Start == nil {
		return nil, NewConfigurationError("workflow has no start node")
	}

	for _, edge := range workflow.Graph.Edges {
		_, sourceOK := graph.NodesByID[edge.Source]
		target, targetOK := graph.NodesByID[edge.Target]

		if !sourceOK || !targetOK {
			graph.DroppedEdges = append(graph.DroppedEdges, edge.ID)

			continue
		}

		graph.Children[edge.Source] = append(graph.Children[edge.Source], GraphChild{
			Node:       target,
			BranchPath: edge.Data.BranchPath,
		})
	}

	return graph, nil
}

// ChildrenOf returns the outgoing neighbors of the given node.
func (g *Graph) ChildrenOf(nodeID string) []GraphChild {
	return g.Children[nodeID]
}
