package models_test

import (
	"testing"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWorkflow(nodes []*models.Node, edges []*models.Edge) *models.Workflow {
	return &models.Workflow{
		ID:   "wf-1",
		Name: "Test Workflow",
		Graph: models.WorkflowGraph{
			Nodes: nodes,
			Edges: edges,
		},
	}
}

func TestNewGraph(t *testing.T) {
	t.Parallel()

	t.Run("builds adjacency with branch paths", func(t *testing.T) {
		t.Parallel()

		workflow := buildWorkflow(
			[]*models.Node{
				{ID: "start-1", Type: models.NodeTypeStart},
				{ID: "cond-1", Type: models.NodeTypeCondition},
				{ID: "agent-1", Type: models.NodeTypeAgentWeather},
				{ID: "agent-2", Type: models.NodeTypeAgentSummarizer},
			},
			[]*models.Edge{
				{ID: "e1", Source: "start-1", Target: "cond-1"},
				{ID: "e2", Source: "cond-1", Target: "agent-1", Data: models.EdgeData{BranchPath: models.BranchTrue}},
				{ID: "e3", Source: "cond-1", Target: "agent-2", Data: models.EdgeData{BranchPath: models.BranchFalse}},
			},
		)

		graph, err := models.NewGraph(workflow)
		require.NoError(t, err)

		assert.Equal(t, "start-1", graph.Start.ID)
		assert.Len(t, graph.NodesByID, 4)
		assert.Empty(t, graph.DroppedEdges)

		children := graph.ChildrenOf("cond-1")
		require.Len(t, children, 2)
		assert.Equal(t, "agent-1", children[0].Node.ID)
		assert.Equal(t, models.BranchTrue, children[0].BranchPath)
		assert.Equal(t, "agent-2", children[1].Node.ID)
		assert.Equal(t, models.BranchFalse, children[1].BranchPath)
	})

	t.Run("drops edges referencing unknown nodes", func(t *testing.T) {
		t.Parallel()

		workflow := buildWorkflow(
			[]*models.Node{
				{ID: "start-1", Type: models.NodeTypeStart},
				{ID: "agent-1", Type: models.NodeTypeAgentWeather},
			},
			[]*models.Edge{
				{ID: "e1", Source: "start-1", Target: "agent-1"},
				{ID: "e2", Source: "start-1", Target: "ghost"},
				{ID: "e3", Source: "ghost", Target: "agent-1"},
			},
		)

		graph, err := models.NewGraph(workflow)
		require.NoError(t, err)

		assert.Equal(t, []string{"e2", "e3"}, graph.DroppedEdges)
		assert.Len(t, graph.ChildrenOf("start-1"), 1)
	})

	t.Run("fails without a start node", func(t *testing.T) {
		t.Parallel()

		workflow := buildWorkflow(
			[]*models.Node{{ID: "agent-1", Type: models.NodeTypeAgentWeather}},
			nil,
		)

		_, err := models.NewGraph(workflow)
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})

	t.Run("fails with more than one start node", func(t *testing.T) {
		t.Parallel()

		workflow := buildWorkflow(
			[]*models.Node{
				{ID: "start-1", Type: models.NodeTypeStart},
				{ID: "start-2", Type: models.NodeTypeStart},
			},
			nil,
		)

		_, err := models.NewGraph(workflow)
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})

	t.Run("fails on duplicate node ids", func(t *testing.T) {
		t.Parallel()

		workflow := buildWorkflow(
			[]*models.Node{
				{ID: "start-1", Type: models.NodeTypeStart},
				{ID: "start-1", Type: models.NodeTypeAgentWeather},
			},
			nil,
		)

		_, err := models.NewGraph(workflow)
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})

	t.Run("fails on empty node id", func(t *testing.T) {
		t.Parallel()

		workflow := buildWorkflow(
			[]*models.Node{{ID: "", Type: models.NodeTypeStart}},
			nil,
		)

		_, err := models.NewGraph(workflow)
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})
}

func TestNodeCapabilityName(t *testing.T) {
	t.Parallel()

	weather := &models.Node{ID: "n1", Type: models.NodeTypeAgentWeather}
	assert.True(t, weather.IsAgentNode())
	assert.Equal(t, "weather", weather.CapabilityName())

	start := &models.Node{ID: "n2", Type: models.NodeTypeStart}
	assert.False(t, start.IsAgentNode())
	assert.Empty(t, start.CapabilityName())
}
