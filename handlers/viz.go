// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides flow_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	coach *coach.Coach
}

func NewVizHandlers(c *coach.Coach) *VizHandlers {
	return &VizHandlers{coach: c}
}

type GenerateGraphInput struct {
	FlowSelector
	Type string `json:"type" jsonschema:"Graph type: flow or accounts"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		input.Type = "flow"
	}

	generator := viz.NewGraphGenerator(h.coach.DB)
	var dot string
	var err error

	switch input.Type {
	case "flow":
		flow, ferr := h.coach.SelectFlow(ctx, input.FlowID, input.Product, input.Approach)
		if ferr != nil {
			return nil, GenerateGraphOutput{}, ferr
		}
		dot, err = generator.GenerateFlowGraph(flow)

	case "accounts":
		dot, err = generator.GenerateAccountGraph()

	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: flow, accounts)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodeCount := strings.Count(dot, "[label=")
	edgeCount := strings.Count(dot, "->")

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}
