// ABOUTME: GraphViz rendering of a call flow
// ABOUTME: Draws sections in call order with transitions and objections branching off
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/callcoach/callflow"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GenerateFlowGraph renders flow as DOT source. Database-origin items are
// drawn in a different color so authored additions stand out.
func (g *GraphGenerator) GenerateFlowGraph(flow *callflow.CallFlow) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel(flow.Name)
	graph.SetRankDir(cgraph.LRRank)

	s := flow.Sections
	spine := []struct {
		id    string
		label string
	}{
		{callflow.SectionOpening, fmt.Sprintf("Opening\n%d versions", len(s.Opening.Versions))},
		{callflow.SectionTransitionToDiscovery, fmt.Sprintf("To discovery\n%d transitions", len(s.TransitionToDiscovery))},
		{callflow.SectionDiscovery, fmt.Sprintf("Discovery\n%d questions", len(s.Discovery))},
		{callflow.SectionTransitionToPitch, fmt.Sprintf("To pitch\n%d transitions", len(s.TransitionToPitch))},
		{callflow.SectionObjections, fmt.Sprintf("Objections\n%d", len(s.Objections))},
		{callflow.SectionClosing, fmt.Sprintf("Closing\n%d versions", len(s.Closing.Versions))},
	}

	nodes := make(map[string]*cgraph.Node)
	var prev *cgraph.Node
	for _, sec := range spine {
		node, err := graph.CreateNodeByName(sec.id)
		if err != nil {
			return "", fmt.Errorf("failed to create section node: %w", err)
		}
		node.SetLabel(sec.label)
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		nodes[sec.id] = node

		if prev != nil {
			if _, err := graph.CreateEdgeByName("", prev, node); err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
		}
		prev = node
	}

	for i, t := range s.TransitionToPitch {
		node, err := graph.CreateNodeByName(fmt.Sprintf("pitch_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create transition node: %w", err)
		}
		node.SetLabel(t.Trigger)
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor(itemColor(t.Origin))

		edge, err := graph.CreateEdgeByName("", nodes[callflow.SectionTransitionToPitch], node)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetStyle("dashed")
	}

	for i, o := range s.Objections {
		node, err := graph.CreateNodeByName(fmt.Sprintf("objection_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create objection node: %w", err)
		}
		node.SetLabel(o.Objection)
		node.SetShape("note")
		node.SetStyle("filled")
		node.SetFillColor(itemColor(o.Origin))

		edge, err := graph.CreateEdgeByName("", nodes[callflow.SectionObjections], node)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetStyle("dotted")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

func itemColor(o callflow.Origin) string {
	if o.FromDatabase() {
		return "lightyellow"
	}
	return "lightgreen"
}
