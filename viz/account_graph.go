// ABOUTME: GraphViz rendering of accounts: companies, their contacts, and call outcomes
// ABOUTME: Edge labels carry each contact's most recent call outcome
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

// GenerateAccountGraph draws every company with its contacts. Company
// labels show the EHR and DMS a call would be tailored to.
func (g *GraphGenerator) GenerateAccountGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel("Accounts")

	contacts, err := db.FindContacts(g.db, "", nil, 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch contacts: %w", err)
	}

	companies, err := db.FindCompanies(g.db, "", 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch companies: %w", err)
	}

	// Calls come back newest first, so the first seen per contact wins.
	calls, err := db.ListCallLogs(g.db, nil, 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch calls: %w", err)
	}
	lastOutcome := make(map[string]string)
	callCount := make(map[string]int)
	for _, call := range calls {
		id := call.ContactID.String()
		if _, ok := lastOutcome[id]; !ok {
			lastOutcome[id] = call.Outcome
		}
		callCount[id]++
	}

	companyNodes := make(map[string]*cgraph.Node)
	for _, company := range companies {
		node, err := graph.CreateNodeByName(fmt.Sprintf("company_%s", company.ID.String()[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create company node: %w", err)
		}
		label := company.Name
		if company.EHR != "" || company.DMS != "" {
			label = fmt.Sprintf("%s\nEHR: %s  DMS: %s", company.Name, orDash(company.EHR), orDash(company.DMS))
		}
		node.SetLabel(label)
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		companyNodes[company.ID.String()] = node
	}

	for _, contact := range contacts {
		node, err := graph.CreateNodeByName(fmt.Sprintf("contact_%s", contact.ID.String()[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		id := contact.ID.String()
		node.SetLabel(fmt.Sprintf("%s\n%s\n%d calls", contact.DisplayName(), contact.Title, callCount[id]))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor(outcomeColor(lastOutcome[id]))

		if contact.CompanyID == nil {
			continue
		}
		companyNode, ok := companyNodes[contact.CompanyID.String()]
		if !ok {
			continue
		}
		edge, err := graph.CreateEdgeByName("works_at", node, companyNode)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		if outcome := lastOutcome[id]; outcome != "" {
			edge.SetLabel(outcome)
		} else {
			edge.SetStyle("dashed")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

func outcomeColor(outcome string) string {
	switch outcome {
	case models.OutcomeMeetingSet:
		return "palegreen"
	case models.OutcomeNotInterest:
		return "mistyrose"
	case "":
		return "white"
	default:
		return "lightyellow"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
