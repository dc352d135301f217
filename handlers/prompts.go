// ABOUTME: MCP prompt handlers for call preparation
// ABOUTME: Provides call-prep and objection-drill prompts built from the merged call flow
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	coach *coach.Coach
}

func NewPromptHandlers(c *coach.Coach) *PromptHandlers {
	return &PromptHandlers{coach: c}
}

// Prompts lists the prompts GetPrompt serves.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "call-prep",
			Description: "Prepare for a cold call: contact, company systems, call history, and the opening to use",
			Arguments: []*mcp.PromptArgument{
				{Name: "contact_id", Description: "Contact being called", Required: true},
				{Name: "product", Description: "Product to pitch (defaults to the rep's setting)"},
				{Name: "approach", Description: "Audience, e.g. HIM or Revenue Cycle"},
			},
		},
		{
			Name:        "objection-drill",
			Description: "Role-play the prospect raising objections from the call flow",
			Arguments: []*mcp.PromptArgument{
				{Name: "product", Description: "Product to drill"},
				{Name: "approach", Description: "Audience to drill"},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "call-prep":
		return h.getCallPrepPrompt(ctx, arguments)
	case "objection-drill":
		return h.getObjectionDrillPrompt(ctx, arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getCallPrepPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	contactIDStr, ok := args["contact_id"]
	if !ok {
		return nil, fmt.Errorf("contact_id is required")
	}

	contactID, err := uuid.Parse(contactIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := db.GetContact(h.coach.DB, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if contact == nil {
		return nil, fmt.Errorf("contact not found")
	}

	flow, err := h.coach.SelectFlow(ctx, "", args["product"], args["approach"])
	if err != nil {
		return nil, err
	}

	tc, err := h.coach.TemplateContext(&contactID, flow.Product, "")
	if err != nil {
		return nil, err
	}

	calls, err := db.ListCallLogs(h.coach.DB, &contactID, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calls: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Help me prepare for a cold call.\n\n")
	promptText.WriteString(fmt.Sprintf("Contact: %s\n", contact.DisplayName()))
	if tc.Contact.Title != "" {
		promptText.WriteString(fmt.Sprintf("Title: %s\n", tc.Contact.Title))
	}
	if tc.Contact.Organization != "" {
		promptText.WriteString(fmt.Sprintf("Organization: %s\n", tc.Contact.Organization))
	}
	if tc.Script.EHR != "" {
		promptText.WriteString(fmt.Sprintf("EHR: %s\n", tc.Script.EHR))
	}
	if tc.Script.DMS != "" {
		promptText.WriteString(fmt.Sprintf("DMS: %s\n", tc.Script.DMS))
	}
	if tc.Script.Volume != "" {
		promptText.WriteString(fmt.Sprintf("Volume: %s\n", tc.Script.Volume))
	}

	if len(calls) > 0 {
		promptText.WriteString("\nPrevious calls:\n")
		for _, call := range calls {
			promptText.WriteString(fmt.Sprintf("- %s: %s", call.CalledAt.Format("2006-01-02"), call.Outcome))
			if call.Notes != "" {
				promptText.WriteString(fmt.Sprintf(" (%s)", call.Notes))
			}
			promptText.WriteString("\n")
		}
	}

	promptText.WriteString(fmt.Sprintf("\nCall flow: %s\n", flow.Name))
	if opening, err := coach.Render(flow, callflow.SectionOpening, "", tc); err == nil && len(opening.Items) > 0 {
		promptText.WriteString(fmt.Sprintf("Opening I plan to use:\n%s\n", opening.Items[0].Text))
	}

	if system := firstNonEmpty(tc.Script.DMS, tc.Script.EHR); system != "" {
		if matches, err := h.coach.MatchCompetitor(ctx, system); err == nil && len(matches) > 0 {
			promptText.WriteString(fmt.Sprintf("\nThey run a competitor: %s. Bottom line: %s\n", matches[0].Name, matches[0].BottomLine))
		}
	}

	promptText.WriteString("\nPlease give me:")
	promptText.WriteString("\n1. Two discovery questions tailored to their systems")
	promptText.WriteString("\n2. The objection they are most likely to raise and how to answer it")
	promptText.WriteString("\n3. A one-line goal for this call")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Call prep for %s", contact.DisplayName()),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getObjectionDrillPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	flow, err := h.coach.SelectFlow(ctx, "", args["product"], args["approach"])
	if err != nil {
		return nil, err
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Role-play a skeptical %s prospect hearing a %s cold call.\n", flow.Approach, flow.Product))
	promptText.WriteString("Raise these objections one at a time and wait for my answer. After each answer, compare it to the reference response and coach me.\n\n")
	for i, o := range flow.Sections.Objections {
		promptText.WriteString(fmt.Sprintf("%d. %q\n   Reference: %s\n", i+1, o.Objection, o.Response))
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Objection drill for %s", flow.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
