// ABOUTME: Call-flow MCP tool handlers
// ABOUTME: Implements get_call_flow, list_call_flows, render_script, find_objection_response, match_competitor, and generate_pitch
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type FlowHandlers struct {
	coach *coach.Coach
}

func NewFlowHandlers(c *coach.Coach) *FlowHandlers {
	return &FlowHandlers{coach: c}
}

// FlowSelector picks a flow by ID or by product and approach.
type FlowSelector struct {
	FlowID   string `json:"flow_id,omitempty" jsonschema:"Call flow ID from list_call_flows; IDs change when content reloads"`
	Product  string `json:"product,omitempty" jsonschema:"Product, e.g. Dexit (defaults to the rep's setting)"`
	Approach string `json:"approach,omitempty" jsonschema:"Approach, e.g. HIM, Revenue Cycle, Ambulatory, IT"`
}

type FlowSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Product  string `json:"product"`
	Approach string `json:"approach"`
	Version  int    `json:"version"`
	Source   string `json:"source,omitempty"`
}

type ListCallFlowsInput struct{}

type ListCallFlowsOutput struct {
	Flows   []FlowSummary `json:"flows"`
	Missing []string      `json:"missing,omitempty"`
}

func (h *FlowHandlers) ListCallFlows(ctx context.Context, request *mcp.CallToolRequest, input ListCallFlowsInput) (*mcp.CallToolResult, ListCallFlowsOutput, error) {
	lib, err := h.coach.Flows(ctx)
	if err != nil {
		return nil, ListCallFlowsOutput{}, fmt.Errorf("failed to load call flows: %w", err)
	}

	out := ListCallFlowsOutput{Flows: make([]FlowSummary, len(lib.Flows)), Missing: lib.Missing}
	for i, f := range lib.Flows {
		out.Flows[i] = FlowSummary{
			ID:       f.ID,
			Name:     f.Name,
			Product:  f.Product,
			Approach: f.Approach,
			Version:  f.Version,
			Source:   f.Source,
		}
	}
	return nil, out, nil
}

type GetCallFlowInput struct {
	FlowSelector
}

func (h *FlowHandlers) GetCallFlow(ctx context.Context, request *mcp.CallToolRequest, input GetCallFlowInput) (*mcp.CallToolResult, callflow.CallFlow, error) {
	flow, err := h.coach.SelectFlow(ctx, input.FlowID, input.Product, input.Approach)
	if err != nil {
		return nil, callflow.CallFlow{}, err
	}
	return nil, *flow, nil
}

type RenderScriptInput struct {
	FlowSelector
	Section    string `json:"section" jsonschema:"opening, transition_to_discovery, discovery, transition_to_pitch, objections, closing, or competitor_objection"`
	ContactID  string `json:"contact_id,omitempty" jsonschema:"Contact being called; fills {{contact.*}} and company systems"`
	Notes      string `json:"notes,omitempty" jsonschema:"Live call notes; lines like 'dms: OnBase' fill {{context.*}}"`
	Competitor string `json:"competitor,omitempty" jsonschema:"Narrow competitor_objection to this competitor"`
}

func (h *FlowHandlers) RenderScript(ctx context.Context, request *mcp.CallToolRequest, input RenderScriptInput) (*mcp.CallToolResult, coach.Rendered, error) {
	if input.Section == "" {
		return nil, coach.Rendered{}, fmt.Errorf("section is required")
	}

	flow, tc, err := h.resolve(ctx, input.FlowSelector, input.ContactID, input.Notes)
	if err != nil {
		return nil, coach.Rendered{}, err
	}

	rendered, err := coach.Render(flow, input.Section, input.Competitor, tc)
	if err != nil {
		return nil, coach.Rendered{}, err
	}
	for _, item := range rendered.Items {
		h.coach.RecordUsage(item.Origin)
	}
	return nil, *rendered, nil
}

type FindObjectionResponseInput struct {
	FlowSelector
	Text      string `json:"text" jsonschema:"What the prospect said (required)"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"Contact being called"`
	Notes     string `json:"notes,omitempty" jsonschema:"Live call notes"`
}

type FindObjectionResponseOutput struct {
	Answers []coach.ObjectionAnswer `json:"answers"`
}

func (h *FlowHandlers) FindObjectionResponse(ctx context.Context, request *mcp.CallToolRequest, input FindObjectionResponseInput) (*mcp.CallToolResult, FindObjectionResponseOutput, error) {
	if input.Text == "" {
		return nil, FindObjectionResponseOutput{}, fmt.Errorf("text is required")
	}

	flow, tc, err := h.resolve(ctx, input.FlowSelector, input.ContactID, input.Notes)
	if err != nil {
		return nil, FindObjectionResponseOutput{}, err
	}

	answers := h.coach.FindObjectionResponse(ctx, flow, input.Text, tc)
	if len(answers) > 0 {
		h.coach.RecordUsage(answers[0].Origin)
	}
	return nil, FindObjectionResponseOutput{Answers: answers}, nil
}

type MatchCompetitorInput struct {
	System string `json:"system" jsonschema:"System name as the prospect said it, e.g. 'OnBase 18' (required)"`
}

type MatchCompetitorOutput struct {
	Competitors []callflow.Competitor `json:"competitors"`
}

func (h *FlowHandlers) MatchCompetitor(ctx context.Context, request *mcp.CallToolRequest, input MatchCompetitorInput) (*mcp.CallToolResult, MatchCompetitorOutput, error) {
	if input.System == "" {
		return nil, MatchCompetitorOutput{}, fmt.Errorf("system is required")
	}
	matches, err := h.coach.MatchCompetitor(ctx, input.System)
	if err != nil {
		return nil, MatchCompetitorOutput{}, err
	}
	return nil, MatchCompetitorOutput{Competitors: matches}, nil
}

type GeneratePitchInput struct {
	FlowSelector
	ContactID string `json:"contact_id,omitempty" jsonschema:"Contact the pitch is for"`
	Notes     string `json:"notes,omitempty" jsonschema:"Call notes to tailor the pitch"`
	Focus     string `json:"focus,omitempty" jsonschema:"Angle to lead with, e.g. scanning backlog"`
}

type GeneratePitchOutput struct {
	Pitch            string `json:"pitch"`
	FlowID           string `json:"flow_id"`
	PromptTokens     int32  `json:"prompt_tokens"`
	CandidatesTokens int32  `json:"candidates_tokens"`
	TotalTokens      int32  `json:"total_tokens"`
}

func (h *FlowHandlers) GeneratePitch(ctx context.Context, request *mcp.CallToolRequest, input GeneratePitchInput) (*mcp.CallToolResult, GeneratePitchOutput, error) {
	flow, tc, err := h.resolve(ctx, input.FlowSelector, input.ContactID, input.Notes)
	if err != nil {
		return nil, GeneratePitchOutput{}, err
	}

	pitch, usage, err := h.coach.GeneratePitch(ctx, flow, tc, input.Notes, input.Focus)
	if err != nil {
		return nil, GeneratePitchOutput{}, err
	}

	return nil, GeneratePitchOutput{
		Pitch:            pitch,
		FlowID:           flow.ID,
		PromptTokens:     usage.Prompt,
		CandidatesTokens: usage.Candidates,
		TotalTokens:      usage.Total,
	}, nil
}

func (h *FlowHandlers) resolve(ctx context.Context, sel FlowSelector, contactID, notes string) (*callflow.CallFlow, callflow.TemplateContext, error) {
	flow, err := h.coach.SelectFlow(ctx, sel.FlowID, sel.Product, sel.Approach)
	if err != nil {
		return nil, callflow.TemplateContext{}, err
	}

	var id *uuid.UUID
	if contactID != "" {
		parsed, err := uuid.Parse(contactID)
		if err != nil {
			return nil, callflow.TemplateContext{}, fmt.Errorf("invalid contact_id: %w", err)
		}
		id = &parsed
	}

	tc, err := h.coach.TemplateContext(id, flow.Product, notes)
	if err != nil {
		return nil, callflow.TemplateContext{}, err
	}
	return flow, tc, nil
}
