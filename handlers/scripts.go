// ABOUTME: Script library MCP tool handlers
// ABOUTME: Implements add_script, list_scripts, set_script_active, add_objection, find_objections, and draft_objection
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/llm"
	"github.com/harperreed/callcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ScriptHandlers edit the script library. Every write drops the coach's
// cached flows so the next render sees it.
type ScriptHandlers struct {
	coach *coach.Coach
}

func NewScriptHandlers(c *coach.Coach) *ScriptHandlers {
	return &ScriptHandlers{coach: c}
}

type AddScriptInput struct {
	Name         string               `json:"name" jsonschema:"Script name (required)"`
	Product      string               `json:"product" jsonschema:"Product, e.g. Dexit or Muspell (required)"`
	Approach     string               `json:"approach,omitempty" jsonschema:"Audience, e.g. HIM, Revenue Cycle, Ambulatory, IT"`
	SectionType  string               `json:"section_type" jsonschema:"opening, transition_to_discovery, discovery, transition_to_pitch, objections, closing, or competitor_objection"`
	TriggerType  string               `json:"trigger_type,omitempty" jsonschema:"Trigger label for transition sections"`
	Competitor   string               `json:"competitor,omitempty" jsonschema:"Competitor name for competitor_objection scripts"`
	Content      string               `json:"content,omitempty" jsonschema:"Raw script content; used when variations is empty"`
	Variations   []callflow.Variation `json:"variations,omitempty" jsonschema:"Labelled versions; written in the script dialect"`
	Inactive     bool                 `json:"inactive,omitempty" jsonschema:"Create the script switched off"`
}

type ScriptOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Product     string `json:"product"`
	Approach    string `json:"approach,omitempty"`
	SectionType string `json:"section_type"`
	TriggerType string `json:"trigger_type,omitempty"`
	Competitor  string `json:"competitor,omitempty"`
	Content     string `json:"content"`
	IsActive    bool   `json:"is_active"`
	UsageCount  int    `json:"usage_count"`
	Version     int    `json:"version"`
	UpdatedAt   string `json:"updated_at"`
}

func (h *ScriptHandlers) AddScript(_ context.Context, request *mcp.CallToolRequest, input AddScriptInput) (*mcp.CallToolResult, ScriptOutput, error) {
	if input.Name == "" {
		return nil, ScriptOutput{}, fmt.Errorf("name is required")
	}
	if input.Product == "" {
		return nil, ScriptOutput{}, fmt.Errorf("product is required")
	}
	if input.SectionType == "" {
		return nil, ScriptOutput{}, fmt.Errorf("section_type is required")
	}

	content := input.Content
	if len(input.Variations) > 0 {
		content = callflow.FormatVariations(input.Variations, input.SectionType)
	}

	script := &models.Script{
		Name:        input.Name,
		Product:     input.Product,
		Approach:    input.Approach,
		SectionType: input.SectionType,
		TriggerType: input.TriggerType,
		Competitor:  input.Competitor,
		Content:     content,
		IsActive:    !input.Inactive,
	}
	if input.Competitor != "" {
		script.CompetitorID = callflow.Slugify(input.Competitor)
	}

	if err := db.CreateScript(h.coach.DB, script); err != nil {
		return nil, ScriptOutput{}, fmt.Errorf("failed to create script: %w", err)
	}
	h.coach.Invalidate()

	return nil, scriptToOutput(script), nil
}

type ListScriptsInput struct {
	Product     string `json:"product,omitempty" jsonschema:"Filter by product"`
	Approach    string `json:"approach,omitempty" jsonschema:"Filter by approach"`
	SectionType string `json:"section_type,omitempty" jsonschema:"Filter by section type"`
	ActiveOnly  bool   `json:"active_only,omitempty" jsonschema:"Only return active scripts"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListScriptsOutput struct {
	Scripts []ScriptOutput `json:"scripts"`
}

func (h *ScriptHandlers) ListScripts(_ context.Context, request *mcp.CallToolRequest, input ListScriptsInput) (*mcp.CallToolResult, ListScriptsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	scripts, err := db.ListScripts(h.coach.DB, db.ScriptFilter{
		Product:     input.Product,
		Approach:    input.Approach,
		SectionType: input.SectionType,
		ActiveOnly:  input.ActiveOnly,
		Limit:       limit,
	})
	if err != nil {
		return nil, ListScriptsOutput{}, fmt.Errorf("failed to list scripts: %w", err)
	}

	result := make([]ScriptOutput, len(scripts))
	for i := range scripts {
		result[i] = scriptToOutput(&scripts[i])
	}
	return nil, ListScriptsOutput{Scripts: result}, nil
}

type SetScriptActiveInput struct {
	ID     string `json:"id" jsonschema:"Script ID (required)"`
	Active bool   `json:"active" jsonschema:"true to include the script in call flows"`
}

func (h *ScriptHandlers) SetScriptActive(_ context.Context, request *mcp.CallToolRequest, input SetScriptActiveInput) (*mcp.CallToolResult, ScriptOutput, error) {
	id, err := requiredID(input.ID, "id")
	if err != nil {
		return nil, ScriptOutput{}, err
	}

	if err := db.SetScriptActive(h.coach.DB, id, input.Active); err != nil {
		return nil, ScriptOutput{}, err
	}
	h.coach.Invalidate()

	script, err := db.GetScript(h.coach.DB, id)
	if err != nil {
		return nil, ScriptOutput{}, fmt.Errorf("failed to reload script: %w", err)
	}
	return nil, scriptToOutput(script), nil
}

type AddObjectionInput struct {
	Objection    string   `json:"objection" jsonschema:"What the prospect says (required)"`
	Response     string   `json:"response" jsonschema:"What the rep says back (required)"`
	Alternatives []string `json:"alternatives,omitempty" jsonschema:"Alternative responses"`
	Category     string   `json:"category,omitempty" jsonschema:"Category, e.g. budget, timing, competitor"`
	Product      string   `json:"product,omitempty" jsonschema:"Product the objection applies to; empty for all"`
	Approach     string   `json:"approach,omitempty" jsonschema:"Approach the objection applies to"`
	Competitor   string   `json:"competitor,omitempty" jsonschema:"Competitor name; files the objection under that competitor"`
}

type ObjectionOutput struct {
	ID           string   `json:"id"`
	Objection    string   `json:"objection"`
	Response     string   `json:"response"`
	Alternatives []string `json:"alternatives,omitempty"`
	Category     string   `json:"category,omitempty"`
	Product      string   `json:"product,omitempty"`
	Approach     string   `json:"approach,omitempty"`
	Competitor   string   `json:"competitor,omitempty"`
	IsActive     bool     `json:"is_active"`
	UsageCount   int      `json:"usage_count"`
}

func (h *ScriptHandlers) AddObjection(_ context.Context, request *mcp.CallToolRequest, input AddObjectionInput) (*mcp.CallToolResult, ObjectionOutput, error) {
	obj := &models.Objection{
		Objection:    input.Objection,
		Response:     input.Response,
		Alternatives: input.Alternatives,
		Category:     input.Category,
		Product:      input.Product,
		Approach:     input.Approach,
		Competitor:   input.Competitor,
		IsActive:     true,
	}
	if err := db.CreateObjection(h.coach.DB, obj); err != nil {
		return nil, ObjectionOutput{}, fmt.Errorf("failed to create objection: %w", err)
	}
	h.coach.Invalidate()

	return nil, objectionToOutput(obj), nil
}

type FindObjectionsInput struct {
	Query   string `json:"query,omitempty" jsonschema:"Search objection and response text"`
	Product string `json:"product,omitempty" jsonschema:"Filter by product"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindObjectionsOutput struct {
	Objections []ObjectionOutput `json:"objections"`
}

func (h *ScriptHandlers) FindObjections(_ context.Context, request *mcp.CallToolRequest, input FindObjectionsInput) (*mcp.CallToolResult, FindObjectionsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	objections, err := db.FindObjections(h.coach.DB, input.Query, input.Product, limit)
	if err != nil {
		return nil, FindObjectionsOutput{}, fmt.Errorf("failed to find objections: %w", err)
	}

	result := make([]ObjectionOutput, len(objections))
	for i := range objections {
		result[i] = objectionToOutput(&objections[i])
	}
	return nil, FindObjectionsOutput{Objections: result}, nil
}

type DraftObjectionInput struct {
	Objection string `json:"objection" jsonschema:"What the prospect said (required)"`
	Product   string `json:"product,omitempty" jsonschema:"Product whose call flow grounds the draft"`
	Approach  string `json:"approach,omitempty" jsonschema:"Approach whose call flow grounds the draft"`
	Save      bool   `json:"save,omitempty" jsonschema:"Store the draft in the objection library"`
}

type DraftObjectionOutput struct {
	Objection    string   `json:"objection"`
	Response     string   `json:"response"`
	Alternatives []string `json:"alternatives,omitempty"`
	SavedID      string   `json:"saved_id,omitempty"`
	TotalTokens  int32    `json:"total_tokens"`
}

func (h *ScriptHandlers) DraftObjection(ctx context.Context, request *mcp.CallToolRequest, input DraftObjectionInput) (*mcp.CallToolResult, DraftObjectionOutput, error) {
	if input.Objection == "" {
		return nil, DraftObjectionOutput{}, fmt.Errorf("objection is required")
	}
	if h.coach.Generator == nil {
		return nil, DraftObjectionOutput{}, llm.ErrNoAPIKey
	}

	flow, err := h.coach.SelectFlow(ctx, "", input.Product, input.Approach)
	if err != nil {
		return nil, DraftObjectionOutput{}, err
	}

	draft, usage, err := llm.DraftObjectionResponse(ctx, h.coach.Generator, input.Objection, flow, callflow.TemplateContext{})
	if err != nil {
		return nil, DraftObjectionOutput{}, err
	}

	out := DraftObjectionOutput{
		Objection:    draft.Objection,
		Response:     draft.Response,
		Alternatives: draft.Alternatives,
		TotalTokens:  usage.Total,
	}

	if input.Save {
		obj := &models.Objection{
			Objection:    draft.Objection,
			Response:     draft.Response,
			Alternatives: draft.Alternatives,
			Product:      flow.Product,
			Approach:     input.Approach,
			IsActive:     true,
		}
		if err := db.CreateObjection(h.coach.DB, obj); err != nil {
			return nil, DraftObjectionOutput{}, fmt.Errorf("failed to save draft: %w", err)
		}
		h.coach.Invalidate()
		out.SavedID = obj.ID.String()
	}

	return nil, out, nil
}

func scriptToOutput(s *models.Script) ScriptOutput {
	return ScriptOutput{
		ID:          s.ID.String(),
		Name:        s.Name,
		Product:     s.Product,
		Approach:    s.Approach,
		SectionType: s.SectionType,
		TriggerType: s.TriggerType,
		Competitor:  s.Competitor,
		Content:     s.Content,
		IsActive:    s.IsActive,
		UsageCount:  s.UsageCount,
		Version:     s.Version,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

func objectionToOutput(o *models.Objection) ObjectionOutput {
	return ObjectionOutput{
		ID:           o.ID.String(),
		Objection:    o.Objection,
		Response:     o.Response,
		Alternatives: o.Alternatives,
		Category:     o.Category,
		Product:      o.Product,
		Approach:     o.Approach,
		Competitor:   o.Competitor,
		IsActive:     o.IsActive,
		UsageCount:   o.UsageCount,
	}
}
