// ABOUTME: Call log MCP tool handlers
// ABOUTME: Implements log_call, list_calls, and call_stats tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type CallHandlers struct {
	coach *coach.Coach
}

func NewCallHandlers(c *coach.Coach) *CallHandlers {
	return &CallHandlers{coach: c}
}

type LogCallInput struct {
	ContactID       string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Outcome         string `json:"outcome" jsonschema:"connected, voicemail, no_answer, meeting_set, not_interested, or follow_up"`
	Product         string `json:"product,omitempty" jsonschema:"Product pitched"`
	Approach        string `json:"approach,omitempty" jsonschema:"Call flow approach used"`
	Notes           string `json:"notes,omitempty" jsonschema:"What happened on the call"`
	DurationSeconds int    `json:"duration_seconds,omitempty" jsonschema:"Call length in seconds"`
	CalledAt        string `json:"called_at,omitempty" jsonschema:"When the call happened (RFC3339, defaults to now)"`
}

type CallOutput struct {
	ID              string  `json:"id"`
	ContactID       string  `json:"contact_id"`
	CompanyID       *string `json:"company_id,omitempty"`
	Product         string  `json:"product,omitempty"`
	Approach        string  `json:"approach,omitempty"`
	Outcome         string  `json:"outcome"`
	Notes           string  `json:"notes,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	CalledAt        string  `json:"called_at"`
}

func (h *CallHandlers) LogCall(_ context.Context, request *mcp.CallToolRequest, input LogCallInput) (*mcp.CallToolResult, CallOutput, error) {
	contactID, err := requiredID(input.ContactID, "contact_id")
	if err != nil {
		return nil, CallOutput{}, err
	}
	if !models.ValidOutcome(input.Outcome) {
		return nil, CallOutput{}, fmt.Errorf("invalid outcome: %q", input.Outcome)
	}

	call := &models.CallLog{
		ContactID:       contactID,
		Product:         input.Product,
		Approach:        input.Approach,
		Outcome:         input.Outcome,
		Notes:           input.Notes,
		DurationSeconds: input.DurationSeconds,
	}
	if input.CalledAt != "" {
		t, err := time.Parse(time.RFC3339, input.CalledAt)
		if err != nil {
			return nil, CallOutput{}, fmt.Errorf("invalid called_at format (use RFC3339): %w", err)
		}
		call.CalledAt = t
	}

	if err := h.coach.LogCall(call); err != nil {
		return nil, CallOutput{}, fmt.Errorf("failed to log call: %w", err)
	}
	return nil, callToOutput(call), nil
}

type ListCallsInput struct {
	ContactID string `json:"contact_id,omitempty" jsonschema:"Only calls with this contact"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 20)"`
}

type ListCallsOutput struct {
	Calls []CallOutput `json:"calls"`
}

func (h *CallHandlers) ListCalls(_ context.Context, request *mcp.CallToolRequest, input ListCallsInput) (*mcp.CallToolResult, ListCallsOutput, error) {
	contactID, err := optionalID(input.ContactID, "contact_id")
	if err != nil {
		return nil, ListCallsOutput{}, err
	}
	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	calls, err := db.ListCallLogs(h.coach.DB, contactID, limit)
	if err != nil {
		return nil, ListCallsOutput{}, fmt.Errorf("failed to list calls: %w", err)
	}

	result := make([]CallOutput, len(calls))
	for i := range calls {
		result[i] = callToOutput(&calls[i])
	}
	return nil, ListCallsOutput{Calls: result}, nil
}

type CallStatsInput struct {
	Days int `json:"days,omitempty" jsonschema:"Look back this many days (default 30)"`
}

type CallStatsOutput struct {
	Days        int            `json:"days"`
	Total       int            `json:"total"`
	Meetings    int            `json:"meetings"`
	ConnectRate float64        `json:"connect_rate"`
	ByOutcome   map[string]int `json:"by_outcome"`
	ByProduct   map[string]int `json:"by_product"`
}

func (h *CallHandlers) CallStats(_ context.Context, request *mcp.CallToolRequest, input CallStatsInput) (*mcp.CallToolResult, CallStatsOutput, error) {
	days := input.Days
	if days <= 0 {
		days = 30
	}

	stats, err := db.GetCallStats(h.coach.DB, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, CallStatsOutput{}, err
	}

	return nil, CallStatsOutput{
		Days:        days,
		Total:       stats.Total,
		Meetings:    stats.Meetings,
		ConnectRate: stats.ConnectRate(),
		ByOutcome:   stats.ByOutcome,
		ByProduct:   stats.ByProduct,
	}, nil
}

func callToOutput(call *models.CallLog) CallOutput {
	out := CallOutput{
		ID:              call.ID.String(),
		ContactID:       call.ContactID.String(),
		Product:         call.Product,
		Approach:        call.Approach,
		Outcome:         call.Outcome,
		Notes:           call.Notes,
		DurationSeconds: call.DurationSeconds,
		CalledAt:        call.CalledAt.Format(time.RFC3339),
	}
	if call.CompanyID != nil {
		id := call.CompanyID.String()
		out.CompanyID = &id
	}
	return out
}
