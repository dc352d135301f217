// ABOUTME: MCP resource handlers for exposing call flows and contacts
// ABOUTME: Provides read-only access via callcoach:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "callcoach://"

type ResourceHandlers struct {
	coach *coach.Coach
}

func NewResourceHandlers(c *coach.Coach) *ResourceHandlers {
	return &ResourceHandlers{coach: c}
}

// Resources lists the fixed resources ReadResource serves.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: uriScheme + "flows", Name: "flows", Description: "Every merged call flow", MIMEType: "application/json"},
		{URI: uriScheme + "competitors", Name: "competitors", Description: "Competitor objections with merged sub-objections", MIMEType: "application/json"},
		{URI: uriScheme + "contacts", Name: "contacts", Description: "Contacts in the call list", MIMEType: "application/json"},
	}
}

// Templates lists the parameterised resources ReadResource serves.
func (h *ResourceHandlers) Templates() []*mcp.ResourceTemplate {
	return []*mcp.ResourceTemplate{
		{URITemplate: uriScheme + "flows/{id}", Name: "flow", Description: "One call flow by ID", MIMEType: "application/json"},
		{URITemplate: uriScheme + "contacts/{id}", Name: "contact", Description: "One contact with notes and calls", MIMEType: "application/json"},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", uriScheme)
	}

	path := strings.TrimPrefix(uri, uriScheme)
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "flows":
		lib, err := h.coach.Flows(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load call flows: %w", err)
		}
		if len(parts) == 1 {
			return jsonResource(uri, lib.Flows)
		}
		flow := lib.Flow(parts[1])
		if flow == nil {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return jsonResource(uri, flow)

	case "competitors":
		lib, err := h.coach.Flows(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load call flows: %w", err)
		}
		return jsonResource(uri, lib.Competitors)

	case "contacts":
		if len(parts) == 1 {
			contacts, err := db.FindContacts(h.coach.DB, "", nil, 1000)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch contacts: %w", err)
			}
			return jsonResource(uri, contacts)
		}
		return h.readContact(uri, parts[1])

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readContact(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(h.coach.DB, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if contact == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	notes, err := db.ListNotes(h.coach.DB, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}
	calls, err := db.ListCallLogs(h.coach.DB, &id, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calls: %w", err)
	}

	return jsonResource(uri, map[string]interface{}{
		"contact": contact,
		"notes":   notes,
		"calls":   calls,
	})
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
