// ABOUTME: Universal query tool handler
// ABOUTME: Implements query_library filtering across contacts, companies, scripts, objections, and calls
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type QueryHandlers struct {
	db *sql.DB
}

func NewQueryHandlers(database *sql.DB) *QueryHandlers {
	return &QueryHandlers{db: database}
}

type QueryLibraryInput struct {
	EntityType string                 `json:"entity_type" jsonschema:"Type of entity to query (contact, company, script, objection, call)"`
	Query      string                 `json:"query,omitempty" jsonschema:"Search query (names, emails, objection text)"`
	Filters    map[string]interface{} `json:"filters,omitempty" jsonschema:"Additional filters: company_id, contact_id, product, approach, section_type, active_only, outcome"`
	Limit      int                    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type QueryLibraryOutput struct {
	EntityType string        `json:"entity_type"`
	Results    []interface{} `json:"results"`
	Count      int           `json:"count"`
}

func (h *QueryHandlers) QueryLibrary(ctx context.Context, req *mcp.CallToolRequest, input QueryLibraryInput) (*mcp.CallToolResult, QueryLibraryOutput, error) {
	if input.Limit == 0 {
		input.Limit = 10
	}

	switch input.EntityType {
	case "contact":
		return h.queryContacts(input)
	case "company":
		return h.queryCompanies(input)
	case "script":
		return h.queryScripts(input)
	case "objection":
		return h.queryObjections(input)
	case "call":
		return h.queryCalls(input)
	default:
		return nil, QueryLibraryOutput{}, fmt.Errorf("invalid entity_type: %s (valid: contact, company, script, objection, call)", input.EntityType)
	}
}

func (h *QueryHandlers) queryContacts(input QueryLibraryInput) (*mcp.CallToolResult, QueryLibraryOutput, error) {
	companyID, err := filterID(input.Filters, "company_id")
	if err != nil {
		return nil, QueryLibraryOutput{}, err
	}

	contacts, err := db.FindContacts(h.db, input.Query, companyID, input.Limit)
	if err != nil {
		return nil, QueryLibraryOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	results := make([]interface{}, len(contacts))
	for i := range contacts {
		results[i] = contactToOutput(&contacts[i])
	}
	return queryResult("contact", results)
}

func (h *QueryHandlers) queryCompanies(input QueryLibraryInput) (*mcp.CallToolResult, QueryLibraryOutput, error) {
	companies, err := db.FindCompanies(h.db, input.Query, input.Limit)
	if err != nil {
		return nil, QueryLibraryOutput{}, fmt.Errorf("failed to find companies: %w", err)
	}

	results := make([]interface{}, len(companies))
	for i := range companies {
		results[i] = companyToOutput(&companies[i])
	}
	return queryResult("company", results)
}

func (h *QueryHandlers) queryScripts(input QueryLibraryInput) (*mcp.CallToolResult, QueryLibraryOutput, error) {
	activeOnly, _ := input.Filters["active_only"].(bool)
	scripts, err := db.ListScripts(h.db, db.ScriptFilter{
		Product:     filterString(input.Filters, "product"),
		Approach:    filterString(input.Filters, "approach"),
		SectionType: filterString(input.Filters, "section_type"),
		ActiveOnly:  activeOnly,
		Limit:       input.Limit,
	})
	if err != nil {
		return nil, QueryLibraryOutput{}, fmt.Errorf("failed to find scripts: %w", err)
	}

	results := make([]interface{}, 0, len(scripts))
	for i := range scripts {
		if input.Query != "" && !containsFold(scripts[i].Name+" "+scripts[i].Content, input.Query) {
			continue
		}
		results = append(results, scriptToOutput(&scripts[i]))
	}
	return queryResult("script", results)
}

func (h *QueryHandlers) queryObjections(input QueryLibraryInput) (*mcp.CallToolResult, QueryLibraryOutput, error) {
	objections, err := db.FindObjections(h.db, input.Query, filterString(input.Filters, "product"), input.Limit)
	if err != nil {
		return nil, QueryLibraryOutput{}, fmt.Errorf("failed to find objections: %w", err)
	}

	results := make([]interface{}, len(objections))
	for i := range objections {
		results[i] = objectionToOutput(&objections[i])
	}
	return queryResult("objection", results)
}

func (h *QueryHandlers) queryCalls(input QueryLibraryInput) (*mcp.CallToolResult, QueryLibraryOutput, error) {
	contactID, err := filterID(input.Filters, "contact_id")
	if err != nil {
		return nil, QueryLibraryOutput{}, err
	}

	calls, err := db.ListCallLogs(h.db, contactID, input.Limit)
	if err != nil {
		return nil, QueryLibraryOutput{}, fmt.Errorf("failed to find calls: %w", err)
	}

	// Outcome is filtered in memory; call volume per contact is small
	outcome := filterString(input.Filters, "outcome")
	results := make([]interface{}, 0, len(calls))
	for i := range calls {
		if outcome != "" && calls[i].Outcome != outcome {
			continue
		}
		results = append(results, callToOutput(&calls[i]))
	}
	return queryResult("call", results)
}

func queryResult(entity string, results []interface{}) (*mcp.CallToolResult, QueryLibraryOutput, error) {
	return &mcp.CallToolResult{}, QueryLibraryOutput{
		EntityType: entity,
		Results:    results,
		Count:      len(results),
	}, nil
}

func filterString(filters map[string]interface{}, key string) string {
	s, _ := filters[key].(string)
	return s
}

func filterID(filters map[string]interface{}, key string) (*uuid.UUID, error) {
	return optionalID(filterString(filters, key), key)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
