// ABOUTME: Builds the MCP server with every callcoach tool, prompt, and resource
// ABOUTME: Shared by the mcp subcommand and handler tests
package handlers

import (
	"github.com/harperreed/callcoach/coach"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer registers all handlers against c.
func NewServer(c *coach.Coach, version string) *mcp.Server {
	contactHandlers := NewContactHandlers(c.DB)
	companyHandlers := NewCompanyHandlers(c.DB)
	scriptHandlers := NewScriptHandlers(c)
	callHandlers := NewCallHandlers(c)
	flowHandlers := NewFlowHandlers(c)
	queryHandlers := NewQueryHandlers(c.DB)
	vizHandlers := NewVizHandlers(c)
	promptHandlers := NewPromptHandlers(c)
	resourceHandlers := NewResourceHandlers(c)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "callcoach",
		Version: version,
	}, nil)

	// Contacts and companies
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a contact to call, optionally linking or creating their company",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name, email, or organization",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact with their notes and call history",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_note",
		Description: "Attach a note to a contact; 'ehr:', 'dms:' and volume phrases feed script context",
	}, contactHandlers.AddNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_company",
		Description: "Add a company with its EHR, DMS, and document volume",
	}, companyHandlers.AddCompany)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_companies",
		Description: "Search companies by name, domain, EHR, or DMS",
	}, companyHandlers.FindCompanies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_company",
		Description: "Update a company's details and systems",
	}, companyHandlers.UpdateCompany)

	// Script library
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_script",
		Description: "Author a script block that merges into a call-flow section",
	}, scriptHandlers.AddScript)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_scripts",
		Description: "List authored scripts by product, approach, and section",
	}, scriptHandlers.ListScripts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_script_active",
		Description: "Switch a script on or off in call flows",
	}, scriptHandlers.SetScriptActive)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_objection",
		Description: "Add an objection and response to the library",
	}, scriptHandlers.AddObjection)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_objections",
		Description: "Search the objection library, most used first",
	}, scriptHandlers.FindObjections)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_objection",
		Description: "Draft a response to a new objection with the language model, optionally saving it",
	}, scriptHandlers.DraftObjection)

	// Calls
	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_call",
		Description: "Record a call outcome and update the contact's last contacted time",
	}, callHandlers.LogCall)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_calls",
		Description: "List recent calls, optionally for one contact",
	}, callHandlers.ListCalls)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "call_stats",
		Description: "Summarise call outcomes, meetings, and connect rate",
	}, callHandlers.CallStats)

	// Call flows
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_call_flows",
		Description: "List the loaded call flows with their IDs",
	}, flowHandlers.ListCallFlows)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_call_flow",
		Description: "Get a merged call flow by ID, or by product and approach",
	}, flowHandlers.GetCallFlow)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_script",
		Description: "Render one call-flow section with the contact, rep, and notes substituted",
	}, flowHandlers.RenderScript)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_objection_response",
		Description: "Find responses to what the prospect just said",
	}, flowHandlers.FindObjectionResponse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "match_competitor",
		Description: "Match a system name such as a DMS to known competitors",
	}, flowHandlers.MatchCompetitor)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_pitch",
		Description: "Write a custom pitch for a contact with the language model",
	}, flowHandlers.GeneratePitch)

	// Cross-entity
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_library",
		Description: "Universal query across contacts, companies, scripts, objections, and calls",
	}, queryHandlers.QueryLibrary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "flow_graph",
		Description: "Render a call flow or the account map as GraphViz DOT",
	}, vizHandlers.GenerateGraph)

	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}
	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, t := range resourceHandlers.Templates() {
		server.AddResourceTemplate(t, resourceHandlers.ReadResource)
	}

	return server
}
