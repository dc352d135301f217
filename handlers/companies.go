// ABOUTME: Company MCP tool handlers
// ABOUTME: Implements add_company, find_companies, and update_company tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type CompanyHandlers struct {
	db *sql.DB
}

func NewCompanyHandlers(database *sql.DB) *CompanyHandlers {
	return &CompanyHandlers{db: database}
}

type AddCompanyInput struct {
	Name     string `json:"name" jsonschema:"Company name (required)"`
	Domain   string `json:"domain,omitempty" jsonschema:"Company domain (e.g., mercy.org)"`
	Industry string `json:"industry,omitempty" jsonschema:"Industry or sector"`
	EHR      string `json:"ehr,omitempty" jsonschema:"EHR system in use, e.g. Epic"`
	DMS      string `json:"dms,omitempty" jsonschema:"Document management system in use, e.g. OnBase"`
	Volume   string `json:"volume,omitempty" jsonschema:"Document volume, e.g. 400 pages a day"`
	Notes    string `json:"notes,omitempty" jsonschema:"Additional notes about the company"`
}

type CompanyOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Domain    string `json:"domain,omitempty"`
	Industry  string `json:"industry,omitempty"`
	EHR       string `json:"ehr,omitempty"`
	DMS       string `json:"dms,omitempty"`
	Volume    string `json:"volume,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *CompanyHandlers) AddCompany(_ context.Context, request *mcp.CallToolRequest, input AddCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	if input.Name == "" {
		return nil, CompanyOutput{}, fmt.Errorf("name is required")
	}

	company := &models.Company{
		Name:     input.Name,
		Domain:   input.Domain,
		Industry: input.Industry,
		EHR:      input.EHR,
		DMS:      input.DMS,
		Volume:   input.Volume,
		Notes:    input.Notes,
	}

	if err := db.CreateCompany(h.db, company); err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to create company: %w", err)
	}

	return nil, companyToOutput(company), nil
}

type FindCompaniesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name, domain, EHR, DMS)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
}

func (h *CompanyHandlers) FindCompanies(_ context.Context, request *mcp.CallToolRequest, input FindCompaniesInput) (*mcp.CallToolResult, FindCompaniesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	companies, err := db.FindCompanies(h.db, input.Query, limit)
	if err != nil {
		return nil, FindCompaniesOutput{}, fmt.Errorf("failed to find companies: %w", err)
	}

	result := make([]CompanyOutput, len(companies))
	for i := range companies {
		result[i] = companyToOutput(&companies[i])
	}

	return nil, FindCompaniesOutput{Companies: result}, nil
}

type UpdateCompanyInput struct {
	ID       string `json:"id" jsonschema:"Company ID (required)"`
	Name     string `json:"name,omitempty" jsonschema:"Updated name"`
	Domain   string `json:"domain,omitempty" jsonschema:"Updated domain"`
	Industry string `json:"industry,omitempty" jsonschema:"Updated industry"`
	EHR      string `json:"ehr,omitempty" jsonschema:"Updated EHR system"`
	DMS      string `json:"dms,omitempty" jsonschema:"Updated document management system"`
	Volume   string `json:"volume,omitempty" jsonschema:"Updated document volume"`
	Notes    string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *CompanyHandlers) UpdateCompany(_ context.Context, request *mcp.CallToolRequest, input UpdateCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	companyID, err := requiredID(input.ID, "id")
	if err != nil {
		return nil, CompanyOutput{}, err
	}

	company, err := db.GetCompany(h.db, companyID)
	if err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, CompanyOutput{}, fmt.Errorf("company not found")
	}

	setIf(&company.Name, input.Name)
	setIf(&company.Domain, input.Domain)
	setIf(&company.Industry, input.Industry)
	setIf(&company.EHR, input.EHR)
	setIf(&company.DMS, input.DMS)
	setIf(&company.Volume, input.Volume)
	setIf(&company.Notes, input.Notes)

	if err := db.UpdateCompany(h.db, companyID, company); err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to update company: %w", err)
	}

	return nil, companyToOutput(company), nil
}

func companyToOutput(company *models.Company) CompanyOutput {
	return CompanyOutput{
		ID:        company.ID.String(),
		Name:      company.Name,
		Domain:    company.Domain,
		Industry:  company.Industry,
		EHR:       company.EHR,
		DMS:       company.DMS,
		Volume:    company.Volume,
		Notes:     company.Notes,
		CreatedAt: company.CreatedAt.Format(time.RFC3339),
		UpdatedAt: company.UpdatedAt.Format(time.RFC3339),
	}
}
