// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact, delete_contact, and add_note tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type AddContactInput struct {
	Name         string `json:"name,omitempty" jsonschema:"Full name (required unless first_name is given)"`
	FirstName    string `json:"first_name,omitempty" jsonschema:"First name, used by {{contact.first_name}}"`
	LastName     string `json:"last_name,omitempty" jsonschema:"Last name"`
	Title        string `json:"title,omitempty" jsonschema:"Job title, e.g. HIM Director"`
	Email        string `json:"email,omitempty" jsonschema:"Contact email address"`
	Phone        string `json:"phone,omitempty" jsonschema:"Contact phone number"`
	CompanyName  string `json:"company_name,omitempty" jsonschema:"Company name (will be looked up or created)"`
	Organization string `json:"organization,omitempty" jsonschema:"Organization name when it differs from the company"`
	Notes        string `json:"notes,omitempty" jsonschema:"Notes; lines like 'ehr: Epic' feed script context"`
}

type ContactOutput struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	FirstName       string  `json:"first_name,omitempty"`
	LastName        string  `json:"last_name,omitempty"`
	Title           string  `json:"title,omitempty"`
	Email           string  `json:"email,omitempty"`
	Phone           string  `json:"phone,omitempty"`
	CompanyID       *string `json:"company_id,omitempty"`
	Organization    string  `json:"organization,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	LastContactedAt *string `json:"last_contacted_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" && input.FirstName == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}

	contact := &models.Contact{
		Name:         input.Name,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Title:        input.Title,
		Email:        input.Email,
		Phone:        input.Phone,
		Organization: input.Organization,
		Notes:        input.Notes,
	}

	if input.CompanyName != "" {
		company, err := findOrCreateCompany(h.db, input.CompanyName)
		if err != nil {
			return nil, ContactOutput{}, err
		}
		contact.CompanyID = &company.ID
	}

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

func findOrCreateCompany(database *sql.DB, name string) (*models.Company, error) {
	company, err := db.FindCompanyByName(database, name)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup company: %w", err)
	}
	if company != nil {
		return company, nil
	}
	company = &models.Company{Name: name}
	if err := db.CreateCompany(database, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

type FindContactsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search query (searches name, email, organization)"`
	CompanyID string `json:"company_id,omitempty" jsonschema:"Filter by company ID"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	companyID, err := optionalID(input.CompanyID, "company_id")
	if err != nil {
		return nil, FindContactsOutput{}, err
	}

	contacts, err := db.FindContacts(h.db, input.Query, companyID, limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	result := make([]ContactOutput, len(contacts))
	for i := range contacts {
		result[i] = contactToOutput(&contacts[i])
	}

	return nil, FindContactsOutput{Contacts: result}, nil
}

type UpdateContactInput struct {
	ID           string `json:"id" jsonschema:"Contact ID (required)"`
	Name         string `json:"name,omitempty" jsonschema:"Updated full name"`
	FirstName    string `json:"first_name,omitempty" jsonschema:"Updated first name"`
	LastName     string `json:"last_name,omitempty" jsonschema:"Updated last name"`
	Title        string `json:"title,omitempty" jsonschema:"Updated job title"`
	Email        string `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone        string `json:"phone,omitempty" jsonschema:"Updated phone number"`
	CompanyName  string `json:"company_name,omitempty" jsonschema:"Move the contact to this company"`
	Organization string `json:"organization,omitempty" jsonschema:"Updated organization"`
	Notes        string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *ContactHandlers) UpdateContact(_ context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	contactID, err := requiredID(input.ID, "id")
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact not found")
	}

	setIf(&contact.Name, input.Name)
	setIf(&contact.FirstName, input.FirstName)
	setIf(&contact.LastName, input.LastName)
	setIf(&contact.Title, input.Title)
	setIf(&contact.Email, input.Email)
	setIf(&contact.Phone, input.Phone)
	setIf(&contact.Organization, input.Organization)
	setIf(&contact.Notes, input.Notes)

	if input.CompanyName != "" {
		company, err := findOrCreateCompany(h.db, input.CompanyName)
		if err != nil {
			return nil, ContactOutput{}, err
		}
		contact.CompanyID = &company.ID
	}

	if err := db.UpdateContact(h.db, contactID, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteOutput, error) {
	contactID, err := requiredID(input.ID, "id")
	if err != nil {
		return nil, DeleteOutput{}, err
	}

	if err := db.DeleteContact(h.db, contactID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteOutput{
		Success: true,
		Message: fmt.Sprintf("Contact %s deleted", contactID),
	}, nil
}

type AddNoteInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Content   string `json:"content" jsonschema:"Note text (required)"`
}

type NoteOutput struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (h *ContactHandlers) AddNote(_ context.Context, request *mcp.CallToolRequest, input AddNoteInput) (*mcp.CallToolResult, NoteOutput, error) {
	contactID, err := requiredID(input.ContactID, "contact_id")
	if err != nil {
		return nil, NoteOutput{}, err
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, NoteOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, NoteOutput{}, fmt.Errorf("contact not found")
	}

	note := &models.Note{ContactID: contactID, Content: input.Content}
	if err := db.CreateNote(h.db, note); err != nil {
		return nil, NoteOutput{}, fmt.Errorf("failed to add note: %w", err)
	}

	return nil, NoteOutput{
		ID:        note.ID.String(),
		ContactID: note.ContactID.String(),
		Content:   note.Content,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
	}, nil
}

func contactToOutput(contact *models.Contact) ContactOutput {
	output := ContactOutput{
		ID:           contact.ID.String(),
		Name:         contact.Name,
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		Title:        contact.Title,
		Email:        contact.Email,
		Phone:        contact.Phone,
		Organization: contact.Organization,
		Notes:        contact.Notes,
		CreatedAt:    contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    contact.UpdatedAt.Format(time.RFC3339),
	}

	if contact.CompanyID != nil {
		companyID := contact.CompanyID.String()
		output.CompanyID = &companyID
	}

	if contact.LastContactedAt != nil {
		lastContacted := contact.LastContactedAt.Format(time.RFC3339)
		output.LastContactedAt = &lastContacted
	}

	return output
}

func requiredID(value, field string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return id, nil
}

func optionalID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := requiredID(value, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func setIf(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
