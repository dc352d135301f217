// ABOUTME: Tests for contact and company MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/harperreed/callcoach/db"
)

func TestAddContactHandler(t *testing.T) {
	c := setupTestCoach(t, nil)
	handler := NewContactHandlers(c.DB)

	_, output, err := handler.AddContact(context.Background(), nil, AddContactInput{
		FirstName:   "Dana",
		LastName:    "Reyes",
		Email:       "dana@mercy.org",
		CompanyName: "Mercy General",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	if output.Name != "Dana Reyes" {
		t.Errorf("Expected name 'Dana Reyes', got %q", output.Name)
	}
	if output.ID == "" {
		t.Error("ID was not set")
	}
	if output.CompanyID == nil {
		t.Fatal("Company ID was not set")
	}

	// A second contact reuses the company
	_, second, err := handler.AddContact(context.Background(), nil, AddContactInput{
		Name:        "Sam Ortiz",
		CompanyName: "Mercy General",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}
	if second.CompanyID == nil || *second.CompanyID != *output.CompanyID {
		t.Errorf("Expected company %s to be reused, got %v", *output.CompanyID, second.CompanyID)
	}
}

func TestAddContactRequiresName(t *testing.T) {
	c := setupTestCoach(t, nil)
	handler := NewContactHandlers(c.DB)

	_, _, err := handler.AddContact(context.Background(), nil, AddContactInput{Email: "nobody@example.com"})
	if err == nil {
		t.Error("Expected error for missing name")
	}
}

func TestUpdateContactHandler(t *testing.T) {
	c := setupTestCoach(t, nil)
	contact := seedContact(t, c)
	handler := NewContactHandlers(c.DB)

	_, output, err := handler.UpdateContact(context.Background(), nil, UpdateContactInput{
		ID:    contact.ID.String(),
		Title: "VP Revenue Cycle",
	})
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}
	if output.Title != "VP Revenue Cycle" {
		t.Errorf("Expected updated title, got %q", output.Title)
	}
	if output.FirstName != "Dana" {
		t.Errorf("Expected first name to be kept, got %q", output.FirstName)
	}

	_, _, err = handler.UpdateContact(context.Background(), nil, UpdateContactInput{ID: "not-a-uuid"})
	if err == nil {
		t.Error("Expected error for invalid id")
	}
}

func TestAddNoteAndDeleteContact(t *testing.T) {
	c := setupTestCoach(t, nil)
	contact := seedContact(t, c)
	handler := NewContactHandlers(c.DB)
	ctx := context.Background()

	_, note, err := handler.AddNote(ctx, nil, AddNoteInput{ContactID: contact.ID.String(), Content: "dms: Laserfiche"})
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if note.Content != "dms: Laserfiche" {
		t.Errorf("Unexpected note content %q", note.Content)
	}

	text, err := db.ContactNotesText(c.DB, contact.ID)
	if err != nil {
		t.Fatalf("ContactNotesText failed: %v", err)
	}
	if !strings.Contains(text, "Laserfiche") {
		t.Errorf("Expected note in notes text, got %q", text)
	}

	_, out, err := handler.DeleteContact(ctx, nil, DeleteContactInput{ID: contact.ID.String()})
	if err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	if !out.Success {
		t.Error("Expected success")
	}

	_, _, err = handler.AddNote(ctx, nil, AddNoteInput{ContactID: contact.ID.String(), Content: "too late"})
	if err == nil {
		t.Error("Expected error adding a note to a deleted contact")
	}
}

func TestCompanyHandlers(t *testing.T) {
	c := setupTestCoach(t, nil)
	handler := NewCompanyHandlers(c.DB)
	ctx := context.Background()

	_, company, err := handler.AddCompany(ctx, nil, AddCompanyInput{Name: "St. Luke's", EHR: "Cerner"})
	if err != nil {
		t.Fatalf("AddCompany failed: %v", err)
	}

	_, updated, err := handler.UpdateCompany(ctx, nil, UpdateCompanyInput{ID: company.ID, DMS: "OnBase"})
	if err != nil {
		t.Fatalf("UpdateCompany failed: %v", err)
	}
	if updated.EHR != "Cerner" || updated.DMS != "OnBase" {
		t.Errorf("Unexpected systems EHR=%q DMS=%q", updated.EHR, updated.DMS)
	}

	_, found, err := handler.FindCompanies(ctx, nil, FindCompaniesInput{Query: "onbase"})
	if err != nil {
		t.Fatalf("FindCompanies failed: %v", err)
	}
	if len(found.Companies) != 1 {
		t.Errorf("Expected 1 company matching DMS, got %d", len(found.Companies))
	}

	if _, _, err := handler.AddCompany(ctx, nil, AddCompanyInput{}); err == nil {
		t.Error("Expected error for missing name")
	}
}
