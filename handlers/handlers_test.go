// ABOUTME: Shared fixtures for handler tests
// ABOUTME: Opens a temp database and a coach over the embedded call flows
package handlers

import (
	"path/filepath"
	"testing"

	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/llm"
	"github.com/harperreed/callcoach/models"
)

func setupTestCoach(t *testing.T, gen llm.Generator) *coach.Coach {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	c, err := coach.New(database, "", nil, gen)
	if err != nil {
		t.Fatalf("Failed to create coach: %v", err)
	}
	return c
}

func seedContact(t *testing.T, c *coach.Coach) *models.Contact {
	t.Helper()
	company := &models.Company{Name: "Mercy General", EHR: "Epic", DMS: "OnBase"}
	if err := db.CreateCompany(c.DB, company); err != nil {
		t.Fatalf("Failed to create company: %v", err)
	}
	contact := &models.Contact{FirstName: "Dana", LastName: "Reyes", Title: "HIM Director", CompanyID: &company.ID}
	if err := db.CreateContact(c.DB, contact); err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	return contact
}
