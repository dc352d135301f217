// ABOUTME: Tests for contact, company, call log, and note operations
// ABOUTME: Uses in-memory SQLite via setupTestDB
package db

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/models"
)

func TestContactLifecycle(t *testing.T) {
	db := setupTestDB(t)

	company := &models.Company{Name: "Mercy General", EHR: "Epic", DMS: "OnBase"}
	if err := CreateCompany(db, company); err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}

	contact := &models.Contact{FirstName: "Dana", LastName: "Reyes", Email: "dana@mercy.org", CompanyID: &company.ID}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	if contact.Name != "Dana Reyes" {
		t.Errorf("expected name derived from first/last, got %q", contact.Name)
	}

	got, err := GetContact(db, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if got == nil || got.CompanyID == nil || *got.CompanyID != company.ID {
		t.Fatalf("expected contact linked to company, got %+v", got)
	}

	byEmail, err := FindContactByEmail(db, "DANA@mercy.org")
	if err != nil || byEmail == nil {
		t.Fatalf("FindContactByEmail failed: %v", err)
	}

	got.Title = "HIM Director"
	if err := UpdateContact(db, got.ID, got); err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}
	got, _ = GetContact(db, contact.ID)
	if got.Title != "HIM Director" {
		t.Errorf("expected updated title, got %q", got.Title)
	}

	found, err := FindContacts(db, "reyes", nil, 10)
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("expected 1 contact, got %d", len(found))
	}

	if err := DeleteContact(db, contact.ID); err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	got, err = GetContact(db, contact.ID)
	if err != nil || got != nil {
		t.Errorf("expected contact gone, got %+v (%v)", got, err)
	}
}

func TestGetContactMissing(t *testing.T) {
	db := setupTestDB(t)

	got, err := GetContact(db, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing contact")
	}
}

func TestDeleteCompanyUnlinksContacts(t *testing.T) {
	db := setupTestDB(t)

	company := &models.Company{Name: "Valley Clinic"}
	if err := CreateCompany(db, company); err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}
	contact := &models.Contact{Name: "Sam Ortiz", CompanyID: &company.ID}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	if err := DeleteCompany(db, company.ID); err != nil {
		t.Fatalf("DeleteCompany failed: %v", err)
	}

	got, _ := GetContact(db, contact.ID)
	if got == nil {
		t.Fatal("contact should survive company deletion")
	}
	if got.CompanyID != nil {
		t.Errorf("expected company link cleared, got %v", got.CompanyID)
	}

	byName, err := FindCompanyByName(db, "valley clinic")
	if err != nil || byName != nil {
		t.Errorf("expected company gone, got %+v (%v)", byName, err)
	}
}

func TestCallLogs(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Dana Reyes"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	if err := CreateCallLog(db, &models.CallLog{ContactID: contact.ID, Outcome: "maybe"}); err == nil {
		t.Error("expected invalid outcome to be rejected")
	}

	calledAt := time.Now().Add(-time.Hour)
	calls := []models.CallLog{
		{ContactID: contact.ID, Product: "Dexit", Outcome: models.OutcomeVoicemail, CalledAt: calledAt},
		{ContactID: contact.ID, Product: "Dexit", Outcome: models.OutcomeMeetingSet, CalledAt: calledAt.Add(time.Minute)},
		{ContactID: contact.ID, Product: "Muspell", Outcome: models.OutcomeConnected, CalledAt: calledAt.Add(2 * time.Minute)},
	}
	for i := range calls {
		if err := CreateCallLog(db, &calls[i]); err != nil {
			t.Fatalf("CreateCallLog failed: %v", err)
		}
	}

	listed, err := ListCallLogs(db, &contact.ID, 10)
	if err != nil {
		t.Fatalf("ListCallLogs failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(listed))
	}
	if listed[0].Outcome != models.OutcomeConnected {
		t.Errorf("expected newest call first, got %s", listed[0].Outcome)
	}

	got, _ := GetContact(db, contact.ID)
	if got.LastContactedAt == nil {
		t.Error("expected last contacted to be set")
	}

	stats, err := GetCallStats(db, time.Time{})
	if err != nil {
		t.Fatalf("GetCallStats failed: %v", err)
	}
	if stats.Total != 3 || stats.Meetings != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.ByProduct["Dexit"] != 2 {
		t.Errorf("expected 2 Dexit calls, got %d", stats.ByProduct["Dexit"])
	}
	if rate := stats.ConnectRate(); rate < 0.66 || rate > 0.67 {
		t.Errorf("expected connect rate of 2/3, got %f", rate)
	}
}

func TestContactNotesText(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Dana Reyes", Notes: "ehr: Epic"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	if err := CreateNote(db, &models.Note{ContactID: contact.ID, Content: "They scan 400 pages a day"}); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if err := CreateNote(db, &models.Note{ContactID: contact.ID, Content: "  "}); err == nil {
		t.Error("expected blank note to be rejected")
	}

	text, err := ContactNotesText(db, contact.ID)
	if err != nil {
		t.Fatalf("ContactNotesText failed: %v", err)
	}
	if !strings.HasPrefix(text, "ehr: Epic\n") || !strings.Contains(text, "400 pages a day") {
		t.Errorf("unexpected notes text %q", text)
	}
}
