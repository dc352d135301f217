// ABOUTME: Tests for call-coaching data models
// ABOUTME: Validates conversions into merge rows and template contexts
package models

import (
	"testing"

	"github.com/google/uuid"

	"github.com/harperreed/callcoach/callflow"
)

func TestScriptRow(t *testing.T) {
	script := &Script{
		ID:          uuid.New(),
		Name:        "Intro",
		Product:     "Dexit",
		Approach:    "HIM",
		SectionType: callflow.SectionOpening,
		Content:     "## Version 1: Intro\nHello",
		IsActive:    true,
	}

	row := script.Row()
	if row.ID != script.ID.String() {
		t.Errorf("expected row id %s, got %s", script.ID, row.ID)
	}
	if row.Section() != callflow.SectionOpening {
		t.Errorf("expected opening section, got %s", row.Section())
	}
	if !row.IsActive {
		t.Error("expected row to be active")
	}
}

func TestObjectionRow(t *testing.T) {
	obj := &Objection{
		ID:           uuid.New(),
		Objection:    "Too expensive",
		Response:     "It pays back in a quarter.",
		Alternatives: []string{"What did you budget?"},
		Product:      "Dexit",
		IsActive:     true,
	}

	row := obj.Row()
	if row.Section() != callflow.SectionObjections {
		t.Errorf("expected objections section, got %s", row.Section())
	}
	parsed := callflow.ParseScriptObjection(row.Content)
	if parsed.Objection != "Too expensive" || parsed.Response != "It pays back in a quarter." {
		t.Errorf("unexpected parsed objection: %+v", parsed)
	}
	if len(parsed.Alternatives) != 1 {
		t.Errorf("expected 1 alternative, got %d", len(parsed.Alternatives))
	}

	obj.Competitor = "OnBase"
	if got := obj.Row().Section(); got != callflow.SectionCompetitorObjection {
		t.Errorf("expected competitor objection section, got %s", got)
	}
}

func TestTemplateContact(t *testing.T) {
	contact := &Contact{Name: "Dana Reyes", Title: "HIM Director"}
	company := &Company{Name: "Mercy General", EHR: "Epic"}

	ctx := contact.TemplateContact(company)
	if ctx.Organization != "Mercy General" {
		t.Errorf("expected organization from company, got %q", ctx.Organization)
	}

	contact.Organization = "Mercy Health System"
	if got := contact.TemplateContact(company).Organization; got != "Mercy Health System" {
		t.Errorf("expected contact organization to win, got %q", got)
	}

	if company.ScriptContext().EHR != "Epic" {
		t.Error("expected company EHR in script context")
	}
}

func TestValidOutcome(t *testing.T) {
	if !ValidOutcome(OutcomeMeetingSet) {
		t.Error("meeting_set should be valid")
	}
	if ValidOutcome("maybe") {
		t.Error("maybe should not be valid")
	}
}

func TestDisplayName(t *testing.T) {
	c := &Contact{FirstName: "Dana", LastName: "Reyes"}
	if c.DisplayName() != "Dana Reyes" {
		t.Errorf("unexpected display name %q", c.DisplayName())
	}
}
