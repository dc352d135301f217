// ABOUTME: Tests for call-flow, script, and call MCP tool handlers
// ABOUTME: Renders the embedded Dexit HIM flow against seeded contacts
package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/llm"
	"github.com/harperreed/callcoach/models"
)

func himSelector() FlowSelector {
	return FlowSelector{Product: callflow.ProductDexit, Approach: callflow.ApproachHIM}
}

func TestRenderScriptSubstitutesContact(t *testing.T) {
	c := setupTestCoach(t, nil)
	contact := seedContact(t, c)
	handler := NewFlowHandlers(c)

	_, rendered, err := handler.RenderScript(context.Background(), nil, RenderScriptInput{
		FlowSelector: himSelector(),
		Section:      "opening",
		ContactID:    contact.ID.String(),
	})
	if err != nil {
		t.Fatalf("RenderScript failed: %v", err)
	}

	if len(rendered.Items) != 2 {
		t.Fatalf("Expected 2 opening versions, got %d", len(rendered.Items))
	}
	if !strings.Contains(rendered.Items[0].Text, "Hi Dana") {
		t.Errorf("Expected contact first name in %q", rendered.Items[0].Text)
	}
	if !strings.Contains(rendered.Items[1].Text, "on Epic") {
		t.Errorf("Expected company EHR in %q", rendered.Items[1].Text)
	}
}

func TestRenderScriptNotesOverrideCompany(t *testing.T) {
	c := setupTestCoach(t, nil)
	contact := seedContact(t, c)
	handler := NewFlowHandlers(c)

	_, rendered, err := handler.RenderScript(context.Background(), nil, RenderScriptInput{
		FlowSelector: himSelector(),
		Section:      "objections",
		ContactID:    contact.ID.String(),
		Notes:        "dms: Laserfiche",
	})
	if err != nil {
		t.Fatalf("RenderScript failed: %v", err)
	}
	if !strings.Contains(rendered.Items[0].Text, "on top of Laserfiche") {
		t.Errorf("Expected notes DMS to win, got %q", rendered.Items[0].Text)
	}
}

func TestRenderScriptErrors(t *testing.T) {
	c := setupTestCoach(t, nil)
	handler := NewFlowHandlers(c)
	ctx := context.Background()

	if _, _, err := handler.RenderScript(ctx, nil, RenderScriptInput{FlowSelector: himSelector()}); err == nil {
		t.Error("Expected error for missing section")
	}
	if _, _, err := handler.RenderScript(ctx, nil, RenderScriptInput{FlowSelector: FlowSelector{FlowID: "nope"}, Section: "opening"}); err == nil {
		t.Error("Expected error for unknown flow id")
	}
	if _, _, err := handler.RenderScript(ctx, nil, RenderScriptInput{FlowSelector: himSelector(), Section: "opening", ContactID: "bad"}); err == nil {
		t.Error("Expected error for invalid contact id")
	}
}

func TestAddScriptMergesIntoFlow(t *testing.T) {
	c := setupTestCoach(t, nil)
	scripts := NewScriptHandlers(c)
	flows := NewFlowHandlers(c)
	ctx := context.Background()

	_, script, err := scripts.AddScript(ctx, nil, AddScriptInput{
		Name:        "Voicemail",
		Product:     callflow.ProductDexit,
		Approach:    callflow.ApproachHIM,
		SectionType: "opening",
		Variations:  []callflow.Variation{{Label: "Voicemail", Content: "Hi {{contact.first_name}}, quick one for you."}},
	})
	if err != nil {
		t.Fatalf("AddScript failed: %v", err)
	}
	if script.Version != 1 || !script.IsActive {
		t.Errorf("Unexpected new script state: %+v", script)
	}

	_, rendered, err := flows.RenderScript(ctx, nil, RenderScriptInput{FlowSelector: himSelector(), Section: "opening"})
	if err != nil {
		t.Fatalf("RenderScript failed: %v", err)
	}
	if len(rendered.Items) != 3 {
		t.Fatalf("Expected 3 opening versions after add, got %d", len(rendered.Items))
	}
	last := rendered.Items[2]
	if !last.Origin.FromDatabase() || last.Origin.ScriptID != script.ID {
		t.Errorf("Expected database origin for %s, got %+v", script.ID, last.Origin)
	}
	if last.Text != "Hi [First Name], quick one for you." {
		t.Errorf("Unexpected rendered text %q", last.Text)
	}

	_, listed, err := scripts.ListScripts(ctx, nil, ListScriptsInput{Product: "dexit"})
	if err != nil {
		t.Fatalf("ListScripts failed: %v", err)
	}
	if len(listed.Scripts) != 1 || listed.Scripts[0].UsageCount != 1 {
		t.Errorf("Expected one script rendered once, got %+v", listed.Scripts)
	}

	// Switching it off removes it from the flow
	if _, _, err := scripts.SetScriptActive(ctx, nil, SetScriptActiveInput{ID: script.ID, Active: false}); err != nil {
		t.Fatalf("SetScriptActive failed: %v", err)
	}
	_, rendered, err = flows.RenderScript(ctx, nil, RenderScriptInput{FlowSelector: himSelector(), Section: "opening"})
	if err != nil {
		t.Fatalf("RenderScript failed: %v", err)
	}
	if len(rendered.Items) != 2 {
		t.Errorf("Expected inactive script to drop out, got %d items", len(rendered.Items))
	}
}

func TestAddObjectionFindsResponse(t *testing.T) {
	c := setupTestCoach(t, nil)
	scripts := NewScriptHandlers(c)
	flows := NewFlowHandlers(c)
	ctx := context.Background()

	_, obj, err := scripts.AddObjection(ctx, nil, AddObjectionInput{
		Objection:    "We're in the middle of an Epic upgrade",
		Response:     "Perfect timing, {{contact.first_name}}. Upgrades are when indexing rules get rebuilt.",
		Alternatives: []string{"When does go-live land?"},
		Product:      callflow.ProductDexit,
		Approach:     callflow.ApproachHIM,
	})
	if err != nil {
		t.Fatalf("AddObjection failed: %v", err)
	}

	_, out, err := flows.FindObjectionResponse(ctx, nil, FindObjectionResponseInput{
		FlowSelector: himSelector(),
		Text:         "we have an upgrade going on",
	})
	if err != nil {
		t.Fatalf("FindObjectionResponse failed: %v", err)
	}
	if len(out.Answers) == 0 {
		t.Fatal("Expected an answer")
	}
	top := out.Answers[0]
	if top.Origin.ScriptID != obj.ID {
		t.Errorf("Expected the new objection first, got %+v", top)
	}
	if !strings.Contains(top.Response, "[First Name]") {
		t.Errorf("Expected placeholder for missing contact, got %q", top.Response)
	}

	_, found, err := scripts.FindObjections(ctx, nil, FindObjectionsInput{Query: "upgrade"})
	if err != nil {
		t.Fatalf("FindObjections failed: %v", err)
	}
	if len(found.Objections) != 1 || found.Objections[0].UsageCount != 1 {
		t.Errorf("Expected usage recorded on the matched objection, got %+v", found.Objections)
	}
}

func TestFindObjectionResponseDefaults(t *testing.T) {
	c := setupTestCoach(t, nil)
	handler := NewFlowHandlers(c)

	_, out, err := handler.FindObjectionResponse(context.Background(), nil, FindObjectionResponseInput{
		FlowSelector: himSelector(),
		Text:         "honestly we don't have budget",
	})
	if err != nil {
		t.Fatalf("FindObjectionResponse failed: %v", err)
	}
	if len(out.Answers) == 0 || !strings.Contains(out.Answers[0].Response, "overtime") {
		t.Errorf("Expected the budget response, got %+v", out.Answers)
	}
}

func TestMatchCompetitorHandler(t *testing.T) {
	c := setupTestCoach(t, nil)
	handler := NewFlowHandlers(c)

	_, out, err := handler.MatchCompetitor(context.Background(), nil, MatchCompetitorInput{System: "OnBase 18"})
	if err != nil {
		t.Fatalf("MatchCompetitor failed: %v", err)
	}
	if len(out.Competitors) != 1 || out.Competitors[0].Name != "OnBase (Hyland)" {
		t.Errorf("Unexpected matches %+v", out.Competitors)
	}

	if _, _, err := handler.MatchCompetitor(context.Background(), nil, MatchCompetitorInput{}); err == nil {
		t.Error("Expected error for missing system")
	}
}

func TestGeneratePitchHandler(t *testing.T) {
	fake := &llm.Fake{Text: "{{contact.first_name}}, {{context.dms}} stores documents. We read them."}
	c := setupTestCoach(t, fake)
	contact := seedContact(t, c)
	handler := NewFlowHandlers(c)

	_, out, err := handler.GeneratePitch(context.Background(), nil, GeneratePitchInput{
		FlowSelector: himSelector(),
		ContactID:    contact.ID.String(),
		Focus:        "backlog",
	})
	if err != nil {
		t.Fatalf("GeneratePitch failed: %v", err)
	}
	if out.Pitch != "Dana, OnBase stores documents. We read them." {
		t.Errorf("Unexpected pitch %q", out.Pitch)
	}
	if out.TotalTokens == 0 {
		t.Error("Expected token usage")
	}
	if !strings.Contains(fake.LastRequest().Prompt, "backlog") {
		t.Error("Expected focus in prompt")
	}

	none := NewFlowHandlers(setupTestCoach(t, nil))
	_, _, err = none.GeneratePitch(context.Background(), nil, GeneratePitchInput{FlowSelector: himSelector()})
	if !errors.Is(err, llm.ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestDraftObjectionSaves(t *testing.T) {
	fake := &llm.Fake{Text: "Then let's plan for next year's budget.\nAlternative: What would have to be true to fund it sooner?"}
	c := setupTestCoach(t, fake)
	handler := NewScriptHandlers(c)

	_, out, err := handler.DraftObjection(context.Background(), nil, DraftObjectionInput{
		Objection: "Our budget is frozen",
		Product:   callflow.ProductDexit,
		Approach:  callflow.ApproachHIM,
		Save:      true,
	})
	if err != nil {
		t.Fatalf("DraftObjection failed: %v", err)
	}
	if out.SavedID == "" {
		t.Fatal("Expected saved objection id")
	}
	if len(out.Alternatives) != 1 {
		t.Errorf("Expected one alternative, got %v", out.Alternatives)
	}

	saved, err := db.FindObjections(c.DB, "frozen", "", 5)
	if err != nil {
		t.Fatalf("FindObjections failed: %v", err)
	}
	if len(saved) != 1 || saved[0].Response != out.Response {
		t.Errorf("Expected saved draft, got %+v", saved)
	}
}

func TestLogCallHandler(t *testing.T) {
	c := setupTestCoach(t, nil)
	contact := seedContact(t, c)
	handler := NewCallHandlers(c)
	ctx := context.Background()

	if _, _, err := handler.LogCall(ctx, nil, LogCallInput{ContactID: contact.ID.String(), Outcome: "ghosted"}); err == nil {
		t.Error("Expected error for invalid outcome")
	}

	_, call, err := handler.LogCall(ctx, nil, LogCallInput{
		ContactID: contact.ID.String(),
		Outcome:   models.OutcomeMeetingSet,
		Product:   callflow.ProductDexit,
		CalledAt:  "2026-03-02T15:04:05Z",
	})
	if err != nil {
		t.Fatalf("LogCall failed: %v", err)
	}
	if call.CompanyID == nil || *call.CompanyID != contact.CompanyID.String() {
		t.Errorf("Expected company filled from contact, got %v", call.CompanyID)
	}

	_, listed, err := handler.ListCalls(ctx, nil, ListCallsInput{ContactID: contact.ID.String()})
	if err != nil {
		t.Fatalf("ListCalls failed: %v", err)
	}
	if len(listed.Calls) != 1 {
		t.Errorf("Expected 1 call, got %d", len(listed.Calls))
	}

	updated, err := db.GetContact(c.DB, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if updated.LastContactedAt == nil {
		t.Error("Expected last_contacted_at to be set")
	}
}
