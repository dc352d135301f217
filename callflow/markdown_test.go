// ABOUTME: Tests for the markdown call-flow parser
// ABOUTME: Covers filename metadata, section splitting, and each section sub-parser
package callflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleFlow = `# Dexit HIM Call Flow

## OPENING
Version 1 (Direct):
"Hi {{contact.first_name}}, this is {{rep.first_name}} with {{rep.company}}."
"Do you have a minute?"
Version 2 (Referral):
"A colleague suggested I reach out."

---

## TRANSITION TO DISCOVERY
If they mention a backlog:
"Let me ask a few questions about that."

## DISCOVERY QUESTIONS
"How are documents indexed today?"
Why: Reveals manual indexing effort.
"What does your current backlog look like?"
Why: Sizes the pain.

## TRANSITION TO PITCH
Based on what you said:
"That's exactly the gap we close."

## OBJECTION HANDLING
"We already have a document system."
Response:
"Most of our customers did too."
Alternative:
"What would you change about it?"

## CLOSING
Version 1 (Standard):
"Would Tuesday work for a demo?"
`

func TestParseCallFlowMetadata(t *testing.T) {
	flow := ParseCallFlow(sampleFlow, "dexit-him-v2.md")

	if flow.ID == "" {
		t.Error("ID was not set")
	}
	if flow.Name != "Dexit HIM Call Flow" {
		t.Errorf("Expected name from heading, got %q", flow.Name)
	}
	if flow.Product != ProductDexit {
		t.Errorf("Expected product Dexit, got %s", flow.Product)
	}
	if flow.Approach != ApproachHIM {
		t.Errorf("Expected approach HIM, got %s", flow.Approach)
	}
	if flow.Version != 2 {
		t.Errorf("Expected version 2, got %d", flow.Version)
	}
	if flow.Sections.CompetitorObjections != nil {
		t.Error("Competitor objections should be nil before merge")
	}
}

func TestParseCallFlowIDsAreUnique(t *testing.T) {
	a := ParseCallFlow(sampleFlow, "dexit-him-v2.md")
	b := ParseCallFlow(sampleFlow, "dexit-him-v2.md")
	if a.ID == b.ID {
		t.Errorf("Expected distinct IDs, both were %s", a.ID)
	}
}

func TestDetectApproach(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"dexit-rc-v1.md", ApproachRevenueCycle},
		{"muspell-revenue-cycle.md", ApproachRevenueCycle},
		{"dexit-ambulatory-v3.md", ApproachAmbulatory},
		{"dexit-him-v2.md", ApproachHIM},
		{"muspell-him.md", ApproachHIM},
		{"dexit-it-v1.md", ApproachIT},
		{"dexit-applications.md", ApproachIT},
		{"dexit.md", ApproachIT},
		{"dexit-v1.md", ApproachIT},
		{"dexit-general.md", ApproachIT},
		{"muspell-v2.md", ApproachGeneral},
		{"notes.txt", ApproachGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectApproach(tt.filename); got != tt.want {
				t.Errorf("DetectApproach(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectProductAndVersion(t *testing.T) {
	if got := DetectProduct("MUSPELL-it.md"); got != ProductMuspell {
		t.Errorf("Expected Muspell, got %s", got)
	}
	if got := DetectProduct("other.md"); got != ProductUnknown {
		t.Errorf("Expected Unknown, got %s", got)
	}
	if got := DetectVersion("dexit-him-v12.md"); got != 12 {
		t.Errorf("Expected version 12, got %d", got)
	}
	if got := DetectVersion("revenue-cycle.md"); got != 1 {
		t.Errorf("Expected default version 1, got %d", got)
	}
}

func TestParseOpeningVersions(t *testing.T) {
	flow := ParseCallFlow(sampleFlow, "dexit-him-v2.md")

	want := []Version{
		{Number: 1, Label: "Direct", Content: "Hi {{contact.first_name}}, this is {{rep.first_name}} with {{rep.company}}. Do you have a minute?", Origin: Origin{Kind: OriginMarkdown}},
		{Number: 2, Label: "Referral", Content: "A colleague suggested I reach out.", Origin: Origin{Kind: OriginMarkdown}},
	}
	if diff := cmp.Diff(want, flow.Sections.Opening.Versions); diff != "" {
		t.Errorf("opening mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDiscovery(t *testing.T) {
	flow := ParseCallFlow(sampleFlow, "dexit-him-v2.md")
	discovery := flow.Sections.Discovery

	if len(discovery) != 2 {
		t.Fatalf("Expected 2 discovery questions, got %d", len(discovery))
	}
	if discovery[0].Question != "How are documents indexed today?" {
		t.Errorf("Unexpected question: %q", discovery[0].Question)
	}
	if discovery[0].Why != "Reveals manual indexing effort." {
		t.Errorf("Unexpected why: %q", discovery[0].Why)
	}
	if diff := cmp.Diff([]string{"documents", "indexed", "today"}, discovery[0].Keywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	for _, d := range discovery {
		for _, k := range d.Keywords {
			if len(k) <= 3 || stopWords[k] {
				t.Errorf("Keyword %q should have been dropped", k)
			}
		}
	}
}

func TestParseTransitions(t *testing.T) {
	flow := ParseCallFlow(sampleFlow, "dexit-him-v2.md")

	toDiscovery := flow.Sections.TransitionToDiscovery
	if len(toDiscovery) != 1 {
		t.Fatalf("Expected 1 transition to discovery, got %d", len(toDiscovery))
	}
	if toDiscovery[0].Trigger != "a backlog" {
		t.Errorf("Expected trigger 'a backlog', got %q", toDiscovery[0].Trigger)
	}
	if toDiscovery[0].Pitch != "Let me ask a few questions about that." {
		t.Errorf("Unexpected pitch: %q", toDiscovery[0].Pitch)
	}

	toPitch := flow.Sections.TransitionToPitch
	if len(toPitch) != 1 || toPitch[0].Trigger != "what you said" {
		t.Errorf("Unexpected transition to pitch: %+v", toPitch)
	}
}

func TestParseObjections(t *testing.T) {
	flow := ParseCallFlow(sampleFlow, "dexit-him-v2.md")
	objections := flow.Sections.Objections

	if len(objections) != 1 {
		t.Fatalf("Expected 1 objection, got %d", len(objections))
	}
	o := objections[0]
	if o.Objection != "We already have a document system." {
		t.Errorf("Unexpected objection: %q", o.Objection)
	}
	if o.Response != "Most of our customers did too." {
		t.Errorf("Unexpected response: %q", o.Response)
	}
	if diff := cmp.Diff([]string{"What would you change about it?"}, o.Alternatives); diff != "" {
		t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
	}
}

func TestParseObjectionsConsecutiveAlternatives(t *testing.T) {
	doc := `## OBJECTION HANDLING
"Send me some information."
Response:
"Happy to, what should it cover?"
Alternative:
Alternative:
"Can I send it after a ten minute call?"
"We are too busy right now."
`
	objections := ParseCallFlow(doc, "dexit-him.md").Sections.Objections

	if len(objections) != 1 {
		t.Fatalf("Expected quoted line during capture to extend the alternative, got %d objections", len(objections))
	}
	want := []string{"Can I send it after a ten minute call? We are too busy right now."}
	if diff := cmp.Diff(want, objections[0].Alternatives); diff != "" {
		t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
	}
}

func TestParseObjectionsQuotedHeadings(t *testing.T) {
	doc := `## OBJECTION HANDLING
### "We're closing our budget for the year"
Response:
"Let's plan for next year then."

**"Not interested."**
Response:
"Totally fair."
`
	objections := ParseCallFlow(doc, "dexit-him.md").Sections.Objections

	if len(objections) != 2 {
		t.Fatalf("Expected 2 objections, got %d", len(objections))
	}
	if objections[0].Objection != "We're closing our budget for the year" {
		t.Errorf("Unexpected objection: %q", objections[0].Objection)
	}
	if objections[1].Response != "Totally fair." {
		t.Errorf("Unexpected response: %q", objections[1].Response)
	}
}

func TestParseCallFlowPlainHeaders(t *testing.T) {
	doc := "Opening Lines:\nVersion 1 (Standard):\n\"Hi there\"\nObjection handling\n\"Too expensive\"\nResponse:\n\"It pays back\"\n"
	s := ParseCallFlow(doc, "dexit-him-v1.md").Sections

	want := []Version{{Number: 1, Label: "Standard", Content: "Hi there", Origin: Origin{Kind: OriginMarkdown}}}
	if diff := cmp.Diff(want, s.Opening.Versions); diff != "" {
		t.Errorf("opening mismatch (-want +got):\n%s", diff)
	}
	if len(s.Objections) != 1 {
		t.Fatalf("Expected 1 objection, got %d", len(s.Objections))
	}
	if s.Objections[0].Objection != "Too expensive" || s.Objections[0].Response != "It pays back" {
		t.Errorf("Unexpected objection: %+v", s.Objections[0])
	}
}

func TestParseClosingQuotedVersions(t *testing.T) {
	doc := `## CLOSING
Standard close:
"Would you be open to a thirty minute demo next Tuesday afternoon?"
Technical close:
"Could we loop in your integration team for a technical deep dive?"
"Thanks!"
`
	versions := ParseCallFlow(doc, "dexit-him.md").Sections.Closing.Versions

	if len(versions) != 2 {
		t.Fatalf("Expected 2 versions, got %d", len(versions))
	}
	if versions[0].Label != "Standard" || versions[1].Label != "Technical" {
		t.Errorf("Unexpected labels: %q, %q", versions[0].Label, versions[1].Label)
	}
	if versions[1].Number != 2 {
		t.Errorf("Expected number 2, got %d", versions[1].Number)
	}
}

func TestParseClosingWholeBuffer(t *testing.T) {
	doc := "## CLOSING\nAsk for the meeting.\nConfirm the time.\n"
	versions := ParseCallFlow(doc, "dexit-him.md").Sections.Closing.Versions

	want := []Version{{Number: 1, Label: "Standard", Content: "Ask for the meeting. Confirm the time.", Origin: Origin{Kind: OriginMarkdown}}}
	if diff := cmp.Diff(want, versions); diff != "" {
		t.Errorf("closing mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCallFlowMalformed(t *testing.T) {
	flow := ParseCallFlow("just some prose\nwith no headers", "notes.md")

	if flow.Name != "Unknown General Call Flow" {
		t.Errorf("Unexpected default name: %q", flow.Name)
	}
	s := flow.Sections
	if len(s.Opening.Versions)+len(s.Closing.Versions)+len(s.Discovery)+len(s.Objections)+
		len(s.TransitionToDiscovery)+len(s.TransitionToPitch) != 0 {
		t.Errorf("Expected empty sections, got %+v", s)
	}
}

func TestCloneIsDeep(t *testing.T) {
	flow := ParseCallFlow(sampleFlow, "dexit-him-v2.md")
	clone := flow.Clone()

	clone.Sections.Opening.Versions[0].Label = "Changed"
	clone.Sections.Objections[0].Alternatives[0] = "Changed"

	if flow.Sections.Opening.Versions[0].Label == "Changed" {
		t.Error("Clone shares opening versions")
	}
	if flow.Sections.Objections[0].Alternatives[0] == "Changed" {
		t.Error("Clone shares objection alternatives")
	}
}
