// ABOUTME: Tests for the script-row content parser and the authoring formatter
// ABOUTME: Checks each section dialect and that formatted content reads back the same
package callflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptVersions(t *testing.T) {
	got := ParseScriptVersions("## Version 1: Intro\nHello")
	want := []Version{{Number: 1, Label: "Intro", Content: "Hello", Origin: Origin{Kind: OriginMarkdown}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScriptVersionsUnlabelledBlocks(t *testing.T) {
	got := ParseScriptVersions("Plain opener\n---\n## Version 2: Second\nMore\nlines\n---\n\n")

	require.Len(t, got, 2)
	assert.Equal(t, "Version 1", got[0].Label)
	assert.Equal(t, "Plain opener", got[0].Content)
	assert.Equal(t, "Second", got[1].Label)
	assert.Equal(t, "More\nlines", got[1].Content)
	assert.Equal(t, 2, got[1].Number)
}

func TestFormatVariationsRoundTrip(t *testing.T) {
	for _, section := range []string{SectionOpening, SectionClosing} {
		t.Run(section, func(t *testing.T) {
			variations := []Variation{
				{Label: "Warm", Content: "Hi {{contact.first_name}}."},
				{Label: "", Content: "Hello there.\nQuick question."},
				{Label: "Referral", Content: "A colleague sent me."},
			}
			parsed := ParseScriptContent(FormatVariations(variations, section), section)

			require.Len(t, parsed.Versions, len(variations))
			assert.Equal(t, "Warm", parsed.Versions[0].Label)
			assert.Equal(t, "Version 2", parsed.Versions[1].Label)
			assert.Equal(t, "Referral", parsed.Versions[2].Label)
			assert.Equal(t, "Hello there.\nQuick question.", parsed.Versions[1].Content)
		})
	}
}

func TestParseScriptObjection(t *testing.T) {
	content := "**Response:**\nFirst line\nsecond line\n\n**Alternative 1:**\nAlt one\n**Alternative 2:**\nAlt two"
	got := ParseScriptObjection(content)

	assert.Equal(t, "", got.Objection)
	assert.Equal(t, "First line second line", got.Response)
	assert.Equal(t, []string{"Alt one", "Alt two"}, got.Alternatives)
}

func TestParseScriptObjectionDefaultsToResponse(t *testing.T) {
	got := ParseScriptObjection("It pays for itself in a quarter.")
	assert.Equal(t, "It pays for itself in a quarter.", got.Response)
	assert.Empty(t, got.Alternatives)
}

func TestFormatObjectionRoundTrip(t *testing.T) {
	content := FormatObjection("Too expensive", "It pays back in months.", []string{"What budget did you plan?", "Can we phase it?"})
	got := ParseScriptObjection(content)

	assert.Equal(t, "Too expensive", got.Objection)
	assert.Equal(t, "It pays back in months.", got.Response)
	assert.Equal(t, []string{"What budget did you plan?", "Can we phase it?"}, got.Alternatives)
}

func TestParseScriptDiscovery(t *testing.T) {
	content := FormatDiscovery("How many docs a day?", "Sizes volume.", []string{"volume", "Backlog"})
	got := ParseScriptDiscovery(content)

	assert.Equal(t, "How many docs a day?", got.Question)
	assert.Equal(t, "Sizes volume.", got.Why)
	assert.Equal(t, []string{"volume", "backlog"}, got.Keywords)
}

func TestParseScriptDiscoveryDerivesKeywords(t *testing.T) {
	got := ParseScriptDiscovery("Who owns document indexing today?")
	assert.Equal(t, []string{"owns", "document", "indexing", "today"}, got.Keywords)
	assert.Empty(t, got.Why)
}

func TestParseScriptTransition(t *testing.T) {
	plain := ParseScriptTransition("Let's talk about your backlog.")
	assert.Equal(t, TriggerCustom, plain.Trigger)
	assert.Equal(t, "Let's talk about your backlog.", plain.Pitch)
	assert.Equal(t, plain.Pitch, plain.Content)
	assert.Empty(t, plain.Label)

	labelled := ParseScriptTransition("## Version 1: Bridge\nSo here's the thing.")
	assert.Equal(t, TriggerCustom, labelled.Trigger)
	assert.Equal(t, "Bridge", labelled.Label)
	assert.Equal(t, "So here's the thing.", labelled.Pitch)
}

func TestParseScriptContentDispatch(t *testing.T) {
	legacy := ParseScriptContent("Bridge line", "transition")
	assert.Equal(t, SectionTransitionToPitch, legacy.SectionType)
	require.NotNil(t, legacy.Transition)
	assert.Equal(t, "Bridge line", legacy.Transition.Pitch)

	unknown := ParseScriptContent("anything", "voicemail")
	assert.Nil(t, unknown.Versions)
	assert.Nil(t, unknown.Objection)
	assert.Equal(t, "anything", unknown.Raw)
}
