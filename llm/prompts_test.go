// ABOUTME: Tests for pitch and objection prompt composition
// ABOUTME: Uses the Fake generator, no network
package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/callcoach/callflow"
)

func testFlow() *callflow.CallFlow {
	return &callflow.CallFlow{
		Product:  callflow.ProductDexit,
		Approach: callflow.ApproachHIM,
		Sections: callflow.Sections{
			TransitionToPitch: []callflow.Transition{{Trigger: "Backlog", Pitch: "We clear scanning backlogs."}},
			Objections: []callflow.ObjectionItem{
				{Objection: "We don't have budget", Response: "It pays for itself.", Keywords: []string{"budget"}},
				{Objection: "Send me an email", Response: "Happy to.", Keywords: []string{"email"}},
			},
		},
	}
}

func TestBuildPitchPrompt(t *testing.T) {
	prompt := BuildPitchPrompt(PitchInput{
		Flow: testFlow(),
		Template: callflow.TemplateContext{
			Contact: callflow.ContactContext{Name: "Dana Reyes", Organization: "Mercy General"},
			Script:  callflow.ScriptContext{EHR: "Epic"},
		},
		Competitor: &callflow.Competitor{Name: "OnBase (Hyland)", BottomLine: "We replace it in weeks."},
		Notes:      "Backlog of 3 weeks",
	})

	for _, want := range []string{"Product: Dexit", "Backlog: We clear", "Dana Reyes, unknown at Mercy General", "EHR=Epic DMS=unknown", "OnBase (Hyland)", "Backlog of 3 weeks"} {
		assert.Contains(t, prompt, want)
	}
}

func TestGeneratePitchSubstitutesVariables(t *testing.T) {
	fake := &Fake{Text: "Hi {{contact.first_name}}, this is {{rep.first_name}}."}
	tc := callflow.TemplateContext{
		Contact: callflow.ContactContext{FirstName: "Dana"},
		Rep:     callflow.RepContext{FirstName: "Jordan"},
	}

	text, usage, err := GeneratePitch(context.Background(), fake, PitchInput{Flow: testFlow(), Template: tc})
	require.NoError(t, err)
	assert.Equal(t, "Hi Dana, this is Jordan.", text)
	assert.Greater(t, usage.Total, int32(0))
	assert.Equal(t, pitchSystem, fake.LastRequest().System)
}

func TestGeneratePitchError(t *testing.T) {
	fake := &Fake{Err: errors.New("quota")}
	_, _, err := GeneratePitch(context.Background(), fake, PitchInput{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "quota"))
}

func TestDraftObjectionResponse(t *testing.T) {
	fake := &Fake{Text: "Most teams start without budget.\nAlternative: What would it cost to wait a year?"}

	draft, _, err := DraftObjectionResponse(context.Background(), fake, "No budget this year", testFlow(), callflow.TemplateContext{})
	require.NoError(t, err)
	assert.Equal(t, "No budget this year", draft.Objection)
	assert.Equal(t, "Most teams start without budget.", draft.Response)
	assert.Equal(t, []string{"What would it cost to wait a year?"}, draft.Alternatives)

	prompt := fake.LastRequest().Prompt
	assert.Contains(t, prompt, "It pays for itself.")
	assert.NotContains(t, prompt, "Happy to.")
}

func TestNewGenAIRequiresKey(t *testing.T) {
	_, err := NewGenAI(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
