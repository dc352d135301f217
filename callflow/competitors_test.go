// ABOUTME: Tests for the competitor-objection parser
// ABOUTME: Covers competitor sections, sub-objections, ids, and keyword generation
package callflow

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompetitors = `# Competitor Objections

1. OnBase (Hyland)

What They'll Say:
"We just renewed OnBase."
"OnBase does everything we need."

What You Need to Know:
OnBase is a general ECM platform.
It needs heavy customization.

Your Response Framework:
Acknowledge the investment.
They'll often push back on cost.

Deeper Objection Handling:
"We already paid for custom integrations."
Response:
Those integrations are sunk cost.
Dexit works alongside them.
Alternative:
What would it take to retire them?

Bottom Line:
Dexit adds AI indexing on top of what you own.

2. Epic Gallery
What They'll Say: "Epic handles our documents."
`

func TestParseCompetitorObjections(t *testing.T) {
	doc := ParseCompetitorObjections(sampleCompetitors)
	require.Len(t, doc.Competitors, 2)

	onbase := doc.Competitors[0]
	assert.Equal(t, "onbase_hyland", onbase.ID)
	assert.Equal(t, "OnBase (Hyland)", onbase.Name)
	assert.Len(t, onbase.CommonObjections, 2)
	assert.Equal(t, "OnBase is a general ECM platform. It needs heavy customization.", onbase.Background)
	assert.Equal(t, "Acknowledge the investment.", onbase.InitialResponse)
	assert.Equal(t, "Dexit adds AI indexing on top of what you own.", onbase.BottomLine)

	require.Len(t, onbase.SubObjections, 1)
	sub := onbase.SubObjections[0]
	assert.Equal(t, "We already paid for custom integrations.", sub.Objection)
	assert.Equal(t, "Those integrations are sunk cost.\n\nDexit works alongside them.", sub.Response)
	assert.Equal(t, []string{"What would it take to retire them?"}, sub.Alternatives)
	assert.Equal(t, "onbase_hyland_we_already_paid_for_custom_int", sub.ID)
	assert.False(t, sub.FromDatabase())

	epic := doc.Competitors[1]
	assert.Equal(t, "epic_gallery", epic.ID)
	assert.Equal(t, []string{"Epic handles our documents."}, epic.CommonObjections)
}

func TestParseCompetitorObjectionsEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n\n  "} {
		doc := ParseCompetitorObjections(input)
		if doc.Competitors == nil || len(doc.Competitors) != 0 {
			t.Errorf("Expected empty non-nil competitors for %q, got %#v", input, doc.Competitors)
		}
	}
}

func TestParseCompetitorObjectionsIndentedNumbersAreNotHeadings(t *testing.T) {
	doc := ParseCompetitorObjections("1. Epic\nWhat You Need to Know:\n  2. Gallery is bundled.\n")
	require.Len(t, doc.Competitors, 1)
	assert.Equal(t, "2. Gallery is bundled.", doc.Competitors[0].Background)
}

func TestParseCompetitorObjectionsUniqueIDs(t *testing.T) {
	doc := ParseCompetitorObjections("1. Epic\n2. Epic\n")
	require.Len(t, doc.Competitors, 2)
	assert.Equal(t, "epic", doc.Competitors[0].ID)
	assert.Equal(t, "epic_2", doc.Competitors[1].ID)
}

func TestSubObjectionIDTruncatesByCharacter(t *testing.T) {
	id := SubObjectionID("epic", "Ça coûte trop cher pour nous cette année, vraiment")
	assert.Equal(t, "epic_ça_coûte_trop_cher_pour_nous_c", id)
	assert.True(t, utf8.ValidString(id))

	assert.Equal(t, "epic_too_expensive", SubObjectionID("epic", "Too expensive!"))
}

func TestCompetitorKeywords(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"OnBase (Hyland)", []string{"onbase (hyland)", "onbase", "on base", "hyland"}},
		{"Cerner / WQM", []string{"cerner / wqm", "cerner", "wqm", "oracle health", "work queue manager"}},
		{"eCW", []string{"ecw", "eclinicalworks"}},
		{"RightFax & Kofax", []string{"rightfax & kofax", "rightfax", "kofax", "right fax", "opentext"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, CompetitorKeywords(tt.name)); diff != "" {
				t.Errorf("keywords mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubObjectionKeywords(t *testing.T) {
	got := SubObjectionKeywords("Their AI is too expensive")
	assert.Equal(t, []string{"ai", "artificial intelligence", "automation", "expensive", "cost", "price", "budget"}, got)
	assert.Empty(t, SubObjectionKeywords("We paid already"))
}
