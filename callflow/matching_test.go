// ABOUTME: Tests for keyword extraction and content matching helpers
// ABOUTME: Covers stop-words, slugs, competitor lookup, objection ranking, and flow selection
package callflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("The quick brown fox's documents, DOCUMENTS! That was about it.")
	want := []string{"quick", "brown", "foxs", "documents"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	if got := ExtractKeywords(""); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"OnBase (Hyland)":    "onbase_hyland",
		"  Hello, World!  ":  "hello_world",
		"Epic/Gallery & Co.": "epic_gallery_co",
		"":                   "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchCompetitors(t *testing.T) {
	doc := ParseCompetitorObjections(sampleCompetitors)

	matches := MatchCompetitors(doc.Competitors, "Hyland OnBase 18")
	require.Len(t, matches, 1)
	assert.Equal(t, "onbase_hyland", matches[0].ID)

	matches = MatchCompetitors(doc.Competitors, "Epic")
	require.Len(t, matches, 1)
	assert.Equal(t, "epic_gallery", matches[0].ID)

	assert.Empty(t, MatchCompetitors(doc.Competitors, ""))
	assert.Empty(t, MatchCompetitors(doc.Competitors, "Laserfiche"))
}

func TestMatchObjections(t *testing.T) {
	objections := []ObjectionItem{
		{Objection: "Send me information", Keywords: ExtractKeywords("Send me information")},
		{Objection: "Your pricing is too expensive for our budget", Keywords: ExtractKeywords("Your pricing is too expensive for our budget")},
		{Objection: "We are locked into a contract", Keywords: ExtractKeywords("We are locked into a contract")},
	}

	matches := MatchObjections(objections, "honestly the budget is tight and it looks expensive")
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Score)
	assert.Equal(t, objections[1].Objection, matches[0].Objection.Objection)

	assert.Empty(t, MatchObjections(objections, "sounds great"))
}

func TestMatchSubObjections(t *testing.T) {
	doc := ParseCompetitorObjections(sampleCompetitors)

	subs := MatchSubObjections(doc.Competitors[0], "we spent a lot on integrations")
	require.Len(t, subs, 1)
	assert.Equal(t, "We already paid for custom integrations.", subs[0].Objection)
}

func TestFindFlow(t *testing.T) {
	flows := []CallFlow{
		emptyFlow(ProductDexit, ApproachIT),
		emptyFlow(ProductDexit, ApproachGeneral),
		emptyFlow(ProductDexit, ApproachHIM),
		emptyFlow(ProductMuspell, ApproachRevenueCycle),
	}

	if f := FindFlow(flows, "dexit", "him"); f == nil || f.Approach != ApproachHIM {
		t.Errorf("Expected exact HIM match, got %+v", f)
	}
	if f := FindFlow(flows, ProductDexit, ApproachAmbulatory); f == nil || f.Approach != ApproachGeneral {
		t.Errorf("Expected General fallback, got %+v", f)
	}
	if f := FindFlow(flows, ProductMuspell, ApproachHIM); f == nil || f.Approach != ApproachRevenueCycle {
		t.Errorf("Expected any Muspell flow, got %+v", f)
	}
	if f := FindFlow(flows, "Other", ApproachHIM); f != nil {
		t.Errorf("Expected nil for unknown product, got %+v", f)
	}
}
