// ABOUTME: Tests for merging script rows and competitor rows into call flows
// ABOUTME: Verifies ordering, origin tagging, idempotence, and shared competitor data
package callflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyFlow(product, approach string) CallFlow {
	return CallFlow{ID: "f-" + product + approach, Product: product, Approach: approach, Version: 1}
}

func TestMergeScriptsNoRows(t *testing.T) {
	flows := []CallFlow{ParseCallFlow(sampleFlow, "dexit-him-v2.md"), emptyFlow(ProductMuspell, ApproachIT)}

	merged := MergeScriptsIntoCallFlows(flows, nil)
	if diff := cmp.Diff(flows, merged); diff != "" {
		t.Errorf("merge with no rows changed flows (-want +got):\n%s", diff)
	}
}

func TestMergeScriptsOpeningRow(t *testing.T) {
	flows := []CallFlow{emptyFlow(ProductDexit, ApproachHIM)}
	rows := []ScriptRow{{
		ID:          "row-1",
		Name:        "Intro opener",
		Product:     ProductDexit,
		Approach:    ApproachHIM,
		SectionType: SectionOpening,
		Content:     "## Version 1: Intro\nHello",
		IsActive:    true,
	}}

	merged := MergeScriptsIntoCallFlows(flows, rows)

	want := []Version{{
		Number:  1,
		Label:   "Intro",
		Content: "Hello",
		Origin:  Origin{Kind: OriginDatabase, ScriptID: "row-1", ScriptName: "Intro opener"},
	}}
	if diff := cmp.Diff(want, merged[0].Sections.Opening.Versions); diff != "" {
		t.Errorf("opening mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, flows[0].Sections.Opening.Versions, "input flow was mutated")
}

func TestMergeScriptsAppendsAfterMarkdown(t *testing.T) {
	flows := []CallFlow{ParseCallFlow(sampleFlow, "dexit-him-v2.md")}
	rows := []ScriptRow{
		{ID: "o1", Product: ProductDexit, Approach: ApproachHIM, SectionType: SectionOpening, Content: "## Version 1: Custom\nHey", IsActive: true},
		{ID: "c1", Product: ProductDexit, Approach: ApproachHIM, ScriptType: SectionClosing, Content: "Let's book it.", IsActive: true},
		{ID: "x1", Product: ProductDexit, Approach: ApproachHIM, SectionType: SectionOpening, Content: "inactive", IsActive: false},
		{ID: "m1", Product: ProductMuspell, Approach: ApproachHIM, SectionType: SectionOpening, Content: "other product", IsActive: true},
	}

	merged := MergeScriptsIntoCallFlows(flows, rows)
	opening := merged[0].Sections.Opening.Versions

	require.Len(t, opening, 3)
	assert.False(t, opening[0].FromDatabase())
	assert.False(t, opening[1].FromDatabase())
	assert.True(t, opening[2].FromDatabase())
	assert.Equal(t, 3, opening[2].Number)
	assert.Equal(t, "o1", opening[2].ScriptID)

	closing := merged[0].Sections.Closing.Versions
	require.Len(t, closing, 2)
	assert.Equal(t, "Version 1", closing[1].Label)
	assert.Equal(t, "Let's book it.", closing[1].Content)
}

func TestMergeScriptsIsIdempotent(t *testing.T) {
	flows := []CallFlow{ParseCallFlow(sampleFlow, "dexit-him-v2.md")}
	rows := []ScriptRow{
		{ID: "o1", Product: ProductDexit, Approach: ApproachHIM, SectionType: SectionOpening, Content: "A\n---\nB", IsActive: true},
		{ID: "d1", Product: ProductDexit, Approach: ApproachHIM, SectionType: SectionDiscovery, Content: "Who scans charts?", IsActive: true},
	}

	once := MergeScriptsIntoCallFlows(flows, rows)
	twice := MergeScriptsIntoCallFlows(once, rows)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second merge changed flows (-once +twice):\n%s", diff)
	}
	assert.Len(t, twice[0].Sections.Opening.Versions, 4)
	assert.Len(t, twice[0].Sections.Discovery, 3)
}

func TestMergeScriptsSectionTypes(t *testing.T) {
	flows := []CallFlow{emptyFlow(ProductMuspell, ApproachGeneral)}
	rows := []ScriptRow{
		{ID: "t1", Name: "Legacy bridge", Product: ProductMuspell, SectionType: "transition", Content: "Bridge", IsActive: true},
		{ID: "t2", Product: ProductMuspell, SectionType: SectionTransitionToDiscovery, Content: "Mind if I ask?", IsActive: true},
		{ID: "b1", Name: "Too busy", Product: ProductMuspell, SectionType: SectionObjections, Content: "**Response:**\nTwo minutes.", IsActive: true},
		{ID: "q1", Product: ProductMuspell, SectionType: SectionDiscovery, Content: "Who scans charts?\n**Why ask this:** Finds the owner.", IsActive: true},
	}

	merged := MergeScriptsIntoCallFlows(flows, rows)
	s := merged[0].Sections

	require.Len(t, s.TransitionToPitch, 1)
	assert.Equal(t, TriggerCustom, s.TransitionToPitch[0].Trigger)
	assert.Equal(t, "Bridge", s.TransitionToPitch[0].Pitch)
	assert.Equal(t, "Legacy bridge", s.TransitionToPitch[0].ScriptName)

	require.Len(t, s.TransitionToDiscovery, 1)
	assert.Equal(t, "Mind if I ask?", s.TransitionToDiscovery[0].Pitch)

	require.Len(t, s.Objections, 1)
	assert.Equal(t, "Too busy", s.Objections[0].Objection)
	assert.Equal(t, "Two minutes.", s.Objections[0].Response)
	assert.Equal(t, "b1", s.Objections[0].ScriptID)

	require.Len(t, s.Discovery, 1)
	assert.Equal(t, "Finds the owner.", s.Discovery[0].Why)
	assert.True(t, s.Discovery[0].FromDatabase())
}

func TestMergeCompetitorObjections(t *testing.T) {
	flows := []CallFlow{emptyFlow(ProductDexit, ApproachHIM), emptyFlow(ProductMuspell, ApproachIT)}
	rows := []ScriptRow{
		{ID: "r1", Name: "Already on OnBase", Competitor: "onbase (hyland)", SectionType: SectionCompetitorObjection, Content: "**Response:**\nWe plug into it.", IsActive: true},
		{ID: "r2", Name: "Gallery is free", CompetitorID: "epic_gallery", SectionType: SectionCompetitorObjection, Content: "Free is not cheap.", IsActive: true},
		{ID: "r3", Name: "Meditech does it", Competitor: "Meditech", SectionType: SectionCompetitorObjection, Content: "Does it index?", IsActive: true},
		{ID: "r4", Name: "Homegrown", SectionType: SectionCompetitorObjection, Content: "Who maintains it?", IsActive: true},
		{ID: "r5", Name: "Ignored", Competitor: "Epic Gallery", SectionType: SectionCompetitorObjection, Content: "x", IsActive: false},
		{ID: "r6", Name: "Opening", Product: ProductDexit, Approach: ApproachHIM, SectionType: SectionOpening, Content: "x", IsActive: true},
	}

	merged := MergeCompetitorObjectionsIntoFlows(flows, sampleCompetitors, rows)

	require.Len(t, merged, 2)
	shared := merged[0].Sections.CompetitorObjections
	require.NotNil(t, shared)
	assert.Same(t, shared, merged[1].Sections.CompetitorObjections)
	assert.Nil(t, flows[0].Sections.CompetitorObjections, "input flow was mutated")

	require.Len(t, shared.Competitors, 4)

	onbase := shared.Competitors[0]
	require.Len(t, onbase.SubObjections, 2)
	assert.Equal(t, "db_r1", onbase.SubObjections[1].ID)
	assert.Equal(t, "Already on OnBase", onbase.SubObjections[1].Objection)
	assert.Equal(t, "We plug into it.", onbase.SubObjections[1].Response)
	assert.True(t, onbase.SubObjections[1].FromDatabase())

	epic := shared.Competitors[1]
	require.Len(t, epic.SubObjections, 1)
	assert.Equal(t, "db_r2", epic.SubObjections[0].ID)

	meditech := shared.Competitors[2]
	assert.Equal(t, "custom_r3", meditech.ID)
	assert.Equal(t, "Meditech", meditech.Name)
	assert.Equal(t, []string{"meditech"}, meditech.Keywords)

	custom := shared.Competitors[3]
	assert.Equal(t, "custom_r4", custom.ID)
	assert.Equal(t, "Custom", custom.Name)
	assert.Equal(t, []string{"custom"}, custom.Keywords)
	assert.Empty(t, custom.Background)
}

func TestMergeCompetitorRowsSkipsMergedRows(t *testing.T) {
	doc := ParseCompetitorObjections(sampleCompetitors)
	rows := []ScriptRow{{ID: "r1", CompetitorID: "epic_gallery", SectionType: SectionCompetitorObjection, Content: "Hi", IsActive: true}}

	MergeCompetitorRows(&doc, rows)
	MergeCompetitorRows(&doc, rows)

	assert.Len(t, doc.Competitors[1].SubObjections, 1)
}
