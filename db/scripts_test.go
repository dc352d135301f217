// ABOUTME: Tests for script and objection library operations
// ABOUTME: Covers filtering, versioning, and conversion to merge rows
package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/models"
)

func TestScriptCRUD(t *testing.T) {
	db := setupTestDB(t)

	script := &models.Script{
		Name:        "Warm intro",
		Product:     callflow.ProductDexit,
		Approach:    callflow.ApproachHIM,
		SectionType: "transition",
		Content:     "## Version 1: Warm\nHi {{contact.first_name}}",
		IsActive:    true,
	}
	require.NoError(t, CreateScript(db, script))
	assert.Equal(t, callflow.SectionTransitionToPitch, script.SectionType)
	assert.Equal(t, 1, script.Version)

	got, err := GetScript(db, script.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, script.Content, got.Content)

	got.Content = "## Version 1: Warmer\nHello"
	require.NoError(t, UpdateScript(db, got.ID, got))
	got, err = GetScript(db, script.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	require.NoError(t, IncrementScriptUsage(db, script.ID))
	got, _ = GetScript(db, script.ID)
	assert.Equal(t, 1, got.UsageCount)

	require.NoError(t, DeleteScript(db, script.ID))
	assert.Error(t, DeleteScript(db, script.ID))
}

func TestCreateScriptRequiresContent(t *testing.T) {
	db := setupTestDB(t)
	err := CreateScript(db, &models.Script{Name: "Empty", Product: callflow.ProductDexit, SectionType: callflow.SectionOpening})
	assert.Error(t, err)
}

func TestListScriptsFilter(t *testing.T) {
	db := setupTestDB(t)

	for _, s := range []models.Script{
		{Name: "a", Product: callflow.ProductDexit, Approach: callflow.ApproachHIM, SectionType: callflow.SectionOpening, Content: "x", IsActive: true},
		{Name: "b", Product: callflow.ProductDexit, Approach: callflow.ApproachIT, SectionType: callflow.SectionOpening, Content: "x", IsActive: true},
		{Name: "c", Product: callflow.ProductMuspell, Approach: callflow.ApproachHIM, SectionType: callflow.SectionClosing, Content: "x"},
	} {
		s := s
		require.NoError(t, CreateScript(db, &s))
	}

	dexit, err := ListScripts(db, ScriptFilter{Product: "dexit"})
	require.NoError(t, err)
	assert.Len(t, dexit, 2)

	him, err := ListScripts(db, ScriptFilter{Approach: callflow.ApproachHIM, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, him, 1)
	assert.Equal(t, "a", him[0].Name)

	limited, err := ListScripts(db, ScriptFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestObjectionAlternativesRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	obj := &models.Objection{
		Objection:    "We already have a vendor",
		Response:     "Most teams we help did too.",
		Alternatives: []string{"What would you change about them?", "When is renewal?"},
		Product:      callflow.ProductDexit,
		IsActive:     true,
	}
	require.NoError(t, CreateObjection(db, obj))

	got, err := GetObjection(db, obj.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, obj.Alternatives, got.Alternatives)

	found, err := FindObjections(db, "vendor", "", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	none, err := FindObjections(db, "vendor", callflow.ProductMuspell, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Error(t, CreateObjection(db, &models.Objection{Objection: "No response"}))
}

func TestScriptRows(t *testing.T) {
	db := setupTestDB(t)

	active := &models.Script{Name: "Open", Product: callflow.ProductDexit, Approach: callflow.ApproachHIM,
		SectionType: callflow.SectionOpening, Content: "## Version 1: DB\nHi", IsActive: true}
	inactive := &models.Script{Name: "Old", Product: callflow.ProductDexit, Approach: callflow.ApproachHIM,
		SectionType: callflow.SectionOpening, Content: "Old", IsActive: false}
	require.NoError(t, CreateScript(db, active))
	require.NoError(t, CreateScript(db, inactive))

	obj := &models.Objection{Objection: "Too busy", Response: "Two minutes is all I need.",
		Product: callflow.ProductDexit, Approach: callflow.ApproachHIM, IsActive: true}
	require.NoError(t, CreateObjection(db, obj))

	rows, err := ScriptRows(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, active.ID.String(), rows[0].ID)
	assert.Equal(t, callflow.SectionObjections, rows[1].Section())

	flows := callflow.MergeScriptsIntoCallFlows([]callflow.CallFlow{{
		ID: "f", Product: callflow.ProductDexit, Approach: callflow.ApproachHIM,
	}}, rows)
	require.Len(t, flows, 1)
	require.Len(t, flows[0].Sections.Objections, 1)
	assert.Equal(t, "Too busy", flows[0].Sections.Objections[0].Objection)
	assert.True(t, flows[0].Sections.Objections[0].FromDatabase())
}
