// ABOUTME: Tests for deriving script context from call notes
// ABOUTME: Covers explicit pairs, vocabulary scanning, the no-DMS rule, and volume
package callflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseNotesContext(t *testing.T) {
	tests := []struct {
		notes string
		want  ScriptContext
	}{
		{"ehr=Cerner, no dms, 500 docs/day", ScriptContext{EHR: "Cerner", DMS: "none", Volume: "500 docs/day"}},
		{"Currently on epic with OnBase for scanning", ScriptContext{EHR: "Epic", DMS: "OnBase"}},
		{"ehr=Epic dms=OnBase 500 docs/day", ScriptContext{EHR: "Epic", DMS: "OnBase", Volume: "500 docs/day"}},
		{"EHR: Cerner and they scan 200 pages a day", ScriptContext{EHR: "Cerner", Volume: "200 pages a day"}},
		{"ehr=Oracle Health, dms=OnBase", ScriptContext{EHR: "Oracle Health", DMS: "OnBase"}},
		{"dms: RightFax for inbound faxes", ScriptContext{DMS: "RightFax"}},
		{"clinics still on ecw, faxes land in rightfax", ScriptContext{EHR: "eCW", DMS: "RightFax"}},
		{"Moving from Cerner to Epic next year", ScriptContext{EHR: "Cerner"}},
		{"EHR: athenahealth; dms: Laserfiche", ScriptContext{EHR: "athenahealth", DMS: "Laserfiche"}},
		{"They have no document management at all", ScriptContext{DMS: "none"}},
		{"About 1,200 pages per week from clinics", ScriptContext{Volume: "1,200 pages per week"}},
		{"on oracle health now", ScriptContext{EHR: "Oracle Health"}},
		{"", ScriptContext{}},
		{"nothing useful here", ScriptContext{}},
	}

	for _, tt := range tests {
		t.Run(tt.notes, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseNotesContext(tt.notes)); diff != "" {
				t.Errorf("ParseNotesContext(%q) mismatch (-want +got):\n%s", tt.notes, diff)
			}
		})
	}
}
