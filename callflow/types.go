// ABOUTME: Document model for parsed call flows and competitor objections
// ABOUTME: Defines CallFlow sections, origin tagging, and competitor records
package callflow

// Products recognised in call-flow filenames.
const (
	ProductDexit   = "Dexit"
	ProductMuspell = "Muspell"
	ProductUnknown = "Unknown"
)

// Approaches derived from call-flow filenames.
const (
	ApproachRevenueCycle = "Revenue Cycle"
	ApproachAmbulatory   = "Ambulatory"
	ApproachHIM          = "HIM"
	ApproachIT           = "IT"
	ApproachGeneral      = "General"
)

// Section types, shared by markdown headers and script rows.
const (
	SectionOpening               = "opening"
	SectionTransitionToDiscovery = "transition_to_discovery"
	SectionDiscovery             = "discovery"
	SectionTransitionToPitch     = "transition_to_pitch"
	SectionObjections            = "objections"
	SectionClosing               = "closing"
	SectionCompetitorObjection   = "competitor_objection"

	// sectionTransitionLegacy is how older script rows tag transition_to_pitch.
	sectionTransitionLegacy = "transition"
)

// OriginKind says where a section item came from.
type OriginKind string

const (
	OriginMarkdown OriginKind = "markdown"
	OriginDatabase OriginKind = "database"
)

// Origin tags every section item. ScriptID and ScriptName are set only for
// database-origin items.
type Origin struct {
	Kind       OriginKind `json:"origin"`
	ScriptID   string     `json:"dbScriptId,omitempty"`
	ScriptName string     `json:"dbScriptName,omitempty"`
}

func markdownOrigin() Origin {
	return Origin{Kind: OriginMarkdown}
}

func databaseOrigin(id, name string) Origin {
	return Origin{Kind: OriginDatabase, ScriptID: id, ScriptName: name}
}

func (o Origin) origin() Origin {
	return o
}

// FromDatabase reports whether the item was merged in from a script row.
func (o Origin) FromDatabase() bool {
	return o.Kind == OriginDatabase
}

type Version struct {
	Number  int    `json:"number"`
	Label   string `json:"label"`
	Content string `json:"content"`
	Origin
}

type VersionList struct {
	Versions []Version `json:"versions"`
}

type Transition struct {
	Trigger  string   `json:"trigger"`
	Label    string   `json:"label,omitempty"`
	Pitch    string   `json:"pitch"`
	Keywords []string `json:"keywords"`
	Origin
}

type DiscoveryItem struct {
	Question string   `json:"question"`
	Why      string   `json:"why"`
	Keywords []string `json:"keywords"`
	Origin
}

type ObjectionItem struct {
	Objection    string   `json:"objection"`
	Response     string   `json:"response"`
	Alternatives []string `json:"alternatives"`
	Keywords     []string `json:"keywords"`
	Origin
}

type Sections struct {
	Opening               VersionList           `json:"opening"`
	TransitionToDiscovery []Transition          `json:"transition_to_discovery"`
	Discovery             []DiscoveryItem       `json:"discovery"`
	TransitionToPitch     []Transition          `json:"transition_to_pitch"`
	Objections            []ObjectionItem       `json:"objections"`
	Closing               VersionList           `json:"closing"`
	CompetitorObjections  *CompetitorObjections `json:"competitor_objections"`
}

// CallFlow is the parsed content for one product/approach pair.
type CallFlow struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Product  string   `json:"product"`
	Approach string   `json:"approach"`
	Version  int      `json:"version"`
	Source   string   `json:"source,omitempty"`
	Sections Sections `json:"sections"`
}

// Key is the product/approach grouping key used when merging script rows.
func (f *CallFlow) Key() string {
	return groupKey(f.Product, f.Approach)
}

// Clone returns a deep copy. CompetitorObjections is shared, not copied,
// since every flow carries the same competitor document.
func (f CallFlow) Clone() CallFlow {
	out := f
	out.Sections.Opening.Versions = cloneSlice(f.Sections.Opening.Versions)
	out.Sections.Closing.Versions = cloneSlice(f.Sections.Closing.Versions)
	out.Sections.TransitionToDiscovery = cloneTransitions(f.Sections.TransitionToDiscovery)
	out.Sections.TransitionToPitch = cloneTransitions(f.Sections.TransitionToPitch)
	out.Sections.Discovery = cloneSlice(f.Sections.Discovery)
	for i := range out.Sections.Discovery {
		out.Sections.Discovery[i].Keywords = cloneSlice(out.Sections.Discovery[i].Keywords)
	}
	out.Sections.Objections = cloneSlice(f.Sections.Objections)
	for i := range out.Sections.Objections {
		o := &out.Sections.Objections[i]
		o.Alternatives = cloneSlice(o.Alternatives)
		o.Keywords = cloneSlice(o.Keywords)
	}
	return out
}

func cloneTransitions(in []Transition) []Transition {
	out := cloneSlice(in)
	for i := range out {
		out[i].Keywords = cloneSlice(out[i].Keywords)
	}
	return out
}

// cloneSlice keeps nil as nil so clones compare equal to their source.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// CompetitorObjections is the parsed competitor document.
type CompetitorObjections struct {
	Competitors []Competitor `json:"competitors"`
}

type Competitor struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	CommonObjections []string       `json:"commonObjections"`
	Background       string         `json:"background"`
	InitialResponse  string         `json:"initialResponse"`
	BottomLine       string         `json:"bottomLine"`
	Keywords         []string       `json:"keywords"`
	SubObjections    []SubObjection `json:"subObjections"`
}

type SubObjection struct {
	ID           string   `json:"id"`
	Objection    string   `json:"objection"`
	Response     string   `json:"response"`
	Alternatives []string `json:"alternatives"`
	Keywords     []string `json:"keywords"`
	Origin
}
