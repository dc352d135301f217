// ABOUTME: Merges database script rows into parsed call flows
// ABOUTME: Appends tagged items after markdown content and attaches shared competitor data
package callflow

import (
	"strings"
	"time"
)

// ScriptRow is the read-only view of a stored script the merge engine needs.
type ScriptRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Product      string    `json:"product"`
	Approach     string    `json:"approach"`
	TriggerType  string    `json:"trigger_type"`
	Competitor   string    `json:"competitor"`
	CompetitorID string    `json:"competitor_id"`
	SectionType  string    `json:"section_type"`
	ScriptType   string    `json:"script_type"`
	Content      string    `json:"content"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UsageCount   int       `json:"usage_count"`
	Version      int       `json:"version"`
}

// Section returns the row's normalized section type, falling back to
// script_type when section_type is unset.
func (r ScriptRow) Section() string {
	if r.SectionType != "" {
		return NormalizeSectionType(r.SectionType)
	}
	return NormalizeSectionType(r.ScriptType)
}

// Key is the product/approach group the row merges into.
func (r ScriptRow) Key() string {
	return groupKey(r.Product, r.Approach)
}

// orderedList keeps markdown-origin items ahead of database-origin items
// and refuses a second copy of any script row.
type orderedList[T interface{ origin() Origin }] struct {
	markdown []T
	database []T
	seen     map[string]bool
}

func newOrderedList[T interface{ origin() Origin }](items []T) *orderedList[T] {
	l := &orderedList[T]{seen: make(map[string]bool)}
	for _, item := range items {
		o := item.origin()
		if o.FromDatabase() {
			l.database = append(l.database, item)
			l.seen[o.ScriptID] = true
			continue
		}
		l.markdown = append(l.markdown, item)
	}
	return l
}

func (l *orderedList[T]) has(scriptID string) bool {
	return l.seen[scriptID]
}

func (l *orderedList[T]) add(scriptID string, items ...T) {
	l.database = append(l.database, items...)
	l.seen[scriptID] = true
}

func (l *orderedList[T]) items(original []T) []T {
	if original == nil && len(l.markdown) == 0 && len(l.database) == 0 {
		return nil
	}
	out := make([]T, 0, len(l.markdown)+len(l.database))
	out = append(out, l.markdown...)
	return append(out, l.database...)
}

// MergeScriptsIntoCallFlows returns copies of flows with every active row
// appended to the section it names. Rows already merged are skipped, so
// merging the same rows twice is a no-op.
func MergeScriptsIntoCallFlows(flows []CallFlow, rows []ScriptRow) []CallFlow {
	if flows == nil {
		return nil
	}
	groups := make(map[string][]ScriptRow)
	for _, row := range rows {
		if !row.IsActive || row.Section() == SectionCompetitorObjection {
			continue
		}
		groups[row.Key()] = append(groups[row.Key()], row)
	}

	out := make([]CallFlow, len(flows))
	for i, flow := range flows {
		out[i] = flow.Clone()
		if group, ok := groups[flow.Key()]; ok {
			mergeRows(&out[i], group)
		}
	}
	return out
}

func mergeRows(flow *CallFlow, rows []ScriptRow) {
	s := &flow.Sections
	opening := newOrderedList(s.Opening.Versions)
	closing := newOrderedList(s.Closing.Versions)
	toDiscovery := newOrderedList(s.TransitionToDiscovery)
	toPitch := newOrderedList(s.TransitionToPitch)
	discovery := newOrderedList(s.Discovery)
	objections := newOrderedList(s.Objections)

	for _, row := range rows {
		origin := databaseOrigin(row.ID, row.Name)
		switch row.Section() {
		case SectionOpening:
			mergeVersions(opening, row, origin)
		case SectionClosing:
			mergeVersions(closing, row, origin)
		case SectionTransitionToDiscovery:
			mergeTransition(toDiscovery, row, origin)
		case SectionTransitionToPitch:
			mergeTransition(toPitch, row, origin)
		case SectionDiscovery:
			if discovery.has(row.ID) {
				continue
			}
			item := ParseScriptDiscovery(row.Content)
			item.Origin = origin
			discovery.add(row.ID, item)
		case SectionObjections:
			if objections.has(row.ID) {
				continue
			}
			objections.add(row.ID, objectionFromRow(row, origin))
		}
	}

	s.Opening.Versions = opening.items(s.Opening.Versions)
	s.Closing.Versions = closing.items(s.Closing.Versions)
	s.TransitionToDiscovery = toDiscovery.items(s.TransitionToDiscovery)
	s.TransitionToPitch = toPitch.items(s.TransitionToPitch)
	s.Discovery = discovery.items(s.Discovery)
	s.Objections = objections.items(s.Objections)
}

func mergeVersions(list *orderedList[Version], row ScriptRow, origin Origin) {
	if list.has(row.ID) {
		return
	}
	next := len(list.markdown) + len(list.database) + 1
	parsed := ParseScriptVersions(row.Content)
	for i := range parsed {
		parsed[i].Number = next + i
		parsed[i].Origin = origin
	}
	list.add(row.ID, parsed...)
}

func mergeTransition(list *orderedList[Transition], row ScriptRow, origin Origin) {
	if list.has(row.ID) {
		return
	}
	t := ParseScriptTransition(row.Content)
	list.add(row.ID, Transition{
		Trigger:  t.Trigger,
		Label:    t.Label,
		Pitch:    t.Pitch,
		Keywords: t.Keywords,
		Origin:   origin,
	})
}

func objectionFromRow(row ScriptRow, origin Origin) ObjectionItem {
	parsed := ParseScriptObjection(row.Content)
	text := parsed.Objection
	if text == "" {
		text = row.Name
	}
	return ObjectionItem{
		Objection:    text,
		Response:     parsed.Response,
		Alternatives: parsed.Alternatives,
		Keywords:     ExtractKeywords(text),
		Origin:       origin,
	}
}

// MergeCompetitorObjectionsIntoFlows parses the competitor document, adds
// every active competitor-objection row to it, and attaches the one shared
// result to copies of all flows.
func MergeCompetitorObjectionsIntoFlows(flows []CallFlow, competitorMarkdown string, rows []ScriptRow) []CallFlow {
	doc := ParseCompetitorObjections(competitorMarkdown)
	MergeCompetitorRows(&doc, rows)

	if flows == nil {
		return nil
	}
	out := make([]CallFlow, len(flows))
	for i, flow := range flows {
		out[i] = flow.Clone()
		out[i].Sections.CompetitorObjections = &doc
	}
	return out
}

// MergeCompetitorRows appends a sub-objection for each active
// competitor-objection row, creating a competitor when none matches.
func MergeCompetitorRows(doc *CompetitorObjections, rows []ScriptRow) {
	for _, row := range rows {
		if !row.IsActive || row.Section() != SectionCompetitorObjection {
			continue
		}
		c := resolveCompetitor(doc, row)
		id := "db_" + row.ID
		if hasSubObjection(c, id) {
			continue
		}

		parsed := ParseScriptObjection(row.Content)
		text := parsed.Objection
		if text == "" {
			text = row.Name
		}
		c.SubObjections = append(c.SubObjections, SubObjection{
			ID:           id,
			Objection:    text,
			Response:     parsed.Response,
			Alternatives: parsed.Alternatives,
			Keywords:     SubObjectionKeywords(text),
			Origin:       databaseOrigin(row.ID, row.Name),
		})
	}
}

func resolveCompetitor(doc *CompetitorObjections, row ScriptRow) *Competitor {
	if row.CompetitorID != "" {
		for i := range doc.Competitors {
			if doc.Competitors[i].ID == row.CompetitorID {
				return &doc.Competitors[i]
			}
		}
	}
	if name := strings.TrimSpace(row.Competitor); name != "" {
		for i := range doc.Competitors {
			if strings.EqualFold(doc.Competitors[i].Name, name) {
				return &doc.Competitors[i]
			}
		}
	}

	shell := Competitor{
		ID:               row.CompetitorID,
		Name:             strings.TrimSpace(row.Competitor),
		CommonObjections: []string{},
		Keywords:         []string{"custom"},
		SubObjections:    []SubObjection{},
	}
	if shell.ID == "" {
		shell.ID = "custom_" + row.ID
	}
	if shell.Name == "" {
		shell.Name = "Custom"
	} else {
		shell.Keywords = []string{strings.ToLower(shell.Name)}
	}
	doc.Competitors = append(doc.Competitors, shell)
	return &doc.Competitors[len(doc.Competitors)-1]
}

func hasSubObjection(c *Competitor, id string) bool {
	for _, sub := range c.SubObjections {
		if sub.ID == id {
			return true
		}
	}
	return false
}
