// ABOUTME: Renders one call-flow section with variables substituted
// ABOUTME: Flattens versions, transitions, questions, objections, and competitors into items
package coach

import (
	"fmt"
	"strings"

	"github.com/harperreed/callcoach/callflow"
)

// Sections lists the section names Render accepts, in call order.
var Sections = []string{
	callflow.SectionOpening,
	callflow.SectionTransitionToDiscovery,
	callflow.SectionDiscovery,
	callflow.SectionTransitionToPitch,
	callflow.SectionObjections,
	callflow.SectionClosing,
	callflow.SectionCompetitorObjection,
}

// Item is one rendered unit of a section.
type Item struct {
	Label        string          `json:"label"`
	Text         string          `json:"text"`
	Detail       string          `json:"detail,omitempty"`
	Alternatives []string        `json:"alternatives,omitempty"`
	Keywords     []string        `json:"keywords,omitempty"`
	Origin       callflow.Origin `json:"origin"`
}

// Rendered is a section ready to read aloud.
type Rendered struct {
	FlowID   string `json:"flow_id"`
	FlowName string `json:"flow_name"`
	Section  string `json:"section"`
	Items    []Item `json:"items"`
}

// Render substitutes tc into every item of section. competitor narrows the
// competitor section to names containing it.
func Render(flow *callflow.CallFlow, section, competitor string, tc callflow.TemplateContext) (*Rendered, error) {
	section = callflow.NormalizeSectionType(section)
	r := &Rendered{FlowID: flow.ID, FlowName: flow.Name, Section: section, Items: []Item{}}
	sub := func(s string) string { return callflow.ReplaceScriptVariables(s, tc) }
	s := flow.Sections

	switch section {
	case callflow.SectionOpening:
		r.Items = versionItems(s.Opening.Versions, sub)
	case callflow.SectionClosing:
		r.Items = versionItems(s.Closing.Versions, sub)
	case callflow.SectionTransitionToDiscovery:
		r.Items = transitionItems(s.TransitionToDiscovery, sub)
	case callflow.SectionTransitionToPitch:
		r.Items = transitionItems(s.TransitionToPitch, sub)
	case callflow.SectionDiscovery:
		for _, d := range s.Discovery {
			r.Items = append(r.Items, Item{
				Label:    "Question",
				Text:     sub(d.Question),
				Detail:   d.Why,
				Keywords: d.Keywords,
				Origin:   d.Origin,
			})
		}
	case callflow.SectionObjections:
		for _, o := range s.Objections {
			r.Items = append(r.Items, Item{
				Label:        o.Objection,
				Text:         sub(o.Response),
				Alternatives: replaceAll(o.Alternatives, tc),
				Keywords:     o.Keywords,
				Origin:       o.Origin,
			})
		}
	case callflow.SectionCompetitorObjection:
		if s.CompetitorObjections == nil {
			break
		}
		for _, c := range s.CompetitorObjections.Competitors {
			if competitor != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(competitor)) {
				continue
			}
			r.Items = append(r.Items, Item{
				Label:    c.Name,
				Text:     sub(c.InitialResponse),
				Detail:   c.BottomLine,
				Keywords: c.Keywords,
			})
			for _, so := range c.SubObjections {
				r.Items = append(r.Items, Item{
					Label:        fmt.Sprintf("%s: %s", c.Name, so.Objection),
					Text:         sub(so.Response),
					Alternatives: replaceAll(so.Alternatives, tc),
					Keywords:     so.Keywords,
					Origin:       so.Origin,
				})
			}
		}
	default:
		return nil, fmt.Errorf("unknown section %q", section)
	}
	return r, nil
}

func versionItems(versions []callflow.Version, sub func(string) string) []Item {
	items := make([]Item, 0, len(versions))
	for _, v := range versions {
		items = append(items, Item{
			Label:  fmt.Sprintf("%d. %s", v.Number, v.Label),
			Text:   sub(v.Content),
			Origin: v.Origin,
		})
	}
	return items
}

func transitionItems(transitions []callflow.Transition, sub func(string) string) []Item {
	items := make([]Item, 0, len(transitions))
	for _, t := range transitions {
		label := t.Trigger
		if t.Label != "" {
			label = t.Trigger + ": " + t.Label
		}
		items = append(items, Item{
			Label:    label,
			Text:     sub(t.Pitch),
			Keywords: t.Keywords,
			Origin:   t.Origin,
		})
	}
	return items
}

// Text joins the rendered items as plain text, one block per item.
func (r *Rendered) Text() string {
	var b strings.Builder
	for i, it := range r.Items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", it.Label, it.Text)
		for _, alt := range it.Alternatives {
			fmt.Fprintf(&b, "\n  alt: %s", alt)
		}
	}
	return b.String()
}
