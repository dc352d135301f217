// ABOUTME: Keyword matching over parsed call-flow content
// ABOUTME: Finds competitors for a system name, ranks objections, and picks a flow
package callflow

import (
	"sort"
	"strings"
)

// MatchCompetitors returns the competitors whose keywords appear in value,
// typically a company's EHR or DMS field.
func MatchCompetitors(competitors []Competitor, value string) []Competitor {
	lower := strings.ToLower(strings.TrimSpace(value))
	matches := []Competitor{}
	if lower == "" {
		return matches
	}
	for _, c := range competitors {
		if competitorMatches(c, lower) {
			matches = append(matches, c)
		}
	}
	return matches
}

func competitorMatches(c Competitor, lower string) bool {
	if strings.Contains(strings.ToLower(c.Name), lower) {
		return true
	}
	for _, k := range c.Keywords {
		if k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// ObjectionMatch is a ranked objection with its keyword overlap score.
type ObjectionMatch struct {
	Objection ObjectionItem `json:"objection"`
	Score     int           `json:"score"`
}

// MatchObjections ranks objections by how many of their keywords appear in
// text. Objections with no overlap are dropped; ties keep document order.
func MatchObjections(objections []ObjectionItem, text string) []ObjectionMatch {
	words := make(map[string]bool)
	for _, w := range ExtractKeywords(text) {
		words[w] = true
	}
	lower := strings.ToLower(text)

	matches := []ObjectionMatch{}
	for _, o := range objections {
		score := 0
		for _, k := range o.Keywords {
			if words[k] || (strings.Contains(k, " ") && strings.Contains(lower, k)) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, ObjectionMatch{Objection: o, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// MatchSubObjections ranks a competitor's sub-objections the same way.
func MatchSubObjections(c Competitor, text string) []SubObjection {
	lower := strings.ToLower(text)
	type scored struct {
		sub   SubObjection
		score int
	}
	var ranked []scored
	for _, sub := range c.SubObjections {
		score := 0
		for _, k := range sub.Keywords {
			if strings.Contains(lower, k) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{sub, score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]SubObjection, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.sub)
	}
	return out
}

// FindFlow picks the flow for a product and approach. It falls back to the
// product's General flow, then to any flow for the product.
func FindFlow(flows []CallFlow, product, approach string) *CallFlow {
	var general, fallback *CallFlow
	for i := range flows {
		f := &flows[i]
		if !strings.EqualFold(f.Product, product) {
			continue
		}
		if strings.EqualFold(f.Approach, approach) {
			return f
		}
		if general == nil && f.Approach == ApproachGeneral {
			general = f
		}
		if fallback == nil {
			fallback = f
		}
	}
	if general != nil {
		return general
	}
	return fallback
}
