// ABOUTME: Writes script-row content in the dialect ParseScriptContent reads
// ABOUTME: Used when scripts are authored from the CLI, web forms, or MCP tools
package callflow

import (
	"fmt"
	"strings"
)

// Variation is one authored version of a script section.
type Variation struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// FormatVariations renders variations as script-row content. Objection
// variations write the first entry as the response and the rest as
// alternatives; every other section writes versioned blocks.
func FormatVariations(variations []Variation, sectionType string) string {
	switch NormalizeSectionType(sectionType) {
	case SectionObjections, SectionCompetitorObjection:
		return formatObjection(variations)
	case SectionDiscovery:
		if len(variations) == 0 {
			return ""
		}
		return FormatDiscovery(variations[0].Content, "", nil)
	}

	blocks := make([]string, 0, len(variations))
	for i, v := range variations {
		label := strings.TrimSpace(v.Label)
		if label == "" {
			label = fmt.Sprintf("Version %d", i+1)
		}
		blocks = append(blocks, fmt.Sprintf("## Version %d: %s\n%s", i+1, label, strings.TrimSpace(v.Content)))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

func formatObjection(variations []Variation) string {
	var b strings.Builder
	for i, v := range variations {
		if i == 0 {
			fmt.Fprintf(&b, "**Response:**\n%s", strings.TrimSpace(v.Content))
			continue
		}
		fmt.Fprintf(&b, "\n\n**Alternative %d:**\n%s", i, strings.TrimSpace(v.Content))
	}
	return b.String()
}

// FormatDiscovery renders a discovery question with its optional why and
// keyword lines.
func FormatDiscovery(question, why string, keywords []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(question))
	if why = strings.TrimSpace(why); why != "" {
		fmt.Fprintf(&b, "\n\n**Why ask this:** %s", why)
	}
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "\n\n**Keywords:** %s", strings.Join(keywords, ", "))
	}
	return b.String()
}

// FormatObjection renders an objection row with an explicit objection line.
func FormatObjection(objection, response string, alternatives []string) string {
	variations := []Variation{{Content: response}}
	for _, alt := range alternatives {
		variations = append(variations, Variation{Content: alt})
	}
	body := formatObjection(variations)
	if objection = strings.TrimSpace(objection); objection != "" {
		body = fmt.Sprintf("**Objection:** %s\n\n%s", objection, body)
	}
	return body
}
