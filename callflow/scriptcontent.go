// ABOUTME: Parser for the markdown dialect stored in script rows
// ABOUTME: Produces the same section shapes as the call-flow parser
package callflow

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	scriptVersionHeader = regexp.MustCompile(`^##\s*Version\s+(\d+)\s*:\s*(.*)$`)
	scriptObjection     = regexp.MustCompile(`(?i)^\*\*objection:\*\*\s*(.*)$`)
	scriptResponse      = regexp.MustCompile(`(?i)^\*\*response:\*\*\s*(.*)$`)
	scriptAlternative   = regexp.MustCompile(`(?i)^\*\*alternative(?:\s+\d+)?:\*\*\s*(.*)$`)
	scriptWhy           = regexp.MustCompile(`(?i)^\*\*why ask this:\*\*\s*(.*)$`)
	scriptKeywords      = regexp.MustCompile(`(?i)^\*\*keywords:\*\*\s*(.*)$`)
)

// TriggerCustom is the trigger given to transitions authored as script rows.
const TriggerCustom = "Custom"

// ScriptObjection is an objection parsed from a script row. Objection is
// empty unless the content carries an explicit objection marker.
type ScriptObjection struct {
	Objection    string   `json:"objection,omitempty"`
	Response     string   `json:"response"`
	Alternatives []string `json:"alternatives"`
}

// ScriptTransition is a transition parsed from a script row.
type ScriptTransition struct {
	Trigger  string   `json:"trigger"`
	Label    string   `json:"label,omitempty"`
	Pitch    string   `json:"pitch"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// ScriptContent holds whichever shape matches the row's section type.
type ScriptContent struct {
	SectionType string            `json:"sectionType"`
	Versions    []Version         `json:"versions,omitempty"`
	Objection   *ScriptObjection  `json:"objection,omitempty"`
	Discovery   *DiscoveryItem    `json:"discovery,omitempty"`
	Transition  *ScriptTransition `json:"transition,omitempty"`
	Raw         string            `json:"raw"`
}

// NormalizeSectionType maps legacy section names onto current ones.
func NormalizeSectionType(sectionType string) string {
	s := strings.ToLower(strings.TrimSpace(sectionType))
	if s == sectionTransitionLegacy {
		return SectionTransitionToPitch
	}
	return s
}

// ParseScriptContent parses a script row's content for its section type.
// Unknown section types return only the raw content.
func ParseScriptContent(content, sectionType string) ScriptContent {
	section := NormalizeSectionType(sectionType)
	out := ScriptContent{SectionType: section, Raw: content}

	switch section {
	case SectionOpening, SectionClosing:
		out.Versions = ParseScriptVersions(content)
	case SectionObjections, SectionCompetitorObjection:
		obj := ParseScriptObjection(content)
		out.Objection = &obj
	case SectionDiscovery:
		d := ParseScriptDiscovery(content)
		out.Discovery = &d
	case SectionTransitionToDiscovery, SectionTransitionToPitch:
		t := ParseScriptTransition(content)
		out.Transition = &t
	}
	return out
}

// ParseScriptVersions splits content on --- separators. Each block may open
// with a "## Version N: Label" header; blocks without one get "Version N".
func ParseScriptVersions(content string) []Version {
	versions := []Version{}
	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		label := ""
		body := lines
		if m := scriptVersionHeader.FindStringSubmatch(strings.TrimSpace(lines[0])); m != nil {
			label = strings.TrimSpace(m[2])
			body = lines[1:]
		}
		if label == "" {
			label = fmt.Sprintf("Version %d", len(versions)+1)
		}
		versions = append(versions, Version{
			Number:  len(versions) + 1,
			Label:   label,
			Content: strings.TrimSpace(strings.Join(body, "\n")),
			Origin:  markdownOrigin(),
		})
	}
	return versions
}

func splitBlocks(content string) []string {
	blocks := []string{}
	var current []string
	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = nil
	}
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// ParseScriptObjection reads response and alternative markers. Text before
// any marker is treated as response.
func ParseScriptObjection(content string) ScriptObjection {
	obj := ScriptObjection{Alternatives: []string{}}
	mode := captureResponse
	inObjection := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case scriptObjection.MatchString(line):
			inObjection = true
			obj.Objection = joinSpace(obj.Objection, stripQuotes(scriptObjection.FindStringSubmatch(line)[1]))
		case scriptResponse.MatchString(line):
			inObjection = false
			mode = captureResponse
			obj.Response = joinSpace(obj.Response, stripQuotes(scriptResponse.FindStringSubmatch(line)[1]))
		case scriptAlternative.MatchString(line):
			inObjection = false
			if n := len(obj.Alternatives); n == 0 || obj.Alternatives[n-1] != "" {
				obj.Alternatives = append(obj.Alternatives, "")
			}
			mode = captureAlternative
			obj.Alternatives[len(obj.Alternatives)-1] = stripQuotes(scriptAlternative.FindStringSubmatch(line)[1])
		case inObjection:
			obj.Objection = joinSpace(obj.Objection, stripQuotes(line))
		case mode == captureAlternative:
			n := len(obj.Alternatives) - 1
			obj.Alternatives[n] = joinSpace(obj.Alternatives[n], stripQuotes(line))
		default:
			obj.Response = joinSpace(obj.Response, stripQuotes(line))
		}
	}

	// A trailing marker with nothing after it is not an alternative.
	if n := len(obj.Alternatives); n > 0 && obj.Alternatives[n-1] == "" {
		obj.Alternatives = obj.Alternatives[:n-1]
	}
	return obj
}

type discoveryField int

const (
	fieldQuestion discoveryField = iota
	fieldWhy
	fieldKeywords
)

// ParseScriptDiscovery reads a question followed by optional why and
// keyword markers. Without explicit keywords they are derived from the
// question.
func ParseScriptDiscovery(content string) DiscoveryItem {
	item := DiscoveryItem{Origin: markdownOrigin()}
	field := fieldQuestion
	var keywords []string

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := scriptWhy.FindStringSubmatch(line); m != nil {
			field = fieldWhy
			line = strings.TrimSpace(m[1])
		} else if m := scriptKeywords.FindStringSubmatch(line); m != nil {
			field = fieldKeywords
			line = strings.TrimSpace(m[1])
		}
		if line == "" {
			continue
		}

		switch field {
		case fieldQuestion:
			item.Question = joinSpace(item.Question, stripQuotes(line))
		case fieldWhy:
			item.Why = joinSpace(item.Why, line)
		case fieldKeywords:
			for _, k := range strings.Split(line, ",") {
				keywords = append(keywords, strings.ToLower(strings.TrimSpace(k)))
			}
		}
	}

	if len(keywords) > 0 {
		item.Keywords = dedupe(keywords)
	} else {
		item.Keywords = ExtractKeywords(item.Question)
	}
	return item
}

// ParseScriptTransition always yields a Custom trigger. Content carrying a
// version header becomes one labelled unit.
func ParseScriptTransition(content string) ScriptTransition {
	t := ScriptTransition{
		Trigger:  TriggerCustom,
		Content:  strings.TrimSpace(content),
		Keywords: []string{},
	}
	if !strings.Contains(content, "## Version") {
		t.Pitch = t.Content
		return t
	}

	versions := ParseScriptVersions(content)
	if len(versions) > 0 {
		t.Label = versions[0].Label
	}
	for _, v := range versions {
		t.Pitch = joinParagraph(t.Pitch, v.Content)
	}
	return t
}
