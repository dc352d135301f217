// ABOUTME: Markdown call-flow parser
// ABOUTME: Scans a call-flow document into opening, discovery, transition, objection, and closing sections
package callflow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type sectionRule struct {
	phrases []string
	section string
}

// Checked in order so a general phrase never swallows a more specific header.
var sectionRules = []sectionRule{
	{[]string{"OPENING"}, SectionOpening},
	{[]string{"TRANSITION TO DISCOVERY"}, SectionTransitionToDiscovery},
	{[]string{"DISCOVERY QUESTIONS", "DISCOVERY"}, SectionDiscovery},
	{[]string{"TRANSITION TO PITCH"}, SectionTransitionToPitch},
	{[]string{"OBJECTION HANDLING"}, SectionObjections},
	{[]string{"CLOSING"}, SectionClosing},
}

var (
	versionPattern         = regexp.MustCompile(`(?i)(?:^|[^a-z])v(\d+)`)
	versionMarkerPattern   = regexp.MustCompile(`(?i)^version\s+(\d+)\s*\(([^)]*)\)\s*:?\s*(.*)$`)
	triggerPrefixPattern   = regexp.MustCompile(`(?i)^(?:if they (?:mention|have|say)|based on)\s*`)
	alternativeLinePattern = regexp.MustCompile(`(?i)^alternative(?:\s+\d+)?\s*:\s*(.*)$`)
)

var closingLabelHints = []string{"Alternative", "Standard", "Technical", "Collaborative", "Casual", "Problem-focused"}

// ParseCallFlow parses one call-flow markdown document. Product, approach,
// and version come from the filename. Malformed input yields empty sections.
func ParseCallFlow(markdown, filename string) CallFlow {
	flow := CallFlow{
		ID:       newFlowID(),
		Product:  DetectProduct(filename),
		Approach: DetectApproach(filename),
		Version:  DetectVersion(filename),
		Source:   filename,
	}

	title, buffers := splitSections(markdown)
	flow.Name = title
	if flow.Name == "" {
		flow.Name = fmt.Sprintf("%s %s Call Flow", flow.Product, flow.Approach)
	}

	flow.Sections = Sections{
		Opening:               VersionList{Versions: parseOpening(buffers[SectionOpening])},
		TransitionToDiscovery: parseTransitions(buffers[SectionTransitionToDiscovery]),
		Discovery:             parseDiscovery(buffers[SectionDiscovery]),
		TransitionToPitch:     parseTransitions(buffers[SectionTransitionToPitch]),
		Objections:            parseObjections(buffers[SectionObjections]),
		Closing:               VersionList{Versions: parseClosing(buffers[SectionClosing])},
	}
	return flow
}

// DetectProduct finds the product name in a filename.
func DetectProduct(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "dexit"):
		return ProductDexit
	case strings.Contains(lower, "muspell"):
		return ProductMuspell
	}
	return ProductUnknown
}

// DetectApproach maps a filename to an approach, most specific pattern first.
// The checks run on the whole name, so a bare "dexit-v1.md" reads as IT
// through its "it-" suffix.
func DetectApproach(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "rc-") || strings.Contains(lower, "revenue"):
		return ApproachRevenueCycle
	case strings.Contains(lower, "ambulatory"):
		return ApproachAmbulatory
	case strings.Contains(lower, "him-") || strings.Contains(lower, "him."):
		return ApproachHIM
	case strings.Contains(lower, "it-") || strings.Contains(lower, "it.") || strings.Contains(lower, "applications"):
		return ApproachIT
	}
	return ApproachGeneral
}

// DetectVersion reads a vN marker from a filename, defaulting to 1.
func DetectVersion(filename string) int {
	m := versionPattern.FindStringSubmatch(filename)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// splitSections is the top-level state machine: the current section changes
// on a header line, and every other non-empty line lands in that section.
func splitSections(markdown string) (string, map[string][]string) {
	buffers := make(map[string][]string)
	title := ""
	current := ""

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isRule(line) {
			continue
		}

		if section, ok := headerSection(line); ok {
			current = section
			continue
		}

		if title == "" && current == "" && strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			continue
		}

		if current != "" {
			buffers[current] = append(buffers[current], line)
		}
	}
	return title, buffers
}

// headerSection reports the section a header line opens. Any line naming a
// section phrase counts unless it is a quoted script line.
func headerSection(line string) (string, bool) {
	if isQuoted(strings.TrimLeft(plain(line), "# ")) {
		return "", false
	}
	upper := strings.ToUpper(line)
	for _, rule := range sectionRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(upper, phrase) {
				return rule.section, true
			}
		}
	}
	return "", false
}

func parseOpening(lines []string) []Version {
	versions := parseVersionMarkers(lines)
	if len(versions) == 0 {
		versions = wholeBufferVersion(lines)
	}
	return versions
}

func parseClosing(lines []string) []Version {
	versions := parseVersionMarkers(lines)
	if len(versions) == 0 {
		versions = parseQuotedVersions(lines)
	}
	if len(versions) == 0 {
		versions = wholeBufferVersion(lines)
	}
	return versions
}

func parseVersionMarkers(lines []string) []Version {
	versions := []Version{}
	var current *Version

	for _, line := range lines {
		p := plain(line)
		if m := versionMarkerPattern.FindStringSubmatch(p); m != nil {
			versions = append(versions, Version{
				Number:  len(versions) + 1,
				Label:   strings.TrimSpace(m[2]),
				Content: stripQuotes(m[3]),
				Origin:  markdownOrigin(),
			})
			current = &versions[len(versions)-1]
			continue
		}
		if current != nil {
			current.Content = joinSpace(current.Content, stripQuotes(p))
		}
	}
	return versions
}

// parseQuotedVersions handles closings written without version markers:
// every long quoted line is its own version, labelled from the line above.
func parseQuotedVersions(lines []string) []Version {
	versions := []Version{}
	for i, line := range lines {
		p := plain(line)
		if !isQuoted(p) {
			continue
		}
		text := stripQuotes(p)
		if len([]rune(text)) <= 50 {
			continue
		}
		label := ""
		if i > 0 {
			label = inferClosingLabel(plain(lines[i-1]))
		}
		if label == "" {
			label = fmt.Sprintf("Version %d", len(versions)+1)
		}
		versions = append(versions, Version{
			Number:  len(versions) + 1,
			Label:   label,
			Content: text,
			Origin:  markdownOrigin(),
		})
	}
	return versions
}

func inferClosingLabel(previous string) string {
	lower := strings.ToLower(previous)
	for _, hint := range closingLabelHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return hint
		}
	}
	return ""
}

func wholeBufferVersion(lines []string) []Version {
	content := ""
	for _, line := range lines {
		content = joinSpace(content, stripQuotes(plain(line)))
	}
	if content == "" {
		return []Version{}
	}
	return []Version{{Number: 1, Label: "Standard", Content: content, Origin: markdownOrigin()}}
}

func parseDiscovery(lines []string) []DiscoveryItem {
	items := []DiscoveryItem{}
	inWhy := false

	for _, line := range lines {
		p := plain(line)
		switch {
		case isQuoted(p):
			question := stripQuotes(p)
			items = append(items, DiscoveryItem{
				Question: question,
				Keywords: ExtractKeywords(question),
				Origin:   markdownOrigin(),
			})
			inWhy = false
		case hasPrefixFold(p, "Why:"):
			if len(items) == 0 {
				continue
			}
			last := &items[len(items)-1]
			last.Why = joinSpace(last.Why, afterMarker(p, "Why"))
			inWhy = true
		case inWhy && len(items) > 0:
			last := &items[len(items)-1]
			last.Why = joinSpace(last.Why, p)
		}
	}
	return items
}

func parseTransitions(lines []string) []Transition {
	transitions := []Transition{}

	for _, line := range lines {
		p := plain(line)
		switch {
		case strings.HasPrefix(p, "If ") || strings.HasPrefix(p, "Based on"):
			trigger := triggerPrefixPattern.ReplaceAllString(p, "")
			trigger = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trigger), ":"))
			transitions = append(transitions, Transition{
				Trigger:  trigger,
				Keywords: ExtractKeywords(trigger),
				Origin:   markdownOrigin(),
			})
		case isQuoted(p) && len(transitions) > 0:
			last := &transitions[len(transitions)-1]
			last.Pitch = joinSpace(last.Pitch, stripQuotes(p))
		}
	}
	return transitions
}

type captureMode int

const (
	captureNone captureMode = iota
	captureResponse
	captureAlternative
)

// parseObjections runs the objection state machine. A heading or bold quoted
// line always opens an objection; a bare quoted line opens one only when no
// response or alternative is being captured.
func parseObjections(lines []string) []ObjectionItem {
	items := []ObjectionItem{}
	mode := captureNone

	open := func(text string) {
		items = append(items, ObjectionItem{
			Objection:    text,
			Alternatives: []string{},
			Keywords:     ExtractKeywords(text),
			Origin:       markdownOrigin(),
		})
		mode = captureNone
	}

	for _, line := range lines {
		p := plain(line)
		switch {
		case isObjectionHeading(line, p):
			open(stripQuotes(strings.TrimLeft(p, "# ")))
		case hasPrefixFold(p, "Objection:"):
			mode = captureNone
			if rest := afterMarker(p, "Objection"); rest != "" {
				open(stripQuotes(rest))
			}
		case hasPrefixFold(p, "Response:"):
			if len(items) == 0 {
				continue
			}
			mode = captureResponse
			last := &items[len(items)-1]
			last.Response = joinSpace(last.Response, stripQuotes(afterMarker(p, "Response")))
		case alternativeLinePattern.MatchString(p):
			if len(items) == 0 {
				continue
			}
			last := &items[len(items)-1]
			// Consecutive markers with nothing captured share one slot.
			if n := len(last.Alternatives); n == 0 || last.Alternatives[n-1] != "" {
				last.Alternatives = append(last.Alternatives, "")
			}
			mode = captureAlternative
			inline := alternativeLinePattern.FindStringSubmatch(p)[1]
			appendAlternative(last, stripQuotes(inline))
		case isQuoted(p):
			if mode == captureNone || len(items) == 0 {
				open(stripQuotes(p))
				continue
			}
			last := &items[len(items)-1]
			if mode == captureResponse {
				last.Response = joinSpace(last.Response, stripQuotes(p))
			} else {
				appendAlternative(last, stripQuotes(p))
			}
		}
	}
	return items
}

func appendAlternative(item *ObjectionItem, text string) {
	n := len(item.Alternatives)
	if n == 0 || text == "" {
		return
	}
	item.Alternatives[n-1] = joinSpace(item.Alternatives[n-1], text)
}

func isObjectionHeading(raw, p string) bool {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "#") {
		return isQuoted(strings.TrimLeft(p, "# "))
	}
	return strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") && isQuoted(p)
}
