// ABOUTME: Competitor-objection document parser
// ABOUTME: Turns numbered competitor sections into Competitor records with sub-objections
package callflow

import (
	"regexp"
	"strconv"
	"strings"
)

var competitorHeadingPattern = regexp.MustCompile(`^(?:#{1,6}\s*)?(?:\*\*)?(\d+)\.\s+(.+)$`)

// competitorSynonyms maps a name fragment to extra search keywords.
var competitorSynonyms = []struct {
	match string
	words []string
}{
	{"onbase", []string{"on base", "hyland"}},
	{"epic", []string{"hyperdrive", "gallery"}},
	{"cerner", []string{"oracle health", "wqm", "work queue manager"}},
	{"athena", []string{"athenahealth", "athenaone"}},
	{"ecw", []string{"ecw", "eclinicalworks"}},
	{"nextgen", []string{"next gen"}},
	{"rightfax", []string{"right fax", "opentext"}},
}

var subObjectionVocabulary = []struct {
	pattern *regexp.Regexp
	words   []string
}{
	{regexp.MustCompile(`\bai\b`), []string{"ai", "artificial intelligence", "automation"}},
	{regexp.MustCompile(`custom`), []string{"custom", "customize", "build"}},
	{regexp.MustCompile(`integrat`), []string{"integrate", "integration", "interface"}},
	{regexp.MustCompile(`contract`), []string{"contract", "locked in", "agreement"}},
	{regexp.MustCompile(`expensive`), []string{"expensive", "cost", "price", "budget"}},
	{regexp.MustCompile(`upgrade`), []string{"upgrade", "new version", "roadmap"}},
	{regexp.MustCompile(`happy`), []string{"happy", "satisfied", "works fine"}},
}

type competitorSection int

const (
	competitorNone competitorSection = iota
	competitorCommon
	competitorBackground
	competitorInitial
	competitorSubObjections
	competitorBottomLine
)

type competitorParser struct {
	doc     CompetitorObjections
	current *Competitor
	sub     *SubObjection
	section competitorSection
	mode    captureMode
	ids     map[string]int
}

// ParseCompetitorObjections parses the competitor document. Blank input
// yields an empty competitor list.
func ParseCompetitorObjections(markdown string) CompetitorObjections {
	p := &competitorParser{
		doc: CompetitorObjections{Competitors: []Competitor{}},
		ids: make(map[string]int),
	}
	for _, raw := range strings.Split(markdown, "\n") {
		p.line(raw)
	}
	p.closeCompetitor()
	return p.doc
}

func (p *competitorParser) line(raw string) {
	raw = strings.TrimRight(raw, " \t\r")
	if strings.TrimSpace(raw) == "" {
		return
	}

	// Competitor headings sit at zero indentation.
	if raw[0] != ' ' && raw[0] != '\t' {
		if m := competitorHeadingPattern.FindStringSubmatch(raw); m != nil {
			p.closeCompetitor()
			p.openCompetitor(m[2])
			return
		}
	}
	if p.current == nil {
		return
	}

	text := plain(raw)
	if p.marker(text) {
		return
	}

	switch p.section {
	case competitorCommon:
		if isQuoted(text) {
			p.current.CommonObjections = append(p.current.CommonObjections, stripQuotes(text))
		}
	case competitorBackground:
		p.current.Background = joinSpace(p.current.Background, text)
	case competitorInitial:
		if strings.HasPrefix(text, "They'll") || strings.HasPrefix(text, "Deeper") {
			p.section = competitorNone
			return
		}
		p.current.InitialResponse = joinSpace(p.current.InitialResponse, text)
	case competitorSubObjections:
		p.subObjectionLine(text)
	case competitorBottomLine:
		p.current.BottomLine = joinSpace(p.current.BottomLine, text)
	}
}

// marker switches the sub-section state. Text after a marker's colon is
// captured into the new section.
func (p *competitorParser) marker(text string) bool {
	var next competitorSection
	var name string
	switch {
	case hasPrefixFold(text, "What They'll Say"):
		next, name = competitorCommon, "What They'll Say"
	case hasPrefixFold(text, "What You Need to Know"):
		next, name = competitorBackground, "What You Need to Know"
	case hasPrefixFold(text, "Your Response Framework"):
		next, name = competitorInitial, "Your Response Framework"
	case hasPrefixFold(text, "Deeper Objection Handling"):
		next, name = competitorSubObjections, "Deeper Objection Handling"
	case hasPrefixFold(text, "Bottom Line"):
		next, name = competitorBottomLine, "Bottom Line"
	default:
		return false
	}

	p.closeSub()
	p.section = next
	if inline := afterMarker(text, name); inline != "" {
		switch next {
		case competitorCommon:
			if isQuoted(inline) {
				p.current.CommonObjections = append(p.current.CommonObjections, stripQuotes(inline))
			}
		case competitorBackground:
			p.current.Background = joinSpace(p.current.Background, inline)
		case competitorInitial:
			p.current.InitialResponse = joinSpace(p.current.InitialResponse, inline)
		case competitorBottomLine:
			p.current.BottomLine = joinSpace(p.current.BottomLine, inline)
		}
	}
	return true
}

func (p *competitorParser) subObjectionLine(text string) {
	switch {
	case isQuoted(text):
		p.closeSub()
		p.sub = &SubObjection{
			Objection:    stripQuotes(text),
			Alternatives: []string{},
			Origin:       markdownOrigin(),
		}
		p.mode = captureNone
	case p.sub == nil:
		return
	case hasPrefixFold(text, "Response:"):
		p.mode = captureResponse
		p.sub.Response = joinParagraph(p.sub.Response, afterMarker(text, "Response"))
	case alternativeLinePattern.MatchString(text):
		p.mode = captureAlternative
		inline := alternativeLinePattern.FindStringSubmatch(text)[1]
		p.sub.Alternatives = append(p.sub.Alternatives, strings.TrimSpace(inline))
	case p.mode == captureResponse:
		p.sub.Response = joinParagraph(p.sub.Response, text)
	case p.mode == captureAlternative:
		n := len(p.sub.Alternatives) - 1
		p.sub.Alternatives[n] = joinParagraph(p.sub.Alternatives[n], text)
	}
}

func (p *competitorParser) openCompetitor(heading string) {
	name := strings.TrimSpace(strings.ReplaceAll(heading, "**", ""))
	name = strings.TrimSpace(strings.TrimSuffix(name, ":"))

	id := Slugify(name)
	if n := p.ids[id]; n > 0 {
		p.ids[id] = n + 1
		id = id + "_" + strconv.Itoa(n+1)
	} else {
		p.ids[id] = 1
	}

	p.current = &Competitor{
		ID:               id,
		Name:             name,
		CommonObjections: []string{},
		Keywords:         CompetitorKeywords(name),
		SubObjections:    []SubObjection{},
	}
	p.section = competitorNone
	p.mode = captureNone
}

func (p *competitorParser) closeSub() {
	if p.sub == nil || p.current == nil {
		p.sub = nil
		return
	}
	p.sub.ID = SubObjectionID(p.current.ID, p.sub.Objection)
	p.sub.Keywords = SubObjectionKeywords(p.sub.Objection)
	p.current.SubObjections = append(p.current.SubObjections, *p.sub)
	p.sub = nil
	p.mode = captureNone
}

func (p *competitorParser) closeCompetitor() {
	if p.current == nil {
		return
	}
	p.closeSub()
	p.doc.Competitors = append(p.doc.Competitors, *p.current)
	p.current = nil
	p.section = competitorNone
}

// SubObjectionID joins the competitor id with the first 30 characters of
// the slugified objection.
func SubObjectionID(competitorID, objection string) string {
	slug := []rune(Slugify(objection))
	if len(slug) > 30 {
		slug = slug[:30]
	}
	return competitorID + "_" + string(slug)
}

// CompetitorKeywords builds the fuzzy-match keywords for a competitor name.
func CompetitorKeywords(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	words := []string{lower}

	base := lower
	if i := strings.Index(base, "("); i >= 0 {
		base = base[:i]
	}
	for _, part := range strings.FieldsFunc(base, func(r rune) bool {
		return r == '/' || r == ',' || r == '&'
	}) {
		words = append(words, strings.TrimSpace(part))
	}

	for _, syn := range competitorSynonyms {
		if strings.Contains(lower, syn.match) {
			words = append(words, syn.words...)
		}
	}
	return dedupe(words)
}

// SubObjectionKeywords scans an objection for the fixed vocabulary.
func SubObjectionKeywords(objection string) []string {
	lower := strings.ToLower(objection)
	words := []string{}
	for _, v := range subObjectionVocabulary {
		if v.pattern.MatchString(lower) {
			words = append(words, v.words...)
		}
	}
	return dedupe(words)
}
