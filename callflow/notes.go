// ABOUTME: Derives EHR, DMS, and volume facts from free-text call notes
// ABOUTME: Explicit key=value pairs win over vocabulary scanning
package callflow

import (
	"regexp"
	"strings"
)

var (
	explicitEHR   = regexp.MustCompile(`(?i)\behr\s*[=:]\s*([^,;\n]+)`)
	explicitDMS   = regexp.MustCompile(`(?i)\bdms\s*[=:]\s*([^,;\n]+)`)
	noDMS         = regexp.MustCompile(`(?i)\bno\s+(?:dms|document)`)
	volumePattern = regexp.MustCompile(`(?i)\b\d[\d,]*\s*(?:[a-z]+\s*)?(?:/|per\s+|a\s+|an\s+|each\s+)?(?:day|week)s?\b`)

	// valueStops end an explicit value early: the next key=value pair or a
	// clause that starts talking about something else.
	valueStops = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+[a-z][\w-]*\s*[=:]`),
		regexp.MustCompile(`(?i)\s+(?:and|with|but|so|who|which|for)\b`),
	}
)

// Vocabulary entries are matched case-insensitively and reported with the
// vendor's own casing.
var ehrVocabulary = compileVocabulary(
	"Epic", "Cerner", "Oracle Health", "MEDITECH", "athenahealth", "athena",
	"Allscripts", "eClinicalWorks", "eCW", "NextGen", "Greenway", "Veradigm",
)

var dmsVocabulary = compileVocabulary(
	"OnBase", "Hyland", "Laserfiche", "SharePoint", "RightFax", "DocuWare",
	"M-Files", "OpenText", "FileNet", "Kofax", "Documentum",
)

type vocabWord struct {
	name    string
	pattern *regexp.Regexp
}

func compileVocabulary(names ...string) []vocabWord {
	out := make([]vocabWord, len(names))
	for i, n := range names {
		out[i] = vocabWord{name: n, pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(n) + `\b`)}
	}
	return out
}

// ParseNotesContext extracts script context from call notes. Missing facts
// are left empty.
func ParseNotesContext(notes string) ScriptContext {
	var ctx ScriptContext
	if strings.TrimSpace(notes) == "" {
		return ctx
	}

	ctx.EHR = explicitValue(explicitEHR, notes)
	if ctx.EHR == "" {
		ctx.EHR = scanVocabulary(notes, ehrVocabulary)
	}

	ctx.DMS = explicitValue(explicitDMS, notes)
	if ctx.DMS == "" {
		if noDMS.MatchString(notes) {
			ctx.DMS = "none"
		} else {
			ctx.DMS = scanVocabulary(notes, dmsVocabulary)
		}
	}

	ctx.Volume = strings.TrimSpace(volumePattern.FindString(notes))
	return ctx
}

// explicitValue returns the value after a key= or key: marker, cut at the
// next pair, a trailing clause, or a volume figure.
func explicitValue(key *regexp.Regexp, notes string) string {
	m := key.FindStringSubmatch(notes)
	if m == nil {
		return ""
	}
	value := m[1]
	for _, stop := range append(valueStops, volumePattern) {
		if loc := stop.FindStringIndex(value); loc != nil {
			value = value[:loc[0]]
		}
	}
	return strings.TrimSpace(value)
}

// scanVocabulary returns the vocabulary name appearing earliest in text.
func scanVocabulary(text string, vocab []vocabWord) string {
	best, bestAt := "", -1
	for _, v := range vocab {
		loc := v.pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestAt < 0 || loc[0] < bestAt {
			best, bestAt = v.name, loc[0]
		}
	}
	return best
}
