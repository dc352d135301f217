// ABOUTME: Line-level helpers for the hand-authored markdown dialects
// ABOUTME: Strips list markers, bold markup, and quote characters
package callflow

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

var listMarkers = []string{"- ", "* ", "• ", "> "}

// plain trims a line, drops one leading list marker, and removes bold
// markup so marker matching sees only text.
func plain(line string) string {
	s := strings.TrimSpace(line)
	for _, m := range listMarkers {
		if strings.HasPrefix(s, m) {
			s = strings.TrimSpace(s[len(m):])
			break
		}
	}
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(strings.ReplaceAll(s, "’", "'"))
}

func isOpenQuote(r rune) bool  { return r == '"' || r == '“' }
func isCloseQuote(r rune) bool { return r == '"' || r == '”' }

// isQuoted reports whether s is fully wrapped in double quotes.
func isQuoted(s string) bool {
	r := []rune(strings.TrimSpace(s))
	if len(r) < 2 {
		return false
	}
	return isOpenQuote(r[0]) && isCloseQuote(r[len(r)-1])
}

// stripQuotes removes leading and trailing double-quote characters.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeftFunc(s, isOpenQuote)
	s = strings.TrimRightFunc(s, isCloseQuote)
	return strings.TrimSpace(s)
}

func joinSpace(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

func joinParagraph(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n\n" + b
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// afterMarker returns the text following marker and an optional colon.
func afterMarker(s, marker string) string {
	rest := strings.TrimSpace(s[len(marker):])
	return strings.TrimSpace(strings.TrimPrefix(rest, ":"))
}

func isRule(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return false
	}
	return strings.Trim(s, "-") == "" || strings.Trim(s, "*") == "" || strings.Trim(s, "_") == ""
}

func groupKey(product, approach string) string {
	if approach == "" {
		approach = ApproachGeneral
	}
	return product + "_" + approach
}

func newFlowID() string {
	return ulid.Make().String()
}
