// ABOUTME: Keyword extraction and slug helpers shared by every parser
// ABOUTME: Tokenizes text into deduplicated search keywords without stop-words
package callflow

import (
	"strings"
	"unicode"
)

var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"before": true, "being": true, "both": true, "could": true, "does": true,
	"doing": true, "each": true, "from": true, "further": true, "have": true,
	"having": true, "here": true, "into": true, "just": true, "like": true,
	"more": true, "most": true, "much": true, "only": true, "other": true,
	"over": true, "same": true, "should": true, "some": true, "such": true,
	"than": true, "that": true, "their": true, "theirs": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "under": true, "until": true, "very": true,
	"were": true, "what": true, "when": true, "where": true, "which": true,
	"while": true, "will": true, "with": true, "would": true, "your": true,
	"yours": true, "youre": true, "theyre": true, "dont": true, "cant": true,
	"wont": true, "well": true, "really": true, "know": true, "want": true,
	"need": true, "going": true, "make": true, "sure": true, "thats": true,
}

// ExtractKeywords lower-cases text, strips punctuation, and returns the
// words longer than three characters that are not stop-words, in first-seen
// order without duplicates.
func ExtractKeywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '’':
			return -1
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, text)

	keywords := []string{}
	seen := make(map[string]bool)
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 3 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

// Slugify lower-cases s and collapses every run of non-alphanumerics to a
// single underscore.
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func dedupe(words []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
