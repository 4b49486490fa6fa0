// Package textutil provides text normalization helpers shared across the
// extraction pipeline.
package textutil

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// TokenizeAndSort converts text into its canonical searchable form: lowercase,
// punctuation stripped, words sorted and joined with single spaces. The result
// feeds the *_tsv search columns and is also the identity key for deduplicated
// entities.
func TokenizeAndSort(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return ""
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}

// ContainsWord reports whether name occurs in text as a whole word,
// case-insensitively. Word boundaries follow regexp \b semantics so
// multi-word names ("otitis media") match across spaces.
func ContainsWord(text, name string) bool {
	re, err := wordPattern(name)
	if err != nil {
		return false
	}
	return re.MatchString(strings.ToLower(text))
}

// Window returns the slice of text centered on [start, start+length) padded by
// radius bytes on each side, clamped to the text bounds.
func Window(text string, start, length, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := start + length + radius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

// ContainsAny reports whether any of the terms occurs as a substring of s.
// Matching is case-sensitive; callers pass curated vocabularies in the casing
// the corpus uses.
func ContainsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

var (
	patternMu    sync.RWMutex
	patternCache = map[string]*regexp.Regexp{}
)

func wordPattern(name string) (*regexp.Regexp, error) {
	key := strings.ToLower(name)

	patternMu.RLock()
	re, ok := patternCache[key]
	patternMu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(key) + `\b`)
	if err != nil {
		return nil, err
	}

	patternMu.Lock()
	patternCache[key] = re
	patternMu.Unlock()
	return re, nil
}
