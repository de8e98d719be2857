// Package textfreq tokenizes free-text answers, counts word frequencies and
// buckets words into fixed themes.
package textfreq

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"shespeaks/internal/model"
)

// MinTokenLen is the shortest token kept by FilterStopwords
const MinTokenLen = 3

// Stopwords is the canonical stop-word set
var Stopwords = newSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must", "can",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
	"my", "your", "his", "its", "our", "their", "mine", "yours", "hers", "ours", "theirs",
	"this", "that", "these", "those", "being", "shall",
)

func newSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Tokenize lower-cases text and returns maximal runs of letters, numbers and underscores.
// Numbers include superscripts and numeral letters such as ² and Ⅻ.
// "Can't believe it's 2024!" yields can, t, believe, it, s, 2024.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// FilterStopwords drops stop words and tokens shorter than MinTokenLen runes
func FilterStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < MinTokenLen {
			continue
		}
		if _, stop := Stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Count builds a frequency table in first-encountered order
func Count(tokens []string) *model.FrequencyTable {
	c := model.NewFrequencyCounter()
	for _, tok := range tokens {
		c.Add(tok, 1)
	}
	return c.Table()
}

// Analyze tokenizes, filters and counts every text
func Analyze(texts []string) *model.FrequencyTable {
	c := model.NewFrequencyCounter()
	for _, text := range texts {
		for _, tok := range FilterStopwords(Tokenize(text)) {
			c.Add(tok, 1)
		}
	}
	return c.Table()
}

// CountAll counts every token of every text without filtering
func CountAll(texts []string) *model.FrequencyTable {
	c := model.NewFrequencyCounter()
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			c.Add(tok, 1)
		}
	}
	return c.Table()
}

// TopN returns the n most frequent entries; ties keep first-encountered order
func TopN(freq *model.FrequencyTable, n int) []model.Entry {
	ranked := freq.Ranked()
	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
