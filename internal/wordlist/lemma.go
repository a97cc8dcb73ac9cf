package wordlist

import (
	"strings"
	"unicode"
)

// defaultStopwords are excluded from frequent-word snapshots by surface form
// and by lemma. Extra stopwords can be supplied through configuration.
var defaultStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {},
}

// Stopwords returns the stopword set extended with extra entries.
func Stopwords(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStopwords)+len(extra))
	for w := range defaultStopwords {
		set[w] = struct{}{}
	}
	for _, w := range extra {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

// IsStopword reports whether the word (in any casing) is a stopword.
func IsStopword(set map[string]struct{}, word string) bool {
	_, ok := set[strings.ToLower(word)]
	return ok
}

// HasFunctionWords reports whether any word of a phrase is a function word
// (approximated by the stopword set). Phrases containing function words are
// excluded from the frequent-phrases list.
func HasFunctionWords(set map[string]struct{}, phrase string) bool {
	for _, w := range strings.FieldsFunc(phrase, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if IsStopword(set, w) {
			return true
		}
	}
	return false
}

// Lemma returns the stem-grouped form of a word: lowercased with a simple
// suffix-stripping stemmer applied. Inflected forms that share a lemma are
// merged into one stem-grouped row by the refresher.
func Lemma(word string) string {
	return stem(strings.ToLower(word))
}

// stem applies a simple suffix-stripping stemmer to the given word.
func stem(word string) string {
	suffixes := []struct {
		suffix      string
		replacement string
		minLen      int
	}{
		{"ational", "ate", 2},
		{"tional", "tion", 2},
		{"encies", "ence", 2},
		{"ances", "ance", 2},
		{"ments", "ment", 2},
		{"izing", "ize", 2},
		{"ating", "ate", 2},
		{"iness", "y", 2},
		{"ously", "ous", 2},
		{"ively", "ive", 2},
		{"eness", "ene", 2},
		{"tion", "t", 3},
		{"sion", "s", 3},
		{"ying", "y", 2},
		{"ling", "l", 3},
		{"ies", "y", 2},
		{"ing", "", 3},
		{"ers", "er", 2},
		{"est", "", 3},
		{"ful", "", 3},
		{"ous", "", 3},
		{"ess", "", 3},
		{"ble", "", 3},
		{"ed", "", 3},
		{"er", "", 3},
		{"ly", "", 3},
		{"es", "", 3},
		{"ss", "ss", 2},
		{"s", "", 3},
	}
	for _, rule := range suffixes {
		if strings.HasSuffix(word, rule.suffix) {
			newWord := word[:len(word)-len(rule.suffix)] + rule.replacement
			if len(newWord) >= rule.minLen {
				return newWord
			}
		}
	}
	return word
}
