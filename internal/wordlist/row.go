// Package wordlist implements the ordered, filterable, sortable collection
// of frequent word and phrase rows behind each result list view, together
// with its Postgres-backed loading source.
package wordlist

import (
	"fmt"

	apperrors "github.com/wordseer/frequentwords/pkg/errors"
)

// Category identifies one of the four frequent-item lists.
type Category string

const (
	Nouns      Category = "nouns"
	Verbs      Category = "verbs"
	Adjectives Category = "adjectives"
	Phrases    Category = "phrases"
)

// Categories lists every category in panel display order.
var Categories = []Category{Nouns, Verbs, Adjectives, Phrases}

// POS returns the part-of-speech tag prefix backing a word category, or ""
// for phrases.
func (c Category) POS() string {
	switch c {
	case Nouns:
		return "NN"
	case Verbs:
		return "VB"
	case Adjectives:
		return "JJ"
	default:
		return ""
	}
}

// ParseCategory converts a request path segment into a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case Nouns, Verbs, Adjectives, Phrases:
		return Category(s), nil
	}
	return "", apperrors.Newf(apperrors.ErrUnknownCategory, 400, "category %q", s)
}

// Row is a single word or phrase statistic record. Rows are owned by a
// Store; consumers only read them.
type Row struct {
	WordID         int64   `json:"word_id"`
	Word           string  `json:"word"`
	PartOfSpeech   string  `json:"part_of_speech,omitempty"`
	Count          int     `json:"count"`
	ScoreSentences float64 `json:"score_sentences"`
	IsLemmatized   bool    `json:"is_lemmatized"`
}

// SortKey selects the row attribute a sort orders by.
type SortKey string

const (
	SortByScore SortKey = "score_sentences"
	SortByCount SortKey = "count"
)

// Predicate decides whether a row is kept by a filter.
type Predicate func(Row) bool

// LoadParams carries the request context forwarded to the loading source:
// an opaque serialized slice query plus instance and user identifiers
// supplied by the environment.
type LoadParams struct {
	Query    string
	Instance string
	UserID   string
	Limit    int
}

// CacheKeySuffix returns a stable key fragment for caching list responses.
func (p LoadParams) CacheKeySuffix() string {
	return fmt.Sprintf("%s:%s:%d", p.Instance, p.Query, p.Limit)
}

// ListResult is a loaded, filtered, ordered list as returned to callers.
type ListResult struct {
	Category  Category `json:"category"`
	Rows      []Row    `json:"rows"`
	TotalRows int      `json:"total_rows"`
}
