// Package view holds the per-list-view toggle state and the operations that
// translate a user's option selection into a filter or sort mutation on the
// view's backing store.
package view

import (
	"sync"

	"github.com/wordseer/frequentwords/internal/wordlist"
)

// Store is the slice of the wordlist.Store surface the toggle operations
// need: clear-then-filter and in-place sort.
type Store interface {
	ClearFilter()
	Filter(wordlist.Predicate)
	Sort(key wordlist.SortKey, descending bool)
}

// State is the toggle state of one result list view. Both flags default to
// false and are mutated only by the Toggle operations.
type State struct {
	mu             sync.Mutex
	groupedByStem  bool
	orderedByScore bool
}

// NewState returns a State with both flags off.
func NewState() *State {
	return &State{}
}

// GroupedByStem reports whether the view shows stem-grouped rows.
func (s *State) GroupedByStem() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupedByStem
}

// OrderedByScore reports whether the view orders rows by score rather than
// count.
func (s *State) OrderedByScore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderedByScore
}

// ToggleGroupByStem flips the stem-grouping flag and re-filters the store:
// any previous filter is cleared, then rows are kept when IsLemmatized
// matches the new flag value. Filters never stack; the lemma-grouping
// predicate is the single active filter. Returns the new flag value.
func (s *State) ToggleGroupByStem(store Store) bool {
	s.mu.Lock()
	s.groupedByStem = !s.groupedByStem
	grouped := s.groupedByStem
	s.mu.Unlock()

	store.ClearFilter()
	store.Filter(func(r wordlist.Row) bool {
		return r.IsLemmatized == grouped
	})
	return grouped
}

// ToggleOrderByScore flips the ordering flag and re-sorts the store:
// descending by score when the flag is on, descending by count when it is
// off. The direction is always descending. Returns the new flag value.
func (s *State) ToggleOrderByScore(store Store) bool {
	s.mu.Lock()
	s.orderedByScore = !s.orderedByScore
	byScore := s.orderedByScore
	s.mu.Unlock()

	key := wordlist.SortByCount
	if byScore {
		key = wordlist.SortByScore
	}
	store.Sort(key, true)
	return byScore
}
