package wordlist

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/wordseer/frequentwords/internal/events"
)

// Source loads rows for a category from backing storage.
type Source interface {
	FetchRows(ctx context.Context, category Category, params LoadParams) ([]Row, error)
}

// Store is the ordered row collection bound to one list view. Filtering and
// sorting are synchronous with respect to the caller; Load fetches from the
// Source and publishes a DataChanged event when the row set is replaced.
//
// Exactly one filter predicate can be active at a time; applying a new
// filter replaces the previous one rather than stacking on top of it.
type Store struct {
	mu       sync.RWMutex
	category Category
	source   Source
	bus      *events.Bus
	logger   *slog.Logger

	rows   []Row // load order, never reordered by filtering
	filter Predicate
	loaded bool
}

// NewStore creates an empty store for the category. The bus may be nil for
// standalone use (no events are published then).
func NewStore(category Category, source Source, bus *events.Bus) *Store {
	return &Store{
		category: category,
		source:   source,
		bus:      bus,
		logger:   slog.Default().With("component", "wordlist-store", "category", string(category)),
	}
}

// Category returns the list category this store is bound to.
func (s *Store) Category() Category {
	return s.category
}

// Load replaces the row set with freshly fetched rows. The active filter, if
// any, stays applied to the new rows.
func (s *Store) Load(ctx context.Context, params LoadParams) error {
	rows, err := s.source.FetchRows(ctx, s.category, params)
	if err != nil {
		return fmt.Errorf("loading %s rows: %w", s.category, err)
	}

	s.mu.Lock()
	s.rows = rows
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("rows loaded", "count", len(rows), "instance", params.Instance)
	s.publish(events.DataChanged)
	return nil
}

// LoadRows replaces the row set with rows fetched by the caller (for
// example, from the list cache). The active filter stays applied.
func (s *Store) LoadRows(rows []Row) {
	s.mu.Lock()
	s.rows = rows
	s.loaded = true
	s.mu.Unlock()
	s.publish(events.DataChanged)
}

// ClearFilter removes the active filter predicate.
func (s *Store) ClearFilter() {
	s.mu.Lock()
	s.filter = nil
	s.mu.Unlock()
}

// Filter installs pred as the single active filter and publishes
// DataChanged. A nil predicate is equivalent to ClearFilter.
func (s *Store) Filter(pred Predicate) {
	s.mu.Lock()
	s.filter = pred
	s.mu.Unlock()
	s.publish(events.DataChanged)
}

// Sort orders the full row set by the given key. Equal keys keep a
// deterministic order: word text ascending, then original load order (the
// sort is stable).
func (s *Store) Sort(key SortKey, descending bool) {
	s.mu.Lock()
	sort.SliceStable(s.rows, func(i, j int) bool {
		a, b := s.rows[i], s.rows[j]
		av, bv := sortValue(a, key), sortValue(b, key)
		if av != bv {
			if descending {
				return av > bv
			}
			return av < bv
		}
		return a.Word < b.Word
	})
	s.mu.Unlock()
	s.publish(events.DataChanged)
}

// Rows returns a snapshot of the currently visible rows: the loaded rows
// with the active filter applied, in current order.
func (s *Store) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visible := make([]Row, 0, len(s.rows))
	for _, row := range s.rows {
		if s.filter == nil || s.filter(row) {
			visible = append(visible, row)
		}
	}
	return visible
}

// Len returns the number of visible rows.
func (s *Store) Len() int {
	return len(s.Rows())
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) publish(t events.Type) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{Type: t, Component: string(s.category)})
}

func sortValue(r Row, key SortKey) float64 {
	if key == SortByScore {
		return r.ScoreSentences
	}
	return float64(r.Count)
}
