// Package panel hosts the frequent-items overlay: four result list views
// (nouns, verbs, adjectives, phrases), each bound to its own row store and
// toggle state, plus the HTTP surface that serves them.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wordseer/frequentwords/internal/events"
	"github.com/wordseer/frequentwords/internal/view"
	"github.com/wordseer/frequentwords/internal/wordlist"
	apperrors "github.com/wordseer/frequentwords/pkg/errors"
)

// reloadTimeout bounds the bus-triggered background reload of all lists.
const reloadTimeout = 30 * time.Second

// ListView couples one category's store with its toggle state.
type ListView struct {
	Category wordlist.Category
	Store    *wordlist.Store
	State    *view.State
}

// Panel owns the four list views. Construction is idempotent: Build on an
// already-built panel is a no-op.
type Panel struct {
	mu     sync.Mutex
	built  bool
	views  map[wordlist.Category]*ListView
	source wordlist.Source
	bus    *events.Bus
	logger *slog.Logger
}

// New creates an unbuilt Panel.
func New(source wordlist.Source, bus *events.Bus) *Panel {
	return &Panel{
		views:  make(map[wordlist.Category]*ListView),
		source: source,
		bus:    bus,
		logger: slog.Default().With("component", "panel"),
	}
}

// Build constructs the four child list views and wires the slice-change
// subscriptions. It returns true when it built the panel, false when the
// panel already existed.
func (p *Panel) Build() bool {
	p.mu.Lock()
	if p.built {
		p.mu.Unlock()
		return false
	}
	for _, cat := range wordlist.Categories {
		p.views[cat] = &ListView{
			Category: cat,
			Store:    wordlist.NewStore(cat, p.source, p.bus),
			State:    view.NewState(),
		}
	}
	p.built = true
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.SubscribeAll(events.NewSlice, p.onSliceChange)
		p.bus.SubscribeAll(events.MenuButtonClicked, p.onSliceChange)
	}
	p.logger.Info("panel built", "views", len(wordlist.Categories))
	return true
}

// View returns the list view for a category. The panel is built on first
// use.
func (p *Panel) View(cat wordlist.Category) (*ListView, error) {
	p.Build()
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.views[cat]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnknownCategory, 400, "category %q", cat)
	}
	return v, nil
}

// Views returns the list views in panel display order.
func (p *Panel) Views() []*ListView {
	p.Build()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*ListView, 0, len(wordlist.Categories))
	for _, cat := range wordlist.Categories {
		out = append(out, p.views[cat])
	}
	return out
}

// LoadAll loads every list view for the given slice concurrently. Each
// store publishes DataChanged as it completes.
func (p *Panel) LoadAll(ctx context.Context, params wordlist.LoadParams) error {
	p.Build()
	g, ctx := errgroup.WithContext(ctx)
	for _, v := range p.Views() {
		g.Go(func() error {
			if err := v.Store.Load(ctx, params); err != nil {
				return fmt.Errorf("loading %s list: %w", v.Category, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// onSliceChange reloads all lists when a slice-change event arrives. The
// reload runs with its own deadline since the triggering request may have
// completed.
func (p *Panel) onSliceChange(e events.Event) {
	params, ok := e.Payload.(wordlist.LoadParams)
	if !ok {
		p.logger.Warn("slice event without load params", "type", string(e.Type))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	if err := p.LoadAll(ctx, params); err != nil {
		p.logger.Error("slice reload failed", "instance", params.Instance, "error", err)
		return
	}
	p.logger.Info("panel reloaded for slice", "instance", params.Instance)
}
