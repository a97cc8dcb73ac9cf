package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/wordseer/frequentwords/internal/events"
	"github.com/wordseer/frequentwords/internal/lollipop"
	"github.com/wordseer/frequentwords/internal/usage"
	"github.com/wordseer/frequentwords/internal/wordlist"
	listcache "github.com/wordseer/frequentwords/internal/wordlist/cache"
	apperrors "github.com/wordseer/frequentwords/pkg/errors"
	"github.com/wordseer/frequentwords/pkg/logger"
	"github.com/wordseer/frequentwords/pkg/metrics"
)

// Handler serves the list, toggle, panel, and cache endpoints.
type Handler struct {
	panel        *Panel
	source       wordlist.Source
	cache        *listcache.ListCache
	bus          *events.Bus
	collector    *usage.Collector
	metrics      *metrics.Metrics
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
}

// NewHandler wires the HTTP surface. cache, collector, and metrics may be
// nil; the affected features degrade gracefully.
func NewHandler(p *Panel, source wordlist.Source, cache *listcache.ListCache, bus *events.Bus, collector *usage.Collector, m *metrics.Metrics, defaultLimit, maxLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Handler{
		panel:        p,
		source:       source,
		cache:        cache,
		bus:          bus,
		collector:    collector,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       slog.Default().With("component", "panel-handler"),
	}
}

// Register installs all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/lists/{category}", h.List)
	mux.HandleFunc("POST /api/v1/views/{category}/toggles/{kind}", h.Toggle)
	mux.HandleFunc("POST /api/v1/slices", h.NewSlice)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /panel", h.PanelPage)
}

// listResponse is the JSON shape of one served list.
type listResponse struct {
	Category       wordlist.Category `json:"category"`
	Rows           []wordlist.Row    `json:"rows"`
	Marks          []lollipop.Mark   `json:"marks"`
	GroupedByStem  bool              `json:"grouped_by_stem"`
	OrderedByScore bool              `json:"ordered_by_score"`
	TotalRows      int               `json:"total_rows"`
}

// List serves one category's rows with lollipop geometry, honoring the
// view's current filter and sort toggles.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	cat, err := wordlist.ParseCategory(r.PathValue("category"))
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	params, err := h.paramsFromRequest(r)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	v, err := h.panel.View(cat)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	cacheHit, err := h.loadView(ctx, v, params)
	if err != nil {
		log.Error("list load failed", "category", string(cat), "error", err)
		h.observeLoad(cat, "error", cacheHit, start)
		h.writeError(w, apperrors.HTTPStatusCode(err), "list load failed")
		return
	}

	rows := v.Store.Rows()
	resp := &listResponse{
		Category:       cat,
		Rows:           rows,
		Marks:          lollipop.Layout(scores(rows)),
		GroupedByStem:  v.State.GroupedByStem(),
		OrderedByScore: v.State.OrderedByScore(),
		TotalRows:      len(rows),
	}
	h.observeLoad(cat, "ok", cacheHit, start)
	if h.metrics != nil {
		h.metrics.ListRowsReturned.WithLabelValues(string(cat)).Observe(float64(len(rows)))
		outcome := "ok"
		if len(rows) == 0 {
			outcome = "empty"
		}
		h.metrics.ChartRendersTotal.WithLabelValues(outcome).Inc()
	}

	log.Info("list served",
		"category", string(cat),
		"instance", params.Instance,
		"rows", len(rows),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	if h.collector != nil {
		h.collector.Track(usage.ListLoadEvent{
			Type:      usage.EventListLoad,
			Category:  string(cat),
			Instance:  params.Instance,
			UserID:    params.UserID,
			Rows:      len(rows),
			CacheHit:  cacheHit,
			LatencyMs: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Toggle flips one of the view's two option flags and re-applies the
// filter or sort to the backing store.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cat, err := wordlist.ParseCategory(r.PathValue("category"))
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	kind := r.PathValue("kind")

	v, err := h.panel.View(cat)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	var newState bool
	switch kind {
	case "stem":
		newState = v.State.ToggleGroupByStem(v.Store)
	case "order":
		newState = v.State.ToggleOrderByScore(v.Store)
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown toggle %q", kind))
		return
	}

	if h.bus != nil {
		h.bus.Publish(events.Event{
			Type:      events.OptionChanged,
			Component: string(cat),
			Payload:   kind,
		})
	}
	if h.metrics != nil {
		h.metrics.ToggleOpsTotal.WithLabelValues(kind, strconv.FormatBool(newState)).Inc()
	}
	if h.collector != nil {
		h.collector.Track(usage.ToggleEvent{
			Type:      usage.EventToggle,
			Category:  string(cat),
			Kind:      kind,
			NewState:  newState,
			UserID:    r.URL.Query().Get("user"),
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}

	rows := v.Store.Rows()
	h.writeJSON(w, http.StatusOK, &listResponse{
		Category:       cat,
		Rows:           rows,
		Marks:          lollipop.Layout(scores(rows)),
		GroupedByStem:  v.State.GroupedByStem(),
		OrderedByScore: v.State.OrderedByScore(),
		TotalRows:      len(rows),
	})
}

// NewSlice announces a slice change. The panel reloads all four lists via
// its bus subscription.
func (h *Handler) NewSlice(w http.ResponseWriter, r *http.Request) {
	params, err := h.paramsFromRequest(r)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	if h.bus != nil {
		h.bus.Publish(events.Event{
			Type:    events.NewSlice,
			Payload: params,
		})
	}
	if h.collector != nil {
		h.collector.Track(usage.SliceEvent{
			Type:      usage.EventNewSlice,
			Instance:  params.Instance,
			UserID:    params.UserID,
			Timestamp: time.Now().UTC(),
		})
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "reloading"})
}

// CacheStats reports list-cache hit/miss counters.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate drops all cached lists for an instance.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	instance := r.URL.Query().Get("instance")
	if instance == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'instance' is required")
		return
	}
	if err := h.cache.Invalidate(r.Context(), instance); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// Health responds ok; liveness beyond this is handled by pkg/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadView populates the view's store, through the cache when available.
func (h *Handler) loadView(ctx context.Context, v *ListView, params wordlist.LoadParams) (cacheHit bool, err error) {
	if h.cache == nil {
		return false, v.Store.Load(ctx, params)
	}
	result, hit, err := h.cache.GetOrCompute(ctx, v.Category, params, func() (*wordlist.ListResult, error) {
		rows, err := h.source.FetchRows(ctx, v.Category, params)
		if err != nil {
			return nil, err
		}
		return &wordlist.ListResult{Category: v.Category, Rows: rows, TotalRows: len(rows)}, nil
	})
	if err != nil {
		return false, err
	}
	v.Store.LoadRows(result.Rows)
	return hit, nil
}

func (h *Handler) paramsFromRequest(r *http.Request) (wordlist.LoadParams, error) {
	q := r.URL.Query()
	instance := q.Get("instance")
	if instance == "" {
		return wordlist.LoadParams{}, apperrors.New(apperrors.ErrInvalidInput,
			http.StatusBadRequest, "query parameter 'instance' is required")
	}
	limit := h.defaultLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			return wordlist.LoadParams{}, apperrors.New(apperrors.ErrInvalidInput,
				http.StatusBadRequest, "limit must be a positive integer")
		}
		if parsed > h.maxLimit {
			parsed = h.maxLimit
		}
		limit = parsed
	}
	return wordlist.LoadParams{
		Query:    q.Get("q"),
		Instance: instance,
		UserID:   q.Get("user"),
		Limit:    limit,
	}, nil
}

func (h *Handler) observeLoad(cat wordlist.Category, status string, cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.ListLoadsTotal.WithLabelValues(string(cat), status).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	h.metrics.ListLoadDuration.WithLabelValues(string(cat), cacheStatus).Observe(time.Since(start).Seconds())
	if h.cache != nil {
		if cacheHit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}
}

func scores(rows []wordlist.Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.ScoreSentences
	}
	return out
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
