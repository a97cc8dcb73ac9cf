package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/wordseer/frequentwords/internal/events"
	"github.com/wordseer/frequentwords/internal/wordlist"
)

type stubSource struct {
	rows  []wordlist.Row
	calls atomic.Int64
}

func (s *stubSource) FetchRows(ctx context.Context, cat wordlist.Category, params wordlist.LoadParams) ([]wordlist.Row, error) {
	s.calls.Add(1)
	return s.rows, nil
}

func stubRows() []wordlist.Row {
	return []wordlist.Row{
		{WordID: 1, Word: "whale", Count: 40, ScoreSentences: 10, IsLemmatized: false},
		{WordID: 2, Word: "sea", Count: 25, ScoreSentences: 8, IsLemmatized: false},
		{WordID: 3, Word: "whale", Count: 55, ScoreSentences: 12, IsLemmatized: true},
	}
}

func newTestServer(t *testing.T, src *stubSource) (*httptest.Server, *Panel, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	p := New(src, bus)
	p.Build()

	h := NewHandler(p, src, nil, bus, nil, nil, 20, 100)
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, p, bus
}

func TestBuildIdempotent(t *testing.T) {
	p := New(&stubSource{}, events.NewBus())
	if !p.Build() {
		t.Fatal("first Build did not construct the panel")
	}
	if p.Build() {
		t.Error("second Build rebuilt the panel")
	}
}

func TestViewsInDisplayOrder(t *testing.T) {
	p := New(&stubSource{}, events.NewBus())
	views := p.Views()
	if len(views) != 4 {
		t.Fatalf("got %d views, want 4", len(views))
	}
	for i, cat := range wordlist.Categories {
		if views[i].Category != cat {
			t.Errorf("views[%d] = %s, want %s", i, views[i].Category, cat)
		}
	}
}

func decodeList(t *testing.T, resp *http.Response) listResponse {
	t.Helper()
	defer resp.Body.Close()
	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return out
}

func TestListEndpoint(t *testing.T) {
	src := &stubSource{rows: stubRows()}
	srv, _, _ := newTestServer(t, src)

	resp, err := http.Get(srv.URL + "/api/v1/lists/nouns?instance=3")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	out := decodeList(t, resp)

	if out.Category != wordlist.Nouns {
		t.Errorf("category = %s, want nouns", out.Category)
	}
	if out.TotalRows != 3 || len(out.Rows) != 3 {
		t.Errorf("rows = %d/%d, want 3/3", len(out.Rows), out.TotalRows)
	}
	if len(out.Marks) != len(out.Rows) {
		t.Fatalf("marks = %d, want one per row", len(out.Marks))
	}
	// Max score maps to the right end of the track.
	if got := out.Marks[2].Dot.CX; got != 96 {
		t.Errorf("max-score dot at %v, want 96", got)
	}
	if out.GroupedByStem || out.OrderedByScore {
		t.Error("toggles reported on for a fresh view")
	}
}

func TestListUnknownCategory(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubSource{rows: stubRows()})
	resp, err := http.Get(srv.URL + "/api/v1/lists/adverbs?instance=3")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListRequiresInstance(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubSource{rows: stubRows()})
	resp, err := http.Get(srv.URL + "/api/v1/lists/nouns")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListRejectsBadLimit(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubSource{rows: stubRows()})
	for _, limit := range []string{"0", "-5", "abc"} {
		resp, err := http.Get(srv.URL + "/api/v1/lists/nouns?instance=3&limit=" + limit)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, resp.StatusCode)
		}
	}
}

func TestToggleStem(t *testing.T) {
	src := &stubSource{rows: stubRows()}
	srv, p, _ := newTestServer(t, src)

	// Populate the verbs store first.
	resp, err := http.Get(srv.URL + "/api/v1/lists/verbs?instance=3")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/api/v1/views/verbs/toggles/stem", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	out := decodeList(t, resp)

	if !out.GroupedByStem {
		t.Error("toggle did not report grouping on")
	}
	for _, r := range out.Rows {
		if !r.IsLemmatized {
			t.Errorf("grouped view returned surface row %q", r.Word)
		}
	}

	v, err := p.View(wordlist.Verbs)
	if err != nil {
		t.Fatal(err)
	}
	if !v.State.GroupedByStem() {
		t.Error("view state not updated")
	}
}

func TestToggleOrder(t *testing.T) {
	src := &stubSource{rows: stubRows()}
	srv, _, _ := newTestServer(t, src)

	resp, err := http.Get(srv.URL + "/api/v1/lists/nouns?instance=3")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/api/v1/views/nouns/toggles/order", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	out := decodeList(t, resp)
	if !out.OrderedByScore {
		t.Error("toggle did not report score ordering on")
	}
	for i := 1; i < len(out.Rows); i++ {
		if out.Rows[i].ScoreSentences > out.Rows[i-1].ScoreSentences {
			t.Errorf("rows not in descending score order at %d", i)
		}
	}
}

func TestToggleUnknownKind(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubSource{rows: stubRows()})
	resp, err := http.Post(srv.URL+"/api/v1/views/nouns/toggles/reverse", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNewSliceReloadsAllViews(t *testing.T) {
	src := &stubSource{rows: stubRows()}
	srv, p, _ := newTestServer(t, src)

	resp, err := http.Post(srv.URL+"/api/v1/slices?instance=7", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	// Dispatch is synchronous, so all four stores have reloaded by the time
	// the response is written.
	if got := src.calls.Load(); got != 4 {
		t.Errorf("source fetched %d times, want 4", got)
	}
	for _, v := range p.Views() {
		if !v.Store.Loaded() {
			t.Errorf("%s store not loaded after slice change", v.Category)
		}
	}
}

func TestSliceEventReappliesFilter(t *testing.T) {
	src := &stubSource{rows: stubRows()}
	bus := events.NewBus()
	p := New(src, bus)
	p.Build()

	v, err := p.View(wordlist.Nouns)
	if err != nil {
		t.Fatal(err)
	}
	v.State.ToggleGroupByStem(v.Store)

	bus.Publish(events.Event{
		Type:    events.NewSlice,
		Payload: wordlist.LoadParams{Instance: "9", Limit: 20},
	})

	for _, r := range v.Store.Rows() {
		if !r.IsLemmatized {
			t.Errorf("reload dropped the stem filter, surface row %q visible", r.Word)
		}
	}
}
