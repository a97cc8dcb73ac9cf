package usage

import (
	"testing"
	"time"
)

func TestTrackBuffersEvents(t *testing.T) {
	c := NewCollector(nil, 4)
	c.Track(ListLoadEvent{Type: EventListLoad, Category: "nouns"})
	c.Track(ToggleEvent{Type: EventToggle, Kind: "stem"})
	if got := len(c.eventCh); got != 2 {
		t.Errorf("buffered %d events, want 2", got)
	}
}

func TestTrackDropsWhenFull(t *testing.T) {
	c := NewCollector(nil, 1)

	c.Track(SliceEvent{Type: EventNewSlice, Instance: "1"})
	done := make(chan struct{})
	go func() {
		// Must return immediately even though the buffer is full.
		c.Track(SliceEvent{Type: EventNewSlice, Instance: "2"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Track blocked on a full buffer")
	}
	if got := len(c.eventCh); got != 1 {
		t.Errorf("buffered %d events, want 1", got)
	}
}

func TestDefaultBufferSize(t *testing.T) {
	c := NewCollector(nil, 0)
	if got := cap(c.eventCh); got != 10000 {
		t.Errorf("default buffer = %d, want 10000", got)
	}
}
