package usage

import "time"

type EventType string

const (
	EventListLoad EventType = "list_load"
	EventToggle   EventType = "toggle"
	EventNewSlice EventType = "new_slice"
)

// ListLoadEvent records one list load served to a user.
type ListLoadEvent struct {
	Type      EventType `json:"type"`
	Category  string    `json:"category"`
	Instance  string    `json:"instance"`
	UserID    string    `json:"user_id"`
	Rows      int       `json:"rows"`
	CacheHit  bool      `json:"cache_hit"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// ToggleEvent records a filter or sort toggle on a list view.
type ToggleEvent struct {
	Type      EventType `json:"type"`
	Category  string    `json:"category"`
	Kind      string    `json:"kind"` // "stem" or "order"
	NewState  bool      `json:"new_state"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// SliceEvent records a slice change driving a full panel reload.
type SliceEvent struct {
	Type      EventType `json:"type"`
	Instance  string    `json:"instance"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}
