package orchestrator

import (
    "encoding/json"
    "sync"
)

const (
    EventStatus    = "search_status"
    EventProfessor = "professor"
    EventError     = "error"
    EventDone      = "done"
)

// Event is a generic SSE payload wrapper.
type Event struct {
    Event    string      `json:"event"`
    SearchID string      `json:"search_id"`
    Payload  interface{} `json:"payload,omitempty"`
}

// ProfessorPayload carries the record's position so late subscribers can
// skip what they already received in a snapshot.
type ProfessorPayload struct {
    Index     int         `json:"index"`
    Professor interface{} `json:"professor"`
}

type subscriber chan []byte

type Hub struct {
    mu   sync.RWMutex
    subs map[string]map[subscriber]struct{} // searchID -> set of subscribers
}

func NewHub() *Hub { return &Hub{subs: map[string]map[subscriber]struct{}{}} }

func (h *Hub) Subscribe(searchID string) (subscriber, func()) {
    ch := make(subscriber, 64)
    h.mu.Lock()
    set := h.subs[searchID]
    if set == nil { set = map[subscriber]struct{}{}; h.subs[searchID] = set }
    set[ch] = struct{}{}
    h.mu.Unlock()
    var once sync.Once
    unsubscribe := func() {
        once.Do(func() {
            h.mu.Lock()
            if set, ok := h.subs[searchID]; ok {
                delete(set, ch)
                if len(set) == 0 { delete(h.subs, searchID) }
            }
            close(ch)
            h.mu.Unlock()
        })
    }
    return ch, unsubscribe
}

func (h *Hub) Publish(searchID string, ev Event) {
    b, _ := json.Marshal(ev)
    h.mu.RLock()
    set := h.subs[searchID]
    for ch := range set {
        // non-blocking send
        select { case ch <- b: default: }
    }
    h.mu.RUnlock()
}
