package orchestrator

import (
    "context"
    "errors"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/example/outreach-finder/internal/extractor"
    "github.com/example/outreach-finder/internal/links"
    "github.com/example/outreach-finder/internal/logger"
    "github.com/example/outreach-finder/internal/metrics"
    "github.com/example/outreach-finder/internal/models"
)

var (
    ErrSearchNotFound = errors.New("search not found")
    ErrAlreadyStarted = errors.New("search already started")
)

const cancelledMessage = "search cancelled"

// Orchestrator keeps searches in memory and fans their progress out to subscribers.
type Orchestrator struct {
    Extractor *extractor.Extractor
    // Links, when set, verifies each professor's website before it is stored.
    Links *links.Checker
    Log   *zap.Logger

    mu       sync.RWMutex
    searches map[string]*models.Search

    hub *Hub
}

func New(ex *extractor.Extractor, checker *links.Checker, log *zap.Logger) *Orchestrator {
    return &Orchestrator{
        Extractor: ex,
        Links:     checker,
        Log:       logger.OrNop(log),
        searches:  map[string]*models.Search{},
        hub:       NewHub(),
    }
}

func (o *Orchestrator) CreateSearch(q models.Query) (models.Search, error) {
    if err := q.Validate(); err != nil { return models.Search{}, err }
    now := time.Now()
    s := &models.Search{ID: uuid.NewString(), Query: q, Status: models.StatusPending, Professors: []models.Professor{}, CreatedAt: now, UpdatedAt: now}
    o.mu.Lock()
    o.searches[s.ID] = s
    snap := snapshot(s)
    o.mu.Unlock()
    return snap, nil
}

func (o *Orchestrator) GetSearch(id string) (models.Search, bool) {
    o.mu.RLock()
    defer o.mu.RUnlock()
    s, ok := o.searches[id]
    if !ok { return models.Search{}, false }
    return snapshot(s), true
}

// ListSearches returns all searches, oldest first.
func (o *Orchestrator) ListSearches() []models.Search {
    o.mu.RLock()
    out := make([]models.Search, 0, len(o.searches))
    for _, s := range o.searches {
        out = append(out, snapshot(s))
    }
    o.mu.RUnlock()
    sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
    return out
}

// Subscribe returns a channel carrying JSON-encoded Event payloads for a specific search.
// The caller must call the returned unsubscribe func when done.
func (o *Orchestrator) Subscribe(searchID string) (<-chan []byte, func()) {
    ch, unsub := o.hub.Subscribe(searchID)
    return ch, unsub
}

// Start runs a pending search to completion. Professors are stored and published in
// stream order. A model failure marks the search FAILED with the generic message.
func (o *Orchestrator) Start(ctx context.Context, id string) error {
    o.mu.Lock()
    s, ok := o.searches[id]
    if !ok { o.mu.Unlock(); return ErrSearchNotFound }
    if s.Status != models.StatusPending { o.mu.Unlock(); return ErrAlreadyStarted }
    s.Status = models.StatusRunning
    s.UpdatedAt = time.Now()
    q := s.Query
    o.mu.Unlock()

    log := o.Log.With(zap.String("search_id", id))
    o.hub.Publish(id, Event{Event: EventStatus, SearchID: id, Payload: map[string]any{"status": models.StatusRunning}})
    started := time.Now()

    var failure error
    stats, err := o.Extractor.Extract(ctx, q,
        func(p models.Professor) {
            if o.Links != nil { p = o.Links.Apply(ctx, p) }
            o.mu.Lock()
            s.Professors = append(s.Professors, p)
            idx := len(s.Professors) - 1
            s.UpdatedAt = time.Now()
            o.mu.Unlock()
            o.hub.Publish(id, Event{Event: EventProfessor, SearchID: id, Payload: ProfessorPayload{Index: idx, Professor: p}})
        },
        func(err error) {
            failure = err
            o.hub.Publish(id, Event{Event: EventError, SearchID: id, Payload: map[string]any{"error": err.Error()}})
        },
    )
    if err != nil && failure == nil {
        failure = errors.New(cancelledMessage)
    }

    o.mu.Lock()
    s.Skipped = stats.Skipped
    s.Status = models.StatusSuccess
    if failure != nil {
        s.Status = models.StatusFailed
        s.Error = failure.Error()
    }
    s.UpdatedAt = time.Now()
    final := snapshot(s)
    o.mu.Unlock()

    metrics.SearchDuration.WithLabelValues(string(final.Status)).Observe(time.Since(started).Seconds())
    log.Info("search finished", zap.String("status", string(final.Status)), zap.Int("professors", len(final.Professors)), zap.Int("skipped", final.Skipped))
    o.hub.Publish(id, Event{Event: EventStatus, SearchID: id, Payload: map[string]any{"status": final.Status, "error": final.Error}})
    o.hub.Publish(id, Event{Event: EventDone, SearchID: id, Payload: map[string]any{"professors": len(final.Professors), "skipped": final.Skipped}})
    return err
}

func snapshot(s *models.Search) models.Search {
    c := *s
    c.Professors = append([]models.Professor(nil), s.Professors...)
    if c.Professors == nil { c.Professors = []models.Professor{} }
    return c
}

// Finished reports whether a search reached a terminal status.
func Finished(s models.Search) bool {
    return s.Status == models.StatusSuccess || s.Status == models.StatusFailed
}
