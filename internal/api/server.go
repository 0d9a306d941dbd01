package api

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"

    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/zap"

    "github.com/example/outreach-finder/internal/extractor"
    "github.com/example/outreach-finder/internal/links"
    "github.com/example/outreach-finder/internal/logger"
    "github.com/example/outreach-finder/internal/models"
    "github.com/example/outreach-finder/internal/orchestrator"
)

const maxBodyBytes = 16 << 10

type Server struct {
    Orch      *orchestrator.Orchestrator
    Extractor *extractor.Extractor
    Links     *links.Checker
    Log       *zap.Logger

    // ctx bounds background searches; cancelled on shutdown.
    ctx context.Context
}

func NewServer(ctx context.Context, ex *extractor.Extractor, checker *links.Checker, log *zap.Logger) *Server {
    log = logger.OrNop(log)
    return &Server{
        Orch:      orchestrator.New(ex, checker, log),
        Extractor: ex,
        Links:     checker,
        Log:       log,
        ctx:       ctx,
    }
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        w.Write([]byte("ok"))
    })

    mux.Handle("/metrics", promhttp.Handler())

    mux.HandleFunc("/searches", func(w http.ResponseWriter, r *http.Request) {
        switch r.Method {
        case http.MethodGet:
            respondJSON(w, http.StatusOK, s.Orch.ListSearches())
        case http.MethodPost:
            q, ok := decodeQuery(w, r)
            if !ok { return }
            search, err := s.Orch.CreateSearch(q)
            if err != nil { respondError(w, http.StatusBadRequest, err.Error()); return }
            go func() {
                if err := s.Orch.Start(s.ctx, search.ID); err != nil {
                    s.Log.Warn("search stopped", zap.String("search_id", search.ID), zap.Error(err))
                }
            }()
            respondJSON(w, http.StatusAccepted, search)
        default:
            w.WriteHeader(http.StatusMethodNotAllowed)
        }
    })

    mux.HandleFunc("/searches/", func(w http.ResponseWriter, r *http.Request) {
        // path: /searches/{id} or /searches/{id}/events
        if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
        rest := r.URL.Path[len("/searches/"):]
        if id, ok := strings.CutSuffix(rest, "/events"); ok {
            s.streamEvents(w, r, id)
            return
        }
        search, ok := s.Orch.GetSearch(rest)
        if !ok { respondError(w, http.StatusNotFound, orchestrator.ErrSearchNotFound.Error()); return }
        respondJSON(w, http.StatusOK, search)
    })

    mux.HandleFunc("/professors/stream", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
        s.streamProfessors(w, r)
    })
}

// streamProfessors writes one JSON professor per line as the model produces them.
// A failure ends the body with a single {"error": ...} line.
func (s *Server) streamProfessors(w http.ResponseWriter, r *http.Request) {
    q, ok := decodeQuery(w, r)
    if !ok { return }
    if err := q.Validate(); err != nil { respondError(w, http.StatusBadRequest, err.Error()); return }
    flusher, _ := w.(http.Flusher)
    w.Header().Set("Content-Type", "application/x-ndjson")
    w.Header().Set("Cache-Control", "no-cache")
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    flush := func() { if flusher != nil { flusher.Flush() } }
    flush()

    ctx := r.Context()
    _, err := s.Extractor.Extract(ctx, q,
        func(p models.Professor) {
            if s.Links != nil { p = s.Links.Apply(ctx, p) }
            enc.Encode(p)
            flush()
        },
        func(err error) {
            enc.Encode(map[string]string{"error": err.Error()})
            flush()
        },
    )
    if err != nil {
        s.Log.Info("stream request ended early", zap.Error(err))
    }
}

// streamEvents serves a search's progress as server-sent events: the current
// snapshot first, then live events until the search finishes.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request, id string) {
    flusher, ok := w.(http.Flusher)
    if !ok { respondError(w, http.StatusInternalServerError, "streaming unsupported"); return }
    ch, unsub := s.Orch.Subscribe(id)
    defer unsub()
    snap, ok := s.Orch.GetSearch(id)
    if !ok { respondError(w, http.StatusNotFound, orchestrator.ErrSearchNotFound.Error()); return }

    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    w.WriteHeader(http.StatusOK)

    writeEvent(w, orchestrator.Event{Event: orchestrator.EventStatus, SearchID: id, Payload: map[string]any{"status": snap.Status, "error": snap.Error}})
    for i, p := range snap.Professors {
        writeEvent(w, orchestrator.Event{Event: orchestrator.EventProfessor, SearchID: id, Payload: orchestrator.ProfessorPayload{Index: i, Professor: p}})
    }
    if orchestrator.Finished(snap) {
        writeEvent(w, orchestrator.Event{Event: orchestrator.EventDone, SearchID: id, Payload: map[string]any{"professors": len(snap.Professors), "skipped": snap.Skipped}})
        flusher.Flush()
        return
    }
    flusher.Flush()

    sent := len(snap.Professors)
    for {
        select {
        case <-r.Context().Done():
            return
        case b, ok := <-ch:
            if !ok { return }
            var ev struct {
                Event   string `json:"event"`
                Payload struct{ Index int `json:"index"` } `json:"payload"`
            }
            if err := json.Unmarshal(b, &ev); err != nil { continue }
            if ev.Event == orchestrator.EventProfessor && ev.Payload.Index < sent { continue }
            fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, b)
            flusher.Flush()
            if ev.Event == orchestrator.EventDone { return }
        }
    }
}

func writeEvent(w http.ResponseWriter, ev orchestrator.Event) {
    b, _ := json.Marshal(ev)
    fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, b)
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (models.Query, bool) {
    var q models.Query
    if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&q); err != nil {
        respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
        return q, false
    }
    return q, true
}

func respondError(w http.ResponseWriter, status int, msg string) {
    respondJSON(w, status, map[string]string{"error": msg})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetIndent("", "  ")
    enc.Encode(v)
}
