package orchestrator

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap/zaptest"

    "github.com/example/outreach-finder/internal/extractor"
    "github.com/example/outreach-finder/internal/links"
    "github.com/example/outreach-finder/internal/models"
    "github.com/example/outreach-finder/internal/providers/llm"
)

const (
    lineA = `{"Name": "Dr. A", "Designation": "Professor"}`
    lineB = `{"Name": "Dr. B", "Designation": "Lecturer"}`
)

func newOrch(t *testing.T, client llm.Client, checker *links.Checker) *Orchestrator {
    t.Helper()
    log := zaptest.NewLogger(t)
    return New(extractor.New(client, log), checker, log)
}

func drainEvents(t *testing.T, ch <-chan []byte) []Event {
    t.Helper()
    var out []Event
    timeout := time.After(2 * time.Second)
    for {
        select {
        case b := <-ch:
            var ev Event
            require.NoError(t, json.Unmarshal(b, &ev))
            out = append(out, ev)
            if ev.Event == EventDone { return out }
        case <-timeout:
            t.Fatal("timed out waiting for done event")
        }
    }
}

func eventNames(evs []Event) []string {
    out := make([]string, len(evs))
    for i, ev := range evs { out[i] = ev.Event }
    return out
}

func TestCreateSearchValidates(t *testing.T) {
    o := newOrch(t, &llm.MockClient{}, nil)
    _, err := o.CreateSearch(models.Query{})
    assert.ErrorIs(t, err, models.ErrInvalidInput)
    assert.Empty(t, o.ListSearches())

    s, err := o.CreateSearch(models.Query{Institute: "IIT Roorkee"})
    require.NoError(t, err)
    assert.NotEmpty(t, s.ID)
    assert.Equal(t, models.StatusPending, s.Status)
    got, ok := o.GetSearch(s.ID)
    require.True(t, ok)
    assert.Equal(t, s.ID, got.ID)
}

func TestStartSuccess(t *testing.T) {
    o := newOrch(t, &llm.MockClient{Chunks: []string{lineA + "\nnot json\n", lineB}}, nil)
    s, err := o.CreateSearch(models.Query{Keyword: "graphs"})
    require.NoError(t, err)
    ch, unsub := o.Subscribe(s.ID)
    defer unsub()

    require.NoError(t, o.Start(context.Background(), s.ID))

    got, _ := o.GetSearch(s.ID)
    assert.Equal(t, models.StatusSuccess, got.Status)
    require.Len(t, got.Professors, 2)
    assert.Equal(t, "Dr. A", got.Professors[0].Name)
    assert.Equal(t, "Dr. B", got.Professors[1].Name)
    assert.Equal(t, 1, got.Skipped)
    assert.Empty(t, got.Error)

    evs := drainEvents(t, ch)
    assert.Equal(t, []string{EventStatus, EventProfessor, EventProfessor, EventStatus, EventDone}, eventNames(evs))
    payload := evs[2].Payload.(map[string]any)
    assert.Equal(t, float64(1), payload["index"])
}

func TestStartFailure(t *testing.T) {
    o := newOrch(t, &llm.MockClient{Chunks: []string{lineA + "\n"}, Err: errors.New("503 from upstream")}, nil)
    s, _ := o.CreateSearch(models.Query{Keyword: "graphs"})
    ch, unsub := o.Subscribe(s.ID)
    defer unsub()

    require.NoError(t, o.Start(context.Background(), s.ID))

    got, _ := o.GetSearch(s.ID)
    assert.Equal(t, models.StatusFailed, got.Status)
    assert.Equal(t, extractor.ErrFetchFailed.Error(), got.Error)
    assert.Len(t, got.Professors, 1)
    assert.Equal(t, []string{EventStatus, EventProfessor, EventError, EventStatus, EventDone}, eventNames(drainEvents(t, ch)))
}

func TestStartCancelled(t *testing.T) {
    o := newOrch(t, &llm.MockClient{Chunks: []string{lineA + "\n", lineB + "\n"}, Delay: time.Second}, nil)
    s, _ := o.CreateSearch(models.Query{Keyword: "graphs"})
    ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
    defer cancel()

    err := o.Start(ctx, s.ID)
    assert.ErrorIs(t, err, context.DeadlineExceeded)
    got, _ := o.GetSearch(s.ID)
    assert.Equal(t, models.StatusFailed, got.Status)
    assert.Equal(t, cancelledMessage, got.Error)
    assert.Empty(t, got.Professors)
}

func TestStartTwiceAndUnknown(t *testing.T) {
    o := newOrch(t, &llm.MockClient{Chunks: []string{}}, nil)
    assert.ErrorIs(t, o.Start(context.Background(), "nope"), ErrSearchNotFound)
    s, _ := o.CreateSearch(models.Query{Department: "Civil"})
    require.NoError(t, o.Start(context.Background(), s.ID))
    assert.ErrorIs(t, o.Start(context.Background(), s.ID), ErrAlreadyStarted)
}

func TestStartVerifiesLinks(t *testing.T) {
    site := httptest.NewServer(http.NotFoundHandler())
    defer site.Close()
    line := `{"Name": "Dr. C", "Designation": "Professor", "Institute Website": "` + site.URL + `/dead"}`
    o := newOrch(t, &llm.MockClient{Chunks: []string{line}}, links.NewChecker(time.Second, nil))
    s, _ := o.CreateSearch(models.Query{Keyword: "graphs"})
    require.NoError(t, o.Start(context.Background(), s.ID))
    got, _ := o.GetSearch(s.ID)
    require.Len(t, got.Professors, 1)
    assert.Equal(t, models.LinkNotWorking, got.Professors[0].Website)
}

func TestSnapshotsAreCopies(t *testing.T) {
    o := newOrch(t, &llm.MockClient{Chunks: []string{lineA}}, nil)
    s, _ := o.CreateSearch(models.Query{Keyword: "x"})
    require.NoError(t, o.Start(context.Background(), s.ID))
    got, _ := o.GetSearch(s.ID)
    got.Professors[0].Name = "mutated"
    again, _ := o.GetSearch(s.ID)
    assert.Equal(t, "Dr. A", again.Professors[0].Name)
    assert.True(t, Finished(again))
}

func TestListSearchesOrdered(t *testing.T) {
    o := newOrch(t, &llm.MockClient{}, nil)
    a, _ := o.CreateSearch(models.Query{Keyword: "a"})
    time.Sleep(time.Millisecond)
    b, _ := o.CreateSearch(models.Query{Keyword: "b"})
    list := o.ListSearches()
    require.Len(t, list, 2)
    assert.Equal(t, a.ID, list[0].ID)
    assert.Equal(t, b.ID, list[1].ID)
}

func TestHubUnsubscribe(t *testing.T) {
    h := NewHub()
    ch, unsub := h.Subscribe("s1")
    other, unsubOther := h.Subscribe("s2")
    defer unsubOther()
    h.Publish("s1", Event{Event: EventDone, SearchID: "s1"})
    b := <-ch
    assert.Contains(t, string(b), `"event":"done"`)
    assert.Empty(t, other)

    unsub()
    unsub()
    _, open := <-ch
    assert.False(t, open)
    // a send to the closed channel would panic if it were still registered
    assert.NotPanics(t, func() { h.Publish("s1", Event{Event: EventDone, SearchID: "s1"}) })
}
