package gemini

import (
    "context"
    "errors"
    "testing"

    genai "github.com/google/generative-ai-go/genai"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "google.golang.org/api/iterator"
)

type fakeIterator struct {
    resps []*genai.GenerateContentResponse
    err   error
}

func (f *fakeIterator) Next() (*genai.GenerateContentResponse, error) {
    if len(f.resps) == 0 {
        if f.err != nil { return nil, f.err }
        return nil, iterator.Done
    }
    r := f.resps[0]
    f.resps = f.resps[1:]
    return r, nil
}

func resp(parts ...genai.Part) *genai.GenerateContentResponse {
    return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}}}
}

func TestDrainForwardsTextInOrder(t *testing.T) {
    it := &fakeIterator{resps: []*genai.GenerateContentResponse{
        resp(genai.Text(`{"Name": "A",`), genai.Text(` "Designation": "B"}`)),
        {},
        resp(genai.Text("\n")),
    }}
    var got []string
    err := drain(it, func(c string) error { got = append(got, c); return nil })
    require.NoError(t, err)
    assert.Equal(t, []string{`{"Name": "A", "Designation": "B"}`, "\n"}, got)
}

func TestDrainWrapsStreamError(t *testing.T) {
    boom := errors.New("quota exceeded")
    it := &fakeIterator{resps: []*genai.GenerateContentResponse{resp(genai.Text("x"))}, err: boom}
    var got []string
    err := drain(it, func(c string) error { got = append(got, c); return nil })
    assert.ErrorIs(t, err, boom)
    assert.Equal(t, []string{"x"}, got)
}

func TestDrainStopsOnCallbackError(t *testing.T) {
    it := &fakeIterator{resps: []*genai.GenerateContentResponse{resp(genai.Text("a")), resp(genai.Text("b"))}}
    calls := 0
    err := drain(it, func(string) error { calls++; return context.Canceled })
    assert.ErrorIs(t, err, context.Canceled)
    assert.Equal(t, 1, calls)
}

func TestTextOfIgnoresNonText(t *testing.T) {
    assert.Equal(t, "", textOf(nil))
    assert.Equal(t, "", textOf(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))
    assert.Equal(t, "ok", textOf(resp(genai.Blob{MIMEType: "image/png"}, genai.Text("ok"))))
}

func TestNewRequiresKey(t *testing.T) {
    _, err := New(context.Background(), "", "gemini-2.5-flash")
    assert.Error(t, err)
}
