package main

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/example/outreach-finder/internal/config"
    "github.com/example/outreach-finder/internal/extractor"
    "github.com/example/outreach-finder/internal/models"
    "github.com/example/outreach-finder/internal/providers/llm"
)

func runFinder(t *testing.T, client llm.Client, args ...string) (string, string, error) {
    t.Helper()
    t.Chdir(t.TempDir())
    t.Setenv("CONFIG_FILE", "")
    t.Setenv("LLM_PROVIDER", "")
    calls := 0
    cmd := newRootCmd(func(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (llm.Client, error) {
        calls++
        return client, nil
    })
    var out, errOut bytes.Buffer
    cmd.SetOut(&out)
    cmd.SetErr(&errOut)
    cmd.SetArgs(args)
    err := cmd.ExecuteContext(context.Background())
    if client == nil { assert.Zero(t, calls) }
    return out.String(), errOut.String(), err
}

const (
    lineA = `{"Name": "Dr. A", "Designation": "Professor", "Email": "a@example.edu", "Institute Website": "Link not working"}`
    lineB = `{"Name": "Dr. B", "Designation": "Lecturer"}`
)

func TestFinderRejectsEmptyQuery(t *testing.T) {
    _, _, err := runFinder(t, nil, "--institute", "  ")
    assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestFinderJSONOutput(t *testing.T) {
    out, errOut, err := runFinder(t, &llm.MockClient{Chunks: []string{lineA + "\nnope\n", lineB}}, "--keyword", "robotics", "--json")
    require.NoError(t, err)
    lines := strings.Split(strings.TrimSpace(out), "\n")
    require.Len(t, lines, 2)
    var p models.Professor
    require.NoError(t, json.Unmarshal([]byte(lines[1]), &p))
    assert.Equal(t, "Dr. B", p.Name)
    assert.Contains(t, errOut, "2 professors, 1 lines skipped")
}

func TestFinderTextOutput(t *testing.T) {
    out, _, err := runFinder(t, &llm.MockClient{Chunks: []string{lineA}}, "-i", "IIT Delhi")
    require.NoError(t, err)
    assert.Contains(t, out, "Dr. A")
    assert.Contains(t, out, "a@example.edu")
    assert.Contains(t, out, models.LinkNotWorking)
}

func TestFinderStreamFailure(t *testing.T) {
    out, errOut, err := runFinder(t, &llm.MockClient{Chunks: []string{lineA + "\n"}, Err: errors.New("boom")}, "-k", "optics", "--json")
    assert.ErrorIs(t, err, extractor.ErrFetchFailed)
    assert.Contains(t, out, "Dr. A")
    assert.Contains(t, errOut, extractor.ErrFetchFailed.Error())
    assert.NotContains(t, errOut, "boom")
}

func TestFinderNoResults(t *testing.T) {
    _, errOut, err := runFinder(t, &llm.MockClient{Chunks: []string{}}, "-d", "Physics")
    require.NoError(t, err)
    assert.Contains(t, errOut, "No professors found")
}
