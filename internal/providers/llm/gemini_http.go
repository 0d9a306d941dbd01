package llm

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/url"
    "strings"
    "time"
)

const defaultGeminiBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiHTTPClient talks to the Gemini REST API directly, streaming over SSE.
type GeminiHTTPClient struct {
    APIKey  string
    model   string
    BaseURL string
    http    *http.Client
}

func NewGeminiHTTPClient(apiKey, model, baseURL string, timeout time.Duration) *GeminiHTTPClient {
    return &GeminiHTTPClient{APIKey: apiKey, model: model, BaseURL: strings.TrimRight(baseURL, "/"), http: newHTTPClient(timeout)}
}

func (c *GeminiHTTPClient) Model() string { return c.model }

type geminiChunk struct {
    Candidates []struct{
        Content struct{ Parts []struct{ Text string `json:"text"` } `json:"parts"` } `json:"content"`
    } `json:"candidates"`
    Error *struct{
        Code    int    `json:"code"`
        Message string `json:"message"`
    } `json:"error"`
}

func (c *GeminiHTTPClient) GenerateTextStream(ctx context.Context, prompt string, onDelta func(chunk string) error) error {
    base := c.BaseURL
    if base == "" { base = defaultGeminiBase }
    endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", base, url.PathEscape(c.model))
    body := map[string]any{
        "contents": []map[string]any{{
            "role":  "user",
            "parts": []map[string]string{{"text": prompt}},
        }},
    }
    b, err := json.Marshal(body)
    if err != nil { return err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
    if err != nil { return err }
    req.Header.Set("content-type", "application/json")
    req.Header.Set("x-goog-api-key", c.APIKey)
    return streamSSE(c.http, req, "gemini", func(data string) error {
        var chunk geminiChunk
        if err := json.Unmarshal([]byte(data), &chunk); err != nil {
            return fmt.Errorf("gemini: decode chunk: %w", err)
        }
        if chunk.Error != nil {
            return fmt.Errorf("gemini error %d: %s", chunk.Error.Code, chunk.Error.Message)
        }
        if len(chunk.Candidates) == 0 { return nil }
        var sb strings.Builder
        for _, p := range chunk.Candidates[0].Content.Parts { sb.WriteString(p.Text) }
        if sb.Len() == 0 { return nil }
        return onDelta(sb.String())
    })
}
