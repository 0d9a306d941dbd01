package llm

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"
)

type OpenAIClient struct {
    APIKey  string
    model   string
    BaseURL string
    http    *http.Client
}

func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
    return &OpenAIClient{APIKey: apiKey, model: model, BaseURL: strings.TrimRight(baseURL, "/"), http: newHTTPClient(timeout)}
}

func (c *OpenAIClient) Model() string { return c.model }

type openAIChunk struct {
    Choices []struct{
        Delta struct{ Content string `json:"content"` } `json:"delta"`
    } `json:"choices"`
    Error *struct{ Message string `json:"message"` } `json:"error"`
}

func (c *OpenAIClient) GenerateTextStream(ctx context.Context, prompt string, onDelta func(chunk string) error) error {
    // Stream via Chat Completions SSE
    body := map[string]any{
        "model": c.model,
        "messages": []map[string]string{{"role": "user", "content": prompt}},
        "temperature": 0.3,
        "stream": true,
    }
    b, err := json.Marshal(body)
    if err != nil { return err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/v1/chat/completions"), bytes.NewReader(b))
    if err != nil { return err }
    req.Header.Set("Authorization", "Bearer "+c.APIKey)
    req.Header.Set("Content-Type", "application/json")
    return streamSSE(c.http, req, "openai", func(data string) error {
        var chunk openAIChunk
        if err := json.Unmarshal([]byte(data), &chunk); err != nil {
            return fmt.Errorf("openai: decode chunk: %w", err)
        }
        if chunk.Error != nil { return fmt.Errorf("openai error: %s", chunk.Error.Message) }
        if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" { return nil }
        return onDelta(chunk.Choices[0].Delta.Content)
    })
}

func (c *OpenAIClient) endpoint(path string) string {
    base := c.BaseURL
    if base == "" { base = "https://api.openai.com" }
    return base + path
}
