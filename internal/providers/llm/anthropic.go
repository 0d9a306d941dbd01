package llm

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "time"
)

const (
    defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
    anthropicMaxTokens  = 8192
)

type AnthropicClient struct {
    APIKey string
    model  string
    URL    string
    http   *http.Client
}

func NewAnthropicClient(apiKey, model, url string, timeout time.Duration) *AnthropicClient {
    return &AnthropicClient{APIKey: apiKey, model: model, URL: url, http: newHTTPClient(timeout)}
}

func (c *AnthropicClient) Model() string { return c.model }

type anthropicEvent struct {
    Type  string `json:"type"`
    Delta struct{
        Type string `json:"type"`
        Text string `json:"text"`
    } `json:"delta"`
    Error *struct{
        Type    string `json:"type"`
        Message string `json:"message"`
    } `json:"error"`
}

func (c *AnthropicClient) GenerateTextStream(ctx context.Context, prompt string, onDelta func(chunk string) error) error {
    body := map[string]any{
        "model": c.model,
        "max_tokens": anthropicMaxTokens,
        "stream": true,
        "messages": []map[string]any{{
            "role": "user",
            "content": []map[string]string{{"type": "text", "text": prompt}},
        }},
    }
    b, err := json.Marshal(body)
    if err != nil { return err }
    url := c.URL
    if url == "" { url = defaultAnthropicURL }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
    if err != nil { return err }
    req.Header.Set("x-api-key", c.APIKey)
    req.Header.Set("anthropic-version", "2023-06-01")
    req.Header.Set("content-type", "application/json")
    return streamSSE(c.http, req, "anthropic", func(data string) error {
        var ev anthropicEvent
        if err := json.Unmarshal([]byte(data), &ev); err != nil {
            return fmt.Errorf("anthropic: decode event: %w", err)
        }
        switch ev.Type {
        case "error":
            if ev.Error != nil { return fmt.Errorf("anthropic %s: %s", ev.Error.Type, ev.Error.Message) }
            return fmt.Errorf("anthropic: stream error")
        case "content_block_delta":
            if ev.Delta.Type == "text_delta" && ev.Delta.Text != "" { return onDelta(ev.Delta.Text) }
        }
        return nil
    })
}
