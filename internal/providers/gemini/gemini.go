// Package gemini streams completions through the official Gemini Go SDK.
package gemini

import (
    "context"
    "errors"
    "fmt"
    "strings"

    genai "github.com/google/generative-ai-go/genai"
    "google.golang.org/api/iterator"
    "google.golang.org/api/option"
)

type Client struct {
    client *genai.Client
    model  *genai.GenerativeModel
    name   string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
    if apiKey == "" { return nil, errors.New("gemini: missing API key") }
    c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
    if err != nil { return nil, fmt.Errorf("gemini: new client: %w", err) }
    return &Client{client: c, model: c.GenerativeModel(model), name: model}, nil
}

func (c *Client) Model() string { return c.name }

func (c *Client) Close() error { return c.client.Close() }

func (c *Client) GenerateTextStream(ctx context.Context, prompt string, onDelta func(chunk string) error) error {
    return drain(c.model.GenerateContentStream(ctx, genai.Text(prompt)), onDelta)
}

type responseIterator interface {
    Next() (*genai.GenerateContentResponse, error)
}

func drain(it responseIterator, onDelta func(chunk string) error) error {
    for {
        resp, err := it.Next()
        if errors.Is(err, iterator.Done) { return nil }
        if err != nil { return fmt.Errorf("gemini stream: %w", err) }
        if txt := textOf(resp); txt != "" {
            if err := onDelta(txt); err != nil { return err }
        }
    }
}

func textOf(r *genai.GenerateContentResponse) string {
    if r == nil || len(r.Candidates) == 0 { return "" }
    c := r.Candidates[0]
    if c == nil || c.Content == nil { return "" }
    var sb strings.Builder
    for _, part := range c.Content.Parts {
        if t, ok := part.(genai.Text); ok {
            sb.WriteString(string(t))
        }
    }
    return sb.String()
}
