package llm

import (
    "context"
)

// Client streams a completion for a single prompt. onDelta receives text fragments
// in arrival order; fragment boundaries carry no meaning. A non-nil error from onDelta
// stops the stream and is returned as-is.
type Client interface {
    GenerateTextStream(ctx context.Context, prompt string, onDelta func(chunk string) error) error
    Model() string
}
