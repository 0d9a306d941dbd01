package llm

import (
    "context"

    "go.uber.org/zap"

    "github.com/example/outreach-finder/internal/config"
    "github.com/example/outreach-finder/internal/logger"
    "github.com/example/outreach-finder/internal/providers/gemini"
)

const (
    DefaultGeminiModel    = "gemini-2.5-flash"
    DefaultOpenAIModel    = "gpt-4o-mini"
    DefaultAnthropicModel = "claude-3-5-sonnet-latest"
)

// New returns a Client for the configured provider.
// With LLM_PROVIDER unset the first provider with an API key wins
// (gemini, openai, anthropic); with no key at all a MockClient is returned.
func New(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (Client, error) {
    log = logger.OrNop(log)
    prov := cfg.Provider
    if prov == "" {
        switch {
        case cfg.GoogleAPIKey != "":
            prov = "gemini"
        case cfg.OpenAIAPIKey != "":
            prov = "openai"
        case cfg.AnthropicAPIKey != "":
            prov = "anthropic"
        default:
            prov = "mock"
        }
    }
    switch prov {
    case "gemini":
        if cfg.GoogleAPIKey == "" { break }
        model := modelOr(cfg.Model, DefaultGeminiModel)
        if cfg.GeminiTransport == "http" || cfg.GeminiURL != "" {
            log.Info("using gemini over REST", zap.String("model", model))
            return NewGeminiHTTPClient(cfg.GoogleAPIKey, model, cfg.GeminiURL, cfg.Timeout), nil
        }
        log.Info("using gemini SDK", zap.String("model", model))
        c, err := gemini.New(ctx, cfg.GoogleAPIKey, model)
        if err != nil { return nil, err }
        return c, nil
    case "openai":
        if cfg.OpenAIAPIKey == "" { break }
        model := modelOr(cfg.Model, DefaultOpenAIModel)
        log.Info("using openai", zap.String("model", model))
        return NewOpenAIClient(cfg.OpenAIAPIKey, model, cfg.OpenAIBaseURL, cfg.Timeout), nil
    case "anthropic":
        if cfg.AnthropicAPIKey == "" { break }
        model := modelOr(cfg.Model, DefaultAnthropicModel)
        log.Info("using anthropic", zap.String("model", model))
        return NewAnthropicClient(cfg.AnthropicAPIKey, model, cfg.AnthropicURL, cfg.Timeout), nil
    }
    log.Warn("no LLM provider configured, serving canned results", zap.String("provider", prov))
    return &MockClient{}, nil
}

func modelOr(m, def string) string {
    if m != "" { return m }
    return def
}
