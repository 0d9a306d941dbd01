// Package config loads settings from an optional .env file, an optional
// config.yaml and the process environment, in increasing order of precedence.
package config

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/joho/godotenv"
    "github.com/spf13/viper"
)

type Config struct {
    Port  string
    LLM   LLMConfig
    Log   LogConfig
    Links LinksConfig
}

type LLMConfig struct {
    Provider        string // gemini | openai | anthropic | mock; empty auto-detects by key
    Model           string
    GoogleAPIKey    string
    GeminiURL       string
    GeminiTransport string // sdk | http
    OpenAIAPIKey    string
    OpenAIBaseURL   string
    AnthropicAPIKey string
    AnthropicURL    string
    // Timeout bounds a whole request including the stream; zero means none.
    Timeout time.Duration
}

type LogConfig struct {
    Level  string
    Format string
}

type LinksConfig struct {
    Verify  bool
    Timeout time.Duration
}

var providers = map[string]bool{"": true, "gemini": true, "openai": true, "anthropic": true, "mock": true}

func Load() (*Config, error) {
    loadEnvFile()

    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./configs")
    if p := os.Getenv("CONFIG_FILE"); p != "" {
        v.SetConfigFile(p)
    }
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
    v.AutomaticEnv()
    setDefaults(v)

    if err := v.ReadInConfig(); err != nil {
        var nf viper.ConfigFileNotFoundError
        if !errors.As(err, &nf) {
            return nil, fmt.Errorf("error reading config: %w", err)
        }
    }

    cfg := fromViper(v)
    if err := validate(cfg); err != nil {
        return nil, fmt.Errorf("invalid configuration: %w", err)
    }
    return cfg, nil
}

func setDefaults(v *viper.Viper) {
    v.SetDefault("port", "8080")
    v.SetDefault("gemini_transport", "sdk")
    v.SetDefault("llm_http_timeout_ms", 0)
    v.SetDefault("log_level", "info")
    v.SetDefault("log_format", "console")
    v.SetDefault("verify_links", false)
    v.SetDefault("link_timeout_ms", 5000)
}

func fromViper(v *viper.Viper) *Config {
    googleKey := strings.TrimSpace(v.GetString("google_api_key"))
    if googleKey == "" {
        googleKey = strings.TrimSpace(v.GetString("api_key"))
    }
    return &Config{
        Port: strings.TrimSpace(v.GetString("port")),
        LLM: LLMConfig{
            Provider:        strings.ToLower(strings.TrimSpace(v.GetString("llm_provider"))),
            Model:           strings.TrimSpace(v.GetString("llm_model")),
            GoogleAPIKey:    googleKey,
            GeminiURL:       strings.TrimRight(v.GetString("gemini_api_url"), "/"),
            GeminiTransport: strings.ToLower(strings.TrimSpace(v.GetString("gemini_transport"))),
            OpenAIAPIKey:    strings.TrimSpace(v.GetString("openai_api_key")),
            OpenAIBaseURL:   strings.TrimRight(v.GetString("openai_api_base"), "/"),
            AnthropicAPIKey: strings.TrimSpace(v.GetString("anthropic_api_key")),
            AnthropicURL:    strings.TrimSpace(v.GetString("anthropic_api_url")),
            Timeout:         time.Duration(v.GetInt("llm_http_timeout_ms")) * time.Millisecond,
        },
        Log: LogConfig{
            Level:  v.GetString("log_level"),
            Format: v.GetString("log_format"),
        },
        Links: LinksConfig{
            Verify:  v.GetBool("verify_links"),
            Timeout: time.Duration(v.GetInt("link_timeout_ms")) * time.Millisecond,
        },
    }
}

func validate(cfg *Config) error {
    if !providers[cfg.LLM.Provider] {
        return fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
    }
    if cfg.LLM.GeminiTransport != "sdk" && cfg.LLM.GeminiTransport != "http" {
        return fmt.Errorf("unknown GEMINI_TRANSPORT %q", cfg.LLM.GeminiTransport)
    }
    if cfg.LLM.Timeout < 0 || cfg.Links.Timeout < 0 {
        return errors.New("timeouts must not be negative")
    }
    return nil
}

// loadEnvFile loads the first .env found in the working directory or the module root.
// Variables already set in the environment win.
func loadEnvFile() {
    paths := []string{".env"}
    if root := findProjectRoot(); root != "" {
        paths = append(paths, filepath.Join(root, ".env"))
    }
    for _, p := range paths {
        if _, err := os.Stat(p); err == nil {
            if err := godotenv.Load(p); err == nil {
                return
            }
        }
    }
}

func findProjectRoot() string {
    dir, err := os.Getwd()
    if err != nil { return "" }
    for {
        if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
            return dir
        }
        parent := filepath.Dir(dir)
        if parent == dir { return "" }
        dir = parent
    }
}
