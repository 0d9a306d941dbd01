package main

import (
    "context"
    "errors"
    "io"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"

    "github.com/example/outreach-finder/internal/api"
    "github.com/example/outreach-finder/internal/config"
    "github.com/example/outreach-finder/internal/extractor"
    "github.com/example/outreach-finder/internal/links"
    "github.com/example/outreach-finder/internal/logger"
    "github.com/example/outreach-finder/internal/providers/llm"
)

func main() {
    cfg, err := config.Load()
    if err != nil { log.Fatal(err) }
    zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
    if err != nil { log.Fatal(err) }
    defer zl.Sync()

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    client, err := llm.New(ctx, cfg.LLM, zl)
    if err != nil { zl.Fatal("llm client", zap.Error(err)) }
    if c, ok := client.(io.Closer); ok { defer c.Close() }
    zl.Info("llm client ready", zap.String("model", client.Model()))

    var checker *links.Checker
    if cfg.Links.Verify { checker = links.NewChecker(cfg.Links.Timeout, zl) }

    mux := http.NewServeMux()
    api.NewServer(ctx, extractor.New(client, zl), checker, zl).RegisterRoutes(mux)

    srv := &http.Server{Addr: ":" + cfg.Port, Handler: cors(mux)}
    go func() {
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        srv.Shutdown(shutdownCtx)
    }()

    zl.Info("server listening", zap.String("addr", srv.Addr))
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
        zl.Fatal("server", zap.Error(err))
    }
}

// simple CORS middleware for local dev
func cors(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}
