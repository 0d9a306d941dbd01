// Package extractor turns a chunked model stream of newline-delimited JSON into
// validated professor records, delivering each one as soon as its line completes.
//
// A malformed line is dropped and counted; it never ends the stream.
package extractor

import (
    "context"
    "errors"
    "iter"
    "strings"

    "go.uber.org/zap"

    "github.com/example/outreach-finder/internal/logger"
    "github.com/example/outreach-finder/internal/metrics"
    "github.com/example/outreach-finder/internal/models"
    "github.com/example/outreach-finder/internal/prompt"
    "github.com/example/outreach-finder/internal/providers/llm"
)

// ErrFetchFailed is the only error a caller's onError ever sees; the transport
// cause is logged, not passed on.
var ErrFetchFailed = errors.New("failed to fetch professor details. The model may be unable to find information for the given query")

// Stats counts what happened to the lines of one stream.
type Stats struct {
    Emitted int `json:"emitted"`
    Skipped int `json:"skipped"`
}

type Extractor struct {
    Client llm.Client
    Log    *zap.Logger
}

func New(client llm.Client, log *zap.Logger) *Extractor {
    return &Extractor{Client: client, Log: logger.OrNop(log)}
}

// Extract streams professors matching q. onRecord runs synchronously, in line order,
// once per valid record. onError runs at most once, on transport or service failure,
// with ErrFetchFailed; Extract then returns a nil error.
//
// The returned error is models.ErrInvalidInput for an empty query (no request is made)
// or the context error when ctx is cancelled mid-stream. A cancelled stream is not
// flushed, so no partial record is ever emitted.
func (e *Extractor) Extract(ctx context.Context, q models.Query, onRecord func(models.Professor), onError func(error)) (Stats, error) {
    var stats Stats
    if err := q.Validate(); err != nil { return stats, err }
    log := logger.OrNop(e.Log).With(zap.String("model", e.Client.Model()))

    var buf lineBuffer
    emit := func(line string) {
        p, reason, err := parseLine(line)
        if errors.Is(err, errBlank) { return }
        if err != nil {
            stats.Skipped++
            metrics.LinesSkipped.WithLabelValues(reason).Inc()
            log.Debug("skipping streamed line", zap.String("reason", reason), zap.String("line", line), zap.Error(err))
            return
        }
        stats.Emitted++
        metrics.ProfessorsEmitted.Inc()
        onRecord(p)
    }

    err := e.Client.GenerateTextStream(ctx, prompt.Build(q), func(chunk string) error {
        for _, line := range buf.Feed(chunk) {
            if err := ctx.Err(); err != nil { return err }
            emit(line)
        }
        return nil
    })
    if ctx.Err() != nil {
        log.Info("stream cancelled", zap.Int("emitted", stats.Emitted), zap.Error(ctx.Err()))
        return stats, ctx.Err()
    }
    if err != nil {
        metrics.StreamFailures.Inc()
        log.Error("error fetching data from model", zap.Error(err), zap.Int("emitted", stats.Emitted))
        if onError != nil { onError(ErrFetchFailed) }
        return stats, nil
    }
    emit(buf.Flush())
    if stats.Emitted == 0 {
        log.Info("stream produced no professors", zap.Int("skipped", stats.Skipped))
    }
    return stats, nil
}

// All is the pull form of Extract. It yields professors in stream order and, on
// failure, one final (zero, err) pair. Breaking out of the loop cancels the stream.
func (e *Extractor) All(ctx context.Context, q models.Query) iter.Seq2[models.Professor, error] {
    return func(yield func(models.Professor, error) bool) {
        ctx, cancel := context.WithCancel(ctx)
        defer cancel()
        stopped := false
        _, err := e.Extract(ctx, q,
            func(p models.Professor) {
                if stopped { return }
                if !yield(p, nil) {
                    stopped = true
                    cancel()
                }
            },
            func(err error) {
                if stopped { return }
                stopped = true
                yield(models.Professor{}, err)
            },
        )
        if err != nil && !stopped {
            yield(models.Professor{}, err)
        }
    }
}

// parseLine trims and decodes one line. Blank lines return errBlank and are
// not counted as skipped.
func parseLine(line string) (models.Professor, string, error) {
    line = strings.TrimSpace(line)
    if line == "" { return models.Professor{}, "", errBlank }
    p, err := models.ParseProfessor([]byte(line))
    if errors.Is(err, models.ErrMissingFields) { return p, metrics.ReasonMissingFields, err }
    if err != nil { return p, metrics.ReasonInvalidJSON, err }
    return p, "", nil
}

var errBlank = errors.New("blank line")
