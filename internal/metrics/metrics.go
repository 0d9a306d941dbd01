package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Skip reasons for LinesSkipped.
const (
    ReasonInvalidJSON   = "invalid_json"
    ReasonMissingFields = "missing_fields"
)

var (
    ProfessorsEmitted = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "professors_emitted_total",
            Help: "Total number of valid professor records emitted from model streams",
        },
    )

    LinesSkipped = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "stream_lines_skipped_total",
            Help: "Total number of streamed lines dropped during parsing",
        },
        []string{"reason"},
    )

    StreamFailures = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "stream_failures_total",
            Help: "Total number of model streams that ended in a transport or service error",
        },
    )

    SearchDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Name:    "search_duration_seconds",
            Help:    "Duration of search runs in seconds",
            Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
        },
        []string{"status"},
    )
)
