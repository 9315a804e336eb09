package pg

import (
	"context"
	"strings"
	"time"

	"eventscope/internal/platform/logger"
	"eventscope/internal/platform/metrics"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives every statement run through the store adapter
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerFunc adapts a plain func to QueryTracer
type TracerFunc func(ctx context.Context, ev QueryEvent)

// OnQuery calls f
func (f TracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

// Chain fans events out to every non nil tracer, nil when none are left
func Chain(tracers ...QueryTracer) QueryTracer {
	var live []QueryTracer
	for _, t := range tracers {
		if t != nil {
			live = append(live, t)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return TracerFunc(func(ctx context.Context, ev QueryEvent) {
		for _, t := range live {
			t.OnQuery(ctx, ev)
		}
	})
}

// LogTracer prints statements at info, slow or failed ones at warn
// the root level is ignored since sql logging is opted into separately
func LogTracer(log logger.Logger) QueryTracer {
	l := log.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return TracerFunc(func(_ context.Context, ev QueryEvent) {
		evt := l.Info()
		if ev.Slow || ev.Err != nil {
			evt = l.Warn()
		}
		evt.Float64("elapsed_ms", float64(ev.Elapsed.Microseconds())/1000.0).
			Bool("slow", ev.Slow).
			Str("sql", compact(ev.SQL)).
			Interface("args", ev.Args).
			Err(ev.Err).
			Msg("pg query")
	})
}

// MetricsTracer observes statement latency on the pg query histogram
func MetricsTracer() QueryTracer {
	return TracerFunc(func(_ context.Context, ev QueryEvent) {
		metrics.ObserveDB("pg", ev.Elapsed, ev.Err)
	})
}

func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
