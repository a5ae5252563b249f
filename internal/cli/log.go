// Package cli implements the linkdrift command-line interface.
//
// Commands lay out scene files, render them (svg, json, dot, tree, text),
// preview them in the terminal, serve the HTTP API and manage the CLI
// session whose seeds keep links in place between runs. Commands are built
// with cobra; logging goes through charmbracelet/log and travels in the
// command context.
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/scene"
)

// newLogger returns the CLI logger: timestamps as HH:MM:SS.cc, filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// sessionLogger tags every line with the short form of the session id, so
// runs that share seeds can be matched up in the output.
func sessionLogger(l *log.Logger, sessionID string) *log.Logger {
	if sessionID == "" {
		return l
	}
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	return l.With("session", short)
}

// progress times one layout run.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// placed logs the outcome of a layout with the time since newProgress.
func (p *progress) placed(l *scene.Layout) {
	kv := []any{
		"links", len(l.Links),
		"mode", l.Mode,
		"passes", l.Stats.Passes,
		"elapsed", time.Since(p.start).Round(time.Millisecond),
	}
	if l.Stats.Coalesced > 0 {
		kv = append(kv, "coalesced", l.Stats.Coalesced)
	}
	if l.Stats.Unresolved > 0 {
		kv = append(kv, "dimmed", l.Stats.Unresolved)
	}
	p.logger.Info("placed links", kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
