package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// withProject returns a logger that tags every line with the project name.
func withProject(l *log.Logger, name string) *log.Logger {
	return l.With("project", name)
}

// progress times one step of a run and logs how it ended.
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	level  log.Level
	start  time.Time
}

// newProgress starts timing a step whose completion is logged at level.
func newProgress(l *log.Logger, level log.Level) *progress {
	return &progress{logger: l, level: level, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, rounded to the millisecond.
// Example output: "14:32:01.45 INFO analyzed project=logo rules=8 failed=2 elapsed=12ms"
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Log(p.level, msg, append(keyvals, "elapsed", p.elapsed())...)
}

// failed logs msg at warn level with err and the elapsed time.
func (p *progress) failed(msg string, err error, keyvals ...any) {
	p.logger.Warn(msg, append(keyvals, "error", err, "elapsed", p.elapsed())...)
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
