package aprsutils

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger is the ambient logging collaborator used by the network client
// and the one-time TOCALL table loader. It is not used by the decoder
// itself — see parser.DiagSink for per-packet diagnostics.
type Logger interface {
	Debug(ctx context.Context, args ...interface{})
	Info(ctx context.Context, args ...interface{})
	Warn(ctx context.Context, args ...interface{})
	Error(ctx context.Context, args ...interface{})
}

// charmLogger adapts github.com/charmbracelet/log to Logger, tagging every
// line with a session id so concurrent clients interleave cleanly.
type charmLogger struct {
	l         *charmlog.Logger
	sessionID string
}

// NewLogger returns the default Logger, writing structured lines to stderr.
func NewLogger() Logger {
	return &charmLogger{
		l:         charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: true}),
		sessionID: uuid.NewString(),
	}
}

func (c *charmLogger) msg(args []interface{}) string {
	return fmt.Sprint(args...)
}

func (c *charmLogger) Debug(_ context.Context, args ...interface{}) {
	c.l.Debug(c.msg(args), "session", c.sessionID)
}

func (c *charmLogger) Info(_ context.Context, args ...interface{}) {
	c.l.Info(c.msg(args), "session", c.sessionID)
}

func (c *charmLogger) Warn(_ context.Context, args ...interface{}) {
	c.l.Warn(c.msg(args), "session", c.sessionID)
}

func (c *charmLogger) Error(_ context.Context, args ...interface{}) {
	c.l.Error(c.msg(args), "session", c.sessionID)
}
