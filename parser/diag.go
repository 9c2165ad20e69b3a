package parser

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kc2g-aprs/tncd"
)

// Severity classifies a decode-time diagnostic per §7 of the decoder
// design: malformed fields and truncation never abort a decode, they
// just downgrade a field to its sentinel and report through here.
type Severity int

const (
	// SeverityWarning flags a spec deviation that was still decoded
	// (lower-case hemisphere letter, non-standard MHz capitalization, ...).
	SeverityWarning Severity = iota
	// SeverityError flags a malformed field that was set to UNKNOWN.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one decode-time finding.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// DiagSink is the collaborator interface §9 asks for: "a sink interface
// Diag(severity, message) threaded into the decoder; tests inject a
// capturing sink."
type DiagSink interface {
	Diag(severity Severity, message string)
}

// NopSink discards every diagnostic. Used when Parsed.Quiet is set.
type NopSink struct{}

func (NopSink) Diag(Severity, string) {}

// LogSink forwards diagnostics to an aprsutils.Logger, the way the
// teacher's decoder would have reported them via its global color/printf
// warnings if it had a sink abstraction.
type LogSink struct {
	Logger aprsutils.Logger
}

func (s LogSink) Diag(severity Severity, message string) {
	if s.Logger == nil {
		return
	}
	if severity == SeverityWarning {
		s.Logger.Warn(context.Background(), message)
	} else {
		s.Logger.Error(context.Background(), message)
	}
}

// CollectingSink buffers every diagnostic under a batch id, for tests and
// for callers (e.g. a CSV archiver) that want the full list rather than
// side-effecting log lines.
type CollectingSink struct {
	BatchID     string
	Diagnostics []Diagnostic
}

// NewCollectingSink returns a sink tagged with a fresh batch id.
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{BatchID: uuid.NewString()}
}

func (s *CollectingSink) Diag(severity Severity, message string) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{Severity: severity, Message: message})
}

func (s *CollectingSink) Errorf(format string, args ...interface{}) {
	s.Diag(SeverityError, fmt.Sprintf(format, args...))
}

func (s *CollectingSink) Warnf(format string, args ...interface{}) {
	s.Diag(SeverityWarning, fmt.Sprintf(format, args...))
}
