// Package wlog provides the minimal leveled logging interface used for
// diagnostics that must never affect SCM or AVL semantics (e.g. the
// "delete of absent key" notice).
package wlog

import (
	"fmt"
	"log"
	"os"
)

// Logger is the diagnostic sink injected into pkg/avltree.
//
// Implementations must be safe to call with a nil receiver's zero value
// never occurring - callers get Nop by default, never a nil Logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Nop discards everything. It is the zero-value default Logger.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}

// Standard wraps the standard library *log.Logger with level prefixes.
type Standard struct {
	l *log.Logger
}

// NewStandard returns a Standard logger writing to os.Stderr with the given
// prefix, e.g. "wordtree: ".
func NewStandard(prefix string) *Standard {
	return &Standard{l: log.New(os.Stderr, prefix, log.LstdFlags)}
}

func (s *Standard) Debugf(format string, args ...any) {
	s.l.Print("DEBUG " + fmt.Sprintf(format, args...))
}

func (s *Standard) Infof(format string, args ...any) {
	s.l.Print("INFO " + fmt.Sprintf(format, args...))
}

func (s *Standard) Warnf(format string, args ...any) {
	s.l.Print("WARN " + fmt.Sprintf(format, args...))
}

// Recorder captures log lines in memory, for tests that assert a
// diagnostic was emitted without parsing stderr.
type Recorder struct {
	Lines []string
}

func (r *Recorder) Debugf(format string, args ...any) {
	r.Lines = append(r.Lines, "DEBUG "+fmt.Sprintf(format, args...))
}

func (r *Recorder) Infof(format string, args ...any) {
	r.Lines = append(r.Lines, "INFO "+fmt.Sprintf(format, args...))
}

func (r *Recorder) Warnf(format string, args ...any) {
	r.Lines = append(r.Lines, "WARN "+fmt.Sprintf(format, args...))
}
