// Package logging provides the small structured logger the registration algorithms accept
// to report iteration-level progress. It is a trimmed-down version of the logging idiom used
// throughout this ecosystem: a narrow Logger interface backed by zap, rather than a direct
// dependency on *zap.SugaredLogger in every signature.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger is the structured logger accepted by the registration algorithms. Keyed
// "w"-suffixed methods mirror zap's SugaredLogger calling convention: alternating
// key/value pairs after the message.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Named(name string) Logger
}

type impl struct {
	*zap.SugaredLogger
}

func (l *impl) Named(name string) Logger {
	return &impl{l.SugaredLogger.Named(name)}
}

// NewLogger returns a logger that writes Info+ records to stderr, named for the given component.
func NewLogger(name string) Logger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return &impl{base.Sugar().Named(name)}
}

// NewTestLogger returns a logger suitable for use inside a *testing.T, writing through t.Log.
func NewTestLogger(tb testing.TB) Logger {
	return &impl{zaptest.NewLogger(tb).Sugar()}
}

type noop struct{}

func (noop) Debugw(string, ...interface{}) {}
func (noop) Infow(string, ...interface{})  {}
func (noop) Warnw(string, ...interface{})  {}
func (noop) Errorw(string, ...interface{}) {}
func (n noop) Named(string) Logger         { return n }

// NewNoopLogger returns a Logger that discards everything. Registration algorithms use this
// as their default when the caller does not supply a logger, per section 5's requirement that
// the library not force observability plumbing on a caller that doesn't want it.
func NewNoopLogger() Logger {
	return noop{}
}
