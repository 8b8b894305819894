package plugin

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Tracer is the diagnostics capability injected into every core, the Go
// analogue of the teacher's occasional commented-out log.Printf calls in
// solver.go, made into a real, level-filtered sink instead of dead code.
type Tracer interface {
	Tracef(format string, args ...interface{})
	WithFields(fields logrus.Fields) Tracer
}

type logrusTracer struct {
	log *logrus.Entry
}

// NewTracer wraps a logrus.FieldLogger the way Notation-gscanner's analyzer
// threads a *logrus.Logger through its passes.
func NewTracer(log *logrus.Logger) Tracer {
	return &logrusTracer{log: logrus.NewEntry(log)}
}

// NoopTracer returns a Tracer that discards everything, the default in
// release builds per the design notes in spec section 9.
func NoopTracer() Tracer {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewTracer(log)
}

func (t *logrusTracer) Tracef(format string, args ...interface{}) {
	t.log.Debugf(format, args...)
}

func (t *logrusTracer) WithFields(fields logrus.Fields) Tracer {
	return &logrusTracer{log: t.log.WithFields(fields)}
}
