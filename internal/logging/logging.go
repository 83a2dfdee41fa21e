// Package logging provides the compiler's component-scoped debug
// tracing, gated behind a single `-trace` flag the way the teacher's
// `cmd/ailang/main.go` gates its own trace output — never on by
// default, never used for diagnostic rendering (that's `diag` plus the
// CLI's own colored renderer, not this package).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	enabled bool
	out     io.Writer = os.Stderr

	tag = color.New(color.FgCyan).SprintFunc()
)

// SetEnabled turns tracing on or off process-wide. The CLI calls this
// once, at startup, from its `-trace` flag.
func SetEnabled(v bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = v
}

// SetOutput redirects trace output, used by tests to capture it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Logger is a component-scoped tracer, e.g. logging.For("discover").
type Logger struct {
	component string
}

// For returns a Logger scoped to component (lexer, parser, discover,
// resolver, analyzer, backend, lsp).
func For(component string) Logger {
	return Logger{component: component}
}

// Trace writes one formatted line if tracing is enabled, prefixed with
// the component tag. It is a no-op otherwise, so call sites never need
// to guard it themselves.
func (l Logger) Trace(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	fmt.Fprintf(out, "%s %s\n", tag("["+l.component+"]"), fmt.Sprintf(format, args...))
}
