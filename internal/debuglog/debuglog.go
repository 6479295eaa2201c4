// Package debuglog provides a process-wide toggle for verbose tracing used
// by the huffman package's codecs. It is off by default; cmd/huffc's
// -debug flag turns it on for the lifetime of the process.
package debuglog

import (
	"fmt"
	"sync/atomic"
)

var enabled atomic.Bool

// Enable turns debug logging on or off.
func Enable(enable bool) {
	enabled.Store(enable)
}

// Log prints a prefixed message, but only when logging is enabled.
type Log struct {
	prefix string
}

// New returns a Log that tags every message with prefix.
func New(prefix string) Log {
	return Log{prefix: prefix}
}

// Printf formats and prints msg if debug logging is enabled; otherwise it is
// a no-op, so callers don't need to guard every call site.
func (l Log) Printf(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	fmt.Printf("[%s] %s\n", l.prefix, fmt.Sprintf(format, args...))
}
