// Package monitoring holds the process-wide diagnostic logger used by the
// visibility engine and its tools.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or embedding games can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs through Logf with a warning prefix. Safety-mode checks and
// spatial query truncation report through it.
func Warnf(format string, v ...interface{}) {
	Logf("[fow] warning: "+format, v...)
}
