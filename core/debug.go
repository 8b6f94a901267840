package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool
)

// SetDebugWriter installs the sink for debug output. Targets route this to
// the serial console; tests can capture it.
func SetDebugWriter(w DebugWriter) {
	if w == nil {
		w = func(s string) {}
	}
	debugPrintln = w
}

// SetDebugEnabled turns debug output on or off at runtime
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message if debugging is enabled
func DebugPrintln(s string) {
	if debugEnabled {
		debugPrintln(s)
	}
}
