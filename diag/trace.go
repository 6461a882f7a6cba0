package diag

import (
	"fmt"
	"log"
	"os"
)

// tracer is nil unless VELLUM_TRACE=1 is set in the environment, in
// which case it writes bare lines to stderr with no extra prefix or
// timestamp.
var tracer *log.Logger

func init() {
	if os.Getenv("VELLUM_TRACE") == "1" {
		tracer = log.New(os.Stderr, "", 0)
	}
}

// Trace logs a formatted line if VELLUM_TRACE=1, and is a no-op
// otherwise. Call sites log one line per recursive resolution step,
// prefixed by the caller with the function name and its arguments.
func Trace(format string, args ...interface{}) {
	if tracer == nil {
		return
	}
	tracer.Output(2, fmt.Sprintf(format, args...))
}

// Tracing reports whether tracing is currently enabled, for call sites
// that want to skip building an expensive trace message entirely.
func Tracing() bool {
	return tracer != nil
}

// SetTrace force-enables or disables tracing, overriding VELLUM_TRACE.
// compile.WithTrace calls this so a driver can turn tracing on for one
// compilation without touching the process environment.
func SetTrace(on bool) {
	if on && tracer == nil {
		tracer = log.New(os.Stderr, "", 0)
	} else if !on {
		tracer = nil
	}
}
