// Package compile wires type resolution and LLVM emission together into
// the single entry point a driver calls with a hand-built program,
// collapsed into one function since this frontend has no separate
// parse stage.
package compile

// Options holds compiler-wide configuration: the target triple, the
// pipeline driver-loop optimization flag, and whether to enable
// resolution tracing. A zero Options is valid and matches the
// host's default target with no extra passes or tracing.
type Options struct {
	target       string
	optimizePipe bool
	trace        bool
}

// An Option configures an Options value (the functional-option idiom
// funvibe-funxy's internal/config and chazu-procyon's cmd/procyon both
// use for CLI-configurable compiler state, rather than a package-level
// global).
type Option func(*Options)

// WithTarget sets the LLVM target triple written into the emitted
// module. An empty triple (the default) leaves the module's target
// unset, matching llir/llvm's own default.
func WithTarget(triple string) Option {
	return func(o *Options) { o.target = triple }
}

// WithOptimizePipe sets the pipeline driver-loop optimization flag
// (collapsing a Pipe stage whose generator is immediately destroyed
// after a single promise into a plain call). Compile does not read the
// flag: no optimization pass runs, whatever its value.
func WithOptimizePipe(on bool) Option {
	return func(o *Options) { o.optimizePipe = on }
}

// WithTrace enables verbose resolution tracing for this compilation,
// independent of the VELLUM_TRACE environment variable diag.Trace also
// checks.
func WithTrace(on bool) Option {
	return func(o *Options) { o.trace = on }
}

// NewOptions builds an Options from the given functional options.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, f := range opts {
		f(&o)
	}
	return o
}
