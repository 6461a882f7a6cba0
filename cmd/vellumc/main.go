// Command vellumc drives type resolution and LLVM emission for a
// hand-built Language program (spec §1's surface parser is out of
// scope for this core, so there is no source file to read: vellumc
// wires the sample program built in program.go, the way a real driver
// would wire whatever a future parser produced).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vellum-lang/vellum/compile"
	"github.com/vellum-lang/vellum/emit"
)

var (
	output  = flag.String("o", "", "output file (default: stdout)")
	target  = flag.String("target", "", "LLVM target triple")
	emitFmt = flag.String("emit", "ll", "output format: ll or obj")
	trace   = flag.Bool("trace", false, "enable verbose resolution tracing")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	opts := []compile.Option{compile.WithTrace(*trace)}
	if *target != "" {
		opts = append(opts, compile.WithTarget(*target))
	}

	prog := samplePipelineProgram()
	unit, errs := compile.Compile("vellumc", prog, opts...)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	switch *emitFmt {
	case "ll":
		writeIR(unit)
	case "obj":
		die(fmt.Errorf("-emit=obj: not yet implemented"))
	default:
		die(fmt.Errorf("unknown -emit format %q", *emitFmt))
	}
}

func writeIR(unit *emit.Unit) {
	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			die(err)
		}
		defer f.Close()
		out = f
	}
	fmt.Fprintln(out, unit.Module.String())
}

func die(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	flag.PrintDefaults()
}
