package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"qcc/internal/circuit"
	"qcc/internal/dag"
	"qcc/internal/target"
	"qcc/internal/transpile"
	"qcc/internal/transpiler"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printGlobalUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "transpile":
		return runTranspile(args[1:])
	case "stats":
		return runStats(args[1:])
	default:
		printGlobalUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printGlobalUsage() {
	fmt.Fprintf(os.Stderr, "qcc quantum circuit compiler\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  qcc <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  transpile  Compile a circuit for a hardware target\n")
	fmt.Fprintf(os.Stderr, "  stats      Report metrics for a circuit file\n")
}

func runTranspile(args []string) error {
	fs := flag.NewFlagSet("transpile", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	targetPath := fs.String("target", "", "target description YAML file (required)")
	level := fs.Int("level", transpile.DefaultLevel, "optimization level (0-3)")
	seed := fs.Int64("seed", -1, "seed for randomized tie-breaking (-1 disables)")
	output := fs.String("o", "", "output file path (stdout when omitted)")
	verbose := fs.Bool("v", false, "log per-pass diagnostics to stderr")
	showProps := fs.Bool("props", false, "print pipeline properties after the circuit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("transpile requires exactly one circuit file")
	}
	if *targetPath == "" {
		fs.Usage()
		return fmt.Errorf("transpile requires -target")
	}

	c, err := circuit.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := target.LoadFile(*targetPath)
	if err != nil {
		return err
	}

	var logger *zap.Logger
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer logger.Sync()
	}

	res, err := transpile.Transpile(c, t, transpile.Options{
		Level:  *level,
		Seed:   *seed,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return withOutputWriter(*output, func(w io.Writer) error {
		res.Circuit.Dump(w)
		fmt.Fprintf(w, "final layout: %s\n", res.Layout)
		if *showProps {
			printProperties(w, res.Properties)
		}
		return nil
	})
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	output := fs.String("o", "", "output file path (stdout when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("stats requires exactly one circuit file")
	}

	c, err := circuit.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	d, err := dag.FromCircuit(c)
	if err != nil {
		return err
	}

	return withOutputWriter(*output, func(w io.Writer) error {
		fmt.Fprintf(w, "qubits: %d\n", c.Qubits)
		fmt.Fprintf(w, "clbits: %d\n", c.Clbits)
		fmt.Fprintf(w, "size: %d\n", d.Size())
		fmt.Fprintf(w, "depth: %d\n", d.Depth())
		fmt.Fprintf(w, "two-qubit ops: %d\n", len(d.TwoQubitOps()))
		counts := d.CountOps()
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %d\n", name, counts[name])
		}
		return nil
	})
}

func printProperties(w io.Writer, ps *transpiler.PropertySet) {
	fmt.Fprintln(w, "properties:")
	for _, key := range ps.Keys() {
		v, _ := ps.Lookup(key)
		fmt.Fprintf(w, "  %s: %v\n", key, v)
	}
}

func withOutputWriter(path string, fn func(io.Writer) error) error {
	w, cleanup, err := outputWriter(path)
	if err != nil {
		return err
	}
	if cleanup == nil {
		return fn(w)
	}
	err = fn(w)
	if closeErr := cleanup(); err == nil && closeErr != nil {
		err = closeErr
	}
	return err
}

func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
