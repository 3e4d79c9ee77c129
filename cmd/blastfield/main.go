// Command blastfield runs the parallel entity simulation and the explosion particle field
// Headless by default; -view opens a top-down terminal plot
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// options are the command-line overrides layered over the scenario
type options struct {
	configPath string
	frames     int
	entities   int
	workers    int
	seed       uint64
	seedSet    bool
	view       bool
	mute       bool
	logPath    string
	verbose    bool
	dumpConfig bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("blastfield", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "scenario file (.toml, .yaml, .yml)")
	fs.IntVar(&o.frames, "frames", -1, "frames to run, 0 runs until interrupted (overrides run.frames)")
	fs.IntVar(&o.entities, "entities", 0, "entity pool size (overrides sim.entities)")
	fs.IntVar(&o.workers, "workers", -1, "worker goroutines, 0 selects the CPU count (overrides sim.workers)")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed (overrides sim.seed)")
	fs.BoolVar(&o.view, "view", false, "open the terminal viewer")
	fs.BoolVar(&o.mute, "mute", false, "disable explosion audio")
	fs.StringVar(&o.logPath, "log", "", "log file (default stderr, discarded in viewer mode)")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.BoolVar(&o.dumpConfig, "dump-config", false, "print the effective scenario as TOML and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seedSet = true
		}
	})
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "blastfield: %v\n", err)
		stop()
		os.Exit(1)
	}
}
