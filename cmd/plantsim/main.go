// Command plantsim runs the day-stepped manufacturing plant simulation and
// prints the purchase suggestions left at the end of the run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"plantsim/internal/config"
	"plantsim/internal/logging"
	"syscall"
)

var exitFunc = os.Exit

type options struct {
	configPath  string
	days        int
	importPath  string
	exportPath  string
	archive     bool
	restoreKey  string
	metricsAddr string
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plantsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to YAML configuration")
	fs.IntVar(&opts.days, "days", -1, "days to simulate (default: simulation.simulation_days)")
	fs.StringVar(&opts.importPath, "import", "", "snapshot JSON file to start from")
	fs.StringVar(&opts.exportPath, "export", "", "write the final snapshot JSON to this file")
	fs.BoolVar(&opts.archive, "archive", false, "store the final snapshot in the blob store")
	fs.StringVar(&opts.restoreKey, "restore", "", "start from an archived snapshot key, or 'latest'")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	fs.StringVar(&opts.logLevel, "log-level", "", "override log.level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.importPath != "" && opts.restoreKey != "" {
		fmt.Fprintln(stderr, "-import and -restore are mutually exclusive")
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if opts.days >= 0 {
		cfg.Simulation.Days = opts.days
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	if err := run(ctx, cfg, opts, stdout, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("simulation interrupted")
			return 130
		}
		logger.Error("simulation failed", "error", err)
		return 1
	}
	return 0
}
