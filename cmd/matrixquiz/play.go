package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-matrixquiz/internal/profiling"
	"github.com/opd-ai/go-matrixquiz/pkg/matrixquiz"
)

// playOptions holds the flags shared by the root and play commands.
type playOptions struct {
	configPath  string
	seed        int64
	watch       bool
	headless    bool
	strict      bool
	debug       bool
	jsonLog     bool
	logLevel    string
	metricsAddr string
	cpuProfile  string
	memProfile  string
	tracePath   string
}

func addPlayFlags(cmd *cobra.Command, opts *playOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Lua configuration file (defaults when empty)")
	f.Int64Var(&opts.seed, "seed", 0, "seed for reproducible rounds (overrides the config; 0 = config)")
	f.BoolVar(&opts.watch, "watch", false, "reload the configuration file when it changes")
	f.BoolVar(&opts.headless, "headless", false, "run without a window until interrupted")
	f.BoolVar(&opts.strict, "strict", false, "treat configuration warnings as errors")
	f.BoolVar(&opts.debug, "debug", false, "debug logging with source locations")
	f.BoolVar(&opts.jsonLog, "json-log", false, "log JSON records instead of text")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve expvar metrics on this address, e.g. 127.0.0.1:9090")
	f.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	f.StringVar(&opts.memProfile, "memprofile", "", "write a heap profile to this file on exit")
	f.StringVar(&opts.tracePath, "trace", "", "write an execution trace to this file")
}

func playCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the game window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts, stdout, stderr)
		},
	}
	addPlayFlags(cmd, opts)
	return cmd
}

// newLogger builds the process logger from the logging flags.
func newLogger(opts *playOptions, w io.Writer) (matrixquiz.Logger, error) {
	if opts.debug && !opts.jsonLog {
		return matrixquiz.DebugLogger(), nil
	}
	level, err := matrixquiz.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	if opts.debug {
		level = slog.LevelDebug
	}
	if opts.jsonLog {
		return matrixquiz.JSONLogger(w, level), nil
	}
	return matrixquiz.TextLogger(w, level), nil
}

func runPlay(ctx context.Context, opts *playOptions, stdout, stderr io.Writer) error {
	logger, err := newLogger(opts, stderr)
	if err != nil {
		return err
	}

	profConfig := profiling.Config{
		CPUProfilePath: opts.cpuProfile,
		MemProfilePath: opts.memProfile,
		TracePath:      opts.tracePath,
	}
	if profConfig.Enabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			return fmt.Errorf("start profiling: %w", err)
		}
		defer func() {
			if stopErr := profiler.Stop(); stopErr != nil {
				logger.Warn("failed to stop profiling", "error", stopErr)
			}
		}()
	}

	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); err != nil {
			return fmt.Errorf("configuration file: %w", err)
		}
	}

	metrics := matrixquiz.DefaultMetrics()
	qopts := matrixquiz.DefaultOptions()
	qopts.Headless = opts.headless
	qopts.Seed = opts.seed
	qopts.StrictConfig = opts.strict
	qopts.WatchConfig = opts.watch
	qopts.Logger = logger
	qopts.Metrics = metrics
	qopts.ErrorTracker = matrixquiz.NewErrorTracker(0)

	q, err := matrixquiz.New(opts.configPath, &qopts)
	if err != nil {
		return err
	}

	if opts.metricsAddr != "" {
		metrics.RegisterExpvar()
		stop, err := serveMetrics(opts.metricsAddr, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	stopReload := reloadOnHangup(q, logger)
	defer stopReload()

	fmt.Fprintf(stdout, "matrixquiz %s starting (%s)\n", Version, q.Status().ConfigSource)
	if err := q.Run(ctx); err != nil {
		return err
	}

	snap := metrics.Snapshot()
	logger.Info("session summary",
		"rounds", snap.Rounds,
		"checks", snap.Checks,
		"correct", snap.Correct,
		"errors", snap.ErrorsTotal)
	return nil
}

// reloadOnHangup reloads the configuration on SIGHUP until the returned
// function is called.
func reloadOnHangup(q matrixquiz.Quiz, logger matrixquiz.Logger) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigCh:
				logger.Info("received SIGHUP, reloading configuration")
				if err := q.ReloadConfig(); err != nil && !errors.Is(err, matrixquiz.ErrNoConfigSource) {
					logger.Warn("reload failed", "error", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// serveMetrics exposes expvar on addr and returns a function that shuts
// the server down.
func serveMetrics(addr string, logger matrixquiz.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String(), "path", "/debug/vars")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
