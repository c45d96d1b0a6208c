package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"netemlab/internal/app"
	"netemlab/internal/detector"
	"netemlab/internal/executor"
	"netemlab/internal/netem"
	"netemlab/internal/preset"
	"netemlab/internal/server"
)

const (
	defaultHost        = "0.0.0.0"
	defaultPort        = 5000
	defaultPresetDir   = "presets"
	defaultExecTimeout = 60 * time.Second
)

type options struct {
	host        string
	port        int
	presetDir   string
	execTimeout time.Duration
	debug       bool
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	presetDir, err := resolvePresetDir(opts.presetDir)
	if err != nil {
		logger.Error("failed to resolve preset directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("using preset directory", slog.String("path", presetDir))

	// Preview works on any host; these checks only warn about apply and reset.
	_ = detector.ValidateRuntime(logger)
	detector.ValidatePrivileges(logger)
	if missing := detector.CheckKernelModules(logger); len(missing) > 0 {
		logger.Info("shaping modules will load on first use", slog.String("modules", detector.MissingModuleNames(missing)))
	}

	defaults := netem.Defaults()
	application := app.New(app.Dependencies{
		Defaults:   defaults,
		Presets:    preset.NewStore(logger, presetDir, defaults),
		Runner:     executor.NewShellRunner(logger, executor.Settings{Timeout: opts.execTimeout}),
		Interfaces: detector.NewInspector(logger),
		Logger:     logger,
	})

	ctx, cancel := signalContext()
	defer cancel()

	addr := net.JoinHostPort(opts.host, strconv.Itoa(opts.port))
	if err := server.New(logger, application).ListenAndServe(ctx, addr); err != nil {
		logger.Error("server terminated", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// parseOptions reads flags, falling back to NETEMLAB_* environment variables
// for anything not given on the command line.
func parseOptions(args []string, getenv func(string) string) (options, error) {
	opts := options{
		host:        defaultHost,
		port:        defaultPort,
		execTimeout: defaultExecTimeout,
	}
	if v := strings.TrimSpace(getenv("NETEMLAB_HOST")); v != "" {
		opts.host = v
	}
	if v := strings.TrimSpace(getenv("NETEMLAB_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid NETEMLAB_PORT %q: %w", v, err)
		}
		opts.port = port
	}
	opts.presetDir = strings.TrimSpace(getenv("NETEMLAB_PRESETS_DIR"))

	fs := flag.NewFlagSet("netemlab", flag.ContinueOnError)
	fs.StringVar(&opts.host, "host", opts.host, "address to bind")
	fs.IntVar(&opts.port, "port", opts.port, "port to listen on")
	fs.StringVar(&opts.presetDir, "presets", opts.presetDir, "preset directory (default: ./presets)")
	fs.DurationVar(&opts.execTimeout, "exec-timeout", opts.execTimeout, "maximum run time of an apply or reset script")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.port <= 0 || opts.port > 65535 {
		return opts, fmt.Errorf("port %d out of range", opts.port)
	}
	if opts.execTimeout <= 0 {
		return opts, fmt.Errorf("exec-timeout must be positive")
	}
	return opts, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// resolvePresetDir returns an absolute preset directory. A missing directory
// is fine, the store creates it on first use, but an existing non-directory is not.
func resolvePresetDir(dir string) (string, error) {
	if dir == "" {
		dir = defaultPresetDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("%s is not a directory", abs)
	case err != nil && !os.IsNotExist(err):
		return "", err
	}
	return abs, nil
}
