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

	"slotscraper/config"
	"slotscraper/internal/app"
	"slotscraper/internal/idgen"
	"slotscraper/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// errUsage marks command-line mistakes; the usage text has already been printed
var errUsage = errors.New("usage error")

type options struct {
	url         string
	weeks       int
	configPath  string
	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("slotscraper", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.url, "url", "", "Doctor profile URL (required)")
	fs.StringVar(&opts.url, "u", "", "Shorthand for --url")
	fs.IntVar(&opts.weeks, "weeks", 1, "Number of weeks to search, starting today")
	fs.StringVar(&opts.configPath, "config", "", "Path to JSON configuration file (default: environment)")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errUsage
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	if opts.showVersion {
		return opts, nil
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return nil, errUsage
	}
	if opts.url == "" {
		fmt.Fprintln(stderr, "--url is required")
		fs.Usage()
		return nil, errUsage
	}
	if opts.weeks <= 0 {
		fmt.Fprintln(stderr, "--weeks must be a positive integer")
		fs.Usage()
		return nil, errUsage
	}

	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "slotscraper %s\n", version)
		return nil
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(logging.LoggerConfig{
		Format: cfg.Logging.Format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Output: stderr,
	}).With("run_id", idgen.NewRun())

	logger.Debug("Configuration loaded",
		"cache_backend", cfg.Cache.Backend,
		"locale", cfg.Display.Locale,
		"weeks", opts.weeks)

	application, err := app.New(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(ctx, opts.url, opts.weeks, stdout)
}
