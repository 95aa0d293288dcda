package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nao1215/nrcap/internal/api"
	"github.com/nao1215/nrcap/internal/config"
	nrlog "github.com/nao1215/nrcap/internal/log"
	"github.com/nao1215/nrcap/internal/observability"
	"github.com/nao1215/nrcap/internal/pipeline"
)

// Server defaults.
const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	envPrefix              = "NRCAP"
)

// serveOptions holds the resolved server settings.
type serveOptions struct {
	Addr            string
	LogLevel        slog.Level
	LogFile         string
	LogMaxSizeMB    int
	LogMaxBackups   int
	LogCompress     bool
	AllowedOrigins  []string
	Concurrency     int
	ShutdownTimeout time.Duration
	Metrics         bool
}

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dimensioning API over HTTP",
		Long: `Serve starts an HTTP server exposing the dimensioning pipeline.

Routes:
  GET  /health          liveness and version
  POST /v1/dimension    dimension one scenario
  POST /v1/batch        dimension several scenarios
  GET  /metrics         Prometheus metrics (unless --metrics=false)
  GET  /docs            OpenAPI documentation

Every flag can also be set through an environment variable prefixed with
NRCAP_, e.g. NRCAP_ADDR=:9090 or NRCAP_LOG_LEVEL=debug. Flags win over the
environment.

Logs are written as JSON to stderr, or to --log-file with size-based
rotation (--log-max-size, --log-max-backups, --log-compress). A relative
--log-file is placed in the XDG state directory (~/.local/state/nrcap on
Linux).

Examples:
  # Listen on the default address
  nrcap serve

  # Listen on port 9090 and allow a browser front end
  nrcap serve --addr :9090 --allowed-origins https://planner.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newServeViper(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := loadServeOptions(v)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, opts, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().String("addr", defaultAddr, "Address to listen on")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().String("log-file", "", "Write logs to this file with rotation instead of stderr")
	cmd.Flags().Int("log-max-size", nrlog.DefaultMaxSizeMB, "Size in megabytes at which --log-file is rotated")
	cmd.Flags().Int("log-max-backups", nrlog.DefaultMaxBackups, "Rotated log files to keep")
	cmd.Flags().Bool("log-compress", false, "Gzip rotated log files")
	cmd.Flags().StringSlice("allowed-origins", nil, "Origins allowed to call the API from a browser (CORS)")
	cmd.Flags().Int("concurrency", pipeline.DefaultConcurrency, "Scenarios of one batch request dimensioned concurrently")
	cmd.Flags().Duration("shutdown-timeout", defaultShutdownTimeout, "Time allowed for in-flight requests on shutdown")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")

	return cmd
}

// newServeViper binds the serve flags and NRCAP_* environment variables.
// A flag the user set wins over the environment, which wins over the
// flag default.
func newServeViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v, nil
}

// loadServeOptions reads and checks the server settings from v.
func loadServeOptions(v *viper.Viper) (serveOptions, error) {
	level, err := nrlog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return serveOptions{}, err
	}

	opts := serveOptions{
		Addr:            v.GetString("addr"),
		LogLevel:        level,
		LogFile:         v.GetString("log-file"),
		LogMaxSizeMB:    v.GetInt("log-max-size"),
		LogMaxBackups:   v.GetInt("log-max-backups"),
		LogCompress:     v.GetBool("log-compress"),
		AllowedOrigins:  splitList(v.GetStringSlice("allowed-origins")),
		Concurrency:     v.GetInt("concurrency"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		Metrics:         v.GetBool("metrics"),
	}

	if opts.Addr == "" {
		return serveOptions{}, errors.New("listen address must not be empty")
	}
	if opts.Concurrency <= 0 {
		return serveOptions{}, config.ErrInvalidBatchSize
	}
	if opts.LogMaxSizeMB <= 0 {
		return serveOptions{}, fmt.Errorf("log max size must be positive (got %d)", opts.LogMaxSizeMB)
	}
	if opts.LogMaxBackups < 0 {
		return serveOptions{}, fmt.Errorf("log max backups must not be negative (got %d)", opts.LogMaxBackups)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.LogFile != "" && !filepath.IsAbs(opts.LogFile) {
		opts.LogFile = filepath.Join(config.XDGStateDir(), opts.LogFile)
	}
	return opts, nil
}

// splitList flattens comma-separated entries, as environment variables
// carry lists as one string.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// runServe builds the server from opts and serves until ctx is done.
func runServe(ctx context.Context, opts serveOptions, stderr io.Writer) error {
	logOutput := newLogOutput(opts, stderr)
	defer logOutput.Close()
	logger := nrlog.NewJSONLogger(logOutput, opts.LogLevel)

	handler, err := newServerHandler(opts, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, ln, opts.ShutdownTimeout, logger)
}

// newLogOutput returns stderr, or a rotating writer when a log file is set.
func newLogOutput(opts serveOptions, stderr io.Writer) io.WriteCloser {
	if opts.LogFile == "" {
		return nopCloser{stderr}
	}
	return nrlog.NewRotatingWriter(opts.LogFile,
		nrlog.WithMaxSizeMB(opts.LogMaxSizeMB),
		nrlog.WithMaxBackups(opts.LogMaxBackups),
		nrlog.WithCompress(opts.LogCompress),
	)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// newServerHandler wires metrics and the API router.
func newServerHandler(opts serveOptions, logger *slog.Logger) (http.Handler, error) {
	apiOpts := []api.Option{
		api.WithLogger(logger),
		api.WithVersion(getVersion()),
		api.WithConcurrency(opts.Concurrency),
		api.WithAllowedOrigins(opts.AllowedOrigins),
	}

	if opts.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector, err := observability.NewCollector(reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		apiOpts = append(apiOpts, api.WithCollector(collector))
	}

	return api.New(apiOpts...).Handler(), nil
}

// serve runs srv on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
