package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teemow/meetfewer/internal/google"
	"github.com/teemow/meetfewer/internal/instrumentation"
	"github.com/teemow/meetfewer/internal/server"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveConfig collects the resolved settings for the serve command.
type serveConfig struct {
	httpAddr           string
	baseURL            string
	downloadDir        string
	googleClientID     string
	googleClientSecret string
	sessionTTL         time.Duration
	requestTimeout     time.Duration
	debugMode          bool
	metrics            MetricsConfig
}

func newServeCmd() *cobra.Command {
	var cfg serveConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the meetfewer web server",
		Long: `Start the HTTP server that signs users in with Google, creates
Calendar events with Meet links, and locates and downloads meeting
recordings from Google Drive.

OAuth Configuration:
  Google OAuth client credentials are required:
    --google-client-id and --google-client-secret flags
    OR GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars
    (a .env file in the working directory is loaded if present)

  Base URL (required for deployed instances):
    --base-url https://your-domain.com OR MEETFEWER_BASE_URL env var
    Defaults to http://localhost<http-addr> for development.
    The OAuth redirect URI <base-url>/auth/google/callback must be
    registered for the OAuth client.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is not an error.
			_ = godotenv.Load()

			if cfg.googleClientID == "" {
				cfg.googleClientID = os.Getenv("GOOGLE_CLIENT_ID")
			}
			if cfg.googleClientSecret == "" {
				cfg.googleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
			}
			if !cmd.Flags().Changed("base-url") {
				if baseURL := os.Getenv("MEETFEWER_BASE_URL"); baseURL != "" {
					cfg.baseURL = baseURL
				}
			}
			if !cmd.Flags().Changed("download-dir") {
				if dir := os.Getenv("MEETFEWER_DOWNLOAD_DIR"); dir != "" {
					cfg.downloadDir = dir
				}
			}
			if !cmd.Flags().Changed("metrics-enabled") {
				if os.Getenv("METRICS_ENABLED") == "false" {
					cfg.metrics.Enabled = false
				}
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					cfg.metrics.Addr = addr
				}
			}
			if cfg.baseURL == "" {
				cfg.baseURL = localBaseURL(cfg.httpAddr)
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.httpAddr, "http-addr", ":8080", "HTTP server address")
	cmd.Flags().StringVar(&cfg.baseURL, "base-url", "", "Public base URL for OAuth redirects. Required for deployed instances. Can also use MEETFEWER_BASE_URL env var. Example: https://meet.example.com")
	cmd.Flags().StringVar(&cfg.downloadDir, "download-dir", "downloads", "Directory where recording downloads are written. Can also use MEETFEWER_DOWNLOAD_DIR env var.")
	cmd.Flags().StringVar(&cfg.googleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&cfg.googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().DurationVar(&cfg.sessionTTL, "session-ttl", server.DefaultSessionTTL, "Session inactivity timeout")
	cmd.Flags().DurationVar(&cfg.requestTimeout, "request-timeout", server.DefaultRequestTimeout, "Per-request timeout for API handlers")
	cmd.Flags().BoolVar(&cfg.debugMode, "debug", false, "Enable debug logging")

	// Metrics server flags
	cmd.Flags().BoolVar(&cfg.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&cfg.metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// localBaseURL derives a development base URL from the listen address.
func localBaseURL(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func runServe(cfg serveConfig) error {
	logLevel := slog.LevelInfo
	if cfg.debugMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("Instrumentation shutdown failed", "error", err)
		}
	}()

	// Start metrics server on its own port if enabled
	var metricsServer *server.MetricsServer
	if cfg.metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown failed", "error", err)
			}
		}()
	}

	serverOpts := []server.ServerOption{}
	if provider.Enabled() {
		serverOpts = append(serverOpts,
			server.WithMetrics(provider.Metrics()),
			server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
		)
	}

	srv, err := server.New(shutdownCtx, server.Config{
		Addr:        cfg.httpAddr,
		BaseURL:     cfg.baseURL,
		DownloadDir: cfg.downloadDir,
		OAuth: google.Config{
			ClientID:     cfg.googleClientID,
			ClientSecret: cfg.googleClientSecret,
		},
		SessionTTL:     cfg.sessionTTL,
		RequestTimeout: cfg.requestTimeout,
	}, logger, serverOpts...)
	if err != nil {
		return err
	}

	logger.Info("Starting meetfewer",
		"version", version,
		"base_url", cfg.baseURL,
		"download_dir", cfg.downloadDir,
		"metrics_enabled", cfg.metrics.Enabled)

	return srv.Run(shutdownCtx)
}
