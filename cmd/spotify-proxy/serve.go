package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/E-Corp-Inc/spotify-web-api-go/internal/config"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/client"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/logging"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/scopes"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var servePretty bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the proxy HTTP server",
	Long: `Run the proxy HTTP server.

Configuration is read from /etc/spotify-proxy/config.yaml, ./config.yaml,
or SPOTIFY_* environment variables (SPOTIFY_ACCESS_TOKEN, SPOTIFY_SCOPES,
SPOTIFY_REDIS_URL, SPOTIFY_PORT, ...).

Endpoints:
  /healthz    liveness probe
  /readyz     readiness probe (checks Redis when configured)
  /metrics    Prometheus metrics
  /api/...    forwarded to the Web API`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&servePretty, "pretty", false, "Human-readable console logs instead of JSON")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.AccessToken == "" {
		return fmt.Errorf("access token not configured (set SPOTIFY_ACCESS_TOKEN)")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logCfg.Pretty = servePretty
	logger := logging.Setup(logCfg)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisURL, err)
		}
		logger.Info().Str("redis_url", cfg.RedisURL).Msg("Connected to Redis")
	} else {
		logger.Warn().Msg("No Redis configured, running without cache and shared rate limit state")
	}

	clientCfg := client.DefaultConfig(cfg.AccessToken, scopes.ParseSet(cfg.Scopes))
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.UserAgent = cfg.UserAgent
	clientCfg.User = cfg.User
	clientCfg.Redis = redisClient

	spotifyClient, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer spotifyClient.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/readyz", readyHandler(redisClient))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/", proxyHandler(spotifyClient))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Int("port", cfg.Port).
			Str("base_url", cfg.BaseURL).
			Msg("Starting spotify-proxy")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
