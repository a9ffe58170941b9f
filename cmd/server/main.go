package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/shopfront/internal/auth"
	"github.com/mmynk/shopfront/internal/config"
	"github.com/mmynk/shopfront/internal/models"
	"github.com/mmynk/shopfront/internal/service"
	"github.com/mmynk/shopfront/internal/session"
	"github.com/mmynk/shopfront/internal/storage/memory"
	"github.com/mmynk/shopfront/internal/storage/sqlite"
	"github.com/mmynk/shopfront/pkg/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("SHOPFRONT_CONFIG"), "path to YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	catalog := memory.NewCatalog(items)
	slog.Info("Catalog loaded", "source", cfg.Catalog.Source, "items", catalog.Len())

	orders := memory.NewOrderStore()
	for _, o := range cfg.Seed.Orders {
		orders.Add(o.Email, o)
	}
	users := memory.NewUserSlot()

	sessions, closeSessions, err := newSessionRegistry(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer closeSessions()

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = randomSecret()
		slog.Warn("No JWT secret configured; tokens will not survive a restart")
	}
	jwtManager := auth.NewJWTManager(jwtSecret, cfg.Auth.TokenTTL)

	staticDir, err := filepath.Abs(cfg.Server.StaticPath)
	if err != nil {
		return fmt.Errorf("resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := service.NewRouter(service.Deps{
		Catalog:   catalog,
		Orders:    orders,
		Users:     users,
		Sessions:  sessions,
		Strategy:  auth.NewAPIKeyStrategy(cfg.Auth.APIKeys...),
		Identity:  auth.NewBearerStrategy(jwtManager),
		Passwords: auth.NewPasswordAuthenticator(users, cfg.Auth.BcryptCost),
		JWT:       jwtManager,
		StaticDir: staticDir,
		Metrics:   reg,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr: cfg.Server.HTTPAddr,
		// h2c serves HTTP/2 without TLS next to HTTP/1.1
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "address", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadCatalog returns the configured items, or reads them from SQLite.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig) ([]models.Item, error) {
	if cfg.Source != config.SourceSQLite {
		return cfg.Items, nil
	}
	items, err := sqlite.LoadItems(ctx, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return items, nil
}

// newSessionRegistry builds the configured registry and its cleanup.
func newSessionRegistry(ctx context.Context, cfg config.SessionConfig) (session.Registry, func(), error) {
	limits := session.Limits{Timeout: cfg.Timeout, MaxRequests: cfg.MaxRequests, Window: cfg.Window}

	if cfg.Backend == config.BackendRedis {
		client := session.NewRedisClient(cfg.RedisAddr)
		reg := session.NewRedis(client, cfg.RedisPrefix, limits)
		if err := reg.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		slog.Info("Session registry initialized", "backend", cfg.Backend, "redis", cfg.RedisAddr)
		return reg, func() { _ = client.Close() }, nil
	}

	reg := session.NewMemory(limits)
	if cfg.JanitorInterval > 0 {
		reg.StartJanitor(ctx, cfg.JanitorInterval)
	}
	slog.Info("Session registry initialized", "backend", cfg.Backend, "janitor_interval", cfg.JanitorInterval)
	return reg, func() {}, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
