package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkdash/internal/api"
	"parkdash/internal/auth"
	"parkdash/internal/config"
	"parkdash/internal/domain"
	"parkdash/internal/events"
	"parkdash/internal/export"
	"parkdash/internal/google"
	"parkdash/internal/logging"
	"parkdash/internal/metrics"
	"parkdash/internal/models"
	"parkdash/internal/notify"
	"parkdash/internal/repository"
	"parkdash/internal/service"
	"parkdash/internal/session"
	"parkdash/internal/store"
	"parkdash/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	st, err := initStore(cfg, &logger)
	if err != nil {
		return err
	}
	defer st.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sessionTTL := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour
	sessionRepo := initSessionRepo(redisClient, sessionTTL, &logger)
	sessions := session.NewManager(sessionRepo, sessionTTL)
	authn := auth.NewAuthenticator(cfg.Auth)

	bus := events.NewEventBus()

	bot := initTelegram(cfg, &logger)
	if bot != nil {
		notifier := notify.NewNotifier(bot, cfg.Telegram.ChatIDs, &logger)
		notifier.Subscribe(bus)
	}

	sheetsService := initGoogleSheets(cfg, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.NewDashboardService(st, cfg.Database.Collection, cfg.Dashboard.TrendDays, bus, nil, &logger)

	var mirrorWorker *worker.MirrorWorker
	if sheetsService != nil {
		mirrorWorker = worker.NewMirrorWorker(svc, sheetsService, redisClient, worker.RetryPolicy{}, &logger)
		svc.SetMirror(mirrorWorker)
	}

	if err := seedStore(ctx, cfg, st, &logger); err != nil {
		return err
	}

	if err := svc.Load(ctx); err != nil {
		return err
	}

	if mirrorWorker != nil {
		go mirrorWorker.Start(ctx)
	}

	deliverer := buildDeliverer(cfg, bot, &logger)
	httpServer := api.NewHTTPServer(*cfg, svc, sessions, authn, bus, deliverer, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.Component(baseLogger, "server-main")

	return cfg, logger, closer, nil
}

func initStore(cfg *config.Config, logger *zerolog.Logger) (*store.SQLite, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init store")
		return nil, err
	}
	if err := st.EnsureCollection(context.Background(), cfg.Database.Collection); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// seedStore loads bookings from the seed file on first start so a fresh
// deployment has data to show.
func seedStore(ctx context.Context, cfg *config.Config, st *store.SQLite, logger *zerolog.Logger) error {
	if cfg.Database.SeedFile == "" {
		return nil
	}

	count, err := st.Count(ctx, cfg.Database.Collection)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(cfg.Database.SeedFile)
	if err != nil {
		logger.Warn().Err(err).Str("seed_file", cfg.Database.SeedFile).Msg("seed file missing, skipping")
		return nil
	}

	var seed struct {
		Bookings []models.Record `yaml:"bookings"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for i := range seed.Bookings {
		if err := st.Insert(ctx, cfg.Database.Collection, &seed.Bookings[i]); err != nil {
			return fmt.Errorf("seed record %s: %w", seed.Bookings[i].ID, err)
		}
	}

	logger.Info().Int("records", len(seed.Bookings)).Msg("store seeded")
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initSessionRepo(redisClient *redis.Client, ttl time.Duration, logger *zerolog.Logger) domain.SessionRepository {
	memory := repository.NewMemorySessionRepository(ttl)
	if redisClient == nil {
		return memory
	}
	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func initTelegram(cfg *config.Config, logger *zerolog.Logger) *tgbotapi.BotAPI {
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return nil
	}
	bot.Debug = cfg.Telegram.Debug

	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram connected")
	return bot
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.BookingSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.BookingSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	if err := sheetsService.TestConnection(context.Background()); err != nil {
		// The mirror worker retries, so a failed probe only warns.
		email, emailErr := sheetsService.GetServiceAccountEmail(cfg.Google.GoogleCredentialsFile)
		if emailErr != nil {
			email = "unknown"
		}
		logger.Warn().Err(err).Str("service_account", email).
			Msg("google sheets connection test failed, check spreadsheet access")
	} else {
		logger.Info().Msg("google sheets connected")
	}
	return sheetsService
}

// buildDeliverer assembles the export delivery chain: telegram first
// when configured, the exports directory as the fallback.
func buildDeliverer(cfg *config.Config, bot *tgbotapi.BotAPI, logger *zerolog.Logger) export.Deliverer {
	chain := make([]export.Deliverer, 0, 2)
	if bot != nil && len(cfg.Telegram.ChatIDs) > 0 {
		chain = append(chain, &export.TelegramDeliverer{Sender: bot, ChatID: cfg.Telegram.ChatIDs[0]})
	}
	chain = append(chain, &export.DirectoryDeliverer{Path: cfg.Exports.Path})
	return &export.FallbackDeliverer{Chain: chain, Logger: logger}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
