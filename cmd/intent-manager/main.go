// cmd/intent-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"marboris-intents/internal/api"
	"marboris-intents/internal/common/camunda"
	"marboris-intents/internal/common/config"
	"marboris-intents/internal/common/database"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/observability"
	"marboris-intents/internal/dataset"
	"marboris-intents/internal/dispatch"
	"marboris-intents/internal/gateway"
	"marboris-intents/internal/profile"
	"marboris-intents/pkg/registry"

	countrylookup "marboris-intents/internal/workers/countries/country-lookup"
	fetchfact "marboris-intents/internal/workers/facts/fetch-fact"
	moviesearch "marboris-intents/internal/workers/movies/movie-search"
	moviesearchprofile "marboris-intents/internal/workers/movies/movie-search-profile"
	moviesgenres "marboris-intents/internal/workers/movies/movies-genres"
	namegetter "marboris-intents/internal/workers/profile/name-getter"
	namesetter "marboris-intents/internal/workers/profile/name-setter"
	matheval "marboris-intents/internal/workers/utility/math-eval"
	randomnumber "marboris-intents/internal/workers/utility/random-number"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intent manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, cfg.Tracing)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Backends ---
	clients, err := database.Connect(ctx, cfg, database.NeedsFor(cfg), database.DefaultRetryPolicy, log)
	if err != nil {
		zapLog.Fatal("backend connection failed", zap.Error(err))
	}
	defer clients.Close()

	db := clients.SQL()
	rdb := clients.RedisClient()
	es := clients.ElasticsearchClient()

	// --- Datasets ---
	sources, err := dataset.SourcesFor(cfg.Datasets, db, es)
	if err != nil {
		zapLog.Fatal("dataset sources", zap.Error(err))
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, config.GetDuration(cfg.Datasets.Timeout))
	tables := dataset.Load(loadCtx, sources, log)
	cancelLoad()

	// --- Profiles ---
	store, err := profile.New(cfg.Profiles, rdb, db, log)
	if err != nil {
		zapLog.Fatal("profile store", zap.Error(err))
	}
	if pgStore, ok := store.(*profile.PostgresStore); ok {
		if err := pgStore.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("profile schema", zap.Error(err))
		}
	}

	// --- Fact gateway ---
	facts := gateway.NewHTTPGateway(&gateway.Config{
		JokeURL:    cfg.Gateway.JokeURL,
		AdviceURL:  cfg.Gateway.AdviceURL,
		Timeout:    config.GetDuration(cfg.Gateway.Timeout),
		MaxRetries: cfg.Gateway.MaxRetries,
	}, log)

	// --- Dispatcher ---
	opts := []dispatch.Option{
		dispatch.WithMessages(cfg.Messages),
		dispatch.WithObservability(obs),
	}
	if reg := loadRegistry(cfg.RegistryPath, zapLog); reg != nil {
		opts = append(opts, dispatch.WithRegistry(reg))
	}
	d := dispatch.New(log, opts...)

	registerIntents(d, cfg, tables, store, facts, log, zapLog)
	zapLog.Info("intents registered", zap.Strings("intents", d.Names()))

	// --- Zeebe workers ---
	var (
		zeebe   *camunda.Client
		workers []worker.JobWorker
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda), log)
		if err != nil {
			zapLog.Fatal("zeebe client failed", zap.Error(err))
		}
		workers = camunda.StartWorkers(zeebe.GetClient(), d, d.Names(), cfg, log)
		zapLog.Info("zeebe workers started", zap.Int("count", len(workers)))
	}

	// --- HTTP API, health & metrics ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewServer(d, readinessChecks(clients, zeebe), log).Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	camunda.StopWorkers(workers)
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Intent manager stopped gracefully")
}

// registerIntents builds every intent handler and registers it under its name.
func registerIntents(
	d *dispatch.Dispatcher,
	cfg *config.Config,
	tables *dataset.Tables,
	store profile.Store,
	facts gateway.FactGateway,
	log logger.Logger,
	zapLog *zap.Logger,
) {
	timeout := func(name string) time.Duration {
		return config.GetDuration(config.GetIntentConfig(cfg, name).Timeout)
	}
	enabled := func(name string) bool {
		if config.IsIntentEnabled(cfg, name) {
			return true
		}
		zapLog.Info("intent disabled", zap.String("intent", name))
		return false
	}

	for _, attr := range countrylookup.Attributes() {
		if enabled(attr.TaskType) {
			d.Register(attr.TaskType, countrylookup.NewHandler(attr, tables.Countries, log))
		}
	}

	if enabled(matheval.TaskType) {
		d.Register(matheval.TaskType, matheval.NewHandler(log))
	}

	if enabled(randomnumber.TaskType) {
		d.Register(randomnumber.TaskType, randomnumber.NewHandler(nil, log))
	}

	for _, topic := range fetchfact.Topics() {
		if enabled(topic.TaskType) {
			d.Register(topic.TaskType, fetchfact.NewHandler(
				&fetchfact.Config{Timeout: timeout(topic.TaskType)},
				topic, facts, log,
			))
		}
	}

	if enabled(namegetter.TaskType) {
		d.Register(namegetter.TaskType, namegetter.NewHandler(
			&namegetter.Config{Timeout: timeout(namegetter.TaskType)}, store, log,
		))
	}

	if enabled(namesetter.TaskType) {
		d.Register(namesetter.TaskType, namesetter.NewHandler(
			&namesetter.Config{Timeout: timeout(namesetter.TaskType)}, tables.Names, store, log,
		))
	}

	if enabled(moviesgenres.TaskType) {
		d.Register(moviesgenres.TaskType, moviesgenres.NewHandler(
			&moviesgenres.Config{Timeout: timeout(moviesgenres.TaskType)}, store, log,
		))
	}

	if enabled(moviesearch.TaskType) {
		d.Register(moviesearch.TaskType, moviesearch.NewHandler(
			&moviesearch.Config{Timeout: timeout(moviesearch.TaskType)}, tables.Movies, store, log,
		))
	}

	if enabled(moviesearchprofile.TaskType) {
		d.Register(moviesearchprofile.TaskType, moviesearchprofile.NewHandler(
			&moviesearchprofile.Config{Timeout: timeout(moviesearchprofile.TaskType)}, tables.Movies, store, nil, log,
		))
	}
}

// loadRegistry returns nil when no registry file is configured or present.
func loadRegistry(path string, log *zap.Logger) *registry.IntentRegistry {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Info("intent registry not found, registering every intent", zap.String("path", path))
		return nil
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Fatal("intent registry load failed", zap.String("path", path), zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		log.Fatal("intent registry invalid", zap.String("path", path), zap.Error(err))
	}
	return reg
}

func readinessChecks(clients *database.Clients, zeebe *camunda.Client) map[string]api.ReadinessCheck {
	checks := map[string]api.ReadinessCheck{}
	if clients.Postgres != nil {
		checks["postgres"] = clients.Postgres.Ping
	}
	if clients.Redis != nil {
		checks["redis"] = clients.Redis.Ping
	}
	if clients.Elasticsearch != nil {
		checks["elasticsearch"] = clients.Elasticsearch.Ping
	}
	if zeebe != nil {
		checks["zeebe"] = zeebe.HealthCheck
	}
	return checks
}
