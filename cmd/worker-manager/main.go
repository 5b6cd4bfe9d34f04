// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"matching-workers/internal/api"
	commonaws "matching-workers/internal/common/aws"
	"matching-workers/internal/common/camunda"
	"matching-workers/internal/common/config"
	"matching-workers/internal/common/database"
	commonhttp "matching-workers/internal/common/http"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/observability"
	"matching-workers/internal/engine"
	"matching-workers/internal/matching"
	"matching-workers/internal/provider"

	mc "matching-workers/internal/workers/contractor/match-contractors"
	sms "matching-workers/internal/workers/notification/send-match-summary"
	ms "matching-workers/internal/workers/subsidy/match-subsidies"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// sources are the candidate backends plus whatever needs closing on shutdown.
type sources struct {
	contractors provider.ContractorSource
	schemes     provider.SchemeSource
	deps        []database.Dependency
	closers     []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting matching service...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tracing, err := observability.NewTracing(ctx, observability.TracingConfig{
			ServiceName: cfg.App.Name,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			zapLog.Fatal("tracing setup failed", zap.Error(err))
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(flushCtx); err != nil {
				zapLog.Error("trace flush failed", zap.Error(err))
			}
		}()
		zapLog.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	src, err := openSources(cfg, zapLog)
	if err != nil {
		zapLog.Fatal("candidate sources unavailable", zap.Error(err))
	}
	defer func() {
		for _, closeFn := range src.closers {
			if err := closeFn(); err != nil {
				zapLog.Error("close failed", zap.Error(err))
			}
		}
	}()

	opts := []engine.Option{}
	if cfg.Verification.Enabled {
		rdb := database.NewRedis(cfg.Database.Redis)
		src.deps = append(src.deps, rdb)
		src.closers = append(src.closers, rdb.Close)

		httpClient := commonhttp.NewClient(config.GetDuration(cfg.Verification.Timeout))
		var verifier engine.CertificationVerifier = provider.NewHTTPVerifier(cfg.Verification.BaseURL, httpClient)
		verifier = provider.NewCachedVerifier(verifier, rdb.Client, time.Duration(cfg.Verification.CacheTTL)*time.Second, log)
		verifier = provider.NewInstrumentedVerifier(verifier)
		opts = append(opts, engine.WithVerifier(verifier))
		zapLog.Info("certification verification enabled", zap.String("baseURL", cfg.Verification.BaseURL))
	}

	eng, err := engine.New(engineParams(cfg), log, opts...)
	if err != nil {
		zapLog.Fatal("invalid engine parameters", zap.Error(err))
	}

	service := matching.NewService(matching.Options{
		Contractors:   src.contractors,
		Schemes:       src.schemes,
		Engine:        eng,
		Observability: obs,
		Logger:        log,
	})

	// --- Zeebe workers ---
	var registry *camunda.Registry
	if cfg.Camunda.Enabled {
		zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")
		src.deps = append(src.deps, zeebe)
		src.closers = append(src.closers, zeebe.Close)

		registry = camunda.NewRegistry(zeebe.GetClient(), log)
		startWorkers(ctx, registry, cfg, service, log, zapLog)
		zapLog.Info("All workers started", zap.Int("count", registry.Count()))
	}

	// --- HTTP API ---
	router := api.NewRouter(api.RouterOptions{
		ServiceName:  cfg.App.Name,
		Matcher:      service,
		Dependencies: src.deps,
		Logger:       log,
	})
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if registry != nil {
		registry.Close()
	}

	zapLog.Info("Matching service stopped gracefully")
}

// openSources uses the JSON catalog when one is configured and the live
// Postgres and Elasticsearch backends otherwise.
func openSources(cfg *config.Config, zapLog *zap.Logger) (*sources, error) {
	if cfg.Catalog.Path != "" {
		cat, err := provider.LoadCatalogSource(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		zapLog.Info("using catalog source", zap.String("path", cfg.Catalog.Path))
		return &sources{contractors: cat, schemes: cat}, nil
	}

	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		return err
	}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("PostgreSQL connected successfully")

	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return es.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		pg.Close()
		return nil, err
	}
	zapLog.Info("Elasticsearch connected successfully")

	esCfg := cfg.Database.Elasticsearch
	directory := provider.NewContractorDirectory(es.Client, esCfg.ContractorIndex, provider.NewPostgresGeocoder(pg.DB),
		provider.WithMaxCandidates(esCfg.MaxCandidates),
		provider.WithDirectoryLogger(logger.NewZapAdapter(zapLog)),
	)
	return &sources{
		contractors: directory,
		schemes:     provider.NewSchemeRegistry(pg.DB),
		deps:        []database.Dependency{pg, es},
		closers:     []func() error{pg.Close},
	}, nil
}

func engineParams(cfg *config.Config) engine.Params {
	m := cfg.Matching
	p := engine.DefaultParams()
	p.BudgetTolerance = m.BudgetTolerance
	p.SingleSuccessProbability = m.SingleSuccessProbability
	p.PairSuccessProbability = m.PairSuccessProbability
	p.ContractorWindow = m.ContractorWindow
	p.CommonRiskThreshold = m.CommonRiskThreshold
	p.SuggestedBudgetMarkup = m.SuggestedBudgetMarkup
	p.DefaultMaxDistance = m.DefaultMaxDistance
	p.LeadTimes = map[engine.Workload]time.Duration{
		engine.WorkloadLow:    days(m.LeadTimeDays.Low),
		engine.WorkloadMedium: days(m.LeadTimeDays.Medium),
		engine.WorkloadHigh:   days(m.LeadTimeDays.High),
	}
	p.VerificationConcurrency = cfg.Verification.Concurrency
	p.VerificationTimeout = config.GetDuration(cfg.Verification.Timeout)
	return p
}

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func startWorkers(ctx context.Context, registry *camunda.Registry, cfg *config.Config, service *matching.Service, log logger.Logger, zapLog *zap.Logger) {
	mcCfg := config.GetWorkerConfig(cfg, mc.TaskType)
	registry.Start(mc.TaskType, mcCfg, mc.NewHandler(contractorConfig(mcCfg), service, log))

	msCfg := config.GetWorkerConfig(cfg, ms.TaskType)
	registry.Start(ms.TaskType, msCfg, ms.NewHandler(subsidyConfig(msCfg), service, log))

	smsCfg := config.GetWorkerConfig(cfg, sms.TaskType)
	if !config.IsWorkerEnabled(cfg, sms.TaskType) {
		registry.Start(sms.TaskType, smsCfg, nil)
		return
	}
	clients, err := commonaws.NewClients(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Error("AWS clients unavailable, match summaries disabled", zap.Error(err))
		return
	}
	registry.Start(sms.TaskType, smsCfg, sms.NewHandler(summaryConfig(cfg, smsCfg), clients.SES, clients.SNS, log))
}

// workerTimeout is the handler deadline for a worker, def when none is configured.
func workerTimeout(wcfg config.WorkerConfig, def time.Duration) time.Duration {
	if wcfg.Timeout <= 0 {
		return def
	}
	return config.GetDuration(wcfg.Timeout)
}

func contractorConfig(wcfg config.WorkerConfig) *mc.Config {
	c := mc.DefaultConfig()
	c.Timeout = workerTimeout(wcfg, c.Timeout)
	return c
}

func subsidyConfig(wcfg config.WorkerConfig) *ms.Config {
	c := ms.DefaultConfig()
	c.Timeout = workerTimeout(wcfg, c.Timeout)
	return c
}

func summaryConfig(cfg *config.Config, wcfg config.WorkerConfig) *sms.Config {
	n := cfg.Notifications
	c := sms.DefaultConfig()
	c.EmailEnabled = n.Email.Enabled
	c.FromEmail = n.Email.FromEmail
	c.SMSEnabled = n.SMS.Enabled
	c.SMSUrgencyThreshold = n.SMS.UrgencyThreshold
	c.Timeout = workerTimeout(wcfg, c.Timeout)
	return c
}
