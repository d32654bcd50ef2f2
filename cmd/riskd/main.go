package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/credentials"

	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/internal/infrastructure/advisory"
	"github.com/bibbank/loanrisk/internal/infrastructure/config"
	"github.com/bibbank/loanrisk/internal/infrastructure/directory"
	"github.com/bibbank/loanrisk/internal/infrastructure/messaging"
	"github.com/bibbank/loanrisk/internal/infrastructure/metrics"
	pgRepo "github.com/bibbank/loanrisk/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/loanrisk/internal/infrastructure/persistence/postgres/migrations"
	grpcPresentation "github.com/bibbank/loanrisk/internal/presentation/grpc"
	"github.com/bibbank/loanrisk/internal/presentation/rest"
	pkgkafka "github.com/bibbank/loanrisk/pkg/kafka"
	"github.com/bibbank/loanrisk/pkg/observability"
	pkgpostgres "github.com/bibbank/loanrisk/pkg/postgres"
	"github.com/bibbank/loanrisk/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("loanrisk-service exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting loanrisk-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"advisory_enabled", cfg.Advisory.Enabled,
	)

	// Tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: 1,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Metrics.
	m, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = m.Provider.Shutdown(context.Background()) }() //nolint:errcheck
	recorder, err := metrics.NewRecorder(m.Registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Database.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), migrations.FS, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Infrastructure adapters.
	repo := pgRepo.NewDecisionRepo(pool)

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }() //nolint:errcheck
	publisher := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)

	employers := directory.Empty()
	if cfg.Engine.DirectoryCSV != "" {
		if employers, err = directory.LoadFile(cfg.Engine.DirectoryCSV); err != nil {
			return fmt.Errorf("load employer directory: %w", err)
		}
	}

	var scorer port.AdvisoryScorer = advisory.Disabled{}
	if cfg.Advisory.Enabled {
		scorer = advisory.NewClient(advisory.Config{
			BaseURL:    cfg.Advisory.URL,
			Model:      cfg.Advisory.Model,
			RatePerSec: cfg.Advisory.RatePerSec,
			Burst:      cfg.Advisory.Burst,
			CacheTTL:   cfg.Advisory.CacheTTL,
		}, nil, logger)
	}
	advisor := service.NewBoundedAdvisor(scorer, service.AdvisorConfig{
		Timeout:     cfg.Advisory.Timeout,
		Backoff:     cfg.Advisory.Backoff,
		MaxAttempts: cfg.Advisory.MaxAttempts,
	}, recorder, logger)

	// Domain services.
	now := func() time.Time { return time.Now().UTC() }
	verifier := service.NewDocumentVerifier(
		service.NewAnomalyDetector(now),
		service.NewDocumentMatcher(),
		advisor,
		service.DefaultVerificationRules(),
		recorder,
	)
	employment := service.NewEmploymentVerifier(employers)
	riskScorer, err := service.NewRiskScorer(employment, service.DefaultRiskWeights())
	if err != nil {
		return fmt.Errorf("risk scorer: %w", err)
	}
	policy := service.DefaultDecisionPolicy()
	policy.MinCIBIL = cfg.Engine.MinCIBIL
	policy.MaxLoanToValue = cfg.Engine.MaxLoanToValue
	decider, err := service.NewDecisionEngine(policy)
	if err != nil {
		return fmt.Errorf("decision engine: %w", err)
	}
	amortization := service.NewAmortizationCalculator(now)
	engine := service.NewEngine(service.EngineDeps{
		Verifier:     verifier,
		Employment:   employment,
		Scorer:       riskScorer,
		Decider:      decider,
		Amortization: amortization,
		Advisor:      advisor,
		Logger:       logger,
		Concurrency:  cfg.Engine.Concurrency,
	})

	// Use cases.
	handler := grpcPresentation.NewRiskEngineHandler(grpcPresentation.UseCases{
		VerifyDocument:    usecase.NewVerifyDocumentUseCase(verifier),
		AssessApplication: usecase.NewAssessApplicationUseCase(engine, repo, publisher, recorder, logger, now),
		AssessRisk:        usecase.NewAssessRiskUseCase(riskScorer),
		Decide:            usecase.NewDecideUseCase(decider),
		BuildSchedule:     usecase.NewBuildScheduleUseCase(amortization),
		GetDecision:       usecase.NewGetDecisionUseCase(repo),
	}, logger)

	// gRPC server.
	var creds credentials.TransportCredentials
	if cfg.TLS.CertFile != "" {
		if creds, err = tlsutil.ServerCredentials(cfg.TLS.CertFile, cfg.TLS.KeyFile, ""); err != nil {
			return fmt.Errorf("load grpc tls: %w", err)
		}
	} else {
		logger.Warn("gRPC TLS is not configured, serving plaintext")
	}
	grpcServer, err := grpcPresentation.NewServer(handler, logger, grpcPresentation.Options{
		Creds:      creds,
		Meter:      m.Provider.Meter("github.com/bibbank/loanrisk/internal/presentation/grpc"),
		Reflection: cfg.GRPCReflection,
	})
	if err != nil {
		return fmt.Errorf("create grpc server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, pool, m.Handler, logger).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loanrisk-service stopped")
	return serveErr
}
