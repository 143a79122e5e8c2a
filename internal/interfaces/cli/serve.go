package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/application/triage"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/similarity"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/memory"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/postgres"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/postgres/repositories"
	rediscache "github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/redis"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/messaging/kafka"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	monprom "github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/AbdulRahmanAzam/CivicLens-sub000/internal/interfaces/http"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/interfaces/http/handlers"
)

// newServeCommand runs the API server with the SLA breach sweeper.
func newServeCommand(opts *rootOptions) *cobra.Command {
	var runMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the CivicLens API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			return runServer(cfg, logger, runMigrations)
		},
	}
	cmd.Flags().BoolVar(&runMigrations, "migrate", false, "apply pending schema migrations before serving")
	return cmd
}

// Serve builds the logger and runs the server until a termination signal.
// Exported for entry points that load configuration themselves.
func Serve(cfg *config.Config, runMigrations bool) error {
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	return runServer(cfg, logger, runMigrations)
}

func runServer(cfg *config.Config, logger logging.Logger, runMigrations bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database.
	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	if runMigrations {
		dir := cfg.Database.MigrationPath
		if dir == "" {
			dir = "migrations"
		}
		if err := conn.RunMigrations(dir); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	geoRepo := repositories.NewGeoUnitRepository(pool, logger)
	categoryRepo := repositories.NewCategoryRepository(pool, logger)
	complaintRepo := repositories.NewComplaintRepository(pool, logger)

	// Cache: Redis when enabled, in-memory otherwise; absent entirely when
	// memoization is switched off.
	var cache triage.CachePort
	healthChecks := map[string]handlers.HealthCheck{
		"postgres": conn.HealthCheck,
	}
	if cfg.Triage.Cache.Enabled {
		if cfg.Redis.Enabled {
			rc := rediscache.NewCache(rediscache.NewClient(cfg.Redis), logger,
				rediscache.WithPrefix(cfg.Redis.KeyPrefix),
				rediscache.WithDefaultTTL(cfg.Redis.DefaultTTL),
			)
			defer rc.Close()
			cache = rc
			healthChecks["redis"] = rc.Ping
		} else {
			cache = memory.NewCache(cfg.Triage.Cache.MaxEntries, cfg.Triage.Cache.SimilarityTTL)
		}
	}

	// Event bus.
	var publisher triage.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		publisher = producer
	}

	// Metrics.
	collector, err := monprom.NewMetricsCollector(monprom.CollectorConfig{
		Namespace:            "civiclens",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return err
	}
	metrics := monprom.NewAppMetrics(collector)

	// Triage engine.
	sim := similarity.NewEngine(
		cfg.Triage.Similarity.JaccardWeight,
		cfg.Triage.Similarity.CosineWeight,
		cfg.Triage.Similarity.EditWeight,
		cfg.Triage.Similarity.EditMaxLen,
	)
	resolver := triage.NewResolver(geoRepo, cfg.Triage.Assignment, cfg.Triage.Cache.GeoTTL, logger)
	detector := triage.NewDetector(complaintRepo, sim, cache, cfg.Triage.Duplicate, cfg.Triage.Cache.SimilarityTTL, logger)
	scorer := triage.NewScorer(complaintRepo, categoryRepo, cfg.Triage.Severity, logger)
	sla := triage.NewSLAManager(complaintRepo, publisher, cfg.Triage.SLA, logger)
	service := triage.NewService(resolver, detector, scorer, sla, complaintRepo, publisher, metrics, logger)

	go sla.RunSweeper(ctx, 100)

	// HTTP.
	engine := httpapi.NewRouter(cfg.Server, httpapi.RouterDeps{
		Service:        service,
		Logger:         logger,
		Metrics:        metrics,
		MetricsHandler: collector.Handler(),
		Version:        Version,
		HealthChecks:   healthChecks,
	})
	server := httpapi.NewServer(cfg.Server, engine, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return server.Shutdown(context.Background())
}
