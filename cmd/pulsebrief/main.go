package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/adapters/config"
	"github.com/selivandex/pulsebrief/internal/adapters/database"
	metricsAdapter "github.com/selivandex/pulsebrief/internal/adapters/metrics"
	redisAdapter "github.com/selivandex/pulsebrief/internal/adapters/redis"
	"github.com/selivandex/pulsebrief/internal/adapters/telegram"
	"github.com/selivandex/pulsebrief/internal/api"
	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/internal/session"
	"github.com/selivandex/pulsebrief/internal/workers"
	"github.com/selivandex/pulsebrief/pkg/logger"
	"github.com/selivandex/pulsebrief/pkg/metrics"
	"github.com/selivandex/pulsebrief/pkg/worker"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command and exit: up, down or version")
	flag.Parse()

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// Run application
	if err := run(ctx, *migrateCmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, migrateCmd string) error {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg, err := initConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if migrateCmd != "" {
		return runMigrateCommand(ctx, cfg, migrateCmd)
	}

	logger.Info("Pulse Brief starting...",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("session", cfg.Session.Backend),
	)

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}

	redisClient, err := initRedis(ctx, cfg)
	if err != nil {
		store.close()
		return err
	}

	sess, err := initSession(ctx, cfg, redisClient)
	if err != nil {
		store.close()
		closeRedis(redisClient)
		return err
	}

	hub := api.NewHub(sess.Location)
	briefPubs := []workers.BriefPublisher{hub}
	pulsePubs := []workers.PulsePublisher{hub}
	if notifier := initTelegram(cfg); notifier != nil {
		briefPubs = append(briefPubs, notifier)
		pulsePubs = append(pulsePubs, notifier)
	}

	recorder, err := initMetrics(ctx, cfg, store)
	if err != nil {
		store.close()
		closeRedis(redisClient)
		return err
	}

	var locker workers.Locker
	if redisClient != nil {
		locker = redisClient.Locker()
	}

	group := worker.NewWorkerGroup(ctx)
	var briefRunner, pulseRunner *worker.PeriodicWorker

	if cfg.Scheduler.BriefEnabled {
		briefWorker := workers.NewBriefWorker(store.briefs, sess, locker, cfg.Scheduler.StoreTimeout, briefPubs...)
		if recorder != nil {
			briefWorker.SetMetrics(recorder)
		}
		briefRunner = group.Add(briefWorker, cfg.Scheduler.BriefCheckInterval)
	}
	if cfg.Scheduler.PulseEnabled {
		pulseWorker := workers.NewPulseWorker(store.pulses, sess, locker, workers.PulseConfig{
			Cooldown:       cfg.Scheduler.PulseCooldown,
			UpdateInterval: cfg.Scheduler.PulseUpdateInterval,
			MinSpacing:     cfg.Scheduler.PulseMinSpacing,
			StoreTimeout:   cfg.Scheduler.StoreTimeout,
		}, pulsePubs...)
		if recorder != nil {
			pulseWorker.SetMetrics(recorder)
		}
		pulseRunner = group.Add(pulseWorker, cfg.Scheduler.PulseCheckInterval)
	}

	var daily *workers.DailySchedule
	if briefRunner != nil {
		daily = workers.NewDailySchedule(cfg.Scheduler.BriefDailySchedule, briefRunner.Trigger)
		if err := daily.Reschedule(sess.Location()); err != nil {
			store.close()
			closeRedis(redisClient)
			return err
		}
	}

	// Sign-in, sign-out and time zone changes re-evaluate both schedulers at once
	sess.OnChange(func(session.State) {
		if daily != nil {
			if err := daily.Reschedule(sess.Location()); err != nil {
				logger.Error("failed to reschedule daily brief", zap.Error(err))
			}
		}
		if briefRunner != nil {
			briefRunner.Trigger()
		}
		if pulseRunner != nil {
			pulseRunner.Trigger()
		}
	})

	if cfg.Session.Email != "" && !sess.IsSignedIn() {
		if err := sess.SignIn(ctx, cfg.Session.Email); err != nil {
			logger.Warn("failed to sign in configured viewer", zap.Error(err))
		}
	}

	group.Start()
	if daily != nil {
		daily.Start()
	}

	checks := map[string]api.Checker{}
	if store.db != nil {
		checks["database"] = store.db
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	if recorder != nil && recorder.clickhouse != nil {
		checks["clickhouse"] = recorder.clickhouse
	}

	server := api.NewServer(cfg.HTTP.Port, api.Deps{
		Briefs:  store.briefs,
		Pulses:  store.pulses,
		Session: sess,
		Hub:     hub,
		Checks:  checks,
	})
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("api server failed", zap.Error(err))
		}
	}()
	server.SetReady(true)

	logger.Info("✅ Pulse Brief started",
		zap.Int("workers", group.Len()),
		zap.Bool("signed_in", sess.IsSignedIn()),
		zap.String("time_zone", sess.Location().String()),
	)

	// Wait for shutdown signal
	<-ctx.Done()

	return performGracefulShutdown(cfg, server, group, daily, recorder, store, redisClient)
}

func initConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// storage holds the repositories and the database behind them, if any
type storage struct {
	briefs brief.Repository
	pulses pulse.Repository
	db     *database.DB
}

func (s *storage) close() {
	if s.db == nil {
		return
	}
	logger.Info("closing database connection...")
	if err := s.db.Close(); err != nil {
		logger.Error("database close error", zap.Error(err))
	}
}

// initStorage selects memory or PostgreSQL repositories
func initStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage.Backend == config.StorageMemory {
		logger.Warn("⚠️ using in-memory storage, content is lost on restart")
		return &storage{
			briefs: brief.NewMemoryRepository(nil),
			pulses: pulse.NewMemoryRepository(nil),
		}, nil
	}

	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &storage{
		briefs: brief.NewPostgresRepository(db.DB()),
		pulses: pulse.NewPostgresRepository(db.DB()),
		db:     db,
	}, nil
}

func runMigrateCommand(ctx context.Context, cfg *config.Config, cmd string) error {
	if cfg.Storage.Backend != config.StoragePostgres {
		return fmt.Errorf("migrations require the %q storage backend", config.StoragePostgres)
	}

	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	switch cmd {
	case "up":
		return database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath)
	case "down":
		return database.RollbackMigration(db.Conn(), cfg.Database.MigrationsPath)
	case "version":
		version, dirty, err := database.GetMigrationVersion(db.Conn(), cfg.Database.MigrationsPath)
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %v)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q", cmd)
	}
}

// metricsRecorder is the scheduler metrics buffer and the ClickHouse
// connection behind it, if any
type metricsRecorder struct {
	*metrics.BufferedMetrics
	clickhouse *database.DB
}

func (m *metricsRecorder) close(ctx context.Context) {
	if err := m.Close(ctx); err != nil {
		logger.Error("metrics buffer close error", zap.Error(err))
	}
	if m.clickhouse != nil {
		if err := m.clickhouse.Close(); err != nil {
			logger.Error("ClickHouse close error", zap.Error(err))
		}
	}
}

// initMetrics returns nil when scheduler metrics are disabled
func initMetrics(ctx context.Context, cfg *config.Config, store *storage) (*metricsRecorder, error) {
	var (
		repo metricsAdapter.Repository
		ch   *database.DB
	)

	switch cfg.Metrics.Backend {
	case config.MetricsPostgres:
		repo = metricsAdapter.NewPostgresRepository(store.db.DB())
	case config.MetricsClickHouse:
		db, err := database.NewClickHouse(ctx, &cfg.ClickHouse)
		if err != nil {
			return nil, err
		}
		chRepo := metricsAdapter.NewClickHouseRepository(db.DB())
		if err := chRepo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		repo, ch = chRepo, db
	default:
		return nil, nil
	}

	buffer := metrics.NewBufferedMetrics(metrics.BufferConfig{
		Writer:        metricsAdapter.NewWriter(repo),
		BatchSize:     cfg.Metrics.BatchSize,
		FlushInterval: cfg.Metrics.FlushInterval,
		MaxBufferSize: cfg.Metrics.MaxBufferSize,
	})

	logger.Info("📊 scheduler metrics enabled",
		zap.String("backend", cfg.Metrics.Backend),
	)
	return &metricsRecorder{BufferedMetrics: buffer, clickhouse: ch}, nil
}

// initRedis connects when enabled and returns nil otherwise
func initRedis(ctx context.Context, cfg *config.Config) (*redisAdapter.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	client, err := redisAdapter.New(ctx, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func closeRedis(client *redisAdapter.Client) {
	if client == nil {
		return
	}
	logger.Info("closing redis connection...")
	if err := client.Close(); err != nil {
		logger.Error("redis close error", zap.Error(err))
	}
}

// initSession restores the viewer session from its backend
func initSession(ctx context.Context, cfg *config.Config, redisClient *redisAdapter.Client) (*session.Session, error) {
	loc, err := cfg.Session.Location()
	if err != nil {
		return nil, err
	}

	var persister session.Persister
	switch cfg.Session.Backend {
	case config.SessionRedis:
		persister = redisAdapter.NewSessionStore(redisClient)
	default:
		persister = session.NewFilePersister(cfg.Session.File)
	}

	sess := session.New(persister, loc)
	if err := sess.Restore(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return sess, nil
}

// initTelegram returns nil when publishing to Telegram is disabled or fails to start
func initTelegram(cfg *config.Config) *telegram.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}

	renderer, err := telegram.NewTemplateManager()
	if err != nil {
		logger.Warn("failed to load telegram templates", zap.Error(err))
		return nil
	}

	notifier, err := telegram.NewNotifier(&cfg.Telegram, renderer)
	if err != nil {
		logger.Warn("failed to initialize telegram notifier", zap.Error(err))
		return nil
	}

	logger.Info("📱 Telegram notifier initialized")
	return notifier
}

// performGracefulShutdown handles graceful shutdown of all components
func performGracefulShutdown(
	cfg *config.Config,
	server *api.Server,
	group *worker.WorkerGroup,
	daily *workers.DailySchedule,
	recorder *metricsRecorder,
	store *storage,
	redisClient *redisAdapter.Client,
) error {
	logger.Info("🛑 Shutdown signal received, starting graceful shutdown...")

	server.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if daily != nil {
		daily.Stop()
	}

	// Workers finish an in-flight store before storage goes away
	group.Stop(cfg.Scheduler.StoreTimeout + 5*time.Second)

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("api server stop error", zap.Error(err))
	}

	if recorder != nil {
		recorder.close(shutdownCtx)
	}
	store.close()
	closeRedis(redisClient)

	select {
	case <-shutdownCtx.Done():
		logger.Warn("⚠️ shutdown timeout exceeded")
		return fmt.Errorf("graceful shutdown timeout")
	default:
		logger.Info("✅ shutdown completed successfully")
	}

	return nil
}
