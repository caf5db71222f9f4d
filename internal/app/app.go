package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/brickstore/brickstore/config"
	"github.com/brickstore/brickstore/internal/collection"
	"github.com/brickstore/brickstore/internal/domain"
	"github.com/brickstore/brickstore/internal/metrics"
	"github.com/brickstore/brickstore/internal/store"
)

type Application struct {
	appConfig *config.AppConfig
	store     store.Store
	service   *collection.Service
	cache     *collection.Cache
	bus       EventBus.Bus
	sched     *cron.Cron
	startedAt time.Time
}

// Ensure Application implements all interfaces
var (
	_ StoreProvider      = (*Application)(nil)
	_ ConfigProvider     = (*Application)(nil)
	_ CollectionProvider = (*Application)(nil)
	_ SchedulerProvider  = (*Application)(nil)
	_ EventsProvider     = (*Application)(nil)
	_ AppContext         = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, startedAt: time.Now()}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() store.Store {
	return a.store
}

func (a *Application) Collection() *collection.Service {
	return a.service
}

func (a *Application) Cache() *collection.Cache {
	return a.cache
}

func (a *Application) Events() EventBus.Bus {
	return a.bus
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// OverrideStore replaces the application's store and rebuilds the
// collection client on top of it (used in tests).
func (a *Application) OverrideStore(s store.Store) {
	a.store = s
	a.wireCollection()
}

// InitLogger installs the global zap logger described by cfg.
func InitLogger(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if cfg.System.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Init opens the store selected by the configuration, creates the schema when
// the backend needs one and wires the collection client, cache and events.
func (a *Application) Init(ctx context.Context) error {
	cfg := a.appConfig

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	s, err := store.Open(ctx, cfg.Store, cfg.System.NodeID)
	if err != nil {
		return err
	}
	a.store = s
	zap.S().Infof("Store ready, driver: %s", cfg.Store.Driver)

	if err := a.MigrateDB(ctx); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
		return err
	}

	a.wireCollection()
	a.checkLegoSets(ctx)
	return nil
}

func (a *Application) wireCollection() {
	if a.bus == nil {
		a.bus = EventBus.New()
		a.subscribeEvents()
	}
	a.service = collection.NewService(a.store)
	a.cache = collection.NewCache(a.service, a.bus)
}

// MigrateDB creates the collection schema on backends that have one.
func (a *Application) MigrateDB(ctx context.Context) error {
	m, ok := a.store.(store.Migrator)
	if !ok {
		return nil
	}
	if err := m.Migrate(ctx); err != nil {
		return err
	}
	zap.L().Info("database schema migrated", zap.String("table", domain.CollectionName))
	return nil
}

func (a *Application) subscribeEvents() {
	logCreated := func(set domain.LegoSet) {
		zap.L().Debug("collection event", zap.String("topic", collection.TopicSetCreated),
			zap.String("id", set.ID), zap.String("summary", set.Summary()))
	}
	logUpdated := func(set domain.LegoSet) {
		zap.L().Debug("collection event", zap.String("topic", collection.TopicSetUpdated),
			zap.String("id", set.ID))
	}
	logDeleted := func(id string) {
		zap.L().Debug("collection event", zap.String("topic", collection.TopicSetDeleted),
			zap.String("id", id))
	}
	for topic, fn := range map[string]interface{}{
		collection.TopicSetCreated: logCreated,
		collection.TopicSetUpdated: logUpdated,
		collection.TopicSetDeleted: logDeleted,
	} {
		if err := a.bus.Subscribe(topic, fn); err != nil {
			zap.S().Errorf("subscribe %s: %v", topic, err)
		}
	}
	// any mutation refreshes the collection gauges
	for _, topic := range []string{collection.TopicSetCreated, collection.TopicSetUpdated} {
		if err := a.bus.SubscribeAsync(topic, func(domain.LegoSet) { a.SchedCollectionMetricsTask() }, true); err != nil {
			zap.S().Errorf("subscribe %s: %v", topic, err)
		}
	}
	if err := a.bus.SubscribeAsync(collection.TopicSetDeleted, func(string) { a.SchedCollectionMetricsTask() }, true); err != nil {
		zap.S().Errorf("subscribe %s: %v", collection.TopicSetDeleted, err)
	}
}

// Release stops the jobs and closes the store.
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.bus != nil {
		a.bus.WaitAsync()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zap.S().Errorf("close store: %v", err)
		}
	}
	if err := metrics.Close(); err != nil {
		zap.S().Errorf("close metrics: %v", err)
	}
	_ = zap.L().Sync()
}
