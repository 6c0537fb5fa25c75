// Package app wires the stores, cache and services from one Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"billing-cache-api/internal/cache"
	"billing-cache-api/internal/config"
	"billing-cache-api/internal/ingest"
	"billing-cache-api/internal/model"
	"billing-cache-api/internal/repository"
	"billing-cache-api/internal/service"

	log "github.com/sirupsen/logrus"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Config *config.Config

	Store repository.Store
	Cache cache.Cache
	Audit repository.AuditRepository

	Journal   *service.Journal
	Sync      *service.Synchronizer
	Queries   *service.QueryService
	Clients   *service.ClientService
	Products  *service.ProductService
	Loader    *service.Loader
	Catalog   *service.Catalog
	Retention *service.RetentionScheduler
}

// ConfigureLogging sets the logrus level and format for the environment.
func ConfigureLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.App.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	if cfg.App.IsDevelopment() {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// Open connects to MongoDB, the cache and the audit journal and builds the
// services. The caller must Close the App.
func Open(cfg *config.Config) (*App, error) {
	store, err := repository.NewMongoStore(repository.MongoConfig{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return nil, err
	}

	c, err := openCache(cfg.Cache)
	if err != nil {
		store.Close()
		return nil, err
	}

	return New(cfg, store, c, openAudit(cfg.Audit)), nil
}

// New builds the services over already open stores.
func New(cfg *config.Config, store repository.Store, c cache.Cache, audit repository.AuditRepository) *App {
	journal := service.NewJournal(audit)
	sync := service.NewSynchronizer(c, cache.KeySchema{NameSeparator: cfg.Cache.NameSeparator}, journal)
	queries := service.NewQueryService(store, sync)
	loader := service.NewLoader(store, sync, journal)

	a := &App{
		Config:   cfg,
		Store:    store,
		Cache:    c,
		Audit:    audit,
		Journal:  journal,
		Sync:     sync,
		Queries:  queries,
		Clients:  service.NewClientService(store, sync, journal),
		Products: service.NewProductService(store, journal),
		Loader:   loader,
		Catalog:  service.NewCatalog(queries, loader, ingest.NewSource(cfg.Data.Dir)),
	}
	if cfg.Audit.Retention > 0 {
		a.Retention = service.NewRetentionScheduler(journal, service.RetentionConfig{
			Retention: cfg.Audit.Retention,
			Interval:  cfg.Audit.PruneInterval,
		})
	}
	return a
}

func openCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Type {
	case "memory":
		log.Info("[App] Using in-memory cache")
		return cache.NewMemoryCache(), nil
	case "redis", "":
		c, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddress(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// openAudit opens the configured journal backend. The journal is optional:
// a backend that cannot be opened is replaced by one that discards entries.
func openAudit(cfg config.AuditConfig) repository.AuditRepository {
	var (
		repo repository.AuditRepository
		err  error
	)
	switch cfg.Type {
	case "none":
		return repository.NopAuditRepository{}
	case "postgres", "postgresql":
		repo, err = repository.NewPostgresAuditRepository(cfg.PostgresDSN())
	case "mysql":
		repo, err = repository.NewMySQLAuditRepository(cfg.MySQLDSN())
	default:
		repo, err = repository.NewSQLiteAuditRepository(cfg.Path)
	}
	if err != nil {
		log.Warnf("[App] Audit journal disabled: %v", err)
		return repository.NopAuditRepository{}
	}
	return repo
}

// StartBackground starts the periodic jobs.
func (a *App) StartBackground() {
	if a.Retention != nil {
		a.Retention.Start()
	}
}

// Close stops background jobs and releases every connection.
func (a *App) Close() error {
	if a.Retention != nil {
		a.Retention.Stop()
	}
	var errs []error
	if err := a.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}
	if err := a.Audit.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close audit journal: %w", err))
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

// Ping checks the primary store and the cache.
func (a *App) Ping(ctx context.Context) map[string]error {
	return map[string]error{
		"mongodb": a.Store.Ping(ctx),
		"cache":   a.Cache.Ping(ctx),
	}
}
