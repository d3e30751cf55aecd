package app

import (
	"context"
	"log"
	"time"

	"jobhub/internal/catalog"
	"jobhub/internal/config"
	"jobhub/internal/database"
	"jobhub/internal/database/migration"
	dbpostgres "jobhub/internal/database/postgres"
	"jobhub/internal/database/seeder"
	"jobhub/internal/infrastructure/cache"
	"jobhub/internal/ingest"
)

type Container struct {
	Config      config.Config
	DB          database.DB
	Store       *catalog.PostgresStore
	Cache       *cache.Redis
	Coordinator *ingest.Coordinator
	Logger      *log.Logger
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	store := catalog.NewPostgresStore(db)
	redisCache := cache.NewRedis(cfg.Redis, logger)

	adapters := []ingest.SourceAdapter{
		ingest.NewJobStreetAdapter(cfg.Ingest.JobStreetSearchURL, cfg.Ingest.MaxListingsPerSource, cfg.Ingest.FetchTimeout, logger),
		ingest.NewJoiMyanmarAdapter(cfg.Ingest.JoiMyanmarSearchURL, cfg.Ingest.MaxListingsPerSource, cfg.Ingest.FetchTimeout, logger),
	}

	coordinator := ingest.NewCoordinator(
		store,
		ingest.NewDedupGuard(store, redisCache),
		ingest.NewResolver(store),
		adapters,
		cfg.Ingest.Workers,
		logger,
	)

	return &Container{
		Config:      cfg,
		DB:          db,
		Store:       store,
		Cache:       redisCache,
		Coordinator: coordinator,
		Logger:      logger,
	}, nil
}

// Migrate applies versioned schema migrations and seeds the curated
// category set.
func (c *Container) Migrate(ctx context.Context) error {
	if c == nil || c.DB == nil {
		return nil
	}
	r := migration.Runner{Dir: "migrations"}
	if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
		return err
	}
	sr := seeder.Runner{Seeders: []seeder.Seeder{seeder.JobCategoriesSeeder{}}}
	return sr.Run(ctx, c.DB)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
