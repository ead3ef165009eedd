package cmd

import (
	"errors"
	"fmt"

	"copy-environment/core/config"
	"copy-environment/core/database"
	"copy-environment/core/logger"
	"copy-environment/core/reconcile"
	"copy-environment/core/storage"
	"copy-environment/feature/environment"
	"copy-environment/feature/world"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  *world.Store
}

func (a *app) options() reconcile.Options {
	return reconcile.Options{DiffLength: a.cfg.World.DiffLength}
}

// openApp loads configuration and connects to the world database.
func openApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.World.AutoMigrate {
		if err := world.Migrate(db); err != nil {
			return nil, err
		}
	}

	local, err := world.NewLocalStorage(cfg.World.ClientStoragePath)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: l,
		db:     db,
		store:  world.NewStore(db, local, cfg.World.Actor, l),
	}, nil
}

// archive connects to object storage. Storage is optional; when it is disabled
// or unreachable the archive is disabled.
func (a *app) archive() (*environment.Archive, storage.Client) {
	client, err := storage.NewClient(a.cfg.Storage)
	if errors.Is(err, storage.ErrDisabled) {
		return environment.NewArchive(nil, "", "", ""), nil
	}
	if err != nil {
		a.logger.Warn("Object storage unavailable, snapshot archive disabled", zap.Error(err))
		return environment.NewArchive(nil, "", "", ""), nil
	}
	return environment.NewArchive(client, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.cfg.World.SnapshotPrefix), client
}
