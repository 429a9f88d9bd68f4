package cmd

import (
	"stock-storage/config"
	"stock-storage/internal/storage"
	"stock-storage/pkg/logger"
)

type AppDependency struct {
	cfg     *config.Config
	log     *logger.Logger
	manager *storage.Manager
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	return &AppDependency{
		cfg:     cfg,
		log:     log,
		manager: storage.NewManager(cfg, log),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("closing storage")
	if d.manager != nil {
		return d.manager.Close()
	}
	return nil
}
