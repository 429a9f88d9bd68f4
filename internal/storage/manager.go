package storage

import (
	"context"

	"go.uber.org/zap"

	"stock-storage/config"
	"stock-storage/internal/dto"
	"stock-storage/internal/model"
	"stock-storage/pkg/logger"
	"stock-storage/pkg/utils"
)

// Manager is the single facade callers depend on. It resolves which backend
// to use (explicit or auto-detected from the environment), constructs it
// lazily on first use, memoizes it for its lifetime and owns its shutdown.
//
// A Manager is an explicit handle: construct one at the process entry point
// and pass it down. It is not safe for concurrent use.
type Manager struct {
	cfg *config.Config
	log *logger.Logger

	backend Backend
}

func NewManager(cfg *config.Config, log *logger.Logger) *Manager {
	return &Manager{cfg: cfg, log: log}
}

// resolveBackendType maps the configured mode to a concrete backend type.
// Auto picks remote only inside a CI runner with complete remote
// parameters; everything else is local.
func (m *Manager) resolveBackendType() string {
	switch m.cfg.Storage.Backend {
	case config.BackendAuto:
		if utils.IsGitHubActions() && m.cfg.Storage.Remote.Complete() {
			return config.BackendRemote
		}
		return config.BackendLocal
	case config.BackendRemote:
		return config.BackendRemote
	default:
		return config.BackendLocal
	}
}

// Backend returns the active backend, constructing it on first call. A
// failed remote construction logs a warning and falls back to local, so
// callers never see the distinction unless they inspect Name.
func (m *Manager) Backend(ctx context.Context) (Backend, error) {
	if m.backend != nil {
		return m.backend, nil
	}

	resolved := m.resolveBackendType()
	if resolved == config.BackendRemote {
		remote, err := NewRemoteBackend(ctx, m.cfg.Storage, m.log)
		if err != nil {
			m.log.Warn("remote backend unavailable, falling back to local", zap.Error(err))
		} else {
			m.log.Info("using remote storage backend")
			m.backend = remote
			return m.backend, nil
		}
	}

	path := m.cfg.Storage.DBPath
	if path == "" {
		path = config.DefaultDBPath
	}
	local, err := NewLocalBackend(path, m.cfg.Storage.DBLogLevel, m.log)
	if err != nil {
		return nil, err
	}
	m.log.Info("using local sqlite storage backend")
	m.backend = local
	return m.backend, nil
}

// backendOrNil absorbs construction failures into the contract's sentinel
// policy for the forwarding methods below.
func (m *Manager) backendOrNil(ctx context.Context) Backend {
	b, err := m.Backend(ctx)
	if err != nil {
		m.log.Error("storage backend unavailable", zap.Error(err))
		return nil
	}
	return b
}

func (m *Manager) SaveOne(ctx context.Context, d model.StockDaily) bool {
	b := m.backendOrNil(ctx)
	if b == nil {
		return false
	}
	return b.SaveOne(ctx, d)
}

func (m *Manager) SaveBatch(ctx context.Context, list []model.StockDaily) int64 {
	b := m.backendOrNil(ctx)
	if b == nil {
		return 0
	}
	return b.SaveBatch(ctx, list)
}

func (m *Manager) SaveFromTable(ctx context.Context, t *dto.Table, code, dataSource string) int64 {
	b := m.backendOrNil(ctx)
	if b == nil {
		return 0
	}
	return b.SaveFromTable(ctx, t, code, dataSource)
}

func (m *Manager) QueryRange(ctx context.Context, code, startDate, endDate string) []model.StockDaily {
	b := m.backendOrNil(ctx)
	if b == nil {
		return nil
	}
	return b.QueryRange(ctx, code, startDate, endDate)
}

func (m *Manager) QueryRangeAsTable(ctx context.Context, code, startDate, endDate string) *dto.Table {
	b := m.backendOrNil(ctx)
	if b == nil {
		return &dto.Table{}
	}
	return b.QueryRangeAsTable(ctx, code, startDate, endDate)
}

func (m *Manager) LatestDate(ctx context.Context, code string) string {
	b := m.backendOrNil(ctx)
	if b == nil {
		return ""
	}
	return b.LatestDate(ctx, code)
}

func (m *Manager) Codes(ctx context.Context) []string {
	b := m.backendOrNil(ctx)
	if b == nil {
		return nil
	}
	return b.Codes(ctx)
}

func (m *Manager) Count(ctx context.Context, code string) int64 {
	b := m.backendOrNil(ctx)
	if b == nil {
		return 0
	}
	return b.Count(ctx, code)
}

func (m *Manager) DeleteByCode(ctx context.Context, code string) int64 {
	b := m.backendOrNil(ctx)
	if b == nil {
		return 0
	}
	return b.DeleteByCode(ctx, code)
}

func (m *Manager) DeleteBefore(ctx context.Context, date string) int64 {
	b := m.backendOrNil(ctx)
	if b == nil {
		return 0
	}
	return b.DeleteBefore(ctx, date)
}

// HasTodayData reports whether the watermark for code equals refDate
// (today when refDate is ""). An ingestion pipeline uses this to skip the
// provider fetch entirely when the bar is already present.
func (m *Manager) HasTodayData(ctx context.Context, code, refDate string) bool {
	if refDate == "" {
		refDate = utils.Today()
	}
	latest := m.LatestDate(ctx, code)
	return latest != "" && latest == refDate
}

// Sync pushes pending writes on backends that have a remote durable copy;
// a local backend syncs trivially.
func (m *Manager) Sync(ctx context.Context) error {
	b := m.backendOrNil(ctx)
	if b == nil {
		return nil
	}
	if s, ok := b.(Syncer); ok {
		return s.Sync(ctx)
	}
	return nil
}

// Pull refreshes the working copy on backends that support it.
func (m *Manager) Pull(ctx context.Context) error {
	b := m.backendOrNil(ctx)
	if b == nil {
		return nil
	}
	if p, ok := b.(Puller); ok {
		return p.Pull(ctx)
	}
	return nil
}

// Name reports the active backend implementation, for diagnostics.
func (m *Manager) Name(ctx context.Context) string {
	b := m.backendOrNil(ctx)
	if b == nil {
		return ""
	}
	return b.Name()
}

// Close shuts the active backend down. For a remote backend this is the
// synchronization point that uploads pending writes.
func (m *Manager) Close() error {
	if m.backend == nil {
		return nil
	}
	err := m.backend.Close()
	m.backend = nil
	return err
}
