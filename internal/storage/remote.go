package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"stock-storage/config"
	"stock-storage/internal/dto"
	"stock-storage/internal/model"
	"stock-storage/pkg/logger"
	"stock-storage/pkg/objstore"
)

// RemoteBackend keeps the durable copy of the data in an S3-compatible
// object store and operates on a local SQLite working copy in between:
// download the snapshot on attach, mutate locally, upload on sync or close.
//
// The protocol is whole-snapshot with no concurrent-writer detection. Two
// processes attached to the same object key overwrite each other on close,
// last writer wins; there must be at most one active writer per snapshot
// during a sync window.
type RemoteBackend struct {
	cfg   config.Storage
	store objstore.Store
	log   *logger.Logger

	local   *LocalBackend // working copy
	workDir string
	dirty   bool
}

func NewRemoteBackend(ctx context.Context, cfg config.Storage, log *logger.Logger) (*RemoteBackend, error) {
	store, err := objstore.New(cfg.Remote, log)
	if err != nil {
		return nil, err
	}
	return newRemoteBackend(ctx, cfg, store, log)
}

func newRemoteBackend(ctx context.Context, cfg config.Storage, store objstore.Store, log *logger.Logger) (*RemoteBackend, error) {
	b := &RemoteBackend{cfg: cfg, store: store, log: log}
	if err := b.attach(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// attach downloads the remote snapshot into a private temp directory and
// opens it as the working copy. A missing remote object is not an error:
// it means no data yet, so the working copy starts empty.
func (b *RemoteBackend) attach(ctx context.Context) error {
	dir, err := os.MkdirTemp(b.cfg.Remote.TempDir, "stock-storage-")
	if err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}
	path := filepath.Join(dir, "stock.db")

	key := b.cfg.Remote.ObjectKey()
	exists, err := b.store.Exists(ctx, key)
	if err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("check remote snapshot: %w", err)
	}

	if exists {
		if err := b.store.Download(ctx, key, path); err != nil {
			_ = os.RemoveAll(dir)
			return fmt.Errorf("download remote snapshot: %w", err)
		}
		b.log.Info("downloaded remote snapshot", zap.String("key", key))
	} else {
		b.log.Info("remote snapshot not found, starting empty", zap.String("key", key))
	}

	local, err := NewLocalBackend(path, b.cfg.DBLogLevel, b.log)
	if err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("open working copy: %w", err)
	}

	b.local = local
	b.workDir = dir
	return nil
}

func (b *RemoteBackend) Name() string {
	return NameRemoteS3
}

// Sync uploads the working copy back to the object key, only when writes
// happened since the last upload. A clean sync is a cheap success.
func (b *RemoteBackend) Sync(ctx context.Context) error {
	if !b.dirty {
		return nil
	}
	key := b.cfg.Remote.ObjectKey()
	if err := b.store.Upload(ctx, key, b.local.Path()); err != nil {
		b.log.Error("upload snapshot failed", zap.String("key", key), zap.Error(err))
		return err
	}
	b.dirty = false
	b.log.Info("uploaded snapshot", zap.String("key", key))
	return nil
}

// Pull discards the working copy, including unsynced local writes, and
// re-downloads the latest remote snapshot for a guaranteed-fresh view.
func (b *RemoteBackend) Pull(ctx context.Context) error {
	if err := b.local.Close(); err != nil {
		b.log.Warn("close working copy before pull", zap.Error(err))
	}
	path := b.local.Path()
	_ = os.Remove(path)

	key := b.cfg.Remote.ObjectKey()
	exists, err := b.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check remote snapshot: %w", err)
	}
	if exists {
		if err := b.store.Download(ctx, key, path); err != nil {
			return fmt.Errorf("download remote snapshot: %w", err)
		}
		b.log.Info("pulled remote snapshot", zap.String("key", key))
	}

	local, err := NewLocalBackend(path, b.cfg.DBLogLevel, b.log)
	if err != nil {
		return fmt.Errorf("reopen working copy: %w", err)
	}
	b.local = local
	b.dirty = false
	return nil
}

// Close uploads pending writes, releases the embedded connection and
// removes the temporary working copy so it never leaks across runs.
func (b *RemoteBackend) Close() error {
	syncErr := b.Sync(context.Background())
	closeErr := b.local.Close()
	if b.workDir != "" {
		if err := os.RemoveAll(b.workDir); err != nil {
			b.log.Warn("remove working directory", zap.Error(err))
		}
		b.workDir = ""
	}
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}

func (b *RemoteBackend) SaveOne(ctx context.Context, d model.StockDaily) bool {
	ok := b.local.SaveOne(ctx, d)
	if ok {
		b.dirty = true
	}
	return ok
}

func (b *RemoteBackend) SaveBatch(ctx context.Context, list []model.StockDaily) int64 {
	n := b.local.SaveBatch(ctx, list)
	if n > 0 {
		b.dirty = true
	}
	return n
}

func (b *RemoteBackend) SaveFromTable(ctx context.Context, t *dto.Table, code, dataSource string) int64 {
	n := b.local.SaveFromTable(ctx, t, code, dataSource)
	if n > 0 {
		b.dirty = true
	}
	return n
}

func (b *RemoteBackend) QueryRange(ctx context.Context, code, startDate, endDate string) []model.StockDaily {
	return b.local.QueryRange(ctx, code, startDate, endDate)
}

func (b *RemoteBackend) QueryRangeAsTable(ctx context.Context, code, startDate, endDate string) *dto.Table {
	return b.local.QueryRangeAsTable(ctx, code, startDate, endDate)
}

func (b *RemoteBackend) LatestDate(ctx context.Context, code string) string {
	return b.local.LatestDate(ctx, code)
}

func (b *RemoteBackend) Codes(ctx context.Context) []string {
	return b.local.Codes(ctx)
}

func (b *RemoteBackend) Count(ctx context.Context, code string) int64 {
	return b.local.Count(ctx, code)
}

func (b *RemoteBackend) DeleteByCode(ctx context.Context, code string) int64 {
	n := b.local.DeleteByCode(ctx, code)
	if n > 0 {
		b.dirty = true
	}
	return n
}

func (b *RemoteBackend) DeleteBefore(ctx context.Context, date string) int64 {
	n := b.local.DeleteBefore(ctx, date)
	if n > 0 {
		b.dirty = true
	}
	return n
}
