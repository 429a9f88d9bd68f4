package storage

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock-storage/internal/dto"
	"stock-storage/internal/model"
	"stock-storage/pkg/logger"
	"stock-storage/pkg/sqlite"
)

// saveBatchSize keeps one INSERT under SQLite's bind-variable limit.
const saveBatchSize = 50

// mutableColumns are the columns an upsert overwrites on conflict. The
// surrogate id and created_at of the existing row are preserved.
var mutableColumns = []string{
	"open", "high", "low", "close",
	"volume", "amount", "pct_chg",
	"ma5", "ma10", "ma20", "volume_ratio",
	"data_source", "updated_at",
}

// LocalBackend persists bars in a single SQLite file. The uniqueness of
// (code, date) is enforced by the schema itself, and the upsert is the only
// write path, so partial-field patches are structurally impossible.
type LocalBackend struct {
	db  *sqlite.DB
	log *logger.Logger
}

func NewLocalBackend(path, dbLogLevel string, log *logger.Logger) (*LocalBackend, error) {
	db, err := sqlite.Open(path, dbLogLevel, log)
	if err != nil {
		return nil, err
	}
	log.Info("local storage ready", zap.String("path", path))
	return &LocalBackend{db: db, log: log}, nil
}

func (b *LocalBackend) Name() string {
	return NameSQLite
}

// Path returns the database file backing this instance.
func (b *LocalBackend) Path() string {
	return b.db.Path()
}

func (b *LocalBackend) Close() error {
	return b.db.Close()
}

func upsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns(mutableColumns),
	}
}

func (b *LocalBackend) SaveOne(ctx context.Context, d model.StockDaily) bool {
	res := b.db.WithContext(ctx).Clauses(upsertClause()).Create(&d)
	if res.Error != nil {
		b.log.Error("save daily bar failed",
			zap.String("code", d.Code),
			zap.String("date", d.Date.String()),
			zap.Error(res.Error))
		return false
	}
	return true
}

func (b *LocalBackend) SaveBatch(ctx context.Context, list []model.StockDaily) int64 {
	if len(list) == 0 {
		return 0
	}

	rows := make([]model.StockDaily, len(list))
	copy(rows, list)

	var affected int64
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(upsertClause()).CreateInBatches(&rows, saveBatchSize)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		b.log.Error("save daily batch failed", zap.Int("size", len(list)), zap.Error(err))
		return 0
	}

	b.log.Info("saved daily batch", zap.Int64("rows", affected))
	return affected
}

func (b *LocalBackend) SaveFromTable(ctx context.Context, t *dto.Table, code, dataSource string) int64 {
	if t.Empty() {
		return 0
	}
	list, err := TableToDailies(t, code, dataSource)
	if err != nil {
		b.log.Error("reject malformed tabular batch", zap.String("code", code), zap.Error(err))
		return 0
	}
	return b.SaveBatch(ctx, list)
}

func (b *LocalBackend) QueryRange(ctx context.Context, code, startDate, endDate string) []model.StockDaily {
	var list []model.StockDaily
	err := b.db.WithContext(ctx).
		Where("code = ? AND date BETWEEN ? AND ?", code, startDate, endDate).
		Order("date ASC").
		Find(&list).Error
	if err != nil {
		b.log.Error("query daily bars failed", zap.String("code", code), zap.Error(err))
		return nil
	}
	return list
}

func (b *LocalBackend) QueryRangeAsTable(ctx context.Context, code, startDate, endDate string) *dto.Table {
	return DailiesToTable(b.QueryRange(ctx, code, startDate, endDate))
}

func (b *LocalBackend) LatestDate(ctx context.Context, code string) string {
	var latest sql.NullString
	row := b.db.WithContext(ctx).
		Model(&model.StockDaily{}).
		Select("MAX(date)").
		Where("code = ?", code).
		Row()
	if err := row.Scan(&latest); err != nil {
		b.log.Error("query watermark failed", zap.String("code", code), zap.Error(err))
		return ""
	}
	if !latest.Valid {
		return ""
	}
	return latest.String
}

func (b *LocalBackend) Codes(ctx context.Context) []string {
	var codes []string
	err := b.db.WithContext(ctx).
		Model(&model.StockDaily{}).
		Distinct().
		Order("code ASC").
		Pluck("code", &codes).Error
	if err != nil {
		b.log.Error("query stock codes failed", zap.Error(err))
		return nil
	}
	return codes
}

func (b *LocalBackend) Count(ctx context.Context, code string) int64 {
	q := b.db.WithContext(ctx).Model(&model.StockDaily{})
	if code != "" {
		q = q.Where("code = ?", code)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		b.log.Error("count daily bars failed", zap.String("code", code), zap.Error(err))
		return 0
	}
	return n
}

func (b *LocalBackend) DeleteByCode(ctx context.Context, code string) int64 {
	res := b.db.WithContext(ctx).Where("code = ?", code).Delete(&model.StockDaily{})
	if res.Error != nil {
		b.log.Error("delete by code failed", zap.String("code", code), zap.Error(res.Error))
		return 0
	}
	b.log.Info("deleted daily bars", zap.String("code", code), zap.Int64("rows", res.RowsAffected))
	return res.RowsAffected
}

func (b *LocalBackend) DeleteBefore(ctx context.Context, date string) int64 {
	res := b.db.WithContext(ctx).Where("date < ?", date).Delete(&model.StockDaily{})
	if res.Error != nil {
		b.log.Error("delete before date failed", zap.String("date", date), zap.Error(res.Error))
		return 0
	}
	b.log.Info("deleted daily bars before date", zap.String("date", date), zap.Int64("rows", res.RowsAffected))
	return res.RowsAffected
}
