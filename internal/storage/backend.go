package storage

import (
	"context"

	"stock-storage/internal/dto"
	"stock-storage/internal/model"
)

// Backend names reported by Name.
const (
	NameSQLite   = "sqlite"
	NameRemoteS3 = "remote_s3"
)

// Backend is the contract every storage backend satisfies. Writes are
// upserts keyed by (code, date); a second write for the same pair updates
// the existing row, never duplicates it.
//
// Persistence faults do not propagate as errors. Each operation logs the
// fault and returns its failure sentinel (false, 0 or an empty result), so
// one bad instrument cannot abort a batch ingestion run. Callers doing
// strict verification must check return values.
type Backend interface {
	// SaveOne upserts a single bar. False means "not durably stored".
	SaveOne(ctx context.Context, d model.StockDaily) bool
	// SaveBatch upserts the batch as one unit of work and returns the
	// number of rows affected; a partial failure rolls back to 0.
	SaveBatch(ctx context.Context, list []model.StockDaily) int64
	// SaveFromTable converts a tabular batch for one code and saves it.
	SaveFromTable(ctx context.Context, t *dto.Table, code, dataSource string) int64

	// QueryRange returns bars with start <= date <= end, ascending by date.
	QueryRange(ctx context.Context, code, startDate, endDate string) []model.StockDaily
	// QueryRangeAsTable returns the same rows as a date-indexed table.
	QueryRangeAsTable(ctx context.Context, code, startDate, endDate string) *dto.Table
	// LatestDate returns the watermark for code, "" when it has no rows.
	LatestDate(ctx context.Context, code string) string
	// Codes returns the distinct set of codes present, ascending.
	Codes(ctx context.Context) []string
	// Count returns the number of rows, for one code or all when code is "".
	Count(ctx context.Context, code string) int64

	DeleteByCode(ctx context.Context, code string) int64
	DeleteBefore(ctx context.Context, date string) int64

	// Close releases resources. For the remote backend it is also the
	// synchronization point that uploads pending writes.
	Close() error
	// Name identifies the active implementation, for diagnostics only.
	Name() string
}

// Syncer is satisfied by backends that push a durable copy somewhere else.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Puller is satisfied by backends that can discard their working copy and
// re-fetch the latest durable snapshot.
type Puller interface {
	Pull(ctx context.Context) error
}
