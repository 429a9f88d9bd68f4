package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-storage/internal/dto"
	"stock-storage/internal/model"
	"stock-storage/pkg/logger"
)

func newTestBackend(t *testing.T) *LocalBackend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stock.db")
	b, err := NewLocalBackend(path, "Silent", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func fptr(v float64) *float64 {
	return &v
}

func bar(code, date string, close float64) model.StockDaily {
	return model.StockDaily{
		Code:       code,
		Date:       model.Date(date),
		Open:       fptr(close - 0.5),
		High:       fptr(close + 0.3),
		Low:        fptr(close - 0.8),
		Close:      fptr(close),
		Volume:     fptr(100000),
		DataSource: "test",
	}
}

func TestSaveOneUpsertIdempotent(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.True(t, b.SaveOne(ctx, bar("000001", "2024-05-03", 10.0)))

	first := b.QueryRange(ctx, "000001", "2024-05-03", "2024-05-03")
	require.Len(t, first, 1)

	time.Sleep(20 * time.Millisecond)
	require.True(t, b.SaveOne(ctx, bar("000001", "2024-05-03", 11.0)))

	second := b.QueryRange(ctx, "000001", "2024-05-03", "2024-05-03")
	require.Len(t, second, 1, "upsert must not duplicate the (code, date) pair")

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].CreatedAt.UnixNano(), second[0].CreatedAt.UnixNano())
	assert.True(t, second[0].UpdatedAt.After(first[0].UpdatedAt),
		"updated_at must advance on rewrite")
	require.NotNil(t, second[0].Close)
	assert.Equal(t, 11.0, *second[0].Close)

	assert.Equal(t, int64(1), b.Count(ctx, "000001"))
}

func TestSaveBatchLastInBatchWins(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	batch := []model.StockDaily{
		bar("000001", "2024-05-03", 10.0),
		bar("000001", "2024-05-03", 12.5),
	}
	n := b.SaveBatch(ctx, batch)
	assert.Equal(t, int64(2), n, "insert and update both count as affected")

	rows := b.QueryRange(ctx, "000001", "2024-05-03", "2024-05-03")
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Close)
	assert.Equal(t, 12.5, *rows[0].Close)
}

func TestSaveBatchEmpty(t *testing.T) {
	b := newTestBackend(t)
	assert.Equal(t, int64(0), b.SaveBatch(context.Background(), nil))
}

func TestWatermark(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	assert.Equal(t, "", b.LatestDate(ctx, "000001"), "no rows means no watermark")

	b.SaveBatch(ctx, []model.StockDaily{
		bar("000001", "2024-05-01", 10.0),
		bar("000001", "2024-05-03", 10.4),
		bar("000001", "2024-05-02", 10.2),
		bar("600519", "2024-04-28", 1700.0),
	})

	assert.Equal(t, "2024-05-03", b.LatestDate(ctx, "000001"))
	assert.Equal(t, "2024-04-28", b.LatestDate(ctx, "600519"))
	assert.Equal(t, "", b.LatestDate(ctx, "999999"))
}

func TestFiveBarScenario(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	dates := []string{"2024-05-06", "2024-05-07", "2024-05-08", "2024-05-09", "2024-05-10"}
	batch := make([]model.StockDaily, 0, len(dates))
	for i, d := range dates {
		batch = append(batch, bar("000001", d, 10.0+float64(i)*0.1))
	}
	require.Equal(t, int64(5), b.SaveBatch(ctx, batch))

	rows := b.QueryRange(ctx, "000001", "2024-05-06", "2024-05-10")
	require.Len(t, rows, 5)
	for i, d := range dates {
		assert.Equal(t, d, rows[i].Date.String(), "range query is ascending by date")
	}
	firstUpdated := rows[1].UpdatedAt

	// Re-ingest two of the same dates with changed closes.
	time.Sleep(20 * time.Millisecond)
	reingest := []model.StockDaily{
		bar("000001", "2024-05-07", 20.7),
		bar("000001", "2024-05-09", 20.9),
	}
	require.Equal(t, int64(2), b.SaveBatch(ctx, reingest))

	assert.Equal(t, int64(5), b.Count(ctx, "000001"), "re-ingest must not add rows")

	changed := b.QueryRange(ctx, "000001", "2024-05-07", "2024-05-09")
	require.Len(t, changed, 3)
	require.NotNil(t, changed[0].Close)
	assert.Equal(t, 20.7, *changed[0].Close)
	require.NotNil(t, changed[2].Close)
	assert.Equal(t, 20.9, *changed[2].Close)
	assert.True(t, changed[0].UpdatedAt.After(firstUpdated))
}

func TestDeleteByCode(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.True(t, b.SaveOne(ctx, bar("000001", fmt.Sprintf("2024-05-0%d", i+1), 10.0)))
	}
	b.SaveOne(ctx, bar("600519", "2024-05-01", 1700.0))

	assert.Equal(t, int64(5), b.DeleteByCode(ctx, "000001"))
	assert.Equal(t, int64(0), b.Count(ctx, "000001"))
	assert.Equal(t, int64(1), b.Count(ctx, "600519"), "other codes stay intact")
	assert.Equal(t, int64(0), b.DeleteByCode(ctx, "000001"), "second delete finds nothing")
}

func TestDeleteBefore(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	b.SaveBatch(ctx, []model.StockDaily{
		bar("000001", "2024-04-29", 9.0),
		bar("000001", "2024-04-30", 9.1),
		bar("000001", "2024-05-01", 9.2),
		bar("600519", "2024-04-28", 1700.0),
	})

	assert.Equal(t, int64(3), b.DeleteBefore(ctx, "2024-05-01"), "cutoff itself survives")
	left := b.QueryRange(ctx, "000001", "2024-01-01", "2024-12-31")
	require.Len(t, left, 1)
	assert.Equal(t, "2024-05-01", left[0].Date.String())
}

func TestCodesAndCount(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	assert.Empty(t, b.Codes(ctx))
	assert.Equal(t, int64(0), b.Count(ctx, ""))

	b.SaveBatch(ctx, []model.StockDaily{
		bar("600519", "2024-05-01", 1700.0),
		bar("000001", "2024-05-01", 10.0),
		bar("000001", "2024-05-02", 10.1),
	})

	assert.Equal(t, []string{"000001", "600519"}, b.Codes(ctx))
	assert.Equal(t, int64(3), b.Count(ctx, ""))
	assert.Equal(t, int64(2), b.Count(ctx, "000001"))
}

func TestSaveFromTableAndQueryAsTable(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	table := &dto.Table{Rows: []dto.Row{
		{Index: "2024-05-01", Cells: map[string]any{"close": 10.0, "volume": 1000.0}},
		{Index: "2024-05-02", Cells: map[string]any{"close": 10.2}},
	}}

	assert.Equal(t, int64(2), b.SaveFromTable(ctx, table, "000001", "akshare"))

	out := b.QueryRangeAsTable(ctx, "000001", "2024-05-01", "2024-05-02")
	require.False(t, out.Empty())
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, out.Dates())
	require.NotNil(t, out.Rows[1].Float("close"))
	assert.Equal(t, 10.2, *out.Rows[1].Float("close"))
	assert.Nil(t, out.Rows[1].Float("volume"), "absent stays absent, not zero")
	assert.Equal(t, "akshare", out.Rows[0].Str("data_source"))
}

func TestSaveFromTableRejectsMalformedBatch(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	table := &dto.Table{Rows: []dto.Row{{Cells: map[string]any{"close": 10.0}}}}
	assert.Equal(t, int64(0), b.SaveFromTable(ctx, table, "000001", ""),
		"a row without a date never reaches storage")
	assert.Equal(t, int64(0), b.Count(ctx, ""))
}

func TestQueryRangeEmpty(t *testing.T) {
	b := newTestBackend(t)
	rows := b.QueryRange(context.Background(), "000001", "2024-01-01", "2024-12-31")
	assert.Empty(t, rows)
}

func TestBackendName(t *testing.T) {
	b := newTestBackend(t)
	assert.Equal(t, NameSQLite, b.Name())
}
