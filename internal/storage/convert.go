package storage

import (
	"fmt"

	"stock-storage/internal/dto"
	"stock-storage/internal/model"
	"stock-storage/pkg/utils"
)

// FromTableRow builds one bar from a tabular row. The date comes from an
// explicit "date" cell or, failing that, the row index, truncated to the
// 10-character calendar date. Missing optional cells become nil attributes;
// only a missing code or date is an error.
func FromTableRow(row dto.Row, code, dataSource string) (model.StockDaily, error) {
	date := row.Str("date")
	if date == "" {
		date = row.Index
	}
	date = utils.TruncateDate(date)

	if code == "" || date == "" {
		return model.StockDaily{}, fmt.Errorf("stock daily bar requires code and date, got code=%q date=%q", code, date)
	}

	return model.StockDaily{
		Code:        code,
		Date:        model.Date(date),
		Open:        row.Float("open"),
		High:        row.Float("high"),
		Low:         row.Float("low"),
		Close:       row.Float("close"),
		Volume:      row.Float("volume"),
		Amount:      row.Float("amount"),
		PctChg:      row.Float("pct_chg"),
		MA5:         row.Float("ma5"),
		MA10:        row.Float("ma10"),
		MA20:        row.Float("ma20"),
		VolumeRatio: row.Float("volume_ratio"),
		DataSource:  dataSource,
	}, nil
}

// TableToDailies converts a whole tabular batch for one code.
func TableToDailies(t *dto.Table, code, dataSource string) ([]model.StockDaily, error) {
	if t.Empty() {
		return nil, nil
	}
	list := make([]model.StockDaily, 0, len(t.Rows))
	for _, row := range t.Rows {
		d, err := FromTableRow(row, code, dataSource)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, nil
}

// RowFromDaily is the inverse conversion. Generated fields travel along
// when present so a queried table is self-describing, but they are never
// read back on the way in.
func RowFromDaily(d model.StockDaily) dto.Row {
	cells := map[string]any{
		"code":        d.Code,
		"date":        d.Date.String(),
		"data_source": d.DataSource,
	}
	putFloat := func(col string, v *float64) {
		if v != nil {
			cells[col] = *v
		}
	}
	putFloat("open", d.Open)
	putFloat("high", d.High)
	putFloat("low", d.Low)
	putFloat("close", d.Close)
	putFloat("volume", d.Volume)
	putFloat("amount", d.Amount)
	putFloat("pct_chg", d.PctChg)
	putFloat("ma5", d.MA5)
	putFloat("ma10", d.MA10)
	putFloat("ma20", d.MA20)
	putFloat("volume_ratio", d.VolumeRatio)

	if d.ID != 0 {
		cells["id"] = int64(d.ID)
	}
	if !d.CreatedAt.IsZero() {
		cells["created_at"] = d.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if !d.UpdatedAt.IsZero() {
		cells["updated_at"] = d.UpdatedAt.Format("2006-01-02 15:04:05")
	}

	return dto.Row{Index: d.Date.String(), Cells: cells}
}

// DailiesToTable builds a date-indexed table from a record list, keeping
// the list order (ascending by date by construction of the range query).
func DailiesToTable(list []model.StockDaily) *dto.Table {
	if len(list) == 0 {
		return &dto.Table{}
	}
	rows := make([]dto.Row, 0, len(list))
	for _, d := range list {
		rows = append(rows, RowFromDaily(d))
	}
	return &dto.Table{Rows: rows}
}
