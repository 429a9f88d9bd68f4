package dto

// Row is one date-indexed row of a tabular batch. Cells are keyed by column
// name; an absent cell means the provider did not deliver that field.
type Row struct {
	Index string
	Cells map[string]any
}

// Float reads a numeric cell, nil when the column is absent or not numeric.
func (r Row) Float(col string) *float64 {
	v, ok := r.Cells[col]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}

// Str reads a string cell, "" when absent.
func (r Row) Str(col string) string {
	v, ok := r.Cells[col]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Table is a tabular batch of daily bars, the shape in which data crosses
// the storage boundary in both directions.
type Table struct {
	Rows []Row
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Dates returns the row index in table order.
func (t *Table) Dates() []string {
	if t == nil {
		return nil
	}
	dates := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		dates = append(dates, row.Index)
	}
	return dates
}
