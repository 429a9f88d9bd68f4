package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowFloat(t *testing.T) {
	row := Row{
		Index: "2024-05-03",
		Cells: map[string]any{
			"close":  float64(10.5),
			"volume": int64(1200),
			"ma5":    nil,
			"note":   "text",
		},
	}

	if assert.NotNil(t, row.Float("close")) {
		assert.Equal(t, 10.5, *row.Float("close"))
	}
	if assert.NotNil(t, row.Float("volume")) {
		assert.Equal(t, 1200.0, *row.Float("volume"))
	}
	assert.Nil(t, row.Float("ma5"))
	assert.Nil(t, row.Float("missing"))
	assert.Nil(t, row.Float("note"))
}

func TestRowStr(t *testing.T) {
	row := Row{Cells: map[string]any{"date": "2024-05-03", "close": 1.0}}
	assert.Equal(t, "2024-05-03", row.Str("date"))
	assert.Equal(t, "", row.Str("missing"))
	assert.Equal(t, "", row.Str("close"))
}

func TestTableEmptyAndDates(t *testing.T) {
	var nilTable *Table
	assert.True(t, nilTable.Empty())
	assert.True(t, (&Table{}).Empty())

	table := &Table{Rows: []Row{
		{Index: "2024-05-01"},
		{Index: "2024-05-02"},
	}}
	assert.False(t, table.Empty())
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, table.Dates())
}
