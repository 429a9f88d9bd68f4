package model

import "time"

// StockDaily is one trading day's bar for one instrument. (Code, Date) is
// the natural key; every numeric attribute besides the key may be absent
// from the provider, so those are pointers where nil means "not available",
// not zero.
type StockDaily struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Code        string    `gorm:"column:code;not null"`
	Date        Date      `gorm:"column:date;not null"`
	Open        *float64  `gorm:"column:open"`
	High        *float64  `gorm:"column:high"`
	Low         *float64  `gorm:"column:low"`
	Close       *float64  `gorm:"column:close"`
	Volume      *float64  `gorm:"column:volume"`
	Amount      *float64  `gorm:"column:amount"`
	PctChg      *float64  `gorm:"column:pct_chg"`
	MA5         *float64  `gorm:"column:ma5"`
	MA10        *float64  `gorm:"column:ma10"`
	MA20        *float64  `gorm:"column:ma20"`
	VolumeRatio *float64  `gorm:"column:volume_ratio"`
	DataSource  string    `gorm:"column:data_source"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockDaily) TableName() string {
	return "stock_daily"
}
