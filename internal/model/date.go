package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Date is a day-granularity calendar date persisted as YYYY-MM-DD text.
// The SQLite driver hands DATE columns back as time.Time, so Date scans
// both shapes and always normalizes to the 10-character form.
type Date string

func (d Date) String() string {
	return string(d)
}

func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = Date(v.Format("2006-01-02"))
	case string:
		*d = truncate(v)
	case []byte:
		*d = truncate(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func truncate(s string) Date {
	if len(s) > 10 {
		s = s[:10]
	}
	return Date(s)
}
