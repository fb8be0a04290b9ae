package store

import (
	"time"

	"github.com/i474232898/weather-history/internal/weather"
)

// TimestampLayout is how history records are dated.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// HistoryRecord is one entry of a history store.
type HistoryRecord struct {
	Date    string `json:"date"`
	Weather string `json:"weather"`
}

func newRecord(now time.Time, w weather.Weather) HistoryRecord {
	return HistoryRecord{
		Date:    now.Format(TimestampLayout),
		Weather: weather.Format(w),
	}
}
