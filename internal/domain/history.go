package domain

import "time"

// HistoryLimit is the number of entries shown in the history screen
const HistoryLimit = 10

// HistoryDateLayout is used when rendering history lines
const HistoryDateLayout = "2006-01-02 15:04"

// HistoryEntry is one successful download
type HistoryEntry struct {
	ID     int64     `db:"id"`
	UserID int64     `db:"user_id"`
	URL    string    `db:"url"`
	Date   time.Time `db:"date"`
}

// DisplayString returns the "date - url" line
func (e HistoryEntry) DisplayString() string {
	return e.Date.Format(HistoryDateLayout) + " - " + e.URL
}
