package processors

import (
	"iter"
	"time"
)

// DateFormat is the canonical YYYY-MM-DD representation used for stored dates.
const DateFormat = "2006-01-02"

// DayOf truncates a timestamp to its calendar day at midnight UTC, so that
// dates coming from different sources (DB strings, JSON, time.Now) compare
// at day granularity.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EachDay returns an iterator over every calendar date from start to end
// inclusive, ascending, with no gaps. Weekends and holidays are ordinary
// days. The sequence is finite and restartable; iteration never mutates the
// inputs.
func EachDay(start, end time.Time) iter.Seq[time.Time] {
	from := DayOf(start)
	to := DayOf(end)
	return func(yield func(time.Time) bool) {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}
