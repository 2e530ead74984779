package leave

import "time"

// BusinessDays counts calendar days from start to end inclusive whose
// weekday is not Saturday or Sunday. No holiday calendar is consulted.
// A single weekday yields 1; a range entirely inside a weekend yields
// 0; end before start yields 0.
func BusinessDays(start, end time.Time) int {
	start = truncateToDay(start)
	end = truncateToDay(end)

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days++
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
