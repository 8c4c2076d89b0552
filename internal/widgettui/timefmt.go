package widgettui

import "time"

// calendarLabel formats ts relative to now: "15:04" today, "Yesterday at
// 15:04", the weekday within the last week, otherwise the full date.
func calendarLabel(ts, now time.Time) string {
	ts = ts.In(now.Location())
	clock := ts.Format("15:04")

	today := startOfDay(now)
	day := startOfDay(ts)
	switch {
	case !day.Before(today):
		return clock
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday at " + clock
	case day.After(today.AddDate(0, 0, -7)):
		return ts.Format("Monday") + " at " + clock
	default:
		return ts.Format("January 2, 2006") + " at " + clock
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
