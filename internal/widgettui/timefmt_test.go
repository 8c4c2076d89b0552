package widgettui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCalendarLabel(t *testing.T) {
	now := time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC) // Thursday

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"same day", time.Date(2026, 3, 12, 9, 5, 0, 0, time.UTC), "09:05"},
		{"yesterday", time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC), "Yesterday at 23:59"},
		{"this week", time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), "Monday at 08:00"},
		{"six days ago", time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC), "Friday at 08:00"},
		{"older", time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC), "March 5, 2026 at 08:00"},
		{"future", time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC), "08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, calendarLabel(tt.ts, now))
		})
	}
}
