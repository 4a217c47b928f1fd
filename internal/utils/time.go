package utils

import (
	"fmt"
	"strings"
	"time"
)

// StartTimeLayout is how show start times are displayed.
const StartTimeLayout = "2006-01-02 15:04:05"

var startTimeInputLayouts = []string{
	time.RFC3339,
	StartTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// FormatStartTime renders t in UTC using StartTimeLayout.
func FormatStartTime(t time.Time) string {
	return t.UTC().Format(StartTimeLayout)
}

// ParseStartTime accepts RFC 3339 or a zone-less date and time, which is read
// as UTC. The result is truncated to whole seconds.
func ParseStartTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range startTimeInputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start_time %q", value)
}
