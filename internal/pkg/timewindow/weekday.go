package timewindow

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// WeekdayValues lists the accepted weekday names in week order.
var WeekdayValues = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

// ParseWeekday accepts upper-case English names like "MONDAY" (case-insensitive).
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("invalid weekday %q", s)
	}
	return wd, nil
}

// WeekdayName is the inverse of ParseWeekday.
func WeekdayName(wd time.Weekday) string {
	return strings.ToUpper(wd.String())
}
