package shift

import (
	"math"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
)

// ExpandDates lists the calendar dates of one recurrence request in
// ascending order. With no repeat days the initial date is the only
// occurrence; otherwise every date from initial through end (inclusive)
// whose weekday is listed. An end before initial yields nothing.
//
// Both dates are expected at local midnight; stepping uses AddDate so the
// wall clock stays at midnight across offset changes.
func ExpandDates(initial, end time.Time, days []time.Weekday) []time.Time {
	if len(days) == 0 {
		return []time.Time{initial}
	}

	wanted := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		wanted[d] = true
	}

	dates := make([]time.Time, 0)
	for d := initial; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wanted[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates
}

// daysBetween counts whole calendar days from a to b, both local midnights.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Occurrences materializes the template for one worker: one shift per
// expanded date, unpriced and without IDs.
func Occurrences(t shift.Template, workerID string, resolver *timewindow.Resolver) []shift.Shift {
	initial := resolver.DateOf(t.StartTime)
	end := initial
	if t.RepeatEndDate != nil {
		end = resolver.DateOf(*t.RepeatEndDate)
	}

	dates := ExpandDates(initial, end, t.RepeatDays)
	out := make([]shift.Shift, 0, len(dates))
	for _, date := range dates {
		out = append(out, occurrence(t, workerID, initial, date, resolver.Location()))
	}
	return out
}

// occurrence places the template's scheduled span on date. Actual times
// only carry over to the initial date, the one they were recorded for.
func occurrence(t shift.Template, workerID string, initial, date time.Time, loc *time.Location) shift.Shift {
	offset := daysBetween(initial, date)

	s := shift.Shift{
		WorkerID:        workerID,
		WorkplaceID:     t.WorkplaceID,
		RoutineIDs:      append([]string(nil), t.RoutineIDs...),
		WorkDate:        date,
		StartTime:       t.StartTime.In(loc).AddDate(0, 0, offset),
		EndTime:         t.EndTime.In(loc).AddDate(0, 0, offset),
		RestTimeMinutes: t.RestTimeMinutes,
		Memo:            t.Memo,
	}
	if offset == 0 && t.ActualStartTime != nil && t.ActualEndTime != nil {
		as, ae := *t.ActualStartTime, *t.ActualEndTime
		s.ActualStartTime = &as
		s.ActualEndTime = &ae
	}
	return s
}
