package timewindow

import (
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// Segment is a piece of a span that lies within a single local calendar day.
type Segment struct {
	Start time.Time
	End   time.Time
	Night bool
}

// Minutes returns the whole minutes covered by the segment.
func (s Segment) Minutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}

// Resolver anchors instants to one civil time zone and classifies
// minutes against a night window given as minutes of day.
type Resolver struct {
	loc        *time.Location
	nightStart int
	nightEnd   int
}

// NewResolver builds a resolver. nightStart and nightEnd are minutes since
// local midnight; a start after the end means the window wraps past midnight.
func NewResolver(loc *time.Location, nightStart, nightEnd int) (*Resolver, error) {
	if loc == nil {
		return nil, fmt.Errorf("timewindow: location is required")
	}
	if nightStart < 0 || nightStart >= minutesPerDay || nightEnd < 0 || nightEnd >= minutesPerDay {
		return nil, fmt.Errorf("timewindow: night window out of range: %d-%d", nightStart, nightEnd)
	}
	return &Resolver{loc: loc, nightStart: nightStart, nightEnd: nightEnd}, nil
}

// MustResolver is NewResolver for static configuration in tests and tools.
func MustResolver(loc *time.Location, nightStart, nightEnd int) *Resolver {
	r, err := NewResolver(loc, nightStart, nightEnd)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// NightWindow renders the night window as "HH:MM-HH:MM".
func (r *Resolver) NightWindow() string {
	return FormatClock(r.nightStart) + "-" + FormatClock(r.nightEnd)
}

// Local converts an instant into the resolver's zone and returns its local
// calendar date (midnight) and the time elapsed since that midnight.
func (r *Resolver) Local(t time.Time) (date time.Time, clock time.Duration) {
	lt := t.In(r.loc)
	date = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, r.loc)
	clock = time.Duration(lt.Hour())*time.Hour + time.Duration(lt.Minute())*time.Minute + time.Duration(lt.Second())*time.Second
	return date, clock
}

// DateOf returns local midnight of the day containing t.
func (r *Resolver) DateOf(t time.Time) time.Time {
	d, _ := r.Local(t)
	return d
}

// At places a wall-clock time (minutes since midnight) on the given local date.
func (r *Resolver) At(date time.Time, minuteOfDay int) time.Time {
	d := date.In(r.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, r.loc)
}

// MonthRange returns [first day of month, first day of next month) in local time.
func (r *Resolver) MonthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, r.loc)
	return from, from.AddDate(0, 1, 0)
}

// Split cuts [start, end) at every local midnight and at the night window
// edges, tagging each piece as night or day.
func (r *Resolver) Split(start, end time.Time) []Segment {
	var segments []Segment
	if !end.After(start) {
		return segments
	}

	cur := start.In(r.loc)
	end = end.In(r.loc)
	for cur.Before(end) {
		day := r.DateOf(cur)
		nextMidnight := day.AddDate(0, 0, 1)
		dayEnd := end
		if nextMidnight.Before(end) {
			dayEnd = nextMidnight
		}
		segments = append(segments, r.classifyDay(day, cur, dayEnd)...)
		cur = dayEnd
	}
	return segments
}

// NightMinutes counts the minutes of [start, end) inside the night window.
func (r *Resolver) NightMinutes(start, end time.Time) int {
	var total time.Duration
	for _, s := range r.Split(start, end) {
		if s.Night {
			total += s.End.Sub(s.Start)
		}
	}
	return int(total / time.Minute)
}

// classifyDay splits [from, to), which lies within the local day starting at
// day, into day and night pieces in chronological order.
func (r *Resolver) classifyDay(day, from, to time.Time) []Segment {
	var out []Segment
	cur := from
	for _, w := range r.nightIntervals(day) {
		if !w[1].After(cur) || !w[0].Before(to) {
			continue
		}
		ns := maxTime(cur, w[0])
		ne := minTime(to, w[1])
		if ns.After(cur) {
			out = append(out, Segment{Start: cur, End: ns})
		}
		out = append(out, Segment{Start: ns, End: ne, Night: true})
		cur = ne
	}
	if cur.Before(to) {
		out = append(out, Segment{Start: cur, End: to})
	}
	return out
}

// nightIntervals lists the night windows intersecting one local day, ordered.
func (r *Resolver) nightIntervals(day time.Time) [][2]time.Time {
	next := day.AddDate(0, 0, 1)
	switch {
	case r.nightStart == r.nightEnd:
		return nil
	case r.nightStart < r.nightEnd:
		return [][2]time.Time{{r.At(day, r.nightStart), r.At(day, r.nightEnd)}}
	default:
		return [][2]time.Time{
			{day, r.At(day, r.nightEnd)},
			{r.At(day, r.nightStart), next},
		}
	}
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q, use HH:MM: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
