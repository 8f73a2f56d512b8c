// Package calendar normalizes the dates found in records to day keys
// and resolves the dashboard's reporting periods.
package calendar

import (
	"strings"
	"time"
)

const (
	dayLayout      = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"

	// Epoch is the day every missing or malformed date normalizes to.
	Epoch Day = "1970-01-01"

	// AcademicYearStart is the month the academic year begins in.
	AcademicYearStart = time.September
)

var layouts = []string{dayLayout, dateTimeLayout, "2006-01-02T15:04:05", time.RFC3339Nano}

// Weekend days are never school days.
var Weekend = [2]time.Weekday{time.Friday, time.Saturday}

// Day is a `YYYY-MM-DD` key. Keys order lexically the same way the days they name do.
type Day string

func DayOf(t time.Time) Day {
	if t.IsZero() {
		return Epoch
	}
	return Day(t.Format(dayLayout))
}

// ParseDay accepts `YYYY-MM-DD`, `YYYY-MM-DD HH:MM:SS` and RFC 3339 strings.
func ParseDay(s string) Day {
	s = strings.TrimSpace(s)
	if s == "" {
		return Epoch
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			// offsets are kept so the day is the one the record was written in
			return DayOf(t)
		}
	}
	return Epoch
}

// Normalize turns any of the date representations found in records into a Day.
func Normalize(v interface{}) Day {
	switch d := v.(type) {
	case Day:
		return ParseDay(string(d))
	case Date:
		return d.Day()
	case *Date:
		if d == nil {
			return Epoch
		}
		return d.Day()
	case time.Time:
		return DayOf(d)
	case *time.Time:
		if d == nil {
			return Epoch
		}
		return DayOf(*d)
	case string:
		return ParseDay(d)
	default:
		return Epoch
	}
}

func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Day) IsSchoolDay() bool {
	wd := d.Weekday()
	return wd != Weekend[0] && wd != Weekend[1]
}

func (d Day) String() string {
	return string(d)
}

// InRange is inclusive on both ends.
func InRange(d, start, end Day) bool {
	return d >= start && d <= end
}

// SchoolDayCount counts the days from start to end inclusive that are not weekend days.
func SchoolDayCount(start, end Day) int {
	var n int
	walk(start, end, func(t time.Time) {
		if wd := t.Weekday(); wd != Weekend[0] && wd != Weekend[1] {
			n++
		}
	})
	return n
}

// walk steps on instants rather than keys: the day after 9999-12-31 has no 4-digit key.
func walk(start, end Day, fn func(time.Time)) {
	from, to := ParseDay(string(start)).Time(), ParseDay(string(end)).Time()
	for t := from; !t.After(to); t = t.AddDate(0, 0, 1) {
		fn(t)
	}
}

// Range is an inclusive interval of days.
type Range struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

func NewRange(start, end interface{}) Range {
	return Range{Start: Normalize(start), End: Normalize(end)}
}

func (r Range) Contains(d Day) bool {
	return InRange(d, r.Start, r.End)
}

func (r Range) SchoolDays() int {
	return SchoolDayCount(r.Start, r.End)
}

// EachDay calls fn for every day of r in ascending order.
func (r Range) EachDay(fn func(Day)) {
	walk(r.Start, r.End, func(t time.Time) {
		fn(DayOf(t))
	})
}
