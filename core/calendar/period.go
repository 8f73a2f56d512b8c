package calendar

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Tab is a named reporting period preset.
type Tab string

const (
	TabDay   Tab = "Day"
	TabMonth Tab = "Month"
	TabYear  Tab = "Year"
)

var ErrUnknownTab = errors.New("unknown period tab")

func ParseTab(s string) (Tab, error) {
	for _, tab := range []Tab{TabDay, TabMonth, TabYear} {
		if strings.EqualFold(strings.TrimSpace(s), string(tab)) {
			return tab, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownTab, "%q", s)
}

// Period is a concrete interval of instants.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) Days() Range {
	return Range{Start: DayOf(p.Start), End: DayOf(p.End)}
}

// TabPeriod resolves tab relative to now:
//   - Day: yesterday, 00:00:00 to 23:59:59
//   - Month: the whole current month, including days after now
//   - Year: the academic year, September 1 to August 31
func TabPeriod(tab Tab, now time.Time) Period {
	loc := now.Location()
	y, m, d := now.Date()

	switch tab {
	case TabDay:
		start := time.Date(y, m, d-1, 0, 0, 0, 0, loc)
		return Period{Start: start, End: endOfDay(start)}
	case TabMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
		return Period{Start: start, End: endOfDay(last)}
	default:
		startYear := y
		if m < AcademicYearStart {
			startYear--
		}
		start := time.Date(startYear, AcademicYearStart, 1, 0, 0, 0, 0, loc)
		last := time.Date(startYear+1, AcademicYearStart, 0, 0, 0, 0, 0, loc)
		return Period{Start: start, End: endOfDay(last)}
	}
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
