package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
)

type (
	RegionStats struct {
		RegionID   int             `json:"region_id"`
		Students   int             `json:"students"`
		Attendance int             `json:"attendance"`
		Absence    int             `json:"absence"`
		Late       int             `json:"late"`
		Penalties  decimal.Decimal `json:"penalties"`
		Rewards    int             `json:"rewards"`
		// PossibleAttendance is school days in range times students.
		PossibleAttendance int `json:"possible_attendance"`
		AttendanceRate     int `json:"attendance_rate"`
	}

	DailyStat struct {
		Date           calendar.Day    `json:"date"`
		Label          string          `json:"label"`
		Attendance     int             `json:"attendance"`
		Absence        int             `json:"absence"`
		Late           int             `json:"late"`
		Penalties      decimal.Decimal `json:"penalties"`
		Rewards        int             `json:"rewards"`
		AttendanceRate int             `json:"attendance_rate"`
	}
)

// RegionStudentIDs returns the students whose school's city belongs to the region.
// School.RegionID is ignored.
func RegionStudentIDs(ix *dataset.Index, regionID int) []int {
	ids := make([]int, 0)
	for _, st := range ix.Snapshot().Students {
		if id, ok := ix.StudentRegionID(st.ID); ok && id == regionID {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

func (eng *Engine) RegionStats(regionID int, r calendar.Range) RegionStats {
	ix := eng.store.Index()
	stats := RegionStats{RegionID: regionID, Penalties: decimal.Zero}

	ids := RegionStudentIDs(ix, regionID)
	if len(ids) == 0 {
		return stats
	}
	pop := newPopulation(ids)

	stats.Students = len(ids)
	for _, rec := range ix.Snapshot().Attendance {
		if !pop.has(rec.StudentID) || !r.Contains(rec.Date.Day()) {
			continue
		}
		switch rec.Status {
		case dataset.StatusInTime:
			stats.Attendance++
		case dataset.StatusViolation:
			stats.Late++
		}
	}
	stats.Absence = countAbsences(ix, pop, r)
	stats.Penalties = sumPenalties(ix, pop, r)
	stats.Rewards = countRewards(ix, pop, r)
	stats.PossibleAttendance = r.SchoolDays() * stats.Students
	stats.AttendanceRate = Rate(stats.Attendance, stats.PossibleAttendance)
	return stats
}

// DailyStats returns one bucket per day of r, oldest first. A day's AttendanceRate is the share of the
// region's students who were neither absent nor late, clamped at zero.
func (eng *Engine) DailyStats(regionID int, r calendar.Range) []DailyStat {
	ix := eng.store.Index()
	ids := RegionStudentIDs(ix, regionID)
	pop := newPopulation(ids)

	buckets := make(map[calendar.Day]*DailyStat)
	r.EachDay(func(d calendar.Day) {
		buckets[d] = &DailyStat{Date: d, Label: calendar.HijriLabel(d), Penalties: decimal.Zero}
	})

	snap := ix.Snapshot()
	for _, a := range snap.Absences {
		if b, ok := buckets[a.Date.Day()]; ok && pop.has(a.StudentID) {
			b.Absence++
		}
	}
	for _, rec := range snap.Attendance {
		b, ok := buckets[rec.Date.Day()]
		if !ok || !pop.has(rec.StudentID) {
			continue
		}
		switch rec.Status {
		case dataset.StatusInTime:
			b.Attendance++
		case dataset.StatusViolation:
			b.Late++
		}
	}
	for _, p := range snap.Penalties {
		if b, ok := buckets[p.Date.Day()]; ok && pop.has(p.StudentID) {
			b.Penalties = b.Penalties.Add(p.AmountDue)
		}
	}
	for _, rw := range snap.Rewards {
		if b, ok := buckets[rw.IssuedAt.Day()]; ok && pop.has(rw.StudentID) {
			b.Rewards++
		}
	}

	days := make([]DailyStat, 0, len(buckets))
	for _, b := range buckets {
		present := len(ids) - b.Absence - b.Late
		if present < 0 {
			present = 0
		}
		b.AttendanceRate = Rate(present, len(ids))
		days = append(days, *b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
