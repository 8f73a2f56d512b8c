// Package stats aggregates attendance, absence, lateness, fines and rewards over a student population.
//
// Everything here reads the snapshot currently held by the store and never modifies it.
// Only AggregateForStudents talks to the remote record store.
package stats

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

type (
	// Remote is the part of the record store the aggregation reads from.
	Remote interface {
		records.PenaltyClient
		records.RewardClient
	}

	Engine struct {
		store  dataset.Store
		remote Remote
		logger core.Logger
	}

	// Totals is the result of AggregateForStudents.
	// Attendance counts IN_TIME records only; Late counts VIOLATION records.
	Totals struct {
		Students                 int             `json:"students"`
		Attendance               int             `json:"attendance"`
		Absence                  int             `json:"absence"`
		Late                     int             `json:"late"`
		TotalPossibleAttendances int             `json:"total_possible_attendances"`
		Penalties                decimal.Decimal `json:"penalties"`
		Rewards                  int             `json:"rewards"`
	}
)

func NewEngine(store dataset.Store, remote Remote, logger core.Logger) *Engine {
	return &Engine{store: store, remote: remote, logger: logger}
}

// population is a student id set.
type population map[int]struct{}

func newPopulation(ids []int) population {
	p := make(population, len(ids))
	for _, id := range ids {
		p[id] = struct{}{}
	}
	return p
}

func (p population) has(id int) bool {
	_, ok := p[id]
	return ok
}

type studentDay struct {
	studentID int
	day       calendar.Day
}

// AggregateForStudents computes the attendance figures of ids within r. TotalPossibleAttendances is
// the number of distinct (student, day) pairs among the in-range attendance records, so a day with no
// record for a student adds nothing.
//
// Penalties and Rewards come from the remote record store and are NOT filtered by r.
// A failed remote read is logged and counts as zero.
func (eng *Engine) AggregateForStudents(ctx context.Context, ids []int, r calendar.Range) Totals {
	ix := eng.store.Index()
	pop := newPopulation(ids)
	totals := Totals{Students: len(ids), Penalties: decimal.Zero}

	seen := make(map[studentDay]struct{})
	for _, rec := range ix.Snapshot().Attendance {
		day := rec.Date.Day()
		if !pop.has(rec.StudentID) || !r.Contains(day) {
			continue
		}
		switch rec.Status {
		case dataset.StatusInTime:
			totals.Attendance++
		case dataset.StatusViolation:
			totals.Late++
		}
		seen[studentDay{rec.StudentID, day}] = struct{}{}
	}
	totals.TotalPossibleAttendances = len(seen)
	totals.Absence = countAbsences(ix, pop, r)

	if len(ids) > 0 {
		totals.Penalties, totals.Rewards = eng.remoteTotals(ctx, pop)
	}
	return totals
}

func (eng *Engine) remoteTotals(ctx context.Context, pop population) (decimal.Decimal, int) {
	sum := decimal.Zero
	var rewards int

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		penalties, err := eng.remote.QueryPenalties(ctx, records.Query{})
		if err != nil {
			eng.logger.Error("stats: could not fetch penalties", err)
			return nil
		}
		for _, p := range penalties {
			if pop.has(p.StudentID) {
				sum = sum.Add(p.AmountDue)
			}
		}
		return nil
	})
	g.Go(func() error {
		rws, err := eng.remote.QueryRewards(ctx, records.Query{})
		if err != nil {
			eng.logger.Error("stats: could not fetch rewards", err)
			return nil
		}
		for _, rw := range rws {
			if pop.has(rw.StudentID) {
				rewards++
			}
		}
		return nil
	})
	_ = g.Wait()
	return sum, rewards
}

func (eng *Engine) CountAbsences(ids []int, r calendar.Range) int {
	return countAbsences(eng.store.Index(), newPopulation(ids), r)
}

func countAbsences(ix *dataset.Index, pop population, r calendar.Range) int {
	var n int
	for _, a := range ix.Snapshot().Absences {
		if pop.has(a.StudentID) && r.Contains(a.Date.Day()) {
			n++
		}
	}
	return n
}

// CountLateArrivals counts VIOLATION records.
func (eng *Engine) CountLateArrivals(ids []int, r calendar.Range) int {
	return countAttendance(eng.store.Index(), newPopulation(ids), r, func(s dataset.AttendanceStatus) bool {
		return s == dataset.StatusViolation
	})
}

// PresentEventCount counts IN_TIME records, the figure reported as "attendance" by the aggregates.
func (eng *Engine) PresentEventCount(ids []int, r calendar.Range) int {
	return countAttendance(eng.store.Index(), newPopulation(ids), r, func(s dataset.AttendanceStatus) bool {
		return s == dataset.StatusInTime
	})
}

// AllCheckInEventCount counts every attendance record, IN_TIME and VIOLATION alike.
func (eng *Engine) AllCheckInEventCount(ids []int, r calendar.Range) int {
	return countAttendance(eng.store.Index(), newPopulation(ids), r, func(dataset.AttendanceStatus) bool {
		return true
	})
}

func countAttendance(ix *dataset.Index, pop population, r calendar.Range, match func(dataset.AttendanceStatus) bool) int {
	var n int
	for _, rec := range ix.Snapshot().Attendance {
		if pop.has(rec.StudentID) && r.Contains(rec.Date.Day()) && match(rec.Status) {
			n++
		}
	}
	return n
}

// SumPenalties sums the amount due of the penalties dated within r, paid or not.
func (eng *Engine) SumPenalties(ids []int, r calendar.Range) decimal.Decimal {
	return sumPenalties(eng.store.Index(), newPopulation(ids), r)
}

func sumPenalties(ix *dataset.Index, pop population, r calendar.Range) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range ix.Snapshot().Penalties {
		if pop.has(p.StudentID) && r.Contains(p.Date.Day()) {
			sum = sum.Add(p.AmountDue)
		}
	}
	return sum
}

// CountRewards counts the rewards issued within r.
func (eng *Engine) CountRewards(ids []int, r calendar.Range) int {
	return countRewards(eng.store.Index(), newPopulation(ids), r)
}

func countRewards(ix *dataset.Index, pop population, r calendar.Range) int {
	var n int
	for _, rw := range ix.Snapshot().Rewards {
		if pop.has(rw.StudentID) && r.Contains(rw.IssuedAt.Day()) {
			n++
		}
	}
	return n
}

// Rate returns n/d as a rounded percentage, or 0 when d is not positive.
func Rate(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}
