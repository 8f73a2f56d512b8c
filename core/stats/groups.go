package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
)

var ErrUnknownGrouping = errors.New("unknown grouping")

type (
	FilteredStats struct {
		Attendance int `json:"attendance"`
		Absence    int `json:"absence"`
		Late       int `json:"late"`
	}

	GroupStat struct {
		Attendance    int `json:"attendance"`
		TotalPossible int `json:"total_possible"`
	}

	// Grouping names a way of splitting a student population into labeled groups.
	Grouping string
)

const (
	ByGender Grouping = "gender"
	ByLevel  Grouping = "level"
	BySchool Grouping = "school"
	ByRegion Grouping = "region"
)

func ParseGrouping(s string) (Grouping, error) {
	switch g := Grouping(strings.ToLower(strings.TrimSpace(s))); g {
	case ByGender, ByLevel, BySchool, ByRegion:
		return g, nil
	}
	return "", errors.Wrap(ErrUnknownGrouping, s)
}

// Rate is the rounded share of possible attendances that were IN_TIME.
func (gs GroupStat) Rate() int {
	return Rate(gs.Attendance, gs.TotalPossible)
}

// FilteredStats counts IN_TIME, VIOLATION and absence records of the students of schoolIDs within r.
func (eng *Engine) FilteredStats(schoolIDs []int, r calendar.Range) FilteredStats {
	ix := eng.store.Index()
	schools := make(map[int]struct{}, len(schoolIDs))
	for _, id := range schoolIDs {
		schools[id] = struct{}{}
	}
	pop := make(population)
	for _, st := range ix.Snapshot().Students {
		if _, ok := schools[st.SchoolID]; ok {
			pop[st.ID] = struct{}{}
		}
	}

	var stats FilteredStats
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
	return stats
}

// GroupStats computes, for each group, the IN_TIME count and the number of distinct
// (student, day) attendance records within r.
func (eng *Engine) GroupStats(groups map[string][]int, r calendar.Range) map[string]GroupStat {
	ix := eng.store.Index()
	stats := make(map[string]GroupStat, len(groups))
	for label, ids := range groups {
		pop := newPopulation(ids)
		seen := make(map[studentDay]struct{})
		var gs GroupStat
		for _, rec := range ix.Snapshot().Attendance {
			day := rec.Date.Day()
			if !pop.has(rec.StudentID) || !r.Contains(day) {
				continue
			}
			if rec.Status == dataset.StatusInTime {
				gs.Attendance++
			}
			seen[studentDay{rec.StudentID, day}] = struct{}{}
		}
		gs.TotalPossible = len(seen)
		stats[label] = gs
	}
	return stats
}

// Group splits ids by the given grouping. Labels use lang where names are localized.
func Group(ix *dataset.Index, ids []int, by Grouping, lang dataset.Lang) (map[string][]int, error) {
	switch by {
	case ByGender:
		return GroupByGender(ix, ids), nil
	case ByLevel:
		return GroupByLevel(ix, ids), nil
	case BySchool:
		return GroupBySchool(ix, ids, lang), nil
	case ByRegion:
		return GroupByRegion(ix, ids, lang), nil
	}
	return nil, errors.Wrap(ErrUnknownGrouping, string(by))
}

// GroupByGender always returns both genders, possibly empty.
func GroupByGender(ix *dataset.Index, ids []int) map[string][]int {
	groups := make(map[string][]int, len(dataset.Genders))
	for _, g := range dataset.Genders {
		groups[string(g)] = []int{}
	}
	return groupBy(ix, ids, groups, func(st dataset.Student) string {
		if st.Gender == "" {
			return dataset.UnknownName
		}
		return string(st.Gender)
	})
}

// GroupByLevel groups by the educational level of each student's school.
func GroupByLevel(ix *dataset.Index, ids []int) map[string][]int {
	groups := make(map[string][]int, len(dataset.EducationalLevels))
	for _, l := range dataset.EducationalLevels {
		groups[string(l)] = []int{}
	}
	return groupBy(ix, ids, groups, func(st dataset.Student) string {
		if sc, ok := ix.School(st.SchoolID); ok && sc.EducationalLevel != "" {
			return string(sc.EducationalLevel)
		}
		return dataset.UnknownName
	})
}

// GroupBySchool groups by school name. Schools sharing a name are told apart by their
// ministerial number, or their id when they have none.
func GroupBySchool(ix *dataset.Index, ids []int, lang dataset.Lang) map[string][]int {
	name := func(sc dataset.School) string {
		if lang == dataset.LangAr && sc.NameAr != "" {
			return sc.NameAr
		}
		if sc.NameEn != "" {
			return sc.NameEn
		}
		return sc.NameAr
	}
	schoolsNamed := make(map[string]int)
	for _, sc := range ix.Snapshot().Schools {
		schoolsNamed[name(sc)]++
	}

	return groupBy(ix, ids, make(map[string][]int), func(st dataset.Student) string {
		sc, ok := ix.School(st.SchoolID)
		if !ok {
			return dataset.UnknownName
		}
		label := name(sc)
		if schoolsNamed[label] < 2 {
			return label
		}
		if sc.MinisterialNumber != 0 {
			return fmt.Sprintf("%s (%d)", label, sc.MinisterialNumber)
		}
		return fmt.Sprintf("%s (#%d)", label, sc.ID)
	})
}

// GroupByRegion groups by the region reached through each student's school city.
func GroupByRegion(ix *dataset.Index, ids []int, lang dataset.Lang) map[string][]int {
	return groupBy(ix, ids, make(map[string][]int), func(st dataset.Student) string {
		id, ok := ix.StudentRegionID(st.ID)
		if !ok {
			return dataset.UnknownName
		}
		return ix.RegionNameByID(id, lang)
	})
}

func groupBy(ix *dataset.Index, ids []int, groups map[string][]int, label func(dataset.Student) string) map[string][]int {
	for _, id := range ids {
		st, ok := ix.Student(id)
		if !ok {
			continue
		}
		l := label(st)
		groups[l] = append(groups[l], id)
	}
	return groups
}

// Labels returns the group labels in a stable order.
func Labels(groups map[string][]int) []string {
	labels := make([]string, 0, len(groups))
	for l := range groups {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
