package dataset

import (
	"fmt"
	"sort"

	"github.com/trezcool/tawajud/core/calendar"
)

type IssueKind string

const (
	IssueRegionMismatch    IssueKind = "school_region_mismatch"
	IssueAreaMismatch      IssueKind = "school_area_mismatch"
	IssueMissingCity       IssueKind = "school_missing_city"
	IssueMissingSchool     IssueKind = "student_missing_school"
	IssueMissingStudent    IssueKind = "record_missing_student"
	IssueAttendedAndAbsent IssueKind = "attended_and_absent"
)

// IntegrityIssue is a data inconsistency worth a warning. None of them stop a snapshot from loading.
type IntegrityIssue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

func (i IntegrityIssue) String() string {
	return string(i.Kind) + ": " + i.Message
}

// CheckIntegrity reports references that disagree with the region > city > area hierarchy,
// dangling references, and (student, day) pairs recorded both as attended and absent.
func (ix *Index) CheckIntegrity() []IntegrityIssue {
	var issues []IntegrityIssue
	add := func(kind IssueKind, format string, args ...interface{}) {
		issues = append(issues, IntegrityIssue{Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	for _, s := range ix.snap.Schools {
		city, ok := ix.cities[s.CityID]
		if !ok {
			add(IssueMissingCity, "school %d references unknown city %d", s.ID, s.CityID)
			continue
		}
		if s.RegionID != 0 && s.RegionID != city.RegionID {
			add(IssueRegionMismatch, "school %d has region %d but its city %d belongs to region %d",
				s.ID, s.RegionID, city.ID, city.RegionID)
		}
		if area, ok := ix.areas[s.AreaID]; ok && area.CityID != s.CityID {
			add(IssueAreaMismatch, "school %d has city %d but its area %d belongs to city %d",
				s.ID, s.CityID, area.ID, area.CityID)
		}
	}

	for _, st := range ix.snap.Students {
		if _, ok := ix.schools[st.SchoolID]; !ok {
			add(IssueMissingSchool, "student %d references unknown school %d", st.ID, st.SchoolID)
		}
	}

	missing := make(map[int]struct{})
	checkStudent := func(id int) {
		if _, ok := ix.students[id]; !ok {
			missing[id] = struct{}{}
		}
	}
	attended := make(map[studentDay]struct{}, len(ix.snap.Attendance))
	for _, a := range ix.snap.Attendance {
		checkStudent(a.StudentID)
		attended[studentDay{a.StudentID, a.Date.Day()}] = struct{}{}
	}
	for _, a := range ix.snap.Absences {
		checkStudent(a.StudentID)
		if _, ok := attended[studentDay{a.StudentID, a.Date.Day()}]; ok {
			add(IssueAttendedAndAbsent, "student %d has both an attendance and an absence record on %s",
				a.StudentID, a.Date.Day())
		}
	}
	for _, p := range ix.snap.Penalties {
		checkStudent(p.StudentID)
	}
	for _, r := range ix.snap.Rewards {
		checkStudent(r.StudentID)
	}
	for _, e := range ix.snap.Excuses {
		checkStudent(e.StudentID)
	}
	for _, id := range sortedKeys(missing) {
		add(IssueMissingStudent, "records reference unknown student %d", id)
	}
	return issues
}

type studentDay struct {
	studentID int
	day       calendar.Day
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
