// Package filter narrows the school and student populations a dashboard query runs over.
package filter

import (
	"strconv"
	"strings"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/dataset"
)

// Criteria are the dashboard filters. Blank fields are skipped.
// Names may be given in either language.
type Criteria struct {
	Region         string `json:"region" query:"region"`
	City           string `json:"city" query:"city"`
	Area           string `json:"area" query:"area"`
	SchoolName     string `json:"school_name" query:"school_name"`
	SchoolType     string `json:"school_type" query:"school_type"`
	MinistryNumber string `json:"ministry_number" query:"ministry_number" validate:"omitempty,numeric"`
	Sex            string `json:"sex" query:"sex" validate:"omitempty,gender"`
}

func (c *Criteria) Clean() {
	c.Region = core.CleanString(c.Region)
	c.City = core.CleanString(c.City)
	c.Area = core.CleanString(c.Area)
	c.SchoolName = core.CleanString(c.SchoolName)
	c.SchoolType = core.CleanString(c.SchoolType)
	c.MinistryNumber = core.CleanString(c.MinistryNumber)
	c.Sex = core.CleanString(c.Sex)
}

// genderAliases maps every accepted spelling, folded, to its gender.
var genderAliases = map[string]dataset.Gender{
	"male":   dataset.GenderMale,
	"m":      dataset.GenderMale,
	"ذكر":    dataset.GenderMale,
	"ذكور":   dataset.GenderMale,
	"بنين":   dataset.GenderMale,
	"female": dataset.GenderFemale,
	"f":      dataset.GenderFemale,
	"أنثى":   dataset.GenderFemale,
	"انثى":   dataset.GenderFemale,
	"إناث":   dataset.GenderFemale,
	"بنات":   dataset.GenderFemale,
}

// ParseGender resolves an english or arabic gender label.
func ParseGender(s string) (dataset.Gender, bool) {
	g, ok := genderAliases[core.CleanString(s, true /* lower */)]
	return g, ok
}

// genderOf returns the canonical gender for a known alias, or s as given.
func genderOf(s string) string {
	if g, ok := ParseGender(s); ok {
		return string(g)
	}
	return s
}

type Engine struct {
	store dataset.Store
}

func NewEngine(store dataset.Store) *Engine {
	return &Engine{store: store}
}

// FilterSchools applies the criteria in a fixed order: region, city, area, school name,
// ministerial number, school type, sex. A region, city, area or school type that does not
// resolve to a known entity yields no schools at all.
func (eng *Engine) FilterSchools(c Criteria) []dataset.School {
	return FilterSchools(eng.store.Index(), c)
}

func FilterSchools(ix *dataset.Index, c Criteria) []dataset.School {
	c.Clean()
	schools := append([]dataset.School(nil), ix.Snapshot().Schools...)

	if c.Region != "" {
		regionID, ok := ix.RegionIDByName(c.Region, dataset.LangAny)
		if !ok {
			return []dataset.School{}
		}
		// region membership goes through the school's city
		schools = keep(schools, func(s dataset.School) bool {
			id, ok := ix.SchoolRegionID(s)
			return ok && id == regionID
		})
	}
	if c.City != "" {
		cityID, ok := ix.CityIDByName(c.City, dataset.LangAny)
		if !ok {
			return []dataset.School{}
		}
		schools = keep(schools, func(s dataset.School) bool { return s.CityID == cityID })
	}
	if c.Area != "" {
		areaID, ok := ix.AreaIDByName(c.Area, dataset.LangAny)
		if !ok {
			return []dataset.School{}
		}
		schools = keep(schools, func(s dataset.School) bool { return s.AreaID == areaID })
	}
	if c.SchoolName != "" {
		schools = keep(schools, func(s dataset.School) bool {
			return core.ContainsFold(s.NameAr, c.SchoolName) || core.ContainsFold(s.NameEn, c.SchoolName)
		})
	}
	if c.MinistryNumber != "" {
		schools = keep(schools, func(s dataset.School) bool {
			return strings.Contains(strconv.Itoa(s.MinisterialNumber), c.MinistryNumber)
		})
	}
	if c.SchoolType != "" {
		typeID, ok := ix.EducationTypeIDByName(c.SchoolType)
		if !ok {
			return []dataset.School{}
		}
		schools = keep(schools, func(s dataset.School) bool { return s.EducationTypeID == typeID })
	}
	if c.Sex != "" {
		want := genderOf(c.Sex)
		schools = keep(schools, func(s dataset.School) bool { return strings.EqualFold(string(s.GenderType), want) })
	}
	return schools
}

func keep(schools []dataset.School, pred func(dataset.School) bool) []dataset.School {
	kept := schools[:0]
	for _, s := range schools {
		if pred(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

func (eng *Engine) StudentIDsInSchools(schoolIDs []int) []int {
	return StudentIDsInSchools(eng.store.Index(), schoolIDs)
}

// StudentIDsInSchools returns the ids of every student enrolled in one of schoolIDs.
func StudentIDsInSchools(ix *dataset.Index, schoolIDs []int) []int {
	in := make(map[int]struct{}, len(schoolIDs))
	for _, id := range schoolIDs {
		in[id] = struct{}{}
	}
	ids := make([]int, 0)
	for _, st := range ix.Snapshot().Students {
		if _, ok := in[st.SchoolID]; ok {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

func (eng *Engine) FilterStudentIDsBySex(studentIDs []int, sex string) []int {
	return FilterStudentIDsBySex(eng.store.Index(), studentIDs, sex)
}

// FilterStudentIDsBySex keeps the students whose gender matches sex, ignoring case. A blank sex keeps everyone.
func FilterStudentIDsBySex(ix *dataset.Index, studentIDs []int, sex string) []int {
	sex = core.CleanString(sex)
	if sex == "" {
		return studentIDs
	}
	want := genderOf(sex)
	ids := make([]int, 0, len(studentIDs))
	for _, id := range studentIDs {
		if st, ok := ix.Student(id); ok && strings.EqualFold(string(st.Gender), want) {
			ids = append(ids, id)
		}
	}
	return ids
}

func SchoolIDs(schools []dataset.School) []int {
	ids := make([]int, len(schools))
	for i, s := range schools {
		ids[i] = s.ID
	}
	return ids
}
