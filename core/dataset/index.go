package dataset

import (
	"github.com/trezcool/tawajud/core"
)

// Lang selects which localized name a lookup matches against. LangAny matches either.
type Lang string

const (
	LangAny Lang = ""
	LangAr  Lang = "ar"
	LangEn  Lang = "en"
)

// UnknownName is returned by name lookups for ids missing from the snapshot.
const UnknownName = "Unknown"

// Index answers lookups over a single Snapshot. It is never modified after NewIndex returns
// so it can be shared between goroutines.
type Index struct {
	snap *Snapshot

	regions  map[int]Region
	cities   map[int]City
	areas    map[int]Area
	schools  map[int]School
	students map[int]Student
	parents  map[int]Parent

	studentsOfParent map[int][]int
	parentsOfStudent map[int][]int
}

func NewIndex(snap *Snapshot) *Index {
	if snap == nil {
		snap = new(Snapshot)
	}
	ix := &Index{
		snap:             snap,
		regions:          make(map[int]Region, len(snap.Regions)),
		cities:           make(map[int]City, len(snap.Cities)),
		areas:            make(map[int]Area, len(snap.Areas)),
		schools:          make(map[int]School, len(snap.Schools)),
		students:         make(map[int]Student, len(snap.Students)),
		parents:          make(map[int]Parent, len(snap.Parents)),
		studentsOfParent: make(map[int][]int),
		parentsOfStudent: make(map[int][]int),
	}
	for _, r := range snap.Regions {
		ix.regions[r.ID] = r
	}
	for _, c := range snap.Cities {
		ix.cities[c.ID] = c
	}
	for _, a := range snap.Areas {
		ix.areas[a.ID] = a
	}
	for _, s := range snap.Schools {
		ix.schools[s.ID] = s
	}
	for _, s := range snap.Students {
		ix.students[s.ID] = s
	}
	for _, p := range snap.Parents {
		ix.parents[p.ID] = p
	}
	for _, rel := range snap.ParentStudents {
		ix.studentsOfParent[rel.ParentID] = append(ix.studentsOfParent[rel.ParentID], rel.StudentID)
		ix.parentsOfStudent[rel.StudentID] = append(ix.parentsOfStudent[rel.StudentID], rel.ParentID)
	}
	return ix
}

// Snapshot returns the collections behind ix. Callers must not modify them.
func (ix *Index) Snapshot() *Snapshot {
	return ix.snap
}

func nameMatches(name, ar, en string, lang Lang) bool {
	switch lang {
	case LangAr:
		return core.SameName(name, ar)
	case LangEn:
		return core.SameName(name, en)
	default:
		return core.SameName(name, ar) || core.SameName(name, en)
	}
}

func localized(ar, en string, lang Lang) string {
	if lang == LangAr && ar != "" {
		return ar
	}
	if en == "" {
		return ar
	}
	return en
}

// RegionIDByName does an exact, case-insensitive match on the region's localized names.
func (ix *Index) RegionIDByName(name string, lang Lang) (int, bool) {
	if core.CleanString(name) == "" {
		return 0, false
	}
	for _, r := range ix.snap.Regions {
		if nameMatches(name, r.NameAr, r.NameEn, lang) {
			return r.ID, true
		}
	}
	return 0, false
}

func (ix *Index) RegionNameByID(id int, lang Lang) string {
	if r, ok := ix.regions[id]; ok {
		return localized(r.NameAr, r.NameEn, lang)
	}
	return UnknownName
}

func (ix *Index) CityIDByName(name string, lang Lang) (int, bool) {
	if core.CleanString(name) == "" {
		return 0, false
	}
	for _, c := range ix.snap.Cities {
		if nameMatches(name, c.NameAr, c.NameEn, lang) {
			return c.ID, true
		}
	}
	return 0, false
}

func (ix *Index) CityNameByID(id int, lang Lang) string {
	if c, ok := ix.cities[id]; ok {
		return localized(c.NameAr, c.NameEn, lang)
	}
	return UnknownName
}

func (ix *Index) AreaIDByName(name string, lang Lang) (int, bool) {
	if core.CleanString(name) == "" {
		return 0, false
	}
	for _, a := range ix.snap.Areas {
		if nameMatches(name, a.NameAr, a.NameEn, lang) {
			return a.ID, true
		}
	}
	return 0, false
}

func (ix *Index) AreaNameByID(id int, lang Lang) string {
	if a, ok := ix.areas[id]; ok {
		return localized(a.NameAr, a.NameEn, lang)
	}
	return UnknownName
}

// EducationTypeIDByName only matches english names.
func (ix *Index) EducationTypeIDByName(name string) (int, bool) {
	if core.CleanString(name) == "" {
		return 0, false
	}
	for _, et := range ix.snap.EducationTypes {
		if core.SameName(name, et.NameEn) {
			return et.ID, true
		}
	}
	return 0, false
}

func (ix *Index) EducationTypeNameByID(id int) string {
	for _, et := range ix.snap.EducationTypes {
		if et.ID == id {
			return et.NameEn
		}
	}
	return UnknownName
}

func (ix *Index) Region(id int) (Region, bool) {
	r, ok := ix.regions[id]
	return r, ok
}

func (ix *Index) City(id int) (City, bool) {
	c, ok := ix.cities[id]
	return c, ok
}

func (ix *Index) Area(id int) (Area, bool) {
	a, ok := ix.areas[id]
	return a, ok
}

func (ix *Index) School(id int) (School, bool) {
	s, ok := ix.schools[id]
	return s, ok
}

func (ix *Index) Student(id int) (Student, bool) {
	s, ok := ix.students[id]
	return s, ok
}

func (ix *Index) Parent(id int) (Parent, bool) {
	p, ok := ix.parents[id]
	return p, ok
}

// StudentName returns the student's localized name or UnknownName.
func (ix *Index) StudentName(id int, lang Lang) string {
	if s, ok := ix.students[id]; ok {
		return localized(s.NameAr, s.NameEn, lang)
	}
	return UnknownName
}

// SchoolRegionID resolves a school's region through its city; city.region_id is authoritative.
func (ix *Index) SchoolRegionID(s School) (int, bool) {
	c, ok := ix.cities[s.CityID]
	if !ok {
		return 0, false
	}
	return c.RegionID, true
}

// StudentRegionID resolves a student's region through school -> city -> region.
func (ix *Index) StudentRegionID(studentID int) (int, bool) {
	st, ok := ix.students[studentID]
	if !ok {
		return 0, false
	}
	sc, ok := ix.schools[st.SchoolID]
	if !ok {
		return 0, false
	}
	return ix.SchoolRegionID(sc)
}

func (ix *Index) StudentsOfParent(parentID int) []Student {
	ids := ix.studentsOfParent[parentID]
	students := make([]Student, 0, len(ids))
	for _, id := range ids {
		if s, ok := ix.students[id]; ok {
			students = append(students, s)
		}
	}
	return students
}

func (ix *Index) ParentsOfStudent(studentID int) []Parent {
	ids := ix.parentsOfStudent[studentID]
	parents := make([]Parent, 0, len(ids))
	for _, id := range ids {
		if p, ok := ix.parents[id]; ok {
			parents = append(parents, p)
		}
	}
	return parents
}
