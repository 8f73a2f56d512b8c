package dataset

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Snapshot holds every collection of the dashboard, keyed the same way as its JSON form.
type Snapshot struct {
	Regions           []Region           `json:"regions"`
	Cities            []City             `json:"cities"`
	Areas             []Area             `json:"areas"`
	Schools           []School           `json:"schools"`
	Students          []Student          `json:"students"`
	Parents           []Parent           `json:"parents"`
	ParentStudents    []ParentStudentRel `json:"parent_students"`
	Absences          []Absence          `json:"absences"`
	Attendance        []AttendanceRecord `json:"attendance"`
	Penalties         []ParentPenalty    `json:"penalties"`
	Rewards           []Reward           `json:"rewards"`
	Excuses           []Excuse           `json:"excuses"`
	ExcuseAttachments []ExcuseAttachment `json:"excuseAttachments"`
	ExcuseReasons     []ExcuseReason     `json:"excuseReasons"`
	EducationTypes    []EducationType    `json:"educationTypes"`
}

// UnmarshalJSON also accepts penalties under their `parentPenalties` key.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	aux := struct {
		*plain
		ParentPenalties []ParentPenalty `json:"parentPenalties"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(s.Penalties) == 0 && len(aux.ParentPenalties) > 0 {
		s.Penalties = aux.ParentPenalties
	}
	return nil
}

func Decode(r io.Reader) (*Snapshot, error) {
	snap := new(Snapshot)
	if err := json.NewDecoder(r).Decode(snap); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return snap, nil
}

// Clone returns a copy whose collections can be modified without touching s.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Regions = append([]Region(nil), s.Regions...)
	c.Cities = append([]City(nil), s.Cities...)
	c.Areas = append([]Area(nil), s.Areas...)
	c.Schools = append([]School(nil), s.Schools...)
	c.Students = append([]Student(nil), s.Students...)
	c.Parents = append([]Parent(nil), s.Parents...)
	c.ParentStudents = append([]ParentStudentRel(nil), s.ParentStudents...)
	c.Absences = append([]Absence(nil), s.Absences...)
	c.Attendance = append([]AttendanceRecord(nil), s.Attendance...)
	c.Penalties = append([]ParentPenalty(nil), s.Penalties...)
	c.Rewards = append([]Reward(nil), s.Rewards...)
	c.Excuses = append([]Excuse(nil), s.Excuses...)
	c.ExcuseAttachments = append([]ExcuseAttachment(nil), s.ExcuseAttachments...)
	c.ExcuseReasons = append([]ExcuseReason(nil), s.ExcuseReasons...)
	c.EducationTypes = append([]EducationType(nil), s.EducationTypes...)
	return &c
}
