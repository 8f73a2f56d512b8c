package dataset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/tawajud/core/calendar"
)

type EducationalLevel string

const (
	LevelPrimary      EducationalLevel = "Primary"
	LevelIntermediate EducationalLevel = "Intermediate"
	LevelSecondary    EducationalLevel = "Secondary"
)

var EducationalLevels = []EducationalLevel{LevelPrimary, LevelIntermediate, LevelSecondary}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

var Genders = []Gender{GenderMale, GenderFemale}

type AttendanceStatus string

const (
	StatusInTime    AttendanceStatus = "IN_TIME"
	StatusViolation AttendanceStatus = "VIOLATION"
)

type ExcuseStatus string

const (
	ExcusePending  ExcuseStatus = "PENDING"
	ExcuseApproved ExcuseStatus = "APPROVED"
	ExcuseRejected ExcuseStatus = "REJECTED"
)

func (s ExcuseStatus) IsTerminal() bool {
	return s == ExcuseApproved || s == ExcuseRejected
}

const (
	Paid   = "Y"
	Unpaid = "N"
)

type (
	Region struct {
		ID     int    `json:"id"`
		NameAr string `json:"name_ar"`
		NameEn string `json:"name_en"`
	}

	City struct {
		ID       int    `json:"id"`
		RegionID int    `json:"region_id"`
		NameAr   string `json:"name_ar"`
		NameEn   string `json:"name_en"`
	}

	Area struct {
		ID     int    `json:"id"`
		CityID int    `json:"city_id"`
		NameAr string `json:"name_ar"`
		NameEn string `json:"name_en"`
	}

	EducationType struct {
		ID     int    `json:"id"`
		NameAr string `json:"name_ar"`
		NameEn string `json:"name_en"`
	}

	School struct {
		ID                int              `json:"id"`
		RegionID          int              `json:"region_id"`
		CityID            int              `json:"city_id"`
		AreaID            int              `json:"area_id"`
		EducationTypeID   int              `json:"education_type_id"`
		NameAr            string           `json:"name_ar"`
		NameEn            string           `json:"name_en"`
		EducationalLevel  EducationalLevel `json:"educational_level"`
		GenderType        Gender           `json:"gender_type"`
		MinisterialNumber int              `json:"ministerial_number"`
		Address           string           `json:"address"`
		Latitude          float64          `json:"latitude"`
		Longitude         float64          `json:"longitude"`
	}

	Student struct {
		ID          int           `json:"id"`
		SchoolID    int           `json:"school_id"`
		NameAr      string        `json:"name_ar"`
		NameEn      string        `json:"name_en"`
		DateOfBirth calendar.Date `json:"date_of_birth"`
		Gender      Gender        `json:"gender"`
		Class       string        `json:"class"`
	}

	Parent struct {
		ID     int    `json:"id"`
		NameAr string `json:"name_ar"`
		NameEn string `json:"name_en"`
		Phone  string `json:"phone"`
		Email  string `json:"email"`
	}

	ParentStudentRel struct {
		ParentID     int    `json:"parent_id"`
		StudentID    int    `json:"student_id"`
		Relationship string `json:"relationship"`
	}

	AttendanceRecord struct {
		ID        int              `json:"id"`
		StudentID int              `json:"student_id"`
		Date      calendar.Date    `json:"date"`
		HijriDate string           `json:"hijri_date"`
		CheckIn   string           `json:"check_in"`
		CheckOut  string           `json:"check_out"`
		Status    AttendanceStatus `json:"status"`
	}

	Absence struct {
		ID        int           `json:"id"`
		StudentID int           `json:"student_id"`
		Date      calendar.Date `json:"date"`
	}

	ParentPenalty struct {
		ID            int             `json:"id"`
		ParentID      int             `json:"parent_id"`
		StudentID     int             `json:"student_id"`
		PenaltyTypeID int             `json:"penalty_type_id"`
		Date          calendar.Date   `json:"date"`
		AmountDue     decimal.Decimal `json:"amount_due"`
		Paid          string          `json:"paid"`
	}

	Reward struct {
		ID           string        `json:"id"`
		StudentID    int           `json:"student_id"`
		RewardTypeID int           `json:"reward_type_id"`
		MonthNumber  int           `json:"month_number"`
		Year         int           `json:"year"`
		IssuedAt     calendar.Date `json:"issued_at"`
	}

	Excuse struct {
		ID            int           `json:"id"`
		StudentID     int           `json:"student_id"`
		ReasonID      int           `json:"reason_id"`
		ExcuseDate    calendar.Date `json:"excuse_date"`
		SubmittedAt   time.Time     `json:"submitted_at"`
		Remarks       string        `json:"remarks"`
		Status        ExcuseStatus  `json:"status"`
		StatusLabelAr string        `json:"status_label_ar,omitempty"`
		StatusLabelEn string        `json:"status_label_en,omitempty"`
	}

	ExcuseAttachment struct {
		ID       int    `json:"id"`
		ExcuseID int    `json:"excuse_id"`
		FileURL  string `json:"file_url"`
	}

	ExcuseReason struct {
		ID          int    `json:"id"`
		Code        string `json:"code"`
		Description string `json:"description"`
	}
)

func (p ParentPenalty) IsPaid() bool {
	return p.Paid == Paid
}
