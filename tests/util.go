package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/storage/snapshot"
)

// Week is the five school days (Sunday to Thursday) most fixture records fall in.
var Week = calendar.Range{Start: "2025-01-05", End: "2025-01-09"}

// Fixture returns a small but complete snapshot:
//   - region 1 (Riyadh) has school 1 (Male, Primary: students 1, 2) and school 2 (Female, Secondary: students 3, 4)
//   - school 3 claims region 1 but its city (Jeddah) belongs to region 2; student 5 studies there
//   - region 3 (Eastern) has no schools
//
// Within Week, student 1 has three IN_TIME days, student 3 one VIOLATION day,
// student 5 one IN_TIME day and one absence.
func Fixture() *dataset.Snapshot {
	d := calendar.MustDate
	return &dataset.Snapshot{
		Regions: []dataset.Region{
			{ID: 1, NameAr: "الرياض", NameEn: "Riyadh"},
			{ID: 2, NameAr: "مكة المكرمة", NameEn: "Makkah"},
			{ID: 3, NameAr: "الشرقية", NameEn: "Eastern"},
		},
		Cities: []dataset.City{
			{ID: 1, RegionID: 1, NameAr: "الرياض", NameEn: "Riyadh City"},
			{ID: 2, RegionID: 2, NameAr: "جدة", NameEn: "Jeddah"},
			{ID: 3, RegionID: 3, NameAr: "الدمام", NameEn: "Dammam"},
		},
		Areas: []dataset.Area{
			{ID: 1, CityID: 1, NameAr: "العليا", NameEn: "Olaya"},
			{ID: 2, CityID: 1, NameAr: "الملز", NameEn: "Malaz"},
			{ID: 3, CityID: 2, NameAr: "الروضة", NameEn: "Rawdah"},
		},
		EducationTypes: []dataset.EducationType{
			{ID: 1, NameAr: "عام", NameEn: "General"},
			{ID: 2, NameAr: "تحفيظ", NameEn: "Quranic"},
		},
		Schools: []dataset.School{
			{
				ID: 1, RegionID: 1, CityID: 1, AreaID: 1, EducationTypeID: 1,
				NameAr: "مدرسة النور الابتدائية", NameEn: "Al Noor Primary",
				EducationalLevel: dataset.LevelPrimary, GenderType: dataset.GenderMale, MinisterialNumber: 10234,
			},
			{
				ID: 2, RegionID: 1, CityID: 1, AreaID: 2, EducationTypeID: 1,
				NameAr: "ثانوية الأمل", NameEn: "Al Amal Secondary",
				EducationalLevel: dataset.LevelSecondary, GenderType: dataset.GenderFemale, MinisterialNumber: 20456,
			},
			{
				ID: 3, RegionID: 1, CityID: 2, AreaID: 3, EducationTypeID: 2,
				NameAr: "متوسطة جدة", NameEn: "Jeddah Intermediate",
				EducationalLevel: dataset.LevelIntermediate, GenderType: dataset.GenderMale, MinisterialNumber: 30789,
			},
		},
		Students: []dataset.Student{
			{ID: 1, SchoolID: 1, NameAr: "أحمد", NameEn: "Ahmed", Gender: dataset.GenderMale, Class: "1A", DateOfBirth: d("2018-02-01")},
			{ID: 2, SchoolID: 1, NameAr: "خالد", NameEn: "Khalid", Gender: dataset.GenderMale, Class: "1B", DateOfBirth: d("2018-05-11")},
			{ID: 3, SchoolID: 2, NameAr: "سارة", NameEn: "Sara", Gender: dataset.GenderFemale, Class: "3A", DateOfBirth: d("2008-09-21")},
			{ID: 4, SchoolID: 2, NameAr: "نورة", NameEn: "Noura", Gender: dataset.GenderFemale, Class: "3B", DateOfBirth: d("2008-03-30")},
			{ID: 5, SchoolID: 3, NameAr: "فهد", NameEn: "Fahad", Gender: dataset.GenderMale, Class: "2A", DateOfBirth: d("2012-07-14")},
		},
		Parents: []dataset.Parent{
			{ID: 1, NameAr: "عبدالله", NameEn: "Abdullah", Phone: "0500000001"},
			{ID: 2, NameAr: "منى", NameEn: "Mona", Phone: "0500000002"},
		},
		ParentStudents: []dataset.ParentStudentRel{
			{ParentID: 1, StudentID: 1, Relationship: "father"},
			{ParentID: 1, StudentID: 2, Relationship: "father"},
			{ParentID: 2, StudentID: 3, Relationship: "mother"},
		},
		Attendance: []dataset.AttendanceRecord{
			{ID: 1, StudentID: 1, Date: d("2025-01-05"), CheckIn: "06:55", CheckOut: "13:00", Status: dataset.StatusInTime},
			{ID: 2, StudentID: 1, Date: d("2025-01-06"), CheckIn: "06:50", CheckOut: "13:00", Status: dataset.StatusInTime},
			{ID: 3, StudentID: 1, Date: d("2025-01-07 06:58:00"), CheckIn: "06:58", CheckOut: "13:00", Status: dataset.StatusInTime},
			{ID: 4, StudentID: 3, Date: d("2025-01-06"), CheckIn: "07:40", CheckOut: "13:00", Status: dataset.StatusViolation},
			{ID: 5, StudentID: 5, Date: d("2025-01-05"), CheckIn: "06:45", CheckOut: "12:30", Status: dataset.StatusInTime},
			{ID: 6, StudentID: 1, Date: d("2025-01-12"), CheckIn: "06:45", CheckOut: "12:30", Status: dataset.StatusInTime},
			{ID: 7, StudentID: 2, Date: d("2024-12-31"), CheckIn: "06:45", CheckOut: "12:30", Status: dataset.StatusInTime},
		},
		Absences: []dataset.Absence{
			{ID: 1, StudentID: 5, Date: d("2025-01-06")},
			{ID: 2, StudentID: 2, Date: d("2025-01-12")},
		},
		Penalties: []dataset.ParentPenalty{
			{ID: 1, ParentID: 1, StudentID: 1, PenaltyTypeID: 1, Date: d("2025-01-06"), AmountDue: decimal.NewFromInt(50), Paid: dataset.Unpaid},
			{ID: 2, ParentID: 1, StudentID: 2, PenaltyTypeID: 1, Date: d("2024-11-01"), AmountDue: decimal.RequireFromString("25.5"), Paid: dataset.Paid},
			{ID: 3, ParentID: 2, StudentID: 3, PenaltyTypeID: 2, Date: d("2025-01-08"), AmountDue: decimal.NewFromInt(100), Paid: dataset.Unpaid},
		},
		Rewards: []dataset.Reward{
			{ID: "r1", StudentID: 1, RewardTypeID: 1, MonthNumber: 1, Year: 2025, IssuedAt: d("2025-01-07")},
			{ID: "r2", StudentID: 3, RewardTypeID: 1, MonthNumber: 10, Year: 2024, IssuedAt: d("2024-10-10")},
			{ID: "r3", StudentID: 5, RewardTypeID: 2, MonthNumber: 1, Year: 2025, IssuedAt: d("2025-01-09")},
		},
		ExcuseReasons: []dataset.ExcuseReason{
			{ID: 1, Code: "SICK", Description: "Illness"},
			{ID: 2, Code: "FAMILY", Description: "Family emergency"},
		},
		Excuses: []dataset.Excuse{
			{ID: 1, StudentID: 2, ReasonID: 1, ExcuseDate: d("2025-01-12"), Remarks: "fever", Status: dataset.ExcusePending},
			{ID: 2, StudentID: 3, ReasonID: 2, ExcuseDate: d("2025-01-06"), Status: dataset.ExcuseApproved},
		},
		ExcuseAttachments: []dataset.ExcuseAttachment{
			{ID: 1, ExcuseID: 1, FileURL: "https://files.example.com/excuses/1.pdf"},
		},
	}
}

// NewStore returns a loaded in-memory store serving snap.
func NewStore(t *testing.T, snap *dataset.Snapshot) *snapshotstore.Store {
	t.Helper()
	store := snapshotstore.New(NewLogger(), snapshotstore.Options{Bundled: snap})
	if err := store.Load(); err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store
}

// Entry is a call recorded by Logger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records every entry instead of printing it.
type Logger struct {
	mu      sync.Mutex
	Entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return new(Logger)
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Count returns how many entries of level contain substr.
func (l *Logger) Count(level, substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.Entries {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			n++
		}
	}
	return n
}
