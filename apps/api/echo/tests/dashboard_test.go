package tests

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/tawajud/apps/api/echo"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
	"github.com/trezcool/tawajud/core/stats"
)

const week = "start=2025-01-05&end=2025-01-09"

func Test_dashboardApi_schools(t *testing.T) {
	e := setup(t)

	schoolIDs := func(t *testing.T, path string) []int {
		rec := e.do(http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var schools []dataset.School
		unmarchall(t, rec, &schools)
		ids := make([]int, len(schools))
		for i, s := range schools {
			ids[i] = s.ID
		}
		return ids
	}

	assert.Equal(t, []int{1, 2, 3}, schoolIDs(t, "/v1/schools"))
	assert.Equal(t, []int{1, 2}, schoolIDs(t, "/v1/schools?region=Riyadh"))
	assert.Equal(t, []int{3}, schoolIDs(t, "/v1/schools?city=%D8%AC%D8%AF%D8%A9"))
	assert.Equal(t, []int{1}, schoolIDs(t, "/v1/schools?school_name=noor&sex=male"))
	assert.Equal(t, []int{}, schoolIDs(t, "/v1/schools?region=Nonexistent+Region+Name"))

	runHTTPTests(t, e, []httpTest{
		{
			name:     "invalid criteria",
			method:   http.MethodGet,
			path:     "/v1/schools?sex=robot&ministry_number=1a",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"sex":             "sex must be Male or Female",
				"ministry_number": "ministry_number must be a valid numeric value",
			}),
		},
	})
}

func Test_dashboardApi_summary(t *testing.T) {
	t.Run("explicit range", func(t *testing.T) {
		e := setup(t)

		rec := e.do(http.MethodGet, "/v1/stats?"+week)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got StatsSummary
		unmarchall(t, rec, &got)
		assert.Equal(t, calendar.Range{Start: "2025-01-05", End: "2025-01-09"}, got.Range)
		assert.Equal(t, 3, got.Schools)
		assert.Equal(t, 5, got.Students)
		assert.Equal(t, stats.FilteredStats{Attendance: 4, Absence: 1, Late: 1}, got.Filtered)
		assert.Equal(t, 4, got.Totals.Attendance)
		assert.Equal(t, 5, got.Totals.TotalPossibleAttendances)
		assert.Equal(t, "175.5", got.Totals.Penalties.String())
		assert.Equal(t, 3, got.Totals.Rewards)
		assert.Equal(t, 5, got.CheckIns)
		assert.Equal(t, "150", got.Penalties.String())
		assert.Equal(t, 2, got.Rewards)
		assert.Equal(t, 80, got.AttendanceRate)
	})

	t.Run("filtered by region and sex", func(t *testing.T) {
		e := setup(t)

		rec := e.do(http.MethodGet, "/v1/stats?region=Riyadh&sex=Female&"+week)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got StatsSummary
		unmarchall(t, rec, &got)
		assert.Equal(t, 1, got.Schools)
		assert.Equal(t, 2, got.Students)
		assert.Equal(t, stats.FilteredStats{Late: 1}, got.Filtered)
		assert.Equal(t, 0, got.AttendanceRate)
	})

	t.Run("month tab by default", func(t *testing.T) {
		e := setup(t)

		rec := e.do(http.MethodGet, "/v1/stats")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got StatsSummary
		unmarchall(t, rec, &got)
		assert.Equal(t, calendar.Range{Start: "2025-01-01", End: "2025-01-31"}, got.Range)
	})

	t.Run("remote failure", func(t *testing.T) {
		e := setup(t)
		e.db.FailWith(records.ResourcePenalties, errors.New("connection refused"))

		rec := e.do(http.MethodGet, "/v1/stats?"+week)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got StatsSummary
		unmarchall(t, rec, &got)
		assert.True(t, got.Totals.Penalties.IsZero())
		assert.Equal(t, 1, e.logger.Count("error", "penalties"))
	})

	runHTTPTests(t, setup(t), []httpTest{
		{
			name:     "unknown tab",
			method:   http.MethodGet,
			path:     "/v1/stats?tab=Week",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"tab": "tab must be one of [Day Month Year]"}),
		},
		{
			name:     "half range",
			method:   http.MethodGet,
			path:     "/v1/stats?start=2025-01-05",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"start": "start and end go together"}),
		},
		{
			name:     "bad date",
			method:   http.MethodGet,
			path:     "/v1/stats?start=05/01/2025&end=2025-01-09",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"start": "start must be a date formatted as YYYY-MM-DD"}),
		},
	})
}

func Test_dashboardApi_groups(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodGet, "/v1/stats/groups?by=gender&"+week)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []GroupStatResponse
	unmarchall(t, rec, &got)
	assert.Equal(t, []GroupStatResponse{
		{Label: "Female", Students: 2, Attendance: 0, TotalPossible: 1, Rate: 0},
		{Label: "Male", Students: 3, Attendance: 4, TotalPossible: 4, Rate: 100},
	}, got)

	rec = e.do(http.MethodGet, "/v1/stats/groups?by=region&lang=ar&"+week)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = nil
	unmarchall(t, rec, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "الرياض", got[0].Label)
	assert.Equal(t, 4, got[0].Students)
	assert.Equal(t, "مكة المكرمة", got[1].Label)

	runHTTPTests(t, e, []httpTest{
		{
			name:     "unknown grouping",
			method:   http.MethodGet,
			path:     "/v1/stats/groups?by=class",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"by": "by must be one of [gender level school region]"}),
		},
		{
			name:     "unknown language",
			method:   http.MethodGet,
			path:     "/v1/stats/groups?lang=fr",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"lang": "lang must be one of [ar en]"}),
		},
	})
}

func Test_dashboardApi_regions(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodGet, "/v1/regions/1/stats?tab=month")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rs stats.RegionStats
	unmarchall(t, rec, &rs)
	assert.Equal(t, 4, rs.Students)
	assert.Equal(t, 4, rs.Attendance)
	assert.Equal(t, 1, rs.Absence)
	assert.Equal(t, 1, rs.Late)
	assert.Equal(t, 88, rs.PossibleAttendance)
	assert.Equal(t, 5, rs.AttendanceRate)

	rec = e.do(http.MethodGet, "/v1/regions/2/stats?"+week)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rs = stats.RegionStats{}
	unmarchall(t, rec, &rs)
	assert.Equal(t, 1, rs.Students)

	rec = e.do(http.MethodGet, "/v1/regions/1/daily?tab=Day")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var days []stats.DailyStat
	unmarchall(t, rec, &days)
	require.Len(t, days, 1)
	assert.Equal(t, calendar.Day("2025-01-09"), days[0].Date)
	assert.Equal(t, calendar.HijriLabel("2025-01-09"), days[0].Label)
	assert.Equal(t, 100, days[0].AttendanceRate)

	rec = e.do(http.MethodGet, "/v1/regions/1/daily?"+week)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	days = nil
	unmarchall(t, rec, &days)
	assert.Len(t, days, 5)

	notFound := marchallObj(t, httpErr{Error: "not found"})
	runHTTPTests(t, e, []httpTest{
		{name: "unknown region", method: http.MethodGet, path: "/v1/regions/9/stats", wantCode: http.StatusNotFound, wantData: notFound},
		{name: "bad region id", method: http.MethodGet, path: "/v1/regions/abc/daily", wantCode: http.StatusNotFound, wantData: notFound},
	})
}

func Test_dashboardApi_students(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodGet, "/v1/students/1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile StudentProfile
	unmarchall(t, rec, &profile)
	assert.Equal(t, "Ahmed", profile.NameEn)
	assert.Equal(t, "Al Noor Primary", profile.School)
	assert.Equal(t, "Riyadh", profile.Region)
	require.Len(t, profile.Parents, 1)
	assert.Equal(t, "Abdullah", profile.Parents[0].NameEn)
	assert.Len(t, profile.Penalties, 1)
	assert.Len(t, profile.Rewards, 1)

	// school 3 claims Riyadh, its city says Makkah
	rec = e.do(http.MethodGet, "/v1/students/5")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile = StudentProfile{}
	unmarchall(t, rec, &profile)
	assert.Equal(t, "Makkah", profile.Region)

	rec = e.do(http.MethodGet, "/v1/parents/1/students")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var children []dataset.Student
	unmarchall(t, rec, &children)
	require.Len(t, children, 2)
	assert.Equal(t, 1, children[0].ID)
	assert.Equal(t, 2, children[1].ID)

	notFound := marchallObj(t, httpErr{Error: "not found"})
	runHTTPTests(t, e, []httpTest{
		{name: "unknown student", method: http.MethodGet, path: "/v1/students/99", wantCode: http.StatusNotFound, wantData: notFound},
		{name: "unknown parent", method: http.MethodGet, path: "/v1/parents/99/students", wantCode: http.StatusNotFound, wantData: notFound},
		{name: "negative id", method: http.MethodGet, path: "/v1/students/-1", wantCode: http.StatusNotFound, wantData: notFound},
	})
}
