package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/tests"
)

func TestEngine_RegionStats(t *testing.T) {
	eng, _, _ := newEngine(t, testutil.Fixture())

	t.Run("joins through city", func(t *testing.T) {
		got := eng.RegionStats(1, testutil.Week)
		assert.Equal(t, 1, got.RegionID)
		assert.Equal(t, 4, got.Students)
		assert.Equal(t, 3, got.Attendance)
		assert.Equal(t, 1, got.Late)
		assert.Equal(t, 0, got.Absence)
		assert.Equal(t, "150", got.Penalties.String())
		assert.Equal(t, 1, got.Rewards)
		assert.Equal(t, 20, got.PossibleAttendance)
		assert.Equal(t, 15, got.AttendanceRate)
	})

	t.Run("school region id disagrees with its city", func(t *testing.T) {
		// school 3 says region 1 but Jeddah is in region 2
		got := eng.RegionStats(2, testutil.Week)
		assert.Equal(t, 1, got.Students)
		assert.Equal(t, 1, got.Attendance)
		assert.Equal(t, 1, got.Absence)
		assert.Equal(t, 1, got.Rewards)
		assert.Equal(t, 5, got.PossibleAttendance)
		assert.Equal(t, 20, got.AttendanceRate)
	})

	t.Run("no students", func(t *testing.T) {
		got := eng.RegionStats(3, testutil.Week)
		assert.Equal(t, 3, got.RegionID)
		assert.Zero(t, got.Students)
		assert.Zero(t, got.Attendance)
		assert.Zero(t, got.PossibleAttendance)
		assert.Zero(t, got.AttendanceRate)
		assert.True(t, got.Penalties.IsZero())
	})

	t.Run("unknown region", func(t *testing.T) {
		got := eng.RegionStats(42, testutil.Week)
		assert.Zero(t, got.Students)
	})
}

func TestEngine_DailyStats(t *testing.T) {
	eng, _, _ := newEngine(t, testutil.Fixture())

	days := eng.DailyStats(1, testutil.Week)
	require.Len(t, days, 5)

	wantDates := []calendar.Day{"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09"}
	wantRates := []int{100, 75, 100, 100, 100}
	for i, d := range days {
		assert.Equal(t, wantDates[i], d.Date)
		assert.Equal(t, calendar.HijriLabel(d.Date), d.Label)
		assert.Equal(t, wantRates[i], d.AttendanceRate, "rate on %s", d.Date)
	}

	assert.Equal(t, 1, days[1].Attendance)
	assert.Equal(t, 1, days[1].Late)
	assert.Equal(t, "50", days[1].Penalties.String())
	assert.Equal(t, 1, days[2].Attendance)
	assert.Equal(t, 1, days[2].Rewards)
	assert.Equal(t, "100", days[3].Penalties.String())
	assert.Zero(t, days[4].Rewards)
}

func TestEngine_DailyStats_Clamped(t *testing.T) {
	// the only student is both late and absent on the 6th
	eng, _, _ := newEngine(t, singleStudent())

	days := eng.DailyStats(1, calendar.Range{Start: "2025-01-05", End: "2025-01-06"})
	require.Len(t, days, 2)
	assert.Equal(t, 100, days[0].AttendanceRate)
	assert.Equal(t, 0, days[1].AttendanceRate)
}

func TestEngine_DailyStats_EmptyRegion(t *testing.T) {
	eng, _, _ := newEngine(t, testutil.Fixture())

	days := eng.DailyStats(3, testutil.Week)
	require.Len(t, days, 5)
	for _, d := range days {
		assert.Zero(t, d.AttendanceRate)
	}
	assert.Empty(t, eng.DailyStats(1, calendar.Range{Start: "2025-01-09", End: "2025-01-05"}))
}
