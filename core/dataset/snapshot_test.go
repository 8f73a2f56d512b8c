package dataset_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawajud/core/calendar"
	. "github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/tests"
)

func TestDecode(t *testing.T) {
	data := `{
		"schools": [{"id": 1, "city_id": 1, "educational_level": "Primary", "gender_type": "Male", "ministerial_number": 1234}],
		"attendance": [
			{"id": 1, "student_id": 1, "date": "2025-01-05 07:01:00", "status": "IN_TIME"},
			{"id": 2, "student_id": 1, "date": "not a date", "status": "VIOLATION"}
		],
		"parentPenalties": [{"id": 1, "student_id": 1, "amount_due": "12.50", "paid": "N"}]
	}`
	snap, err := Decode(strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, snap.Attendance, 2)
	assert.Equal(t, calendar.Day("2025-01-05"), snap.Attendance[0].Date.Day())
	assert.Equal(t, calendar.Epoch, snap.Attendance[1].Date.Day())
	require.Len(t, snap.Penalties, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(snap.Penalties[0].AmountDue))
	assert.False(t, snap.Penalties[0].IsPaid())

	_, err = Decode(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestSnapshot_Clone(t *testing.T) {
	orig := testutil.Fixture()
	clone := orig.Clone()
	clone.Penalties[0].Paid = Paid
	clone.Schools = clone.Schools[:1]

	assert.Equal(t, Unpaid, orig.Penalties[0].Paid)
	assert.Len(t, orig.Schools, 3)
}

func TestExcuseStatus_IsTerminal(t *testing.T) {
	assert.False(t, ExcusePending.IsTerminal())
	assert.True(t, ExcuseApproved.IsTerminal())
	assert.True(t, ExcuseRejected.IsTerminal())
}
