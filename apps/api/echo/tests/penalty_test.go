package tests

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
	"github.com/trezcool/tawajud/core/reward"
)

func Test_penaltyApi(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodGet, "/v1/penalties?parent_id=1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var penalties []dataset.ParentPenalty
	unmarchall(t, rec, &penalties)
	assert.Len(t, penalties, 2)

	rec = e.do(http.MethodGet, "/v1/penalties?paid=N")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	penalties = nil
	unmarchall(t, rec, &penalties)
	assert.Len(t, penalties, 2)

	rec = e.do(http.MethodPatch, "/v1/penalties/1/pay")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var paid dataset.ParentPenalty
	unmarchall(t, rec, &paid)
	assert.True(t, paid.IsPaid())

	rec = e.do(http.MethodPost, "/v1/penalties/3/settle-locally")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var settled dataset.ParentPenalty
	unmarchall(t, rec, &settled)
	assert.True(t, settled.IsPaid())
	assert.True(t, e.store.HasOverride())

	e.db.FailWith(records.ResourcePenalties, errors.New("bad gateway"))
	runHTTPTests(t, e, []httpTest{
		{
			name:     "bad paid flag",
			method:   http.MethodGet,
			path:     "/v1/penalties?paid=maybe",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"paid": "paid must be one of [Y N]"}),
		},
		{
			name:     "settle missing penalty",
			method:   http.MethodPost,
			path:     "/v1/penalties/42/settle-locally",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "remote read failure is empty",
			method:   http.MethodGet,
			path:     "/v1/penalties",
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "remote write failure",
			method:   http.MethodPatch,
			path:     "/v1/penalties/3/pay",
			wantCode: http.StatusInternalServerError,
			wantData: marchallObj(t, httpErr{Error: "Internal Server Error"}),
		},
	})
	assert.Equal(t, 1, e.logger.Count("error", "Internal Server Error"))
}

func Test_rewardApi(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/v1/rewards", marchallObj(t, reward.NewReward{StudentID: 2, RewardTypeID: 1}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var issued dataset.Reward
	unmarchall(t, rec, &issued)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, 2, issued.StudentID)

	rec = e.do(http.MethodGet, "/v1/rewards?student_id=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rewards []dataset.Reward
	unmarchall(t, rec, &rewards)
	require.Len(t, rewards, 1)
	assert.Equal(t, issued.ID, rewards[0].ID)

	runHTTPTests(t, e, []httpTest{
		{
			name:     "student required",
			method:   http.MethodGet,
			path:     "/v1/rewards",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": "this field is required"}),
		},
		{
			name:     "bad month",
			method:   http.MethodPost,
			path:     "/v1/rewards",
			body:     marchallObj(t, reward.NewReward{StudentID: 2, RewardTypeID: 1, MonthNumber: 13}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"month_number": "month_number must be 12 or less"}),
		},
	})
}
