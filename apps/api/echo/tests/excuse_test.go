package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/excuse"
)

func Test_excuseApi_query(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodGet, "/v1/excuses")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var all []excuse.Detail
	unmarchall(t, rec, &all)
	require.Len(t, all, 2)
	assert.Equal(t, "Khalid", all[0].StudentName)
	assert.Equal(t, "Illness", all[0].Reason)
	assert.Equal(t, "https://files.example.com/excuses/1.pdf", all[0].AttachmentURL)

	rec = e.do(http.MethodGet, "/v1/excuses?student_id=3")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var byStudent []excuse.Detail
	unmarchall(t, rec, &byStudent)
	require.Len(t, byStudent, 1)
	assert.Equal(t, dataset.ExcuseApproved, byStudent[0].Status)

	rec = e.do(http.MethodGet, "/v1/excuses/reasons")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reasons []dataset.ExcuseReason
	unmarchall(t, rec, &reasons)
	assert.Len(t, reasons, 2)

	runHTTPTests(t, e, []httpTest{
		{
			name:     "unknown status",
			method:   http.MethodGet,
			path:     "/v1/excuses?status=LOST",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "status must be one of [PENDING APPROVED REJECTED]"}),
		},
		{
			name:     "pending",
			method:   http.MethodGet,
			path:     "/v1/excuses?status=PENDING",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing",
			method:   http.MethodGet,
			path:     "/v1/excuses/42",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	})
}

func Test_excuseApi_lifecycle(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/v1/excuses", marchallObj(t, excuse.NewExcuse{
		StudentID:     4,
		ReasonID:      2,
		ExcuseDate:    "2025-01-08",
		Remarks:       "travel",
		AttachmentURL: "https://files.example.com/excuses/3.pdf",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created excuse.Detail
	unmarchall(t, rec, &created)
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, dataset.ExcusePending, created.Status)
	assert.Equal(t, "Noura", created.StudentName)
	assert.False(t, created.SubmittedAt.IsZero())

	rec = e.do(http.MethodGet, "/v1/excuses/3")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var fetched excuse.Detail
	unmarchall(t, rec, &fetched)
	assert.Equal(t, "Family emergency", fetched.Reason)
	assert.Equal(t, "https://files.example.com/excuses/3.pdf", fetched.AttachmentURL)

	// approving twice is fine
	for i := 0; i < 2; i++ {
		rec = e.do(http.MethodPatch, "/v1/excuses/3/status", []byte(`{"status":"APPROVED"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated dataset.Excuse
		unmarchall(t, rec, &updated)
		assert.Equal(t, dataset.ExcuseApproved, updated.Status)
		assert.Equal(t, "Approved", updated.StatusLabelEn)
		assert.Equal(t, "مقبول", updated.StatusLabelAr)
	}

	runHTTPTests(t, e, []httpTest{
		{
			name:     "back to pending",
			method:   http.MethodPatch,
			path:     "/v1/excuses/3/status",
			body:     []byte(`{"status":"PENDING"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "status must be one of [APPROVED REJECTED]"}),
		},
		{
			name:     "missing status",
			method:   http.MethodPatch,
			path:     "/v1/excuses/3/status",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "this field is required"}),
		},
		{
			name:     "reject missing excuse",
			method:   http.MethodPatch,
			path:     "/v1/excuses/42/status",
			body:     []byte(`{"status":"REJECTED"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "incomplete excuse",
			method:   http.MethodPost,
			path:     "/v1/excuses",
			body:     []byte(`{"student_id":4,"excuse_date":"08/01/2025"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"reason_id":   "this field is required",
				"excuse_date": "excuse_date must be a date formatted as YYYY-MM-DD",
			}),
		},
		{
			name:     "unknown student",
			method:   http.MethodPost,
			path:     "/v1/excuses",
			body:     []byte(`{"student_id":99,"reason_id":1,"excuse_date":"2025-01-08"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": "student does not exist"}),
		},
	})
}
