package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/tawajud/apps/api/echo"
	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/excuse"
	"github.com/trezcool/tawajud/core/filter"
	"github.com/trezcool/tawajud/core/penalty"
	"github.com/trezcool/tawajud/core/reward"
	"github.com/trezcool/tawajud/core/stats"
	"github.com/trezcool/tawajud/storage/records/inmem"
	"github.com/trezcool/tawajud/storage/snapshot"
	"github.com/trezcool/tawajud/tests"
)

// now is a Friday; the Day tab resolves to 2025-01-09 and the Month tab to January 2025.
var now = time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

type env struct {
	app    *Server
	store  *snapshotstore.Store
	db     *inmemrecords.DB
	logger *testutil.Logger
}

func setup(t *testing.T) env {
	t.Helper()
	snap := testutil.Fixture()
	store := testutil.NewStore(t, snap)
	db := inmemrecords.Open(snap)
	logger := testutil.NewLogger()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	filter.InitValidators(validate, translator)

	conf := &core.Config{
		AppName:  "Tawajud",
		TestMode: true,
		Server:   core.ServerConfig{DisableReqLogs: true},
	}
	app := NewServer(conf, ServerDeps{
		Logger:     logger,
		Store:      store,
		Filter:     filter.NewEngine(store),
		Stats:      stats.NewEngine(store, db, logger),
		ExcuseSvc:  excuse.NewService(store, db, logger),
		PenaltySvc: penalty.NewService(store, db, logger),
		RewardSvc:  reward.NewService(store, db, logger),
		Validate:   validate,
		Translator: translator,
		Clock:      func() time.Time { return now },
	})
	return env{app: app, store: store, db: db, logger: logger}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func (e env) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	e.app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, e env, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(tt.method, tt.path, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
