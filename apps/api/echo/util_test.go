package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/category"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/progress"
	"github.com/trezcool/elimu/tests"
)

type testApp struct {
	*Server
	kv         *testutil.KV
	logger     *testutil.Logger
	courses    *course.Store
	ledger     *progress.Ledger
	categories *category.Registry
}

func setup(t *testing.T) *testApp {
	ctx := context.Background()
	kv := testutil.NewKV()
	logger := testutil.NewLogger()

	courses, err := course.NewStore(ctx, kv, logger)
	require.NoError(t, err)
	ledger, err := progress.NewLedger(ctx, kv, courses, logger)
	require.NoError(t, err)
	courses.Subscribe(ledger.CourseChanged)
	categories, err := category.NewRegistry(ctx, kv, logger)
	require.NoError(t, err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	course.InitValidators(validate, translator)

	conf := &core.Config{TestMode: true}
	conf.Server.DisableReqLogs = true

	srv := NewServer(&Deps{
		Conf:       conf,
		Logger:     logger,
		Courses:    courses,
		Ledger:     ledger,
		Categories: categories,
		Validate:   validate,
		Translator: translator,
	})
	return &testApp{
		Server:     srv,
		kv:         kv,
		logger:     logger,
		courses:    courses,
		ledger:     ledger,
		categories: categories,
	}
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

var errNotFound = httpErr{Error: "not found"}

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

func (app *testApp) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
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
		if rec.Body.Len() != 0 {
			t.Errorf("failed! data = %v; want empty body", rec.Body.String())
		}
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

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := app.do(method, tt.path, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func mustGet(t *testing.T, app *testApp, id int) course.Course {
	c, err := app.courses.Get(id)
	require.NoError(t, err)
	return c
}

func coursesOf(t *testing.T, app *testApp, ids ...int) []interface{} {
	res := make([]interface{}, len(ids))
	for i, id := range ids {
		res[i] = mustGet(t, app, id)
	}
	return res
}
