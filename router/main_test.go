package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/api"
	"github.com/sahilchouksey/go-institutions/database"
	"github.com/sahilchouksey/go-institutions/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	app    *fiber.App
	admin  string
	viewer string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := database.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := store.GetDB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "institutions-test"})
	admin, _, err := jwtManager.GenerateAccessToken(1, "root", auth.RoleAdmin)
	require.NoError(t, err)
	viewer, _, err := jwtManager.GenerateAccessToken(2, "guest", "viewer")
	require.NoError(t, err)

	app := api.NewFiber()
	SetupRoutes(app, store, jwtManager)

	return &testServer{t: t, app: app, admin: admin, viewer: viewer}
}

func (s *testServer) do(method, path, token, body string) (*http.Response, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (s *testServer) create(path, body string) map[string]interface{} {
	s.t.Helper()
	resp, env := s.do(http.MethodPost, path, s.admin, body)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, "%+v", env)

	var data map[string]interface{}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello!", string(body))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}

func TestInstitutionDetail(t *testing.T) {
	s := newTestServer(t)
	parent := s.create("/api/v1/institutions", `{"name":"Johns Hopkins University","short_name":"JHU"}`)
	child := s.create("/api/v1/institutions", `{"name":"School of Medicine","short_name":"SOM","parent_id":1}`)
	assert.Equal(t, "Johns Hopkins University", parent["display"])

	resp, env := s.do(http.MethodGet, "/2", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "School of Medicine, Johns Hopkins University", data["display"])
	assert.Equal(t, child["id"], data["id"])

	// Trailing slash is accepted.
	resp, _ = s.do(http.MethodGet, "/2/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = s.do(http.MethodGet, "/99", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, _ = s.do(http.MethodGet, "/abc", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWritesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"Grant"}`

	resp, _ := s.do(http.MethodPost, "/api/v1/funding-types", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/api/v1/funding-types", "not-a-token", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/api/v1/funding-types", s.viewer, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/api/v1/funding-types", s.admin, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Reads stay public.
	resp, _ = s.do(http.MethodGet, "/api/v1/funding-types", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/v1/leadership-titles", `{"title":"Principal Investigator"}`)

	resp, env := s.do(http.MethodPost, "/api/v1/leadership-titles", s.admin, `{"title":"Principal Investigator"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "title")

	resp, _ = s.do(http.MethodPost, "/api/v1/leadership-titles", s.admin, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	s.create("/api/v1/institutions", `{"name":"Root","short_name":"R"}`)
	s.create("/api/v1/institutions", `{"name":"Leaf","short_name":"L","parent_id":1}`)

	resp, env = s.do(http.MethodDelete, "/api/v1/institutions/1", s.admin, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REFERENCED", env.Error.Code)

	resp, _ = s.do(http.MethodDelete, "/api/v1/institutions/42", s.admin, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodDelete, "/api/v1/institutions/2", s.admin, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOrderingEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/v1/institutions", `{"name":"A","short_name":"A"}`)
	s.create("/api/v1/institutions", `{"name":"B","short_name":"B"}`)

	resp, env := s.do(http.MethodGet, "/api/v1/institutions/order", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"order":[1,2]}`, string(env.Data))

	resp, _ = s.do(http.MethodPut, "/api/v1/institutions/order", s.admin, `{"order":[2,1]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = s.do(http.MethodGet, "/api/v1/institutions/order", "", "")
	assert.JSONEq(t, `{"order":[2,1]}`, string(env.Data))

	_, env = s.do(http.MethodGet, "/api/v1/institutions/1/neighbors", "", "")
	assert.JSONEq(t, `{"previous_id":2,"next_id":null}`, string(env.Data))

	resp, env = s.do(http.MethodPut, "/api/v1/institutions/order", s.admin, `{"order":[1]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Error.Fields, "order")

	resp, _ = s.do(http.MethodGet, "/api/v1/institutions/9/departments/order", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWorkgroupAndFundingDisplay(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/v1/users", `{"username":"jdoe","email":"jdoe@example.edu"}`)
	s.create("/api/v1/institutions", `{"name":"X University","short_name":"X"}`)
	s.create("/api/v1/institutions", `{"name":"Y University","short_name":"Y"}`)
	s.create("/api/v1/departments", `{"institution_id":1,"chair_id":1,"name":"Physics","abbreviation":"PHYS"}`)
	s.create("/api/v1/programs", `{"institution_id":2,"chair_id":1,"name":"Optics","abbreviation":"OPT"}`)
	s.create("/api/v1/leadership-titles", `{"title":"Director"}`)

	wg := s.create("/api/v1/workgroups", `{"department_id":1,"program_ids":[1],"lead_id":1,"lead_title_id":1,"name":"Laser Lab","location":"Room 9"}`)
	assert.Equal(t, "Laser Lab, X/Y", wg["display"])

	s.create("/api/v1/funding-types", `{"name":"Grant"}`)
	award := s.create("/api/v1/fundings", `{"awarded_to_id":1,"funding_type_id":1,"funding_source":"NIH","name":"Study","short_name":"R01","number":"N/A","dept_id":"AS12345","start_date":"2020-01-01","end_date":"2021-06-30"}`)
	assert.Equal(t, "AS12345- (R01 Grant, jdoe)", award["display"])

	resp, env := s.do(http.MethodGet, "/api/v1/fundings?awarded_to_id=1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)

	resp, _ = s.do(http.MethodGet, "/api/v1/fundings?awarded_to_id=x", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminWritesAreAudited(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/v1/institutions", `{"name":"Johns Hopkins University","short_name":"JHU"}`)

	// Rejected writes are not recorded.
	resp, _ := s.do(http.MethodPost, "/api/v1/institutions", s.admin, `{"name":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = s.do(http.MethodDelete, "/api/v1/institutions/1", s.admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/audit-logs", s.viewer, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := s.do(http.MethodGet, "/api/v1/audit-logs?resource=institutions", s.admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logs []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs, 2)

	actions := []interface{}{logs[0]["action"], logs[1]["action"]}
	assert.ElementsMatch(t, []interface{}{"create", "delete"}, actions)
	for _, entry := range logs {
		assert.Equal(t, "root", entry["admin_username"])
		assert.Equal(t, "institutions", entry["resource"])
	}

	resp, env = s.do(http.MethodGet, "/api/v1/audit-logs/99", s.admin, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestAuditLogRecordsCreatedID(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/v1/funding-types", `{"name":"Grant"}`)

	resp, env := s.do(http.MethodGet, "/api/v1/audit-logs/1", s.admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, "create", entry["action"])
	assert.Equal(t, "funding-types", entry["resource"])
	assert.EqualValues(t, 1, entry["resource_id"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.Equal(t, map[string]interface{}{"name": "Grant"}, entry["new_value"])
}

func TestFundingRoundTripsThroughUpdate(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/v1/users", `{"username":"jdoe","email":"jdoe@example.edu"}`)
	s.create("/api/v1/funding-types", `{"name":"Grant"}`)
	s.create("/api/v1/fundings", `{"awarded_to_id":1,"funding_type_id":1,"funding_source":"NIH","name":"Study","short_name":"R01","number":"N/A","dept_id":"AS12345","start_date":"2020-01-01","end_date":"2021-06-30"}`)

	resp, env := s.do(http.MethodGet, "/api/v1/fundings/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var read map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &read))
	assert.Equal(t, "2020-01-01", read["start_date"])
	assert.Equal(t, "2021-06-30", read["end_date"])

	// Sending back exactly what was read is a no-op update.
	resp, env = s.do(http.MethodPut, "/api/v1/fundings/1", s.admin, string(env.Data))
	require.Equal(t, http.StatusOK, resp.StatusCode, "%+v", env.Error)
	var written map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &written))
	assert.Equal(t, "2020-01-01", written["start_date"])
	assert.Equal(t, "2021-06-30", written["end_date"])
	assert.Equal(t, read["display"], written["display"])
}
