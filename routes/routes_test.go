package routes

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/org-auth/app"
	"github.com/upb/org-auth/config"
	"github.com/upb/org-auth/repositories"
	"github.com/upb/org-auth/repositories/postgres"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second},
		Auth: config.AuthConfig{
			JWTSecret:               "routes-test-secret",
			TokenTTL:                time.Hour,
			BcryptCost:              4,
			Issuer:                  "org-auth-test",
			RequireCallerMembership: true,
		},
		CORS:          config.CORSConfig{AllowedOrigins: []string{"*"}},
		Observability: config.ObservabilityConfig{LogLevel: "error", LogFormat: "json", MetricsEnabled: true},
	}
}

type testServer struct {
	*httptest.Server
	deps *app.Dependencies
	mock sqlmock.Sqlmock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zaptest.NewLogger(t)
	repos := &repositories.Repositories{
		Users:         postgres.NewUserRepository(db, logger),
		Organisations: postgres.NewOrganisationRepository(db, logger),
		Memberships:   postgres.NewMembershipRepository(db, logger),
	}
	deps := app.NewDependenciesWithRepositories(testConfig(), logger, repos, postgres.NewTransactionManager(db, logger))

	ts := httptest.NewServer(SetupRoutes(deps))
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, deps: deps, mock: mock}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

var userColumns = []string{"userid", "firstname", "lastname", "email", "password", "phone"}

func TestRegisterThenFetchSelf(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery(`WHERE email = \$1`).WithArgs("ada@example.com").WillReturnError(sql.ErrNoRows)
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "User"`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO "Organisation"`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO user_organisation`).WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	resp, body := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "s3cret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Registration successful", body["message"])

	data := body["data"].(map[string]interface{})
	token := data["accessToken"].(string)
	user := data["user"].(map[string]interface{})
	userID := user["userId"].(string)
	assert.NotContains(t, user, "password")

	s.mock.ExpectQuery(`WHERE userid = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userID, "Ada", "Lovelace", "ada@example.com", "hash", nil))

	resp, body = s.do(t, http.MethodGet, "/api/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User found", body["message"])
	assert.Equal(t, userID, body["data"].(map[string]interface{})["userId"])

	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	orgID := uuid.New().String()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/" + uuid.New().String()},
		{http.MethodGet, "/api/organisations"},
		{http.MethodGet, "/api/organisations/" + orgID},
		{http.MethodPost, "/api/organisations"},
		{http.MethodPost, "/api/organisations/" + orgID + "/users"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, body := s.do(t, tc.method, tc.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Access Denied.", body["message"])

			resp, body = s.do(t, tc.method, tc.path, "not-a-jwt", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Invalid Token", body["message"])
		})
	}
}

func TestOrganisationFlow(t *testing.T) {
	s := newTestServer(t)
	callerID := uuid.New()
	token, err := s.deps.Tokens.Issue(callerID)
	require.NoError(t, err)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "Organisation"`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO user_organisation`).WithArgs(callerID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	resp, body := s.do(t, http.MethodPost, "/api/organisations", token, map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Organisation created", body["message"])

	resp, body = s.do(t, http.MethodPost, "/api/organisations", token, map[string]string{})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].(map[string]interface{})["field"])

	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["data"].(map[string]interface{})["status"])

	resp, _ = s.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(s.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `org_auth_http_requests_total{method="GET",route="/healthz",status="200"}`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["status"])
	assert.Equal(t, float64(404), body["statusCode"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
