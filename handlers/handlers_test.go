package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/org-auth/middleware"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/services"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*services.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req services.LoginRequest) (*services.AuthResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*services.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*models.PublicUser, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrganisationService struct {
	mock.Mock
}

func (m *MockOrganisationService) ListForUser(ctx context.Context, callerID uuid.UUID) ([]*models.Organisation, error) {
	args := m.Called(ctx, callerID)
	if o := args.Get(0); o != nil {
		return o.([]*models.Organisation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganisationService) GetForMember(ctx context.Context, callerID, orgID uuid.UUID) (*models.Organisation, error) {
	args := m.Called(ctx, callerID, orgID)
	if o := args.Get(0); o != nil {
		return o.(*models.Organisation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganisationService) Create(ctx context.Context, callerID uuid.UUID, req services.CreateOrganisationRequest) (*models.Organisation, error) {
	args := m.Called(ctx, callerID, req)
	if o := args.Get(0); o != nil {
		return o.(*models.Organisation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganisationService) AddMember(ctx context.Context, callerID, orgID uuid.UUID, req services.AddMemberRequest) error {
	return m.Called(ctx, callerID, orgID, req).Error(0)
}

// envelope is the union of the response shapes used by the API
type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// newRequest builds a request with chi URL params and, when caller is not
// uuid.Nil, an authenticated user id.
func newRequest(method, target string, body *bytes.Reader, caller uuid.UUID, params map[string]string) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if caller != uuid.Nil {
		ctx = middleware.WithUserID(ctx, caller)
	}
	return req.WithContext(ctx)
}
