package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/core/services"
	"github.com/SscSPs/class_credits_crm/internal/dto"
	"github.com/SscSPs/class_credits_crm/internal/middleware"
	"github.com/SscSPs/class_credits_crm/internal/platform/config"
	"github.com/SscSPs/class_credits_crm/internal/platform/metrics"
	"github.com/SscSPs/class_credits_crm/internal/repositories/database/memory"
)

const testSecret = "handler-secret"

// MockClientService is a mock implementation of portssvc.ClientSvcFacade
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) FindClientByPhone(ctx context.Context, phoneNumber string) (*domain.Client, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientService) ListClientTransactions(ctx context.Context, clientID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, clientID, params)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, actorID string) (*domain.Client, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, actorID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) DeleteClient(ctx context.Context, clientID string, actorID string) error {
	return m.Called(ctx, clientID, actorID).Error(0)
}

func (m *MockClientService) PurchaseCredits(ctx context.Context, clientID string, req dto.PurchaseCreditsRequest, actorID string) (*domain.Client, *domain.Transaction, error) {
	args := m.Called(ctx, clientID, req, actorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Client), args.Get(1).(*domain.Transaction), args.Error(2)
}

// MockAttendanceService is a mock implementation of portssvc.AttendanceSvcFacade
type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) GetClassSession(ctx context.Context, sessionID string) (*domain.ClassSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassSession), args.Error(1)
}

func (m *MockAttendanceService) ListClassSessionsByDate(ctx context.Context, date string) ([]domain.ClassSession, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassSession), args.Error(1)
}

func (m *MockAttendanceService) CreateClassSession(ctx context.Context, req dto.CreateClassSessionRequest, actorID string) (*domain.ClassSession, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassSession), args.Error(1)
}

func (m *MockAttendanceService) DeleteClassSession(ctx context.Context, sessionID string, actorID string) error {
	return m.Called(ctx, sessionID, actorID).Error(0)
}

func (m *MockAttendanceService) RegisterChild(ctx context.Context, sessionID string, req dto.RegisterChildRequest, actorID string) (*domain.ClassSession, error) {
	args := m.Called(ctx, sessionID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassSession), args.Error(1)
}

func (m *MockAttendanceService) MarkAttended(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.AttendanceResult, error) {
	args := m.Called(ctx, sessionID, clientID, childID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceResult), args.Error(1)
}

func (m *MockAttendanceService) CancelAttendance(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.AttendanceResult, error) {
	args := m.Called(ctx, sessionID, clientID, childID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceResult), args.Error(1)
}

func (m *MockAttendanceService) DeleteRegistration(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.ClassSession, error) {
	args := m.Called(ctx, sessionID, clientID, childID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassSession), args.Error(1)
}

// MockReconciliationService is a mock implementation of portssvc.ReconciliationSvc
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ReconcileAll(ctx context.Context, opts domain.ReconcileOptions) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func (m *MockReconciliationService) ReconcileClient(ctx context.Context, clientID string, opts domain.ReconcileOptions) (*domain.BalanceCorrection, error) {
	args := m.Called(ctx, clientID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceCorrection), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTIssuer: "test", IsProduction: true}
}

func newRouter(t *testing.T, container *portssvc.ServiceContainer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, testConfig(), container, metrics.New())
	return r
}

func authHeader(t *testing.T) string {
	t.Helper()
	token, err := middleware.IssueOperatorToken(testSecret, "test", "operator-1", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndAuth(t *testing.T) {
	r := newRouter(t, &portssvc.ServiceContainer{
		Client:         new(MockClientService),
		Attendance:     new(MockAttendanceService),
		Reconciliation: new(MockReconciliationService),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "swagger is disabled in production")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", fmt.Errorf("session s1: %w", apperrors.ErrNotFound), http.StatusNotFound, "not found"},
		{"validation", fmt.Errorf("%w: child unknown", apperrors.ErrValidation), http.StatusBadRequest, "child unknown"},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict, "already exists"},
		{"conflict", fmt.Errorf("MarkAttended failed after 3 attempts: %w", apperrors.ErrConcurrencyConflict), http.StatusConflict, "after 3 attempts"},
		{"insufficient", &apperrors.InsufficientCreditsError{ClientID: "c1", CreditsRemaining: 0}, http.StatusUnprocessableEntity, `"creditsRemaining":0`},
		{"window closed", apperrors.ErrCancellationWindowClosed, http.StatusUnprocessableEntity, "cancellation window"},
		{"store down", apperrors.NewStoreError("failed to load session", errors.New("dial tcp")), http.StatusServiceUnavailable, "Failed to mark attendance"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Failed to mark attendance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := new(MockAttendanceService)
			att.On("MarkAttended", mock.Anything, "s1", "c1", "k1", "operator-1").Return(nil, tt.err)
			r := newRouter(t, &portssvc.ServiceContainer{
				Client:         new(MockClientService),
				Attendance:     att,
				Reconciliation: new(MockReconciliationService),
			})

			w := doJSON(t, r, http.MethodPost, "/api/v1/classes/s1/registrations/c1/k1/attendance", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			att.AssertExpectations(t)
		})
	}
}

func TestServerErrorsHideDetail(t *testing.T) {
	cs := new(MockClientService)
	cs.On("ListClients", mock.Anything).Return(nil, errors.New("pq: secret detail"))
	r := newRouter(t, &portssvc.ServiceContainer{Client: cs, Attendance: new(MockAttendanceService), Reconciliation: new(MockReconciliationService)})

	w := doJSON(t, r, http.MethodGet, "/api/v1/clients", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestBindingErrors(t *testing.T) {
	r := newRouter(t, &portssvc.ServiceContainer{
		Client:         new(MockClientService),
		Attendance:     new(MockAttendanceService),
		Reconciliation: new(MockReconciliationService),
	})

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/v1/clients", map[string]any{"campaignSource": "ads"}},
		{http.MethodPost, "/api/v1/clients/c1/purchases", map[string]any{"count": 0, "amountPaid": 10}},
		{http.MethodPost, "/api/v1/clients/c1/purchases", map[string]any{"count": 2, "amountPaid": -1}},
		{http.MethodPost, "/api/v1/classes", map[string]any{"date": "01/03/2025", "time": "10:00"}},
		{http.MethodGet, "/api/v1/classes?date=tomorrow", nil},
		{http.MethodGet, "/api/v1/clients/c1/transactions?limit=1000", nil},
		{http.MethodPost, "/api/v1/classes/s1/registrations", map[string]any{"clientID": "c1"}},
		{http.MethodPatch, "/api/v1/clients/c1", map[string]any{"phoneNumber": ""}},
		{http.MethodPatch, "/api/v1/clients/c1", map[string]any{"guardians": []map[string]any{{"contact": "x"}}}},
	}
	for _, tc := range cases {
		w := doJSON(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestListClientsByPhone(t *testing.T) {
	cs := new(MockClientService)
	cs.On("FindClientByPhone", mock.Anything, "+62811000111").Return(&domain.Client{ClientID: "c1", PhoneNumber: "+62811000111"}, nil)
	cs.On("FindClientByPhone", mock.Anything, "+62811999999").Return(nil, fmt.Errorf("%w: client with phone +62811999999", apperrors.ErrNotFound))
	r := newRouter(t, &portssvc.ServiceContainer{Client: cs, Attendance: new(MockAttendanceService), Reconciliation: new(MockReconciliationService)})

	w := doJSON(t, r, http.MethodGet, "/api/v1/clients?phone=%2B62811000111", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []dto.ClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "c1", found[0].ClientID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/clients?phone=%2B62811999999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	cs.AssertExpectations(t)
	cs.AssertNotCalled(t, "ListClients", mock.Anything)
}

func TestUpdateClient(t *testing.T) {
	source := "referral"
	cs := new(MockClientService)
	cs.On("UpdateClient", mock.Anything, "c1", dto.UpdateClientRequest{CampaignSource: &source}, "operator-1").
		Return(&domain.Client{ClientID: "c1", CampaignSource: source, CreditsRemaining: 4}, nil)
	cs.On("UpdateClient", mock.Anything, "c2", mock.Anything, "operator-1").
		Return(nil, fmt.Errorf("%w: phone +1 already belongs to client c1", apperrors.ErrDuplicate))
	r := newRouter(t, &portssvc.ServiceContainer{Client: cs, Attendance: new(MockAttendanceService), Reconciliation: new(MockReconciliationService)})

	w := doJSON(t, r, http.MethodPatch, "/api/v1/clients/c1", map[string]any{"campaignSource": source})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got dto.ClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "referral", got.CampaignSource)
	assert.Equal(t, int64(4), got.CreditsRemaining)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/clients/c2", map[string]any{"phoneNumber": "+1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already belongs")
	cs.AssertExpectations(t)
}

func TestReconciliationDryRunQuery(t *testing.T) {
	rs := new(MockReconciliationService)
	rs.On("ReconcileAll", mock.Anything, domain.ReconcileOptions{DryRun: true, ActorID: "operator-1"}).
		Return(&domain.ReconciliationReport{Total: 3, Fixed: 1, DryRun: true}, nil)
	r := newRouter(t, &portssvc.ServiceContainer{Client: new(MockClientService), Attendance: new(MockAttendanceService), Reconciliation: rs})

	w := doJSON(t, r, http.MethodPost, "/api/v1/reconciliation?dryRun=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	rs.AssertExpectations(t)
}

// A full front-desk day over the HTTP surface, backed by the in-memory store.
func TestFrontDeskFlow(t *testing.T) {
	store := memory.NewStore()
	repos := portsrepo.NewRepositoryProvider(store)
	m := metrics.New()
	container := &portssvc.ServiceContainer{
		Client:         services.NewClientService(repos, services.WithMetrics(m)),
		Attendance:     services.NewAttendanceService(repos, services.WithMetrics(m)),
		Reconciliation: services.NewReconciliationService(repos, services.WithMetrics(m)),
	}
	r := newRouter(t, container)

	w := doJSON(t, r, http.MethodPost, "/api/v1/clients", dto.CreateClientRequest{
		PhoneNumber: "+62811000111",
		Children:    []dto.ChildInput{{ChildID: "k1", Name: "Ana"}, {ChildID: "k2", Name: "Ben"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var client dto.ClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &client))
	assert.Equal(t, int64(0), client.CreditsRemaining)

	w = doJSON(t, r, http.MethodPost, "/api/v1/clients", dto.CreateClientRequest{PhoneNumber: "+62811000111"})
	assert.Equal(t, http.StatusConflict, w.Code, "phone numbers are unique")

	w = doJSON(t, r, http.MethodPost, "/api/v1/clients/"+client.ClientID+"/purchases", dto.PurchaseCreditsRequest{Count: 1, AmountPaid: 150000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPatch, "/api/v1/clients/"+client.ClientID, map[string]any{"campaignSource": "flyer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &client))
	assert.Equal(t, "flyer", client.CampaignSource)
	assert.Equal(t, int64(1), client.CreditsRemaining)
	assert.Len(t, client.Children, 2, "children untouched when omitted")

	w = doJSON(t, r, http.MethodGet, "/api/v1/clients?phone=%2B62811000111", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byPhone []dto.ClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byPhone))
	require.Len(t, byPhone, 1)
	assert.Equal(t, client.ClientID, byPhone[0].ClientID)

	w = doJSON(t, r, http.MethodPost, "/api/v1/classes", dto.CreateClassSessionRequest{Date: "2025-03-01", Time: "10:00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session dto.ClassSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	regs := "/api/v1/classes/" + session.ClassSessionID + "/registrations"
	for _, child := range []string{"k1", "k2"} {
		w = doJSON(t, r, http.MethodPost, regs, dto.RegisterChildRequest{ClientID: client.ClientID, ChildID: child})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// Siblings share one debit.
	for i, child := range []string{"k1", "k2"} {
		w = doJSON(t, r, http.MethodPost, regs+"/"+client.ClientID+"/"+child+"/attendance", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var res dto.AttendanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, i == 0, res.Charged, child)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/clients/"+client.ClientID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &client))
	assert.Equal(t, int64(0), client.CreditsRemaining)

	// A second session cannot be paid for.
	w = doJSON(t, r, http.MethodPost, "/api/v1/classes", dto.CreateClassSessionRequest{Date: "2025-03-01", Time: "16:00"})
	require.Equal(t, http.StatusCreated, w.Code)
	var later dto.ClassSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &later))
	laterRegs := "/api/v1/classes/" + later.ClassSessionID + "/registrations"
	w = doJSON(t, r, http.MethodPost, laterRegs, dto.RegisterChildRequest{ClientID: client.ClientID, ChildID: "k1"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, laterRegs+"/"+client.ClientID+"/k1/attendance", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"creditsRemaining":0`)

	w = doJSON(t, r, http.MethodGet, "/api/v1/classes?date=2025-03-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var day []dto.ClassSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	require.Len(t, day, 2)
	assert.Equal(t, "10:00", day[0].Time)

	w = doJSON(t, r, http.MethodGet, "/api/v1/clients/"+client.ClientID+"/transactions?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.ListTransactionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, "DEBIT", page.Transactions[0].Kind)
	require.NotNil(t, page.NextToken)

	w = doJSON(t, r, http.MethodPost, "/api/v1/clients/"+client.ClientID+"/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var correction domain.BalanceCorrection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &correction))
	assert.False(t, correction.Changed)
}
