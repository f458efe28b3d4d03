package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterhttp "github.com/iho/splitclear/internal/adapter/http"
	"github.com/iho/splitclear/internal/adapter/http/handler"
	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/infrastructure/idgen"
	"github.com/iho/splitclear/internal/infrastructure/session"
	"github.com/iho/splitclear/internal/usecase"
	"github.com/iho/splitclear/internal/usecase/mocks"
)

type stubVerifier struct {
	sessions map[string]*session.Session
}

func (v *stubVerifier) Verify(token string) (*session.Session, error) {
	s, ok := v.sessions[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return s, nil
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestServer(t *testing.T, gateway *mocks.MockLedgerGateway) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	expenses := usecase.NewExpenseUseCase(gateway, nil)
	balances := usecase.NewBalanceUseCase(gateway, nil, time.Second)
	clearing := usecase.NewClearingUseCase(gateway, nil, idgen.NewULID())
	members := usecase.NewMemberUseCase(gateway)
	dashboard := usecase.NewDashboardUseCase(expenses, balances)

	verifier := &stubVerifier{sessions: map[string]*session.Session{
		"admin-token": {UserID: "u-1", Name: "Asha", Role: domain.RoleAdmin, Token: "admin-token"},
		"user-token":  {UserID: "u-2", Name: "Ravi", Role: domain.RoleUser, Token: "user-token"},
	}}

	router := adapterhttp.NewRouter(adapterhttp.RouterDeps{
		Expenses:  handler.NewExpenseHandler(expenses, clearing, logger),
		Members:   handler.NewMemberHandler(members, logger),
		Balances:  handler.NewBalanceHandler(balances, logger),
		Dashboard: handler.NewDashboardHandler(dashboard, logger),
		Health:    handler.NewHealthHandler(map[string]handler.Pinger{"upstream": okPinger{}}),
		Verifier:  verifier,
		Logger:    logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func sampleExpense(id string, amount, cleared string) *domain.Expense {
	a := decimal.RequireFromString(amount)
	c := decimal.RequireFromString(cleared)
	return &domain.Expense{
		ID:            id,
		Member:        domain.Member{ID: "m-1", Name: "Asha"},
		Description:   "groceries",
		Amount:        a,
		Date:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ClearedAmount: c,
		Cleared:       a.Equal(c),
	}
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	srv := newTestServer(t, mocks.NewMockLedgerGateway())

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/expenses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_HealthNeedsNoToken(t *testing.T) {
	srv := newTestServer(t, mocks.NewMockLedgerGateway())

	resp := doRequest(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ListExpenses(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.ListExpensesFunc = func(ctx context.Context) ([]*domain.Expense, error) {
		return []*domain.Expense{sampleExpense("7", "120.50", "20")}, nil
	}
	srv := newTestServer(t, gateway)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/expenses", "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)

	assert.Equal(t, "7", body[0]["id"])
	assert.Equal(t, "100.5", body[0]["remaining"])
	assert.Equal(t, "PARTIALLY_CLEARED", body[0]["status"])
}

func TestRouter_ClearExpense(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	calls := 0
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		calls++
		if calls == 1 {
			return sampleExpense(id, "100", "40"), nil
		}
		return sampleExpense(id, "100", "100"), nil
	}
	gateway.ClearExpenseFunc = func(ctx context.Context, id, payer string, amount decimal.Decimal, key string) (*domain.Expense, error) {
		assert.Equal(t, "m-2", payer)
		assert.NotEmpty(t, key)
		return sampleExpense(id, "100", "100"), nil
	}
	srv := newTestServer(t, gateway)

	resp := doRequest(t, http.MethodPut, srv.URL+"/api/v1/expenses/clear/7", "user-token",
		map[string]string{"memberId": "m-2", "amount": "60"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["cleared"])
	assert.Equal(t, "CLEARED", body["status"])
}

func TestRouter_ClearExpenseOverpayment(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		return sampleExpense(id, "100", "80"), nil
	}
	gateway.ClearExpenseFunc = func(ctx context.Context, id, payer string, amount decimal.Decimal, key string) (*domain.Expense, error) {
		t.Fatal("overpayment must be rejected before the upstream call")
		return nil, nil
	}
	srv := newTestServer(t, gateway)

	resp := doRequest(t, http.MethodPut, srv.URL+"/api/v1/expenses/clear/7", "user-token",
		map[string]string{"memberId": "m-2", "amount": "30"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_CreateExpenseRequiresAdmin(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.CreateExpenseFunc = func(ctx context.Context, draft domain.ExpenseDraft) (*domain.Expense, error) {
		return sampleExpense("9", "42.50", "0"), nil
	}
	srv := newTestServer(t, gateway)

	payload := map[string]string{
		"memberId":    "m-1",
		"description": "dinner",
		"amount":      "42,50",
		"date":        "2025-03-01",
	}

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/expenses", "user-token", payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/expenses", "admin-token", payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRouter_Summary(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.MemberBalanceSummaryFunc = func(ctx context.Context) ([]*domain.MemberBalance, error) {
		return []*domain.MemberBalance{
			{
				Member:    domain.Member{ID: "m-1", Name: "Asha"},
				Total:     decimal.RequireFromString("150"),
				Cleared:   decimal.RequireFromString("40"),
				Remaining: decimal.RequireFromString("110"),
			},
		}, nil
	}
	srv := newTestServer(t, gateway)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/expenses/summary", "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "110", body["Asha"]["remaining"])
}

func TestRouter_Dashboard(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.ListExpensesFunc = func(ctx context.Context) ([]*domain.Expense, error) {
		return []*domain.Expense{sampleExpense("7", "100", "40")}, nil
	}
	srv := newTestServer(t, gateway)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/dashboard", "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "100", body["totalAmount"])
	assert.Equal(t, "60", body["totalRemaining"])
	assert.Equal(t, float64(1), body["expenseCount"])
}

func TestRouter_CreateMember(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.CreateMemberFunc = func(ctx context.Context, name string) (*domain.Member, error) {
		return &domain.Member{ID: "m-9", Name: name}, nil
	}
	srv := newTestServer(t, gateway)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/members", "admin-token",
		map[string]string{"name": "Nadia"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Nadia", body["name"])
}
