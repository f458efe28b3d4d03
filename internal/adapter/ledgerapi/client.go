package ledgerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/infrastructure/metrics"
	"github.com/iho/splitclear/internal/infrastructure/session"
	"github.com/iho/splitclear/internal/usecase"
)

const (
	defaultTimeout    = 10 * time.Second
	maxRetryElapsed   = 15 * time.Second
	idempotencyHeader = "Idempotency-Key"
)

// Client talks to the remote expense-ledger API. It implements
// usecase.LedgerGateway.
//
// Reads retry transient failures with exponential backoff; mutations are
// issued exactly once, the caller's idempotency key protects replays on the
// server side instead.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ usecase.LedgerGateway = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "ledgerapi").Logger(),
	}
}

func (c *Client) ListExpenses(ctx context.Context) ([]*domain.Expense, error) {
	var wire []wireExpense
	if err := c.getJSON(ctx, "list_expenses", "/api/expenses", &wire); err != nil {
		return nil, err
	}
	return expensesToDomain(wire)
}

func (c *Client) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	var wire wireExpense
	err := c.getJSON(ctx, "get_expense", "/api/expenses/"+url.PathEscape(id), &wire)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrExpenseNotFound)
	}
	return wire.toDomain()
}

func (c *Client) CreateExpense(ctx context.Context, draft domain.ExpenseDraft) (*domain.Expense, error) {
	body, err := draftToWire(draft)
	if err != nil {
		return nil, err
	}

	var wire wireExpense
	if err := c.doJSON(ctx, "create_expense", http.MethodPost, "/api/expenses", "", body, &wire); err != nil {
		return nil, asUpstream(err)
	}
	return wire.toDomain()
}

func (c *Client) UpdateExpense(ctx context.Context, id string, draft domain.ExpenseDraft) (*domain.Expense, error) {
	body, err := draftToWire(draft)
	if err != nil {
		return nil, err
	}

	var wire wireExpense
	err = c.doJSON(ctx, "update_expense", http.MethodPut, "/api/expenses/"+url.PathEscape(id), "", body, &wire)
	if err != nil {
		return nil, asUpstream(notFoundAs(err, domain.ErrExpenseNotFound))
	}
	return wire.toDomain()
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	err := c.doJSON(ctx, "delete_expense", http.MethodDelete, "/api/expenses/"+url.PathEscape(id), "", nil, nil)
	return asUpstream(notFoundAs(err, domain.ErrExpenseNotFound))
}

// ClearExpense records a payment. The upstream takes the payer and amount as
// query parameters on a PUT; a 409 means the payment no longer fits the
// remaining balance on the server's view of the expense.
func (c *Client) ClearExpense(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error) {
	q := url.Values{}
	q.Set("memberId", payerMemberID)
	q.Set("amount", amount.String())
	path := "/api/expenses/clear/" + url.PathEscape(id) + "?" + q.Encode()

	var wire wireExpense
	err := c.doJSON(ctx, "clear_expense", http.MethodPut, path, key, nil, &wire)
	if err != nil {
		if errors.Is(err, errConflict) {
			return nil, domain.ErrOverpayment
		}
		return nil, notFoundAs(err, domain.ErrExpenseNotFound)
	}
	return wire.toDomain()
}

func (c *Client) ListPayments(ctx context.Context, expenseID string) ([]*domain.Payment, error) {
	var wire []wirePayment
	err := c.getJSON(ctx, "list_payments", "/api/expenses/"+url.PathEscape(expenseID)+"/payments", &wire)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrExpenseNotFound)
	}

	payments := make([]*domain.Payment, 0, len(wire))
	for i := range wire {
		payments = append(payments, wire[i].toDomain(expenseID))
	}
	return payments, nil
}

// MemberBalanceSummary fetches the server-side aggregation. The upstream keys
// the summary by member name; names are unique there, so the name doubles as
// the member identity in the absence of an id.
func (c *Client) MemberBalanceSummary(ctx context.Context) ([]*domain.MemberBalance, error) {
	var wire map[string]wireBalance
	if err := c.getJSON(ctx, "balance_summary", "/api/expenses/summary", &wire); err != nil {
		return nil, err
	}

	members, err := c.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	idByName := make(map[string]string, len(members))
	for _, m := range members {
		idByName[m.Name] = m.ID
	}

	balances := make([]*domain.MemberBalance, 0, len(wire))
	for _, m := range members {
		b, ok := wire[m.Name]
		if !ok {
			continue
		}
		balances = append(balances, &domain.MemberBalance{
			Member:    domain.Member{ID: idByName[m.Name], Name: m.Name},
			Total:     b.Total,
			Cleared:   b.Cleared,
			Remaining: b.Remaining,
		})
	}
	return balances, nil
}

func (c *Client) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	var wire []wireMember
	if err := c.getJSON(ctx, "list_members", "/api/members", &wire); err != nil {
		return nil, err
	}

	members := make([]*domain.Member, 0, len(wire))
	for i := range wire {
		m := wire[i].toDomain()
		members = append(members, &m)
	}
	return members, nil
}

func (c *Client) CreateMember(ctx context.Context, name string) (*domain.Member, error) {
	var wire wireMember
	if err := c.doJSON(ctx, "create_member", http.MethodPost, "/api/members", "", wireCreateMember{Name: name}, &wire); err != nil {
		return nil, asUpstream(err)
	}
	m := wire.toDomain()
	return &m, nil
}

// errConflict marks a 409 (or a 400 on the clear endpoint) so ClearExpense
// can translate it without the transport layer knowing about overpayments.
var errConflict = errors.New("ledgerapi: conflict")

// getJSON issues a GET and retries transient failures.
func (c *Client) getJSON(ctx context.Context, operation, path string, out any) error {
	policy := backoff.WithContext(
		backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(maxRetryElapsed)),
		ctx,
	)

	return backoff.Retry(func() error {
		err := c.doJSON(ctx, operation, http.MethodGet, path, "", nil, out)
		if err != nil && !errors.Is(err, domain.ErrUpstream) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func (c *Client) doJSON(ctx context.Context, operation, method, path, idempotencyKey string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}
	if s, ok := session.FromContext(ctx); ok && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(operation, "error").Inc()
		c.logger.Warn().Err(err).Str("operation", operation).Msg("upstream request failed")
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.UpstreamRequests.WithLabelValues(operation, "error").Inc()
		return c.statusError(operation, resp)
	}
	metrics.UpstreamRequests.WithLabelValues(operation, "ok").Inc()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}
	return nil
}

func (c *Client) statusError(operation string, resp *http.Response) error {
	msg := upstreamMessage(resp.Body)

	logEvent := c.logger.Warn().
		Str("operation", operation).
		Int("status", resp.StatusCode)
	if msg != "" {
		logEvent = logEvent.Str("upstream_message", msg)
	}
	logEvent.Msg("upstream rejected request")

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrSessionExpired
	case http.StatusForbidden:
		return domain.ErrInsufficientRole
	case http.StatusNotFound:
		return errNotFound
	case http.StatusConflict, http.StatusBadRequest:
		return fmt.Errorf("%w: %s", errConflict, msg)
	default:
		if msg != "" {
			return fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, msg)
		}
		return fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
}

var errNotFound = errors.New("ledgerapi: not found")

// notFoundAs rewrites the transport-level not-found marker into the domain
// error for the resource the caller was addressing.
func notFoundAs(err, target error) error {
	if errors.Is(err, errNotFound) {
		return target
	}
	return err
}

// asUpstream folds a conflict that escaped the clear path into the generic
// upstream error. Only ClearExpense gives a 409 a domain meaning.
func asUpstream(err error) error {
	if errors.Is(err, errConflict) {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return err
}

func upstreamMessage(body io.Reader) string {
	var we wireError
	if err := json.NewDecoder(body).Decode(&we); err != nil {
		return ""
	}
	if we.Message != "" {
		return we.Message
	}
	return we.Error
}

func expensesToDomain(wire []wireExpense) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0, len(wire))
	for i := range wire {
		e, err := wire[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed expense %d: %v", domain.ErrUpstream, wire[i].ID, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}
