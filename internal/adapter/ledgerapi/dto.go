package ledgerapi

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
)

// Wire types for the upstream expense-ledger API. The upstream uses numeric
// ids and bare JSON numbers for amounts; both are normalized here so nothing
// outside this package sees the wire shapes.

type wireMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type wireExpense struct {
	ID                int64            `json:"id"`
	Member            wireMember       `json:"member"`
	Description       string           `json:"description"`
	Amount            decimal.Decimal  `json:"amount"`
	Date              string           `json:"date"`
	ClearedAmount     decimal.Decimal  `json:"clearedAmount"`
	Cleared           bool             `json:"cleared"`
	ClearedBy         *wireMember      `json:"clearedBy"`
	ClearedAt         *time.Time       `json:"clearedAt"`
	LastClearedAmount *decimal.Decimal `json:"lastClearedAmount"`
	LastClearedBy     *wireMember      `json:"lastClearedBy"`
	LastClearedAt     *time.Time       `json:"lastClearedAt"`
}

type wirePayment struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	ClearedBy wireMember      `json:"clearedBy"`
}

type wireBalance struct {
	Total     decimal.Decimal `json:"total"`
	Cleared   decimal.Decimal `json:"cleared"`
	Remaining decimal.Decimal `json:"remaining"`
}

type wireExpenseDraft struct {
	MemberID    int64           `json:"memberId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

type wireCreateMember struct {
	Name string `json:"name"`
}

type wireError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

const dateLayout = "2006-01-02"

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (m *wireMember) toDomain() domain.Member {
	return domain.Member{ID: formatID(m.ID), Name: m.Name}
}

func memberPtr(m *wireMember) *domain.Member {
	if m == nil {
		return nil
	}
	member := m.toDomain()
	return &member
}

func (e *wireExpense) toDomain() (*domain.Expense, error) {
	date, err := parseDate(e.Date)
	if err != nil {
		return nil, err
	}

	return &domain.Expense{
		ID:                formatID(e.ID),
		Member:            e.Member.toDomain(),
		Description:       e.Description,
		Amount:            e.Amount,
		Date:              date,
		ClearedAmount:     e.ClearedAmount,
		Cleared:           e.Cleared,
		ClearedBy:         memberPtr(e.ClearedBy),
		ClearedAt:         e.ClearedAt,
		LastClearedAmount: e.LastClearedAmount,
		LastClearedBy:     memberPtr(e.LastClearedBy),
		LastClearedAt:     e.LastClearedAt,
	}, nil
}

func (p *wirePayment) toDomain(expenseID string) *domain.Payment {
	return &domain.Payment{
		ID:         formatID(p.ID),
		ExpenseID:  expenseID,
		Member:     p.ClearedBy.toDomain(),
		Amount:     p.Amount,
		RecordedAt: p.Timestamp,
	}
}

func draftToWire(draft domain.ExpenseDraft) (wireExpenseDraft, error) {
	memberID, err := strconv.ParseInt(draft.MemberID, 10, 64)
	if err != nil {
		return wireExpenseDraft{}, domain.ErrMemberNotFound
	}

	return wireExpenseDraft{
		MemberID:    memberID,
		Description: draft.Description,
		Amount:      draft.Amount,
		Date:        draft.Date.Format(dateLayout),
	}, nil
}

// parseDate accepts both the date-only and full timestamp forms the
// upstream has been observed to emit.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
