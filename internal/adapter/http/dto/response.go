package dto

import (
	"time"

	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/usecase"
)

type MemberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ExpenseResponse struct {
	ID          string         `json:"id"`
	Member      MemberResponse `json:"member"`
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	Date        string         `json:"date"`

	ClearedAmount string `json:"clearedAmount"`
	Remaining     string `json:"remaining"`
	Cleared       bool   `json:"cleared"`
	Status        string `json:"status"`

	ClearedBy *MemberResponse `json:"clearedBy,omitempty"`
	ClearedAt *time.Time      `json:"clearedAt,omitempty"`

	LastClearedAmount *string         `json:"lastClearedAmount,omitempty"`
	LastClearedBy     *MemberResponse `json:"lastClearedBy,omitempty"`
	LastClearedAt     *time.Time      `json:"lastClearedAt,omitempty"`
}

type PaymentResponse struct {
	ID         string         `json:"id"`
	Amount     string         `json:"amount"`
	RecordedAt time.Time      `json:"recordedAt"`
	Member     MemberResponse `json:"member"`
}

type BalanceEntry struct {
	Total     string `json:"total"`
	Cleared   string `json:"cleared"`
	Remaining string `json:"remaining"`
}

type DashboardResponse struct {
	TotalAmount    string                  `json:"totalAmount"`
	TotalCleared   string                  `json:"totalCleared"`
	TotalRemaining string                  `json:"totalRemaining"`
	ExpenseCount   int                     `json:"expenseCount"`
	RecentExpenses []ExpenseResponse       `json:"recentExpenses"`
	Balances       map[string]BalanceEntry `json:"balances"`
}

func FromMember(m *domain.Member) MemberResponse {
	return MemberResponse{ID: m.ID, Name: m.Name}
}

func memberResponsePtr(m *domain.Member) *MemberResponse {
	if m == nil {
		return nil
	}
	resp := FromMember(m)
	return &resp
}

func FromExpense(e *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:            e.ID,
		Member:        FromMember(&e.Member),
		Description:   e.Description,
		Amount:        e.Amount.String(),
		Date:          e.Date.Format(dateLayout),
		ClearedAmount: e.ClearedAmount.String(),
		Remaining:     e.Remaining().String(),
		Cleared:       e.Cleared,
		Status:        string(e.Status()),
		ClearedBy:     memberResponsePtr(e.ClearedBy),
		ClearedAt:     e.ClearedAt,
		LastClearedBy: memberResponsePtr(e.LastClearedBy),
		LastClearedAt: e.LastClearedAt,
	}
	if e.LastClearedAmount != nil {
		s := e.LastClearedAmount.String()
		resp.LastClearedAmount = &s
	}
	return resp
}

func FromExpenses(expenses []*domain.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, FromExpense(e))
	}
	return out
}

func FromPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		Amount:     p.Amount.String(),
		RecordedAt: p.RecordedAt,
		Member:     FromMember(&p.Member),
	}
}

func FromPayments(payments []*domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}

// FromBalances keys the summary by member name, mirroring the shape the
// overview screens consume.
func FromBalances(balances []*domain.MemberBalance) map[string]BalanceEntry {
	out := make(map[string]BalanceEntry, len(balances))
	for _, b := range balances {
		out[b.Member.Name] = BalanceEntry{
			Total:     b.Total.String(),
			Cleared:   b.Cleared.String(),
			Remaining: b.Remaining.String(),
		}
	}
	return out
}

func FromOverview(o *usecase.DashboardOverview) DashboardResponse {
	return DashboardResponse{
		TotalAmount:    o.TotalAmount.String(),
		TotalCleared:   o.TotalCleared.String(),
		TotalRemaining: o.TotalRemaining.String(),
		ExpenseCount:   o.ExpenseCount,
		RecentExpenses: FromExpenses(o.RecentExpenses),
		Balances:       FromBalances(o.Balances),
	}
}

func FromMembers(members []*domain.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, FromMember(m))
	}
	return out
}
