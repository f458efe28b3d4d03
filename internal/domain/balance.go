package domain

import "github.com/shopspring/decimal"

// MemberBalance aggregates total, cleared and remaining amounts across all
// expenses owned by one member. It is derived on every read and never
// persisted.
type MemberBalance struct {
	Member    Member
	Total     decimal.Decimal
	Cleared   decimal.Decimal
	Remaining decimal.Decimal
}

// AggregateBalances folds expenses into one balance per owning member.
// Output order is the order of each member's first appearance in the input;
// members without expenses do not appear at all.
func AggregateBalances(expenses []*Expense) []*MemberBalance {
	byMember := make(map[string]*MemberBalance)

	var balances []*MemberBalance
	for _, e := range expenses {
		b, ok := byMember[e.Member.ID]
		if !ok {
			b = &MemberBalance{
				Member:    e.Member,
				Total:     decimal.Zero,
				Cleared:   decimal.Zero,
				Remaining: decimal.Zero,
			}
			byMember[e.Member.ID] = b
			balances = append(balances, b)
		}

		b.Total = b.Total.Add(e.Amount)
		b.Cleared = b.Cleared.Add(e.ClearedAmount)
	}

	for _, b := range balances {
		b.Remaining = b.Total.Sub(b.Cleared)
	}

	return balances
}
