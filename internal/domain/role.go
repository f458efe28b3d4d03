package domain

import "strings"

// Role represents a caller's resolved access level.
type Role string

const (
	// RoleAdmin may manage expenses and members in addition to everything
	// RoleUser may do.
	RoleAdmin Role = "ADMIN"

	// RoleUser may view expenses and balances and record payments.
	RoleUser Role = "USER"
)

// Action is a capability gated by the access policy.
type Action string

const (
	ActionCreateExpense Action = "createExpense"
	ActionEditExpense   Action = "editExpense"
	ActionDeleteExpense Action = "deleteExpense"
	ActionCreateMember  Action = "createMember"
	ActionChangeRole    Action = "changeRole"
	ActionRecordPayment Action = "recordPayment"
	ActionViewExpenses  Action = "viewExpenses"
	ActionViewBalances  Action = "viewBalances"
)

var adminOnly = map[Action]bool{
	ActionCreateExpense: true,
	ActionEditExpense:   true,
	ActionDeleteExpense: true,
	ActionCreateMember:  true,
	ActionChangeRole:    true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Can reports whether the role may perform the action. The check is a pure
// lookup evaluated per request; decisions are never cached across role
// changes.
func (r Role) Can(action Action) bool {
	if !r.IsValid() {
		return false
	}

	if adminOnly[action] {
		return r == RoleAdmin
	}

	return true
}

// NormalizeRole resolves the raw role claim carried in a token into a typed
// Role. Upstream tokens are inconsistent: the claim may be a scalar string,
// an array of strings, or an object with an "authority" field, with or
// without a "ROLE_" prefix and in any case. Anything unrecognized resolves
// to RoleUser. Normalization happens exactly once, at session establishment;
// downstream code never re-parses raw claims.
func NormalizeRole(raw any) Role {
	value := raw
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return RoleUser
		}
		value = list[0]
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case map[string]any:
		s, _ = v["authority"].(string)
	default:
		return RoleUser
	}

	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")

	if role := Role(s); role.IsValid() {
		return role
	}

	return RoleUser
}
