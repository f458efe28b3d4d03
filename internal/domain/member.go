package domain

import (
	"fmt"
	"strings"
)

// Member is a participant in the shared ledger. Members are created by an
// admin and immutable afterwards; expenses and payments reference them.
type Member struct {
	ID   string
	Name string
}

const maxMemberNameLength = 100

// ValidateMemberName validates a member display name.
func ValidateMemberName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidMemberName)
	}

	if len(name) > maxMemberNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidMemberName, maxMemberNameLength)
	}

	return nil
}
