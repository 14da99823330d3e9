package enums

import (
	"fmt"
	"strconv"
	"strings"
)

// StableRole represents a member's standing within a stable. Values are stored
// as smallints: lower values carry more authority.
type StableRole int

const (
	StableRoleOwner  StableRole = 0
	StableRoleAdmin  StableRole = 1
	StableRoleMember StableRole = 2
)

var validStableRoles = []StableRole{
	StableRoleOwner,
	StableRoleAdmin,
	StableRoleMember,
}

// String implements fmt.Stringer.
func (r StableRole) String() string {
	switch r {
	case StableRoleOwner:
		return "owner"
	case StableRoleAdmin:
		return "admin"
	case StableRoleMember:
		return "member"
	default:
		return fmt.Sprintf("stable_role(%d)", int(r))
	}
}

// IsValid reports whether the value is a known StableRole.
func (r StableRole) IsValid() bool {
	for _, candidate := range validStableRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Promotable reports whether a member holding r may be promoted to owner.
func (r StableRole) Promotable() bool {
	switch r {
	case StableRoleAdmin, StableRoleMember:
		return true
	case StableRoleOwner:
		return false
	default:
		return false
	}
}

// PromotableStableRoles lists the roles eligible for owner promotion, most
// senior first.
func PromotableStableRoles() []StableRole {
	return []StableRole{StableRoleAdmin, StableRoleMember}
}

// ParseStableRole accepts either the role name or its numeric value.
func ParseStableRole(value string) (StableRole, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validStableRoles {
		if candidate.String() == trimmed {
			return candidate, nil
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if role := StableRole(n); role.IsValid() {
			return role, nil
		}
	}
	return 0, fmt.Errorf("invalid stable role %q", value)
}
