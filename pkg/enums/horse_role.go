package enums

import "fmt"

// HorseRole describes how a user relates to a horse.
type HorseRole int

const (
	HorseRoleOwner     HorseRole = 0
	HorseRoleRider     HorseRole = 1
	HorseRoleCaretaker HorseRole = 2
)

var validHorseRoles = []HorseRole{
	HorseRoleOwner,
	HorseRoleRider,
	HorseRoleCaretaker,
}

// String implements fmt.Stringer.
func (r HorseRole) String() string {
	switch r {
	case HorseRoleOwner:
		return "owner"
	case HorseRoleRider:
		return "rider"
	case HorseRoleCaretaker:
		return "caretaker"
	default:
		return fmt.Sprintf("horse_role(%d)", int(r))
	}
}

// IsValid reports whether the value is a known HorseRole.
func (r HorseRole) IsValid() bool {
	for _, candidate := range validHorseRoles {
		if candidate == r {
			return true
		}
	}
	return false
}
