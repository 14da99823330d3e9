package models

import (
	"time"

	"github.com/equilog/equilog-backend/pkg/enums"
)

// UserStable links a user with a stable and captures their role.
type UserStable struct {
	ID        int              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int              `gorm:"column:user_id;not null;uniqueIndex:ux_user_stables_user_stable"`
	StableID  int              `gorm:"column:stable_id;not null;uniqueIndex:ux_user_stables_user_stable"`
	Role      enums.StableRole `gorm:"column:role;type:smallint;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
