package invites

import (
	"context"
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes stable invite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListInvitedUsers returns the users with a pending invite to stableID.
func (r *Repository) ListInvitedUsers(ctx context.Context, stableID int) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN stable_invites si ON si.user_id = users.id").
		Where("si.stable_id = ?", stableID).
		Order("si.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) IsMember(ctx context.Context, userID, stableID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserStable{}).
		Where("user_id = ? AND stable_id = ?", userID, stableID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(ctx context.Context, userID, stableID int) error {
	return r.db.WithContext(ctx).Create(&models.StableInvite{UserID: userID, StableID: stableID}).Error
}

// Delete removes the invite inside tx when tx is non-nil.
func (r *Repository) Delete(ctx context.Context, tx *gorm.DB, userID, stableID int) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	res := conn.WithContext(ctx).
		Where("user_id = ? AND stable_id = ?", userID, stableID).
		Delete(&models.StableInvite{})
	return res.RowsAffected, res.Error
}

// DeleteCreatedBefore drops entries still pending at cutoff.
func (r *Repository) DeleteCreatedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	res := conn.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.StableInvite{})
	return res.RowsAffected, res.Error
}
