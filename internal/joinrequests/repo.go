package joinrequests

import (
	"context"
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes stable join request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListRequestingUsers(ctx context.Context, stableID int) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN stable_join_requests jr ON jr.user_id = users.id").
		Where("jr.stable_id = ?", stableID).
		Order("jr.id").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListRequestedStables(ctx context.Context, userID int) ([]models.Stable, error) {
	var rows []models.Stable
	err := r.db.WithContext(ctx).
		Model(&models.Stable{}).
		Joins("JOIN stable_join_requests jr ON jr.stable_id = stables.id").
		Where("jr.user_id = ?", userID).
		Order("jr.id").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) IsMember(ctx context.Context, userID, stableID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserStable{}).
		Where("user_id = ? AND stable_id = ?", userID, stableID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Exists(ctx context.Context, userID, stableID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StableJoinRequest{}).
		Where("user_id = ? AND stable_id = ?", userID, stableID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(ctx context.Context, userID, stableID int) error {
	return r.db.WithContext(ctx).Create(&models.StableJoinRequest{UserID: userID, StableID: stableID}).Error
}

// Delete removes the request inside tx when tx is non-nil.
func (r *Repository) Delete(ctx context.Context, tx *gorm.DB, userID, stableID int) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	res := conn.WithContext(ctx).
		Where("user_id = ? AND stable_id = ?", userID, stableID).
		Delete(&models.StableJoinRequest{})
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
		Delete(&models.StableJoinRequest{})
	return res.RowsAffected, res.Error
}
