package password

import (
	"context"
	"strings"
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists password reset requests.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req *models.PasswordResetRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *Repository) FindByToken(ctx context.Context, token string) (*models.PasswordResetRequest, error) {
	var req models.PasswordResetRequest
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.PasswordResetRequest, error) {
	var req models.PasswordResetRequest
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.PasswordResetRequest{}, id)
	return res.RowsAffected, res.Error
}

// DeleteExpired removes every request whose expiration date is at or before now.
func (r *Repository) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	res := conn.WithContext(ctx).
		Where("expiration_date <= ?", now).
		Delete(&models.PasswordResetRequest{})
	return res.RowsAffected, res.Error
}
