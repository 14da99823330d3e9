package posts

import (
	"context"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"gorm.io/gorm"
)

const postColumns = "stable_posts.*, users.first_name, users.last_name, users.profile_picture"

// Repository exposes stable post persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.StablePost{}).
		Select(postColumns).
		Joins("JOIN users ON users.id = stable_posts.user_id")
}

// ListByStable returns pinned posts first, newest first.
func (r *Repository) ListByStable(ctx context.Context, stableID int) ([]postRow, error) {
	var rows []postRow
	err := r.withAuthor(ctx).
		Where("stable_posts.stable_id = ?", stableID).
		Order("stable_posts.is_pinned DESC, stable_posts.date DESC, stable_posts.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*postRow, error) {
	var rows []postRow
	err := r.withAuthor(ctx).
		Where("stable_posts.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StablePost{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, post *models.StablePost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *Repository) Update(ctx context.Context, id int, title, content string, pinned bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StablePost{}).
		Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content, "is_pinned": pinned})
	return res.RowsAffected, res.Error
}

// TogglePinned flips is_pinned in a single statement.
func (r *Repository) TogglePinned(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StablePost{}).
		Where("id = ?", id).
		Update("is_pinned", gorm.Expr("NOT is_pinned"))
	return res.RowsAffected, res.Error
}

// Delete removes the post; its comment links cascade.
func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.StablePost{}, id)
	return res.RowsAffected, res.Error
}
