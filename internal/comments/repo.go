package comments

import (
	"context"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes comment and comment-link persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByStablePost returns the post's comments, oldest first, with their authors.
func (r *Repository) ListByStablePost(ctx context.Context, stablePostID int) ([]commentRow, error) {
	var rows []commentRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.comment_date, comments.content, users.id AS user_id, users.first_name, users.last_name, users.profile_picture").
		Joins("JOIN stable_post_comments spc ON spc.comment_id = comments.id").
		Joins("JOIN user_comments uc ON uc.comment_id = comments.id").
		Joins("JOIN users ON users.id = uc.user_id").
		Where("spc.stable_post_id = ?", stablePostID).
		Order("comments.comment_date, comments.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Delete removes the comment; its author and post links cascade.
func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	return res.RowsAffected, res.Error
}

func (r *Repository) CreateUserComment(ctx context.Context, userID, commentID int) (*models.UserComment, error) {
	row := &models.UserComment{UserID: userID, CommentID: commentID}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) DeleteUserComment(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.UserComment{}, id)
	return res.RowsAffected, res.Error
}

func (r *Repository) CreateStablePostComment(ctx context.Context, stablePostID, commentID int) (*models.StablePostComment, error) {
	row := &models.StablePostComment{StablePostID: stablePostID, CommentID: commentID}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) DeleteStablePostComment(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.StablePostComment{}, id)
	return res.RowsAffected, res.Error
}

func (r *Repository) StablePostExists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StablePost{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
