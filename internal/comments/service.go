package comments

import (
	"context"
	"fmt"
	"time"

	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
)

type commentRepository interface {
	ListByStablePost(ctx context.Context, stablePostID int) ([]commentRow, error)
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int) (int64, error)
	CreateUserComment(ctx context.Context, userID, commentID int) (*models.UserComment, error)
	DeleteUserComment(ctx context.Context, id int) (int64, error)
	CreateStablePostComment(ctx context.Context, stablePostID, commentID int) (*models.StablePostComment, error)
	DeleteStablePostComment(ctx context.Context, id int) (int64, error)
	StablePostExists(ctx context.Context, id int) (bool, error)
}

// Service exposes comment operations.
type Service interface {
	ListByStablePost(ctx context.Context, stablePostID int) ([]CommentDTO, error)
	Create(ctx context.Context, input CreateCommentInput) (int, error)
	Delete(ctx context.Context, id int) error
	CreateUserConnection(ctx context.Context, userID, commentID int) error
	RemoveUserConnection(ctx context.Context, userCommentID int) error
	CreateStablePostConnection(ctx context.Context, stablePostID, commentID int) error
	RemoveStablePostConnection(ctx context.Context, stablePostCommentID int) error
}

type service struct {
	repo commentRepository
	now  func() time.Time
}

// NewService builds a comment service.
func NewService(repo commentRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("comment repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ListByStablePost(ctx context.Context, stablePostID int) ([]CommentDTO, error) {
	rows, err := s.repo.ListByStablePost(ctx, stablePostID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	return fromRows(rows), nil
}

func (s *service) Create(ctx context.Context, input CreateCommentInput) (int, error) {
	if input.Content == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "comment content is required")
	}
	comment := &models.Comment{CommentDate: s.now().UTC(), Content: input.Content}
	if err := s.repo.Create(ctx, comment); err != nil {
		return 0, pkgdb.TranslateWriteError(err, "create comment")
	}
	return comment.ID, nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Comment not found.")
	}
	return nil
}

func (s *service) CreateUserConnection(ctx context.Context, userID, commentID int) error {
	if _, err := s.repo.CreateUserComment(ctx, userID, commentID); err != nil {
		return pkgdb.TranslateWriteError(err, "link user to comment")
	}
	return nil
}

func (s *service) RemoveUserConnection(ctx context.Context, userCommentID int) error {
	affected, err := s.repo.DeleteUserComment(ctx, userCommentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink user from comment")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Connection between user and comment not found.")
	}
	return nil
}

func (s *service) CreateStablePostConnection(ctx context.Context, stablePostID, commentID int) error {
	exists, err := s.repo.StablePostExists(ctx, stablePostID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stable post")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Stable-post not found.")
	}
	if _, err := s.repo.CreateStablePostComment(ctx, stablePostID, commentID); err != nil {
		return pkgdb.TranslateWriteError(err, "link stable post to comment")
	}
	return nil
}

func (s *service) RemoveStablePostConnection(ctx context.Context, stablePostCommentID int) error {
	affected, err := s.repo.DeleteStablePostComment(ctx, stablePostCommentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink stable post from comment")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Connection between stable-post and comment not found.")
	}
	return nil
}
