package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"gorm.io/gorm"
)

type postRepository interface {
	ListByStable(ctx context.Context, stableID int) ([]postRow, error)
	FindByID(ctx context.Context, id int) (*postRow, error)
	Create(ctx context.Context, post *models.StablePost) error
	Update(ctx context.Context, id int, title, content string, pinned bool) (int64, error)
	TogglePinned(ctx context.Context, id int) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// Service exposes stable post operations.
type Service interface {
	ListByStable(ctx context.Context, stableID int) ([]StablePostDTO, error)
	Get(ctx context.Context, id int) (*StablePostDTO, error)
	Create(ctx context.Context, input CreatePostInput) (*StablePostDTO, error)
	Update(ctx context.Context, input UpdatePostInput) error
	TogglePinned(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo postRepository
	now  func() time.Time
}

// NewService builds a post service.
func NewService(repo postRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("post repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

var errPostNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "Stable-post not found.")

func (s *service) ListByStable(ctx context.Context, stableID int) ([]StablePostDTO, error) {
	rows, err := s.repo.ListByStable(ctx, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stable posts")
	}
	out := make([]StablePostDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int) (*StablePostDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stable post")
	}
	dto := fromRow(*row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreatePostInput) (*StablePostDTO, error) {
	post := &models.StablePost{
		StableID: input.StableID,
		UserID:   input.UserID,
		Title:    input.Title,
		Content:  input.Content,
		Date:     s.now().UTC(),
		IsPinned: input.IsPinned,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, pkgdb.TranslateWriteError(err, "create stable post")
	}
	return s.Get(ctx, post.ID)
}

func (s *service) Update(ctx context.Context, input UpdatePostInput) error {
	affected, err := s.repo.Update(ctx, input.ID, input.Title, input.Content, input.IsPinned)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stable post")
	}
	if affected == 0 {
		return errPostNotFound
	}
	return nil
}

func (s *service) TogglePinned(ctx context.Context, id int) error {
	affected, err := s.repo.TogglePinned(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle pinned")
	}
	if affected == 0 {
		return errPostNotFound
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stable post")
	}
	if affected == 0 {
		return errPostNotFound
	}
	return nil
}
