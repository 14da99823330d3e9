package compositions

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/stables"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/types"
)

const (
	opCreateHorse   = "create_horse"
	opCreateStable  = "create_stable"
	opCreateComment = "create_comment"
)

// link is a dependent record created after the primary entity.
type link struct {
	between string
	create  func(ctx context.Context, primaryID int) error
}

// creation describes a primary entity plus its dependent links. When a link
// fails the primary entity is deleted once and dependent rows go with it by
// cascade. The outcome of that delete is logged, never returned.
type creation struct {
	operation string
	entity    string
	primary   func(ctx context.Context) (int, error)
	links     []link
	remove    func(ctx context.Context, id int) error
	created   string
}

func (s *Service) create(ctx context.Context, c creation) types.Result[types.Unit] {
	return s.run(ctx, c.operation, func(ctx context.Context) types.Result[types.Unit] {
		id, err := c.primary(ctx)
		if err != nil {
			return types.Failure[types.Unit](pkgerrors.StatusOf(err),
				fmt.Sprintf("Failed to create %s: %s", c.entity, pkgerrors.Describe(err)))
		}

		for _, l := range c.links {
			if err := l.create(ctx, id); err != nil {
				s.compensate(ctx, c, id)
				return types.Failure[types.Unit](pkgerrors.StatusOf(err),
					fmt.Sprintf("Failed to create connection between %s: %s. %s creation was rolled back.",
						l.between, strings.TrimSuffix(pkgerrors.Describe(err), "."), capitalize(c.entity)))
			}
		}
		return types.Success(http.StatusCreated, types.Unit{}, c.created)
	})
}

func (s *Service) compensate(ctx context.Context, c creation, id int) {
	err := c.remove(ctx, id)
	s.metrics.IncRollback(c.operation, err == nil)
	if err != nil {
		s.warn(ctx, "compensating delete failed", map[string]any{
			"entity":    c.entity,
			"entity_id": id,
			"error":     err.Error(),
		})
	}
}

// CreateHorseComposition creates a horse housed in stableID and owned by userID.
func (s *Service) CreateHorseComposition(ctx context.Context, stableID, userID int, horse horses.CreateHorseInput) types.Result[types.Unit] {
	return s.create(ctx, creation{
		operation: opCreateHorse,
		entity:    "horse",
		primary: func(ctx context.Context) (int, error) {
			return s.horses.Create(ctx, horse)
		},
		links: []link{
			{between: "stable and horse", create: func(ctx context.Context, horseID int) error {
				return s.horses.CreateStableConnection(ctx, stableID, horseID)
			}},
			{between: "user and horse", create: func(ctx context.Context, horseID int) error {
				return s.horses.CreateOwnerConnection(ctx, userID, horseID)
			}},
		},
		remove:  s.horses.Delete,
		created: "Horse created successfully.",
	})
}

// CreateStableComposition creates a stable with userID as its owner.
func (s *Service) CreateStableComposition(ctx context.Context, userID int, stable stables.CreateStableInput) types.Result[types.Unit] {
	return s.create(ctx, creation{
		operation: opCreateStable,
		entity:    "stable",
		primary: func(ctx context.Context) (int, error) {
			return s.stables.Create(ctx, stable)
		},
		links: []link{
			{between: "user and stable", create: func(ctx context.Context, stableID int) error {
				_, err := s.memberships.CreateOwnerConnection(ctx, userID, stableID)
				return err
			}},
		},
		remove:  s.stables.Delete,
		created: "Stable created successfully.",
	})
}

// CreateCommentComposition creates a comment by userID on stablePostID.
func (s *Service) CreateCommentComposition(ctx context.Context, userID, stablePostID int, comment comments.CreateCommentInput) types.Result[types.Unit] {
	return s.create(ctx, creation{
		operation: opCreateComment,
		entity:    "comment",
		primary: func(ctx context.Context) (int, error) {
			return s.comments.Create(ctx, comment)
		},
		links: []link{
			{between: "user and comment", create: func(ctx context.Context, commentID int) error {
				return s.comments.CreateUserConnection(ctx, userID, commentID)
			}},
			{between: "stable-post and comment", create: func(ctx context.Context, commentID int) error {
				return s.comments.CreateStablePostConnection(ctx, stablePostID, commentID)
			}},
		},
		remove:  s.comments.Delete,
		created: "Comment created successfully.",
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
