package comments

import (
	"context"
	"testing"

	"github.com/equilog/equilog-backend/internal/testdb"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentThread(t *testing.T) {
	conn := testdb.Open(t)
	ctx := context.Background()
	user := testdb.SeedUser(t, conn, "Ella", "Ek")
	stable := testdb.SeedStable(t, conn, "Oak")
	post := testdb.SeedStablePost(t, conn, stable.ID, user.ID, "Hay")

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	id, err := svc.Create(ctx, CreateCommentInput{Content: "hi"})
	require.NoError(t, err)
	require.NoError(t, svc.CreateUserConnection(ctx, user.ID, id))
	require.NoError(t, svc.CreateStablePostConnection(ctx, post.ID, id))

	thread, err := svc.ListByStablePost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "hi", thread[0].Content)
	assert.Equal(t, "Ella", thread[0].FirstName)
	assert.Equal(t, user.ID, thread[0].UserID)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Zero(t, testdb.Count(t, conn, "user_comments", "comment_id = ?", id))
	assert.Zero(t, testdb.Count(t, conn, "stable_post_comments", "comment_id = ?", id))
}

func TestCreateStablePostConnectionRequiresPost(t *testing.T) {
	conn := testdb.Open(t)
	ctx := context.Background()
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	id, err := svc.Create(ctx, CreateCommentInput{Content: "hi"})
	require.NoError(t, err)
	err = svc.CreateStablePostConnection(ctx, 999, id)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestCreateRejectsEmptyContent(t *testing.T) {
	conn := testdb.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateCommentInput{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestRemoveConnectionsNotFound(t *testing.T) {
	conn := testdb.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()
	assert.True(t, pkgerrors.Is(svc.RemoveUserConnection(ctx, 5), pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.Is(svc.RemoveStablePostConnection(ctx, 5), pkgerrors.CodeNotFound))
}
