package compositions

import (
	"context"
	"net/http"
	"testing"

	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/internal/testdb"
	"github.com/equilog/equilog-backend/pkg/enums"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHorseComposition(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	stable := testdb.SeedStable(t, h.conn, "Oak")

	res := h.service(t).CreateHorseComposition(context.Background(), stable.ID, user.ID, horses.CreateHorseInput{Name: "Spirit"})

	require.True(t, res.IsSuccess, res.MessageText())
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "Horse created successfully.", res.MessageText())
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "stable_horses", "stable_id = ?", stable.ID))
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "user_horses", "user_id = ? AND user_role = ?", user.ID, enums.HorseRoleOwner))
}

func TestCreateHorseCompositionRollsBackOnMissingStable(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")

	res := h.service(t).CreateHorseComposition(context.Background(), 999, user.ID, horses.CreateHorseInput{Name: "Spirit"})

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Failed to create connection between stable and horse: Stable not found. Horse creation was rolled back.", res.MessageText())
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "horses", "name = ?", "Spirit"))
}

func TestCreateHorseCompositionRollsBackOnMissingOwner(t *testing.T) {
	h := newHarness(t)
	stable := testdb.SeedStable(t, h.conn, "Oak")

	res := h.service(t).CreateHorseComposition(context.Background(), stable.ID, 999, horses.CreateHorseInput{Name: "Spirit"})

	require.False(t, res.IsSuccess)
	assert.Equal(t, "Failed to create connection between user and horse: User not found. Horse creation was rolled back.", res.MessageText())
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "horses", ""))
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "stable_horses", ""), "stable link removed by cascade")
}

func TestCreateStableCompositionRoundTrip(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")

	res := h.service(t).CreateStableComposition(context.Background(), user.ID, stables.CreateStableInput{Name: "Oak Stable"})

	require.True(t, res.IsSuccess, res.MessageText())
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	var stableID int
	require.NoError(t, h.conn.Raw("SELECT id FROM stables WHERE name = ?", "Oak Stable").Scan(&stableID).Error)
	assert.Equal(t, map[int]enums.StableRole{user.ID: enums.StableRoleOwner}, h.roles(t, stableID))
}

func TestCreateStableCompositionRollsBackOnMissingUser(t *testing.T) {
	h := newHarness(t)

	res := h.service(t).CreateStableComposition(context.Background(), 999, stables.CreateStableInput{Name: "Oak Stable"})

	require.False(t, res.IsSuccess)
	assert.Equal(t, "Failed to create connection between user and stable: User or stable not found. Stable creation was rolled back.", res.MessageText())
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "stables", ""))
}

func TestCreateCommentComposition(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	post := testdb.SeedStablePost(t, h.conn, stable.ID, user.ID, "Hay delivery")

	res := h.service(t).CreateCommentComposition(context.Background(), user.ID, post.ID, comments.CreateCommentInput{Content: "hi"})

	require.True(t, res.IsSuccess, res.MessageText())
	assert.Equal(t, "Comment created successfully.", res.MessageText())
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "user_comments", "user_id = ?", user.ID))
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "stable_post_comments", "stable_post_id = ?", post.ID))
}

func TestCreateCommentCompositionRollsBackWhenAuthorLinkFails(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	post := testdb.SeedStablePost(t, h.conn, stable.ID, user.ID, "Hay delivery")
	h.params.Comments = failingComments{
		commentService: h.params.Comments,
		userLinkErr:    pkgerrors.New(pkgerrors.CodeDependency, "author store unavailable"),
	}

	res := h.service(t).CreateCommentComposition(context.Background(), user.ID, post.ID, comments.CreateCommentInput{Content: "hi"})

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "Failed to create connection between user and comment: author store unavailable. Comment creation was rolled back.", res.MessageText())
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "comments", "content = ?", "hi"))
}

func TestCreateCommentCompositionRollsBackOnMissingPost(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")

	res := h.service(t).CreateCommentComposition(context.Background(), user.ID, 999, comments.CreateCommentInput{Content: "hi"})

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Failed to create connection between stable-post and comment: Stable-post not found. Comment creation was rolled back.", res.MessageText())
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "comments", ""))
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "user_comments", ""))
}

func TestCreatePrimaryFailureIsNotCompensated(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")

	res := h.service(t).CreateCommentComposition(context.Background(), user.ID, 1, comments.CreateCommentInput{})

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Failed to create comment: comment content is required", res.MessageText())
}

func TestCompensationFailureIsNotSurfaced(t *testing.T) {
	h := newHarness(t)
	reg := prometheus.NewRegistry()
	h.params.Metrics = metrics.NewCompositionMetrics(reg)
	user := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	h.params.Comments = failingComments{
		commentService: h.params.Comments,
		userLinkErr:    pkgerrors.New(pkgerrors.CodeNotFound, "User not found."),
		deleteErr:      pkgerrors.New(pkgerrors.CodeDependency, "delete failed"),
	}

	res := h.service(t).CreateCommentComposition(context.Background(), user.ID, 1, comments.CreateCommentInput{Content: "orphan"})

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Failed to create connection between user and comment: User not found. Comment creation was rolled back.", res.MessageText())
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "comments", "content = ?", "orphan"))

	families, err := reg.Gather()
	require.NoError(t, err)
	var failedRollbacks float64
	for _, mf := range families {
		if mf.GetName() != "equilog_composition_rollbacks_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == metrics.OutcomeFailure {
					failedRollbacks += m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(1), failedRollbacks)
}
