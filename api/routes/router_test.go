package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/equilog/equilog-backend/api/controllers"
	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/compositions"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/posts"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/internal/testdb"
	"github.com/equilog/equilog-backend/internal/users"
	pkgAuth "github.com/equilog/equilog-backend/pkg/auth"
	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/enums"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type allowSessions struct{}

func (allowSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

type envelope struct {
	IsSuccess  bool            `json:"isSuccess"`
	StatusCode int             `json:"statusCode"`
	Value      json.RawMessage `json:"value"`
	Message    *string         `json:"message"`
}

type testServer struct {
	conn    *gorm.DB
	handler http.Handler
	cfg     *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn := testdb.Open(t)
	cfg := &config.Config{
		App:  config.AppConfig{Env: "test", Port: "0"},
		JWT:  config.JWTConfig{Secret: "secret", Issuer: "equilog-test", ExpirationMinutes: 15},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	membershipRepo := memberships.NewRepository(conn)
	membershipSvc, err := memberships.NewService(membershipRepo)
	require.NoError(t, err)
	stableSvc, err := stables.NewService(stables.NewRepository(conn))
	require.NoError(t, err)
	userSvc, err := users.NewService(users.NewRepository(conn), membershipRepo)
	require.NoError(t, err)
	horseSvc, err := horses.NewService(horses.NewRepository(conn))
	require.NoError(t, err)
	commentSvc, err := comments.NewService(comments.NewRepository(conn))
	require.NoError(t, err)
	postSvc, err := posts.NewService(posts.NewRepository(conn))
	require.NoError(t, err)

	composer, err := compositions.NewService(compositions.Params{
		Ownership:   membershipRepo,
		Memberships: membershipSvc,
		Stables:     stableSvc,
		Users:       userSvc,
		Horses:      horseSvc,
		Comments:    commentSvc,
	})
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:       cfg,
		Health:       map[string]controllers.Pinger{"db": stubPinger{}},
		Sessions:     allowSessions{},
		Users:        userSvc,
		Stables:      stableSvc,
		Horses:       horseSvc,
		Memberships:  membershipSvc,
		Posts:        postSvc,
		Comments:     commentSvc,
		Compositions: composer,
	})
	return &testServer{conn: conn, handler: handler, cfg: cfg}
}

func (s *testServer) token(t *testing.T, userID int) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(s.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, JTI: "session-1"})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.IsSuccess)

	rec, env = srv.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"db":"up"}`, string(env.Value))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.IsSuccess)
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
}

func TestCreateStableCompositionRoute(t *testing.T) {
	srv := newTestServer(t)
	user := testdb.SeedUser(t, srv.conn, "Ada", "Rider")

	rec, env := srv.do(t, http.MethodPost, "/api/stables", srv.token(t, user.ID), map[string]any{"name": "North Barn"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.IsSuccess)
	require.NotNil(t, env.Message)
	assert.Equal(t, "Stable created successfully.", *env.Message)

	assert.EqualValues(t, 1, testdb.Count(t, srv.conn, "user_stables", "user_id = ? AND role = ?", user.ID, enums.StableRoleOwner))
}

func TestCreateHorseCompositionRouteRejectsUnknownStable(t *testing.T) {
	srv := newTestServer(t)
	user := testdb.SeedUser(t, srv.conn, "Ada", "Rider")

	rec, env := srv.do(t, http.MethodPost, "/api/horses/compositions", srv.token(t, user.ID), map[string]any{
		"stableId": 999,
		"horse":    map[string]any{"name": "Bella"},
	})
	assert.False(t, env.IsSuccess)
	assert.Equal(t, rec.Code, env.StatusCode)
	assert.EqualValues(t, 0, testdb.Count(t, srv.conn, "horses", ""), "horse creation rolled back")
}

func TestDeleteUserCompositionRoutePromotesMember(t *testing.T) {
	srv := newTestServer(t)
	owner := testdb.SeedUser(t, srv.conn, "Owner", "One")
	member := testdb.SeedUser(t, srv.conn, "Member", "Two")
	stable := testdb.SeedStable(t, srv.conn, "Shared")
	testdb.SeedMembership(t, srv.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, srv.conn, member.ID, stable.ID, enums.StableRoleMember)

	rec, env := srv.do(t, http.MethodDelete, "/api/users/"+itoa(owner.ID)+"/compositions", srv.token(t, owner.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.IsSuccess)
	assert.EqualValues(t, 0, testdb.Count(t, srv.conn, "users", "id = ?", owner.ID))
	assert.EqualValues(t, 1, testdb.Count(t, srv.conn, "user_stables", "user_id = ? AND role = ?", member.ID, enums.StableRoleOwner))
}

func TestDeleteUserCompositionRouteRejectsOtherUser(t *testing.T) {
	srv := newTestServer(t)
	owner := testdb.SeedUser(t, srv.conn, "Owner", "One")
	other := testdb.SeedUser(t, srv.conn, "Other", "Two")

	rec, env := srv.do(t, http.MethodDelete, "/api/users/"+itoa(owner.ID)+"/compositions", srv.token(t, other.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.IsSuccess)
	assert.EqualValues(t, 1, testdb.Count(t, srv.conn, "users", "id = ?", owner.ID))
}

func TestLeaveStableCompositionRoute(t *testing.T) {
	srv := newTestServer(t)
	owner := testdb.SeedUser(t, srv.conn, "Owner", "One")
	admin := testdb.SeedUser(t, srv.conn, "Admin", "Two")
	stable := testdb.SeedStable(t, srv.conn, "Shared")
	testdb.SeedMembership(t, srv.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, srv.conn, admin.ID, stable.ID, enums.StableRoleAdmin)

	path := "/api/users/" + itoa(owner.ID) + "/stables/" + itoa(stable.ID)
	rec, env := srv.do(t, http.MethodDelete, path, srv.token(t, owner.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, env.Message)
	assert.Equal(t, "User left stable successfully.", *env.Message)
	assert.EqualValues(t, 0, testdb.Count(t, srv.conn, "user_stables", "user_id = ?", owner.ID))
	assert.EqualValues(t, 1, testdb.Count(t, srv.conn, "user_stables", "user_id = ? AND role = ?", admin.ID, enums.StableRoleOwner))
}

func TestCommentCompositionRoute(t *testing.T) {
	srv := newTestServer(t)
	user := testdb.SeedUser(t, srv.conn, "Ada", "Rider")
	stable := testdb.SeedStable(t, srv.conn, "North")
	post := testdb.SeedStablePost(t, srv.conn, stable.ID, user.ID, "Farrier visit")

	rec, env := srv.do(t, http.MethodPost, "/api/comments/compositions", srv.token(t, user.ID), map[string]any{
		"stablePostId": post.ID,
		"comment":      map[string]any{"content": "Thursday works"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.IsSuccess)

	rec, env = srv.do(t, http.MethodGet, "/api/stable-posts/"+itoa(post.ID)+"/comments", srv.token(t, user.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Value, &list))
	assert.Len(t, list, 1)
}

func TestValidationFailureUsesEnvelope(t *testing.T) {
	srv := newTestServer(t)
	user := testdb.SeedUser(t, srv.conn, "Ada", "Rider")

	rec, env := srv.do(t, http.MethodPost, "/api/stables", srv.token(t, user.ID), map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.IsSuccess)
	require.NotNil(t, env.Message)
	assert.Contains(t, *env.Message, "name is required")
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
