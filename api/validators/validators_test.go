package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilog/equilog-backend/pkg/enums"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
)

type stableBody struct {
	Name     string `json:"name" validate:"required,max=10"`
	BoxCount int    `json:"boxCount" validate:"gte=0"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","boxCount":-1}`))
	var body stableBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{"name": "is required", "boxCount": "must be at least 0"}, typed.Details())
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"North","owner":1}`))
	var body stableBody
	err := DecodeJSONBody(req, &body)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Equal(t, map[string]string{"owner": "is not allowed"}, pkgerrors.As(err).Details())
}

func TestParsePathID(t *testing.T) {
	withParam := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("stableId", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	id, err := ParsePathID(withParam("12"), "stableId")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = ParsePathID(withParam("0"), "stableId")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = ParsePathID(withParam("abc"), "stableId")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&pageSize=500", nil)

	page, err := ParseQueryInt(req, "page", 0, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = ParseQueryInt(req, "pageSize", 10, 1, 100)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	missing, err := ParseQueryInt(req, "limit", 10, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, missing)
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "north", SanitizeString(" north ", 0))
	assert.Equal(t, "Häst", SanitizeString("Hästgården", 4))
}

type roleBody struct {
	Role *enums.StableRole `json:"role" validate:"required,stablerole"`
}

func TestDecodeJSONBodyValidatesStableRole(t *testing.T) {
	var body roleBody
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"role":7}`)), &body)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"role": "must be a valid stable role"}, pkgerrors.As(err).Details())

	require.NoError(t, DecodeJSONBody(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"role":1}`)), &body))
	assert.Equal(t, enums.StableRoleAdmin, *body.Role)

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`)), &body)
	assert.Equal(t, map[string]string{"role": "is required"}, pkgerrors.As(err).Details())
}

func TestDecodeJSONBodyRejectsEmptyAndTrailingInput(t *testing.T) {
	var body stableBody
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &body)
	require.Error(t, err)
	assert.Equal(t, "request body is empty", pkgerrors.As(err).Message())

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"A"}{"name":"B"}`)), &body)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
