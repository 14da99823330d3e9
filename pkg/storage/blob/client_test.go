package blob

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]bool
	deleted []string
}

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key, _ = url.PathUnescape(parts[1])
	}
	empty := io.NopCloser(bytes.NewReader(nil))
	switch req.Method {
	case http.MethodHead:
		if key == "" || f.objects[key] {
			return &http.Response{StatusCode: http.StatusOK, Body: empty, Header: http.Header{"Content-Length": {"3"}}}, nil
		}
		return &http.Response{StatusCode: http.StatusNotFound, Body: empty, Header: http.Header{}}, nil
	case http.MethodDelete:
		delete(f.objects, key)
		f.deleted = append(f.deleted, key)
		return &http.Response{StatusCode: http.StatusNoContent, Body: empty, Header: http.Header{}}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: empty, Header: http.Header{}}, nil
}

func newTestClient(t *testing.T, bucket *fakeBucket) *Client {
	t.Helper()
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("eu-north-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://blob.test")
		o.HTTPClient = &http.Client{Transport: bucket}
		o.UsePathStyle = true
		o.RetryMaxAttempts = 1
	})
	return newClient(api, config.BlobConfig{Bucket: "pictures", DownloadURLExpiry: time.Hour})
}

func TestSignedReadURLExistingObject(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]bool{"profile-pictures/1/a.png": true}}
	c := newTestClient(t, bucket)

	signed, err := c.SignedReadURL(context.Background(), "profile-pictures/1/a.png")
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "blob.test", u.Host)
	assert.Equal(t, "/pictures/profile-pictures/1/a.png", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestSignedReadURLMissingObject(t *testing.T) {
	c := newTestClient(t, &fakeBucket{objects: map[string]bool{}})
	_, err := c.SignedReadURL(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestSignedUploadURLUsesDefaultExpiry(t *testing.T) {
	c := newTestClient(t, &fakeBucket{objects: map[string]bool{}})
	signed, err := c.SignedUploadURL(context.Background(), "profile-pictures/2/b.jpg", "image/jpeg")
	require.NoError(t, err)
	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))

	_, err = c.SignedUploadURL(context.Background(), " ", "image/jpeg")
	assert.Error(t, err)
}

func TestDeleteObject(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]bool{"a.png": true}}
	c := newTestClient(t, bucket)

	require.NoError(t, c.DeleteObject(context.Background(), "a.png"))
	assert.Equal(t, []string{"a.png"}, bucket.deleted)
	assert.ErrorIs(t, c.DeleteObject(context.Background(), "a.png"), ErrObjectNotFound)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, &fakeBucket{objects: map[string]bool{}})
	assert.NoError(t, c.Ping(context.Background()))
	var nilClient *Client
	assert.Error(t, nilClient.Ping(context.Background()))
}

func TestNewProfilePictureName(t *testing.T) {
	name := NewProfilePictureName(7, "Me.PNG")
	assert.True(t, strings.HasPrefix(name, "profile-pictures/7/"))
	assert.True(t, strings.HasSuffix(name, ".png"))
}
