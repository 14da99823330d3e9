package blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/google/uuid"
)

const (
	pingTimeout           = 5 * time.Second
	defaultUploadExpiry   = 15 * time.Minute
	defaultDownloadExpiry = 24 * time.Hour
	profilePicturePrefix  = "profile-pictures"
)

// ErrObjectNotFound is returned when the named object does not exist.
var ErrObjectNotFound = errors.New("blob not found")

// Client wraps an S3-compatible bucket used for profile pictures.
type Client struct {
	api            *s3.Client
	presign        *s3.PresignClient
	bucket         string
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
}

// NewClient loads AWS config and binds the client to cfg.Bucket. A custom
// endpoint switches to path-style addressing for MinIO and similar stores.
func NewClient(ctx context.Context, cfg config.BlobConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newClient(api, cfg), nil
}

func newClient(api *s3.Client, cfg config.BlobConfig) *Client {
	upload := cfg.UploadURLExpiry
	if upload <= 0 {
		upload = defaultUploadExpiry
	}
	download := cfg.DownloadURLExpiry
	if download <= 0 {
		download = defaultDownloadExpiry
	}
	return &Client{
		api:            api,
		presign:        s3.NewPresignClient(api),
		bucket:         cfg.Bucket,
		uploadExpiry:   upload,
		downloadExpiry: download,
	}
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

// Ping checks the bucket is reachable with the loaded credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.api == nil {
		return errors.New("blob client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf("blob bucket check failed: %w", err)
	}
	return nil
}

// NewProfilePictureName returns a fresh object name for a user's picture.
func NewProfilePictureName(userID int, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%d/%s%s", profilePicturePrefix, userID, uuid.NewString(), ext)
}

// SignedUploadURL returns a presigned PUT URL for objectName.
func (c *Client) SignedUploadURL(ctx context.Context, objectName, contentType string) (string, error) {
	if strings.TrimSpace(objectName) == "" {
		return "", errors.New("object name is required")
	}
	input := &s3.PutObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(objectName)}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := c.presign.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = c.uploadExpiry
	})
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, nil
}

// SignedReadURL returns a presigned GET URL for an existing object.
func (c *Client) SignedReadURL(ctx context.Context, objectName string) (string, error) {
	if strings.TrimSpace(objectName) == "" {
		return "", errors.New("object name is required")
	}
	if _, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(objectName)}); err != nil {
		if isNotFound(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("head object: %w", err)
	}
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(objectName)}, func(o *s3.PresignOptions) {
		o.Expires = c.downloadExpiry
	})
	if err != nil {
		return "", fmt.Errorf("presign read: %w", err)
	}
	return req.URL, nil
}

// DeleteObject removes objectName. Missing objects are reported as ErrObjectNotFound.
func (c *Client) DeleteObject(ctx context.Context, objectName string) error {
	if _, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(objectName)}); err != nil {
		if isNotFound(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("head object: %w", err)
	}
	if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(objectName)}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
