package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// DefaultUploadTimeout bounds a single object upload
const DefaultUploadTimeout = 30 * time.Second

// S3Config describes an S3-compatible bucket
type S3Config struct {
	Bucket     string
	Region     string
	Endpoint   string // Empty for AWS itself
	AccessKey  string
	SecretKey  string
	Prefix     string // Prepended to every object key
	PublicRead bool
	Timeout    time.Duration
}

// S3Uploader publishes render artifacts to a bucket
type S3Uploader struct {
	client  s3iface.S3API
	bucket  string
	prefix  string
	acl     string
	timeout time.Duration
}

// NewS3Uploader creates a session for the configured endpoint
func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("creating s3 session: %w", err)
	}
	return NewS3UploaderWithClient(s3.New(sess), cfg), nil
}

// NewS3UploaderWithClient uses an existing S3 client
func NewS3UploaderWithClient(client s3iface.S3API, cfg S3Config) *S3Uploader {
	u := &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		timeout: cfg.Timeout,
	}
	if cfg.PublicRead {
		u.acl = s3.ObjectCannedACLPublicRead
	}
	if u.timeout <= 0 {
		u.timeout = DefaultUploadTimeout
	}
	return u
}

// Key returns the object key for name under the configured prefix
func (u *S3Uploader) Key(name string) string {
	return path.Join(u.prefix, name)
}

// Upload stores data under name and returns the object key
func (u *S3Uploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	key := u.Key(name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
	if u.acl != "" {
		input.ACL = aws.String(u.acl)
	}

	if _, err := u.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// UploadFile uploads a local file, naming the object after the file
func (u *S3Uploader) UploadFile(ctx context.Context, file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return u.Upload(ctx, filepath.Base(file), data, contentType)
}
