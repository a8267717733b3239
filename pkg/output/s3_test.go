package output

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// fakeS3 records PutObject calls
type fakeS3 struct {
	s3iface.S3API
	inputs      []*s3.PutObjectInput
	bodies      [][]byte
	hasDeadline bool
	err         error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, f.hasDeadline = ctx.Deadline()
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	tests := []struct {
		name    string
		cfg     S3Config
		wantKey string
		wantACL *string
	}{
		{"prefixed public", S3Config{Bucket: "renders", Prefix: "nightly/2026", PublicRead: true}, "nightly/2026/frame.png", aws.String("public-read")},
		{"private at root", S3Config{Bucket: "renders"}, "frame.png", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeS3{}
			u := NewS3UploaderWithClient(client, tt.cfg)

			key, err := u.Upload(context.Background(), "frame.png", []byte("pixels"), "image/png")
			if err != nil {
				t.Fatalf("Upload failed: %v", err)
			}
			if key != tt.wantKey {
				t.Errorf("Expected key %q, got %q", tt.wantKey, key)
			}
			if len(client.inputs) != 1 {
				t.Fatalf("Expected 1 PutObject call, got %d", len(client.inputs))
			}

			in := client.inputs[0]
			if aws.StringValue(in.Bucket) != "renders" || aws.StringValue(in.Key) != tt.wantKey {
				t.Errorf("Unexpected target %s/%s", aws.StringValue(in.Bucket), aws.StringValue(in.Key))
			}
			if aws.StringValue(in.ContentType) != "image/png" || aws.Int64Value(in.ContentLength) != 6 {
				t.Errorf("Unexpected content headers %s %d", aws.StringValue(in.ContentType), aws.Int64Value(in.ContentLength))
			}
			if aws.StringValue(in.ACL) != aws.StringValue(tt.wantACL) {
				t.Errorf("Expected ACL %q, got %q", aws.StringValue(tt.wantACL), aws.StringValue(in.ACL))
			}
			if string(client.bodies[0]) != "pixels" {
				t.Errorf("Unexpected body %q", client.bodies[0])
			}
			if !client.hasDeadline {
				t.Error("Upload should bound the request with a timeout")
			}
		})
	}
}

func TestS3Uploader_UploadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "render.png")
	if err := os.WriteFile(file, []byte("png data"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	client := &fakeS3{}
	u := NewS3UploaderWithClient(client, S3Config{Bucket: "renders", Prefix: "out"})
	key, err := u.UploadFile(context.Background(), file)
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if key != "out/render.png" {
		t.Errorf("Unexpected key %q", key)
	}
	if got := aws.StringValue(client.inputs[0].ContentType); got != "image/png" {
		t.Errorf("Expected image/png, got %q", got)
	}
}

func TestS3Uploader_Errors(t *testing.T) {
	failure := errors.New("access denied")
	u := NewS3UploaderWithClient(&fakeS3{err: failure}, S3Config{Bucket: "renders"})

	if _, err := u.Upload(context.Background(), "frame.png", nil, "image/png"); !errors.Is(err, failure) {
		t.Errorf("Expected wrapped client error, got %v", err)
	}
	if _, err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
	if _, err := NewS3Uploader(S3Config{}); err == nil {
		t.Error("Expected error without a bucket")
	}
}
