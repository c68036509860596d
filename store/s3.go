package store

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Mirror copies an encoded file somewhere outside the local outputs dir.
type Mirror interface {
	Upload(ctx context.Context, key string, body io.Reader) (string, error)
}

type S3Options struct {
	Bucket string
	Region string
	// Endpoint is for local S3-compatible servers.
	Endpoint string
	Prefix   string
}

type S3Mirror struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
}

func NewS3Mirror(opts S3Options) (*S3Mirror, error) {
	cfg := &aws.Config{Region: aws.String(opts.Region)}
	if opts.Endpoint != "" {
		cfg.Endpoint = aws.String(opts.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a new S3 session: %w", err)
	}
	return &S3Mirror{
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// Upload stores body under prefix/key and returns its location.
func (m *S3Mirror) Upload(ctx context.Context, key string, body io.Reader) (string, error) {
	out, err := m.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(path.Join(m.prefix, key)),
		Body:        body,
		ContentType: aws.String("audio/midi"),
	})
	if err != nil {
		return "", fmt.Errorf("error from S3: %w", err)
	}
	return out.Location, nil
}
