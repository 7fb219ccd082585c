package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3 writes bundle files under an s3://bucket/prefix target. The file
// mode has no S3 equivalent, so it is recorded as object metadata.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 returns an S3 backend for the given target.
func NewS3(cfg aws.Config, bucket, prefix string) *S3 {
	return &S3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3) Root() string {
	if s.prefix == "" {
		return fmt.Sprintf("s3://%s", s.bucket)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}

func (s *S3) key(relpath string) string {
	return path.Join(s.prefix, relpath)
}

func (s *S3) Put(ctx context.Context, relpath string, data []byte, mode fs.FileMode, force bool) error {
	key := s.key(relpath)

	if !force {
		exists, err := s.Exists(ctx, relpath)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s: %w", relpath, fs.ErrExist)
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		Metadata: map[string]string{
			"costforge-mode": fmt.Sprintf("%04o", mode.Perm()),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *S3) Exists(ctx context.Context, relpath string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(relpath)),
	})
	if err == nil {
		return true, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return false, nil
		}
	}
	return false, fmt.Errorf("failed to stat s3://%s/%s: %w", s.bucket, s.key(relpath), err)
}
