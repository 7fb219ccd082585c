//go:build e2e

package e2e

import (
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costforge/costforge/pkg/storage"
)

func TestS3BackendWriteIfAbsent(t *testing.T) {
	ctx := context.Background()
	client := s3.NewFromConfig(GetAWSConfig(t))
	CreateBucket(t, client, "costforge-bundles")

	backend := storage.NewS3(GetAWSConfig(t), "costforge-bundles", "checkout-api")

	err := backend.Put(ctx, "config.json", []byte(`{"budget": 280}`), 0644, false)
	require.NoError(t, err)

	exists, err := backend.Exists(ctx, "config.json")
	require.NoError(t, err)
	assert.True(t, exists)

	// Second write without force must refuse.
	err = backend.Put(ctx, "config.json", []byte(`{"budget": 999}`), 0644, false)
	assert.ErrorIs(t, err, fs.ErrExist)

	// Force clobbers.
	err = backend.Put(ctx, "config.json", []byte(`{"budget": 999}`), 0644, true)
	require.NoError(t, err)

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String("costforge-bundles"),
		Key:    aws.String("checkout-api/config.json"),
	})
	require.NoError(t, err)
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"budget": 999}`, string(body))
}

func TestS3BackendScriptModeMetadata(t *testing.T) {
	ctx := context.Background()
	client := s3.NewFromConfig(GetAWSConfig(t))
	CreateBucket(t, client, "costforge-modes")

	backend := storage.NewS3(GetAWSConfig(t), "costforge-modes", "")
	err := backend.Put(ctx, "scripts/cost-check.sh", []byte("#!/bin/bash\n"), 0755, false)
	require.NoError(t, err)

	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String("costforge-modes"),
		Key:    aws.String("scripts/cost-check.sh"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0755", head.Metadata["costforge-mode"])
}
