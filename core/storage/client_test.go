package storage_test

import (
	"context"
	"errors"
	"testing"

	"listing-manager/core/storage"
	"listing-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"ValidConfig", storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "listings", Region: "us-east-1"}},
		{"EndpointWithHTTP", storage.Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"}},
		{"EndpointWithHTTPS", storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "k", SecretKey: "s", UseSSL: true, Region: "us-east-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", mock.Anything, "listings").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, c, "listings", ""))
		c.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", mock.Anything, "listings").Return(false, nil)
		c.On("MakeBucket", mock.Anything, "listings", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, c, "listings", "eu-west-1"))
		c.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", mock.Anything, "listings").Return(false, errors.New("denied"))

		err := storage.EnsureBucket(ctx, c, "listings", "")
		assert.ErrorContains(t, err, "denied")
	})
}
