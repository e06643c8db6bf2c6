// Package storage wraps the MinIO client for the snapshot archive.
//
// Client is the narrow interface the archive depends on; mocks.Client is its
// testify mock. EnsureBucket creates the archive bucket on first use.
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err != nil {
//	    return err
//	}
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
