// Package storage connects to the S3 compatible bucket that archives environment
// snapshots.
//
// Client is the subset of the minio-go client the archive uses, so tests can swap in
// mocks.Client. Storage is optional: NewClient returns ErrDisabled unless the
// storage section is enabled.
//
//	client, err := storage.NewClient(cfg.Storage)
//	if errors.Is(err, storage.ErrDisabled) {
//		// run without an archive
//	}
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
