package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"copy-environment/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the snapshot archive location.
type StorageReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	Prefix       string `json:"prefix"`
	PrefixExists bool   `json:"prefix_exists"`
}

// OK reports whether snapshots can be archived without fixing anything.
func (r StorageReport) OK() bool {
	return r.BucketExists && r.PrefixExists
}

func folder(prefix string) string {
	return strings.Trim(prefix, "/") + "/"
}

// CheckStorage reports whether the archive bucket and prefix exist.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Prefix: folder(prefix)}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{Prefix: report.Prefix, MaxKeys: 1}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", report.Prefix, obj.Err)
		}
		report.PrefixExists = true
		break
	}

	return report, nil
}

// FixStorage creates the bucket and a marker object for the prefix.
func FixStorage(ctx context.Context, client storage.Client, bucket, region, prefix string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		return err
	}

	marker := folder(prefix)
	_, err := client.PutObject(ctx, bucket, marker, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
	if err != nil {
		logger.Error("Failed to create snapshot folder", zap.String("folder", marker), zap.Error(err))
		return err
	}
	logger.Info("Created snapshot folder", zap.String("bucket", bucket), zap.String("folder", marker))
	return nil
}
