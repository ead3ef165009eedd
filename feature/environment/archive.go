package environment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"copy-environment/core/storage"

	"github.com/minio/minio-go/v7"
)

// ArchiveEntry is a stored snapshot.
type ArchiveEntry struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive keeps snapshot documents in object storage under a prefix.
type Archive struct {
	client storage.Client
	bucket string
	region string
	prefix string
}

// NewArchive creates an archive. A nil client yields a disabled archive.
func NewArchive(client storage.Client, bucket, region, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Enabled reports whether object storage is configured.
func (a *Archive) Enabled() bool {
	return a != nil && a.client != nil
}

// SnapshotName returns the archive name of a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return "snapshot-" + t.UTC().Format("20060102-150405") + ".json"
}

func (a *Archive) objectName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if a.prefix == "" {
		return name, nil
	}
	return a.prefix + "/" + name, nil
}

// Put stores data under name, creating the bucket on first use.
func (a *Archive) Put(ctx context.Context, name string, data []byte) error {
	if !a.Enabled() {
		return ErrArchiveDisabled
	}
	object, err := a.objectName(name)
	if err != nil {
		return err
	}
	if err := storage.EnsureBucket(ctx, a.client, a.bucket, a.region); err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", name, err)
	}
	return nil
}

// Get downloads the snapshot stored under name.
func (a *Archive) Get(ctx context.Context, name string) ([]byte, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	object, err := a.objectName(name)
	if err != nil {
		return nil, err
	}
	r, err := a.client.GetObject(ctx, a.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download snapshot %s: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	return data, nil
}

// List returns the stored snapshots, newest first.
func (a *Archive) List(ctx context.Context) ([]ArchiveEntry, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	prefix := ""
	if a.prefix != "" {
		prefix = a.prefix + "/"
	}

	entries := []ArchiveEntry{}
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		name := path.Base(obj.Key)
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		entries = append(entries, ArchiveEntry{Name: name, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].LastModified.Equal(entries[j].LastModified) {
			return entries[i].LastModified.After(entries[j].LastModified)
		}
		return entries[i].Name > entries[j].Name
	})
	return entries, nil
}

// Remove deletes the snapshot stored under name.
func (a *Archive) Remove(ctx context.Context, name string) error {
	if !a.Enabled() {
		return ErrArchiveDisabled
	}
	object, err := a.objectName(name)
	if err != nil {
		return err
	}
	if err := a.client.RemoveObject(ctx, a.bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove snapshot %s: %w", name, err)
	}
	return nil
}
