package integrity

import (
	"context"
	"errors"

	"copy-environment/core/storage"
	"copy-environment/feature/integrity/checks"
	"copy-environment/feature/world"
	"copy-environment/feature/world/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when no object storage is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	region string
	prefix string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. client and db may be nil.
func NewService(client storage.Client, bucket, region, prefix string, logger *zap.Logger, db *gorm.DB) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		bucket: bucket,
		region: region,
		prefix: prefix,
		logger: logger,
		db:     db,
	}
}

// CheckSchema compares the world database with the world models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All())
}

// FixSchema creates missing tables and columns.
func (s *Service) FixSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("database connection is nil")
	}
	return world.Migrate(s.db.WithContext(ctx))
}

// CheckStorage reports whether the snapshot archive location exists.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStorage(ctx, s.client, s.bucket, s.prefix)
}

// FixStorage creates the snapshot archive location.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStorage(ctx, s.client, s.bucket, s.region, s.prefix, s.logger)
}
