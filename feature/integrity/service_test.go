package integrity

import (
	"context"
	"testing"

	"copy-environment/core/database"
	"copy-environment/core/storage/mocks"
	"copy-environment/feature/world/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestService_Schema(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.AutoMigrate(&models.Setting{}))
	svc := NewService(nil, "", "", "", zap.NewNop(), db)

	report, err := svc.CheckSchema()
	require.NoError(t, err)
	assert.False(t, report.Matched)

	require.NoError(t, svc.FixSchema(context.Background()))

	report, err = svc.CheckSchema()
	require.NoError(t, err)
	assert.True(t, report.Matched)
}

func TestService_SchemaWithoutDatabase(t *testing.T) {
	svc := NewService(nil, "", "", "", nil, nil)

	_, err := svc.CheckSchema()
	assert.Error(t, err)
	assert.Error(t, svc.FixSchema(context.Background()))
}

func TestService_Storage(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "environments", "", "snapshots", zap.NewNop(), nil)

	t.Run("CheckStorage", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "environments").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "environments", mock.Anything).Return(mocks.Objects())

		report, err := svc.CheckStorage(context.Background())
		require.NoError(t, err)
		assert.False(t, report.PrefixExists)
	})

	t.Run("FixStorage", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "environments", "snapshots/", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		require.NoError(t, svc.FixStorage(context.Background()))
		mockClient.AssertCalled(t, "PutObject", mock.Anything, "environments", "snapshots/", mock.Anything, int64(0), mock.Anything)
	})
}

func TestService_StorageDisabled(t *testing.T) {
	svc := NewService(nil, "environments", "", "snapshots", nil, nil)

	_, err := svc.CheckStorage(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.FixStorage(context.Background()), ErrStorageDisabled)
}
