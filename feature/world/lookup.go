package world

import (
	"context"
	"fmt"

	"copy-environment/core/reconcile"
	"copy-environment/feature/world/models"

	"gorm.io/gorm"
)

// StoredSetting is a stored world setting together with its registration, if any.
type StoredSetting struct {
	Key          string
	Value        string
	Registered   bool
	DefaultValue string
}

// ListSettings returns every stored world setting ordered by key, except the
// persisted import selection.
func (s *Store) ListSettings(ctx context.Context) ([]StoredSetting, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Where("setting_key <> ?", SelectionKey).Order("setting_key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	var configs []models.SettingConfig
	if err := s.db.WithContext(ctx).Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("failed to list setting registrations: %w", err)
	}
	registered := make(map[string]models.SettingConfig, len(configs))
	for _, c := range configs {
		registered[c.Key] = c
	}

	out := make([]StoredSetting, len(rows))
	for i, row := range rows {
		cfg, ok := registered[row.Key]
		out[i] = StoredSetting{Key: row.Key, Value: row.Value, Registered: ok, DefaultValue: cfg.DefaultValue}
	}
	return out, nil
}

// ListUsers returns every user ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]reconcile.User, error) {
	var rows []models.User
	if err := s.db.WithContext(ctx).Order("name").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]reconcile.User, 0, len(rows))
	for _, row := range rows {
		u, err := toUser(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

// ListFolders returns every folder of the given type ordered by name.
func (s *Store) ListFolders(ctx context.Context, folderType string) ([]reconcile.Folder, error) {
	var rows []models.Folder
	if err := s.db.WithContext(ctx).Where("type = ?", folderType).Order("name").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s folders: %w", folderType, err)
	}
	out := make([]reconcile.Folder, len(rows))
	for i, row := range rows {
		out[i] = toFolder(row)
	}
	return out, nil
}

// ListPackages returns the installed packages ordered by type and id.
func (s *Store) ListPackages(ctx context.Context) ([]models.Package, error) {
	var rows []models.Package
	if err := s.db.WithContext(ctx).Order("type").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return rows, nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}
