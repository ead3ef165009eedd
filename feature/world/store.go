package world

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"copy-environment/core/reconcile"
	"copy-environment/core/utils"
	"copy-environment/feature/world/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelectionKey is the setting the import selection is persisted under.
const SelectionKey = "copy-environment.selection"

// Store is the destination world backed by a world database.
// It implements reconcile.Host and reconcile.SelectionStore.
type Store struct {
	db     *gorm.DB
	local  *LocalStorage
	actor  string
	logger *zap.Logger
}

var (
	_ reconcile.Host           = (*Store)(nil)
	_ reconcile.SelectionStore = (*Store)(nil)
)

// NewStore creates a world store acting as the user named actor.
func NewStore(db *gorm.DB, local *LocalStorage, actor string, logger *zap.Logger) *Store {
	if local == nil {
		local = &LocalStorage{values: make(map[string]string)}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, local: local, actor: actor, logger: logger}
}

// Migrate creates or updates the world tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate world tables: %w", err)
	}
	return nil
}

// ReadSetting returns the parsed live value of a registered setting.
// Client settings are read from local storage. Unset settings return their default.
func (s *Store) ReadSetting(ctx context.Context, namespace, key string) (any, error) {
	full := namespace + "." + key

	cfg, err := s.settingConfig(ctx, full)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", reconcile.ErrNotRegistered, full)
	}

	raw := cfg.DefaultValue
	if reconcile.Scope(cfg.Scope) == reconcile.ScopeClient {
		if v, ok := s.local.Get(full); ok {
			raw = v
		}
	} else {
		stored, ok, err := s.RawSetting(ctx, full)
		if err != nil {
			return nil, err
		}
		if ok {
			raw = stored
		}
	}

	v, err := reconcile.ParseValue(raw)
	if err != nil {
		// Stored values are not always JSON, e.g. legacy plain strings.
		return raw, nil
	}
	return v, nil
}

// RawSetting returns the stored serialized value of a world setting.
func (s *Store) RawSetting(ctx context.Context, key string) (string, bool, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Where("setting_key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

// SettingScope returns the registered scope of key.
func (s *Store) SettingScope(ctx context.Context, key string) (reconcile.Scope, bool) {
	cfg, err := s.settingConfig(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read setting registration", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if cfg == nil {
		return "", false
	}
	if cfg.Scope == "" {
		return reconcile.ScopeWorld, true
	}
	return reconcile.Scope(cfg.Scope), true
}

func (s *Store) settingConfig(ctx context.Context, key string) (*models.SettingConfig, error) {
	var rows []models.SettingConfig
	if err := s.db.WithContext(ctx).Where("setting_key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read setting registration %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FindUserByName returns the first user with the exact name, or nil.
func (s *Store) FindUserByName(ctx context.Context, name string) (*reconcile.User, error) {
	var rows []models.User
	if err := s.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toUser(rows[0])
}

// FindFolder returns the folder with id, or nil.
func (s *Store) FindFolder(ctx context.Context, id string) (*reconcile.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).First(&folder, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find folder %s: %w", id, err)
	}
	f := toFolder(folder)
	return &f, nil
}

// WriteLocalSetting stores a client scoped value in local storage.
func (s *Store) WriteLocalSetting(_ context.Context, key, value string) error {
	return s.local.Set(key, value)
}

// DispatchSettings applies one batch of setting documents in a transaction.
func (s *Store) DispatchSettings(ctx context.Context, change reconcile.DocumentChange) error {
	if change.Type != reconcile.SettingDocumentType {
		return fmt.Errorf("%w: %s documents", ErrUnsupportedAction, change.Type)
	}
	if !s.IsPrivileged(ctx) {
		return reconcile.ErrNotPrivileged
	}
	if len(change.Settings) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch change.Action {
		case reconcile.ActionUpdate:
			for _, d := range change.Settings {
				err := tx.Model(&models.Setting{}).Where("setting_key = ?", d.Key).Update("value", d.Value).Error
				if err != nil {
					return fmt.Errorf("failed to update setting %s: %w", d.Key, err)
				}
			}
		case reconcile.ActionCreate:
			rows := make([]models.Setting, len(change.Settings))
			for i, d := range change.Settings {
				rows[i] = models.Setting{Key: d.Key, Value: d.Value}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to create %d settings: %w", len(rows), err)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedAction, change.Action)
		}
		return nil
	})
}

// UpdateUser applies a partial update to a user. Flags are merged recursively.
func (s *Store) UpdateUser(ctx context.Context, user *reconcile.User, update reconcile.UserUpdate) error {
	if user == nil {
		return ErrUserNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.User
		err := tx.First(&row, "id = ?", user.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, user.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to load user %s: %w", user.ID, err)
		}

		changes := make(map[string]any)
		for field, v := range update.Fields {
			if v == nil || reconcile.IsUndefined(v) {
				continue
			}
			switch field {
			case "avatar":
				changes["avatar"] = utils.ToString(v)
			case reconcile.FieldColor:
				changes["color"] = utils.ToString(v)
			case reconcile.FieldRole:
				changes["role"] = utils.ToInt(v)
			case reconcile.FieldPermissions:
				b, err := json.Marshal(v)
				if err != nil {
					return fmt.Errorf("failed to encode permissions: %w", err)
				}
				changes["permissions"] = string(b)
			default:
				return fmt.Errorf("%w: %s", ErrUnsupportedField, field)
			}
		}

		if len(update.Flags) != 0 {
			flags, err := decodeObject(row.Flags)
			if err != nil {
				return fmt.Errorf("failed to decode flags of %s: %w", row.Name, err)
			}
			b, err := json.Marshal(reconcile.MergeObject(flags, update.Flags))
			if err != nil {
				return fmt.Errorf("failed to encode flags: %w", err)
			}
			changes["flags"] = string(b)
		}

		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update user %s: %w", row.Name, err)
		}
		return nil
	})
}

// CreateFolder creates a folder. With keepID the given id is preserved.
// The parent, when set, must exist.
func (s *Store) CreateFolder(ctx context.Context, folder reconcile.Folder, keepID bool) (*reconcile.Folder, error) {
	if !keepID || folder.ID == "" {
		folder.ID = NewID()
	}
	row := models.Folder{ID: folder.ID, Name: folder.Name, Type: folder.Type}
	if folder.ParentID != "" {
		parent, err := s.FindFolder(ctx, folder.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent %s of %s", ErrFolderNotFound, folder.ParentID, folder.Name)
		}
		parentID := folder.ParentID
		row.ParentID = &parentID
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", folder.Name, err)
	}
	s.logger.Debug("Created folder", zap.String("id", row.ID), zap.String("name", row.Name))
	f := toFolder(row)
	return &f, nil
}

// IsPrivileged reports whether the configured actor is an assistant or gamemaster.
func (s *Store) IsPrivileged(ctx context.Context) bool {
	user, err := s.FindUserByName(ctx, s.actor)
	if err != nil {
		s.logger.Warn("Failed to resolve acting user", zap.String("actor", s.actor), zap.Error(err))
		return false
	}
	if user == nil {
		s.logger.Debug("Acting user not found", zap.String("actor", s.actor))
		return false
	}
	return user.Role >= RoleAssistant
}

// LoadSelection reads the persisted import selection.
func (s *Store) LoadSelection(ctx context.Context) (map[string]bool, error) {
	raw, ok, err := s.RawSetting(ctx, SelectionKey)
	if err != nil || !ok || raw == "" {
		return map[string]bool{}, err
	}
	var selection map[string]bool
	if err := json.Unmarshal([]byte(raw), &selection); err != nil {
		s.logger.Warn("Discarding unreadable import selection", zap.Error(err))
		return map[string]bool{}, nil
	}
	return selection, nil
}

// SaveSelection persists the import selection.
func (s *Store) SaveSelection(ctx context.Context, selection map[string]bool) error {
	b, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	row := models.Setting{Key: SelectionKey, Value: string(b)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// NewID returns a random 16 character document id.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func toUser(row models.User) (*reconcile.User, error) {
	permissions, err := decodeObject(row.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to decode permissions of %s: %w", row.Name, err)
	}
	flags, err := decodeObject(row.Flags)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flags of %s: %w", row.Name, err)
	}
	return &reconcile.User{
		ID:          row.ID,
		Name:        row.Name,
		Avatar:      row.Avatar,
		Color:       row.Color,
		Role:        row.Role,
		Permissions: permissions,
		Flags:       flags,
	}, nil
}

func toFolder(row models.Folder) reconcile.Folder {
	f := reconcile.Folder{ID: row.ID, Name: row.Name, Type: row.Type}
	if row.ParentID != nil {
		f.ParentID = *row.ParentID
	}
	return f
}

func decodeObject(raw string) (map[string]any, error) {
	out := map[string]any{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
