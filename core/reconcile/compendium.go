package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"
)

const (
	// CompendiumConfigurationKey maps compendium packs to the folders they are shown in.
	CompendiumConfigurationKey = "core.compendiumConfiguration"

	// CompendiumFolderType is the folder type of compendium folders.
	CompendiumFolderType = "Compendium"

	compendiumFolderField = "folder"
)

var errFolderCycle = errors.New("folder hierarchy contains a cycle")

// repairCompendium rewrites folder references of the imported compendium
// configuration so they resolve in the destination. On any failure the raw
// imported value is returned unchanged.
func (s *Session) repairCompendium(ctx context.Context, ws *WorldSetting) string {
	value, err := s.compendiumValue(ctx, ws)
	if err != nil {
		s.addDiagnostic(newDiagnostic(StageCommit, ws.Key, "could not repair compendium folders, importing raw value", err))
		return ws.RawValue
	}
	return value
}

func (s *Session) compendiumValue(ctx context.Context, ws *WorldSetting) (string, error) {
	parsed, err := ParseValue(ws.RawValue)
	if err != nil {
		return "", fmt.Errorf("failed to parse imported configuration: %w", err)
	}
	imported, ok := AsObject(parsed)
	if !ok {
		return "", fmt.Errorf("imported configuration is %s, not an object", typeOf(parsed))
	}

	var config map[string]any
	if err := deepcopy.Copy(&config, &imported); err != nil {
		return "", fmt.Errorf("failed to copy configuration: %w", err)
	}

	live, _ := AsObject(ws.Difference.OldValue)

	snapshots, err := s.supporting.CompendiumFolders()
	if err != nil {
		return "", err
	}

	r := &folderRepair{
		host:      s.host,
		snapshots: snapshots,
		resolved:  make(map[string]*Folder),
		logger:    s.logger,
	}

	for _, pack := range SortedKeys(config) {
		entry, ok := config[pack].(map[string]any)
		if !ok {
			continue
		}
		folderID, _ := entry[compendiumFolderField].(string)
		if folderID == "" {
			continue
		}

		if existing := liveFolderID(live, pack); existing != "" {
			folder, err := s.host.FindFolder(ctx, existing)
			if err != nil {
				return "", fmt.Errorf("failed to look up folder %s: %w", existing, err)
			}
			if folder != nil {
				entry[compendiumFolderField] = folder.ID
				continue
			}
		}

		folder, err := r.ensure(ctx, folderID, map[string]bool{})
		if err != nil {
			return "", err
		}
		if folder == nil {
			s.addDiagnostic(newDiagnostic(StageCommit, pack,
				fmt.Sprintf("folder %s not found and not in supporting data, keeping reference", folderID), nil))
			continue
		}
		entry[compendiumFolderField] = folder.ID
	}

	b, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to encode configuration: %w", err)
	}
	return string(b), nil
}

func liveFolderID(live map[string]any, pack string) string {
	entry, ok := live[pack].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := entry[compendiumFolderField].(string)
	return id
}

// folderRepair recreates compendium folders from supporting data snapshots.
type folderRepair struct {
	host      Host
	snapshots map[string]FolderSnapshot
	resolved  map[string]*Folder
	logger    *zap.Logger
}

// ensure returns the live folder for id, creating it and its ancestors from
// snapshots when needed. It returns nil when id is neither live nor snapshotted.
func (r *folderRepair) ensure(ctx context.Context, id string, visiting map[string]bool) (*Folder, error) {
	if f, ok := r.resolved[id]; ok {
		return f, nil
	}
	if visiting[id] {
		return nil, fmt.Errorf("%w at %s", errFolderCycle, id)
	}

	folder, err := r.host.FindFolder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up folder %s: %w", id, err)
	}
	if folder != nil {
		r.resolved[id] = folder
		return folder, nil
	}

	snap, ok := r.snapshots[id]
	if !ok {
		return nil, nil
	}

	visiting[id] = true
	parentID := ""
	if snap.ParentFolderID != "" {
		parent, err := r.ensure(ctx, snap.ParentFolderID, visiting)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			parentID = parent.ID
		} else {
			r.logger.Warn("Parent folder unavailable, creating at top level",
				zap.String("folder", id), zap.String("parent", snap.ParentFolderID))
		}
	}
	delete(visiting, id)

	created, err := r.host.CreateFolder(ctx, Folder{
		ID:       snap.ID,
		Name:     snap.Name,
		Type:     CompendiumFolderType,
		ParentID: parentID,
	}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", id, err)
	}

	r.logger.Info("Recreated compendium folder", zap.String("id", created.ID), zap.String("name", created.Name))
	r.resolved[id] = created
	return created, nil
}
