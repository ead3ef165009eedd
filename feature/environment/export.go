package environment

import (
	"context"
	"fmt"
	"time"

	"copy-environment/core/reconcile"
	"copy-environment/feature/world"
	"copy-environment/feature/world/models"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// Export file names.
const (
	SummaryFile  = "foundry-environment.json"
	SettingsFile = "foundry-settings-export.json"
	PlayersFile  = "foundry-player-settings-export.json"
	SnapshotFile = "foundry-environment-snapshot.json"
)

// Source is the live world an export reads from.
type Source interface {
	ListSettings(ctx context.Context) ([]world.StoredSetting, error)
	ListUsers(ctx context.Context) ([]reconcile.User, error)
	ListFolders(ctx context.Context, folderType string) ([]reconcile.Folder, error)
	ListPackages(ctx context.Context) ([]models.Package, error)
}

// Export is a captured world environment.
type Export struct {
	Settings   []reconcile.WorldRecord  `json:"settings"`
	Players    []reconcile.PlayerRecord `json:"players"`
	Supporting reconcile.SupportingData `json:"supporting_data"`
	Summary    Summary                  `json:"summary"`
	Built      time.Time                `json:"built"`
}

// BuildExport reads settings, users, compendium folders and packages
// concurrently and assembles an export.
// Settings still equal to their registered default are left out.
func BuildExport(ctx context.Context, src Source) (*Export, error) {
	var (
		settings []world.StoredSetting
		users    []reconcile.User
		folders  []reconcile.Folder
		packages []models.Package
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		settings, err = src.ListSettings(ctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = src.ListUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		folders, err = src.ListFolders(ctx, reconcile.CompendiumFolderType)
		return err
	})
	g.Go(func() (err error) {
		packages, err = src.ListPackages(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read world: %w", err)
	}

	e := &Export{
		Settings: make([]reconcile.WorldRecord, 0, len(settings)),
		Players:  make([]reconcile.PlayerRecord, 0, len(users)),
		Summary:  NewSummary(packages),
		Built:    time.Now(),
	}

	for _, s := range settings {
		if s.Registered && isDefault(s.Value, s.DefaultValue) {
			continue
		}
		e.Settings = append(e.Settings, reconcile.WorldRecord{Key: s.Key, Value: s.Value})
	}

	for _, u := range users {
		e.Players = append(e.Players, reconcile.PlayerRecord{
			Name: u.Name,
			Core: reconcile.PlayerCore{
				Avatar:      u.Avatar,
				Color:       u.Color,
				Role:        u.Role,
				Permissions: u.Permissions,
			},
			Flags: u.Flags,
		})
	}

	snapshots := make([]reconcile.FolderSnapshot, len(folders))
	for i, f := range folders {
		snapshots[i] = reconcile.FolderSnapshot{ID: f.ID, Name: f.Name, ParentFolderID: f.ParentID}
	}
	e.Supporting = reconcile.NewSupportingData(snapshots)

	return e, nil
}

// isDefault compares structurally when both sides are JSON and textually otherwise.
func isDefault(value, def string) bool {
	v, err := reconcile.ParseValue(value)
	if err != nil {
		return value == def
	}
	d, err := reconcile.ParseValue(def)
	if err != nil {
		return false
	}
	return reconcile.Equal(v, d)
}

// Snapshot returns the full import document: world settings, then players,
// then one supporting data record.
func (e *Export) Snapshot() []any {
	doc := make([]any, 0, len(e.Settings)+len(e.Players)+1)
	for _, s := range e.Settings {
		doc = append(doc, s)
	}
	for _, p := range e.Players {
		doc = append(doc, p)
	}
	return append(doc, reconcile.SupportingRecord{
		Type:  reconcile.SupportingDataType,
		Value: e.Supporting,
	})
}

// Document returns the export document stored under the given file name.
func (e *Export) Document(file string) (any, error) {
	switch file {
	case SummaryFile:
		return e.Summary, nil
	case SettingsFile:
		return e.Settings, nil
	case PlayersFile:
		return e.Players, nil
	case SnapshotFile:
		return e.Snapshot(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, file)
}

// Encode renders v as indented JSON.
func Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
