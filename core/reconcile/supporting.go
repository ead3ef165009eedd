package reconcile

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tiendc/go-deepcopy"
)

const (
	// CompendiumFoldersKey holds the compendium folder snapshots.
	CompendiumFoldersKey = "compendiumFolders"

	// FormatVersionKey holds the snapshot format version.
	FormatVersionKey = "formatVersion"

	// CurrentFormatVersion is the snapshot format this package writes.
	CurrentFormatVersion = 1
)

// FolderSnapshot is a folder captured at export time.
type FolderSnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ParentFolderID string `json:"parentFolderId,omitempty"`
}

// SupportingData is the open bag of auxiliary export context.
type SupportingData map[string]any

// NewSupportingData builds the supporting data written by an export.
func NewSupportingData(folders []FolderSnapshot) SupportingData {
	list := make([]any, 0, len(folders))
	for _, f := range folders {
		entry := map[string]any{"id": f.ID, "name": f.Name}
		if f.ParentFolderID != "" {
			entry["parentFolderId"] = f.ParentFolderID
		}
		list = append(list, entry)
	}
	return SupportingData{
		CompendiumFoldersKey: list,
		FormatVersionKey:     CurrentFormatVersion,
	}
}

// Merge merges other over s recursively and returns the result.
// Values of other are copied so later mutation of either bag is isolated.
func (s SupportingData) Merge(other SupportingData) (SupportingData, error) {
	src := map[string]any(other)
	var copied map[string]any
	if err := deepcopy.Copy(&copied, &src); err != nil {
		return s, fmt.Errorf("failed to copy supporting data: %w", err)
	}
	return SupportingData(MergeObject(s, copied)), nil
}

// CompendiumFolders returns the folder snapshots keyed by folder id.
func (s SupportingData) CompendiumFolders() (map[string]FolderSnapshot, error) {
	raw, ok := s[CompendiumFoldersKey]
	if !ok || raw == nil {
		return map[string]FolderSnapshot{}, nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compendium folders: %w", err)
	}
	var folders []FolderSnapshot
	if err := json.Unmarshal(b, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode compendium folders: %w", err)
	}

	out := make(map[string]FolderSnapshot, len(folders))
	for _, f := range folders {
		if f.ID == "" {
			continue
		}
		out[f.ID] = f
	}
	return out, nil
}

// FormatVersion returns the snapshot format version, defaulting to 1 when absent.
func (s SupportingData) FormatVersion() int {
	switch v := normalize(s[FormatVersionKey]).(type) {
	case float64:
		return int(v)
	}
	return CurrentFormatVersion
}
