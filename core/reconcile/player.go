package reconcile

import (
	"context"
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// Core user fields compared between a snapshot and the destination.
const (
	FieldColor       = "color"
	FieldRole        = "role"
	FieldPermissions = "permissions"
)

// CoreFieldKey returns the selection key of a core field of a player.
func CoreFieldKey(player, field string) string {
	return player + "--" + field
}

// FlagFieldKey returns the selection key of a flag of a player.
func FlagFieldKey(player, flag string) string {
	return player + "--flag--" + flag
}

// PlayerSetting represents one exported player record.
type PlayerSetting struct {
	// Name is the user name used to find the destination user.
	Name string `json:"name"`

	// CoreDifferences holds differing core attributes keyed by field name.
	CoreDifferences map[string]Difference `json:"core_differences"`

	// FlagDifferences holds differing flags keyed by flag name.
	FlagDifferences map[string]Difference `json:"flag_differences"`

	// PlayerNotFound is true when no destination user has this name.
	PlayerNotFound bool `json:"player_not_found"`

	record PlayerRecord
	user   *User
}

// NewPlayerSetting resolves the destination user by name and compares it with the record.
// If two users share the name the first one returned by the host wins.
func NewPlayerSetting(ctx context.Context, rec PlayerRecord, host Reader, opts Options) (*PlayerSetting, error) {
	p := &PlayerSetting{
		Name:            rec.Name,
		CoreDifferences: make(map[string]Difference),
		FlagDifferences: make(map[string]Difference),
		record:          rec,
	}

	user, err := host.FindUserByName(ctx, rec.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %q: %w", rec.Name, err)
	}
	if user == nil {
		p.PlayerNotFound = true
		return p, nil
	}
	p.user = user

	p.compareCore(FieldColor, user.Color, opts)
	p.compareCore(FieldRole, user.Role, opts)
	p.compareCore(FieldPermissions, user.Permissions, opts)

	for flag, changed := range DiffObject(user.Flags, rec.Flags) {
		var existing any = Undefined
		if v, ok := user.Flags[flag]; ok {
			existing = v
		}
		p.FlagDifferences[flag] = NewDifference(flag, existing, changed, opts.DiffLength)
	}

	return p, nil
}

// compareCore records a difference for field. A field absent from the record,
// or null, leaves the live value alone and is never offered.
func (p *PlayerSetting) compareCore(field string, live any, opts Options) {
	imported := p.record.Core.Value(field)
	if imported == nil || IsUndefined(imported) {
		return
	}
	if !Equal(imported, live) {
		p.CoreDifferences[field] = NewDifference(field, live, imported, opts.DiffLength)
	}
}

// HasChanges reports whether the player should be offered for import.
// A missing player always counts as a change.
func (p *PlayerSetting) HasChanges() bool {
	return p.PlayerNotFound || p.HasDataChanges()
}

// HasDataChanges reports whether any core attribute or flag differs.
// A player that was not found has no data changes.
func (p *PlayerSetting) HasDataChanges() bool {
	return len(p.CoreDifferences) != 0 || len(p.FlagDifferences) != 0
}

// User returns the resolved destination user, or nil when not found.
func (p *PlayerSetting) User() *User {
	return p.user
}

// FieldKeys returns the selection keys for this player in a stable order.
// A missing player is addressed by its name alone.
func (p *PlayerSetting) FieldKeys() []string {
	if p.PlayerNotFound {
		return []string{p.Name}
	}
	keys := make([]string, 0, len(p.CoreDifferences)+len(p.FlagDifferences))
	for _, field := range SortedKeys(p.CoreDifferences) {
		keys = append(keys, CoreFieldKey(p.Name, field))
	}
	for _, flag := range SortedKeys(p.FlagDifferences) {
		keys = append(keys, FlagFieldKey(p.Name, flag))
	}
	return keys
}

// Update builds one combined update holding every selected core field and flag.
// Values are copied from the imported record so the session state is never shared.
func (p *PlayerSetting) Update(selected func(key string) bool) (UserUpdate, error) {
	var update UserUpdate
	if p.PlayerNotFound {
		return update, nil
	}

	for _, field := range SortedKeys(p.CoreDifferences) {
		if !selected(CoreFieldKey(p.Name, field)) {
			continue
		}
		if update.Fields == nil {
			update.Fields = make(map[string]any)
		}
		update.Fields[field] = p.record.Core.Value(field)
	}

	for _, flag := range SortedKeys(p.FlagDifferences) {
		if !selected(FlagFieldKey(p.Name, flag)) {
			continue
		}
		if update.Flags == nil {
			update.Flags = make(map[string]any)
		}
		update.Flags[flag] = p.record.Flags[flag]
	}

	if update.IsEmpty() {
		return update, nil
	}

	var copied UserUpdate
	if err := deepcopy.Copy(&copied, &update); err != nil {
		return UserUpdate{}, fmt.Errorf("failed to copy update for %q: %w", p.Name, err)
	}
	return copied, nil
}
