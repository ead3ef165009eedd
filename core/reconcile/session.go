package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Group holds the differing world settings of one namespace, sorted by key.
type Group struct {
	Name     string
	Settings []*WorldSetting
}

// Session is one import cycle: load a snapshot, select fields, commit.
// A Session is not safe for concurrent use.
type Session struct {
	host      Host
	selection *Selection
	logger    *zap.Logger
	opts      Options

	groups      []Group
	changed     []*PlayerSetting
	unchanged   []*PlayerSetting
	missing     []*PlayerSetting
	supporting  SupportingData
	diagnostics []Diagnostic

	// keys indexes every selectable key.
	keys map[string]struct{}
}

// NewSession creates an empty session against host.
func NewSession(host Host, selection *Selection, logger *zap.Logger, opts Options) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if selection == nil {
		selection = &Selection{values: make(map[string]bool)}
	}
	return &Session{
		host:       host,
		selection:  selection,
		logger:     logger,
		opts:       opts,
		supporting: SupportingData{},
		keys:       make(map[string]struct{}),
	}
}

// ParseDocument splits a snapshot document into its raw records.
func ParseDocument(data []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: document is not an array", ErrInvalidDocument)
	}
	return records, nil
}

// Load parses a snapshot and replaces the session's working set.
// When the document cannot be parsed the previous working set is kept.
func (s *Session) Load(ctx context.Context, data []byte) error {
	records, err := ParseDocument(data)
	if err != nil {
		return err
	}

	s.reset()

	worlds := make(map[string]*WorldSetting)
	players := make(map[string]*PlayerSetting)
	for i, raw := range records {
		rec, err := DecodeRecord(raw)
		if err != nil {
			s.addDiagnostic(newDiagnostic(StageParse, fmt.Sprintf("record %d", i), "skipped unrecognized record", err))
			continue
		}

		setting, diag := NewSetting(ctx, rec, s.host, s.opts)
		if diag != nil {
			s.addDiagnostic(*diag)
		}
		if setting == nil {
			continue
		}

		switch setting.Kind {
		case KindWorld:
			if _, dup := worlds[setting.World.Key]; dup {
				s.addDiagnostic(newDiagnostic(StageParse, setting.World.Key, "duplicate world setting, keeping the last one", nil))
			}
			worlds[setting.World.Key] = setting.World
		case KindPlayer:
			if _, dup := players[setting.Player.Name]; dup {
				s.addDiagnostic(newDiagnostic(StageParse, setting.Player.Name, "duplicate player, keeping the last one", nil))
			}
			players[setting.Player.Name] = setting.Player
		case KindSupportingData:
			merged, err := s.supporting.Merge(setting.SupportingData)
			if err != nil {
				s.addDiagnostic(newDiagnostic(StageParse, SupportingDataType, "could not merge supporting data", err))
				continue
			}
			s.supporting = merged
		}
	}

	s.buildGroups(worlds)
	s.partitionPlayers(players)

	if v := s.supporting.FormatVersion(); v > CurrentFormatVersion {
		s.addDiagnostic(newDiagnostic(StageParse, FormatVersionKey,
			fmt.Sprintf("snapshot format %d is newer than %d, importing leniently", v, CurrentFormatVersion), nil))
	}

	s.logger.Debug("Loaded snapshot",
		zap.Int("records", len(records)),
		zap.Int("groups", len(s.groups)),
		zap.Int("changed_players", len(s.changed)),
		zap.Int("missing_players", len(s.missing)),
		zap.Int("diagnostics", len(s.diagnostics)))

	return nil
}

func (s *Session) reset() {
	s.groups = nil
	s.changed = nil
	s.unchanged = nil
	s.missing = nil
	s.supporting = SupportingData{}
	s.diagnostics = nil
	s.keys = make(map[string]struct{})
}

func (s *Session) buildGroups(worlds map[string]*WorldSetting) {
	byGroup := make(map[string][]*WorldSetting)
	for _, key := range SortedKeys(worlds) {
		ws := worlds[key]
		if !ws.HasChanges() {
			continue
		}
		byGroup[ws.Group] = append(byGroup[ws.Group], ws)
		s.keys[ws.Key] = struct{}{}
	}
	for _, name := range SortedKeys(byGroup) {
		s.groups = append(s.groups, Group{Name: name, Settings: byGroup[name]})
	}
}

func (s *Session) partitionPlayers(players map[string]*PlayerSetting) {
	for _, name := range SortedKeys(players) {
		p := players[name]
		switch {
		case p.PlayerNotFound:
			s.missing = append(s.missing, p)
		case p.HasDataChanges():
			s.changed = append(s.changed, p)
		default:
			s.unchanged = append(s.unchanged, p)
			continue
		}
		for _, key := range p.FieldKeys() {
			s.keys[key] = struct{}{}
		}
	}
}

func (s *Session) addDiagnostic(d Diagnostic) {
	s.logger.Warn("Skipped while reconciling",
		zap.String("stage", string(d.Stage)),
		zap.String("subject", d.Subject),
		zap.String("message", d.Message),
		zap.String("error", d.Error))
	s.diagnostics = append(s.diagnostics, d)
}

// Groups returns the differing world settings grouped by namespace.
func (s *Session) Groups() []Group {
	return s.groups
}

// Group returns the group with the given name.
func (s *Session) Group(name string) (Group, bool) {
	i := sort.Search(len(s.groups), func(i int) bool { return s.groups[i].Name >= name })
	if i < len(s.groups) && s.groups[i].Name == name {
		return s.groups[i], true
	}
	return Group{}, false
}

// ChangedPlayers returns the players whose data differs.
func (s *Session) ChangedPlayers() []*PlayerSetting {
	return s.changed
}

// UnchangedPlayers returns the players that match the destination. They are never imported.
func (s *Session) UnchangedPlayers() []*PlayerSetting {
	return s.unchanged
}

// MissingPlayers returns the players with no matching destination user.
func (s *Session) MissingPlayers() []*PlayerSetting {
	return s.missing
}

// SupportingData returns the merged supporting data.
func (s *Session) SupportingData() SupportingData {
	return s.supporting
}

// Diagnostics returns every record or key that was skipped or degraded.
func (s *Session) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// Selection returns the selection state used by the session.
func (s *Session) Selection() *Selection {
	return s.selection
}

// HasChanges reports whether anything can be imported.
func (s *Session) HasChanges() bool {
	return len(s.keys) != 0
}

// Keys returns every selectable key in display order.
func (s *Session) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for _, g := range s.groups {
		keys = append(keys, g.keys()...)
	}
	for _, p := range s.players() {
		keys = append(keys, p.FieldKeys()...)
	}
	return keys
}

func (s *Session) players() []*PlayerSetting {
	out := make([]*PlayerSetting, 0, len(s.changed)+len(s.missing))
	out = append(out, s.changed...)
	return append(out, s.missing...)
}

func (s *Session) player(name string) (*PlayerSetting, bool) {
	for _, p := range s.players() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (g Group) keys() []string {
	keys := make([]string, len(g.Settings))
	for i, ws := range g.Settings {
		keys[i] = ws.Key
	}
	return keys
}

// Toggle checks or unchecks one field.
func (s *Session) Toggle(ctx context.Context, key string, checked bool) error {
	if _, ok := s.keys[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return s.selection.Set(ctx, key, checked)
}

// ToggleGroup sets every field of a group to checked.
func (s *Session) ToggleGroup(ctx context.Context, name string, checked bool) error {
	g, ok := s.Group(name)
	if !ok {
		return fmt.Errorf("%w: group %s", ErrUnknownField, name)
	}
	return s.selection.SetMany(ctx, g.keys(), checked)
}

// TogglePlayer sets every field of a player to checked.
func (s *Session) TogglePlayer(ctx context.Context, name string, checked bool) error {
	p, ok := s.player(name)
	if !ok {
		return fmt.Errorf("%w: player %s", ErrUnknownField, name)
	}
	return s.selection.SetMany(ctx, p.FieldKeys(), checked)
}

// ToggleAll sets every field of the session to checked.
func (s *Session) ToggleAll(ctx context.Context, checked bool) error {
	return s.selection.SetMany(ctx, s.Keys(), checked)
}

// GroupState returns the aggregate state of a group.
func (s *Session) GroupState(name string) TriState {
	g, ok := s.Group(name)
	if !ok {
		return TriStateNone
	}
	return s.selection.State(g.keys())
}

// PlayerState returns the aggregate state of a player.
func (s *Session) PlayerState(name string) TriState {
	p, ok := s.player(name)
	if !ok {
		return TriStateNone
	}
	return s.selection.State(p.FieldKeys())
}

// State returns the aggregate state of the whole session.
func (s *Session) State() TriState {
	return s.selection.State(s.Keys())
}
