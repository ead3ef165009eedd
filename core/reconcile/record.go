package reconcile

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// WorldRecord is a world setting record of a snapshot.
type WorldRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PlayerCore holds the core attributes of a player record.
type PlayerCore struct {
	Avatar      any `json:"avatar"`
	Color       any `json:"color"`
	Role        any `json:"role"`
	Permissions any `json:"permissions"`
}

// Value returns the core attribute with the given field name.
func (c PlayerCore) Value(field string) any {
	switch field {
	case "avatar":
		return c.Avatar
	case FieldColor:
		return c.Color
	case FieldRole:
		return c.Role
	case FieldPermissions:
		return c.Permissions
	}
	return nil
}

// PlayerRecord is a per-user record of a snapshot.
type PlayerRecord struct {
	Name  string         `json:"name"`
	Core  PlayerCore     `json:"core"`
	Flags map[string]any `json:"flags"`
}

// SupportingRecord is the tagged auxiliary record of a snapshot.
type SupportingRecord struct {
	Type  string         `json:"type"`
	Value map[string]any `json:"value"`
}

// Record is one decoded snapshot record. Exactly one of World, Player and
// SupportingData is set, according to Kind.
type Record struct {
	Kind           Kind
	World          *WorldRecord
	Player         *PlayerRecord
	SupportingData SupportingData
	Raw            json.RawMessage
}

// DecodeRecord classifies one raw snapshot record by its shape.
// The first matching shape wins: tagged supporting data, then a world setting
// with a non-empty key and value, then a player with a non-empty name.
// Anything else decodes to KindUnknown together with an ErrUnknownRecord error.
func DecodeRecord(raw json.RawMessage) (Record, error) {
	rec := Record{Kind: KindUnknown, Raw: raw}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return rec, fmt.Errorf("%w: record is not an object", ErrUnknownRecord)
	}

	if tag, _ := fields["type"].(string); tag == SupportingDataType {
		if value, ok := fields["value"].(map[string]any); ok {
			rec.Kind = KindSupportingData
			rec.SupportingData = SupportingData(value)
			return rec, nil
		}
	}

	if key, _ := fields["key"].(string); key != "" {
		if value, ok := worldValue(fields["value"]); ok {
			rec.Kind = KindWorld
			rec.World = &WorldRecord{Key: key, Value: value}
			return rec, nil
		}
	}

	if name, _ := fields["name"].(string); name != "" {
		player := &PlayerRecord{Name: name}
		if core, ok := fields["core"].(map[string]any); ok {
			player.Core = PlayerCore{
				Avatar:      core["avatar"],
				Color:       core["color"],
				Role:        core["role"],
				Permissions: core["permissions"],
			}
		}
		if flags, ok := fields["flags"].(map[string]any); ok {
			player.Flags = flags
		}
		rec.Kind = KindPlayer
		rec.Player = player
		return rec, nil
	}

	return rec, fmt.Errorf("%w: no known shape matched", ErrUnknownRecord)
}

// worldValue returns the serialized setting value of a world record.
// Older snapshots may carry the value unserialized, so non-strings are encoded.
func worldValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Setting wraps one classified record together with its comparison result.
type Setting struct {
	Kind           Kind
	World          *WorldSetting
	Player         *PlayerSetting
	SupportingData SupportingData
}

// NewSetting compares a decoded record against the destination.
// A nil Setting means the record had to be skipped; the diagnostic says why.
// A Setting may also come with a diagnostic when comparison fell back to a
// weaker strategy.
func NewSetting(ctx context.Context, rec Record, host Reader, opts Options) (*Setting, *Diagnostic) {
	switch rec.Kind {
	case KindWorld:
		ws, diag := NewWorldSetting(ctx, *rec.World, host, opts)
		return &Setting{Kind: KindWorld, World: ws}, diag
	case KindPlayer:
		ps, err := NewPlayerSetting(ctx, *rec.Player, host, opts)
		if err != nil {
			d := newDiagnostic(StageParse, rec.Player.Name, "could not compare player", err)
			return nil, &d
		}
		return &Setting{Kind: KindPlayer, Player: ps}, nil
	case KindSupportingData:
		return &Setting{Kind: KindSupportingData, SupportingData: rec.SupportingData}, nil
	}
	d := newDiagnostic(StageParse, string(rec.Raw), "unknown setting received", ErrUnknownRecord)
	return nil, &d
}

// HasChanges reports whether the wrapped record differs from the destination.
// Unknown and supporting data records never count as changes.
func (s *Setting) HasChanges() bool {
	switch s.Kind {
	case KindWorld:
		return s.World.HasChanges()
	case KindPlayer:
		return s.Player.HasChanges()
	}
	return false
}
