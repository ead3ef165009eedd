package reconcile

import (
	"context"
	"strings"
)

// WorldSetting represents one exported world level setting.
type WorldSetting struct {
	// Key is the full setting key, e.g. "core.compendiumConfiguration".
	Key string `json:"key"`

	// RawValue is the serialized value from the snapshot.
	RawValue string `json:"value"`

	// Group is the owning namespace (first dot segment of Key).
	Group string `json:"group"`

	// Difference compares the live value with the imported one.
	Difference Difference `json:"difference"`
}

// SplitKey splits a setting key into its namespace and the remainder.
func SplitKey(key string) (namespace, name string) {
	namespace, name, _ = strings.Cut(key, ".")
	return namespace, name
}

// NewWorldSetting builds a world setting and compares it against the live value.
// A non-nil diagnostic means the structured comparison failed and the raw
// string values were compared instead.
func NewWorldSetting(ctx context.Context, rec WorldRecord, host Reader, opts Options) (*WorldSetting, *Diagnostic) {
	namespace, _ := SplitKey(rec.Key)
	ws := &WorldSetting{
		Key:      rec.Key,
		RawValue: rec.Value,
		Group:    namespace,
	}
	diff, diag := ws.calculateDifference(ctx, host, opts)
	ws.Difference = diff
	return ws, diag
}

// HasChanges reports whether the imported value differs from the live one.
func (w *WorldSetting) HasChanges() bool {
	return w.Difference.HasChanges()
}

// calculateDifference compares parsed values when possible so that key order
// and whitespace in serialized objects do not count as changes.
func (w *WorldSetting) calculateDifference(ctx context.Context, host Reader, opts Options) (Difference, *Diagnostic) {
	namespace, name := SplitKey(w.Key)

	existing, err := host.ReadSetting(ctx, namespace, name)
	if err != nil {
		// Not registered, likely because the module isn't enabled.
		existing = Undefined
	}

	newValue, err := ParseValue(w.RawValue)
	if err != nil {
		d := newDiagnostic(StageParse, w.Key, "could not parse world setting value, comparing raw values", err)
		return w.rawDifference(ctx, host, opts), &d
	}

	existingObj, existingIsObj := AsObject(existing)
	newObj, newIsObj := AsObject(newValue)
	if existingIsObj && newIsObj && IsEmpty(DiffObject(existingObj, newObj)) {
		return unchangedDifference(w.Key, existing, newValue, opts.DiffLength), nil
	}

	return NewDifference(w.Key, existing, newValue, opts.DiffLength), nil
}

// rawDifference compares the stored serialized value with the imported one.
func (w *WorldSetting) rawDifference(ctx context.Context, host Reader, opts Options) Difference {
	var existing any = Undefined
	if raw, ok, err := host.RawSetting(ctx, w.Key); err == nil && ok {
		existing = raw
	}
	return NewDifference(w.Key, existing, w.RawValue, opts.DiffLength)
}
