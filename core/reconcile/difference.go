package reconcile

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Undefined marks a value that does not exist on one side of a comparison,
// e.g. a setting whose owning module is not installed in the destination.
var Undefined any = undefined{}

type undefined struct{}

func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (undefined) String() string { return "undefined" }

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// truncationMarker is appended to display strings that were cut.
const truncationMarker = "..."

// Difference represents the difference between an existing value and the proposed one.
type Difference struct {
	// Name is the field or setting key being compared.
	Name string `json:"name"`

	// OldValue is the live value in the destination world.
	OldValue any `json:"old_value"`

	// NewValue is the imported value.
	NewValue any `json:"new_value"`

	// OldDisplay is the serialized OldValue, bounded for display.
	OldDisplay string `json:"old_display"`

	// NewDisplay is the serialized NewValue, bounded for display.
	NewDisplay string `json:"new_display"`

	// Changed records whether OldValue and NewValue differ by value.
	Changed bool `json:"has_change"`
}

// NewDifference compares oldValue and newValue.
// Display strings are truncated to maxDisplay runes; zero or negative disables truncation.
func NewDifference(name string, oldValue, newValue any, maxDisplay int) Difference {
	return Difference{
		Name:       name,
		OldValue:   oldValue,
		NewValue:   newValue,
		OldDisplay: display(oldValue, maxDisplay),
		NewDisplay: display(newValue, maxDisplay),
		Changed:    !Equal(oldValue, newValue),
	}
}

// unchangedDifference builds a difference that is known to carry no change
// even though the raw values may not be identical.
func unchangedDifference(name string, oldValue, newValue any, maxDisplay int) Difference {
	d := NewDifference(name, oldValue, newValue, maxDisplay)
	d.Changed = false
	return d
}

// HasChanges reports whether the old and new values differ.
func (d Difference) HasChanges() bool {
	return d.Changed
}

func display(v any, maxDisplay int) string {
	if IsUndefined(v) {
		return "undefined"
	}
	s := ""
	if b, err := json.Marshal(v); err == nil {
		s = string(b)
	} else {
		s = fmt.Sprintf("%v", v)
	}
	return truncate(s, maxDisplay)
}

func truncate(s string, maxDisplay int) string {
	if maxDisplay <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxDisplay {
		return s
	}
	return string(r[:maxDisplay]) + truncationMarker
}
