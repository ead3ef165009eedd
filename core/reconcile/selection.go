package reconcile

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// SelectionStore persists the selection mapping of one destination world.
type SelectionStore interface {
	LoadSelection(ctx context.Context) (map[string]bool, error)
	SaveSelection(ctx context.Context, selection map[string]bool) error
}

// Selection tracks which field keys are checked for the next commit.
// Keys never toggled are selected.
type Selection struct {
	mu     sync.Mutex
	store  SelectionStore
	values map[string]bool
}

// LoadSelection reads the persisted selection. A nil store keeps it in memory only.
func LoadSelection(ctx context.Context, store SelectionStore) (*Selection, error) {
	s := &Selection{store: store, values: make(map[string]bool)}
	if store == nil {
		return s, nil
	}
	values, err := store.LoadSelection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	maps.Copy(s.values, values)
	return s, nil
}

// IsSelected reports whether key is checked.
func (s *Selection) IsSelected(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	checked, ok := s.values[key]
	return !ok || checked
}

// Set checks or unchecks a single key and persists the mapping.
func (s *Selection) Set(ctx context.Context, key string, checked bool) error {
	return s.SetMany(ctx, []string{key}, checked)
}

// SetMany sets every key to checked and persists the mapping once.
func (s *Selection) SetMany(ctx context.Context, keys []string, checked bool) error {
	s.mu.Lock()
	for _, key := range keys {
		s.values[key] = checked
	}
	snapshot := maps.Clone(s.values)
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.SaveSelection(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the explicitly stored values.
func (s *Selection) Snapshot() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

// State aggregates the checked state of keys.
func (s *Selection) State(keys []string) TriState {
	checked := 0
	for _, key := range keys {
		if s.IsSelected(key) {
			checked++
		}
	}
	return Aggregate(checked, len(keys))
}

// TriState is the aggregate checkbox state of a group of keys.
type TriState string

const (
	TriStateNone TriState = "none"
	TriStateAll  TriState = "all"
	TriStateSome TriState = "some"
)

// Aggregate derives the tri-state from leaf counts. An empty scope is none.
func Aggregate(checked, total int) TriState {
	switch {
	case total == 0 || checked == 0:
		return TriStateNone
	case checked >= total:
		return TriStateAll
	default:
		return TriStateSome
	}
}
