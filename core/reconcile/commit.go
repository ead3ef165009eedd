package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SkippedChange is a selected change that was not applied.
type SkippedChange struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// FailedBatch is a batch whose dispatch failed. Its differences stay in the
// session so the commit can be retried.
type FailedBatch struct {
	Action string   `json:"action"`
	Keys   []string `json:"keys"`
	Error  string   `json:"error"`
}

// CommitResult describes what a commit applied.
type CommitResult struct {
	Updated        []string        `json:"updated"`
	Created        []string        `json:"created"`
	Local          []string        `json:"local"`
	Players        []string        `json:"players"`
	Skipped        []SkippedChange `json:"skipped"`
	Failed         []FailedBatch   `json:"failed"`
	ReloadRequired bool            `json:"reload_required"`
}

// Applied returns the number of applied changes.
func (r *CommitResult) Applied() int {
	return len(r.Updated) + len(r.Created) + len(r.Local) + len(r.Players)
}

func (r *CommitResult) skip(key, reason string) {
	r.Skipped = append(r.Skipped, SkippedChange{Key: key, Reason: reason})
}

// Commit applies the selected changes.
// World setting updates are dispatched as one batch, then creates, then one
// update per player. Only batch dispatch failures are returned, joined; every
// other problem is recorded as a skipped change or a diagnostic.
func (s *Session) Commit(ctx context.Context) (*CommitResult, error) {
	result := &CommitResult{}
	var errs []error

	updates, creates := s.stageWorldSettings(ctx, result)

	if err := s.dispatch(ctx, ActionUpdate, updates, result); err != nil {
		errs = append(errs, err)
	}
	if err := s.dispatch(ctx, ActionCreate, creates, result); err != nil {
		errs = append(errs, err)
	}
	if err := s.commitPlayers(ctx, result); err != nil {
		errs = append(errs, err)
	}

	result.ReloadRequired = result.Applied() > 0

	s.logger.Info("Committed import",
		zap.Int("updated", len(result.Updated)),
		zap.Int("created", len(result.Created)),
		zap.Int("local", len(result.Local)),
		zap.Int("players", len(result.Players)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)))

	return result, errors.Join(errs...)
}

// stageWorldSettings writes selected client settings locally and partitions
// the selected world settings into updates and creates.
func (s *Session) stageWorldSettings(ctx context.Context, result *CommitResult) (updates, creates []SettingData) {
	privileged := s.host.IsPrivileged(ctx)

	for _, g := range s.groups {
		for _, ws := range g.Settings {
			if !s.selection.IsSelected(ws.Key) {
				continue
			}

			if scope, ok := s.host.SettingScope(ctx, ws.Key); ok && scope == ScopeClient {
				if err := s.host.WriteLocalSetting(ctx, ws.Key, ws.RawValue); err != nil {
					s.addDiagnostic(newDiagnostic(StageCommit, ws.Key, "could not write local setting", err))
					result.skip(ws.Key, "local write failed")
					continue
				}
				result.Local = append(result.Local, ws.Key)
				continue
			}

			if !privileged {
				s.logger.Debug("Skipping world setting, current user is not privileged", zap.String("key", ws.Key))
				result.skip(ws.Key, ErrNotPrivileged.Error())
				continue
			}

			value := ws.RawValue
			if ws.Key == CompendiumConfigurationKey {
				value = s.repairCompendium(ctx, ws)
			}

			_, exists, err := s.host.RawSetting(ctx, ws.Key)
			if err != nil {
				s.addDiagnostic(newDiagnostic(StageCommit, ws.Key, "could not read stored setting", err))
				result.skip(ws.Key, "stored value unreadable")
				continue
			}

			data := SettingData{Key: ws.Key, Value: value}
			if exists {
				updates = append(updates, data)
			} else {
				creates = append(creates, data)
			}
		}
	}
	return updates, creates
}

func (s *Session) dispatch(ctx context.Context, action ActionType, settings []SettingData, result *CommitResult) error {
	if len(settings) == 0 {
		return nil
	}

	keys := make([]string, len(settings))
	for i, d := range settings {
		keys[i] = d.Key
	}

	change := DocumentChange{Type: SettingDocumentType, Action: action, Settings: settings}
	if err := s.host.DispatchSettings(ctx, change); err != nil {
		s.logger.Error("Failed to dispatch settings",
			zap.String("action", string(action)),
			zap.Strings("keys", keys),
			zap.Error(err))
		result.Failed = append(result.Failed, FailedBatch{Action: string(action), Keys: keys, Error: err.Error()})
		return fmt.Errorf("failed to %s %d settings: %w", action, len(settings), err)
	}

	switch action {
	case ActionUpdate:
		result.Updated = append(result.Updated, keys...)
	case ActionCreate:
		result.Created = append(result.Created, keys...)
	}
	return nil
}

func (s *Session) commitPlayers(ctx context.Context, result *CommitResult) error {
	var errs []error

	for _, p := range s.changed {
		update, err := p.Update(s.selection.IsSelected)
		if err != nil {
			s.addDiagnostic(newDiagnostic(StageCommit, p.Name, "could not build player update", err))
			result.skip(p.Name, "update could not be built")
			continue
		}
		if update.IsEmpty() {
			s.logger.Info("No fields selected for player, skipping", zap.String("player", p.Name))
			continue
		}

		if err := s.host.UpdateUser(ctx, p.User(), update); err != nil {
			s.logger.Error("Failed to update player", zap.String("player", p.Name), zap.Error(err))
			result.Failed = append(result.Failed, FailedBatch{Action: "player", Keys: []string{p.Name}, Error: err.Error()})
			errs = append(errs, fmt.Errorf("failed to update player %q: %w", p.Name, err))
			continue
		}
		result.Players = append(result.Players, p.Name)
	}

	for _, p := range s.missing {
		if !s.selection.IsSelected(p.Name) {
			continue
		}
		s.logger.Warn("Selected player does not exist in this world", zap.String("player", p.Name))
		result.skip(p.Name, "player not found")
	}

	return errors.Join(errs...)
}
