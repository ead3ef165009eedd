package environment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"copy-environment/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// World is the destination world: a reconcile host that can also be exported.
type World interface {
	reconcile.Host
	reconcile.SelectionStore
	Source
}

// ImportSession is the active import of a snapshot.
type ImportSession struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Created time.Time `json:"created"`

	session *reconcile.Session
}

// SelectionRequest changes the selection of an import session.
// Keys toggle single fields, Groups whole namespaces and Players every field
// of a player. All, when set, is applied first.
type SelectionRequest struct {
	All     *bool           `json:"all,omitempty"`
	Groups  map[string]bool `json:"groups,omitempty"`
	Players map[string]bool `json:"players,omitempty"`
	Keys    map[string]bool `json:"keys,omitempty"`
}

// Service exports the world environment and drives import sessions.
// It keeps at most one import session, a new import replaces the previous one.
type Service struct {
	world   World
	archive *Archive
	cache   *ExportCache
	logger  *zap.Logger
	opts    reconcile.Options

	mu     sync.Mutex
	active *ImportSession
}

// NewService creates an environment service.
func NewService(w World, archive *Archive, logger *zap.Logger, opts reconcile.Options, cacheTTL time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{world: w, archive: archive, logger: logger, opts: opts}
	s.cache = NewExportCache(cacheTTL, func(ctx context.Context) (*Export, error) {
		return BuildExport(ctx, w)
	})
	return s
}

// Export returns the current world export.
func (s *Service) Export(ctx context.Context) (*Export, error) {
	return s.cache.Get(ctx)
}

// Summary returns the environment summary of the world.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	e, err := s.cache.Get(ctx)
	if err != nil {
		return Summary{}, err
	}
	return e.Summary, nil
}

// ArchiveSnapshot builds a fresh snapshot and stores it in the archive.
// It returns the archive name.
func (s *Service) ArchiveSnapshot(ctx context.Context) (string, error) {
	if !s.archive.Enabled() {
		return "", ErrArchiveDisabled
	}
	s.cache.Invalidate()
	e, err := s.cache.Get(ctx)
	if err != nil {
		return "", err
	}
	data, err := Encode(e.Snapshot())
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	name := SnapshotName(e.Built)
	if err := s.archive.Put(ctx, name, data); err != nil {
		return "", err
	}
	s.logger.Info("Archived snapshot", zap.String("name", name), zap.Int("bytes", len(data)))
	return name, nil
}

// Archives lists the archived snapshots.
func (s *Service) Archives(ctx context.Context) ([]ArchiveEntry, error) {
	return s.archive.List(ctx)
}

// RemoveArchive deletes an archived snapshot.
func (s *Service) RemoveArchive(ctx context.Context, name string) error {
	return s.archive.Remove(ctx, name)
}

// StartImport loads a snapshot document into a new import session.
// An unparseable document leaves the previous session in place.
func (s *Service) StartImport(ctx context.Context, data []byte, source string) (*ImportSession, error) {
	selection, err := reconcile.LoadSelection(ctx, s.world)
	if err != nil {
		return nil, err
	}

	session := reconcile.NewSession(s.world, selection, s.logger, s.opts)
	if err := session.Load(ctx, data); err != nil {
		return nil, err
	}

	imp := &ImportSession{ID: uuid.NewString(), Source: source, Created: time.Now(), session: session}

	s.mu.Lock()
	if s.active != nil {
		s.logger.Info("Replacing import session", zap.String("id", s.active.ID))
	}
	s.active = imp
	s.mu.Unlock()

	s.logger.Info("Started import session",
		zap.String("id", imp.ID),
		zap.String("source", source),
		zap.Int("groups", len(session.Groups())),
		zap.Int("players", len(session.ChangedPlayers())+len(session.MissingPlayers())))
	return imp, nil
}

// StartImportFromArchive starts an import of an archived snapshot.
func (s *Service) StartImportFromArchive(ctx context.Context, name string) (*ImportSession, error) {
	data, err := s.archive.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.StartImport(ctx, data, name)
}

// View renders the import session with the given id.
func (s *Service) View(id string) (reconcile.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imp, err := s.lookup(id)
	if err != nil {
		return reconcile.View{}, err
	}
	return imp.session.View(), nil
}

// UpdateSelection applies a selection request to the import session.
func (s *Service) UpdateSelection(ctx context.Context, id string, req SelectionRequest) (reconcile.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imp, err := s.lookup(id)
	if err != nil {
		return reconcile.View{}, err
	}
	session := imp.session

	if req.All != nil {
		if err := session.ToggleAll(ctx, *req.All); err != nil {
			return reconcile.View{}, err
		}
	}
	for _, name := range reconcile.SortedKeys(req.Groups) {
		if err := session.ToggleGroup(ctx, name, req.Groups[name]); err != nil {
			return reconcile.View{}, err
		}
	}
	for _, name := range reconcile.SortedKeys(req.Players) {
		if err := session.TogglePlayer(ctx, name, req.Players[name]); err != nil {
			return reconcile.View{}, err
		}
	}
	for _, key := range reconcile.SortedKeys(req.Keys) {
		if err := session.Toggle(ctx, key, req.Keys[key]); err != nil {
			return reconcile.View{}, err
		}
	}
	return session.View(), nil
}

// Commit applies the selected changes of the import session.
// The session stays active so failed batches can be retried.
func (s *Service) Commit(ctx context.Context, id string) (*reconcile.CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imp, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	result, err := imp.session.Commit(ctx)
	if result != nil && result.Applied() > 0 {
		s.cache.Invalidate()
	}
	return result, err
}

// Discard drops the import session.
func (s *Service) Discard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(id); err != nil {
		return err
	}
	s.active = nil
	return nil
}

func (s *Service) lookup(id string) (*ImportSession, error) {
	if s.active == nil || s.active.ID != id {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.active, nil
}
