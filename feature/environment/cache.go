package environment

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ExportCache shares one export build between concurrent requests and keeps
// it for a TTL. A zero TTL disables caching but still collapses concurrent builds.
type ExportCache struct {
	mu     sync.RWMutex
	export *Export
	ttl    time.Duration
	sf     singleflight.Group
	build  func(ctx context.Context) (*Export, error)
}

// NewExportCache creates a cache around build.
func NewExportCache(ttl time.Duration, build func(ctx context.Context) (*Export, error)) *ExportCache {
	return &ExportCache{ttl: ttl, build: build}
}

func (c *ExportCache) fresh() (*Export, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.export == nil || c.ttl == 0 || time.Since(c.export.Built) > c.ttl {
		return nil, false
	}
	return c.export, true
}

// Get returns the cached export or builds a new one.
func (c *ExportCache) Get(ctx context.Context) (*Export, error) {
	if e, ok := c.fresh(); ok {
		return e, nil
	}

	result, err, _ := c.sf.Do("export", func() (any, error) {
		// Double-check, another caller may have finished a build meanwhile.
		if e, ok := c.fresh(); ok {
			return e, nil
		}

		// Waiters share this build, so one caller's cancellation must not fail them all.
		e, err := c.build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.export = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Export), nil
}

// Invalidate drops the cached export. Called after the world changed.
func (c *ExportCache) Invalidate() {
	c.mu.Lock()
	c.export = nil
	c.mu.Unlock()
}
