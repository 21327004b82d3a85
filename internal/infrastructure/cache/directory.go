// Package cache provides in-memory caching decorators for hot read paths.
package cache

import (
	"context"
	"sync"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/collaborator"
)

// DefaultDirectoryTTL bounds how long a stale Active flag can gate postings.
const DefaultDirectoryTTL = 5 * time.Minute

// CachedDirectory wraps a collaborator.Directory with a TTL cache. Every
// movement posting resolves its responsible party, so the directory is the
// hottest lookup in the write path; entries expire rather than invalidate
// so a deactivated collaborator is rejected within the TTL window.
//
// Misses are not cached: an unknown id stays an error on every call.
type CachedDirectory struct {
	inner collaborator.Directory
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[id.ID]cachedEntry

	// now is swappable for tests.
	now func() time.Time
}

type cachedEntry struct {
	value     collaborator.Collaborator
	expiresAt time.Time
}

// NewCachedDirectory creates a caching decorator around inner.
// A non-positive ttl falls back to DefaultDirectoryTTL.
func NewCachedDirectory(inner collaborator.Directory, ttl time.Duration) *CachedDirectory {
	if ttl <= 0 {
		ttl = DefaultDirectoryTTL
	}
	return &CachedDirectory{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[id.ID]cachedEntry),
		now:     time.Now,
	}
}

// Resolve returns the cached collaborator when fresh, otherwise delegates
// to the wrapped directory and caches the result.
func (d *CachedDirectory) Resolve(ctx context.Context, collaboratorID id.ID) (collaborator.Collaborator, error) {
	d.mu.RLock()
	entry, ok := d.entries[collaboratorID]
	d.mu.RUnlock()

	if ok && d.now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	c, err := d.inner.Resolve(ctx, collaboratorID)
	if err != nil {
		return collaborator.Collaborator{}, err
	}

	d.mu.Lock()
	d.entries[collaboratorID] = cachedEntry{
		value:     c,
		expiresAt: d.now().Add(d.ttl),
	}
	d.mu.Unlock()

	return c, nil
}

// Invalidate drops a single entry, for callers that know the directory
// record just changed.
func (d *CachedDirectory) Invalidate(collaboratorID id.ID) {
	d.mu.Lock()
	delete(d.entries, collaboratorID)
	d.mu.Unlock()
}

// Ensure interface compliance.
var _ collaborator.Directory = (*CachedDirectory)(nil)
