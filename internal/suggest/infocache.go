// Package suggest implements the edit-suggest and sibling-prefetch
// workers: the single-worker, most-recent-query-wins autocomplete
// engine and its companion background folder warmer, both built over
// a small consumer-side borrow/pin cache of directory enumerations.
package suggest

import (
	"sync"

	"github.com/cortexfs/synthfs/internal/vfs"
	"golang.org/x/sync/singleflight"
)

// BorrowMode selects whether Borrow may fall back to enumerating the
// VFS on a cache miss (AllowEnumerate) or must answer from whatever is
// already cached (CacheOnly).
type BorrowMode uint8

const (
	CacheOnly BorrowMode = iota
	AllowEnumerate
)

// Enumerator is the subset of *vfs.VFS the cache enumerates through.
// A narrow interface so tests can supply a fake without building a
// real Forest.
type Enumerator interface {
	ListChildNames(path string) ([]vfs.ChildName, error)
}

type snapshot struct {
	children []vfs.ChildName
	pins     int
}

// InfoCache is the consumer-side cache over VFS.ListChildNames
// results that the suggest and sibling-prefetch workers borrow from.
// It holds one snapshot per folder path; a folder already borrowed
// under AllowEnumerate is never silently re-enumerated out from under
// pinned callers, since a snapshot with pins > 0 is never evicted by
// Invalidate until it drains. Concurrent misses on the same path are
// coalesced through a singleflight.Group, so a suggest query and a
// sibling-prefetch pass landing on the same cold folder at once cause
// one enumeration, not two.
type InfoCache struct {
	source Enumerator
	group  singleflight.Group

	mu     sync.Mutex
	byPath map[string]*snapshot
}

func NewInfoCache(source Enumerator) *InfoCache {
	return &InfoCache{source: source, byPath: make(map[string]*snapshot)}
}

var noopRelease = func() {}

// Borrow returns the cached children of path, pinned so a concurrent
// Invalidate won't drop them until the returned release func runs. On
// a miss, mode decides whether to enumerate (AllowEnumerate) or
// report ok = false without touching the VFS (CacheOnly).
func (c *InfoCache) Borrow(path string, mode BorrowMode) (children []vfs.ChildName, release func(), ok bool, err error) {
	if s, pinned := c.pin(path); pinned {
		return s.children, c.releaseFunc(s), true, nil
	}
	if mode == CacheOnly {
		return nil, noopRelease, false, nil
	}

	v, enumErr, _ := c.group.Do(path, func() (interface{}, error) {
		return c.source.ListChildNames(path)
	})
	if enumErr != nil {
		return nil, noopRelease, false, enumErr
	}

	c.mu.Lock()
	s, raced := c.byPath[path]
	if !raced {
		s = &snapshot{children: v.([]vfs.ChildName)}
		c.byPath[path] = s
	}
	s.pins++
	children = s.children
	c.mu.Unlock()
	return children, c.releaseFunc(s), true, nil
}

// pin returns (and pins) path's snapshot if already cached.
func (c *InfoCache) pin(path string) (*snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, hit := c.byPath[path]
	if !hit {
		return nil, false
	}
	s.pins++
	return s, true
}

func (c *InfoCache) releaseFunc(s *snapshot) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			s.pins--
			c.mu.Unlock()
		})
	}
}

// Invalidate drops path's cached snapshot once it has no outstanding
// pins; a pinned snapshot is left in place and will be dropped by a
// later Invalidate call once drained (callers that mutate the tree
// and then invalidate don't need to track that themselves).
func (c *InfoCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.byPath[path]; ok && s.pins == 0 {
		delete(c.byPath, path)
	}
}
