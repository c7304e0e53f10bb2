package suggest

import (
	"testing"
	"time"

	"github.com/cortexfs/synthfs/internal/vfs"
	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiblingPrefetchWorkerWarmsAncestors(t *testing.T) {
	defer leaktest.Check(t)()

	fe := &fakeEnumerator{byFolder: map[string][]vfs.ChildName{
		"/a/b/c": {{Name: "leaf"}},
		"/a/b":   {{Name: "b-child"}},
		"/a":     {{Name: "a-child"}},
		"/":      {{Name: "a"}},
	}}
	cache := NewInfoCache(fe)
	w := NewSiblingPrefetchWorker(cache)
	defer w.Close()

	w.QueueFromLocation("/a/b/c")

	require.Eventually(t, func() bool {
		names, ok := w.ServeNow("/")
		return ok && len(names) == 1 && names[0] == "a"
	}, time.Second, 5*time.Millisecond)

	names, ok := w.ServeNow("/a/b")
	assert.True(t, ok)
	assert.Equal(t, []string{"b-child"}, names)
}

func TestSiblingPrefetchWorkerServeNowMissesWithoutEnumerating(t *testing.T) {
	fe := &fakeEnumerator{byFolder: map[string][]vfs.ChildName{"/cold": {{Name: "x"}}}}
	cache := NewInfoCache(fe)
	w := NewSiblingPrefetchWorker(cache)
	defer w.Close()

	names, ok := w.ServeNow("/cold")
	assert.False(t, ok)
	assert.Nil(t, names)
}

func TestSiblingPrefetchWorkerCapsQueueDepth(t *testing.T) {
	fe := &fakeEnumerator{byFolder: map[string][]vfs.ChildName{}}
	cache := NewInfoCache(fe)
	w := NewSiblingPrefetchWorker(cache)
	defer w.Close()

	var deep string
	for i := 0; i < 40; i++ {
		deep += "/seg"
	}
	w.QueueFromLocation(deep)

	w.mu.Lock()
	n := len(w.queue)
	w.mu.Unlock()
	assert.LessOrEqual(t, n, maxPrefetchDepth)
}
