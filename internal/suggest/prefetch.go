package suggest

import (
	"sync"

	"github.com/cortexfs/synthfs/internal/breadcrumb"
)

// maxPrefetchDepth bounds the sibling-prefetch queue to the 16
// nearest ancestors of the current location.
const maxPrefetchDepth = 16

// SiblingPrefetchWorker owns a single background goroutine that
// quietly enumerates a LIFO queue of parent folders to warm the
// InfoCache ahead of the breadcrumb menu needing them. Queueing is
// push-to-front/pop-from-front (most-recently-queued folder served
// first), mirroring the edit-suggest worker's most-recent-wins
// preference but applied to a bounded backlog instead of a single
// pending slot.
type SiblingPrefetchWorker struct {
	cache *InfoCache

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool
}

func NewSiblingPrefetchWorker(cache *InfoCache) *SiblingPrefetchWorker {
	w := &SiblingPrefetchWorker{cache: cache}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// QueueFromLocation derives ancestor folders from pluginPath (nearest
// first) and pushes up to maxPrefetchDepth of them to the front of the
// queue, so the most recently navigated-to location's ancestors are
// warmed before any backlog left over from an earlier location.
func (w *SiblingPrefetchWorker) QueueFromLocation(pluginPath string) {
	tokens := breadcrumb.Tokenize(pluginPath)
	if len(tokens) == 0 {
		return
	}

	var folders []string
	for i := len(tokens) - 1; i >= 0 && len(folders) < maxPrefetchDepth; i-- {
		folders = append(folders, tokens[i].FullPath)
	}

	w.mu.Lock()
	w.queue = append(folders, w.queue...)
	if len(w.queue) > maxPrefetchDepth {
		w.queue = w.queue[:maxPrefetchDepth]
	}
	w.cond.Signal()
	w.mu.Unlock()
}

func (w *SiblingPrefetchWorker) Close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Signal()
	w.mu.Unlock()
}

func (w *SiblingPrefetchWorker) run() {
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if w.closed && len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		folder := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		// Best-effort: a failed enumeration (folder vanished,
		// plugin unreachable) just means that folder stays cold.
		_, release, _, err := w.cache.Borrow(folder, AllowEnumerate)
		if err == nil {
			release()
		}
	}
}

// ServeNow answers a single-folder breadcrumb-menu request on demand,
// borrowing from whatever is already cached without enumerating, so
// an on-demand menu open never blocks on a cold InfoCache entry this
// worker hasn't reached yet; the caller falls back to its own
// synchronous enumeration on a miss.
func (w *SiblingPrefetchWorker) ServeNow(folder string) (children []string, ok bool) {
	names, release, hit, err := w.cache.Borrow(folder, CacheOnly)
	if !hit || err != nil {
		return nil, false
	}
	defer release()
	out := make([]string, len(names))
	for i, c := range names {
		out[i] = c.Name
	}
	return out, true
}
