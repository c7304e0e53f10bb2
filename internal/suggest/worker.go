package suggest

import (
	"sort"
	"strings"
	"sync"

	"github.com/cortexfs/synthfs/internal/ordinalfold"
)

// maxSuggestions is 10 visible entries plus one ellipsis marker when
// more matched.
const maxSuggestions = 11

// Query is a pending edit-suggest request: the folder to enumerate,
// the typed prefix to filter by, and a monotonically increasing id
// the caller uses to discard stale results.
type Query struct {
	Folder    string
	Prefix    string
	RequestID uint64
}

// Result is what the worker posts back for a serviced Query.
type Result struct {
	RequestID uint64
	Folder    string
	Names     []string
	Truncated bool // true if more than 10 matches existed
}

// SuggestWorker owns a single background goroutine that services the
// most recently posted Query, discarding any query superseded before
// it got a chance to run. Modeled on the watch bus's condvar-driven
// registration draining (internal/watch.Bus), generalized from
// notify-and-drain to post-latest-and-discard-stale.
type SuggestWorker struct {
	cache    *InfoCache
	onResult func(Result)

	mu      sync.Mutex
	cond    *sync.Cond
	pending *Query
	closed  bool
}

func NewSuggestWorker(cache *InfoCache, onResult func(Result)) *SuggestWorker {
	w := &SuggestWorker{cache: cache, onResult: onResult}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Post replaces any pending query with this one and wakes the worker.
// An older, not-yet-serviced query is simply overwritten; it never
// runs and never posts a result.
func (w *SuggestWorker) Post(q Query) {
	w.mu.Lock()
	w.pending = &q
	w.cond.Signal()
	w.mu.Unlock()
}

// Close stops the worker after its current (if any) query finishes.
func (w *SuggestWorker) Close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Signal()
	w.mu.Unlock()
}

func (w *SuggestWorker) run() {
	for {
		w.mu.Lock()
		for w.pending == nil && !w.closed {
			w.cond.Wait()
		}
		if w.closed && w.pending == nil {
			w.mu.Unlock()
			return
		}
		q := *w.pending
		w.pending = nil
		w.mu.Unlock()

		result := w.service(q)

		w.mu.Lock()
		stale := w.pending != nil
		w.mu.Unlock()
		if !stale && w.onResult != nil {
			w.onResult(result)
		}
	}
}

func (w *SuggestWorker) service(q Query) Result {
	children, release, ok, err := w.cache.Borrow(q.Folder, AllowEnumerate)
	if !ok || err != nil {
		return Result{RequestID: q.RequestID, Folder: q.Folder}
	}
	defer release()

	var matches []string
	for _, c := range children {
		if ordinalfold.HasPrefix(c.Name, q.Prefix) {
			matches = append(matches, c.Name)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return ordinalfold.Less(matches[i], matches[j]) })

	truncated := len(matches) > maxSuggestions-1
	if truncated {
		matches = matches[:maxSuggestions-1]
	}
	return Result{RequestID: q.RequestID, Folder: q.Folder, Names: matches, Truncated: truncated}
}

// QueryFromText splits a raw edit-box string into a folder and a
// filter prefix, the Go equivalent of the original's
// TryParseEditSuggestQuery for the plugin-path (non-native-drive)
// syntax: trim surrounding quotes/whitespace, then split on the last
// '/' into folder and filter.
func QueryFromText(rawInput string) (folder, filter string, ok bool) {
	text := strings.TrimSpace(rawInput)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if text == "" {
		return "", "", false
	}
	idx := strings.LastIndexByte(text, '/')
	if idx < 0 {
		return "/", text, true
	}
	folder = text[:idx]
	if folder == "" {
		folder = "/"
	}
	filter = text[idx+1:]
	return folder, filter, true
}
