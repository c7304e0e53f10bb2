// Package opengine implements the bulk operation engine: the
// bulk-copy/move/delete/rename wrapper around vfs.VFS's single-item
// mutation primitives, adding check-cancel polling, an explicit
// LIFO work stack for recursive descent (never call recursion),
// progress/throughput throttling, and item-completion reporting.
package opengine

import (
	"context"
	"math/rand"
	"time"

	"github.com/cortexfs/synthfs/internal/vfs"
	"github.com/cortexfs/synthfs/internal/vfsconfig"
)

// OpKind identifies which of the four mutation primitives a WorkItem
// performs.
type OpKind uint8

const (
	OpCopy OpKind = iota
	OpMove
	OpDelete
	OpRename
)

// WorkItem is one entry of the bulk operation's LIFO work stack.
type WorkItem struct {
	Kind   OpKind
	Source string
	Dest   string // rename's new name, for OpRename
}

// ItemResult is the item-completion report: item index,
// source/destination paths, and the outcome.
type ItemResult struct {
	Index  int
	Source string
	Dest   string
	Err    error
}

// ProgressReport is the throttled byte-progress report for the
// item currently in flight.
type ProgressReport struct {
	ItemIndex    int
	BytesSoFar   uint64
	TotalBytes   uint64
}

// Callback groups the host hooks: cooperative
// cancellation, per-item byte progress, and per-item completion.
type Callback struct {
	ShouldCancel func() bool
	OnProgress   func(ProgressReport)
	OnComplete   func(ItemResult)
}

// Engine runs bulk mutation operations against one VFS.
type Engine struct {
	vfs *vfs.VFS
	cfg vfsconfig.C
}

func New(v *vfs.VFS, cfg vfsconfig.C) *Engine {
	return &Engine{vfs: v, cfg: cfg}
}

// Result is the aggregate outcome of a bulk call: PartialCopy if any
// item failed (unless the very first failure terminated the whole
// batch because OpContinueOnError was unset).
type Result struct {
	Items     []ItemResult
	Cancelled bool
	Partial   bool
}

// RunBulk implements the common contract for the bulk
// variants (CopyItems/MoveItems/DeleteItems/RenameItems): before each
// item, poll should_cancel; mutate; notify; throttle-sleep
// proportionally to the item's size; report progress and completion.
// Items are processed off an explicit LIFO stack rather than call
// recursion; recursive descent into a copied/moved
// directory's own subtree happens inside vfs.VFS.CopyItem/MoveItem
// (bounded by how much of that subtree the generator has already
// materialized, not by caller-supplied depth), so this stack only
// ever grows from the items the caller names up front.
func (e *Engine) RunBulk(ctx context.Context, items []WorkItem, flags vfs.OpFlags, cb Callback) Result {
	var result Result
	stack := append([]WorkItem(nil), items...)
	// Process in the caller's given order: push in reverse so the
	// first requested item is popped (and thus executed) first.
	reverse(stack)

	index := 0
	for len(stack) > 0 {
		if checkCancel(ctx, cb) {
			result.Cancelled = true
			return result
		}

		work := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cancelled := e.simulateLatency(ctx, cb); cancelled {
			result.Cancelled = true
			return result
		}

		size := e.itemSize(work)
		e.throttleSleep(ctx, cb, index, size)
		if checkCancel(ctx, cb) {
			result.Cancelled = true
			return result
		}

		err := e.applyOne(work, flags)
		result.Items = append(result.Items, ItemResult{Index: index, Source: work.Source, Dest: work.Dest, Err: err})
		if cb.OnComplete != nil {
			cb.OnComplete(ItemResult{Index: index, Source: work.Source, Dest: work.Dest, Err: err})
		}
		if err != nil {
			if !flags.Has(vfs.OpContinueOnError) {
				return result
			}
			result.Partial = true
		}
		index++
	}
	return result
}

func (e *Engine) applyOne(w WorkItem, flags vfs.OpFlags) error {
	switch w.Kind {
	case OpCopy:
		return e.vfs.CopyItem(w.Source, w.Dest, flags)
	case OpMove:
		return e.vfs.MoveItem(w.Source, w.Dest, flags)
	case OpDelete:
		return e.vfs.DeleteItem(w.Source, flags)
	case OpRename:
		return e.vfs.RenameItem(w.Source, w.Dest, time.Now(), flags)
	default:
		return nil
	}
}

func (e *Engine) itemSize(w WorkItem) uint64 {
	size, err := e.vfs.GetSize(w.Source)
	if err != nil {
		return 0
	}
	return size
}

// latencyQuantum is the sleep slice simulateLatency sleeps in,
// between should_cancel polls, regardless of how long the
// configured latency is.
const latencyQuantum = 50 * time.Millisecond

// simulateLatency sleeps out cfg.Latency() in latencyQuantum slices
// before an item starts, polling cancel every quantum.
func (e *Engine) simulateLatency(ctx context.Context, cb Callback) (cancelled bool) {
	remaining := e.cfg.Latency()
	for remaining > 0 {
		if checkCancel(ctx, cb) {
			return true
		}
		step := latencyQuantum
		if step > remaining {
			step = remaining
		}
		time.Sleep(step)
		remaining -= step
	}
	return false
}

func checkCancel(ctx context.Context, cb Callback) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	if cb.ShouldCancel != nil && cb.ShouldCancel() {
		return true
	}
	return false
}

// throttleSleep implements the throttled byte-progress loop: at
// an effective bytes/sec rate (host limit via cfg, jittered), advance
// in chunks of bps/10 (at most), sleeping proportionally and polling
// cancel and progress between chunks.
func (e *Engine) throttleSleep(ctx context.Context, cb Callback, index int, totalBytes uint64) {
	bps := e.cfg.BytesPerSec()
	if bps == 0 || totalBytes == 0 {
		if cb.OnProgress != nil {
			cb.OnProgress(ProgressReport{ItemIndex: index, BytesSoFar: totalBytes, TotalBytes: totalBytes})
		}
		return
	}

	var sent uint64
	for sent < totalBytes {
		if checkCancel(ctx, cb) {
			return
		}
		currentBps := jitteredRate(bps)
		chunk := currentBps / 10
		if chunk == 0 {
			chunk = 1
		}
		if remaining := totalBytes - sent; chunk > remaining {
			chunk = remaining
		}
		sleepMs := (chunk*1000 + currentBps - 1) / currentBps
		time.Sleep(time.Duration(sleepMs) * time.Millisecond)
		sent += chunk
		if cb.OnProgress != nil {
			cb.OnProgress(ProgressReport{ItemIndex: index, BytesSoFar: sent, TotalBytes: totalBytes})
		}
	}
}

// jitteredRate applies the throttle jitter: ~1/200 probability
// of a micro-stall (10%-33% of limit), ~1/25 probability of a minor
// stall (50%), otherwise 80%-100% jitter.
func jitteredRate(limit uint64) uint64 {
	roll := rand.Intn(200)
	switch {
	case roll == 0:
		return limit * uint64(10+rand.Intn(24)) / 100
	case roll < 9:
		return limit / 2
	default:
		return limit * uint64(80+rand.Intn(21)) / 100
	}
}

func reverse(items []WorkItem) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
