package vfs

import (
	"time"

	"github.com/cortexfs/synthfs/internal/ordinalfold"
	"github.com/cortexfs/synthfs/internal/rng"
)

// Timestamps holds the four 64-bit tick-count timestamps a Node
// requires on every Node. Ticks are Unix nanoseconds in this
// implementation's host-defined epoch.
type Timestamps struct {
	Creation   int64
	LastAccess int64
	LastWrite  int64
	Change     int64
}

func tick(t time.Time) int64 { return t.UnixNano() }

// Node mirrors the tree's Node entity. All fields are protected by the
// owning Forest's tree lock; Node itself carries no lock, matching
// the teacher's internal/tree.Node (one mutex at the Tree, not the
// Node).
type Node struct {
	name  string
	isDir bool
	attr  Attr
	size  uint64
	ts    Timestamps

	generationSeed    uint64
	plannedChildCount int
	childrenGenerated bool
	children          []*Node

	kind    Kind        // meaningful only for files
	content *sharedBuffer // non-nil once a writer has committed over this node

	parent *Node

	fileIndex uint32

	// rngState is the node's live Mersenne-Twister stream, kept around
	// only between creation and the first EnsureChildren call (or
	// dropped immediately for files, which have none). Not part of the
	// the persisted Node shape; purely a runtime convenience so that
	// child-population draws continue a single per-node stream instead
	// of replaying it from the seed.
	rngState *rng.MT19937
}

// Name returns the node's name. The root node of a Root has an empty
// name; it is addressed by the Root's path instead.
func (n *Node) Name() string { return n.name }

func (n *Node) IsDir() bool { return n.isDir }

func (n *Node) Attributes() Attr { return n.attr }

func (n *Node) Size() uint64 { return n.size }

func (n *Node) Timestamps() Timestamps { return n.ts }

func (n *Node) FileIndex() uint32 { return n.fileIndex }

func (n *Node) Parent() *Node { return n.parent }

// ChildrenGenerated reports the children_generated latch (monotonic:
// once true, it never reverts to false).
func (n *Node) ChildrenGenerated() bool { return n.childrenGenerated }

// PlannedChildCount returns the number of children this directory
// intends to generate on first expansion.
func (n *Node) PlannedChildCount() int { return n.plannedChildCount }

// Children returns the node's current children slice. Callers must
// hold the owning Forest's tree lock (read or write) while using the
// returned slice; see Forest.WithReadLock / Forest.WithWriteLock.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) Kind() Kind { return n.kind }

// childByName performs the case-insensitive lookup required by
// (parent, name) uniqueness among siblings.
func (n *Node) childByName(name string) *Node {
	for _, c := range n.children {
		if ordinalfold.Equal(c.name, name) {
			return c
		}
	}
	return nil
}

func (n *Node) touchWrite(now time.Time) {
	t := tick(now)
	n.ts.LastWrite = t
	n.ts.Change = t
}

func (n *Node) touchAccess(now time.Time) {
	n.ts.LastAccess = tick(now)
}

func (n *Node) touchChange(now time.Time) {
	n.ts.Change = tick(now)
}

// Path reconstructs the node's path components from the root,
// excluding the root's own name (which is addressed by the Root's
// normalized path instead). Returns nil for the root node itself.
func (n *Node) Path() []string {
	if n.parent == nil {
		return nil
	}
	var stack []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		stack = append(stack, cur.name)
	}
	out := make([]string, len(stack))
	for i, name := range stack {
		out[len(stack)-1-i] = name
	}
	return out
}
