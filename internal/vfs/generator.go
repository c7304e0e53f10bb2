package vfs

import (
	"context"
	"time"

	"github.com/cortexfs/synthfs/internal/rng"
	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"golang.org/x/sync/errgroup"
)

// childMaterializeConcurrency bounds how many children of one
// directory are materialized in parallel, mirroring the semaphore
// channel in the teacher's internal/tree/tree_walking.go Tree.grow.
const childMaterializeConcurrency = 8

// Generator lazily materializes a directory's children from its
// generation_seed. One Generator is shared by every
// Root in a Forest (they differ only in the seed/config threaded
// through each call).
type Generator struct {
	cfg      vfsconfig.C
	baseTime time.Time
}

func NewGenerator(cfg vfsconfig.C, baseTime time.Time) *Generator {
	return &Generator{cfg: cfg, baseTime: baseTime}
}

// newRootNode creates a fresh root directory Node for the given root
// seed. As a preserved quirk, the root's planned child count
// has a floor of 2 regardless of the configured maximum.
func (g *Generator) newRootNode(seed uint64) *Node {
	m := rng.NewMT19937FromNodeSeed(seed)
	attr := GenerateAttributes(m, true)
	ts := GenerateNodeTime(m, g.baseTime)
	planned := GeneratePlannedChildCount(m, g.cfg.MaxChildrenPerDirectory)
	if planned < 2 {
		planned = 2
	}
	n := &Node{
		isDir:             true,
		attr:              attr,
		ts:                Timestamps{ts.UnixNano(), ts.UnixNano(), ts.UnixNano(), ts.UnixNano()},
		generationSeed:    seed,
		plannedChildCount: planned,
	}
	n.rngState = m
	return n
}

// newIntermediateDirectory creates a directory with the given name
// under parent when resolve_path's create_missing option needs one
// that does not yet exist. It is seeded exactly as if it had been
// discovered by ordinary enumeration: same ChildSeed derivation,
// using the next available index in the parent's (already generated)
// children slice, so a later normal enumeration of parent converges
// on the same Node for the same name. The configured planned child
// count (not the forced root floor) applies, since only the top-level
// mount root gets the floor quirk.
func (g *Generator) newIntermediateDirectory(parent *Node, name string) *Node {
	index := len(parent.children)
	seed := rng.ChildSeed(parent.generationSeed, index, true)
	m := rng.NewMT19937FromNodeSeed(seed)
	attr := GenerateAttributes(m, true)
	ts := GenerateNodeTime(m, g.baseTime)
	planned := GeneratePlannedChildCount(m, g.cfg.MaxChildrenPerDirectory)
	n := &Node{
		name:              name,
		isDir:             true,
		attr:              attr,
		ts:                Timestamps{ts.UnixNano(), ts.UnixNano(), ts.UnixNano(), ts.UnixNano()},
		generationSeed:    seed,
		plannedChildCount: planned,
		parent:            parent,
		fileIndex:         uint32(index),
	}
	n.rngState = m
	n.childrenGenerated = false
	parent.children = append(parent.children, n)
	parent.plannedChildCount++ // keep it in sync with the grown children slice
	return n
}

func (g *Generator) newChildDirectory(parent *Node, index int) *Node {
	seed := rng.ChildSeed(parent.generationSeed, index, true)
	m := rng.NewMT19937FromNodeSeed(seed)
	name := GenerateDirectoryName(m, index)
	attr := GenerateAttributes(m, true)
	ts := GenerateNodeTime(m, g.baseTime)
	planned := GeneratePlannedChildCount(m, g.cfg.MaxChildrenPerDirectory)
	n := &Node{
		name:              name,
		isDir:             true,
		attr:              attr,
		ts:                Timestamps{ts.UnixNano(), ts.UnixNano(), ts.UnixNano(), ts.UnixNano()},
		generationSeed:    seed,
		plannedChildCount: planned,
		parent:            parent,
		fileIndex:         uint32(index),
	}
	n.rngState = m
	return n
}

func (g *Generator) newChildFile(parent *Node, index int) *Node {
	seed := rng.ChildSeed(parent.generationSeed, index, false)
	m := rng.NewMT19937FromNodeSeed(seed)
	name, kind := GenerateFileName(m, index)
	attr := GenerateAttributes(m, false)
	ts := GenerateNodeTime(m, g.baseTime)
	size := GenerateSize(m, kind)
	return &Node{
		name:              name,
		isDir:             false,
		attr:              attr,
		size:              size,
		ts:                Timestamps{ts.UnixNano(), ts.UnixNano(), ts.UnixNano(), ts.UnixNano()},
		generationSeed:    seed,
		kind:              kind,
		parent:            parent,
		fileIndex:         uint32(index),
		childrenGenerated: true, // files have no children to generate
	}
}

// EnsureChildren implements "child population (first
// enumeration of a directory)". Must be called with the Forest's
// tree lock held for writing. isRoot selects the forced-minimum-
// population rule reserved for the mount root.
func (g *Generator) EnsureChildren(node *Node, depth int, isRoot bool) error {
	if node.childrenGenerated {
		return nil
	}
	if !node.isDir {
		return errorf("Generator.EnsureChildren", "not a directory")
	}
	n := node.plannedChildCount
	node.childrenGenerated = true
	if n == 0 {
		node.rngState = nil
		return nil
	}

	m := node.rngState
	maxSubdirs := n - 1
	if half := n / 2; half < maxSubdirs {
		maxSubdirs = half
	}
	if maxSubdirs < 0 {
		maxSubdirs = 0
	}
	depthAllowsSubdirs := g.cfg.MaxDepth == 0 || depth < g.cfg.MaxDepth

	var numSubdirs int
	if depthAllowsSubdirs && maxSubdirs > 0 {
		numSubdirs = int(m.Skewed(int64(maxSubdirs)))
	}
	numFiles := n - numSubdirs

	if isRoot {
		if n > 0 && numFiles == 0 {
			numFiles = 1
			if numSubdirs > 0 {
				numSubdirs--
			}
		}
		if n > 1 && depthAllowsSubdirs && numSubdirs == 0 {
			numSubdirs = 1
			if numFiles > 0 {
				numFiles--
			}
		}
	}

	children := make([]*Node, numSubdirs+numFiles)
	g2, _ := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, childMaterializeConcurrency)
	for i := 0; i < numSubdirs; i++ {
		i := i
		g2.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			children[i] = g.newChildDirectory(node, i)
			return nil
		})
	}
	for i := 0; i < numFiles; i++ {
		i := i
		g2.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			children[numSubdirs+i] = g.newChildFile(node, numSubdirs+i)
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return errorv("Generator.EnsureChildren", err)
	}

	node.children = children
	node.plannedChildCount = len(children)
	node.rngState = nil
	return nil
}
