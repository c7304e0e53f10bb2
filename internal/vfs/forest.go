package vfs

import (
	"strings"
	"sync"
	"time"

	"github.com/cortexfs/synthfs/internal/ordinalfold"
	"github.com/cortexfs/synthfs/internal/rng"
	"github.com/cortexfs/synthfs/internal/vfsconfig"
)

// Root is a mount point and the Node it owns.
type Root struct {
	path string // normalized, e.g. `C:\`, `s3://bucket`
	node *Node
	seed uint64
}

func (r *Root) Path() string { return r.path }
func (r *Root) Node() *Node  { return r.node }
func (r *Root) Seed() uint64 { return r.seed }

// Forest holds the tree's set of Roots plus the generation parameters derived
// from Configuration: effectiveSeed and generationBaseTime. The
// forest-wide treeLock is embedded here rather than on
// individual Nodes, mirroring the teacher's single internal/tree.Tree
// mutex guarding the whole node graph.
type Forest struct {
	treeLock sync.RWMutex

	cfg            vfsconfig.C
	effectiveSeed  uint64
	generationBase time.Time
	generator      *Generator

	roots map[string]*Root // keyed by ordinalfold.Key(normalized path)
}

// NewForest builds an empty Forest for the given configuration. The
// monotonicTick argument feeds Configuration.EffectiveSeed when
// cfg.Seed == 0; callers normally pass a wall-clock-derived value.
func NewForest(cfg vfsconfig.C, monotonicTick uint64) *Forest {
	effectiveSeed := cfg.EffectiveSeed(monotonicTick)
	base := rng.NewMT19937FromNodeSeed(rng.Mix(effectiveSeed))
	f := &Forest{
		cfg:            cfg,
		effectiveSeed:  effectiveSeed,
		generationBase: GenerationBaseTime(base),
		roots:          make(map[string]*Root),
	}
	f.generator = NewGenerator(cfg, f.generationBase)
	return f
}

// Config returns the Forest's configuration snapshot.
func (f *Forest) Config() vfsconfig.C { return f.cfg }

// WithWriteLock runs fn with the tree lock held for writing. Every
// mutating VFS operation and every resolve_path call (which may
// create roots/intermediate directories) goes through this.
func (f *Forest) WithWriteLock(fn func() error) error {
	f.treeLock.Lock()
	defer f.treeLock.Unlock()
	return fn()
}

// WithReadLock runs fn with the tree lock held for reading.
func (f *Forest) WithReadLock(fn func() error) error {
	f.treeLock.RLock()
	defer f.treeLock.RUnlock()
	return fn()
}

// NormalizePath canonicalizes a path string:
// backslash-canonicalize, lexical normalization, strip trailing
// separators except on roots, extend a bare drive letter ("X:") to
// "X:\".
func NormalizePath(path string) string {
	s := strings.ReplaceAll(path, "/", `\`)
	if len(s) == 2 && s[1] == ':' {
		s += `\`
	}
	for strings.Contains(s, `\\`) {
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	if len(s) > 3 && strings.HasSuffix(s, `\`) {
		s = strings.TrimRight(s, `\`)
	}
	return s
}

// splitRootAndComponents separates the normalized path's root token
// (e.g. `C:\`) from the remaining path components.
func splitRootAndComponents(normalized string) (root string, components []string) {
	idx := strings.Index(normalized, `:\`)
	if idx >= 0 {
		root = normalized[:idx+2]
		rest := normalized[idx+2:]
		if rest != "" {
			components = strings.Split(rest, `\`)
		}
		return root, components
	}
	// Non-drive roots, e.g. a scheme-like mount ("s3://bucket") or a
	// plugin-rooted UNC-style path: treat the first component as root.
	s := strings.TrimPrefix(normalized, `\`)
	parts := strings.Split(s, `\`)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

// getOrCreateRoot returns the Root for rootKey, creating it (with a
// fresh root seed and Node) if it does not exist yet. Must be called
// with the tree lock held for writing.
func (f *Forest) getOrCreateRoot(rootKey string) *Root {
	key := ordinalfold.Key(rootKey)
	if r, ok := f.roots[key]; ok {
		return r
	}
	seed := rng.RootSeed(f.effectiveSeed, rootKey)
	node := f.generator.newRootNode(seed)
	r := &Root{path: rootKey, node: node, seed: seed}
	f.roots[key] = r
	return r
}

// Roots returns a snapshot of the current roots. Must be called with
// the tree lock held.
func (f *Forest) Roots() []*Root {
	out := make([]*Root, 0, len(f.roots))
	for _, r := range f.roots {
		out = append(out, r)
	}
	return out
}

// RootFor returns (creating it if it does not exist yet) the Root
// that owns path, for callers (drive metadata, navigation menu) that
// need a root's identity and seed without resolving all the way down
// to a leaf Node.
func (f *Forest) RootFor(path string) *Root {
	f.treeLock.Lock()
	defer f.treeLock.Unlock()
	rootKey, _ := splitRootAndComponents(NormalizePath(path))
	return f.getOrCreateRoot(rootKey)
}

// resolveOptions configures resolvePath's behavior.
type resolveOptions struct {
	createMissing    bool
	requireDirectory bool
}

// resolvePath implements the resolve_path algorithm. Must be
// called with the tree lock held for writing if createMissing is set
// (it may create a root and/or intermediate directories), or for
// reading/writing otherwise depending on the caller's needs; callers
// that only read should still take the write lock if createMissing,
// since the Forest may be mutated lazily even for "read" operations
// (first resolution of a path).
func (f *Forest) resolvePath(path string, opt resolveOptions) (*Node, error) {
	normalized := NormalizePath(path)
	rootKey, components := splitRootAndComponents(normalized)
	if rootKey == "" {
		return nil, errorf("resolvePath", "%q: %w", path, ErrInvalidName)
	}
	root := f.getOrCreateRoot(rootKey)
	node := root.node
	depth := 0
	for _, comp := range components {
		switch comp {
		case "", ".":
			continue
		case "..":
			if node.parent == nil {
				return nil, errorf("resolvePath", "%q: %w", path, ErrInvalidName)
			}
			node = node.parent
			depth--
			continue
		}
		if !node.isDir {
			return nil, errorf("resolvePath", "%q: %w", path, ErrNotADirectory)
		}
		if err := f.generator.EnsureChildren(node, depth, node.parent == nil); err != nil {
			return nil, err
		}
		child := node.childByName(comp)
		if child == nil {
			if !opt.createMissing {
				return nil, errorf("resolvePath", "%q: %w", path, ErrNotFound)
			}
			child = f.generator.newIntermediateDirectory(node, comp)
		}
		node = child
		depth++
	}
	if opt.requireDirectory && !node.isDir {
		return nil, errorf("resolvePath", "%q: %w", path, ErrNotADirectory)
	}
	return node, nil
}

// splitParentAndName splits a path into its parent path and final
// component, for operations (create_writer, create_directory, delete,
// rename) that need to resolve the parent and validate a bare name.
func splitParentAndName(path string) (parentPath string, name string, err error) {
	normalized := NormalizePath(path)
	idx := strings.LastIndex(normalized, `\`)
	if idx < 0 {
		return "", "", errorf("splitParentAndName", "%q: %w", path, ErrInvalidName)
	}
	name = normalized[idx+1:]
	if name == "" {
		return "", "", errorf("splitParentAndName", "%q: %w", path, ErrInvalidName)
	}
	parentPath = normalized[:idx+1]
	return parentPath, name, nil
}

// removeChildLocked extracts child from parent's children slice
// (the tree's ExtractChild step), preserving the relative order of the
// remaining siblings. Must be called with the tree lock held for
// writing.
func removeChildLocked(parent *Node, child *Node) {
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}
