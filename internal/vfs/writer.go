package vfs

import (
	"time"

	"github.com/cortexfs/synthfs/internal/rng"
	"github.com/cortexfs/synthfs/internal/watch"
)

// Writer is a grow-on-append buffer bound to
// (owner, path, flags) until Commit() materializes it into the tree.
type Writer struct {
	owner string
	path  string
	flags OpFlags

	forest *Forest
	bus    *watch.Bus

	buf       []byte
	committed bool
}

// CreateWriter implements create_writer(path, flags). It
// pre-validates the collision rules against the tree as it stands
// right now; Commit re-validates them against the tree as it stands
// at commit time, since the two can race.
func CreateWriter(forest *Forest, bus *watch.Bus, owner, path string, flags OpFlags) (*Writer, error) {
	var validateErr error
	err := forest.WithReadLock(func() error {
		_, validateErr = validateWriterTarget(forest, path, flags)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if validateErr != nil {
		return nil, validateErr
	}
	return &Writer{owner: owner, path: path, flags: flags, forest: forest, bus: bus}, nil
}

// validateWriterTarget resolves path's parent and checks the
// collision rules from the create_writer contract. Returns
// the parent node (and any existing target node sharing that name)
// without mutating the tree.
func validateWriterTarget(forest *Forest, path string, flags OpFlags) (*Node, error) {
	parentPath, name, err := splitParentAndName(path)
	if err != nil {
		return nil, err
	}
	parent, err := forest.resolvePath(parentPath, resolveOptions{requireDirectory: true})
	if err != nil {
		return nil, errorv("CreateWriter", err)
	}
	existing := parent.childByName(name)
	if existing == nil {
		return parent, nil
	}
	if existing.isDir {
		return nil, errorv("CreateWriter", ErrIsADirectory)
	}
	if !flags.Has(OpAllowOverwrite) {
		return nil, errorv("CreateWriter", ErrExist)
	}
	if existing.attr.Has(AttrReadonly) && !flags.Has(OpAllowReplaceReadonly) {
		return nil, errorv("CreateWriter", ErrAccessDenied)
	}
	return parent, nil
}

// Write appends p to the writer's staged buffer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.committed {
		return 0, errorf("Writer.Write", "already committed")
	}
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// Reader returns a single-owner reader over the writer's own staged,
// uncommitted buffer (the buffer-reader case).
func (w *Writer) Reader() *Reader { return newBufferReader(w.buf) }

// Commit finalizes the writer's buffer into the tree. A second Commit call is a no-op, and a
// Writer that is simply dropped without ever calling Commit leaves no
// trace (a silent cancel).
func (w *Writer) Commit(now time.Time) error {
	if w.committed {
		return nil
	}
	w.committed = true

	parentPath, name, err := splitParentAndName(w.path)
	if err != nil {
		return err
	}

	var removedExisting bool
	err = w.forest.WithWriteLock(func() error {
		parent, err := w.forest.resolvePath(parentPath, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("Writer.Commit", err)
		}
		if _, err := validateWriterTargetLocked(parent, name, w.flags); err != nil {
			return err
		}
		if existing := parent.childByName(name); existing != nil {
			removeChildLocked(parent, existing)
			removedExisting = true
		}

		t := tick(now)
		n := &Node{
			name:              name,
			isDir:             false,
			attr:              AttrArchive,
			size:              uint64(len(w.buf)),
			ts:                Timestamps{t, t, t, t},
			generationSeed:    rng.SeedFromSalt(parent.generationSeed, name),
			kind:              kindFromName(name),
			content:           newSharedBuffer(w.buf),
			parent:            parent,
			fileIndex:         nextFileIndex(parent),
			childrenGenerated: true,
		}
		parent.children = append(parent.children, n)
		return nil
	})
	if err != nil {
		return err
	}

	if w.bus != nil {
		changes := []watch.Change{{RelativePath: name, Action: watch.ActionAdded}}
		if removedExisting {
			changes = []watch.Change{
				{RelativePath: name, Action: watch.ActionRemoved},
				{RelativePath: name, Action: watch.ActionAdded},
			}
		}
		w.bus.Notify(parentPath, changes)
	}
	return nil
}

// validateWriterTargetLocked re-runs Commit's collision check under
// the tree lock, where the tree may have changed since CreateWriter.
func validateWriterTargetLocked(parent *Node, name string, flags OpFlags) (*Node, error) {
	existing := parent.childByName(name)
	if existing == nil {
		return parent, nil
	}
	if existing.isDir {
		return nil, errorv("Writer.Commit", ErrIsADirectory)
	}
	if !flags.Has(OpAllowOverwrite) {
		return nil, errorv("Writer.Commit", ErrExist)
	}
	if existing.attr.Has(AttrReadonly) && !flags.Has(OpAllowReplaceReadonly) {
		return nil, errorv("Writer.Commit", ErrAccessDenied)
	}
	return parent, nil
}

func nextFileIndex(parent *Node) uint32 {
	var max uint32
	for _, c := range parent.children {
		if c.fileIndex > max {
			max = c.fileIndex
		}
	}
	return max + 1
}

// kindFromName infers a Kind from a committed file's extension, so a
// reader created later over written content can still report a
// plausible Kind even though writer-committed files have no generator
// seed driving their content.
func kindFromName(name string) Kind {
	for k, ext := range extensionByKind {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return k
		}
	}
	return KindBin
}
