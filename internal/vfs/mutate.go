package vfs

import (
	"time"

	"github.com/cortexfs/synthfs/internal/watch"
)

// cloneNode duplicates src as a detached Node ready to be attached
// under a new parent/name/index. Ungenerated subtrees
// are not expanded eagerly: a clone of a directory whose children
// have not yet been generated keeps the same generation_seed and
// starts ungenerated too, so it materializes identical content lazily
// on first access. Committed content (materialized_content) is shared
// rather than duplicated, since sharedBuffer is immutable.
func cloneNode(src *Node, name string, parent *Node, index uint32) *Node {
	clone := &Node{
		name:              name,
		isDir:             src.isDir,
		attr:              src.attr,
		size:              src.size,
		ts:                src.ts,
		generationSeed:    src.generationSeed,
		plannedChildCount: src.plannedChildCount,
		kind:              src.kind,
		content:           src.content,
		parent:            parent,
		fileIndex:         index,
		childrenGenerated: src.childrenGenerated,
	}
	if src.isDir && src.childrenGenerated {
		clone.children = make([]*Node, len(src.children))
		for i, c := range src.children {
			clone.children[i] = cloneNode(c, c.name, clone, uint32(i))
		}
	}
	return clone
}

// CopyItem implements the copy contract for one item: clone
// src recursively (excluding ungenerated subtrees) onto destPath. The
// first directory level of the clone is forced to generate so the
// copy is immediately observable even if the source directory was
// not yet expanded.
func (v *VFS) CopyItem(srcPath, destPath string, flags OpFlags) error {
	destParentPath, destName, err := splitParentAndName(destPath)
	if err != nil {
		return err
	}
	if !isValidName(destName) {
		return errorv("CopyItem", ErrInvalidName)
	}

	var removedExisting bool
	err = v.forest.WithWriteLock(func() error {
		src, err := v.forest.resolvePath(srcPath, resolveOptions{})
		if err != nil {
			return errorv("CopyItem", err)
		}
		destParent, err := v.forest.resolvePath(destParentPath, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("CopyItem", err)
		}
		existing := destParent.childByName(destName)
		if existing != nil {
			if err := checkOverwriteAllowed(existing, flags); err != nil {
				return errorv("CopyItem", err)
			}
			removeChildLocked(destParent, existing)
			removedExisting = true
		}
		if src.isDir && !src.childrenGenerated {
			if err := v.forest.generator.EnsureChildren(src, pathDepth(srcPath), src.parent == nil); err != nil {
				return err
			}
		}
		clone := cloneNode(src, destName, destParent, nextFileIndex(destParent))
		destParent.children = append(destParent.children, clone)
		return nil
	})
	if err != nil {
		return err
	}
	notifyAddedMaybeReplaced(v.bus, destParentPath, destName, removedExisting)
	return nil
}

// MoveItem implements the move contract for one item:
// ExtractChild from the source parent, rename if needed, AddChild to
// the destination. Rename-within-same-parent is handled by
// RenameItem's fast path instead.
func (v *VFS) MoveItem(srcPath, destPath string, flags OpFlags) error {
	srcParentPath, srcName, err := splitParentAndName(srcPath)
	if err != nil {
		return err
	}
	destParentPath, destName, err := splitParentAndName(destPath)
	if err != nil {
		return err
	}
	if !isValidName(destName) {
		return errorv("MoveItem", ErrInvalidName)
	}

	var removedExisting bool
	err = v.forest.WithWriteLock(func() error {
		srcParent, err := v.forest.resolvePath(srcParentPath, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("MoveItem", err)
		}
		src := srcParent.childByName(srcName)
		if src == nil {
			return errorv("MoveItem", ErrNotFound)
		}
		destParent, err := v.forest.resolvePath(destParentPath, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("MoveItem", err)
		}
		existing := destParent.childByName(destName)
		if existing != nil {
			if err := checkOverwriteAllowed(existing, flags); err != nil {
				return errorv("MoveItem", err)
			}
			removeChildLocked(destParent, existing)
			removedExisting = true
		}
		removeChildLocked(srcParent, src)
		src.name = destName
		src.parent = destParent
		src.fileIndex = nextFileIndex(destParent)
		destParent.children = append(destParent.children, src)
		return nil
	})
	if err != nil {
		return err
	}
	if v.bus != nil {
		if srcParentPath == destParentPath && srcName == destName {
			v.bus.Notify(srcParentPath, []watch.Change{{RelativePath: destName, Action: watch.ActionModified}})
		} else if srcParentPath == destParentPath {
			v.bus.Notify(srcParentPath, []watch.Change{
				{RelativePath: srcName, Action: watch.ActionRemoved},
				{RelativePath: destName, Action: watch.ActionAdded},
			})
		} else {
			v.bus.Notify(srcParentPath, []watch.Change{{RelativePath: srcName, Action: watch.ActionRemoved}})
			notifyAddedMaybeReplaced(v.bus, destParentPath, destName, removedExisting)
		}
	}
	return nil
}

// RenameItem implements the rename contract: a move with an
// empty "same-parent" destination, using a fast path that updates
// only name and timestamps instead of detaching and reattaching.
func (v *VFS) RenameItem(path, newName string, now time.Time, flags OpFlags) error {
	parentPath, oldName, err := splitParentAndName(path)
	if err != nil {
		return err
	}
	if !isValidName(newName) {
		return errorv("RenameItem", ErrInvalidName)
	}

	var removedExisting bool
	err = v.forest.WithWriteLock(func() error {
		parent, err := v.forest.resolvePath(parentPath, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("RenameItem", err)
		}
		node := parent.childByName(oldName)
		if node == nil {
			return errorv("RenameItem", ErrNotFound)
		}
		if existing := parent.childByName(newName); existing != nil && existing != node {
			if err := checkOverwriteAllowed(existing, flags); err != nil {
				return errorv("RenameItem", err)
			}
			removeChildLocked(parent, existing)
			removedExisting = true
		}
		node.name = newName
		node.touchChange(now)
		return nil
	})
	if err != nil {
		return err
	}
	if v.bus != nil {
		var changes []watch.Change
		if oldName == newName {
			// Same-parent, same-name: nothing actually moved, but the
			// original's bulk RenameItems still reports this as a
			// Modified notification rather than silence.
			changes = []watch.Change{{RelativePath: newName, Action: watch.ActionModified}}
		} else {
			changes = []watch.Change{
				{RelativePath: oldName, Action: watch.ActionRemoved},
				{RelativePath: newName, Action: watch.ActionAdded},
			}
		}
		_ = removedExisting
		v.bus.Notify(parentPath, changes)
	}
	return nil
}

// DeleteItem implements the delete contract: refuses
// non-empty directories unless OpRecursive is set. Subtree teardown
// needs no explicit iterative stack here: Go's garbage collector
// reclaims a detached Node graph
// without running any recursive destructor, so there is no stack-
// depth hazard to guard against.
func (v *VFS) DeleteItem(path string, flags OpFlags) error {
	parentPath, name, err := splitParentAndName(path)
	if err != nil {
		return err
	}
	err = v.forest.WithWriteLock(func() error {
		parent, err := v.forest.resolvePath(parentPath, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("DeleteItem", err)
		}
		node := parent.childByName(name)
		if node == nil {
			return errorv("DeleteItem", ErrNotFound)
		}
		nonEmpty := node.isDir && !flags.Has(OpRecursive)
		if node.childrenGenerated {
			nonEmpty = nonEmpty && len(node.children) > 0
		} else {
			nonEmpty = nonEmpty && node.plannedChildCount > 0
		}
		if nonEmpty {
			return errorv("DeleteItem", ErrDirNotEmpty)
		}
		if node.attr.Has(AttrReadonly) && !flags.Has(OpAllowReplaceReadonly) {
			return errorv("DeleteItem", ErrAccessDenied)
		}
		removeChildLocked(parent, node)
		return nil
	})
	if err != nil {
		return err
	}
	v.bus.Notify(parentPath, []watch.Change{{RelativePath: name, Action: watch.ActionRemoved}})
	return nil
}

func checkOverwriteAllowed(existing *Node, flags OpFlags) error {
	if existing.isDir {
		return ErrIsADirectory
	}
	if !flags.Has(OpAllowOverwrite) {
		return ErrExist
	}
	if existing.attr.Has(AttrReadonly) && !flags.Has(OpAllowReplaceReadonly) {
		return ErrAccessDenied
	}
	return nil
}

func notifyAddedMaybeReplaced(bus *watch.Bus, parentPath, name string, removedExisting bool) {
	if bus == nil {
		return
	}
	changes := []watch.Change{{RelativePath: name, Action: watch.ActionAdded}}
	if removedExisting {
		changes = []watch.Change{
			{RelativePath: name, Action: watch.ActionRemoved},
			{RelativePath: name, Action: watch.ActionAdded},
		}
	}
	bus.Notify(parentPath, changes)
}
