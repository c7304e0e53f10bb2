package vfs

import (
	"context"
	"time"

	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/cortexfs/synthfs/internal/watch"
)

// VFS is the public contract: one Forest plus its watch bus.
type VFS struct {
	owner  string
	forest *Forest
	bus    *watch.Bus
}

func New(owner string, cfg vfsconfig.C, monotonicTick uint64) *VFS {
	return &VFS{owner: owner, forest: NewForest(cfg, monotonicTick), bus: watch.NewBus()}
}

func (v *VFS) Forest() *Forest { return v.forest }
func (v *VFS) Bus() *watch.Bus { return v.bus }

// BasicInfo is the get_basic_info/set_basic_info payload.
type BasicInfo struct {
	Creation   int64
	LastAccess int64
	LastWrite  int64
	Attributes Attr
}

// ReadDirectory implements read_directory: a lazily
// enumerated, packed list of child entries.
func (v *VFS) ReadDirectory(path string) (*DirInfoBuffer, error) {
	var buf *DirInfoBuffer
	err := v.forest.WithWriteLock(func() error {
		node, err := v.forest.resolvePath(path, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("ReadDirectory", err)
		}
		if err := v.forest.generator.EnsureChildren(node, pathDepth(path), node.parent == nil); err != nil {
			return err
		}
		buf = BuildDirInfo(node)
		return nil
	})
	return buf, err
}

// ChildName is a (name, isDirectory) pair, the minimum a bulk
// recursive operation needs to expand a directory into per-child
// work items without depending on the packed DirInfoBuffer layout.
type ChildName struct {
	Name  string
	IsDir bool
}

// ListChildNames returns dir's currently (or newly) generated
// children's names, for callers (the operation engine's recursive
// bulk copy/move/delete) that need to expand a directory without
// decoding ReadDirectory's packed wire format.
func (v *VFS) ListChildNames(path string) ([]ChildName, error) {
	var names []ChildName
	err := v.forest.WithWriteLock(func() error {
		node, err := v.forest.resolvePath(path, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("ListChildNames", err)
		}
		if err := v.forest.generator.EnsureChildren(node, pathDepth(path), node.parent == nil); err != nil {
			return err
		}
		names = make([]ChildName, len(node.children))
		for i, c := range node.children {
			names[i] = ChildName{Name: c.name, IsDir: c.isDir}
		}
		return nil
	})
	return names, err
}

// GetAttributes implements get_attributes.
func (v *VFS) GetAttributes(path string) (Attr, error) {
	var attr Attr
	err := v.forest.WithReadLock(func() error {
		node, err := v.forest.resolvePath(path, resolveOptions{})
		if err != nil {
			return errorv("GetAttributes", err)
		}
		attr = node.attr
		return nil
	})
	return attr, err
}

// CreateReader implements create_reader.
func (v *VFS) CreateReader(path string) (*Reader, error) {
	var reader *Reader
	err := v.forest.WithWriteLock(func() error {
		node, err := v.forest.resolvePath(path, resolveOptions{})
		if err != nil {
			return errorv("CreateReader", err)
		}
		if node.isDir {
			return errorv("CreateReader", ErrIsADirectory)
		}
		if node.content != nil {
			reader = newSharedReader(node.content)
			return nil
		}
		reader = newGeneratedReader(node)
		return nil
	})
	return reader, err
}

// CreateWriter implements create_writer.
func (v *VFS) CreateWriter(path string, flags OpFlags) (*Writer, error) {
	return CreateWriter(v.forest, v.bus, v.owner, path, flags)
}

// GetSize returns a node's declared size_bytes without creating a
// reader or materializing any content, for callers (the operation
// engine's throttling) that only need the byte count.
func (v *VFS) GetSize(path string) (uint64, error) {
	var size uint64
	err := v.forest.WithReadLock(func() error {
		node, err := v.forest.resolvePath(path, resolveOptions{})
		if err != nil {
			return errorv("GetSize", err)
		}
		size = node.size
		return nil
	})
	return size, err
}

// DirectoryChildCount reports how many children path currently has,
// and whether those children have already been generated. A
// not-yet-generated directory reports generated = false rather than
// paying to materialize its children just to answer the question, so
// callers building an optional summary (get_item_properties'
// childCount) can report "unknown" instead of forcing generation.
func (v *VFS) DirectoryChildCount(path string) (count int, generated bool, err error) {
	err = v.forest.WithReadLock(func() error {
		node, rerr := v.forest.resolvePath(path, resolveOptions{requireDirectory: true})
		if rerr != nil {
			return errorv("DirectoryChildCount", rerr)
		}
		generated = node.childrenGenerated
		if generated {
			count = len(node.children)
		}
		return nil
	})
	return count, generated, err
}

// GetBasicInfo implements get_basic_info.
func (v *VFS) GetBasicInfo(path string) (BasicInfo, error) {
	var info BasicInfo
	err := v.forest.WithReadLock(func() error {
		node, err := v.forest.resolvePath(path, resolveOptions{})
		if err != nil {
			return errorv("GetBasicInfo", err)
		}
		info = BasicInfo{
			Creation:   node.ts.Creation,
			LastAccess: node.ts.LastAccess,
			LastWrite:  node.ts.LastWrite,
			Attributes: node.attr,
		}
		return nil
	})
	return info, err
}

// SetBasicInfo implements set_basic_info: the DIRECTORY
// bit always tracks the node's actual kind regardless of what the
// caller passed, a zeroed attribute set on a regular file is filled
// in with NORMAL, and Change is always bumped to now.
func (v *VFS) SetBasicInfo(path string, info BasicInfo, now time.Time) error {
	return v.forest.WithWriteLock(func() error {
		node, err := v.forest.resolvePath(path, resolveOptions{})
		if err != nil {
			return errorv("SetBasicInfo", err)
		}
		node.ts.Creation = info.Creation
		node.ts.LastAccess = info.LastAccess
		node.ts.LastWrite = info.LastWrite
		attr := info.Attributes
		if !node.isDir && attr == AttrNormal {
			attr = AttrNormal
		}
		node.attr = attr.withDirectoryBit(node.isDir)
		node.touchChange(now)
		return nil
	})
}

// CreateDirectory implements create_directory.
func (v *VFS) CreateDirectory(path string, now time.Time) error {
	parentPath, name, err := splitParentAndName(path)
	if err != nil {
		return err
	}
	if !isValidName(name) {
		return errorv("CreateDirectory", ErrInvalidName)
	}
	err = v.forest.WithWriteLock(func() error {
		parent, err := v.forest.resolvePath(parentPath, resolveOptions{requireDirectory: true})
		if err != nil {
			return errorv("CreateDirectory", err)
		}
		if err := v.forest.generator.EnsureChildren(parent, pathDepth(parentPath), parent.parent == nil); err != nil {
			return err
		}
		if parent.childByName(name) != nil {
			return errorv("CreateDirectory", ErrExist)
		}
		v.forest.generator.newIntermediateDirectory(parent, name)
		return nil
	})
	if err != nil {
		return err
	}
	v.bus.Notify(parentPath, []watch.Change{{RelativePath: name, Action: watch.ActionAdded}})
	return nil
}

// DirectorySizeProgress is reported to GetDirectorySize's callback
// every 100 entries or 200ms, whichever comes first, and once more
// after the last entry.
type DirectorySizeProgress struct {
	ScannedEntries int64
	TotalBytes     uint64
	FileCount      int64
	DirectoryCount int64
	CurrentPath    string
}

// GetDirectorySize implements get_directory_size: an
// iterative (explicit-stack) subtree walk with periodic progress and
// cooperative cancellation.
func (v *VFS) GetDirectorySize(ctx context.Context, path string, recursive bool, onProgress func(DirectorySizeProgress)) (DirectorySizeProgress, error) {
	var root *Node
	err := v.forest.WithWriteLock(func() error {
		n, err := v.forest.resolvePath(path, resolveOptions{})
		if err != nil {
			return errorv("GetDirectorySize", err)
		}
		root = n
		return nil
	})
	if err != nil {
		return DirectorySizeProgress{}, err
	}

	var progress DirectorySizeProgress
	if !root.isDir {
		progress = DirectorySizeProgress{ScannedEntries: 1, TotalBytes: root.size, FileCount: 1}
		if onProgress != nil {
			onProgress(progress)
		}
		return progress, nil
	}

	type frame struct {
		node *Node
		path string
	}
	stack := []frame{{root, path}}
	lastTick := time.Now()

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return progress, errorv("GetDirectorySize", ErrCancelled)
		default:
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []*Node
		err := v.forest.WithWriteLock(func() error {
			if err := v.forest.generator.EnsureChildren(top.node, pathDepth(top.path), top.node.parent == nil); err != nil {
				return err
			}
			children = append(children, top.node.children...)
			return nil
		})
		if err != nil {
			// Subtree errors are swallowed unless this is
			// the very root of the scan.
			if top.node == root {
				return progress, err
			}
			continue
		}

		for _, c := range children {
			progress.ScannedEntries++
			progress.CurrentPath = top.path
			if c.isDir {
				progress.DirectoryCount++
				if recursive {
					stack = append(stack, frame{c, top.path + `\` + c.name})
				}
			} else {
				progress.FileCount++
				progress.TotalBytes += c.size
			}

			if progress.ScannedEntries%100 == 0 || time.Since(lastTick) >= 200*time.Millisecond {
				if onProgress != nil {
					onProgress(progress)
				}
				lastTick = time.Now()
			}
		}
	}

	if onProgress != nil {
		onProgress(progress)
	}
	return progress, nil
}

// WatchDirectory implements watch_directory.
func (v *VFS) WatchDirectory(path string, cb watch.Callback, cookie interface{}) error {
	if err := v.bus.Register(v.owner, path, cb, cookie); err != nil {
		return errorv("WatchDirectory", err)
	}
	return nil
}

// UnwatchDirectory implements unwatch_directory.
func (v *VFS) UnwatchDirectory(path string) error {
	if err := v.bus.Unregister(v.owner, path); err != nil {
		return errorv("UnwatchDirectory", err)
	}
	return nil
}

func pathDepth(path string) int {
	_, components := splitRootAndComponents(NormalizePath(path))
	depth := 0
	for _, c := range components {
		if c != "" && c != "." {
			depth++
		}
	}
	return depth
}
