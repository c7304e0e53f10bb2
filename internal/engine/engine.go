// Package engine wires the virtual file system, the bulk operation
// engine, and the host-facing metadata/config/menu surfaces into the
// single value a host holds, mirroring the original dummy file system
// plugin's shape: one object implementing several narrow interfaces
// (DriveInfo, NavigationMenu, FileSystemIo,
// FileSystemDirectoryOperations, FileSystemDirectoryWatch,
// Informations, FileSystem) rather than one per concern.
package engine

import (
	"sync"

	"github.com/cortexfs/synthfs/internal/opengine"
	"github.com/cortexfs/synthfs/internal/vfs"
	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "engine")

// Engine is the host-facing root object for one mounted synthfs
// instance. Its capability groups (Config, DriveInfo, NavigationMenu,
// Metadata, Capabilities, ItemProperties) are split across sibling
// files in this package; vfs.VFS and opengine.Engine carry the IO and
// bulk-operation surfaces directly.
type Engine struct {
	owner string

	mu          sync.Mutex
	cfg         vfsconfig.C
	v           *vfs.VFS
	ops         *opengine.Engine
	dirty       bool
	tick        uint64
	navCallback NavigationCallback
	navCookie   interface{}
	menuByCmd   map[uint32]string
}

// New builds an Engine mounted under owner (the watch bus's owner
// identity) with the given initial configuration. monotonicTick feeds
// vfsconfig.C.EffectiveSeed when cfg.Seed == 0.
func New(owner string, cfg vfsconfig.C, monotonicTick uint64) *Engine {
	e := &Engine{owner: owner, cfg: cfg, tick: monotonicTick}
	e.v = vfs.New(owner, cfg, monotonicTick)
	e.ops = opengine.New(e.v, cfg)
	return e
}

// VFS returns the underlying file system, for FileSystemIo,
// FileSystemDirectoryOperations and FileSystemDirectoryWatch callers.
func (e *Engine) VFS() *vfs.VFS {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.v
}

// Operations returns the bulk operation engine bound to the current
// VFS instance, for the four bulk ops (copy/move/delete/rename).
func (e *Engine) Operations() *opengine.Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ops
}
