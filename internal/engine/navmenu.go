package engine

import (
	"sort"

	"github.com/cortexfs/synthfs/internal/ordinalfold"
	"github.com/cortexfs/synthfs/internal/vfs"
	"github.com/pkg/errors"
)

// NavigationMenuItemFlags mirrors NavigationMenuItemFlags from the
// original plugin contract's NavigationMenu.h.
type NavigationMenuItemFlags uint32

const (
	NavMenuItemFlagNone      NavigationMenuItemFlags = 0
	NavMenuItemFlagSeparator NavigationMenuItemFlags = 1 << 0
	NavMenuItemFlagDisabled  NavigationMenuItemFlags = 1 << 1
	NavMenuItemFlagHeader    NavigationMenuItemFlags = 1 << 2
)

// NavigationMenuItem is one entry of get_menu/get_drive_menu's
// result, across the plugin boundary.
type NavigationMenuItem struct {
	Flags     NavigationMenuItemFlags
	Label     string
	Path      string
	IconPath  string
	CommandID uint32
}

// NavigationCallback mirrors INavigationMenuCallback: the host
// registers one callback (plus an opaque cookie it gets back
// verbatim) that the engine invokes when a menu item it served asks
// to navigate somewhere.
type NavigationCallback func(path string, cookie interface{})

var ErrUnknownMenuCommand = errors.New("engine: unknown menu command")

// GetMenuItems implements get_menu: one header plus one entry per
// currently mounted root. Command IDs are plugin-defined (the
// original interface's contract: "passed back to Execute...Command
// unchanged") — Engine remembers the command-id-to-path mapping it
// just served so ExecuteMenuCommand can resolve it, rather than
// relying on root iteration order staying stable across calls.
func (e *Engine) GetMenuItems() []NavigationMenuItem {
	forest := e.VFS().Forest()
	var roots []*vfs.Root
	_ = forest.WithReadLock(func() error {
		roots = forest.Roots()
		return nil
	})
	sort.Slice(roots, func(i, j int) bool { return ordinalfold.Less(roots[i].Path(), roots[j].Path()) })

	items := make([]NavigationMenuItem, 0, len(roots)+1)
	items = append(items, NavigationMenuItem{Flags: NavMenuItemFlagHeader, Label: "Mounted roots"})

	byCmd := make(map[uint32]string, len(roots))
	for i, r := range roots {
		cmd := uint32(i) + 1
		items = append(items, NavigationMenuItem{Label: r.Path(), Path: r.Path(), CommandID: cmd})
		byCmd[cmd] = r.Path()
	}

	e.mu.Lock()
	e.menuByCmd = byCmd
	e.mu.Unlock()
	return items
}

// ExecuteMenuCommand implements execute_menu: it resolves commandID
// against the mapping the most recent GetMenuItems call served, and,
// if a callback is registered, asks the host to navigate there.
func (e *Engine) ExecuteMenuCommand(commandID uint32) error {
	e.mu.Lock()
	path, ok := e.menuByCmd[commandID]
	cb, cookie := e.navCallback, e.navCookie
	e.mu.Unlock()
	if !ok {
		return ErrUnknownMenuCommand
	}
	if cb != nil {
		cb(path, cookie)
	}
	return nil
}

// SetCallback implements set_callback. Passing a nil callback
// unregisters it, mirroring the contract's "the host must call
// SetCallback(nullptr, nullptr) before releasing the plugin".
func (e *Engine) SetCallback(cb NavigationCallback, cookie interface{}) {
	e.mu.Lock()
	e.navCallback = cb
	e.navCookie = cookie
	e.mu.Unlock()
}
