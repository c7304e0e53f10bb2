package engine

import (
	"github.com/cortexfs/synthfs/internal/rng"
)

// DriveInfoFlags mirrors DriveInfoFlags from the original plugin
// contract's DriveInfo.h: which optional DriveInfo fields are
// populated.
type DriveInfoFlags uint32

const (
	DriveInfoFlagNone           DriveInfoFlags = 0
	DriveInfoFlagHasDisplayName DriveInfoFlags = 1 << 0
	DriveInfoFlagHasVolumeLabel DriveInfoFlags = 1 << 1
	DriveInfoFlagHasFileSystem  DriveInfoFlags = 1 << 2
	DriveInfoFlagHasTotalBytes  DriveInfoFlags = 1 << 3
	DriveInfoFlagHasFreeBytes   DriveInfoFlags = 1 << 4
	DriveInfoFlagHasUsedBytes   DriveInfoFlags = 1 << 5
)

func (f DriveInfoFlags) Has(bit DriveInfoFlags) bool { return f&bit != 0 }

// DriveInfo is the get_drive_info payload.
type DriveInfo struct {
	Flags       DriveInfoFlags
	DisplayName string
	VolumeLabel string
	FileSystem  string
	TotalBytes  uint64
	FreeBytes   uint64
	UsedBytes   uint64
}

// DriveInfoCommand mirrors DriveInfoCommand from DriveInfo.h, the
// command IDs execute_drive_menu understands.
type DriveInfoCommand uint32

const (
	DriveInfoCommandNone       DriveInfoCommand = 0
	DriveInfoCommandProperties DriveInfoCommand = 1
	DriveInfoCommandCleanup    DriveInfoCommand = 2
)

// GetDriveInfo implements get_drive_info. Every numeric field is
// synthesized deterministically from the owning root's seed (the same
// seed the generator draws that root's tree from), so repeated calls,
// and repeated runs configured with the same seed, report identical
// numbers without walking the tree.
func (e *Engine) GetDriveInfo(itemPath string) DriveInfo {
	root := e.VFS().Forest().RootFor(itemPath)
	draw := rng.NewSplitMix64(rng.Mix(root.Seed()))

	const giB = uint64(1) << 30
	total := giB + draw.Next()%(giB*1024) // 1 GiB .. ~1 TiB
	usedPercent := draw.Next() % 100
	used := total * usedPercent / 100
	free := total - used

	return DriveInfo{
		Flags: DriveInfoFlagHasDisplayName | DriveInfoFlagHasFileSystem |
			DriveInfoFlagHasTotalBytes | DriveInfoFlagHasFreeBytes | DriveInfoFlagHasUsedBytes,
		DisplayName: root.Path(),
		FileSystem:  "synthfs",
		TotalBytes:  total,
		FreeBytes:   free,
		UsedBytes:   used,
	}
}

// GetDriveMenuItems implements get_drive_menu: a fixed two-entry menu
// naming the two commands DriveInfoCommand supports.
func (e *Engine) GetDriveMenuItems(itemPath string) []NavigationMenuItem {
	return []NavigationMenuItem{
		{Label: "Properties", Path: itemPath, CommandID: uint32(DriveInfoCommandProperties)},
		{Label: "Clean up synthetic cache", Path: itemPath, CommandID: uint32(DriveInfoCommandCleanup)},
	}
}

// ExecuteDriveMenuCommand implements execute_drive_menu.
// DriveInfoCommandCleanup is a no-op here: the tree is regenerated
// from its seed on demand and carries no actual cache to clean, but
// the command is still accepted (and logged) so a host's menu click
// doesn't surface as an error.
func (e *Engine) ExecuteDriveMenuCommand(commandID uint32, itemPath string) error {
	switch DriveInfoCommand(commandID) {
	case DriveInfoCommandProperties, DriveInfoCommandCleanup:
		log.WithFields(map[string]interface{}{"command": commandID, "path": itemPath}).Info("drive menu command executed")
		return nil
	default:
		return ErrUnknownMenuCommand
	}
}
