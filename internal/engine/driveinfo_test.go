package engine

import (
	"testing"

	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/stretchr/testify/assert"
)

func TestGetDriveInfoIsDeterministicForSameSeed(t *testing.T) {
	cfg := vfsconfig.Default()
	cfg.Seed = 12345

	e1 := New("a", cfg, 1)
	e2 := New("b", cfg, 1)

	info1 := e1.GetDriveInfo(`C:\`)
	info2 := e2.GetDriveInfo(`C:\`)

	assert.Equal(t, info1, info2)
	assert.True(t, info1.Flags.Has(DriveInfoFlagHasTotalBytes))
	assert.Equal(t, info1.FreeBytes+info1.UsedBytes, info1.TotalBytes)
}

func TestGetDriveInfoDiffersAcrossRoots(t *testing.T) {
	cfg := vfsconfig.Default()
	cfg.Seed = 99
	e := New("a", cfg, 1)

	a := e.GetDriveInfo(`C:\`)
	b := e.GetDriveInfo(`D:\`)
	assert.NotEqual(t, a.TotalBytes, b.TotalBytes)
}

func TestExecuteDriveMenuCommandRejectsUnknownCommand(t *testing.T) {
	e := New("a", vfsconfig.Default(), 1)
	err := e.ExecuteDriveMenuCommand(999, `C:\`)
	assert.ErrorIs(t, err, ErrUnknownMenuCommand)
}

func TestExecuteDriveMenuCommandAcceptsKnownCommands(t *testing.T) {
	e := New("a", vfsconfig.Default(), 1)
	assert.NoError(t, e.ExecuteDriveMenuCommand(uint32(DriveInfoCommandProperties), `C:\`))
	assert.NoError(t, e.ExecuteDriveMenuCommand(uint32(DriveInfoCommandCleanup), `C:\`))
}
