package engine

import (
	"testing"

	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfigMarksDirtyUntilGetConfig(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)
	assert.False(t, e.SomethingToSave())

	require.NoError(t, e.SetConfig([]byte(`{"latencyMs":5}`)))
	assert.True(t, e.SomethingToSave())

	_ = e.GetConfig()
	assert.False(t, e.SomethingToSave())
}

func TestSetConfigRejectsOutOfRangeValues(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)
	err := e.SetConfig([]byte(`{"maxDepth":99999}`))
	assert.Error(t, err)
	assert.False(t, e.SomethingToSave())
}

func TestSetConfigChangedFieldDropsTreeNotJustFields(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)
	root := e.VFS().Forest().RootFor(`C:\`)
	originalSeed := root.Seed()

	cfg := e.Config()
	cfg.Seed = cfg.Seed + 1
	require.NoError(t, e.SetConfig(cfg.ToJSON()))

	newRoot := e.VFS().Forest().RootFor(`C:\`)
	assert.NotEqual(t, originalSeed, newRoot.Seed())
}

func TestSetConfigUnchangedReseedFieldsKeepsTree(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)
	v := e.VFS()

	cfg := e.Config()
	cfg.LatencyMs = 7
	require.NoError(t, e.SetConfig(cfg.ToJSON()))

	assert.Same(t, v, e.VFS())
}

func TestSetConfigPartialPayloadPreservesOmittedFields(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)
	require.NoError(t, e.SetConfig([]byte(`{"virtualSpeedLimit":"1MB/s"}`)))
	require.NotZero(t, e.Config().BytesPerSec())

	// A second call that omits virtualSpeedLimit entirely must not
	// reset it back to Default()'s unlimited value.
	require.NoError(t, e.SetConfig([]byte(`{"latencyMs":5}`)))
	assert.Equal(t, 5, e.Config().LatencyMs)
	assert.Equal(t, "1MB/s", e.Config().VirtualSpeedLimit)
	assert.NotZero(t, e.Config().BytesPerSec())
}

func TestGetConfigSchemaIsValidJSON(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)
	assert.Contains(t, string(e.GetConfigSchema()), "maxChildrenPerDirectory")
}
