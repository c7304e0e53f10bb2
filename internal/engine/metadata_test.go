package engine

import (
	"encoding/json"
	"testing"

	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMetadataReportsFixedIdentity(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)

	var got PluginMetadata
	require.NoError(t, json.Unmarshal(e.GetMetadata(), &got))
	assert.Equal(t, "synthfs", got.ShortID)
	assert.NotEmpty(t, got.Version)
}
