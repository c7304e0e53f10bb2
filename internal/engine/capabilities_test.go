package engine

import (
	"encoding/json"
	"testing"

	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCapabilitiesMatchesFixedDocument(t *testing.T) {
	e := New("test", vfsconfig.Default(), 1)

	var got Capabilities
	require.NoError(t, json.Unmarshal(e.GetCapabilities(), &got))
	assert.Equal(t, fixedCapabilities, got)
	assert.Equal(t, []string{"*"}, got.CrossFileSystem.Export.Copy)
	assert.Equal(t, 4, got.Concurrency.CopyMoveMax)
}
