package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetItemPropertiesFileReportsTypeAndSize(t *testing.T) {
	e := New("a", vfsconfig.Default(), 1)
	w, err := e.VFS().CreateWriter(`C:\readme.txt`, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Commit(time.Now()))

	buf, err := e.GetItemProperties(`C:\readme.txt`)
	require.NoError(t, err)

	var props ItemProperties
	require.NoError(t, json.Unmarshal(buf, &props))
	require.Len(t, props.Sections, 1)

	byKey := fieldsByKey(props.Sections[0].Fields)
	assert.Equal(t, "file", byKey["type"])
	assert.NotEmpty(t, byKey["sizeBytes"])
	assert.Nil(t, byKey["childCount"]) // file: no childCount field at all
	_, hasChildCount := byKey["childCount"]
	assert.False(t, hasChildCount)
}

func TestGetItemPropertiesUngeneratedDirectoryReportsNullChildCount(t *testing.T) {
	e := New("a", vfsconfig.Default(), 1)
	buf, err := e.GetItemProperties(`C:\`)
	require.NoError(t, err)

	var props ItemProperties
	require.NoError(t, json.Unmarshal(buf, &props))
	byKey := fieldsByKey(props.Sections[0].Fields)
	assert.Equal(t, "directory", byKey["type"])
	v, ok := byKey["childCount"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestGetItemPropertiesGeneratedDirectoryReportsChildCount(t *testing.T) {
	e := New("a", vfsconfig.Default(), 1)
	_, err := e.VFS().ReadDirectory(`C:\`)
	require.NoError(t, err)

	buf, err := e.GetItemProperties(`C:\`)
	require.NoError(t, err)

	var props ItemProperties
	require.NoError(t, json.Unmarshal(buf, &props))
	byKey := fieldsByKey(props.Sections[0].Fields)
	assert.NotNil(t, byKey["childCount"])
}

func fieldsByKey(fields []PropertyField) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
