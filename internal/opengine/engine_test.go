package opengine

import (
	"context"
	"testing"
	"time"

	"github.com/cortexfs/synthfs/internal/vfs"
	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) (*vfs.VFS, *Engine) {
	t.Helper()
	cfg := vfsconfig.Default()
	cfg.Seed = 11
	require.NoError(t, cfg.Normalize())
	v := vfs.New("test-owner", cfg, 1)
	return v, New(v, cfg)
}

func writeFile(t *testing.T, v *vfs.VFS, path, content string) {
	t.Helper()
	w, err := v.CreateWriter(path, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Commit(time.Now()))
}

func TestRunBulkCopySucceeds(t *testing.T) {
	v, e := testEngine(t)
	writeFile(t, v, `C:\a.txt`, "hello")

	result := e.RunBulk(context.Background(), []WorkItem{
		{Kind: OpCopy, Source: `C:\a.txt`, Dest: `C:\b.txt`},
	}, 0, Callback{})

	require.Len(t, result.Items, 1)
	assert.NoError(t, result.Items[0].Err)
	assert.False(t, result.Partial)

	r, err := v.CreateReader(`C:\b.txt`)
	require.NoError(t, err)
	buf := make([]byte, 5)
	n, _ := r.Read(buf)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestRunBulkDeleteMissingReportsError(t *testing.T) {
	_, e := testEngine(t)
	result := e.RunBulk(context.Background(), []WorkItem{
		{Kind: OpDelete, Source: `C:\missing.txt`},
	}, vfs.OpContinueOnError, Callback{})

	require.Len(t, result.Items, 1)
	assert.Error(t, result.Items[0].Err)
	assert.True(t, result.Partial)
}

func TestRunBulkStopsOnFirstErrorWithoutContinueOnError(t *testing.T) {
	v, e := testEngine(t)
	writeFile(t, v, `C:\ok.txt`, "x")

	result := e.RunBulk(context.Background(), []WorkItem{
		{Kind: OpDelete, Source: `C:\missing.txt`},
		{Kind: OpDelete, Source: `C:\ok.txt`},
	}, 0, Callback{})

	require.Len(t, result.Items, 1, "second item must not run once the first fails without ContinueOnError")
}

func TestRunBulkRespectsShouldCancel(t *testing.T) {
	v, e := testEngine(t)
	writeFile(t, v, `C:\a.txt`, "x")
	writeFile(t, v, `C:\b.txt`, "y")

	result := e.RunBulk(context.Background(), []WorkItem{
		{Kind: OpDelete, Source: `C:\a.txt`},
		{Kind: OpDelete, Source: `C:\b.txt`},
	}, 0, Callback{ShouldCancel: func() bool { return true }})

	assert.True(t, result.Cancelled)
	assert.Len(t, result.Items, 0)
}

func TestRunBulkRenameThenDeleteOrdering(t *testing.T) {
	v, e := testEngine(t)
	writeFile(t, v, `C:\old.txt`, "x")

	result := e.RunBulk(context.Background(), []WorkItem{
		{Kind: OpRename, Source: `C:\old.txt`, Dest: "renamed.txt"},
	}, 0, Callback{})
	require.NoError(t, result.Items[0].Err)

	attr, err := v.GetAttributes(`C:\renamed.txt`)
	require.NoError(t, err)
	assert.False(t, attr.Has(vfs.AttrDirectory))
}
