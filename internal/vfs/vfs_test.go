package vfs

import (
	"context"
	"testing"
	"time"

	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/cortexfs/synthfs/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVFS(t *testing.T, seed uint32) *VFS {
	t.Helper()
	cfg := vfsconfig.Default()
	cfg.Seed = seed
	require.NoError(t, cfg.Normalize())
	return New("test-owner", cfg, 1)
}

func TestReadDirectoryDeterministic(t *testing.T) {
	v1 := testVFS(t, 7)
	v2 := testVFS(t, 7)

	b1, err := v1.ReadDirectory(`C:\`)
	require.NoError(t, err)
	b2, err := v2.ReadDirectory(`C:\`)
	require.NoError(t, err)
	assert.Equal(t, b1.Bytes(), b2.Bytes())
}

func TestReadDirectoryNotFound(t *testing.T) {
	v := testVFS(t, 7)
	_, err := v.ReadDirectory(`C:\does\not\exist\at\all`)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRootChildFloorIsPreservedQuirk(t *testing.T) {
	cfg := vfsconfig.Default()
	cfg.Seed = 7
	cfg.MaxChildrenPerDirectory = 0 // GeneratePlannedChildCount always returns 0 at this ceiling
	require.NoError(t, cfg.Normalize())
	v := New("test-owner", cfg, 1)

	root := v.forest.getOrCreateRoot(`C:\`)
	assert.Equal(t, 2, root.node.PlannedChildCount(), "root keeps its floor of 2 regardless of configured maximum")

	require.NoError(t, v.CreateDirectory(`C:\Sub`, time.Now()))
	attr, err := v.GetAttributes(`C:\Sub`)
	require.NoError(t, err)
	require.True(t, attr.Has(AttrDirectory))

	err = v.forest.WithReadLock(func() error {
		sub := root.node.childByName("Sub")
		assert.Equal(t, 0, sub.PlannedChildCount(), "only the mount root gets the floor quirk")
		return nil
	})
	require.NoError(t, err)
}

func TestCreateReaderOnDirectoryFails(t *testing.T) {
	v := testVFS(t, 7)
	_, err := v.CreateReader(`C:\`)
	assert.ErrorIs(t, err, ErrIsADirectory)
}

func TestCreateDirectoryThenLookup(t *testing.T) {
	v := testVFS(t, 7)
	require.NoError(t, v.CreateDirectory(`C:\NewFolder`, time.Now()))
	attr, err := v.GetAttributes(`C:\NewFolder`)
	require.NoError(t, err)
	assert.True(t, attr.Has(AttrDirectory))
}

func TestCreateDirectoryCollisionFails(t *testing.T) {
	v := testVFS(t, 7)
	require.NoError(t, v.CreateDirectory(`C:\Dup`, time.Now()))
	err := v.CreateDirectory(`C:\Dup`, time.Now())
	assert.ErrorIs(t, err, ErrExist)
}

func TestWriterCommitThenReadBack(t *testing.T) {
	v := testVFS(t, 7)
	w, err := v.CreateWriter(`C:\hello.txt`, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, w.Commit(time.Now()))

	r, err := v.CreateReader(`C:\hello.txt`)
	require.NoError(t, err)
	buf := make([]byte, 11)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(buf[:n]))
}

func TestReaderReadAtExactEOFReturnsZeroBytesSuccess(t *testing.T) {
	v := testVFS(t, 7)
	w, err := v.CreateWriter(`C:\hello.txt`, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, w.Commit(time.Now()))

	r, err := v.CreateReader(`C:\hello.txt`)
	require.NoError(t, err)
	_, err = r.Seek(r.Size(), SeekBegin)
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReaderReadAtExactEOFGeneratedFile(t *testing.T) {
	v := testVFS(t, 7)
	names, err := v.ListChildNames(`C:\`)
	require.NoError(t, err)
	var filePath string
	for _, n := range names {
		if !n.IsDir {
			filePath = `C:\` + n.Name
			break
		}
	}
	require.NotEmpty(t, filePath, "expected at least one generated file under C:\\")

	r, err := v.CreateReader(filePath)
	require.NoError(t, err)
	_, err = r.Seek(r.Size(), SeekBegin)
	require.NoError(t, err)

	n, err := r.Read(make([]byte, 8))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWriterCommitIsIdempotent(t *testing.T) {
	v := testVFS(t, 7)
	w, err := v.CreateWriter(`C:\a.txt`, 0)
	require.NoError(t, err)
	_, _ = w.Write([]byte("one"))
	require.NoError(t, w.Commit(time.Now()))
	require.NoError(t, w.Commit(time.Now())) // no-op, must not error or duplicate

	var matches int
	err = v.forest.WithWriteLock(func() error {
		root := v.forest.getOrCreateRoot(`C:\`)
		for _, c := range root.node.children {
			if c.name == "a.txt" {
				matches++
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, matches)
}

func TestWriterExistingFileRequiresOverwriteFlag(t *testing.T) {
	v := testVFS(t, 7)
	w, err := v.CreateWriter(`C:\dup.txt`, 0)
	require.NoError(t, err)
	_, _ = w.Write([]byte("first"))
	require.NoError(t, w.Commit(time.Now()))

	_, err = v.CreateWriter(`C:\dup.txt`, 0)
	assert.ErrorIs(t, err, ErrExist)

	w2, err := v.CreateWriter(`C:\dup.txt`, OpAllowOverwrite)
	require.NoError(t, err)
	_, _ = w2.Write([]byte("second"))
	require.NoError(t, w2.Commit(time.Now()))

	r, err := v.CreateReader(`C:\dup.txt`)
	require.NoError(t, err)
	buf := make([]byte, 6)
	n, _ := r.Read(buf)
	assert.Equal(t, "second", string(buf[:n]))
}

func TestGetDirectorySizeOnFile(t *testing.T) {
	v := testVFS(t, 7)
	w, err := v.CreateWriter(`C:\f.txt`, 0)
	require.NoError(t, err)
	_, _ = w.Write([]byte("12345"))
	require.NoError(t, w.Commit(time.Now()))

	progress, err := v.GetDirectorySize(context.Background(), `C:\f.txt`, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), progress.ScannedEntries)
	assert.Equal(t, uint64(5), progress.TotalBytes)
}

func TestGetDirectorySizeRecursiveCancel(t *testing.T) {
	v := testVFS(t, 7)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := v.GetDirectorySize(ctx, `C:\`, true, nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestWatchDirectoryReceivesAddedOnWriterCommit(t *testing.T) {
	v := testVFS(t, 7)
	added := make(chan string, 1)
	require.NoError(t, v.WatchDirectory(`C:\`, func(_ string, changes []watch.Change) {
		if len(changes) > 0 {
			added <- changes[0].RelativePath
		}
	}, nil))

	w, err := v.CreateWriter(`C:\new.txt`, 0)
	require.NoError(t, err)
	_, _ = w.Write([]byte("x"))
	require.NoError(t, w.Commit(time.Now()))

	select {
	case name := <-added:
		assert.Equal(t, "new.txt", name)
	case <-time.After(time.Second):
		t.Fatal("did not receive watch notification")
	}
}

func TestRenameSameNameEmitsModified(t *testing.T) {
	v := testVFS(t, 7)
	w, err := v.CreateWriter(`C:\same.txt`, 0)
	require.NoError(t, err)
	_, _ = w.Write([]byte("x"))
	require.NoError(t, w.Commit(time.Now()))

	changed := make(chan []watch.Change, 1)
	require.NoError(t, v.WatchDirectory(`C:\`, func(_ string, changes []watch.Change) {
		changed <- changes
	}, nil))

	require.NoError(t, v.RenameItem(`C:\same.txt`, "same.txt", time.Now(), 0))

	select {
	case changes := <-changed:
		require.Len(t, changes, 1)
		assert.Equal(t, "same.txt", changes[0].RelativePath)
		assert.Equal(t, watch.ActionModified, changes[0].Action)
	case <-time.After(time.Second):
		t.Fatal("did not receive watch notification")
	}
}
