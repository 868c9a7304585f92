package billy

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	parentfs "github.com/rabbitmq/concourse-bintray-resources/fs"
)

func testMkdirAllStat(t *testing.T, fs parentfs.Filesystem) {
	t.Helper()
	require.NoError(t, fs.MkdirAll("a/b/c", 0o755))

	info, err := fs.Stat("a/b")
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "expected directory, got file: %v", info.Name())

	ok, err := fs.Exists("a/b/c")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fs.Exists("a/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testCreateWriteReadRemove(t *testing.T, fs parentfs.Filesystem) {
	t.Helper()
	f, err := fs.Create("nested/dir/file.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b, err := fs.ReadFile("nested/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	require.NoError(t, fs.Remove("nested/dir/file.txt"))
	ok, err := fs.Exists("nested/dir/file.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testOpenSeekRead(t *testing.T, fs parentfs.Filesystem) {
	t.Helper()
	require.NoError(t, fs.WriteFile("open.txt", []byte("abc"), 0o644))

	f, err := fs.Open("open.txt")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	first, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(first))

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	again, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
}

func testWalk(t *testing.T, fs parentfs.Filesystem) {
	t.Helper()
	require.NoError(t, fs.WriteFile("w/x/y/z.txt", []byte("z"), 0o644))
	require.NoError(t, fs.WriteFile("w/a.txt", []byte("a"), 0o644))

	var files []string
	err := fs.Walk("w", func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if !info.IsDir() {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"w/a.txt", "w/x/y/z.txt"}, files)
}

func runSuite(t *testing.T, fs parentfs.Filesystem) {
	t.Helper()
	testMkdirAllStat(t, fs)
	testCreateWriteReadRemove(t, fs)
	testOpenSeekRead(t, fs)
	testWalk(t, fs)
}

func TestInMemoryFS_Suite(t *testing.T) {
	runSuite(t, NewInMemoryFS())
}

func TestOSFS_Suite(t *testing.T) {
	root := t.TempDir()
	fs := NewOSFS(root)
	runSuite(t, fs)

	_, err := os.Stat(filepath.Join(root, "w", "a.txt"))
	assert.NoError(t, err, "files must land under the root directory")
}
