package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs/billy"
)

func newTree(t *testing.T, files map[string]string) *billy.FS {
	t.Helper()
	fsys := billy.NewInMemoryFS()
	for p, content := range files {
		require.NoError(t, fsys.WriteFile(p, []byte(content), 0o644))
	}
	return fsys
}

func TestScanLocal(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"out/b.txt":            "bb",
		"out/a.txt":            "a",
		"out/nested/app.tgz":   "tgz",
		"out/nested/notes.md":  "md",
		"elsewhere/ignored.md": "x",
	})
	require.NoError(t, fsys.MkdirAll("out/empty", 0o755))

	t.Run("default patterns select every file sorted", func(t *testing.T) {
		pm, err := NewPatternMatcher(nil)
		require.NoError(t, err)

		files, err := NewScanner(fsys).ScanLocal(context.Background(), "out", pm)
		require.NoError(t, err)
		assert.Equal(t, []LocalFile{
			{Path: "a.txt", Size: 1},
			{Path: "b.txt", Size: 2},
			{Path: "nested/app.tgz", Size: 3},
			{Path: "nested/notes.md", Size: 2},
		}, files)
	})

	t.Run("patterns union without duplicates", func(t *testing.T) {
		pm, err := NewPatternMatcher([]string{"**/*.tgz", "nested/*", "a.txt"})
		require.NoError(t, err)

		files, err := NewScanner(fsys).ScanLocal(context.Background(), "out", pm)
		require.NoError(t, err)
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
		assert.Equal(t, []string{"a.txt", "nested/app.tgz", "nested/notes.md"}, paths)
	})

	t.Run("empty root scans the whole filesystem", func(t *testing.T) {
		pm, err := NewPatternMatcher([]string{"elsewhere/*"})
		require.NoError(t, err)

		files, err := NewScanner(fsys).ScanLocal(context.Background(), "", pm)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "elsewhere/ignored.md", files[0].Path)
	})

	t.Run("missing root is a filesystem error", func(t *testing.T) {
		pm, err := NewPatternMatcher(nil)
		require.NoError(t, err)

		_, err = NewScanner(fsys).ScanLocal(context.Background(), "missing", pm)
		require.Error(t, err)
		assert.Equal(t, errors.CodeFilesystem, errors.CodeOf(err))
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		pm, err := NewPatternMatcher(nil)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = NewScanner(fsys).ScanLocal(ctx, "out", pm)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFilterRemote(t *testing.T) {
	contents := []domain.Content{
		{Path: "release/1.0/app.tgz", Size: 10},
		{Path: "release/1.0/docs/readme.md", Size: 5},
		{Path: "release/1.0x/other.tgz"},
		{Path: "other/app.tgz"},
	}

	t.Run("prefix and patterns", func(t *testing.T) {
		pm, err := NewPatternMatcher([]string{"*.tgz"})
		require.NoError(t, err)

		files := FilterRemote(contents, "/release/1.0/", pm)
		assert.Equal(t, []RemoteFile{
			{Path: "release/1.0/app.tgz", RelPath: "app.tgz", Size: 10},
		}, files)
	})

	t.Run("default patterns keep nested entries", func(t *testing.T) {
		pm, err := NewPatternMatcher(nil)
		require.NoError(t, err)

		files := FilterRemote(contents, "release/1.0", pm)
		require.Len(t, files, 2)
		assert.Equal(t, "docs/readme.md", files[1].RelPath)
	})

	t.Run("empty prefix selects everything", func(t *testing.T) {
		pm, err := NewPatternMatcher(nil)
		require.NoError(t, err)

		assert.Len(t, FilterRemote(contents, "", pm), 4)
	})
}
