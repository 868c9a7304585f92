// Package scanner discovers the local files of a publish run and filters
// remote content listings.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs"
)

// LocalFile is a regular file found below the scan root.
type LocalFile = bintraytypes.LocalFile

// RemoteFile is a remote content entry selected by FilterRemote.
type RemoteFile struct {
	// Path is the path relative to the repository root
	Path string

	// RelPath is Path relative to the remote prefix
	RelPath string

	// Size is the file size in bytes
	Size int64
}

// Scanner walks a filesystem to find files matching glob patterns.
type Scanner struct {
	filesystem fs.Filesystem
}

// NewScanner creates a scanner over filesystem.
func NewScanner(filesystem fs.Filesystem) *Scanner {
	return &Scanner{filesystem: filesystem}
}

// ScanLocal returns the regular files below root matching the matcher, sorted
// by path. Symbolic links are followed when they point to regular files.
// Traversal errors are fatal.
func (s *Scanner) ScanLocal(ctx context.Context, root string, matcher *PatternMatcher) ([]LocalFile, error) {
	walkRoot := root
	if walkRoot == "" || walkRoot == "." {
		walkRoot = "/"
	}

	exists, err := s.filesystem.Exists(walkRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeFilesystem, "failed to inspect directory %q", root)
	}
	if !exists {
		return nil, errors.Newf(errors.CodeFilesystem, "local directory %q does not exist", root)
	}

	var files []LocalFile
	err = s.filesystem.Walk(walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, statErr := s.filesystem.Stat(path)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
			info = target
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if !matcher.Match(relPath) {
			return nil
		}

		files = append(files, LocalFile{Path: relPath, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeFilesystem, "failed to walk directory %q", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// FilterRemote selects the entries stored below prefix whose path relative to
// prefix matches the matcher. Entries outside prefix are skipped.
func FilterRemote(contents []domain.Content, prefix string, matcher *PatternMatcher) []RemoteFile {
	prefix = domain.CleanPath(prefix)

	var files []RemoteFile
	for _, c := range contents {
		p := domain.CleanPath(c.Path)
		relPath, ok := relativeTo(p, prefix)
		if !ok || !matcher.Match(relPath) {
			continue
		}
		files = append(files, RemoteFile{Path: p, RelPath: relPath, Size: c.Size})
	}
	return files
}

// relativeTo strips prefix from p. It reports false when p is not below prefix.
func relativeTo(p, prefix string) (string, bool) {
	if prefix == "" {
		return p, p != ""
	}
	if !strings.HasPrefix(p, prefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, prefix+"/"), true
}
