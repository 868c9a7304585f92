// Package fs defines the filesystem abstraction used to read local files for
// upload and to write downloaded content. Implementations live in sub-packages;
// fs/billy provides an OS-backed and an in-memory implementation.
package fs

import (
	"os"
	"path/filepath"
)

// Filesystem is the set of operations the resources need from a working directory.
// Paths are slash separated and relative to the filesystem root.
type Filesystem interface {
	// Create creates or truncates the named file.
	Create(name string) (File, error)

	// Exists reports whether the named file or directory exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and all missing parents.
	MkdirAll(path string, perm os.FileMode) error

	// Open opens the named file for reading.
	Open(name string) (File, error)

	// ReadFile returns the whole content of the named file.
	ReadFile(path string) ([]byte, error)

	// Remove removes the named file or empty directory.
	Remove(name string) error

	// Stat returns file information for the named file.
	Stat(name string) (os.FileInfo, error)

	// Walk walks the tree rooted at root in lexical order, calling walkFn for
	// each file or directory.
	Walk(root string, walkFn filepath.WalkFunc) error

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(filename string, data []byte, perm os.FileMode) error
}
