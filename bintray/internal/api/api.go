// Package api defines the interface to the Bintray REST API used by this module.
// It allows the sync engine to be tested against mocks.
package api

import (
	"context"
	"io"

	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// API defines the Bintray operations used by this module.
// Mutating calls return the warning reported by the server, if any.
type API interface {
	// GetRepository fetches a repository
	GetRepository(ctx context.Context, c domain.Coordinates) (*domain.Repository, error)

	// CreateRepository creates a repository
	CreateRepository(ctx context.Context, c domain.Coordinates, repo *domain.Repository) (string, error)

	// UpdateRepository updates the mutable fields of a repository
	UpdateRepository(ctx context.Context, c domain.Coordinates, repo *domain.Repository) (string, error)

	// GetPackage fetches a package, including its version names
	GetPackage(ctx context.Context, c domain.Coordinates) (*domain.Package, error)

	// CreatePackage creates a package
	CreatePackage(ctx context.Context, c domain.Coordinates, pkg *domain.Package) (string, error)

	// UpdatePackage updates the mutable fields of a package
	UpdatePackage(ctx context.Context, c domain.Coordinates, pkg *domain.Package) (string, error)

	// DeletePackage deletes a package and all its versions
	DeletePackage(ctx context.Context, c domain.Coordinates) (string, error)

	// GetVersion fetches a version
	GetVersion(ctx context.Context, c domain.Coordinates) (*domain.Version, error)

	// CreateVersion creates a version
	CreateVersion(ctx context.Context, c domain.Coordinates, v *domain.Version) (string, error)

	// UpdateVersion updates the mutable fields of a version
	UpdateVersion(ctx context.Context, c domain.Coordinates, v *domain.Version) (string, error)

	// DeleteVersion deletes a version and its content
	DeleteVersion(ctx context.Context, c domain.Coordinates) (string, error)

	// ListFiles lists the content of a version, unpublished files included
	ListFiles(ctx context.Context, c domain.Coordinates) ([]domain.Content, error)

	// UploadContent uploads one file to a version
	UploadContent(ctx context.Context, in *UploadInput) (string, error)

	// DeleteContent deletes one file from the repository
	DeleteContent(ctx context.Context, c domain.Coordinates, path string) (string, error)

	// PublishContent publishes the uploaded content of a version and returns
	// the number of files still unpublished
	PublishContent(ctx context.Context, c domain.Coordinates, in *PublishInput) (int, error)

	// ShowInDownloadList sets the download list visibility of a file. A file not
	// yet propagated to the package fails with a not found error.
	ShowInDownloadList(ctx context.Context, c domain.Coordinates, path string, visible bool) (string, error)

	// DownloadContent streams a file to w and returns the number of bytes written
	DownloadContent(ctx context.Context, c domain.Coordinates, path string, w io.Writer) (int64, error)
}

// UploadInput describes a single file upload.
type UploadInput struct {
	// Coordinates address the target version
	Coordinates domain.Coordinates

	// Path is the remote path relative to the repository root
	Path string

	// Body is the file content; it is rewound on retries
	Body io.ReadSeeker

	// Size is the content length in bytes
	Size int64

	// Publish publishes the file immediately
	Publish bool

	// Override replaces an existing file at Path
	Override bool

	// GPGPassphrase signs the file when set
	GPGPassphrase string

	// DebianDistributions, DebianComponents and DebianArchitectures are sent
	// as comma separated lists when non-empty
	DebianDistributions []string
	DebianComponents    []string
	DebianArchitectures []string
}

// PublishInput holds the parameters of a publish request.
type PublishInput struct {
	// Discard discards the unpublished content instead of publishing it
	Discard bool

	// WaitForSeconds is how long the server waits before answering;
	// -1 uses the server maximum, nil omits the field
	WaitForSeconds *int
}
