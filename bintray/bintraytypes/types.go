// Package bintraytypes provides shared type definitions for the bintray module.
package bintraytypes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rabbitmq/concourse-bintray-resources/fs"
)

// DefaultBaseURL is the public Bintray REST endpoint.
const DefaultBaseURL = "https://api.bintray.com"

// Sleeper suspends the caller for a duration. Implementations must return early
// with the context error when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// ClientConfig holds configuration for the Bintray client.
type ClientConfig struct {
	// BaseURL is the REST API endpoint
	BaseURL string

	// Username is the Bintray user used for basic authentication
	Username string

	// APIKey is the API key used as basic authentication password
	APIKey string

	// HTTPClient replaces the underlying HTTP client when set
	HTTPClient *http.Client

	// MaxRetries is the number of retries for transport errors and 5xx responses
	MaxRetries int

	// RetryWaitMin is the minimum wait between transport retries
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait between transport retries
	RetryWaitMax time.Duration

	// Timeout bounds a single HTTP request, 0 means no timeout
	Timeout time.Duration

	// Logger receives structured diagnostics; nil disables logging
	Logger *slog.Logger

	// Sleeper is used for the fixed publish and visibility delays
	Sleeper Sleeper

	// PublishInterval is the delay between publish polls and visibility retries
	PublishInterval time.Duration

	// VisibilityDelay is the delay before the first visibility attempt
	VisibilityDelay time.Duration

	// Filesystem is where local files are read from and downloads are written to
	Filesystem fs.Filesystem
}

// Option is a functional option for configuring the client.
type Option func(*ClientConfig)

// DebianConfig carries the Debian packaging metadata sent with uploads.
type DebianConfig struct {
	// Distributions are the target distributions, e.g. "stretch"
	Distributions []string

	// Components are the repository components, e.g. "main"
	Components []string

	// Architectures are the package architectures, e.g. "amd64"
	Architectures []string
}

// PublishOptionConfig holds configuration for a publish run.
type PublishOptionConfig struct {
	// RemotePath is the remote directory template; $VERSION is replaced by the version
	RemotePath string

	// KeepExistingFiles disables the deletion of orphaned remote files
	KeepExistingFiles bool

	// Override replaces remote files that already exist
	Override bool

	// Publish marks uploaded content as published
	Publish bool

	// ShowInDownloadList marks uploaded files visible in the package download list
	ShowInDownloadList bool

	// GPGPassphrase signs uploaded files when set
	GPGPassphrase string

	// Debian is the packaging metadata for Debian repositories
	Debian DebianConfig
}

// PublishOption is a functional option for configuring publish runs.
type PublishOption func(*PublishOptionConfig)

// PublishResult contains the outcome of a publish run.
type PublishResult struct {
	// Uploaded lists the remote paths written, in upload order
	Uploaded []string

	// Deleted lists the orphaned remote paths removed
	Deleted []string

	// Skipped lists local files not uploaded because another file mapped to the same remote path
	Skipped []string

	// Kept lists orphans not deleted because they were written in this run
	Kept []string

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// PublishCalls is the number of publish requests sent
	PublishCalls int

	// Visible lists the remote paths marked visible in the download list
	Visible []string

	// Warnings collects the warnings returned by the API
	Warnings []string

	// Duration is how long the run took
	Duration time.Duration
}

// LocalFile is a regular file found below a discovery root.
type LocalFile struct {
	// Path is the slash separated path relative to the discovery root
	Path string

	// Size is the file size in bytes
	Size int64
}

// Discovery is the set of local files selected for a publish run.
type Discovery struct {
	// Root is the directory the files were discovered in
	Root string

	// Files are the selected files in discovery order
	Files []LocalFile
}

// Paths returns the relative paths of the discovered files, in order.
func (d *Discovery) Paths() []string {
	paths := make([]string, len(d.Files))
	for i, f := range d.Files {
		paths[i] = f.Path
	}
	return paths
}

// FetchResult contains the outcome of downloading version content.
type FetchResult struct {
	// Files lists the downloaded files relative to the destination directory
	Files []string

	// BytesDownloaded is the total number of bytes written
	BytesDownloaded int64
}

// PruneResult contains the outcome of a retention run.
type PruneResult struct {
	// Kept lists the versions retained, in processing order
	Kept []string

	// Deleted lists the versions deleted, in processing order
	Deleted []string

	// Warnings collects the warnings returned by the API
	Warnings []string
}
