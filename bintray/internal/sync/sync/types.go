package sync

import (
	"time"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/planner"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/scanner"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// Config holds configuration for a publish run.
type Config struct {
	// Coordinates address the target version
	Coordinates domain.Coordinates

	// LocalRoot is the directory the local files are relative to
	LocalRoot string

	// LocalFiles are the discovered local files, in discovery order
	LocalFiles []scanner.LocalFile

	// RemotePrefix is the expanded remote path prefix
	RemotePrefix string

	// KeepExistingFiles disables orphan deletion
	KeepExistingFiles bool

	// Override replaces existing remote files
	Override bool

	// Publish runs the publish phase after reconciliation
	Publish bool

	// ShowInDownloadList runs the visibility phase after publishing
	ShowInDownloadList bool

	// GPGPassphrase signs uploaded files when set
	GPGPassphrase string

	// Debian is the packaging metadata sent with each upload
	Debian bintraytypes.DebianConfig
}

// Result contains the results of a publish run.
type Result struct {
	// Plan is the reconciliation plan that was executed
	Plan *planner.Plan

	// Uploaded lists the remote paths written
	Uploaded []string

	// Deleted lists the orphaned remote paths removed
	Deleted []string

	// Skipped lists deletions dropped at execution time
	Skipped []string

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// PublishCalls is the number of publish requests made
	PublishCalls int

	// Visible lists the paths shown in the download list
	Visible []string

	// Warnings collects every warning returned by the API
	Warnings []string

	// Duration is how long the run took
	Duration time.Duration
}
