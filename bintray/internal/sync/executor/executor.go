// Package executor performs the uploads and deletions of a reconciliation plan.
//
// Operations run sequentially in plan order. All uploads complete before the
// first deletion so that live content is never removed before its replacement
// exists. The first failure aborts the run; nothing is rolled back.
package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/api"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/planner"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs"
)

// Config holds the per-run settings of the executor.
type Config struct {
	// Coordinates address the target version
	Coordinates domain.Coordinates

	// LocalRoot is the directory local paths are relative to
	LocalRoot string

	// Publish publishes each file on upload
	Publish bool

	// Override replaces existing remote files
	Override bool

	// GPGPassphrase signs uploaded files when set
	GPGPassphrase string

	// Debian is the packaging metadata sent with each upload
	Debian bintraytypes.DebianConfig
}

// Executor runs planned operations against the API.
type Executor struct {
	api        api.API
	filesystem fs.Filesystem
	logger     *slog.Logger
}

// NewExecutor creates an executor reading local files from filesystem.
// A nil logger disables logging.
func NewExecutor(client api.API, filesystem fs.Filesystem, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{
		api:        client,
		filesystem: filesystem,
		logger:     logger,
	}
}

// UploadResult contains the result of upload operations.
type UploadResult struct {
	// Uploaded lists the remote paths written, in order
	Uploaded []string

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// Warnings collects the warnings returned by the API
	Warnings []string

	// Duration is how long the uploads took
	Duration time.Duration
}

// ExecuteUploads uploads every upload operation in order. On failure the
// partial result is returned along with the error.
func (e *Executor) ExecuteUploads(
	ctx context.Context,
	cfg *Config,
	operations []*planner.Operation,
) (*UploadResult, error) {
	startTime := time.Now()
	result := &UploadResult{}

	for _, op := range operations {
		if op.Type != planner.OperationUpload {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(startTime)
			return result, err
		}

		warning, err := e.uploadFile(ctx, cfg, op)
		if err != nil {
			result.Duration = time.Since(startTime)
			return result, err
		}
		result.Uploaded = append(result.Uploaded, op.RemotePath)
		result.BytesUploaded += op.Size
		result.Warnings = e.collectWarning(result.Warnings, op.RemotePath, warning)
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

func (e *Executor) uploadFile(ctx context.Context, cfg *Config, op *planner.Operation) (string, error) {
	localPath := path.Join(cfg.LocalRoot, op.LocalPath)
	e.logger.Info("uploading file", "local", localPath, "remote", op.RemotePath, "size", op.Size)

	f, err := e.filesystem.Open(localPath)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeFilesystem, "failed to open %s", localPath)
	}
	defer func() { _ = f.Close() }()

	size := op.Size
	if info, statErr := f.Stat(); statErr == nil {
		size = info.Size()
	}

	warning, err := e.api.UploadContent(ctx, &api.UploadInput{
		Coordinates:         cfg.Coordinates,
		Path:                op.RemotePath,
		Body:                f,
		Size:                size,
		Publish:             cfg.Publish,
		Override:            cfg.Override,
		GPGPassphrase:       cfg.GPGPassphrase,
		DebianDistributions: cfg.Debian.Distributions,
		DebianComponents:    cfg.Debian.Components,
		DebianArchitectures: cfg.Debian.Architectures,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", op.RemotePath, err)
	}
	return warning, nil
}

// DeleteResult contains the result of delete operations.
type DeleteResult struct {
	// Deleted lists the remote paths removed, in order
	Deleted []string

	// Skipped lists deletions dropped because the path was written in this run
	Skipped []string

	// Warnings collects the warnings returned by the API
	Warnings []string

	// Duration is how long the deletions took
	Duration time.Duration
}

// ExecuteDeletes removes every delete operation in order. Before each call the
// target is checked against written, the normalized absolute paths uploaded in
// this run, and skipped when present.
func (e *Executor) ExecuteDeletes(
	ctx context.Context,
	cfg *Config,
	operations []*planner.Operation,
	written map[string]struct{},
) (*DeleteResult, error) {
	startTime := time.Now()
	result := &DeleteResult{}

	for _, op := range operations {
		if op.Type != planner.OperationDelete {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(startTime)
			return result, err
		}

		if _, ok := written[domain.AbsPath(op.RemotePath)]; ok {
			e.logger.Warn("keeping file written in this run", "remote", op.RemotePath)
			result.Skipped = append(result.Skipped, op.RemotePath)
			continue
		}

		e.logger.Info("removing file", "remote", op.RemotePath)
		warning, err := e.api.DeleteContent(ctx, cfg.Coordinates, op.RemotePath)
		if err != nil {
			result.Duration = time.Since(startTime)
			return result, fmt.Errorf("failed to delete %s: %w", op.RemotePath, err)
		}
		result.Deleted = append(result.Deleted, op.RemotePath)
		result.Warnings = e.collectWarning(result.Warnings, op.RemotePath, warning)
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

func (e *Executor) collectWarning(warnings []string, remotePath, warning string) []string {
	if warning == "" {
		return warnings
	}
	e.logger.Warn(warning, "remote", remotePath)
	return append(warnings, warning)
}
