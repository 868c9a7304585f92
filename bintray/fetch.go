package bintray

import (
	"context"
	"fmt"
	"path"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/scanner"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/version"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
)

// Fetch downloads the files of the version addressed by coords into destDir.
//
// The remote path template is expanded with coords.Version; only files below
// it whose path relative to it matches one of patterns are fetched, and they
// keep that relative path under destDir. No patterns means every file.
func (c *Client) Fetch(
	ctx context.Context,
	coords domain.Coordinates,
	remotePath string,
	patterns []string,
	destDir string,
) (*bintraytypes.FetchResult, error) {
	if err := requireFields(coords, versionLevel); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = scanner.DefaultPatterns
	}
	matcher, err := scanner.NewPatternMatcher(patterns)
	if err != nil {
		return nil, err
	}

	if err := c.fs.MkdirAll(destDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.CodeFilesystem, "failed to create %s", destDir)
	}

	contents, err := c.api.ListFiles(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", coords, err)
	}

	prefix := version.ExpandRemotePath(remotePath, coords.Version)
	selected := scanner.FilterRemote(contents, prefix, matcher)
	c.logger.Info("fetching files", "version", coords.String(), "prefix", prefix, "files", len(selected))

	result := &bintraytypes.FetchResult{}
	for _, f := range selected {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		n, err := c.download(ctx, coords, f, path.Join(destDir, f.RelPath))
		result.BytesDownloaded += n
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, f.RelPath)
	}
	return result, nil
}

func (c *Client) download(ctx context.Context, coords domain.Coordinates, f scanner.RemoteFile, dest string) (int64, error) {
	c.logger.Info("downloading file", "remote", f.Path, "local", dest)

	if err := c.fs.MkdirAll(path.Dir(dest), 0o755); err != nil {
		return 0, errors.Wrapf(err, errors.CodeFilesystem, "failed to create %s", path.Dir(dest))
	}
	out, err := c.fs.Create(dest)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeFilesystem, "failed to create %s", dest)
	}

	n, err := c.api.DownloadContent(ctx, coords, f.Path, out)
	closeErr := out.Close()
	if err != nil {
		if rmErr := c.fs.Remove(dest); rmErr != nil {
			c.logger.Warn("failed to remove partial download", "local", dest, "error", rmErr)
		}
		return n, fmt.Errorf("failed to download %s: %w", f.Path, err)
	}
	if closeErr != nil {
		return n, errors.Wrapf(closeErr, errors.CodeFilesystem, "failed to write %s", dest)
	}
	return n, nil
}
