package bintray

import (
	"context"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/executor"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/planner"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/publish"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/scanner"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/sync"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/version"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// DiscoverFiles returns the regular files below localDir whose relative path
// matches any of patterns, sorted by path. No patterns means every file.
// Pattern and traversal errors are fatal.
func (c *Client) DiscoverFiles(
	ctx context.Context,
	localDir string,
	patterns []string,
) (*bintraytypes.Discovery, error) {
	if len(patterns) == 0 {
		patterns = scanner.DefaultPatterns
	}
	matcher, err := scanner.NewPatternMatcher(patterns)
	if err != nil {
		return nil, err
	}

	files, err := scanner.NewScanner(c.fs).ScanLocal(ctx, localDir, matcher)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("discovered local files", "dir", localDir, "files", len(files))
	return &bintraytypes.Discovery{Root: localDir, Files: files}, nil
}

// Publish mirrors the discovered files into the version addressed by coords.
//
// The run follows these phases:
//  1. Snapshot: list the files the version holds
//  2. Planning: upload every local file, delete remote files under no upload target
//  3. Execution: all uploads, then all deletions
//  4. Publish: publish and poll until no file is left unpublished
//  5. Visibility: show each uploaded file in the download list
//
// The remote path template is expanded with coords.Version. Neither polling
// loop is bounded; cancel ctx to stop them. On failure the partial result is
// returned with the error.
//
// Example:
//
//	found, err := client.DiscoverFiles(ctx, "/tmp/build/out", []string{"*.deb"})
//	...
//	result, err := client.Publish(ctx, coords, found,
//	    bintray.WithRemotePath("pool/$VERSION"),
//	    bintray.WithDebianArchitectures("amd64"),
//	)
func (c *Client) Publish(
	ctx context.Context,
	coords domain.Coordinates,
	discovery *bintraytypes.Discovery,
	opts ...bintraytypes.PublishOption,
) (*bintraytypes.PublishResult, error) {
	cfg := &bintraytypes.PublishOptionConfig{
		Override:           true,
		Publish:            true,
		ShowInDownloadList: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := requireFields(coords, versionLevel); err != nil {
		return nil, err
	}
	if discovery == nil {
		discovery = &bintraytypes.Discovery{}
	}

	manager := sync.NewManager(
		c.api,
		planner.NewPlanner(),
		executor.NewExecutor(c.api, c.fs, c.logger),
		publish.NewCoordinator(c.api, c.sleeper, c.publishInterval, c.visibilityDelay, c.logger),
		c.logger,
	)

	res, err := manager.Run(ctx, &sync.Config{
		Coordinates:        coords,
		LocalRoot:          discovery.Root,
		LocalFiles:         discovery.Files,
		RemotePrefix:       version.ExpandRemotePath(cfg.RemotePath, coords.Version),
		KeepExistingFiles:  cfg.KeepExistingFiles,
		Override:           cfg.Override,
		Publish:            cfg.Publish,
		ShowInDownloadList: cfg.ShowInDownloadList,
		GPGPassphrase:      cfg.GPGPassphrase,
		Debian:             cfg.Debian,
	})

	result := &bintraytypes.PublishResult{
		Uploaded:      res.Uploaded,
		Deleted:       res.Deleted,
		Kept:          res.Skipped,
		BytesUploaded: res.BytesUploaded,
		PublishCalls:  res.PublishCalls,
		Visible:       res.Visible,
		Warnings:      res.Warnings,
		Duration:      res.Duration,
	}
	if res.Plan != nil {
		for _, op := range res.Plan.Skips {
			result.Skipped = append(result.Skipped, op.LocalPath)
		}
	}
	return result, err
}
