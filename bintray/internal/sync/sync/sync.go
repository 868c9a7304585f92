// Package sync orchestrates a publish run: snapshot, plan, upload, delete,
// publish and show in download list.
package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/api"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/executor"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/planner"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/publish"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// Manager coordinates the phases of a publish run.
type Manager struct {
	api         api.API
	planner     *planner.Planner
	executor    *executor.Executor
	coordinator *publish.Coordinator
	logger      *slog.Logger
}

// NewManager creates a new manager with the provided components.
func NewManager(
	client api.API,
	pl *planner.Planner,
	ex *executor.Executor,
	co *publish.Coordinator,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		api:         client,
		planner:     pl,
		executor:    ex,
		coordinator: co,
		logger:      logger,
	}
}

// Run reconciles the remote version with the local files and publishes it.
// The returned result is populated as far as the run got, also on error.
func (m *Manager) Run(ctx context.Context, cfg *Config) (*Result, error) {
	startTime := time.Now()
	result := &Result{}
	defer func() { result.Duration = time.Since(startTime) }()

	remote, err := m.snapshot(ctx, cfg.Coordinates)
	if err != nil {
		return result, fmt.Errorf("failed to list remote files: %w", err)
	}

	plan := m.planner.Plan(cfg.RemotePrefix, cfg.LocalFiles, remote, cfg.KeepExistingFiles)
	result.Plan = plan
	m.logger.Info("reconciliation planned",
		"version", cfg.Coordinates.String(),
		"uploads", len(plan.Uploads),
		"deletes", len(plan.Deletes),
		"skips", len(plan.Skips))

	execCfg := &executor.Config{
		Coordinates:   cfg.Coordinates,
		LocalRoot:     cfg.LocalRoot,
		Publish:       cfg.Publish,
		Override:      cfg.Override,
		GPGPassphrase: cfg.GPGPassphrase,
		Debian:        cfg.Debian,
	}

	uploads, err := m.executor.ExecuteUploads(ctx, execCfg, plan.Uploads)
	if uploads != nil {
		result.Uploaded = uploads.Uploaded
		result.BytesUploaded = uploads.BytesUploaded
		result.Warnings = append(result.Warnings, uploads.Warnings...)
	}
	if err != nil {
		return result, err
	}

	deletes, err := m.executor.ExecuteDeletes(ctx, execCfg, plan.Deletes, plan.UploadTargets())
	if deletes != nil {
		result.Deleted = deletes.Deleted
		result.Skipped = deletes.Skipped
		result.Warnings = append(result.Warnings, deletes.Warnings...)
	}
	if err != nil {
		return result, err
	}

	if !cfg.Publish {
		return result, nil
	}

	if len(result.Uploaded) > 0 {
		calls, err := m.coordinator.Publish(ctx, cfg.Coordinates)
		result.PublishCalls = calls
		if err != nil {
			return result, err
		}
	}

	if !cfg.ShowInDownloadList {
		return result, nil
	}

	visibility, err := m.coordinator.ShowInDownloadList(ctx, cfg.Coordinates, result.Uploaded)
	if visibility != nil {
		result.Visible = visibility.Visible
		result.Warnings = append(result.Warnings, visibility.Warnings...)
	}
	if err != nil {
		return result, err
	}

	return result, nil
}

// snapshot lists the version's files once. A version without files yet
// answers not found, which is an empty snapshot.
func (m *Manager) snapshot(ctx context.Context, coords domain.Coordinates) ([]domain.Content, error) {
	contents, err := m.api.ListFiles(ctx, coords)
	if bterrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contents, nil
}
