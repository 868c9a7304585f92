// Package planner computes the reconciliation plan of a publish run.
//
// Every selected local file is uploaded. A remote entry is orphaned when its
// normalized absolute path equals none of the upload targets; orphans are
// deleted unless existing files must be kept.
package planner

import (
	"path"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/scanner"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// OperationType defines the type of a planned operation.
type OperationType string

const (
	// OperationUpload indicates a local file is uploaded
	OperationUpload OperationType = "upload"

	// OperationDelete indicates an orphaned remote file is deleted
	OperationDelete OperationType = "delete"

	// OperationSkip indicates a local file collides with an earlier upload target
	OperationSkip OperationType = "skip"
)

// Operation represents a planned operation.
type Operation struct {
	// Type of operation (upload, delete, skip)
	Type OperationType

	// LocalPath is the local file path relative to the local root (uploads and skips)
	LocalPath string

	// RemotePath is the normalized remote path relative to the repository root
	RemotePath string

	// Size is the file size in bytes
	Size int64

	// Reason describes why this operation was planned
	Reason string
}

// Plan is the outcome of reconciliation. Uploads keep the local discovery
// order and deletions keep the remote listing order.
type Plan struct {
	Uploads []*Operation
	Deletes []*Operation
	Skips   []*Operation
}

// UploadTargets returns the set of normalized absolute remote paths written by the plan.
func (p *Plan) UploadTargets() map[string]struct{} {
	targets := make(map[string]struct{}, len(p.Uploads))
	for _, op := range p.Uploads {
		targets[domain.AbsPath(op.RemotePath)] = struct{}{}
	}
	return targets
}

// Planner creates reconciliation plans.
type Planner struct{}

// NewPlanner creates a new planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan reconciles the local files, placed under remotePrefix, with the remote
// snapshot. When keepExisting is set no deletion is planned.
func (p *Planner) Plan(
	remotePrefix string,
	localFiles []scanner.LocalFile,
	remote []domain.Content,
	keepExisting bool,
) *Plan {
	plan := &Plan{}
	targets := make(map[string]string, len(localFiles))

	for _, f := range localFiles {
		remotePath := RemotePath(remotePrefix, f.Path)
		key := domain.AbsPath(remotePath)

		if first, taken := targets[key]; taken {
			plan.Skips = append(plan.Skips, &Operation{
				Type:       OperationSkip,
				LocalPath:  f.Path,
				RemotePath: remotePath,
				Size:       f.Size,
				Reason:     "remote path already written by " + first,
			})
			continue
		}
		targets[key] = f.Path

		plan.Uploads = append(plan.Uploads, &Operation{
			Type:       OperationUpload,
			LocalPath:  f.Path,
			RemotePath: remotePath,
			Size:       f.Size,
			Reason:     "selected local file",
		})
	}

	if keepExisting {
		return plan
	}

	seen := make(map[string]struct{}, len(remote))
	for _, c := range remote {
		key := domain.AbsPath(c.Path)
		if _, uploaded := targets[key]; uploaded {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		plan.Deletes = append(plan.Deletes, &Operation{
			Type:       OperationDelete,
			RemotePath: domain.CleanPath(c.Path),
			Size:       c.Size,
			Reason:     "not part of the local file set",
		})
	}

	return plan
}

// RemotePath places a local relative path under the remote prefix.
func RemotePath(remotePrefix, localPath string) string {
	return domain.CleanPath(path.Join(remotePrefix, localPath))
}
