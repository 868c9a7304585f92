// Package testutil provides a mock Bintray client for the resource tests.
package testutil

import (
	"context"
	"regexp"
	"sync"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// MockClient is a mock of the client used by the resources.
// Each operation can be customized through its function field; unset fields
// return zero values and no error. Every call is recorded by name.
type MockClient struct {
	GetRepositoryFunc    func(context.Context, domain.Coordinates) (*domain.Repository, error)
	CreateRepositoryFunc func(context.Context, domain.Coordinates, *domain.Repository) (string, error)
	UpdateRepositoryFunc func(context.Context, domain.Coordinates, *domain.Repository) (string, error)
	GetPackageFunc       func(context.Context, domain.Coordinates) (*domain.Package, error)
	CreatePackageFunc    func(context.Context, domain.Coordinates, *domain.Package) (string, error)
	UpdatePackageFunc    func(context.Context, domain.Coordinates, *domain.Package) (string, error)
	DeletePackageFunc    func(context.Context, domain.Coordinates) (string, error)
	GetVersionFunc       func(context.Context, domain.Coordinates) (*domain.Version, error)
	CreateVersionFunc    func(context.Context, domain.Coordinates, *domain.Version) (string, error)
	UpdateVersionFunc    func(context.Context, domain.Coordinates, *domain.Version) (string, error)
	DiscoverFilesFunc    func(context.Context, string, []string) (*bintraytypes.Discovery, error)
	PublishFunc          func(context.Context, domain.Coordinates, *bintraytypes.Discovery, *bintraytypes.PublishOptionConfig) (*bintraytypes.PublishResult, error)
	FetchFunc            func(context.Context, domain.Coordinates, string, []string, string) (*bintraytypes.FetchResult, error)
	PruneVersionsFunc    func(context.Context, domain.Coordinates, *regexp.Regexp, int) (*bintraytypes.PruneResult, error)

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the operations called so far, in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// NotFound returns the error the client reports for a missing entity.
func NotFound(op string) error {
	return bterrors.NewStatusError(op, "/"+op, 404, "not found")
}

// GetRepository mocks GetRepository.
func (m *MockClient) GetRepository(ctx context.Context, c domain.Coordinates) (*domain.Repository, error) {
	m.record("GetRepository")
	if m.GetRepositoryFunc != nil {
		return m.GetRepositoryFunc(ctx, c)
	}
	return &domain.Repository{Name: c.Repository, Owner: c.Subject}, nil
}

// CreateRepository mocks CreateRepository.
func (m *MockClient) CreateRepository(ctx context.Context, c domain.Coordinates, r *domain.Repository) (string, error) {
	m.record("CreateRepository")
	if m.CreateRepositoryFunc != nil {
		return m.CreateRepositoryFunc(ctx, c, r)
	}
	return "", nil
}

// UpdateRepository mocks UpdateRepository.
func (m *MockClient) UpdateRepository(ctx context.Context, c domain.Coordinates, r *domain.Repository) (string, error) {
	m.record("UpdateRepository")
	if m.UpdateRepositoryFunc != nil {
		return m.UpdateRepositoryFunc(ctx, c, r)
	}
	return "", nil
}

// GetPackage mocks GetPackage.
func (m *MockClient) GetPackage(ctx context.Context, c domain.Coordinates) (*domain.Package, error) {
	m.record("GetPackage")
	if m.GetPackageFunc != nil {
		return m.GetPackageFunc(ctx, c)
	}
	return &domain.Package{Name: c.Package}, nil
}

// CreatePackage mocks CreatePackage.
func (m *MockClient) CreatePackage(ctx context.Context, c domain.Coordinates, p *domain.Package) (string, error) {
	m.record("CreatePackage")
	if m.CreatePackageFunc != nil {
		return m.CreatePackageFunc(ctx, c, p)
	}
	return "", nil
}

// UpdatePackage mocks UpdatePackage.
func (m *MockClient) UpdatePackage(ctx context.Context, c domain.Coordinates, p *domain.Package) (string, error) {
	m.record("UpdatePackage")
	if m.UpdatePackageFunc != nil {
		return m.UpdatePackageFunc(ctx, c, p)
	}
	return "", nil
}

// DeletePackage mocks DeletePackage.
func (m *MockClient) DeletePackage(ctx context.Context, c domain.Coordinates) (string, error) {
	m.record("DeletePackage")
	if m.DeletePackageFunc != nil {
		return m.DeletePackageFunc(ctx, c)
	}
	return "", nil
}

// GetVersion mocks GetVersion.
func (m *MockClient) GetVersion(ctx context.Context, c domain.Coordinates) (*domain.Version, error) {
	m.record("GetVersion")
	if m.GetVersionFunc != nil {
		return m.GetVersionFunc(ctx, c)
	}
	return &domain.Version{Name: c.Version, Package: c.Package}, nil
}

// CreateVersion mocks CreateVersion.
func (m *MockClient) CreateVersion(ctx context.Context, c domain.Coordinates, v *domain.Version) (string, error) {
	m.record("CreateVersion")
	if m.CreateVersionFunc != nil {
		return m.CreateVersionFunc(ctx, c, v)
	}
	return "", nil
}

// UpdateVersion mocks UpdateVersion.
func (m *MockClient) UpdateVersion(ctx context.Context, c domain.Coordinates, v *domain.Version) (string, error) {
	m.record("UpdateVersion")
	if m.UpdateVersionFunc != nil {
		return m.UpdateVersionFunc(ctx, c, v)
	}
	return "", nil
}

// DiscoverFiles mocks DiscoverFiles.
func (m *MockClient) DiscoverFiles(ctx context.Context, dir string, patterns []string) (*bintraytypes.Discovery, error) {
	m.record("DiscoverFiles")
	if m.DiscoverFilesFunc != nil {
		return m.DiscoverFilesFunc(ctx, dir, patterns)
	}
	return &bintraytypes.Discovery{Root: dir}, nil
}

// Publish mocks Publish. The options are applied over the client defaults
// before being handed to PublishFunc.
func (m *MockClient) Publish(
	ctx context.Context,
	c domain.Coordinates,
	d *bintraytypes.Discovery,
	opts ...bintraytypes.PublishOption,
) (*bintraytypes.PublishResult, error) {
	m.record("Publish")
	cfg := &bintraytypes.PublishOptionConfig{Override: true, Publish: true, ShowInDownloadList: true}
	for _, opt := range opts {
		opt(cfg)
	}
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, c, d, cfg)
	}
	return &bintraytypes.PublishResult{}, nil
}

// Fetch mocks Fetch.
func (m *MockClient) Fetch(
	ctx context.Context,
	c domain.Coordinates,
	remotePath string,
	patterns []string,
	destDir string,
) (*bintraytypes.FetchResult, error) {
	m.record("Fetch")
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, c, remotePath, patterns, destDir)
	}
	return &bintraytypes.FetchResult{}, nil
}

// PruneVersions mocks PruneVersions.
func (m *MockClient) PruneVersions(
	ctx context.Context,
	c domain.Coordinates,
	re *regexp.Regexp,
	keepLastN int,
) (*bintraytypes.PruneResult, error) {
	m.record("PruneVersions")
	if m.PruneVersionsFunc != nil {
		return m.PruneVersionsFunc(ctx, c, re, keepLastN)
	}
	return &bintraytypes.PruneResult{}, nil
}
