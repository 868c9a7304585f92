// Package testutil provides test utilities and mocks for the bintray module.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/api"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// MockAPI is a mock implementation of api.API.
// Each operation can be customized through its function field; unset fields
// return zero values and no error.
type MockAPI struct {
	GetRepositoryFunc      func(context.Context, domain.Coordinates) (*domain.Repository, error)
	CreateRepositoryFunc   func(context.Context, domain.Coordinates, *domain.Repository) (string, error)
	UpdateRepositoryFunc   func(context.Context, domain.Coordinates, *domain.Repository) (string, error)
	GetPackageFunc         func(context.Context, domain.Coordinates) (*domain.Package, error)
	CreatePackageFunc      func(context.Context, domain.Coordinates, *domain.Package) (string, error)
	UpdatePackageFunc      func(context.Context, domain.Coordinates, *domain.Package) (string, error)
	DeletePackageFunc      func(context.Context, domain.Coordinates) (string, error)
	GetVersionFunc         func(context.Context, domain.Coordinates) (*domain.Version, error)
	CreateVersionFunc      func(context.Context, domain.Coordinates, *domain.Version) (string, error)
	UpdateVersionFunc      func(context.Context, domain.Coordinates, *domain.Version) (string, error)
	DeleteVersionFunc      func(context.Context, domain.Coordinates) (string, error)
	ListFilesFunc          func(context.Context, domain.Coordinates) ([]domain.Content, error)
	UploadContentFunc      func(context.Context, *api.UploadInput) (string, error)
	DeleteContentFunc      func(context.Context, domain.Coordinates, string) (string, error)
	PublishContentFunc     func(context.Context, domain.Coordinates, *api.PublishInput) (int, error)
	ShowInDownloadListFunc func(context.Context, domain.Coordinates, string, bool) (string, error)
	DownloadContentFunc    func(context.Context, domain.Coordinates, string, io.Writer) (int64, error)
}

var _ api.API = (*MockAPI)(nil)

// GetRepository mocks api.API.GetRepository.
func (m *MockAPI) GetRepository(ctx context.Context, c domain.Coordinates) (*domain.Repository, error) {
	if m.GetRepositoryFunc != nil {
		return m.GetRepositoryFunc(ctx, c)
	}
	return &domain.Repository{Name: c.Repository}, nil
}

// CreateRepository mocks api.API.CreateRepository.
func (m *MockAPI) CreateRepository(ctx context.Context, c domain.Coordinates, r *domain.Repository) (string, error) {
	if m.CreateRepositoryFunc != nil {
		return m.CreateRepositoryFunc(ctx, c, r)
	}
	return "", nil
}

// UpdateRepository mocks api.API.UpdateRepository.
func (m *MockAPI) UpdateRepository(ctx context.Context, c domain.Coordinates, r *domain.Repository) (string, error) {
	if m.UpdateRepositoryFunc != nil {
		return m.UpdateRepositoryFunc(ctx, c, r)
	}
	return "", nil
}

// GetPackage mocks api.API.GetPackage.
func (m *MockAPI) GetPackage(ctx context.Context, c domain.Coordinates) (*domain.Package, error) {
	if m.GetPackageFunc != nil {
		return m.GetPackageFunc(ctx, c)
	}
	return &domain.Package{Name: c.Package}, nil
}

// CreatePackage mocks api.API.CreatePackage.
func (m *MockAPI) CreatePackage(ctx context.Context, c domain.Coordinates, p *domain.Package) (string, error) {
	if m.CreatePackageFunc != nil {
		return m.CreatePackageFunc(ctx, c, p)
	}
	return "", nil
}

// UpdatePackage mocks api.API.UpdatePackage.
func (m *MockAPI) UpdatePackage(ctx context.Context, c domain.Coordinates, p *domain.Package) (string, error) {
	if m.UpdatePackageFunc != nil {
		return m.UpdatePackageFunc(ctx, c, p)
	}
	return "", nil
}

// DeletePackage mocks api.API.DeletePackage.
func (m *MockAPI) DeletePackage(ctx context.Context, c domain.Coordinates) (string, error) {
	if m.DeletePackageFunc != nil {
		return m.DeletePackageFunc(ctx, c)
	}
	return "", nil
}

// GetVersion mocks api.API.GetVersion.
func (m *MockAPI) GetVersion(ctx context.Context, c domain.Coordinates) (*domain.Version, error) {
	if m.GetVersionFunc != nil {
		return m.GetVersionFunc(ctx, c)
	}
	return &domain.Version{Name: c.Version, Package: c.Package}, nil
}

// CreateVersion mocks api.API.CreateVersion.
func (m *MockAPI) CreateVersion(ctx context.Context, c domain.Coordinates, v *domain.Version) (string, error) {
	if m.CreateVersionFunc != nil {
		return m.CreateVersionFunc(ctx, c, v)
	}
	return "", nil
}

// UpdateVersion mocks api.API.UpdateVersion.
func (m *MockAPI) UpdateVersion(ctx context.Context, c domain.Coordinates, v *domain.Version) (string, error) {
	if m.UpdateVersionFunc != nil {
		return m.UpdateVersionFunc(ctx, c, v)
	}
	return "", nil
}

// DeleteVersion mocks api.API.DeleteVersion.
func (m *MockAPI) DeleteVersion(ctx context.Context, c domain.Coordinates) (string, error) {
	if m.DeleteVersionFunc != nil {
		return m.DeleteVersionFunc(ctx, c)
	}
	return "", nil
}

// ListFiles mocks api.API.ListFiles.
func (m *MockAPI) ListFiles(ctx context.Context, c domain.Coordinates) ([]domain.Content, error) {
	if m.ListFilesFunc != nil {
		return m.ListFilesFunc(ctx, c)
	}
	return nil, nil
}

// UploadContent mocks api.API.UploadContent.
func (m *MockAPI) UploadContent(ctx context.Context, in *api.UploadInput) (string, error) {
	if m.UploadContentFunc != nil {
		return m.UploadContentFunc(ctx, in)
	}
	return "", nil
}

// DeleteContent mocks api.API.DeleteContent.
func (m *MockAPI) DeleteContent(ctx context.Context, c domain.Coordinates, path string) (string, error) {
	if m.DeleteContentFunc != nil {
		return m.DeleteContentFunc(ctx, c, path)
	}
	return "", nil
}

// PublishContent mocks api.API.PublishContent.
func (m *MockAPI) PublishContent(ctx context.Context, c domain.Coordinates, in *api.PublishInput) (int, error) {
	if m.PublishContentFunc != nil {
		return m.PublishContentFunc(ctx, c, in)
	}
	return 0, nil
}

// ShowInDownloadList mocks api.API.ShowInDownloadList.
func (m *MockAPI) ShowInDownloadList(ctx context.Context, c domain.Coordinates, path string, visible bool) (string, error) {
	if m.ShowInDownloadListFunc != nil {
		return m.ShowInDownloadListFunc(ctx, c, path, visible)
	}
	return "", nil
}

// DownloadContent mocks api.API.DownloadContent.
func (m *MockAPI) DownloadContent(ctx context.Context, c domain.Coordinates, path string, w io.Writer) (int64, error) {
	if m.DownloadContentFunc != nil {
		return m.DownloadContentFunc(ctx, c, path, w)
	}
	return 0, nil
}

// FakeSleeper records requested sleeps and returns immediately.
// It honors context cancellation like a real sleeper would.
type FakeSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

// Sleep records d and returns ctx.Err() if the context is done.
func (s *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	s.mu.Unlock()
	return ctx.Err()
}

// Sleeps returns a copy of the recorded durations.
func (s *FakeSleeper) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

// Count returns the number of recorded sleeps.
func (s *FakeSleeper) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sleeps)
}
