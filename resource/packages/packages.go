// Package packages implements the bintray-package Concourse resource.
//
// check lists the versions of a package, in fetches the files of a version
// and out either publishes a version from local files or deletes versions
// (or the whole package).
package packages

import (
	"context"
	"regexp"

	"github.com/rabbitmq/concourse-bintray-resources/bintray"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
)

// Client is the subset of the Bintray client the resource uses.
type Client interface {
	GetRepository(ctx context.Context, coords domain.Coordinates) (*domain.Repository, error)
	GetPackage(ctx context.Context, coords domain.Coordinates) (*domain.Package, error)
	CreatePackage(ctx context.Context, coords domain.Coordinates, pkg *domain.Package) (string, error)
	UpdatePackage(ctx context.Context, coords domain.Coordinates, pkg *domain.Package) (string, error)
	DeletePackage(ctx context.Context, coords domain.Coordinates) (string, error)
	GetVersion(ctx context.Context, coords domain.Coordinates) (*domain.Version, error)
	CreateVersion(ctx context.Context, coords domain.Coordinates, v *domain.Version) (string, error)
	UpdateVersion(ctx context.Context, coords domain.Coordinates, v *domain.Version) (string, error)
	DiscoverFiles(ctx context.Context, localDir string, patterns []string) (*bintraytypes.Discovery, error)
	Publish(
		ctx context.Context,
		coords domain.Coordinates,
		discovery *bintraytypes.Discovery,
		opts ...bintraytypes.PublishOption,
	) (*bintraytypes.PublishResult, error)
	Fetch(
		ctx context.Context,
		coords domain.Coordinates,
		remotePath string,
		patterns []string,
		destDir string,
	) (*bintraytypes.FetchResult, error)
	PruneVersions(
		ctx context.Context,
		coords domain.Coordinates,
		re *regexp.Regexp,
		keepLastN int,
	) (*bintraytypes.PruneResult, error)
}

var _ Client = (*bintray.Client)(nil)

// ClientFactory creates a client authenticated with the given credentials.
type ClientFactory func(username, apiKey string) (Client, error)

// Source is the resource configuration.
type Source struct {
	Username      string                     `json:"username"`
	APIKey        resource.Credential        `json:"api_key"`
	Subject       string                     `json:"subject"`
	Repository    string                     `json:"repository"`
	Package       string                     `json:"package"`
	GPGPassphrase *resource.Credential       `json:"gpg_passphrase,omitempty"`
	VersionFilter *resource.StringListOrFile `json:"version_filter,omitempty"`
}

// Coordinates returns the coordinates of the configured package.
func (s *Source) Coordinates() domain.Coordinates {
	return domain.Coordinates{Subject: s.Subject, Repository: s.Repository, Package: s.Package}
}

// Version identifies a package version for Concourse.
type Version struct {
	Version string `json:"version"`
	Updated string `json:"updated,omitempty"`
}

// Response is the result of in and out.
type Response = resource.Response[Version]

// Resource implements the package resource scripts.
type Resource struct {
	newClient ClientFactory
}

// New creates the resource. newClient is called once per invocation with
// the resolved credentials.
func New(newClient ClientFactory) *Resource {
	return &Resource{newClient: newClient}
}

// Handlers returns the script implementations.
func (r *Resource) Handlers() resource.Handlers {
	return resource.Handlers{
		resource.Check: r.Check,
		resource.In:    r.In,
		resource.Out:   r.Out,
	}
}

// connect resolves the source credentials and creates a client.
func (r *Resource) connect(ctx context.Context, env *resource.Env, src *Source) (Client, error) {
	apiKey, err := env.Resolver.Credential(ctx, &src.APIKey)
	if err != nil {
		return nil, err
	}
	return r.newClient(src.Username, apiKey)
}

// versionOf converts a version record to its Concourse form.
func versionOf(v *domain.Version) Version {
	return Version{Version: v.Name, Updated: v.Updated}
}

// responseFor builds the in and out response of a version record.
func responseFor(v *domain.Version) *Response {
	return resource.NewResponse(versionOf(v)).Add("Release date", v.Released)
}

// deletedResponse is the response reported after a deletion.
func deletedResponse() *Response {
	return resource.NewResponse(Version{Version: domain.DeletedVersion})
}
