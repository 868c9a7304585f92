// Package repositories implements the bintray-repository Concourse resource.
//
// The version of a repository is its creation date: check reports it, in
// verifies the repository type and out creates or updates the repository
// record.
package repositories

import (
	"context"

	"github.com/rabbitmq/concourse-bintray-resources/bintray"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
)

// Client is the subset of the Bintray client the resource uses.
type Client interface {
	GetRepository(ctx context.Context, coords domain.Coordinates) (*domain.Repository, error)
	CreateRepository(ctx context.Context, coords domain.Coordinates, repo *domain.Repository) (string, error)
	UpdateRepository(ctx context.Context, coords domain.Coordinates, repo *domain.Repository) (string, error)
}

var _ Client = (*bintray.Client)(nil)

// ClientFactory creates a client authenticated with the given credentials.
type ClientFactory func(username, apiKey string) (Client, error)

// Source is the resource configuration.
type Source struct {
	Username       string                `json:"username"`
	APIKey         resource.Credential   `json:"api_key"`
	Subject        string                `json:"subject"`
	Repository     string                `json:"repository"`
	RepositoryType domain.RepositoryType `json:"repository_type"`
}

// Coordinates returns the coordinates of the configured repository.
func (s *Source) Coordinates() domain.Coordinates {
	return domain.Coordinates{Subject: s.Subject, Repository: s.Repository}
}

// Version identifies a repository for Concourse.
type Version struct {
	Created string `json:"created"`
}

// Response is the result of in and out.
type Response = resource.Response[Version]

// Resource implements the repository resource scripts.
type Resource struct {
	newClient ClientFactory
}

// New creates the resource.
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

func (r *Resource) connect(ctx context.Context, env *resource.Env, src *Source) (Client, error) {
	apiKey, err := env.Resolver.Credential(ctx, &src.APIKey)
	if err != nil {
		return nil, err
	}
	return r.newClient(src.Username, apiKey)
}

// checkType fails when the existing repository has another type than the
// configured one.
func checkType(src *Source, repo *domain.Repository) error {
	if repo.Type != src.RepositoryType {
		return errors.Newf(errors.CodeConflict,
			"The repository type from the configuration (%s) doesn't match the existing repository type (%s)",
			src.RepositoryType, repo.Type)
	}
	return nil
}

// responseFor builds the in and out response of a repository record.
func responseFor(repo *domain.Repository) *Response {
	return resource.NewResponse(Version{Created: repo.Created}).
		Add("Type", repo.Type.String()).
		Add("Desc.", repo.Desc)
}
