package repositories

import (
	"context"
	"reflect"
	"slices"

	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
	schema "github.com/rabbitmq/concourse-bintray-resources/schemas"
)

type outRequest struct {
	Source Source    `json:"source"`
	Params outParams `json:"params"`
}

type outParams struct {
	Private          *bool                      `json:"private,omitempty"`
	BusinessUnit     *resource.StringOrFile     `json:"business_unit,omitempty"`
	Desc             *resource.StringOrFile     `json:"desc,omitempty"`
	Labels           *resource.StringListOrFile `json:"labels,omitempty"`
	GPGSignMetadata  *bool                      `json:"gpg_sign_metadata,omitempty"`
	GPGSignFiles     *bool                      `json:"gpg_sign_files,omitempty"`
	GPGUseOwnerKey   *bool                      `json:"gpg_use_owner_key,omitempty"`
	YumMetadataDepth *int                       `json:"yum_metadata_depth,omitempty"`
}

// Out creates the repository with the configured type, or updates it when
// params change any attribute. The type of an existing repository is never
// changed.
func (r *Resource) Out(ctx context.Context, env *resource.Env, input []byte) (any, error) {
	var req outRequest
	if err := resource.Decode(schema.RepositoryOut, input, &req); err != nil {
		return nil, err
	}

	client, err := r.connect(ctx, env, &req.Source)
	if err != nil {
		return nil, err
	}
	coords := req.Source.Coordinates()

	current, err := client.GetRepository(ctx, coords)
	exists := err == nil
	switch {
	case bterrors.IsNotFound(err):
		current = &domain.Repository{Name: req.Source.Repository, Type: req.Source.RepositoryType}
	case err != nil:
		return nil, err
	default:
		if err := checkType(&req.Source, current); err != nil {
			return nil, err
		}
	}

	desired := cloneRepository(current)
	if err := applyParams(env.Resolver, desired, &req.Params); err != nil {
		return nil, err
	}

	switch {
	case !exists:
		env.Logger.Info("creating repository", "repository", coords.String(), "type", desired.Type)
		if _, err := client.CreateRepository(ctx, coords, desired); err != nil {
			return nil, err
		}
	case !reflect.DeepEqual(current, desired):
		env.Logger.Info("updating repository", "repository", coords.String())
		if _, err := client.UpdateRepository(ctx, coords, desired); err != nil {
			return nil, err
		}
	default:
		env.Logger.Info("repository up-to-date", "repository", coords.String())
		return responseFor(current), nil
	}

	repo, err := client.GetRepository(ctx, coords)
	if err != nil {
		return nil, err
	}
	return responseFor(repo), nil
}

func applyParams(res *resource.Resolver, repo *domain.Repository, params *outParams) error {
	if params.Private != nil {
		repo.Private = *params.Private
	}
	if params.BusinessUnit != nil {
		v, err := res.String(params.BusinessUnit)
		if err != nil {
			return err
		}
		repo.BusinessUnit = v
	}
	if params.Desc != nil {
		v, err := res.String(params.Desc)
		if err != nil {
			return err
		}
		repo.Desc = v
	}
	if params.Labels != nil {
		labels, err := res.List(params.Labels)
		if err != nil {
			return err
		}
		if len(labels) == 0 {
			repo.Labels = nil
		} else {
			repo.Labels = slices.Clone(labels)
			slices.Sort(repo.Labels)
		}
	}
	if params.GPGSignMetadata != nil {
		repo.GPGSignMetadata = *params.GPGSignMetadata
	}
	if params.GPGSignFiles != nil {
		repo.GPGSignFiles = *params.GPGSignFiles
	}
	if params.GPGUseOwnerKey != nil {
		repo.GPGUseOwnerKey = *params.GPGUseOwnerKey
	}
	if params.YumMetadataDepth != nil {
		depth := *params.YumMetadataDepth
		repo.YumMetadataDepth = &depth
	}
	return nil
}

func cloneRepository(r *domain.Repository) *domain.Repository {
	c := *r
	c.Labels = slices.Clone(r.Labels)
	if r.YumMetadataDepth != nil {
		depth := *r.YumMetadataDepth
		c.YumMetadataDepth = &depth
	}
	return &c
}
