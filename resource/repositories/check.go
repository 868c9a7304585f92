package repositories

import (
	"context"

	"github.com/rabbitmq/concourse-bintray-resources/resource"
	schema "github.com/rabbitmq/concourse-bintray-resources/schemas"
)

type checkRequest struct {
	Source  Source   `json:"source"`
	Version *Version `json:"version,omitempty"`
}

// Check reports the creation date of the repository as its only version.
// A repository without a creation date has no version.
func (r *Resource) Check(ctx context.Context, env *resource.Env, input []byte) (any, error) {
	var req checkRequest
	if err := resource.Decode(schema.RepositoryCheck, input, &req); err != nil {
		return nil, err
	}

	client, err := r.connect(ctx, env, &req.Source)
	if err != nil {
		return nil, err
	}
	repo, err := client.GetRepository(ctx, req.Source.Coordinates())
	if err != nil {
		return nil, err
	}

	if repo.Created == "" {
		return []Version{}, nil
	}
	return []Version{{Created: repo.Created}}, nil
}
