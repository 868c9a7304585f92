package repositories

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/concourse-bintray-resources/resource"
	schema "github.com/rabbitmq/concourse-bintray-resources/schemas"
)

type inRequest struct {
	Source  Source          `json:"source"`
	Version *Version        `json:"version,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// In reads the repository and verifies its type. Nothing is written to the
// destination directory.
func (r *Resource) In(ctx context.Context, env *resource.Env, input []byte) (any, error) {
	var req inRequest
	if err := resource.Decode(schema.RepositoryIn, input, &req); err != nil {
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
	if err := checkType(&req.Source, repo); err != nil {
		return nil, err
	}
	return responseFor(repo), nil
}
