package packages

import (
	"context"

	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
	schema "github.com/rabbitmq/concourse-bintray-resources/schemas"
)

type inRequest struct {
	Source  Source    `json:"source"`
	Version *Version  `json:"version"`
	Params  *inParams `json:"params"`
}

type inParams struct {
	LocalPath  *resource.StringOrFile     `json:"local_path,omitempty"`
	RemotePath *resource.StringOrFile     `json:"remote_path,omitempty"`
	Filter     *resource.StringListOrFile `json:"filter,omitempty"`
}

// In downloads the files of a version into local_path below the working
// directory. File references other than local_path are relative to it.
//
// The requested version defaults to the latest one. Only files below the
// expanded remote_path are considered, and of those only the ones whose path
// relative to it matches filter; they keep that relative path locally.
// The deleted-version marker is echoed without contacting the API.
func (r *Resource) In(ctx context.Context, env *resource.Env, input []byte) (any, error) {
	var req inRequest
	if err := resource.Decode(schema.PackageIn, input, &req); err != nil {
		return nil, err
	}
	if req.Params == nil {
		req.Params = &inParams{}
	}

	if req.Version != nil && req.Version.Version == domain.DeletedVersion {
		env.Logger.Info("fetching the deleted version marker is a no-op", "version", domain.DeletedVersion)
		return deletedResponse(), nil
	}

	client, err := r.connect(ctx, env, &req.Source)
	if err != nil {
		return nil, err
	}

	coords := req.Source.Coordinates()
	pkg, err := client.GetPackage(ctx, coords)
	if err != nil {
		return nil, err
	}

	name := pkg.LatestVersion
	if req.Version != nil {
		name = req.Version.Version
	}
	if name == "" {
		return nil, errors.Newf(errors.CodeNotFound, "The package %s has no version", coords)
	}
	coords = coords.WithVersion(name)

	version, err := client.GetVersion(ctx, coords)
	if err != nil {
		return nil, err
	}

	localPath, err := env.Resolver.String(req.Params.LocalPath)
	if err != nil {
		return nil, err
	}
	local := env.Resolver.Sub(localPath)
	remotePath, err := local.String(req.Params.RemotePath)
	if err != nil {
		return nil, err
	}
	filter, err := local.List(req.Params.Filter)
	if err != nil {
		return nil, err
	}

	dest := local.WorkDir()
	env.Logger.Info("fetching version", "version", coords.String(), "local_path", dest, "remote_path", remotePath)

	fetched, err := client.Fetch(ctx, coords, remotePath, filter, dest)
	if err != nil {
		return nil, err
	}
	env.Logger.Info("fetched version", "files", len(fetched.Files), "bytes", fetched.BytesDownloaded)

	return responseFor(version), nil
}
