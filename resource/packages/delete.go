package packages

import (
	"context"
	"regexp"

	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
)

// delete runs the delete path of out. The whole package is deleted when
// deletePackage is set. Otherwise params.version is a regular expression and
// matching versions are deleted, newest first, except for the first
// version_props.keep_last_n of them. Nothing is done when the package does
// not exist.
func (r *Resource) delete(ctx context.Context, env *resource.Env, client Client, req *outRequest, deletePackage bool) (any, error) {
	coords := req.Source.Coordinates()

	if _, err := client.GetPackage(ctx, coords); err != nil {
		if bterrors.IsNotFound(err) {
			env.Logger.Info("package does not exist, nothing to delete", "package", coords.String())
			return deletedResponse(), nil
		}
		return nil, err
	}

	if deletePackage {
		env.Logger.Warn("deleting package", "package", coords.String())
		if _, err := client.DeletePackage(ctx, coords); err != nil {
			return nil, err
		}
		return deletedResponse(), nil
	}

	expr, err := env.Resolver.String(&req.Params.Version)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidInput, "invalid version regex %q", expr)
	}

	keepLastN := 0
	if req.Params.VersionProps != nil {
		keepLastN = req.Params.VersionProps.KeepLastN
	}
	env.Logger.Info("pruning versions", "package", coords.String(), "regex", expr, "keep_last_n", keepLastN)

	result, err := client.PruneVersions(ctx, coords, re, keepLastN)
	if result != nil {
		env.Logger.Info("pruned versions", "kept", len(result.Kept), "deleted", len(result.Deleted))
	}
	if err != nil {
		return nil, err
	}
	return deletedResponse(), nil
}
