package packages

import (
	"context"
	"slices"

	"github.com/gobwas/glob"

	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
	schema "github.com/rabbitmq/concourse-bintray-resources/schemas"
)

// defaultVersionFilter selects every version.
var defaultVersionFilter = []string{"*"}

type checkRequest struct {
	Source  Source   `json:"source"`
	Version *Version `json:"version"`
}

// Check lists the versions of the package, oldest first.
//
// Without a current version only the newest matching version is returned.
// With one, that version and every newer one are returned; when it no longer
// exists the newest version takes its place. Versions are kept when their
// name matches one of the version_filter globs. A missing package has no
// versions.
func (r *Resource) Check(ctx context.Context, env *resource.Env, input []byte) (any, error) {
	var req checkRequest
	if err := resource.Decode(schema.PackageCheck, input, &req); err != nil {
		return nil, err
	}

	patterns, err := env.Resolver.List(req.Source.VersionFilter)
	if err != nil {
		return nil, err
	}
	if req.Source.VersionFilter == nil {
		patterns = defaultVersionFilter
	}
	filter, err := newVersionFilter(patterns)
	if err != nil {
		return nil, err
	}

	client, err := r.connect(ctx, env, &req.Source)
	if err != nil {
		return nil, err
	}

	coords := req.Source.Coordinates()
	pkg, err := client.GetPackage(ctx, coords)
	if bterrors.IsNotFound(err) {
		env.Logger.Info("package does not exist yet", "package", coords.String())
		return []Version{}, nil
	}
	if err != nil {
		return nil, err
	}

	var since string
	if req.Version != nil {
		since = req.Version.Version
	}
	names := filter.apply(versionsSince(pkg.Versions, since))
	if req.Version == nil && len(names) > 1 {
		names = names[len(names)-1:]
	}

	versions := make([]Version, 0, len(names))
	for _, name := range names {
		v, err := client.GetVersion(ctx, coords.WithVersion(name))
		if err != nil {
			return nil, err
		}
		versions = append(versions, versionOf(v))
	}
	return versions, nil
}

// versionsSince returns the versions from since onward, oldest first.
// newestFirst is the order the API lists versions in. An empty since
// selects every version; an unknown one selects the newest.
func versionsSince(newestFirst []string, since string) []string {
	oldestFirst := slices.Clone(newestFirst)
	slices.Reverse(oldestFirst)

	if since == "" || len(oldestFirst) == 0 {
		return oldestFirst
	}
	if i := slices.Index(oldestFirst, since); i >= 0 {
		return oldestFirst[i:]
	}
	return oldestFirst[len(oldestFirst)-1:]
}

// versionFilter keeps versions matching any of a set of globs. A "*" matches
// any sequence of characters, separators included.
type versionFilter []glob.Glob

func newVersionFilter(patterns []string) (versionFilter, error) {
	filter := make(versionFilter, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeInvalidInput, "invalid version filter %q", p)
		}
		filter = append(filter, g)
	}
	return filter, nil
}

func (f versionFilter) match(version string) bool {
	for _, g := range f {
		if g.Match(version) {
			return true
		}
	}
	return false
}

func (f versionFilter) apply(versions []string) []string {
	var kept []string
	for _, v := range versions {
		if f.match(v) {
			kept = append(kept, v)
		}
	}
	return kept
}
