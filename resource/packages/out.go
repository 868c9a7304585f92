package packages

import (
	"context"

	"github.com/rabbitmq/concourse-bintray-resources/bintray"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
	schema "github.com/rabbitmq/concourse-bintray-resources/schemas"
)

type outRequest struct {
	Source Source    `json:"source"`
	Params outParams `json:"params"`
}

type outParams struct {
	LocalPath  *resource.StringOrFile     `json:"local_path,omitempty"`
	RemotePath *resource.StringOrFile     `json:"remote_path,omitempty"`
	Filter     *resource.StringListOrFile `json:"filter,omitempty"`
	Version    resource.StringOrFile      `json:"version"`

	PackageProps *packageProps `json:"package_props,omitempty"`
	VersionProps *versionProps `json:"version_props,omitempty"`

	Publish  *bool `json:"publish,omitempty"`
	Override *bool `json:"override,omitempty"`

	DebianArchitecture *resource.StringListOrFile `json:"debian_architecture,omitempty"`
	DebianDistribution *resource.StringListOrFile `json:"debian_distribution,omitempty"`
	DebianComponent    *resource.StringListOrFile `json:"debian_component,omitempty"`

	ShowInDownloadList *bool `json:"show_in_download_list,omitempty"`
	KeepExistingFiles  *bool `json:"keep_existing_files,omitempty"`
}

type packageProps struct {
	Desc                   *resource.StringOrFile     `json:"desc,omitempty"`
	Labels                 *resource.StringListOrFile `json:"labels,omitempty"`
	PublicDownloadNumbers  *bool                      `json:"public_download_numbers,omitempty"`
	PublicStats            *bool                      `json:"public_stats,omitempty"`
	Maturity               *resource.StringOrFile     `json:"maturity,omitempty"`
	Licenses               *resource.StringListOrFile `json:"licenses,omitempty"`
	CustomLicenses         *resource.StringListOrFile `json:"custom_licenses,omitempty"`
	WebsiteURL             *resource.StringOrFile     `json:"website_url,omitempty"`
	IssueTrackerURL        *resource.StringOrFile     `json:"issue_tracker_url,omitempty"`
	VCSURL                 *resource.StringOrFile     `json:"vcs_url,omitempty"`
	GitHubRepo             *resource.StringOrFile     `json:"github_repo,omitempty"`
	GitHubReleaseNotesFile *resource.StringOrFile     `json:"github_release_notes_file,omitempty"`
	Delete                 bool                       `json:"delete,omitempty"`
}

type versionProps struct {
	Desc                     *resource.StringOrFile `json:"desc,omitempty"`
	Released                 *resource.StringOrFile `json:"released,omitempty"`
	VCSTag                   *resource.StringOrFile `json:"vcs_tag,omitempty"`
	GitHubReleaseNotesFile   *resource.StringOrFile `json:"github_release_notes_file,omitempty"`
	GitHubUseTagReleaseNotes *bool                  `json:"github_use_tag_release_notes,omitempty"`
	Delete                   bool                   `json:"delete,omitempty"`
	KeepLastN                int                    `json:"keep_last_n,omitempty"`
}

// Out publishes a version, or deletes the package or some of its versions
// when package_props.delete or version_props.delete is set.
func (r *Resource) Out(ctx context.Context, env *resource.Env, input []byte) (any, error) {
	var req outRequest
	if err := resource.Decode(schema.PackageOut, input, &req); err != nil {
		return nil, err
	}

	client, err := r.connect(ctx, env, &req.Source)
	if err != nil {
		return nil, err
	}

	deletePackage := req.Params.PackageProps != nil && req.Params.PackageProps.Delete
	deleteVersions := req.Params.VersionProps != nil && req.Params.VersionProps.Delete
	if deletePackage || deleteVersions {
		return r.delete(ctx, env, client, &req, deletePackage)
	}
	return r.publish(ctx, env, client, &req)
}

// publish runs the publish path of out:
//  1. the repository must exist
//  2. the package record is created or brought up to date
//  3. local files are discovered below local_path
//  4. the version is read from a file or captured from the file names
//  5. the version record is created or brought up to date
//  6. the files are mirrored to the version and published
//  7. the version record is read back for the response
func (r *Resource) publish(ctx context.Context, env *resource.Env, client Client, req *outRequest) (any, error) {
	params := &req.Params
	coords := req.Source.Coordinates()

	localPath, err := env.Resolver.String(params.LocalPath)
	if err != nil {
		return nil, err
	}
	// Every other file reference is relative to local_path.
	local := &resource.Env{Resolver: env.Resolver.Sub(localPath), Logger: env.Logger}
	localDir := local.Resolver.WorkDir()
	env.Logger.Info("publishing", "package", coords.String(), "local_path", localDir)

	if _, err := client.GetRepository(ctx, coords); err != nil {
		if bterrors.IsNotFound(err) {
			return nil, errors.Wrapf(err, errors.CodeNotFound, "The repository %s/%s doesn't exist", coords.Subject, coords.Repository)
		}
		return nil, err
	}

	if err := r.syncPackage(ctx, local, client, &req.Source, params.PackageProps); err != nil {
		return nil, err
	}

	filter, err := local.Resolver.List(params.Filter)
	if err != nil {
		return nil, err
	}
	discovery, err := client.DiscoverFiles(ctx, localDir, filter)
	if err != nil {
		return nil, err
	}
	for _, f := range discovery.Files {
		env.Logger.Debug("found file", "path", f.Path, "size", f.Size)
	}

	name, err := resolveVersion(local, &params.Version, discovery)
	if err != nil {
		return nil, err
	}
	coords = coords.WithVersion(name)
	env.Logger.Info("resolved version", "version", name)

	if err := r.syncVersion(ctx, local, client, coords, params.VersionProps); err != nil {
		return nil, err
	}

	gpgPassphrase, err := env.Resolver.Credential(ctx, req.Source.GPGPassphrase)
	if err != nil {
		return nil, err
	}
	opts, err := publishOptions(local, params, gpgPassphrase)
	if err != nil {
		return nil, err
	}
	result, err := client.Publish(ctx, coords, discovery, opts...)
	if err != nil {
		return nil, err
	}
	env.Logger.Info("published version",
		"version", coords.String(),
		"uploaded", len(result.Uploaded),
		"deleted", len(result.Deleted),
		"skipped", len(result.Skipped),
		"bytes", result.BytesUploaded,
		"duration", result.Duration,
	)

	version, err := client.GetVersion(ctx, coords)
	if err != nil {
		return nil, err
	}
	return responseFor(version), nil
}

// resolveVersion reads the version from a file, or captures it from the
// discovered file names with the given regular expression.
func resolveVersion(env *resource.Env, ref *resource.StringOrFile, discovery *bintraytypes.Discovery) (string, error) {
	var source bintray.VersionSource
	if ref.FromFile != "" {
		content, err := env.Resolver.String(ref)
		if err != nil {
			return "", err
		}
		source = bintray.LiteralVersion(content)
	} else {
		pattern, err := bintray.VersionPattern(ref.Value)
		if err != nil {
			return "", err
		}
		source = pattern
	}
	return bintray.ResolveVersion(source, discovery)
}

// publishOptions maps the out params to publish options. publish, override
// and show_in_download_list default to true; keep_existing_files to false.
func publishOptions(env *resource.Env, params *outParams, gpgPassphrase string) ([]bintraytypes.PublishOption, error) {
	remotePath, err := env.Resolver.String(params.RemotePath)
	if err != nil {
		return nil, err
	}
	distributions, err := env.Resolver.List(params.DebianDistribution)
	if err != nil {
		return nil, err
	}
	components, err := env.Resolver.List(params.DebianComponent)
	if err != nil {
		return nil, err
	}
	architectures, err := env.Resolver.List(params.DebianArchitecture)
	if err != nil {
		return nil, err
	}

	return []bintraytypes.PublishOption{
		bintray.WithRemotePath(remotePath),
		bintray.WithPublish(boolOr(params.Publish, true)),
		bintray.WithOverride(boolOr(params.Override, true)),
		bintray.WithShowInDownloadList(boolOr(params.ShowInDownloadList, true)),
		bintray.WithKeepExistingFiles(boolOr(params.KeepExistingFiles, false)),
		bintray.WithGPGPassphrase(gpgPassphrase),
		bintray.WithDebianDistributions(distributions...),
		bintray.WithDebianComponents(components...),
		bintray.WithDebianArchitectures(architectures...),
	}, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
