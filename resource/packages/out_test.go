package packages

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
)

var debianFiles = &bintraytypes.Discovery{
	Root: workDir + "/packages",
	Files: []bintraytypes.LocalFile{
		{Path: "rabbitmq-server_3.7.2-1.dsc", Size: 10},
		{Path: "rabbitmq-server_3.7.2-1_all.deb", Size: 100},
	},
}

func TestOutPublish(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.WriteFile(workDir+"/packages/release/date", []byte("2018-01-30\n"), 0o644))

	var (
		created    *domain.Package
		newVersion *domain.Version
		published  *bintraytypes.PublishOptionConfig
		pubCoords  domain.Coordinates
		versionGot int
	)
	f.mock.GetPackageFunc = func(context.Context, domain.Coordinates) (*domain.Package, error) {
		return nil, notFound("get package")
	}
	f.mock.CreatePackageFunc = func(_ context.Context, _ domain.Coordinates, p *domain.Package) (string, error) {
		created = p
		return "", nil
	}
	f.mock.DiscoverFilesFunc = func(_ context.Context, dir string, patterns []string) (*bintraytypes.Discovery, error) {
		assert.Equal(t, workDir+"/packages", dir)
		assert.Equal(t, []string{"*.deb", "*.dsc"}, patterns)
		return debianFiles, nil
	}
	f.mock.GetVersionFunc = func(_ context.Context, c domain.Coordinates) (*domain.Version, error) {
		versionGot++
		if versionGot == 1 {
			return nil, notFound("get version")
		}
		return &domain.Version{Name: c.Version, Released: "2018-01-30", Updated: "2018-01-31"}, nil
	}
	f.mock.CreateVersionFunc = func(_ context.Context, _ domain.Coordinates, v *domain.Version) (string, error) {
		newVersion = v
		return "", nil
	}
	f.mock.PublishFunc = func(_ context.Context, c domain.Coordinates, d *bintraytypes.Discovery, cfg *bintraytypes.PublishOptionConfig) (*bintraytypes.PublishResult, error) {
		pubCoords, published = c, cfg
		assert.Same(t, debianFiles, d)
		return &bintraytypes.PublishResult{Uploaded: []string{"a", "b"}}, nil
	}

	input := `{` + source + `, "params": {
		"local_path": "packages",
		"remote_path": "pool/$VERSION",
		"filter": ["*.deb", "*.dsc"],
		"version": "rabbitmq-server_(?P<version>[^-]+)-1_all\\.deb",
		"package_props": {"desc": "RabbitMQ", "labels": ["messaging", "amqp"], "maturity": "stable",
			"licenses": ["MPL-1.1"], "public_stats": true},
		"version_props": {"released": {"from_file": "release/date"}, "vcs_tag": "v3.7.2"},
		"debian_distribution": "stretch",
		"debian_component": ["main"],
		"debian_architecture": ["all", "amd64"]
	}}`
	out, err := f.resource.Out(context.Background(), f.env, []byte(input))
	require.NoError(t, err)

	assert.JSONEq(t, `{"version": {"version": "3.7.2", "updated": "2018-01-31"},
		"metadata": [{"name": "Release date", "value": "2018-01-30"}]}`, toJSON(t, out))
	assert.Equal(t, []string{
		"GetRepository",
		"GetPackage", "CreatePackage",
		"DiscoverFiles",
		"GetVersion", "CreateVersion",
		"Publish",
		"GetVersion",
	}, f.mock.Calls())

	require.NotNil(t, created)
	assert.Equal(t, "rabbitmq-server", created.Name)
	assert.Equal(t, "RabbitMQ", created.Desc)
	assert.Equal(t, []string{"amqp", "messaging"}, created.Labels)
	assert.Equal(t, domain.MaturityStable, created.Maturity)
	assert.True(t, created.PublicStats)

	require.NotNil(t, newVersion)
	assert.Equal(t, "3.7.2", newVersion.Name)
	assert.Equal(t, "2018-01-30", newVersion.Released)
	assert.Equal(t, "v3.7.2", newVersion.VCSTag)

	assert.Equal(t, "3.7.2", pubCoords.Version)
	require.NotNil(t, published)
	assert.Equal(t, "pool/$VERSION", published.RemotePath)
	assert.True(t, published.Publish)
	assert.True(t, published.Override)
	assert.True(t, published.ShowInDownloadList)
	assert.False(t, published.KeepExistingFiles)
	assert.Equal(t, "gpg-pass", published.GPGPassphrase)
	assert.Equal(t, []string{"stretch"}, published.Debian.Distributions)
	assert.Equal(t, []string{"main"}, published.Debian.Components)
	assert.Equal(t, []string{"all", "amd64"}, published.Debian.Architectures)
}

func TestOutFileReferencesRelativeToLocalPath(t *testing.T) {
	f := newFixture(t)
	files := map[string]string{
		"packages/VERSION":     "3.7.2\n",
		"packages/filters":     "*.deb\n",
		"packages/remote-path": "pool/$VERSION\n",
		"packages/dists":       "stretch\nbuster\n",
	}
	for name, content := range files {
		require.NoError(t, f.fs.WriteFile(workDir+"/"+name, []byte(content), 0o644))
	}

	var (
		patterns  []string
		published *bintraytypes.PublishOptionConfig
		coords    domain.Coordinates
	)
	f.mock.DiscoverFilesFunc = func(_ context.Context, dir string, p []string) (*bintraytypes.Discovery, error) {
		assert.Equal(t, workDir+"/packages", dir)
		patterns = p
		return debianFiles, nil
	}
	f.mock.PublishFunc = func(_ context.Context, c domain.Coordinates, _ *bintraytypes.Discovery, cfg *bintraytypes.PublishOptionConfig) (*bintraytypes.PublishResult, error) {
		coords, published = c, cfg
		return &bintraytypes.PublishResult{}, nil
	}

	input := `{` + source + `, "params": {
		"local_path": "packages",
		"version": {"from_file": "VERSION"},
		"filter": {"from_file": "filters"},
		"remote_path": {"from_file": "remote-path"},
		"debian_distribution": {"from_file": "dists"}
	}}`
	_, err := f.resource.Out(context.Background(), f.env, []byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"*.deb"}, patterns)
	assert.Equal(t, "3.7.2", coords.Version)
	require.NotNil(t, published)
	assert.Equal(t, "pool/$VERSION", published.RemotePath)
	assert.Equal(t, []string{"stretch", "buster"}, published.Debian.Distributions)
	assert.Equal(t, "gpg-pass", published.GPGPassphrase, "source credentials stay relative to the working directory")
}

func TestOutFileReferenceOutsideLocalPath(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.WriteFile(workDir+"/VERSION", []byte("3.7.2\n"), 0o644))

	input := `{` + source + `, "params": {"local_path": "packages", "version": {"from_file": "VERSION"}}}`
	_, err := f.resource.Out(context.Background(), f.env, []byte(input))
	require.Error(t, err)
	assert.Equal(t, errors.CodeFilesystem, errors.CodeOf(err))
	assert.Contains(t, err.Error(), workDir+"/packages/VERSION")
	assert.NotContains(t, f.mock.Calls(), "Publish")
}

func TestOutPublishFlags(t *testing.T) {
	f := newFixture(t)
	var published *bintraytypes.PublishOptionConfig
	f.mock.PublishFunc = func(_ context.Context, _ domain.Coordinates, _ *bintraytypes.Discovery, cfg *bintraytypes.PublishOptionConfig) (*bintraytypes.PublishResult, error) {
		published = cfg
		return &bintraytypes.PublishResult{}, nil
	}

	input := `{` + source + `, "params": {"version": {"from_file": "version"},
		"publish": false, "override": false, "show_in_download_list": false, "keep_existing_files": true}}`
	require.NoError(t, f.fs.WriteFile(workDir+"/version", []byte(" 1.2.3 \n"), 0o644))

	out, err := f.resource.Out(context.Background(), f.env, []byte(input))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": {"version": "1.2.3"}, "metadata": []}`, toJSON(t, out))

	require.NotNil(t, published)
	assert.False(t, published.Publish)
	assert.False(t, published.Override)
	assert.False(t, published.ShowInDownloadList)
	assert.True(t, published.KeepExistingFiles)
	assert.Empty(t, published.RemotePath)
}

func TestOutRecordsUpToDate(t *testing.T) {
	f := newFixture(t)
	f.mock.GetPackageFunc = func(_ context.Context, c domain.Coordinates) (*domain.Package, error) {
		return &domain.Package{Name: c.Package, Desc: "RabbitMQ", Labels: []string{"amqp", "messaging"}}, nil
	}
	f.mock.GetVersionFunc = func(_ context.Context, c domain.Coordinates) (*domain.Version, error) {
		return &domain.Version{Name: c.Version, Desc: "release"}, nil
	}
	f.mock.DiscoverFilesFunc = func(context.Context, string, []string) (*bintraytypes.Discovery, error) {
		return debianFiles, nil
	}

	input := `{` + source + `, "params": {"version": "_([0-9.]+)-",
		"package_props": {"desc": "RabbitMQ", "labels": ["messaging", "amqp"]},
		"version_props": {"desc": "release"}}}`
	_, err := f.resource.Out(context.Background(), f.env, []byte(input))
	require.NoError(t, err)

	calls := f.mock.Calls()
	assert.NotContains(t, calls, "CreatePackage")
	assert.NotContains(t, calls, "UpdatePackage")
	assert.NotContains(t, calls, "CreateVersion")
	assert.NotContains(t, calls, "UpdateVersion")
}

func TestOutRecordsUpdated(t *testing.T) {
	f := newFixture(t)
	f.mock.GetPackageFunc = func(_ context.Context, c domain.Coordinates) (*domain.Package, error) {
		return &domain.Package{Name: c.Package, Desc: "old", Versions: []string{"3.7.1"}}, nil
	}
	f.mock.GetVersionFunc = func(_ context.Context, c domain.Coordinates) (*domain.Version, error) {
		return &domain.Version{Name: c.Version}, nil
	}
	f.mock.DiscoverFilesFunc = func(context.Context, string, []string) (*bintraytypes.Discovery, error) {
		return debianFiles, nil
	}
	var updated *domain.Package
	f.mock.UpdatePackageFunc = func(_ context.Context, _ domain.Coordinates, p *domain.Package) (string, error) {
		updated = p
		return "", nil
	}
	var useTag *bool
	f.mock.UpdateVersionFunc = func(_ context.Context, _ domain.Coordinates, v *domain.Version) (string, error) {
		useTag = v.GitHubUseTagReleaseNotes
		return "", nil
	}

	input := `{` + source + `, "params": {"version": "_([0-9.]+)-",
		"package_props": {"desc": {"from_file": "secrets/gpg"}},
		"version_props": {"github_use_tag_release_notes": true}}}`
	_, err := f.resource.Out(context.Background(), f.env, []byte(input))
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, "gpg-pass", updated.Desc)
	assert.Equal(t, []string{"3.7.1"}, updated.Versions)
	require.NotNil(t, useTag)
	assert.True(t, *useTag)
}

func TestOutPublishErrors(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		setup    func(f *fixture)
		wantCode errors.ErrorCode
		wantMsg  string
	}{
		{
			name:   "missing repository",
			params: `{"version": "x"}`,
			setup: func(f *fixture) {
				f.mock.GetRepositoryFunc = func(context.Context, domain.Coordinates) (*domain.Repository, error) {
					return nil, notFound("get repository")
				}
			},
			wantCode: errors.CodeNotFound,
			wantMsg:  "The repository rabbitmq/debian doesn't exist",
		},
		{
			name:   "version not in file names",
			params: `{"version": "rabbitmq-server_(?P<version>[^_]+)_amd64\\.deb"}`,
			setup: func(f *fixture) {
				f.mock.DiscoverFilesFunc = func(context.Context, string, []string) (*bintraytypes.Discovery, error) {
					return debianFiles, nil
				}
			},
			wantCode: errors.CodeVersionUndetermined,
			wantMsg:  "Failed to determine version from file names",
		},
		{
			name:     "invalid version regex",
			params:   `{"version": "("}`,
			wantCode: errors.CodeInvalidInput,
		},
		{
			name:     "missing version file",
			params:   `{"version": {"from_file": "nope"}}`,
			wantCode: errors.CodeFilesystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.resource.Out(context.Background(), f.env, []byte(`{`+source+`, "params": `+tt.params+`}`))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.NotContains(t, f.mock.Calls(), "Publish")
		})
	}
}

func TestOutDeletePackage(t *testing.T) {
	f := newFixture(t)

	out, err := f.resource.Out(context.Background(), f.env,
		[]byte(`{`+source+`, "params": {"version": "", "package_props": {"delete": true}}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": {"version": "<DELETED>"}, "metadata": []}`, toJSON(t, out))
	assert.Equal(t, []string{"GetPackage", "DeletePackage"}, f.mock.Calls())
}

func TestOutDeleteMissingPackage(t *testing.T) {
	f := newFixture(t)
	f.mock.GetPackageFunc = func(context.Context, domain.Coordinates) (*domain.Package, error) {
		return nil, notFound("get package")
	}

	out, err := f.resource.Out(context.Background(), f.env,
		[]byte(`{`+source+`, "params": {"version": ".*", "version_props": {"delete": true}}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": {"version": "<DELETED>"}, "metadata": []}`, toJSON(t, out))
	assert.Equal(t, []string{"GetPackage"}, f.mock.Calls())
}

func TestOutPruneVersions(t *testing.T) {
	f := newFixture(t)
	var (
		re   *regexp.Regexp
		keep int
	)
	f.mock.PruneVersionsFunc = func(_ context.Context, _ domain.Coordinates, r *regexp.Regexp, n int) (*bintraytypes.PruneResult, error) {
		re, keep = r, n
		return &bintraytypes.PruneResult{Kept: []string{"3.6.2"}, Deleted: []string{"3.6.1"}}, nil
	}

	out, err := f.resource.Out(context.Background(), f.env,
		[]byte(`{`+source+`, "params": {"version": "^3\\.6\\.", "version_props": {"delete": true, "keep_last_n": 1}}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": {"version": "<DELETED>"}, "metadata": []}`, toJSON(t, out))

	require.NotNil(t, re)
	assert.Equal(t, `^3\.6\.`, re.String())
	assert.Equal(t, 1, keep)
	assert.NotContains(t, f.mock.Calls(), "DeletePackage")
}

func TestOutPruneInvalidRegex(t *testing.T) {
	f := newFixture(t)

	_, err := f.resource.Out(context.Background(), f.env,
		[]byte(`{`+source+`, "params": {"version": "[", "version_props": {"delete": true}}}`))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.CodeOf(err))
	assert.NotContains(t, f.mock.Calls(), "PruneVersions")
}
