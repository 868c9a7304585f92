package packages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/resource/internal/testutil"
)

func withVersions(m *testutil.MockClient, newestFirst ...string) {
	m.GetPackageFunc = func(_ context.Context, c domain.Coordinates) (*domain.Package, error) {
		return &domain.Package{Name: c.Package, Versions: newestFirst}, nil
	}
	m.GetVersionFunc = func(_ context.Context, c domain.Coordinates) (*domain.Version, error) {
		return &domain.Version{Name: c.Version, Updated: "updated-" + c.Version}, nil
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		want  string
	}{
		{
			name:  "first check returns the newest version",
			extra: `"version": null`,
			want:  `[{"version": "3.7.2", "updated": "updated-3.7.2"}]`,
		},
		{
			name:  "current version and newer ones",
			extra: `"version": {"version": "3.7.0"}`,
			want: `[{"version": "3.7.0", "updated": "updated-3.7.0"},
				{"version": "3.7.1", "updated": "updated-3.7.1"},
				{"version": "3.7.2", "updated": "updated-3.7.2"}]`,
		},
		{
			name:  "current version is the newest",
			extra: `"version": {"version": "3.7.2", "updated": "x"}`,
			want:  `[{"version": "3.7.2", "updated": "updated-3.7.2"}]`,
		},
		{
			name:  "vanished version falls back to the newest",
			extra: `"version": {"version": "3.5.0"}`,
			want:  `[{"version": "3.7.2", "updated": "updated-3.7.2"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			withVersions(f.mock, "3.7.2", "3.7.1", "3.7.0", "3.6.9")

			out, err := f.resource.Check(context.Background(), f.env, []byte(`{`+source+`, `+tt.extra+`}`))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, toJSON(t, out))
		})
	}
}

func TestCheckResolvesCredentials(t *testing.T) {
	f := newFixture(t)
	withVersions(f.mock)

	_, err := f.resource.Check(context.Background(), f.env, []byte(`{`+source+`}`))
	require.NoError(t, err)
	assert.Equal(t, "rabbitmq-ci", f.username)
	assert.Equal(t, "k3y", f.apiKey)
}

func TestCheckVersionFilter(t *testing.T) {
	const base = `"username": "u", "api_key": "k", "subject": "rabbitmq", "repository": "debian", "package": "p"`

	tests := []struct {
		name   string
		filter string
		since  string
		want   string
	}{
		{"single glob", `"3.6.*"`, "", `[{"version": "3.6.9", "updated": "updated-3.6.9"}]`},
		{
			"globs from file with current version",
			`{"from_file": "filters"}`,
			`{"version": "3.6.9"}`,
			`[{"version": "3.6.9", "updated": "updated-3.6.9"}, {"version": "3.7.1", "updated": "updated-3.7.1"}]`,
		},
		{"star spans separators", `["*/rc"]`, "", `[{"version": "3.8.0/rc", "updated": "updated-3.8.0/rc"}]`},
		{"nothing matches", `["4.*"]`, "", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.fs.WriteFile(workDir+"/filters", []byte("3.6.*\n3.7.1\n"), 0o644))
			withVersions(f.mock, "3.8.0/rc", "3.7.2", "3.7.1", "3.6.9")

			input := `{"source": {` + base + `, "version_filter": ` + tt.filter + `}`
			if tt.since != "" {
				input += `, "version": ` + tt.since
			}
			out, err := f.resource.Check(context.Background(), f.env, []byte(input+`}`))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, toJSON(t, out))
		})
	}
}

func TestCheckMissingPackage(t *testing.T) {
	f := newFixture(t)
	f.mock.GetPackageFunc = func(context.Context, domain.Coordinates) (*domain.Package, error) {
		return nil, testutil.NotFound("get package")
	}

	out, err := f.resource.Check(context.Background(), f.env, []byte(`{`+source+`}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, toJSON(t, out))
}

func TestCheckErrors(t *testing.T) {
	f := newFixture(t)
	input := `{"source": {"username": "u", "api_key": "k", "subject": "s", "repository": "r", "package": "p",
		"version_filter": "["}}`
	_, err := f.resource.Check(context.Background(), f.env, []byte(input))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.CodeOf(err))
	assert.Empty(t, f.mock.Calls())

	_, err = f.resource.Check(context.Background(), f.env, []byte(`{"source": {}}`))
	assert.Equal(t, errors.CodeSchemaFailed, errors.CodeOf(err))
}

func TestVersionsSince(t *testing.T) {
	newestFirst := []string{"c", "b", "a"}

	assert.Equal(t, []string{"a", "b", "c"}, versionsSince(newestFirst, ""))
	assert.Equal(t, []string{"b", "c"}, versionsSince(newestFirst, "b"))
	assert.Equal(t, []string{"c"}, versionsSince(newestFirst, "z"))
	assert.Empty(t, versionsSince(nil, "z"))
	assert.Equal(t, []string{"c", "b", "a"}, newestFirst, "input must not be reordered")
}
