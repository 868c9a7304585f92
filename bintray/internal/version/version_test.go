package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs/billy"
)

func TestPatternResolve(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		candidates []string
		want       string
		wantErr    bool
	}{
		{
			name:       "named group",
			expr:       `app-(?P<version>\d+\.\d+\.\d+)\.tar\.gz`,
			candidates: []string{"build/app-1.2.3.tar.gz", "README.md"},
			want:       "1.2.3",
		},
		{
			name:       "named group wins over first group",
			expr:       `(app)-(?P<version>[\d.]+)\.zip`,
			candidates: []string{"app-4.5.zip"},
			want:       "4.5",
		},
		{
			name:       "first positional group",
			expr:       `pkg_([\d.]+)_amd64\.deb`,
			candidates: []string{"README.md", "pkg_3.8.1_amd64.deb"},
			want:       "3.8.1",
		},
		{
			name:       "first match in discovery order wins",
			expr:       `v(\d+)`,
			candidates: []string{"v2.txt", "v1.txt"},
			want:       "2",
		},
		{
			name:       "match without group is skipped",
			expr:       `README|v(\d+)`,
			candidates: []string{"README", "v7"},
			want:       "7",
		},
		{
			name:       "no match",
			expr:       `app-(?P<version>\d+\.\d+\.\d+)\.tar\.gz`,
			candidates: []string{"README.md"},
			wantErr:    true,
		},
		{
			name:    "no candidates",
			expr:    `(.*)`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPattern(tt.expr)
			require.NoError(t, err)

			got, err := p.Resolve(tt.candidates)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeVersionUndetermined, errors.CodeOf(err))
				assert.Equal(t, "Failed to determine version from file names", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPatternInvalid(t *testing.T) {
	_, err := NewPattern(`(`)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.CodeOf(err))
}

func TestFileResolve(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("work/VERSION", []byte("  2.1.0\n"), 0o644))
	require.NoError(t, fsys.WriteFile("work/EMPTY", []byte("\n"), 0o644))

	v, err := File{Filesystem: fsys, Path: "work/VERSION"}.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", v)

	_, err = File{Filesystem: fsys, Path: "work/EMPTY"}.Resolve(nil)
	assert.Equal(t, errors.CodeVersionUndetermined, errors.CodeOf(err))

	_, err = File{Filesystem: fsys, Path: "work/missing"}.Resolve(nil)
	assert.Equal(t, errors.CodeFilesystem, errors.CodeOf(err))
}

func TestLiteralResolve(t *testing.T) {
	v, err := Literal("1.0").Resolve([]string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, "1.0", v)

	_, err = Literal("").Resolve(nil)
	assert.Error(t, err)
}

func TestExpandRemotePath(t *testing.T) {
	tests := []struct {
		template string
		version  string
		want     string
	}{
		{"release/$VERSION/linux", "2.0.0", "release/2.0.0/linux"},
		{"release/$VERSIONX/linux", "2.0.0", "release/$VERSIONX/linux"},
		{"$VERSION/$VERSION", "1", "1/1"},
		{"/a/./b/../$VERSION/", "3", "a/3"},
		{"$version", "1", "$version"},
		{"", "1", ""},
		{"x/$VERSION", "$1", "x/$1"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandRemotePath(tt.template, tt.version))
		})
	}
}
