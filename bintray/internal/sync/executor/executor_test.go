package executor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/api"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/sync/planner"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/testutil"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	rooterrors "github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs/billy"
)

var coords = domain.Coordinates{Subject: "s", Repository: "r", Package: "p", Version: "1.0"}

func uploadOp(local, remote string) *planner.Operation {
	return &planner.Operation{Type: planner.OperationUpload, LocalPath: local, RemotePath: remote}
}

func deleteOp(remote string) *planner.Operation {
	return &planner.Operation{Type: planner.OperationDelete, RemotePath: remote}
}

func TestExecuteUploads(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("out/a.txt", []byte("aaa"), 0o644))
	require.NoError(t, fsys.WriteFile("out/b.txt", []byte("b"), 0o644))

	var got []*api.UploadInput
	var bodies []string
	mock := &testutil.MockAPI{
		UploadContentFunc: func(_ context.Context, in *api.UploadInput) (string, error) {
			body, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			got = append(got, in)
			bodies = append(bodies, string(body))
			if in.Path == "rel/b.txt" {
				return "file overridden", nil
			}
			return "", nil
		},
	}

	cfg := &Config{
		Coordinates:   coords,
		LocalRoot:     "out",
		Publish:       true,
		Override:      true,
		GPGPassphrase: "pass",
		Debian:        bintraytypes.DebianConfig{Architectures: []string{"amd64"}},
	}
	result, err := NewExecutor(mock, fsys, nil).ExecuteUploads(context.Background(), cfg, []*planner.Operation{
		uploadOp("a.txt", "rel/a.txt"),
		deleteOp("ignored.txt"),
		uploadOp("b.txt", "rel/b.txt"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"rel/a.txt", "rel/b.txt"}, result.Uploaded)
	assert.Equal(t, []string{"file overridden"}, result.Warnings)
	assert.Equal(t, []string{"aaa", "b"}, bodies)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].Size)
	assert.True(t, got[0].Publish)
	assert.True(t, got[0].Override)
	assert.Equal(t, "pass", got[0].GPGPassphrase)
	assert.Equal(t, []string{"amd64"}, got[0].DebianArchitectures)
	assert.Equal(t, coords, got[0].Coordinates)
}

func TestExecuteUploadsStopsAtFirstFailure(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	for _, p := range []string{"a", "b", "c"} {
		require.NoError(t, fsys.WriteFile(p, []byte(p), 0o644))
	}

	calls := 0
	boom := errors.New("connection reset")
	mock := &testutil.MockAPI{
		UploadContentFunc: func(_ context.Context, in *api.UploadInput) (string, error) {
			calls++
			if in.Path == "b" {
				return "", boom
			}
			return "", nil
		},
	}

	result, err := NewExecutor(mock, fsys, nil).ExecuteUploads(context.Background(), &Config{Coordinates: coords},
		[]*planner.Operation{uploadOp("a", "a"), uploadOp("b", "b"), uploadOp("c", "c")})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"a"}, result.Uploaded)
}

func TestExecuteUploadsMissingLocalFile(t *testing.T) {
	mock := &testutil.MockAPI{
		UploadContentFunc: func(context.Context, *api.UploadInput) (string, error) {
			t.Fatal("upload must not be attempted")
			return "", nil
		},
	}

	_, err := NewExecutor(mock, billy.NewInMemoryFS(), nil).ExecuteUploads(context.Background(),
		&Config{Coordinates: coords}, []*planner.Operation{uploadOp("missing", "missing")})
	require.Error(t, err)
	assert.Equal(t, rooterrors.CodeFilesystem, rooterrors.CodeOf(err))
}

func TestExecuteDeletes(t *testing.T) {
	var deleted []string
	mock := &testutil.MockAPI{
		DeleteContentFunc: func(_ context.Context, c domain.Coordinates, p string) (string, error) {
			assert.Equal(t, coords, c)
			deleted = append(deleted, p)
			return "", nil
		},
	}

	written := map[string]struct{}{"/rel/b.txt": {}}
	result, err := NewExecutor(mock, billy.NewInMemoryFS(), nil).ExecuteDeletes(context.Background(),
		&Config{Coordinates: coords},
		[]*planner.Operation{deleteOp("rel/a.txt"), deleteOp("rel/b.txt"), uploadOp("x", "x"), deleteOp("rel/c.txt")},
		written)
	require.NoError(t, err)

	assert.Equal(t, []string{"rel/a.txt", "rel/c.txt"}, deleted)
	assert.Equal(t, deleted, result.Deleted)
	assert.Equal(t, []string{"rel/b.txt"}, result.Skipped)
}

func TestExecuteDeletesFailureIsFatal(t *testing.T) {
	calls := 0
	mock := &testutil.MockAPI{
		DeleteContentFunc: func(context.Context, domain.Coordinates, string) (string, error) {
			calls++
			return "", errors.New("forbidden")
		},
	}

	result, err := NewExecutor(mock, billy.NewInMemoryFS(), nil).ExecuteDeletes(context.Background(),
		&Config{Coordinates: coords}, []*planner.Operation{deleteOp("a"), deleteOp("b")}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, result.Deleted)
}
