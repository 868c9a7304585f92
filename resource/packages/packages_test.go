package packages

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/fs/billy"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
	"github.com/rabbitmq/concourse-bintray-resources/resource/internal/testutil"
	"github.com/rabbitmq/concourse-bintray-resources/secrets"
	"github.com/rabbitmq/concourse-bintray-resources/secrets/providers/memory"
)

var _ Client = (*testutil.MockClient)(nil)

const workDir = "/tmp/build/put"

const source = `"source": {
	"username": "rabbitmq-ci",
	"api_key": {"from_secret": {"name": "ci/bintray", "key": "api_key"}},
	"subject": "rabbitmq",
	"repository": "debian",
	"package": "rabbitmq-server",
	"gpg_passphrase": {"from_file": "secrets/gpg"}
}`

type fixture struct {
	resource *Resource
	env      *resource.Env
	fs       *billy.FS
	mock     *testutil.MockClient
	username string
	apiKey   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	memfs := billy.NewInMemoryFS()
	require.NoError(t, memfs.MkdirAll(workDir, 0o755))
	require.NoError(t, memfs.WriteFile(workDir+"/secrets/gpg", []byte("gpg-pass\n"), 0o600))

	provider := memory.New()
	require.NoError(t, provider.Store(secrets.SecretRef{Name: "ci/bintray"}, []byte(`{"api_key": "k3y"}`)))
	manager := secrets.NewManager(&secrets.Config{DefaultProvider: "memory"})
	require.NoError(t, manager.RegisterProvider("memory", provider))

	f := &fixture{fs: memfs, mock: &testutil.MockClient{}}
	f.env = &resource.Env{
		Resolver: resource.NewResolver(memfs, workDir, manager),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	f.resource = New(func(username, apiKey string) (Client, error) {
		f.username, f.apiKey = username, apiKey
		return f.mock, nil
	})
	return f
}

// toJSON renders a script result the way it is written to stdout.
func toJSON(t *testing.T, v any) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

var notFound = testutil.NotFound
