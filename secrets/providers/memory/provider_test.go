package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/secrets"
)

func TestMemoryProvider_Name(t *testing.T) {
	assert.Equal(t, "memory", New().Name())
}

func TestMemoryProvider_StoreAndResolve(t *testing.T) {
	p := New()
	ctx := context.Background()

	require.NoError(t, p.Store(secrets.SecretRef{Name: "ci/key"}, []byte("latest")))
	require.NoError(t, p.Store(secrets.SecretRef{Name: "ci/key", Version: "v1"}, []byte("first")))

	tests := []struct {
		name    string
		ref     secrets.SecretRef
		want    string
		wantErr error
	}{
		{"latest", secrets.SecretRef{Name: "ci/key"}, "latest", nil},
		{"version", secrets.SecretRef{Name: "ci/key", Version: "v1"}, "first", nil},
		{"missing version", secrets.SecretRef{Name: "ci/key", Version: "v9"}, "", secrets.ErrSecretNotFound},
		{"missing name", secrets.SecretRef{Name: "other"}, "", secrets.ErrSecretNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := p.Resolve(ctx, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestMemoryProvider_ResolveReturnsCopy(t *testing.T) {
	p := New()
	ref := secrets.SecretRef{Name: "k"}
	require.NoError(t, p.Store(ref, []byte("value")))

	s, err := p.Resolve(context.Background(), ref)
	require.NoError(t, err)
	s.Clear()

	again, err := p.Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "value", again.String())
}

func TestMemoryProvider_StoreRejectsEmptyName(t *testing.T) {
	assert.ErrorIs(t, New().Store(secrets.SecretRef{}, []byte("x")), secrets.ErrInvalidRef)
}

func TestMemoryProvider_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Resolve(ctx, secrets.SecretRef{Name: "k"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryProvider_Close(t *testing.T) {
	p := New()
	ref := secrets.SecretRef{Name: "k"}
	require.NoError(t, p.Store(ref, []byte("v")))
	require.NoError(t, p.Close())

	_, err := p.Resolve(context.Background(), ref)
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
}
