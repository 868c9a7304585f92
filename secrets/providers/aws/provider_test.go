package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbitmq/concourse-bintray-resources/secrets"
)

type mockSecretsManager struct {
	getSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error)
}

func (m *mockSecretsManager) GetSecretValue(
	ctx context.Context,
	params *secretsmanager.GetSecretValueInput,
	_ ...func(*secretsmanager.Options),
) (*secretsmanager.GetSecretValueOutput, error) {
	if m.getSecretValueFunc != nil {
		return m.getSecretValueFunc(ctx, params)
	}
	return &secretsmanager.GetSecretValueOutput{}, nil
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		ref         secrets.SecretRef
		output      *secretsmanager.GetSecretValueOutput
		err         error
		wantValue   string
		wantStage   string
		wantID      string
		wantErr     error
		wantVersion string
	}{
		{
			name:        "string secret",
			ref:         secrets.SecretRef{Name: "ci/bintray"},
			output:      &secretsmanager.GetSecretValueOutput{SecretString: aws.String("key"), VersionId: aws.String("v-1")},
			wantValue:   "key",
			wantVersion: "v-1",
		},
		{
			name:      "binary secret",
			ref:       secrets.SecretRef{Name: "ci/gpg"},
			output:    &secretsmanager.GetSecretValueOutput{SecretBinary: []byte("pass")},
			wantValue: "pass",
		},
		{
			name:      "stage version",
			ref:       secrets.SecretRef{Name: "s", Version: "AWSPREVIOUS"},
			output:    &secretsmanager.GetSecretValueOutput{SecretString: aws.String("old")},
			wantValue: "old",
			wantStage: "AWSPREVIOUS",
		},
		{
			name:      "version id",
			ref:       secrets.SecretRef{Name: "s", Version: "0123"},
			output:    &secretsmanager.GetSecretValueOutput{SecretString: aws.String("v")},
			wantValue: "v",
			wantID:    "0123",
		},
		{
			name:    "not found",
			ref:     secrets.SecretRef{Name: "missing"},
			err:     &types.ResourceNotFoundException{Message: aws.String("nope")},
			wantErr: secrets.ErrSecretNotFound,
		},
		{
			name:    "access denied",
			ref:     secrets.SecretRef{Name: "s"},
			err:     &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not allowed"},
			wantErr: secrets.ErrAccessDenied,
		},
		{
			name:    "other api error",
			ref:     secrets.SecretRef{Name: "s"},
			err:     &smithy.GenericAPIError{Code: "InternalServiceError", Message: "oops"},
			wantErr: secrets.ErrProviderError,
		},
		{
			name:    "empty value",
			ref:     secrets.SecretRef{Name: "s"},
			output:  &secretsmanager.GetSecretValueOutput{},
			wantErr: secrets.ErrProviderError,
		},
		{
			name:    "empty name",
			wantErr: secrets.ErrInvalidRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSecretsManager{
				getSecretValueFunc: func(_ context.Context, in *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
					assert.Equal(t, tt.ref.Name, aws.ToString(in.SecretId))
					assert.Equal(t, tt.wantStage, aws.ToString(in.VersionStage))
					assert.Equal(t, tt.wantID, aws.ToString(in.VersionId))
					return tt.output, tt.err
				},
			}

			secret, err := NewWithClient(mock).Resolve(context.Background(), tt.ref)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, secret.String())
			assert.Equal(t, tt.wantVersion, secret.Version)
		})
	}
}

func TestResolveTransportError(t *testing.T) {
	boom := errors.New("dial tcp: i/o timeout")
	mock := &mockSecretsManager{
		getSecretValueFunc: func(context.Context, *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
			return nil, boom
		},
	}
	_, err := NewWithClient(mock).Resolve(context.Background(), secrets.SecretRef{Name: "s"})
	assert.ErrorIs(t, err, boom)
}

func TestProviderThroughManager(t *testing.T) {
	mock := &mockSecretsManager{
		getSecretValueFunc: func(context.Context, *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
			return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"api_key":"k","gpg":"g"}`)}, nil
		},
	}
	manager := secrets.NewManager(&secrets.Config{DefaultProvider: ProviderName})
	require.NoError(t, manager.RegisterProvider(ProviderName, NewWithClient(mock)))

	value, err := manager.ResolveString(context.Background(), secrets.SecretRef{Name: "ci/bintray", Key: "gpg"})
	require.NoError(t, err)
	assert.Equal(t, "g", value)
}

func TestNameAndClose(t *testing.T) {
	p := NewWithClient(&mockSecretsManager{})
	assert.Equal(t, "aws", p.Name())
	assert.NoError(t, p.Close())
}

func TestContainsAccessDeniedMessage(t *testing.T) {
	assert.True(t, containsAccessDeniedMessage("User is not authorized: Access Denied"))
	assert.False(t, containsAccessDeniedMessage("secret not found"))
}
