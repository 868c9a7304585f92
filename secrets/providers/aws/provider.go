// Package aws provides an AWS Secrets Manager secret provider.
//
// Credentials come from the AWS SDK default chain (environment, shared
// config, instance metadata). They are only loaded when the provider is
// created, which the resource binaries defer until a request references a
// secret.
//
// # Basic Usage
//
//	provider, err := aws.New(ctx, aws.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//	secret, err := provider.Resolve(ctx, secrets.SecretRef{Name: "ci/bintray"})
//
// # Error Handling
//
// AWS errors are mapped to the secrets sentinels:
//
//	if errors.Is(err, secrets.ErrSecretNotFound) {
//	    // Handle missing secret
//	} else if errors.Is(err, secrets.ErrAccessDenied) {
//	    // Handle permission issues
//	}
package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"

	"github.com/rabbitmq/concourse-bintray-resources/secrets"
)

// ProviderName is the name the provider registers under.
const ProviderName = "aws"

// versionStages are the staging labels accepted in place of a version ID.
var versionStages = map[string]bool{
	"AWSCURRENT":  true,
	"AWSPREVIOUS": true,
	"AWSPENDING":  true,
}

// SecretsManagerAPI is the subset of the Secrets Manager client the provider uses.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

var _ SecretsManagerAPI = (*secretsmanager.Client)(nil)

// Provider resolves secrets from AWS Secrets Manager.
// It is safe for concurrent use.
type Provider struct {
	client SecretsManagerAPI
}

var _ secrets.Provider = (*Provider)(nil)

// Config holds the configuration for the provider.
type Config struct {
	// Region specifies the AWS region. Empty uses the SDK default resolution.
	Region string

	// MaxRetries is the maximum number of SDK attempts. Zero keeps the SDK default.
	MaxRetries int

	// Endpoint overrides the service endpoint, e.g. for LocalStack.
	Endpoint string
}

// Option configures the provider.
type Option func(*Config)

// WithRegion sets the AWS region for the provider.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of SDK attempts.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

// WithEndpoint sets a custom service endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// New creates a provider from the default AWS configuration.
func New(ctx context.Context, opts ...Option) (*Provider, error) {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.MaxRetries > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(cfg.MaxRetries))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client), nil
}

// NewWithClient creates a provider around an existing client.
func NewWithClient(client SecretsManagerAPI) *Provider {
	return &Provider{client: client}
}

// Name returns the provider's identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// Close is a no-op; the SDK client holds no resources needing release.
func (p *Provider) Close() error {
	return nil
}

// Resolve retrieves a secret. ref.Version may be a version ID or one of the
// AWSCURRENT, AWSPREVIOUS and AWSPENDING stages. String and binary secrets
// are both supported.
func (p *Provider) Resolve(ctx context.Context, ref secrets.SecretRef) (*secrets.Secret, error) {
	if ref.Name == "" {
		return nil, fmt.Errorf("secret name cannot be empty: %w", secrets.ErrInvalidRef)
	}

	input := &secretsmanager.GetSecretValueInput{SecretId: aws.String(ref.Name)}
	if ref.Version != "" {
		if versionStages[ref.Version] {
			input.VersionStage = aws.String(ref.Version)
		} else {
			input.VersionId = aws.String(ref.Version)
		}
	}

	output, err := p.client.GetSecretValue(ctx, input)
	if err != nil {
		return nil, mapAWSError(ref, err)
	}

	var value []byte
	switch {
	case output.SecretString != nil:
		value = []byte(*output.SecretString)
	case output.SecretBinary != nil:
		value = output.SecretBinary
	default:
		return nil, fmt.Errorf("secret %q has no value: %w", ref.Name, secrets.ErrProviderError)
	}

	return &secrets.Secret{Value: value, Version: aws.ToString(output.VersionId)}, nil
}

// mapAWSError maps AWS SDK errors to the secrets sentinels.
func mapAWSError(ref secrets.SecretRef, err error) error {
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return fmt.Errorf("secret %q not found: %w", ref.Name, secrets.ErrSecretNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if code == "AccessDeniedException" || containsAccessDeniedMessage(apiErr.ErrorMessage()) {
			return fmt.Errorf("access denied for secret %q: %w", ref.Name, secrets.ErrAccessDenied)
		}
		return fmt.Errorf("secret %q: %s: %s: %w", ref.Name, code, apiErr.ErrorMessage(), secrets.ErrProviderError)
	}

	return fmt.Errorf("failed to resolve secret %q: %w", ref.Name, err)
}

// containsAccessDeniedMessage checks if the error message indicates access denial.
func containsAccessDeniedMessage(msg string) bool {
	lowerMsg := strings.ToLower(msg)
	return strings.Contains(lowerMsg, "access") && strings.Contains(lowerMsg, "denied")
}
