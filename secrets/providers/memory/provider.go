// Package memory provides an in-memory secret provider for tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rabbitmq/concourse-bintray-resources/secrets"
)

// latestVersion is the version used when a reference names none.
const latestVersion = "latest"

// Provider is a thread-safe in-memory secret store.
type Provider struct {
	// store holds the secret values keyed by name and version
	store map[string]map[string][]byte
	mu    sync.RWMutex
}

var _ secrets.Provider = (*Provider)(nil)

// New creates an empty memory provider.
func New() *Provider {
	return &Provider{store: make(map[string]map[string][]byte)}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "memory"
}

// Store saves value under ref. An empty version stores the latest one.
func (p *Provider) Store(ref secrets.SecretRef, value []byte) error {
	if ref.Name == "" {
		return fmt.Errorf("secret name cannot be empty: %w", secrets.ErrInvalidRef)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	versions, ok := p.store[ref.Name]
	if !ok {
		versions = make(map[string][]byte)
		p.store[ref.Name] = versions
	}
	version := ref.Version
	if version == "" {
		version = latestVersion
	}
	versions[version] = append([]byte(nil), value...)
	return nil
}

// Resolve returns a copy of the stored value.
func (p *Provider) Resolve(ctx context.Context, ref secrets.SecretRef) (*secrets.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve operation cancelled: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	versions, ok := p.store[ref.Name]
	if !ok {
		return nil, fmt.Errorf("secret %q: %w", ref.Name, secrets.ErrSecretNotFound)
	}
	version := ref.Version
	if version == "" {
		version = latestVersion
	}
	value, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("secret %s@%s: %w", ref.Name, version, secrets.ErrSecretNotFound)
	}

	return &secrets.Secret{Value: append([]byte(nil), value...), Version: version}, nil
}

// Close clears every stored secret.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, versions := range p.store {
		for _, v := range versions {
			clear(v)
		}
		delete(p.store, name)
	}
	return nil
}
