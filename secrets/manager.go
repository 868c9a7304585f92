package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Provider resolves secrets from a backend.
type Provider interface {
	// Name returns the provider's identifier (e.g., "aws", "memory").
	Name() string

	// Resolve retrieves a single secret by reference.
	Resolve(ctx context.Context, ref SecretRef) (*Secret, error)

	// Close releases resources held by the provider.
	Close() error
}

// Factory builds a provider on first use.
type Factory func(ctx context.Context) (Provider, error)

// Config holds the configuration for the Manager.
type Config struct {
	// DefaultProvider is the provider used by Resolve and ResolveString.
	DefaultProvider string

	// Logger receives resolution events. Secret values are never logged.
	Logger *slog.Logger
}

// Manager routes secret references to registered providers.
type Manager struct {
	providers       map[string]Provider
	factories       map[string]Factory
	defaultProvider string
	logger          *slog.Logger
	mu              sync.Mutex
}

// NewManager creates a Manager. A nil config is valid.
func NewManager(config *Config) *Manager {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		providers:       make(map[string]Provider),
		factories:       make(map[string]Factory),
		defaultProvider: config.DefaultProvider,
		logger:          logger,
	}
}

// RegisterProvider adds a ready provider under name.
func (m *Manager) RegisterProvider(name string, provider Provider) error {
	if name == "" {
		return errors.New("provider name cannot be empty")
	}
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered(name) {
		return fmt.Errorf("provider with name %q already registered", name)
	}
	m.providers[name] = provider
	return nil
}

// RegisterFactory registers a provider built lazily the first time it is needed.
func (m *Manager) RegisterFactory(name string, factory Factory) error {
	if name == "" {
		return errors.New("provider name cannot be empty")
	}
	if factory == nil {
		return errors.New("factory cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered(name) {
		return fmt.Errorf("provider with name %q already registered", name)
	}
	m.factories[name] = factory
	return nil
}

func (m *Manager) registered(name string) bool {
	_, ok := m.providers[name]
	_, lazy := m.factories[name]
	return ok || lazy
}

// Resolve resolves a secret using the default provider.
func (m *Manager) Resolve(ctx context.Context, ref SecretRef) (*Secret, error) {
	return m.ResolveFrom(ctx, m.defaultProvider, ref)
}

// ResolveFrom resolves a secret using a specific provider.
func (m *Manager) ResolveFrom(ctx context.Context, providerName string, ref SecretRef) (*Secret, error) {
	if ref.Name == "" {
		return nil, fmt.Errorf("secret name cannot be empty: %w", ErrInvalidRef)
	}

	provider, err := m.provider(ctx, providerName)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("resolving secret", "provider", providerName, "name", ref.Name, "key", ref.Key)
	secret, err := provider.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve secret: %w", NewProviderError(providerName, ref, err))
	}
	return secret, nil
}

// ResolveString resolves ref with the default provider and returns its value.
// When ref.Key is set the secret must hold a JSON object and the key's string
// value is returned.
func (m *Manager) ResolveString(ctx context.Context, ref SecretRef) (string, error) {
	secret, err := m.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	defer secret.Clear()

	if ref.Key == "" {
		return secret.String(), nil
	}
	value, err := secret.Field(ref.Key)
	if err != nil {
		return "", NewProviderError(m.defaultProvider, ref, err)
	}
	return value, nil
}

// provider returns the named provider, building it from its factory when needed.
func (m *Manager) provider(ctx context.Context, name string) (Provider, error) {
	if name == "" {
		return nil, errors.New("no default provider configured")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	factory, ok := m.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}

	m.logger.Debug("initializing secret provider", "provider", name)
	p, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %q: %w", name, err)
	}
	delete(m.factories, name)
	m.providers[name] = p
	return p, nil
}

// Close closes every initialized provider and aggregates the errors.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, provider := range m.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", name, err))
		}
	}
	m.providers = make(map[string]Provider)
	m.factories = make(map[string]Factory)
	return errors.Join(errs...)
}
