// Package secrets resolves credentials referenced by resource requests.
//
// A request may name a secret instead of embedding an API key or a GPG
// passphrase. The Manager routes such references to a registered Provider;
// providers can be registered eagerly or through a factory that is only
// invoked the first time a reference needs them.
//
// # Basic Usage
//
//	manager := secrets.NewManager(&secrets.Config{DefaultProvider: "aws"})
//	defer manager.Close()
//
//	manager.RegisterFactory("aws", func(ctx context.Context) (secrets.Provider, error) {
//		return aws.New(ctx)
//	})
//
//	value, err := manager.ResolveString(ctx, secrets.SecretRef{Name: "ci/bintray", Key: "api_key"})
//
// # Error Handling
//
//	if errors.Is(err, secrets.ErrSecretNotFound) {
//		// Handle missing secret
//	}
package secrets

import (
	"encoding/json"
	"fmt"
)

// Secret is a resolved secret value.
type Secret struct {
	// Value contains the secret data. It must never be logged.
	Value []byte

	// Version identifies the resolved version, when the provider reports one.
	Version string
}

// SecretRef references a secret without containing its value.
type SecretRef struct {
	// Name identifies the secret in the provider (e.g. "ci/bintray").
	Name string `json:"name"`

	// Key selects a field of a secret holding a JSON object. Empty means the
	// whole value.
	Key string `json:"key,omitempty"`

	// Version selects a specific version. Empty means the current one.
	Version string `json:"version,omitempty"`
}

// String returns the secret value as a string.
func (s *Secret) String() string {
	if s == nil || s.Value == nil {
		return ""
	}
	return string(s.Value)
}

// Field extracts the string field key from a secret holding a JSON object.
func (s *Secret) Field(key string) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal(s.Value, &fields); err != nil {
		return "", fmt.Errorf("secret is not a JSON object: %w", ErrInvalidRef)
	}
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("key %q: %w", key, ErrSecretNotFound)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("key %q does not hold a string: %w", key, ErrInvalidRef)
	}
	return value, nil
}

// Clear zeroes the secret value in memory.
func (s *Secret) Clear() {
	for i := range s.Value {
		s.Value[i] = 0
	}
	s.Value = nil
}
