package resource

import (
	"bufio"
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs"
	"github.com/rabbitmq/concourse-bintray-resources/secrets"
)

// SecretResolver resolves secret references to their string value.
type SecretResolver interface {
	ResolveString(ctx context.Context, ref secrets.SecretRef) (string, error)
}

var _ SecretResolver = (*secrets.Manager)(nil)

// Resolver turns the request unions into plain values. File references are
// read from the filesystem relative to the working directory.
type Resolver struct {
	fs      fs.Filesystem
	workDir string
	secrets SecretResolver
}

// NewResolver creates a Resolver. workDir must be absolute; secretResolver may
// be nil when no request can reference a secret.
func NewResolver(filesystem fs.Filesystem, workDir string, secretResolver SecretResolver) *Resolver {
	return &Resolver{
		fs:      filesystem,
		workDir: path.Clean("/" + workDir),
		secrets: secretResolver,
	}
}

// WorkDir returns the absolute working directory.
func (r *Resolver) WorkDir() string {
	return r.workDir
}

// Path returns p as an absolute path, resolving relative paths against the
// working directory.
func (r *Resolver) Path(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(r.workDir, p)
}

// Sub returns a Resolver whose working directory is dir, resolved against
// the current one. Secrets are shared.
func (r *Resolver) Sub(dir string) *Resolver {
	return &Resolver{fs: r.fs, workDir: r.Path(dir), secrets: r.secrets}
}

// String returns the value of v. A nil v yields the empty string. File
// content is trimmed.
func (r *Resolver) String(v *StringOrFile) (string, error) {
	if v == nil {
		return "", nil
	}
	if v.FromFile == "" {
		return v.Value, nil
	}
	data, err := r.read(v.FromFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// List returns the entries of v. A nil v yields nil. Files hold one entry per
// line; lines are trimmed and blank ones skipped.
func (r *Resolver) List(v *StringListOrFile) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	if v.FromFile == "" {
		return v.Values, nil
	}
	data, err := r.read(v.FromFile)
	if err != nil {
		return nil, err
	}

	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.CodeFilesystem, "%s", v.FromFile)
	}
	return entries, nil
}

// Credential returns the value of c. A nil c yields the empty string.
func (r *Resolver) Credential(ctx context.Context, c *Credential) (string, error) {
	switch {
	case c == nil:
		return "", nil
	case c.FromSecret != nil:
		if r.secrets == nil {
			return "", errors.Newf(errors.CodeInvalidConfig, "secret %q referenced but no secret provider is configured", c.FromSecret.Name)
		}
		value, err := r.secrets.ResolveString(ctx, *c.FromSecret)
		if err != nil {
			return "", err
		}
		return value, nil
	case c.FromFile != "":
		data, err := r.read(c.FromFile)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return c.Value, nil
	}
}

func (r *Resolver) read(name string) ([]byte, error) {
	data, err := r.fs.ReadFile(r.Path(name))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeFilesystem, "%s", name)
	}
	return data, nil
}
