package bintray

import (
	"context"

	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// GetRepository fetches the repository addressed by coords.
func (c *Client) GetRepository(ctx context.Context, coords domain.Coordinates) (*domain.Repository, error) {
	if err := requireFields(coords, repositoryLevel); err != nil {
		return nil, err
	}
	return c.api.GetRepository(ctx, coords)
}

// CreateRepository creates the repository addressed by coords. The returned
// string is the warning sent by the API, if any.
func (c *Client) CreateRepository(ctx context.Context, coords domain.Coordinates, repo *domain.Repository) (string, error) {
	if err := requireFields(coords, repositoryLevel); err != nil {
		return "", err
	}
	w, err := c.api.CreateRepository(ctx, coords, repo)
	return c.warn(w, "create repository"), err
}

// UpdateRepository updates the mutable attributes of a repository.
func (c *Client) UpdateRepository(ctx context.Context, coords domain.Coordinates, repo *domain.Repository) (string, error) {
	if err := requireFields(coords, repositoryLevel); err != nil {
		return "", err
	}
	w, err := c.api.UpdateRepository(ctx, coords, repo)
	return c.warn(w, "update repository"), err
}

// GetPackage fetches the package addressed by coords.
func (c *Client) GetPackage(ctx context.Context, coords domain.Coordinates) (*domain.Package, error) {
	if err := requireFields(coords, packageLevel); err != nil {
		return nil, err
	}
	return c.api.GetPackage(ctx, coords)
}

// CreatePackage creates the package addressed by coords.
func (c *Client) CreatePackage(ctx context.Context, coords domain.Coordinates, pkg *domain.Package) (string, error) {
	if err := requireFields(coords, packageLevel); err != nil {
		return "", err
	}
	w, err := c.api.CreatePackage(ctx, coords, pkg)
	return c.warn(w, "create package"), err
}

// UpdatePackage updates the attributes of a package.
func (c *Client) UpdatePackage(ctx context.Context, coords domain.Coordinates, pkg *domain.Package) (string, error) {
	if err := requireFields(coords, packageLevel); err != nil {
		return "", err
	}
	w, err := c.api.UpdatePackage(ctx, coords, pkg)
	return c.warn(w, "update package"), err
}

// DeletePackage deletes a package with all its versions.
func (c *Client) DeletePackage(ctx context.Context, coords domain.Coordinates) (string, error) {
	if err := requireFields(coords, packageLevel); err != nil {
		return "", err
	}
	w, err := c.api.DeletePackage(ctx, coords)
	return c.warn(w, "delete package"), err
}

// GetVersion fetches the version addressed by coords.
func (c *Client) GetVersion(ctx context.Context, coords domain.Coordinates) (*domain.Version, error) {
	if err := requireFields(coords, versionLevel); err != nil {
		return nil, err
	}
	return c.api.GetVersion(ctx, coords)
}

// CreateVersion creates the version addressed by coords.
func (c *Client) CreateVersion(ctx context.Context, coords domain.Coordinates, v *domain.Version) (string, error) {
	if err := requireFields(coords, versionLevel); err != nil {
		return "", err
	}
	w, err := c.api.CreateVersion(ctx, coords, v)
	return c.warn(w, "create version"), err
}

// UpdateVersion updates the attributes of a version.
func (c *Client) UpdateVersion(ctx context.Context, coords domain.Coordinates, v *domain.Version) (string, error) {
	if err := requireFields(coords, versionLevel); err != nil {
		return "", err
	}
	w, err := c.api.UpdateVersion(ctx, coords, v)
	return c.warn(w, "update version"), err
}

// DeleteVersion deletes a version with its files.
func (c *Client) DeleteVersion(ctx context.Context, coords domain.Coordinates) (string, error) {
	if err := requireFields(coords, versionLevel); err != nil {
		return "", err
	}
	w, err := c.api.DeleteVersion(ctx, coords)
	return c.warn(w, "delete version"), err
}

// ListFiles lists the files of a version, published or not.
func (c *Client) ListFiles(ctx context.Context, coords domain.Coordinates) ([]domain.Content, error) {
	if err := requireFields(coords, versionLevel); err != nil {
		return nil, err
	}
	return c.api.ListFiles(ctx, coords)
}

type level int

const (
	repositoryLevel level = iota
	packageLevel
	versionLevel
)

// requireFields checks the coordinates down to the given level are set.
func requireFields(coords domain.Coordinates, l level) error {
	switch {
	case coords.Subject == "":
		return bterrors.NewValidationError("subject cannot be empty")
	case coords.Repository == "":
		return bterrors.NewValidationError("repository cannot be empty")
	case l >= packageLevel && coords.Package == "":
		return bterrors.NewValidationError("package cannot be empty")
	case l >= versionLevel && coords.Version == "":
		return bterrors.NewValidationError("version cannot be empty")
	}
	return nil
}
