package bintray

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/retention"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// PruneVersions deletes old versions of the package addressed by coords.
//
// Versions are ordered by name, descending. The first keepLastN versions
// matching re are kept and every later match is deleted; versions not
// matching re are left alone. A nil re matches every version. Deletion stops
// at the first failure.
func (c *Client) PruneVersions(
	ctx context.Context,
	coords domain.Coordinates,
	re *regexp.Regexp,
	keepLastN int,
) (*bintraytypes.PruneResult, error) {
	pkg, err := c.GetPackage(ctx, coords)
	if err != nil {
		return nil, err
	}

	decision := retention.Prune(pkg.Versions, re, keepLastN)
	result := &bintraytypes.PruneResult{Kept: decision.Keep}
	for _, v := range decision.Keep {
		c.logger.Info("keeping version", "version", v)
	}

	for _, v := range decision.Delete {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		c.logger.Info("deleting version", "version", v)
		w, err := c.api.DeleteVersion(ctx, coords.WithVersion(v))
		if err != nil {
			return result, fmt.Errorf("failed to delete version %s: %w", v, err)
		}
		result.Deleted = append(result.Deleted, v)
		if c.warn(w, "delete version") != "" {
			result.Warnings = append(result.Warnings, w)
		}
	}
	return result, nil
}
