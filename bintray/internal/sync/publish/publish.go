// Package publish drives the two-phase publish-visibility protocol.
//
// Phase A publishes the version and polls until the server reports no
// unpublished files. Phase B marks each uploaded file visible in the package
// download list; a not found answer means the file has not reached the package
// yet and is retried after a fixed interval. Any other failure is fatal.
//
// Neither loop is bounded. Callers needing a ceiling cancel the context.
package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/api"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// waitForMaximum asks the server to wait as long as it allows before answering.
const waitForMaximum = -1

// Coordinator runs the publish and visibility phases.
type Coordinator struct {
	api             api.API
	sleeper         bintraytypes.Sleeper
	interval        time.Duration
	visibilityDelay time.Duration
	logger          *slog.Logger
}

// NewCoordinator creates a coordinator. interval separates publish polls and
// visibility retries; visibilityDelay is waited once before the first
// visibility attempt. A nil logger disables logging.
func NewCoordinator(
	client api.API,
	sleeper bintraytypes.Sleeper,
	interval, visibilityDelay time.Duration,
	logger *slog.Logger,
) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		api:             client,
		sleeper:         sleeper,
		interval:        interval,
		visibilityDelay: visibilityDelay,
		logger:          logger,
	}
}

// Publish publishes the content of the version addressed by coords and polls
// until no file remains unpublished. It returns the number of publish calls.
func (c *Coordinator) Publish(ctx context.Context, coords domain.Coordinates) (int, error) {
	wait := waitForMaximum
	calls := 0

	c.logger.Info("marking version as published", "version", coords.String())
	for {
		if err := ctx.Err(); err != nil {
			return calls, err
		}

		remaining, err := c.api.PublishContent(ctx, coords, &api.PublishInput{WaitForSeconds: &wait})
		calls++
		if err != nil {
			return calls, fmt.Errorf("failed to publish %s: %w", coords, err)
		}
		if remaining <= 0 {
			return calls, nil
		}

		c.logger.Info("files still unpublished", "remaining", remaining, "retry_in", c.interval)
		if err := c.sleeper.Sleep(ctx, c.interval); err != nil {
			return calls, err
		}
	}
}

// VisibilityResult contains the outcome of the visibility phase.
type VisibilityResult struct {
	// Visible lists the paths marked visible, in order
	Visible []string

	// Attempts is the total number of visibility calls
	Attempts int

	// Warnings collects the warnings returned by the API
	Warnings []string
}

// ShowInDownloadList marks every path visible in the download list, in order.
// The first non not-found failure aborts the phase; remaining paths are abandoned.
func (c *Coordinator) ShowInDownloadList(
	ctx context.Context,
	coords domain.Coordinates,
	paths []string,
) (*VisibilityResult, error) {
	result := &VisibilityResult{}
	if len(paths) == 0 {
		return result, nil
	}

	c.logger.Info("showing files in download list", "files", len(paths), "initial_delay", c.visibilityDelay)
	if err := c.sleeper.Sleep(ctx, c.visibilityDelay); err != nil {
		return result, err
	}

	for _, p := range paths {
		for {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			warning, err := c.api.ShowInDownloadList(ctx, coords, p, true)
			result.Attempts++
			if err == nil {
				if warning != "" {
					c.logger.Warn(warning, "remote", p)
					result.Warnings = append(result.Warnings, warning)
				}
				result.Visible = append(result.Visible, p)
				break
			}
			if !bterrors.IsNotFound(err) {
				return result, fmt.Errorf("failed to show %s in download list: %w", p, err)
			}

			c.logger.Debug("file not yet known at package level", "remote", p, "retry_in", c.interval)
			if err := c.sleeper.Sleep(ctx, c.interval); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}
