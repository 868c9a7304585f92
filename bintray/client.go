// Package bintray provides client initialization and configuration.
//
// The Client wraps the Bintray REST API with the operations needed to manage
// repositories, packages and versions, and runs the reconciliation-and-publish
// engine that mirrors a local directory into a package version.
package bintray

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/api"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/rest"
	"github.com/rabbitmq/concourse-bintray-resources/fs"
	"github.com/rabbitmq/concourse-bintray-resources/fs/billy"
)

const (
	defaultMaxRetries      = 3
	defaultPublishInterval = 10 * time.Second
	defaultVisibilityDelay = 10 * time.Second
)

// Client is a Bintray client. It is safe for sequential use by a single
// resource invocation.
type Client struct {
	api             api.API
	fs              fs.Filesystem
	logger          *slog.Logger
	sleeper         bintraytypes.Sleeper
	publishInterval time.Duration
	visibilityDelay time.Duration
}

// New creates a new Bintray client with the provided options.
//
// Example:
//
//	client, err := bintray.New(
//	    bintray.WithCredentials("user", apiKey),
//	    bintray.WithLogger(logger),
//	)
func New(opts ...bintraytypes.Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	restClient, err := rest.New(rest.Config{
		BaseURL:      cfg.BaseURL,
		Username:     cfg.Username,
		APIKey:       cfg.APIKey,
		HTTPClient:   cfg.HTTPClient,
		MaxRetries:   cfg.MaxRetries,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		Timeout:      cfg.Timeout,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return newWithAPI(restClient, cfg), nil
}

func defaultConfig() *bintraytypes.ClientConfig {
	return &bintraytypes.ClientConfig{
		BaseURL:         bintraytypes.DefaultBaseURL,
		MaxRetries:      defaultMaxRetries,
		PublishInterval: defaultPublishInterval,
		VisibilityDelay: defaultVisibilityDelay,
	}
}

// newWithAPI assembles a client around an API implementation.
func newWithAPI(a api.API, cfg *bintraytypes.ClientConfig) *Client {
	c := &Client{
		api:             a,
		fs:              cfg.Filesystem,
		logger:          cfg.Logger,
		sleeper:         cfg.Sleeper,
		publishInterval: cfg.PublishInterval,
		visibilityDelay: cfg.VisibilityDelay,
	}
	if c.fs == nil {
		c.fs = billy.NewOSFS("/")
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.sleeper == nil {
		c.sleeper = bintraytypes.SleeperFunc(sleep)
	}
	return c
}

// Filesystem returns the filesystem local paths are resolved against.
func (c *Client) Filesystem() fs.Filesystem {
	return c.fs
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// warn logs a non-fatal message returned by the API and passes it through.
func (c *Client) warn(warning, op string) string {
	if warning != "" {
		c.logger.Warn(warning, "op", op)
	}
	return warning
}
