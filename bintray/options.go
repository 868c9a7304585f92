package bintray

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/fs"
)

// WithBaseURL sets the REST API endpoint. Default is https://api.bintray.com.
func WithBaseURL(baseURL string) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
	}
}

// WithCredentials sets the user name and API key used for basic authentication.
func WithCredentials(username, apiKey string) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		c.Username = username
		c.APIKey = apiKey
	}
}

// WithHTTPClient allows providing a custom HTTP client.
func WithHTTPClient(client *http.Client) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithRetries sets how often a request failing with a connection error or a
// 5xx status is retried. Default is 3. Set to 0 to disable retries.
func WithRetries(maxRetries int) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		if maxRetries >= 0 {
			c.MaxRetries = maxRetries
		}
	}
}

// WithRetryWait bounds the backoff between HTTP retries.
func WithRetryWait(minWait, maxWait time.Duration) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		c.RetryWaitMin = minWait
		c.RetryWaitMax = maxWait
	}
}

// WithTimeout sets the timeout of individual HTTP requests. Default is none.
func WithTimeout(timeout time.Duration) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithSleeper replaces the sleeper used between publish polls and visibility retries.
func WithSleeper(sleeper bintraytypes.Sleeper) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		c.Sleeper = sleeper
	}
}

// WithPublishInterval sets the pause between publish polls and between
// visibility retries. Default is 10 seconds.
func WithPublishInterval(interval time.Duration) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		if interval >= 0 {
			c.PublishInterval = interval
		}
	}
}

// WithVisibilityDelay sets the pause before the first visibility attempt.
// Default is 10 seconds.
func WithVisibilityDelay(delay time.Duration) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		if delay >= 0 {
			c.VisibilityDelay = delay
		}
	}
}

// WithFilesystem sets the filesystem local paths are resolved against.
// Default is the OS filesystem rooted at /.
func WithFilesystem(filesystem fs.Filesystem) bintraytypes.Option {
	return func(c *bintraytypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithRemotePath sets the remote directory files are uploaded to. The path
// may contain $VERSION, which is replaced by the version being published.
func WithRemotePath(remotePath string) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.RemotePath = remotePath
	}
}

// WithKeepExistingFiles keeps remote files that have no local counterpart.
func WithKeepExistingFiles(keep bool) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.KeepExistingFiles = keep
	}
}

// WithOverride replaces remote files that already exist. Default is true.
func WithOverride(override bool) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.Override = override
	}
}

// WithPublish publishes the version after uploading. Default is true.
func WithPublish(publish bool) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.Publish = publish
	}
}

// WithShowInDownloadList lists uploaded files in the package download list
// once published. Default is true.
func WithShowInDownloadList(show bool) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.ShowInDownloadList = show
	}
}

// WithGPGPassphrase signs uploaded files with the given passphrase.
func WithGPGPassphrase(passphrase string) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.GPGPassphrase = passphrase
	}
}

// WithDebianDistributions sets the Debian distributions of uploaded packages.
func WithDebianDistributions(distributions ...string) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.Debian.Distributions = distributions
	}
}

// WithDebianComponents sets the Debian components of uploaded packages.
func WithDebianComponents(components ...string) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.Debian.Components = components
	}
}

// WithDebianArchitectures sets the Debian architectures of uploaded packages.
func WithDebianArchitectures(architectures ...string) bintraytypes.PublishOption {
	return func(c *bintraytypes.PublishOptionConfig) {
		c.Debian.Architectures = architectures
	}
}
