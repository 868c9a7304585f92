package cli

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
)

// EnvPrefix prefixes the environment variables that override flags,
// e.g. BINTRAY_API_URL for --api-url.
const EnvPrefix = "BINTRAY"

const (
	flagScript          = "script"
	flagAPIURL          = "api-url"
	flagPublishInterval = "publish-interval"
	flagVisibilityDelay = "visibility-delay"
	flagHTTPRetries     = "http-retries"
	flagLogLevel        = "log-level"
)

// Config is the process configuration of a resource binary.
type Config struct {
	// Script to run; empty means the executable name decides
	Script string

	// APIURL is the Bintray REST endpoint
	APIURL string

	// PublishInterval is the pause between publish calls
	PublishInterval time.Duration

	// VisibilityDelay is the wait before showing files in the download list
	VisibilityDelay time.Duration

	// HTTPRetries is the number of retries of failed API calls
	HTTPRetries int

	// LogLevel is one of debug, info, warn, error
	LogLevel string
}

func registerFlags(flags *pflag.FlagSet) {
	flags.StringP(flagScript, "s", "", "script to run: check, in or out (default: executable name)")
	flags.String(flagAPIURL, bintraytypes.DefaultBaseURL, "Bintray API endpoint")
	flags.Duration(flagPublishInterval, 10*time.Second, "pause between publish calls")
	flags.Duration(flagVisibilityDelay, 10*time.Second, "wait before showing files in the download list")
	flags.Int(flagHTTPRetries, 3, "retries of failed API calls")
	flags.String(flagLogLevel, "info", "log level: debug, info, warn or error")
}

// loadConfig merges flags with BINTRAY_* environment variables. Flags set on
// the command line win.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to bind flags")
	}

	cfg := &Config{
		Script:          v.GetString(flagScript),
		APIURL:          v.GetString(flagAPIURL),
		PublishInterval: v.GetDuration(flagPublishInterval),
		VisibilityDelay: v.GetDuration(flagVisibilityDelay),
		HTTPRetries:     v.GetInt(flagHTTPRetries),
		LogLevel:        v.GetString(flagLogLevel),
	}
	if cfg.HTTPRetries < 0 {
		return nil, errors.Newf(errors.CodeInvalidConfig, "--%s must not be negative", flagHTTPRetries)
	}
	return cfg, nil
}
