// Package cli runs a Concourse resource as a command line program.
//
// A resource binary reads the request from stdin, writes the JSON response
// to stdout and logs to stderr. The script is chosen with --script or, when
// the binary is installed as /opt/resource/check (in, out), by the name of
// the executable.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rabbitmq/concourse-bintray-resources/bintray"
	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs"
	"github.com/rabbitmq/concourse-bintray-resources/fs/billy"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
	"github.com/rabbitmq/concourse-bintray-resources/secrets"
	"github.com/rabbitmq/concourse-bintray-resources/secrets/providers/aws"
)

// Connector creates a Bintray client for the given credentials.
type Connector func(username, apiKey string) (*bintray.Client, error)

// Builder returns the script handlers of a resource.
type Builder func(connect Connector) resource.Handlers

type options struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	executable string
	filesystem fs.Filesystem
	secrets    *secrets.Manager
}

// Option configures the command.
type Option func(*options)

// WithIO replaces the standard streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdin, o.stdout, o.stderr = stdin, stdout, stderr
	}
}

// WithExecutable sets the executable path used when --script is not given.
func WithExecutable(path string) Option {
	return func(o *options) {
		o.executable = path
	}
}

// WithFilesystem sets the filesystem used for file references and local
// files. Paths on it are absolute.
func WithFilesystem(filesystem fs.Filesystem) Option {
	return func(o *options) {
		o.filesystem = filesystem
	}
}

// WithSecrets sets the secrets manager resolving from_secret credentials.
func WithSecrets(manager *secrets.Manager) Option {
	return func(o *options) {
		o.secrets = manager
	}
}

// NewCommand creates the root command of the resource binary name.
func NewCommand(name string, build Builder, opts ...Option) *cobra.Command {
	o := &options{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		executable: os.Args[0],
	}
	for _, opt := range opts {
		opt(o)
	}

	cmd := &cobra.Command{
		Use:   name + " [--script check|in|out] [DIR]",
		Short: "Concourse resource " + name,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, args, build, o)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	cmd.SetIn(o.stdin)
	cmd.SetOut(o.stdout)
	cmd.SetErr(o.stderr)
	registerFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, args []string, build Builder, o *options) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return usageError{err}
	}
	script, err := scriptOf(cfg.Script, o.executable)
	if err != nil {
		return usageError{err}
	}
	workDir, err := workDirOf(args)
	if err != nil {
		return err
	}
	logger, err := newLogger(o.stderr, cfg.LogLevel)
	if err != nil {
		return usageError{err}
	}

	filesystem := o.filesystem
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}
	manager := o.secrets
	if manager == nil {
		manager = secrets.NewManager(&secrets.Config{DefaultProvider: aws.ProviderName, Logger: logger})
		if err := manager.RegisterFactory(aws.ProviderName, func(ctx context.Context) (secrets.Provider, error) {
			return aws.New(ctx)
		}); err != nil {
			return err
		}
	}
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Warn("failed to close secrets manager", "error", err)
		}
	}()

	input, err := io.ReadAll(o.stdin)
	if err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, "failed to read request from stdin")
	}
	logger.Debug("request", "script", script, "dir", workDir, "input", resource.RedactedInput(input))

	connect := func(username, apiKey string) (*bintray.Client, error) {
		return bintray.New(
			bintray.WithBaseURL(cfg.APIURL),
			bintray.WithCredentials(username, apiKey),
			bintray.WithRetries(cfg.HTTPRetries),
			bintray.WithPublishInterval(cfg.PublishInterval),
			bintray.WithVisibilityDelay(cfg.VisibilityDelay),
			bintray.WithFilesystem(filesystem),
			bintray.WithLogger(logger),
		)
	}
	handler, ok := build(connect)[script]
	if !ok {
		return usageError{errors.Newf(errors.CodeInvalidInput, "script %q is not supported", script)}
	}

	env := &resource.Env{
		Resolver: resource.NewResolver(filesystem, workDir, manager),
		Logger:   logger,
	}
	result, err := handler(ctx, env, input)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(o.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write response")
	}
	return nil
}

// scriptOf returns the script named by flag, or the base name of the
// executable without extension.
func scriptOf(flag, executable string) (resource.Script, error) {
	name := flag
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(executable), filepath.Ext(executable))
	}
	script := resource.Script(name)
	if slices.Contains(resource.Scripts, script) {
		return script, nil
	}
	return "", errors.Newf(errors.CodeInvalidInput,
		"unknown script %q: pass --script check|in|out or install the binary as check, in or out", name)
}

// workDirOf returns the absolute working directory: the positional argument
// or the current directory.
func workDirOf(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := fs.GetAbs(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeFilesystem, "failed to resolve directory %s", dir)
	}
	return abs, nil
}
