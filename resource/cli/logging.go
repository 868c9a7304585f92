package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rabbitmq/concourse-bintray-resources/errors"
)

// newLogger returns a logger writing human readable records to w. Concourse
// shows stderr of resource scripts in the build log.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "invalid log level %q", level)
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	})
	return slog.New(handler), nil
}
