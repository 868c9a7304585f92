package version

import (
	"regexp"

	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

var placeholder = regexp.MustCompile(`\$VERSION\b`)

// ExpandRemotePath substitutes every word-delimited $VERSION in template and
// normalizes the result. The version is inserted literally.
func ExpandRemotePath(template, version string) string {
	return domain.CleanPath(placeholder.ReplaceAllLiteralString(template, version))
}
