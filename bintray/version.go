package bintray

import (
	"github.com/rabbitmq/concourse-bintray-resources/bintray/bintraytypes"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/version"
)

// VersionSource produces the version identifier of a publish run.
type VersionSource = version.Source

// LiteralVersion returns a source yielding v unchanged.
func LiteralVersion(v string) VersionSource {
	return version.Literal(v)
}

// VersionFromFile returns a source reading the trimmed content of the file at
// p from the client filesystem.
func (c *Client) VersionFromFile(p string) VersionSource {
	return version.File{Filesystem: c.fs, Path: p}
}

// VersionPattern returns a source capturing the version from the first
// discovered file path expr matches. A group named "version" is preferred
// over the first group.
func VersionPattern(expr string) (VersionSource, error) {
	return version.NewPattern(expr)
}

// ResolveVersion determines the version of a publish run from source. Pattern
// sources look at the discovered paths, in discovery order.
func ResolveVersion(source VersionSource, discovery *bintraytypes.Discovery) (string, error) {
	var candidates []string
	if discovery != nil {
		candidates = discovery.Paths()
	}
	return source.Resolve(candidates)
}

// ExpandRemotePath replaces every word-delimited $VERSION in template with v
// and normalizes the result to a relative path without dot segments.
func ExpandRemotePath(template, v string) string {
	return version.ExpandRemotePath(template, v)
}
