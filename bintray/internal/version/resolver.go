// Package version determines version identifiers and expands remote path templates.
package version

import (
	"regexp"
	"strings"

	"github.com/rabbitmq/concourse-bintray-resources/errors"
	"github.com/rabbitmq/concourse-bintray-resources/fs"
)

// groupName is the named capture group preferred over the first positional group.
const groupName = "version"

// Source produces a version identifier. Candidates are the discovered local
// file paths, in discovery order; only pattern sources look at them.
type Source interface {
	Resolve(candidates []string) (string, error)
}

var (
	_ Source = Literal("")
	_ Source = File{}
	_ Source = Pattern{}
)

// Literal is a version given verbatim.
type Literal string

// Resolve returns the literal. An empty literal is an error.
func (l Literal) Resolve([]string) (string, error) {
	if l == "" {
		return "", errors.New(errors.CodeVersionUndetermined, "version is empty")
	}
	return string(l), nil
}

// File reads the version from a file; surrounding whitespace is dropped.
type File struct {
	Filesystem fs.Filesystem
	Path       string
}

// Resolve reads and trims the file.
func (f File) Resolve([]string) (string, error) {
	data, err := f.Filesystem.ReadFile(f.Path)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeFilesystem, "failed to read version from %s", f.Path)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", errors.Newf(errors.CodeVersionUndetermined, "version file %s is empty", f.Path)
	}
	return v, nil
}

// Pattern captures the version from the first candidate the expression
// matches. The "version" named group wins over the first positional group;
// a match without either is ignored.
type Pattern struct {
	Regexp *regexp.Regexp
}

// NewPattern compiles expr into a pattern source.
func NewPattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, errors.Wrapf(err, errors.CodeInvalidInput, "invalid version regex %q", expr)
	}
	return Pattern{Regexp: re}, nil
}

// Resolve scans candidates in order and returns the first capture.
func (p Pattern) Resolve(candidates []string) (string, error) {
	named := p.Regexp.SubexpIndex(groupName)
	for _, candidate := range candidates {
		m := p.Regexp.FindStringSubmatchIndex(candidate)
		if m == nil {
			continue
		}
		if v, ok := group(candidate, m, named); ok {
			return v, nil
		}
		if v, ok := group(candidate, m, 1); ok {
			return v, nil
		}
	}
	return "", errors.New(errors.CodeVersionUndetermined, "Failed to determine version from file names")
}

// group returns the text of submatch i when it participated in the match.
func group(s string, m []int, i int) (string, bool) {
	if i <= 0 || 2*i+1 >= len(m) || m[2*i] < 0 {
		return "", false
	}
	return s[m[2*i]:m[2*i+1]], true
}
