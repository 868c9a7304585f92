package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns selects every file below the root.
var DefaultPatterns = []string{"**/*"}

// PatternMatcher matches slash separated relative paths against a set of glob
// patterns. A path matches when any pattern matches it. Patterns support "**"
// for any number of directories.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher validates patterns and returns a matcher for them.
// An empty pattern list selects DefaultPatterns.
func NewPatternMatcher(patterns []string) (*PatternMatcher, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	normalized := make([]string, 0, len(patterns))
	for i, pattern := range patterns {
		p := normalize(pattern)
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: pattern, Index: i, Err: doublestar.ErrBadPattern}
		}
		normalized = append(normalized, p)
	}
	return &PatternMatcher{patterns: normalized}, nil
}

// Match reports whether relPath matches at least one pattern.
func (pm *PatternMatcher) Match(relPath string) bool {
	p := normalize(relPath)
	for _, pattern := range pm.patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// Patterns returns the normalized patterns.
func (pm *PatternMatcher) Patterns() []string {
	return append([]string(nil), pm.patterns...)
}

// normalize converts separators to slashes and drops a leading "./".
func normalize(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

// PatternError represents an invalid glob pattern.
type PatternError struct {
	Pattern string
	Index   int
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern at index %d (%q): %v", e.Index, e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Err
}
