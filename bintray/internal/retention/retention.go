// Package retention decides which versions of a package survive pruning.
package retention

import (
	"regexp"
	"slices"
	"strings"
)

// Decision is the outcome of a pruning pass.
type Decision struct {
	// Keep lists retained versions, newest name first
	Keep []string

	// Delete lists versions to remove, newest name first
	Delete []string
}

// Prune sorts versions by name, descending, and walks them once. Versions
// matching re are kept while fewer than keepLastN matching versions have been
// kept; later matches are deleted. Versions not matching re are always kept
// and do not count against keepLastN. A nil re matches every version.
//
// Ordering is a plain string comparison, so "v10" sorts before "v9".
func Prune(versions []string, re *regexp.Regexp, keepLastN int) Decision {
	sorted := slices.Clone(versions)
	slices.SortFunc(sorted, func(a, b string) int { return strings.Compare(b, a) })

	var d Decision
	remaining := keepLastN
	for _, v := range sorted {
		if re != nil && !re.MatchString(v) {
			d.Keep = append(d.Keep, v)
			continue
		}
		if remaining > 0 {
			remaining--
			d.Keep = append(d.Keep, v)
			continue
		}
		d.Delete = append(d.Delete, v)
	}
	return d
}
