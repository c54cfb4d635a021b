// Package match filters logical paths with glob patterns.
//
// Filtering happens client-side, after listing: the backend has no pattern
// support, so patterns never reduce the number of backend calls.
package match

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter applies include/exclude glob patterns to logical paths.
//
// A path matches when it matches at least one include pattern (no includes
// means everything is included) and no exclude pattern. Patterns use
// doublestar syntax: "**" crosses path separators.
type Filter struct {
	includes []string
	excludes []string
}

// New creates a filter, validating every pattern up front.
func New(includes, excludes []string) (*Filter, error) {
	for _, p := range append(append([]string{}, includes...), excludes...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}
	return &Filter{includes: includes, excludes: excludes}, nil
}

// Match reports whether the path passes the filter.
func (f *Filter) Match(path string) bool {
	if len(f.includes) > 0 {
		included := false
		for _, p := range f.includes {
			if ok, _ := doublestar.Match(p, path); ok {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}
	for _, p := range f.excludes {
		if ok, _ := doublestar.Match(p, path); ok {
			return false
		}
	}
	return true
}

// Empty reports whether the filter has no patterns and passes everything.
func (f *Filter) Empty() bool {
	return len(f.includes) == 0 && len(f.excludes) == 0
}
