package store

import (
	gopath "path"
	"strings"
)

// tier selects which container(s) a path addresses.
type tier int

const (
	tierPrivate tier = iota
	tierPublic
	tierBoth
)

// route is the classifier's verdict for one input path.
type route struct {
	// tier is the container selection.
	tier tier

	// prefix is the backend-facing key or listing prefix: the public
	// prefix is already stripped for public routes.
	prefix string

	// looksLikeFile is a dispatch hint for the listing engine: the
	// basename carries an extension-style dot. It is not a final
	// classification - a dotted path that probes to nothing yields an
	// empty listing, never a directory fallback.
	looksLikeFile bool
}

// classify maps a logical path onto a container route.
//
// "", "/" and a bare leading slash all normalize to the root, which fans out
// to both tiers. The public prefix match is segment-exact: "public/x" routes
// public, "publicx" routes private.
func (s *Store) classify(path string) route {
	p := strings.TrimPrefix(path, "/")
	if p == "" {
		return route{tier: tierBoth}
	}
	if strings.HasPrefix(p, s.publicPrefix) {
		return route{
			tier:          tierPublic,
			prefix:        strings.TrimPrefix(p, s.publicPrefix),
			looksLikeFile: looksLikeFile(p),
		}
	}
	return route{tier: tierPrivate, prefix: p, looksLikeFile: looksLikeFile(p)}
}

// looksLikeFile reports whether the final path segment carries a dot, the
// extension heuristic used to pick probe mode over listing mode.
func looksLikeFile(p string) bool {
	return strings.Contains(gopath.Base(p), ".")
}
