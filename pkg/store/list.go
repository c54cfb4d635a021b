package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/duotier/duostore/pkg/backend"
)

// List resolves a logical path to the blob names under it.
//
// A path with a dotted basename is probed as an exact blob: a hit returns
// the input path as a one-element slice, a miss returns an empty slice -
// "no such file" and "empty directory" are indistinguishable by design.
// Every other path is treated as a listing prefix. The root ("", "/") lists
// both tiers, private names first and public names after, each with the
// public prefix re-attached so every returned name is addressable through
// List again. Within a tier, names keep backend page-arrival order; no
// re-sorting happens.
func (s *Store) List(ctx context.Context, path string) ([]string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	r := s.classify(path)
	if r.looksLikeFile {
		return s.probeFile(ctx, r, path)
	}

	switch r.tier {
	case tierPrivate:
		return s.listAll(ctx, s.private, r.prefix, nil)
	case tierPublic:
		return s.listAll(ctx, s.public, r.prefix, s.attachPublicPrefix)
	default:
		names, err := s.listAll(ctx, s.private, "", nil)
		if err != nil {
			return nil, err
		}
		pub, err := s.listAll(ctx, s.public, "", s.attachPublicPrefix)
		if err != nil {
			return nil, err
		}
		return append(names, pub...), nil
	}
}

// probeFile checks for an exact blob and echoes the original input path on a
// hit. Not-found is an empty result, not an error.
func (s *Store) probeFile(ctx context.Context, r route, original string) ([]string, error) {
	c := s.containerFor(r.tier)
	err := c.Probe(ctx, r.prefix)
	if err == nil {
		return []string{original}, nil
	}
	if backend.IsNotFound(err) {
		return []string{}, nil
	}
	return nil, translate(err)
}

// listAll drains a paginated prefix listing from one container.
//
// Pages are fetched strictly sequentially; the continuation marker from page
// N gates the request for page N+1, and an empty marker ends the loop. The
// optional rewrite is applied to every returned name.
func (s *Store) listAll(ctx context.Context, c backend.Container, prefix string, rewrite func(string) string) ([]string, error) {
	names := []string{}
	var marker string
	pages := 0

	for {
		if err := s.waitForRateLimit(ctx); err != nil {
			return nil, translate(err)
		}

		page, err := c.ListPage(ctx, prefix, marker)
		if err != nil {
			return nil, translate(err)
		}
		pages++

		for _, name := range page.Names {
			if rewrite != nil {
				name = rewrite(name)
			}
			names = append(names, name)
		}

		if page.NextMarker == "" {
			break
		}
		marker = page.NextMarker
	}

	s.logger.Debug("listing drained",
		zap.String("prefix", prefix),
		zap.Int("pages", pages),
		zap.Int("names", len(names)))

	return names, nil
}

// attachPublicPrefix makes a public container name globally addressable.
func (s *Store) attachPublicPrefix(name string) string {
	return s.publicPrefix + name
}

// containerFor resolves a single-tier route to its container.
// tierBoth callers fan out explicitly and never land here.
func (s *Store) containerFor(t tier) backend.Container {
	if t == tierPublic {
		return s.public
	}
	return s.private
}
