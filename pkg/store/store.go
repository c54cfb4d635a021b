// Package store implements a unified logical path space over a two-tier
// (private/public) blob storage layout.
//
// A Store owns one private and one public container and routes every
// operation through a single path classifier: paths whose first segment is
// the public prefix (default "public/") address the public container with
// the prefix stripped, everything else addresses the private container
// unchanged, and the root fans out to both. The core depends only on the
// backend.Container interface, never on a concrete SDK type.
package store

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/duotier/duostore/pkg/backend"
)

// DefaultPublicPrefix is the reserved first path segment that routes to the
// public container.
const DefaultPublicPrefix = "public/"

// DialFunc builds the private and public container pair for resolved
// credentials. It is the injection seam between the core and a concrete
// backend.
type DialFunc func(ctx context.Context, creds backend.Credentials) (private, public backend.Container, err error)

// Store is the handle over the two-tier layout.
//
// A Store is created once by Open and lives for the lifetime of the storage
// client; it is safe for concurrent use. Close aborts every in-flight and
// future backend call issued through this handle.
type Store struct {
	private backend.Container
	public  backend.Container

	publicPrefix string
	limiter      *rate.Limiter
	logger       *zap.Logger

	// ctx is the shared abort context threaded under every backend call.
	// Read-only after construction; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithPublicPrefix overrides the reserved public path prefix.
// A trailing slash is appended when missing; an empty prefix keeps the
// default, since matching on "" would route every path to the public tier.
func WithPublicPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix == "" {
			return
		}
		if prefix[len(prefix)-1] != '/' {
			prefix += "/"
		}
		s.publicPrefix = prefix
	}
}

// WithPageRateLimit caps listing page fetches at rps requests per second.
// Zero or negative disables the limit.
func WithPageRateLimit(rps float64) Option {
	return func(s *Store) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger for store operations. Defaults to a no-op
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open validates credentials, dials the container pair, and returns the
// store handle.
//
// Validation failures surface as BadArgument before any backend call is
// attempted. With account credentials both containers are ensured
// idempotently (private tier private, public tier public-read); an
// already-provisioned container is success. No rollback is attempted when
// the second creation fails after the first succeeds - creation is
// idempotent, so callers recover by retrying Open. Delegated credentials
// skip creation entirely: the issuer pre-provisions both containers.
func Open(ctx context.Context, creds backend.Credentials, dial DialFunc, opts ...Option) (*Store, error) {
	if err := creds.Validate(); err != nil {
		return nil, translate(err)
	}
	if dial == nil {
		return nil, badArgument("dial function is required")
	}

	private, public, err := dial(ctx, creds)
	if err != nil {
		return nil, translate(err)
	}

	s := &Store{
		private:      private,
		public:       public,
		publicPrefix: DefaultPublicPrefix,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// The abort context outlives the Open call; only Close cancels it.
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if creds.Account != nil {
		if err := s.ensure(ctx, s.private, backend.AccessPrivate); err != nil {
			s.cancel()
			return nil, err
		}
		if err := s.ensure(ctx, s.public, backend.AccessPublicRead); err != nil {
			s.cancel()
			return nil, err
		}
	}

	s.logger.Debug("store opened",
		zap.String("public_prefix", s.publicPrefix),
		zap.Bool("delegated", creds.Delegated != nil))

	return s, nil
}

// ensure creates one container, treating already-exists as success.
func (s *Store) ensure(ctx context.Context, c backend.Container, access backend.AccessLevel) error {
	err := c.Ensure(ctx, access)
	if err == nil || backend.IsAlreadyExists(err) {
		return nil
	}
	return translate(err)
}

// Close aborts in-flight operations and marks the store unusable.
func (s *Store) Close() error {
	s.cancel()
	return nil
}

// opContext joins the caller's context with the store's shared abort
// context, so an operation stops when either is cancelled.
func (s *Store) opContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// waitForRateLimit blocks until the page rate limiter allows a request.
// Returns immediately if rate limiting is disabled.
func (s *Store) waitForRateLimit(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
