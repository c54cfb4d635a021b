// Package duostore is the composition root for the two-tier blob store
// client.
//
// Connect wires resolved credentials to a concrete container backend and
// returns the store handle. The backend selection switch is deliberately a
// stub: s3 is the one active cloud backend, file serves development and
// tests, and the remaining kinds are declared but unimplemented.
package duostore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/duotier/duostore/pkg/backend"
	"github.com/duotier/duostore/pkg/backend/file"
	"github.com/duotier/duostore/pkg/backend/s3"
	"github.com/duotier/duostore/pkg/store"
)

// Config configures a store connection.
type Config struct {
	// Backend selects the container backend. Defaults to s3.
	Backend backend.Kind

	// Credentials are the resolved backend credentials.
	Credentials backend.Credentials

	// PublicPrefix overrides the reserved public path prefix.
	// Empty keeps the store default.
	PublicPrefix string

	// PageRateLimit caps listing page fetches per second. Zero disables.
	PageRateLimit float64

	// Logger is the structured logger. Nil means no logging.
	Logger *zap.Logger
}

// Connect opens a store over the configured backend.
func Connect(ctx context.Context, cfg Config) (*store.Store, error) {
	kind := cfg.Backend
	if kind == "" {
		kind = backend.KindS3
	}

	var dial store.DialFunc
	switch kind {
	case backend.KindS3:
		dial = func(ctx context.Context, creds backend.Credentials) (backend.Container, backend.Container, error) {
			return s3.Open(ctx, creds)
		}
	case backend.KindFile:
		dial = dialFile
	case backend.KindGCS, backend.KindAzure:
		return nil, &store.StorageError{
			Code:    store.CodeBadArgument,
			Message: fmt.Sprintf("backend kind %q is not implemented yet", kind),
		}
	default:
		return nil, &store.StorageError{
			Code:    store.CodeBadArgument,
			Message: fmt.Sprintf("unknown backend kind %q", kind),
		}
	}

	var opts []store.Option
	if cfg.PublicPrefix != "" {
		opts = append(opts, store.WithPublicPrefix(cfg.PublicPrefix))
	}
	if cfg.PageRateLimit > 0 {
		opts = append(opts, store.WithPageRateLimit(cfg.PageRateLimit))
	}
	if cfg.Logger != nil {
		opts = append(opts, store.WithLogger(cfg.Logger))
	}

	return store.Open(ctx, cfg.Credentials, dial, opts...)
}

// dialFile maps account credentials onto a local directory pair, mirroring
// the bucket naming of the s3 backend. Delegated credentials have no file
// equivalent.
func dialFile(ctx context.Context, creds backend.Credentials) (backend.Container, backend.Container, error) {
	_ = ctx
	if creds.Account == nil {
		return nil, nil, &backend.CredentialError{Field: "Account", Reason: backend.ReasonMissingRequired}
	}
	private, err := file.New(file.Config{Dir: creds.Account.ContainerPrefix + "-private"})
	if err != nil {
		return nil, nil, err
	}
	public, err := file.New(file.Config{Dir: creds.Account.ContainerPrefix + "-public"})
	if err != nil {
		return nil, nil, err
	}
	return private, public, nil
}
