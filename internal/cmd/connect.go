package cmd

import (
	"context"

	"github.com/fulmenhq/gofulmen/foundry"
	"go.uber.org/zap"

	"github.com/duotier/duostore"
	"github.com/duotier/duostore/internal/observability"
	"github.com/duotier/duostore/pkg/store"
)

// openStore resolves credentials and connects the configured backend.
func openStore(ctx context.Context) (*store.Store, error) {
	creds, err := cfg.ResolveCredentials(ctx)
	if err != nil {
		observability.CLILogger.Error("Failed to resolve credentials", zap.Error(err))
		return nil, exitError(foundry.ExitInvalidArgument, "Failed to resolve credentials", err)
	}

	s, err := duostore.Connect(ctx, duostore.Config{
		Backend:       backendKind(),
		Credentials:   creds,
		PublicPrefix:  cfg.PublicPrefix,
		PageRateLimit: cfg.PageRateLimit,
		Logger:        observability.CLILogger,
	})
	if err != nil {
		observability.CLILogger.Error("Failed to open store", zap.Error(err))
		if store.IsBadArgument(err) {
			return nil, exitError(foundry.ExitInvalidArgument, "Failed to open store", err)
		}
		return nil, exitError(foundry.ExitExternalServiceUnavailable, "Failed to open store", err)
	}
	return s, nil
}
