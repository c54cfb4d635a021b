package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duotier/duostore/internal/observability"
	"github.com/duotier/duostore/pkg/store"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a blob",
	Long: `Delete the blob at a logical path. Deleting a missing blob succeeds.

Examples:
  duostore rm docs/reports/q3.pdf
  duostore rm public/assets/logo.png`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Delete(ctx, path); err != nil {
		observability.CLILogger.Error("Delete failed", zap.String("path", path), zap.Error(err))
		if store.IsBadArgument(err) {
			return exitError(foundry.ExitInvalidArgument, "Delete failed", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Delete failed", err)
	}

	observability.CLILogger.Info("Deleted blob", zap.String("path", path))
	return nil
}
