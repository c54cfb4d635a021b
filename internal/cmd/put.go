package cmd

import (
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duotier/duostore/internal/observability"
	"github.com/duotier/duostore/pkg/store"
)

var putCmd = &cobra.Command{
	Use:   "put <file> <path>",
	Short: "Upload a file to a logical path",
	Long: `Upload a local file to the blob at a logical path.

Paths under the public prefix land in the public container and become
world-readable.

Examples:
  duostore put q3.pdf docs/reports/q3.pdf
  duostore put logo.png public/assets/logo.png`,
	Args: cobra.ExactArgs(2),
	RunE: runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	source, path := args[0], args[1]

	f, err := os.Open(source)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Cannot open source file", err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Cannot stat source file", err)
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Put(ctx, path, f, st.Size()); err != nil {
		observability.CLILogger.Error("Upload failed", zap.String("path", path), zap.Error(err))
		if store.IsBadArgument(err) {
			return exitError(foundry.ExitInvalidArgument, "Upload failed", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Upload failed", err)
	}

	observability.CLILogger.Info("Uploaded blob",
		zap.String("source", source),
		zap.String("path", path),
		zap.Int64("size", st.Size()))
	return nil
}
