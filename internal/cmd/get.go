package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duotier/duostore/internal/observability"
	"github.com/duotier/duostore/pkg/store"
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Download a blob to stdout or a file",
	Long: `Download the blob at a logical path.

Examples:
  duostore get docs/reports/q3.pdf -o q3.pdf
  duostore get public/assets/logo.png > logo.png`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getOutputPath string

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOutputPath, "out", "o", "", "Destination file (default stdout)")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	body, n, err := s.Get(ctx, path)
	if err != nil {
		observability.CLILogger.Error("Download failed", zap.String("path", path), zap.Error(err))
		if store.IsBadArgument(err) {
			return exitError(foundry.ExitInvalidArgument, "Download failed", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Download failed", err)
	}
	defer func() { _ = body.Close() }()

	var dst io.Writer = os.Stdout
	if getOutputPath != "" {
		f, err := os.Create(getOutputPath)
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Cannot create destination", err)
		}
		defer func() { _ = f.Close() }()
		dst = f
	}

	written, err := io.Copy(dst, body)
	if err != nil {
		return fmt.Errorf("write destination: %w", err)
	}

	observability.CLILogger.Debug("Downloaded blob",
		zap.String("path", path),
		zap.Int64("content_length", n),
		zap.Int64("written", written))
	return nil
}
