package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duotier/duostore/internal/observability"
	"github.com/duotier/duostore/pkg/match"
	"github.com/duotier/duostore/pkg/output"
	"github.com/duotier/duostore/pkg/store"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List logical paths",
	Long: `List the blobs under a logical path.

A path with a dotted basename is probed as an exact blob and echoed back if
it exists. Any other path is treated as a listing prefix. With no path (or
"/"), both tiers are listed: private entries first, then public entries with
the public prefix attached.

Examples:
  duostore ls
  duostore ls docs/reports/
  duostore ls docs/reports/q3.pdf
  duostore ls public/assets/ --output table
  duostore ls --include '**/*.html' --exclude 'tmp/**'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

var (
	lsOutput   string
	lsIncludes []string
	lsExcludes []string
	lsTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVar(&lsOutput, "output", "jsonl", "Output format (jsonl|table)")
	lsCmd.Flags().StringArrayVar(&lsIncludes, "include", nil, "Include glob pattern (repeatable)")
	lsCmd.Flags().StringArrayVar(&lsExcludes, "exclude", nil, "Exclude glob pattern (repeatable)")
	lsCmd.Flags().DurationVar(&lsTimeout, "timeout", 5*time.Minute, "Operation timeout")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	if lsOutput != "jsonl" && lsOutput != "table" {
		return exitError(foundry.ExitInvalidArgument, "Invalid --output value", fmt.Errorf("expected jsonl or table"))
	}

	filter, err := match.New(lsIncludes, lsExcludes)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid include/exclude patterns", err)
	}

	if lsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lsTimeout)
		defer cancel()
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	jobID := uuid.New().String()
	start := time.Now()

	paths, err := s.List(ctx, path)
	if err != nil {
		observability.CLILogger.Error("Listing failed",
			zap.String("path", path),
			zap.Error(err))
		return storeExitError("Listing failed", err, jobID, path)
	}

	if !filter.Empty() {
		kept := paths[:0]
		for _, p := range paths {
			if filter.Match(p) {
				kept = append(kept, p)
			}
		}
		paths = kept
	}

	if lsOutput == "table" {
		for _, p := range paths {
			fmt.Println(p)
		}
		fmt.Fprintf(os.Stderr, "ls: %d paths in %s\n", len(paths), time.Since(start).Round(time.Millisecond))
		return nil
	}

	w := output.NewJSONLWriter(os.Stdout, jobID, cfg.Backend)
	defer func() { _ = w.Close() }()

	for _, p := range paths {
		if err := w.WritePath(ctx, &output.PathRecord{Path: p}); err != nil {
			return err
		}
	}

	dur := time.Since(start)
	return w.WriteSummary(ctx, &output.SummaryRecord{
		Paths:         int64(len(paths)),
		Duration:      dur,
		DurationHuman: dur.Round(time.Millisecond).String(),
		Input:         path,
	})
}

// storeExitError maps a storage error onto an exit-coded CLI error, emitting
// a JSONL error record when that output mode is active.
func storeExitError(message string, err error, jobID, path string) error {
	if lsOutput == "jsonl" {
		w := output.NewJSONLWriter(os.Stdout, jobID, cfg.Backend)
		_ = w.WriteError(context.Background(), &output.ErrorRecord{
			Code:    errorCode(err),
			Message: err.Error(),
			Path:    path,
		})
	}
	if store.IsBadArgument(err) {
		return exitError(foundry.ExitInvalidArgument, message, err)
	}
	return exitError(foundry.ExitExternalServiceUnavailable, message, err)
}

// errorCode maps a storage error onto a record error code.
func errorCode(err error) string {
	switch {
	case store.IsBadArgument(err):
		return output.ErrCodeBadArgument
	case store.IsForbidden(err):
		return output.ErrCodeForbidden
	default:
		return output.ErrCodeInternal
	}
}
