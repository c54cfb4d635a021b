// Package cmd implements the duostore CLI.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duotier/duostore/internal/config"
	"github.com/duotier/duostore/internal/observability"
	"github.com/duotier/duostore/pkg/backend"
)

var rootCmd = &cobra.Command{
	Use:   "duostore",
	Short: "Two-tier blob storage client",
	Long: `duostore exposes a single logical path space over a private and a
public storage container. Paths under the public prefix (default "public/")
address the public container; everything else is private; the root lists
both, private entries first.

Credentials come from a config file (./duostore.yaml), DUOSTORE_* environment
variables, a --profile file, or a credential vending service token.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	// cfg is loaded once per invocation in the persistent pre-run.
	cfg *config.Config

	rootProfile  string
	rootLogLevel string
)

// versionInfo holds build-time version metadata.
var versionInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// SetVersionInfo records build metadata injected via ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootProfile, "profile", "", "Path to a YAML credential profile")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if rootProfile != "" {
			profile, err := config.LoadProfile(rootProfile)
			if err != nil {
				return err
			}
			profile.Apply(loaded)
		}
		cfg = loaded

		level := cfg.Logging.Level
		if rootLogLevel != "" {
			level = rootLogLevel
		}
		if err := observability.Init(level); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		observability.CLILogger.Debug("configuration loaded",
			zap.String("backend", cfg.Backend),
			zap.String("public_prefix", cfg.PublicPrefix))
		return nil
	}
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	defer observability.Sync()
	return rootCmd.ExecuteContext(ctx)
}

// backendKind returns the configured backend kind.
func backendKind() backend.Kind {
	return backend.Kind(cfg.Backend)
}

// exitError creates an error that will cause the CLI to exit with the given code.
func exitError(code int, message string, err error) error {
	return fmt.Errorf("%s: %w (exit code %d)", message, err, code)
}

// ExitCode extracts the exit code carried by an exitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var code int
	if _, scanErr := fmt.Sscanf(suffixFrom(err.Error(), "(exit code "), "%d)", &code); scanErr == nil && code > 0 {
		return code
	}
	return 1
}

func suffixFrom(s, marker string) string {
	if i := strings.LastIndex(s, marker); i >= 0 {
		return s[i+len(marker):]
	}
	return ""
}
