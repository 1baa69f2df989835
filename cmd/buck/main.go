package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrisrhoden/buck"
)

var flagLogLevel string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error out of Execute to the process exit code: 0 for
// success, 1 for user mistakes, 2 for everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if buck.IsUserError(err) {
		return 1
	}
	return 2
}

var rootCmd = &cobra.Command{
	Use:           "buck",
	Short:         "A build tool for monorepos",
	Long:          "Buck parses BUCK build-definition files, resolves transitive dependencies into an acyclic graph, and answers queries over it.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogging(flagLogLevel)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")

	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(auditCmd)
}

// configureLogging installs the process-wide slog default writing to
// stderr, keeping stdout for command output.
func configureLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}
