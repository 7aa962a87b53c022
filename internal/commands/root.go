package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"specter/internal/config"
	"specter/internal/logging"

	"github.com/spf13/cobra"
)

var (
	globalConfig *config.Config
	globalDir    string

	logger    *slog.Logger = logging.Discard()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "specter",
	Short: "Specter - manage projects, configurations and reports",
	Long: `Specter is a command-line client for the Specter platform.
It manages projects and their members, per-project configurations and uploaded
reports, and includes a terminal dashboard for browsing all of them.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRuntime,
}

// Execute runs the root command
func Execute(ctx context.Context, cfg *config.Config) error {
	globalConfig = cfg
	defer closeLogger()
	return rootCmd.ExecuteContext(ctx)
}

// setupRuntime resolves the global directory and opens the log file
func setupRuntime(cmd *cobra.Command, args []string) error {
	if globalConfig == nil {
		globalConfig = config.DefaultConfig()
	}

	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return fmt.Errorf("error getting global config directory: %w", err)
	}
	globalDir = dir

	closeLogger()
	l, closer, err := logging.New(logging.Options{
		Dir:    filepath.Join(globalDir, "logs"),
		Level:  globalConfig.LogLevel,
		Format: globalConfig.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	logger, logCloser = l, closer
	logger.Debug("command started", "command", cmd.CommandPath())
	return nil
}

func closeLogger() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Println("Error closing log file:", err)
	}
	logCloser = nil
	logger = logging.Discard()
}
