package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/hasdev/api-gateway/pkg/gwapi/config"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "API gateway server",
	Long:  `gateway serves the account, session, todo and tool APIs and manages their data.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func newLogger(cfg *config.EnvConfig) *gwlog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return gwlog.NewJSON(level, os.Stdout)
	}
	return gwlog.NewLogger(level, os.Stdout)
}
