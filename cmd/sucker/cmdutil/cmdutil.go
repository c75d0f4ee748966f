// Package cmdutil holds the setup shared by sucker subcommands: logging
// from the persistent flags and config resolution through viper.
package cmdutil

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/sucker/pkg/cliui"
	"github.com/papercomputeco/sucker/pkg/config"
	"github.com/papercomputeco/sucker/pkg/logger"
)

// Persistent flag names registered on the root command.
const (
	FlagDebug     = "debug"
	FlagLogFile   = "log-file"
	FlagConfigDir = "config-dir"
)

// NewLogger builds the command logger from --debug and --log-file. Console
// records go to the command's stderr, colorized on a terminal. The returned
// func closes the log file.
func NewLogger(cmd *cobra.Command) (*slog.Logger, func() error, error) {
	debug, _ := cmd.Flags().GetBool(FlagDebug)
	logFile, _ := cmd.Flags().GetString(FlagLogFile)

	errOut := cmd.ErrOrStderr()
	console := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(cliui.IsTerminal(errOut)),
		logger.WithWriter(errOut),
	)
	if logFile == "" {
		return console, func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	file := logger.New(
		logger.WithDebug(debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)
	return logger.Multi(console, file), f.Close, nil
}

// Settings resolves config for cmd with flag > env > file > default
// precedence. keys are registry keys of flags registered on cmd.
func Settings(cmd *cobra.Command, keys ...string) (*viper.Viper, error) {
	configDir, _ := cmd.Flags().GetString(FlagConfigDir)
	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, keys)
	return v, nil
}
