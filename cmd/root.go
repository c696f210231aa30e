// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package cmd implements the command-line interface for ssmenv.
//
// It uses the cobra library to provide subcommands that read every AWS SSM
// parameter below a path and either run a command with them as environment
// variables (env) or print them as shell export statements (export). The
// package handles argument parsing, configuration loading, and dispatching to
// the fetch, mapping and launch stages.
//
// Global flags supported by all commands include:
//   - --loglevel: Set logging verbosity (debug, info, warn, error)
//   - --logformat: Set log output format (text, pretty)
//   - --version: Display version information
//   - --help: Show help and usage information
package cmd

import (
	"fmt"
	"os"

	"git.sr.ht/~wombelix/ssmenv/internal/config"
	"git.sr.ht/~wombelix/ssmenv/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Build information, set via ldflags during build
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Command-line flags
	logLevel    string
	logFormat   string
	showVersion bool

	// appConfig is loaded once per invocation before any subcommand runs
	appConfig *config.Config

	// rootCmd represents the base command when called without any subcommands.
	// It provides global flags and displays help information by default.
	rootCmd = &cobra.Command{
		Use:   "ssmenv",
		Short: "Run commands with environment variables from AWS SSM Parameter Store",
		Long: `ssmenv reads all AWS SSM Parameter Store entries below a path and exposes
them as environment variables. It can launch a command with that environment,
forwarding the command's exit code, or print the variables as export statements.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "ssmenv version %s (commit %s, built on %s)\n", version, commit, date)
				return nil
			}
			if err := cmd.Help(); err != nil {
				return err
			}
			return &ExitError{Code: 1}
		},
	}
)

// ExitError reports a non-zero exit code that has already been dealt with,
// typically the exit code of the launched command. It is not a failure of
// ssmenv itself and should not be logged as one.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// init initializes the root command by setting up global flags and registering
// all subcommands. It also configures the persistent pre-run hook for
// configuration loading and logging initialization.
func init() {
	initRootFlags()

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg

		level := logLevel
		if !cmd.Flags().Changed("loglevel") && cfg.LogLevel != "" {
			level = cfg.LogLevel
		}
		format := logFormat
		if !cmd.Flags().Changed("logformat") && cfg.LogFormat != "" {
			format = cfg.LogFormat
		}
		logger.InitLogger(level, format, os.Stderr)
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(exportCmd)
}

func initRootFlags() {
	rootCmd.ResetFlags()
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "logformat", logger.FormatText, "Log format (text, pretty)")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// If there is an error, it will be returned to the caller; an *ExitError
// carries the exit code the process should end with.
func Execute() error {
	return rootCmd.Execute()
}
