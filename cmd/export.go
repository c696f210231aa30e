// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~wombelix/ssmenv/internal/envmap"
	"github.com/spf13/cobra"
)

// Command-line flags for the export command
var (
	exportFlags paramFlags
	// exportFile is the path to write the export statements to
	exportFile string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [flags] PATH",
	Short: "Print SSM parameters below a path as export statements",
	Long: `Print SSM parameters below a path as export statements.

Parameters are read and named exactly like the env command does, but
instead of running a command the variables are printed, sorted by name,
in the format:
export NAME='value'

Examples:
  # Show the environment a command would get
  ssmenv export /myapp/prod/

  # Write upper-cased, prefixed variables to a file
  ssmenv export --uppercase --add-prefix MYAPP_ --file /etc/env.d/myapp /myapp/prod/`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// runExport executes the export command
func runExport(cmd *cobra.Command, args []string) error {
	opts, err := exportFlags.options(cmd, args[0])
	if err != nil {
		return err
	}

	env, err := buildEnv(cmd.Context(), opts)
	if err != nil {
		return err
	}

	return writeOutput(cmd, formatExports(env))
}

// formatExports renders env as sorted shell export statements
func formatExports(env map[string]string) string {
	var b strings.Builder
	for _, name := range envmap.Names(env) {
		fmt.Fprintf(&b, "export %s=%s\n", name, shellQuote(env[name]))
	}
	return b.String()
}

// shellQuote wraps s in single quotes so a POSIX shell takes it literally
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// writeOutput writes the export statements to a file or stdout
func writeOutput(cmd *cobra.Command, output string) error {
	if exportFile == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), output)
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(exportFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Values may be decrypted secrets
	if err := os.WriteFile(exportFile, []byte(output), 0600); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	slog.Info("Parameter values written", "file", exportFile)
	return nil
}

func init() {
	initExportFlags()
}

func initExportFlags() {
	exportCmd.ResetFlags()
	exportFlags = paramFlags{}
	exportFile = ""
	exportFlags.register(exportCmd.Flags())
	exportCmd.Flags().StringVar(&exportFile, "file", "", "File to write to (optional)")
}
