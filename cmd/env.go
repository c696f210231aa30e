// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"

	"git.sr.ht/~wombelix/ssmenv/internal/launcher"
	"github.com/spf13/cobra"
)

// commandRunner runs a command with additional environment variables and
// returns its exit code
type commandRunner interface {
	Run(argv []string, env map[string]string) (int, error)
}

// newRunner creates the runner used by the env command; tests replace it
var newRunner = func() commandRunner {
	return launcher.New()
}

// Command-line flags for the env command
var envFlags paramFlags

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env [flags] PATH COMMAND [ARGS...]",
	Short: "Run a command with environment populated by SSM parameters",
	Long: `Run a command with environment populated by SSM parameters.

All parameters below PATH are read recursively, SecureString values are
decrypted. PATH is stripped from every parameter name to form the variable
name. The variables are added to the inherited environment, replacing
inherited variables of the same name. ssmenv exits with the exit code of
COMMAND, or 128 plus the signal number if COMMAND was killed by a signal.

Flags must come before PATH; everything after PATH is passed to COMMAND.

Examples:
  # Run a service with every parameter below /myapp/prod/
  ssmenv env /myapp/prod/ ./server --port 8080

  # Upper-case names and add a prefix: /myapp/prod/db_host becomes MYAPP_DB_HOST
  ssmenv env --uppercase --add-prefix MYAPP_ /myapp/prod/ env`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEnv,
}

// runEnv executes the env command
func runEnv(cmd *cobra.Command, args []string) error {
	path, command := splitCommand(args)
	if len(command) == 0 {
		return errors.New("required argument \"COMMAND\" not set")
	}

	opts, err := envFlags.options(cmd, path)
	if err != nil {
		return err
	}

	env, err := buildEnv(cmd.Context(), opts)
	if err != nil {
		return err
	}

	code, err := newRunner().Run(command, env)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// splitCommand separates PATH from the command line. Flag parsing stops at
// PATH, so a "--" separator placed after it arrives here and is dropped.
func splitCommand(args []string) (string, []string) {
	path, command := args[0], args[1:]
	if len(command) > 0 && command[0] == "--" {
		command = command[1:]
	}
	return path, command
}

func init() {
	initEnvFlags()
}

func initEnvFlags() {
	envCmd.ResetFlags()
	envFlags = paramFlags{}
	envFlags.register(envCmd.Flags())
	envCmd.Flags().SetInterspersed(false)
}
