// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"log/slog"
	"os"

	"git.sr.ht/~wombelix/ssmenv/cmd"
)

func main() {
	os.Exit(run())
}

// run executes the command line and returns the exit code of the process:
// the launched command's own code, or 1 if ssmenv failed before or while
// starting it.
func run() int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	slog.Error("Error executing command", "error", err)
	return 1
}
