// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package launcher runs a child process with parameters merged into its
// environment and reports the child's exit code.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"git.sr.ht/~wombelix/ssmenv/internal/envmap"
)

// ErrNoCommand is returned when Run is called without a command.
var ErrNoCommand = errors.New("no command given")

// signalExitBase is added to the signal number of a child killed by a signal.
const signalExitBase = 128

// DefaultSignals are forwarded to the child while it runs.
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Launcher starts child processes. The zero value is not usable, use New.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Environ returns the inherited environment in KEY=VALUE form.
	Environ func() []string
	// Signals received while the child runs are passed on to it
	// instead of terminating the launcher.
	Signals []os.Signal
}

// New returns a Launcher wired to the standard streams and environment
// of the current process.
func New() *Launcher {
	return &Launcher{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
		Signals: DefaultSignals,
	}
}

// Run executes argv with env added to the inherited environment and waits
// for it to finish. The returned code is the child's exit code, or 128 plus
// the signal number when the child was killed by a signal. A non-nil error
// means the child could not be run; the code is 1 in that case.
func (l *Launcher) Run(argv []string, env map[string]string) (int, error) {
	if len(argv) == 0 {
		return 1, ErrNoCommand
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 1, fmt.Errorf("failed to find command %q: %w", argv[0], err)
	}

	environ := os.Environ
	if l.Environ != nil {
		environ = l.Environ
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Args[0] = argv[0]
	cmd.Env = envmap.Merge(environ(), env)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	slog.Debug("Starting command", "command", argv[0], "path", path, "variables", envmap.Names(env))
	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("failed to start command %q: %w", argv[0], err)
	}

	stop := l.forwardSignals(cmd.Process)
	err = cmd.Wait()
	stop()

	code, err := exitCode(err)
	slog.Debug("Command exited", "command", argv[0], "code", code)
	return code, err
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, fmt.Errorf("failed to wait for command: %w", err)
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return signalExitBase + int(status.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}

// forwardSignals relays l.Signals to p until the returned stop func is called.
func (l *Launcher) forwardSignals(p *os.Process) func() {
	if len(l.Signals) == 0 {
		return func() {}
	}

	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, l.Signals...)

	go func() {
		for {
			select {
			case sig := <-sigs:
				slog.Debug("Forwarding signal", "signal", sig.String(), "pid", p.Pid)
				if err := p.Signal(sig); err != nil {
					slog.Warn("Failed to forward signal", "signal", sig.String(), "error", err)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
