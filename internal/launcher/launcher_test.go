// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package launcher

import (
	"bytes"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLauncher(t *testing.T, environ ...string) (*Launcher, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("launcher tests use /bin/sh")
	}

	var out bytes.Buffer
	base := append([]string{"PATH=" + os.Getenv("PATH")}, environ...)
	return &Launcher{
		Stdin:   strings.NewReader(""),
		Stdout:  &out,
		Stderr:  &out,
		Environ: func() []string { return base },
	}, &out
}

func TestRunExitCode(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{name: "success", script: "exit 0", want: 0},
		{name: "failure", script: "exit 3", want: 3},
		{name: "high exit code", script: "exit 200", want: 200},
		{name: "killed by signal", script: "kill -TERM $$", want: 143},
		{name: "killed by kill signal", script: "kill -KILL $$", want: 137},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLauncher(t)
			code, err := l.Run([]string{"sh", "-c", tt.script}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestRunEnvironment(t *testing.T) {
	l, out := newTestLauncher(t, "INHERITED=kept", "DB_HOST=local")

	code, err := l.Run(
		[]string{"sh", "-c", `printf '%s|%s|%s' "$INHERITED" "$DB_HOST" "$MYAPP_DB_PORT"`},
		map[string]string{"DB_HOST": "db1", "MYAPP_DB_PORT": "5432"},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "kept|db1|5432", out.String())
}

func TestRunPassesArguments(t *testing.T) {
	l, out := newTestLauncher(t)

	code, err := l.Run([]string{"sh", "-c", `echo "$0 $1 $2"`, "zero", "--flag", "two words"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "zero --flag two words\n", out.String())
}

func TestRunErrors(t *testing.T) {
	l, _ := newTestLauncher(t)

	code, err := l.Run(nil, nil)
	assert.ErrorIs(t, err, ErrNoCommand)
	assert.Equal(t, 1, code)

	code, err = l.Run([]string{"ssmenv-command-that-does-not-exist"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find command")
	assert.Equal(t, 1, code)
}

func TestNew(t *testing.T) {
	l := New()
	assert.Equal(t, os.Stdout, l.Stdout)
	assert.Equal(t, DefaultSignals, l.Signals)
	assert.NotNil(t, l.Environ)
}
