// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~wombelix/ssmenv/internal/aws"
	"git.sr.ht/~wombelix/ssmenv/internal/config"
)

// fakeRunner records the command it was asked to run instead of running it
type fakeRunner struct {
	calls int
	argv  []string
	env   map[string]string
	code  int
	err   error
}

func (r *fakeRunner) Run(argv []string, env map[string]string) (int, error) {
	r.calls++
	r.argv = argv
	r.env = env
	return r.code, r.err
}

// testSetup provides common test setup functionality
type testSetup struct {
	output     *bytes.Buffer
	tmpDir     string
	runner     *fakeRunner
	clientOpts *aws.Options
}

// setupTest creates a common test environment: an empty HOME and working
// directory, a fake runner and restored package state on cleanup
func setupTest(t *testing.T) *testSetup {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("AWS_REGION", "us-west-2")
	for _, name := range []string{"SSMENV_REGION", "SSMENV_ROLE", "SSMENV_UPPERCASE", "SSMENV_ADD_PREFIX", "SSMENV_CREDENTIAL_TIMEOUT", "SSMENV_LOG_LEVEL", "SSMENV_LOG_FORMAT"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	origNewClient := aws.NewClient
	origNewRunner := newRunner
	runner := &fakeRunner{}
	newRunner = func() commandRunner { return runner }

	resetCommands()
	var output bytes.Buffer
	rootCmd.SetOut(&output)
	rootCmd.SetErr(&output)

	t.Cleanup(func() {
		_ = os.Chdir(origWd)
		aws.NewClient = origNewClient
		newRunner = origNewRunner
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		appConfig = nil
		resetCommands()
	})

	return &testSetup{
		output: &output,
		tmpDir: tmpDir,
		runner: runner,
	}
}

// resetCommands restores all flags to their defaults
func resetCommands() {
	initRootFlags()
	initEnvFlags()
	initExportFlags()
}

// setupMockClient sets up a mock AWS client for testing
func (ts *testSetup) setupMockClient(mockClient *aws.MockSSMClient) {
	aws.NewClient = func(ctx context.Context, opts aws.Options) (*aws.Client, error) {
		ts.clientOpts = &opts
		return &aws.Client{SSMClient: mockClient}, nil
	}
}

// setupPages serves the given pages through a mock client and returns the
// call counter
func (ts *testSetup) setupPages(pages ...[]aws.Parameter) *int {
	fn, calls := aws.PagedParameters(pages...)
	ts.setupMockClient(&aws.MockSSMClient{GetParamsByPathFunc: fn})
	return calls
}

// setupConfigFile creates a test configuration file in the working directory
func (ts *testSetup) setupConfigFile(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(ts.tmpDir, config.FileName), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

// execute runs the root command with args
func (ts *testSetup) execute(args ...string) error {
	rootCmd.SetArgs(args)
	return Execute()
}
