// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.sr.ht/~wombelix/ssmenv/internal/aws"
	"git.sr.ht/~wombelix/ssmenv/internal/envmap"
	"git.sr.ht/~wombelix/ssmenv/internal/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// paramFlags holds the flags shared by all commands reading parameters
type paramFlags struct {
	// region is the AWS region where the parameters will be read from
	region string
	// role is the AWS IAM role to assume for the operation
	role string
	// uppercase determines if environment variable names should be uppercase
	uppercase bool
	// addPrefix is prepended to the environment variable names
	addPrefix string
}

func (f *paramFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.region, "region", "", "AWS region (optional, default: from AWS config or environment)")
	fs.StringVar(&f.role, "role", "", "AWS role ARN to assume (optional)")
	fs.BoolVarP(&f.uppercase, "uppercase", "u", false, "Convert env var names to uppercase")
	fs.StringVarP(&f.addPrefix, "add-prefix", "a", "", "Prefix prepended verbatim to env var names")
}

// paramOptions is the effective configuration of one parameter retrieval,
// with flags merged over the configuration file
type paramOptions struct {
	path              string
	region            string
	role              string
	uppercase         bool
	addPrefix         string
	credentialTimeout time.Duration
}

// options merges the flags of cmd with the loaded configuration
// (flags take precedence) and validates the result.
func (f *paramFlags) options(cmd *cobra.Command, path string) (paramOptions, error) {
	opts := paramOptions{
		path:      path,
		region:    f.region,
		role:      f.role,
		uppercase: f.uppercase,
		addPrefix: f.addPrefix,
	}

	if cfg := appConfig; cfg != nil {
		if opts.region == "" {
			opts.region = cfg.Region
		}
		if opts.role == "" {
			opts.role = cfg.Role
		}
		if !cmd.Flags().Changed("uppercase") && cfg.Uppercase != nil {
			opts.uppercase = *cfg.Uppercase
		}
		if !cmd.Flags().Changed("add-prefix") {
			opts.addPrefix = cfg.AddPrefix
		}
		opts.credentialTimeout = cfg.CredentialTimeout
	}

	if err := validation.ValidateParameterPath(opts.path); err != nil {
		return paramOptions{}, err
	}
	if err := validation.ValidateRegion(opts.region); err != nil {
		return paramOptions{}, err
	}
	if err := validation.ValidateRoleARN(opts.role); err != nil {
		return paramOptions{}, err
	}

	return opts, nil
}

// buildEnv fetches all parameters below opts.path and maps them to
// environment variables. Nothing is returned unless every page was read
// and every parameter mapped.
func buildEnv(ctx context.Context, opts paramOptions) (map[string]string, error) {
	client, err := aws.NewClient(ctx, aws.Options{
		Region:            opts.region,
		Role:              opts.role,
		CredentialTimeout: opts.credentialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}

	params, err := client.GetParametersByPath(ctx, opts.path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Fetched parameters", "path", opts.path, "count", len(params))

	env, err := envmap.Build(envmap.Config{
		Path:      opts.path,
		Uppercase: opts.uppercase,
		AddPrefix: opts.addPrefix,
	}, params)
	if err != nil {
		return nil, err
	}
	slog.Debug("Using environment", "variables", envmap.Names(env))

	return env, nil
}
