// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package aws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/ec2rolecreds"
)

// DefaultCredentialTimeout bounds every source of the default credential chain.
const DefaultCredentialTimeout = time.Second

// CredentialSource is one named strategy of a CredentialChain.
type CredentialSource struct {
	Name     string
	Provider aws.CredentialsProvider
	Timeout  time.Duration
}

// CredentialChain resolves credentials by trying its sources in order.
// The first source returning usable credentials within its timeout wins.
type CredentialChain []CredentialSource

// DefaultCredentialChain returns the chain used by DefaultNewClient:
// environment variables, the SDK shared configuration (passed in as shared)
// and finally the EC2 instance role. Each source gets the given timeout,
// or DefaultCredentialTimeout when timeout is not positive.
func DefaultCredentialChain(shared aws.CredentialsProvider, timeout time.Duration) CredentialChain {
	if timeout <= 0 {
		timeout = DefaultCredentialTimeout
	}

	chain := CredentialChain{
		{Name: "environment", Provider: aws.CredentialsProviderFunc(envCredentials), Timeout: timeout},
	}
	if shared != nil {
		chain = append(chain, CredentialSource{Name: "shared-config", Provider: shared, Timeout: timeout})
	}
	return append(chain, CredentialSource{Name: "ec2-instance-role", Provider: ec2rolecreds.New(), Timeout: timeout})
}

// Retrieve implements aws.CredentialsProvider.
func (c CredentialChain) Retrieve(ctx context.Context) (aws.Credentials, error) {
	var errs []error
	for _, src := range c {
		creds, err := src.retrieve(ctx)
		if err == nil {
			slog.Debug("Resolved AWS credentials", "source", src.Name)
			return creds, nil
		}
		slog.Debug("Credential source failed", "source", src.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
	}
	return aws.Credentials{}, fmt.Errorf("%w: %w", ErrNoCredentials, errors.Join(errs...))
}

func (s CredentialSource) retrieve(ctx context.Context) (aws.Credentials, error) {
	if s.Provider == nil {
		return aws.Credentials{}, errors.New("no provider configured")
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	creds, err := s.Provider.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}
	if !creds.HasKeys() {
		return aws.Credentials{}, errors.New("provider returned empty credentials")
	}
	return creds, nil
}

// envCredentials reads static credentials from the AWS_* environment variables.
func envCredentials(context.Context) (aws.Credentials, error) {
	envCfg, err := config.NewEnvConfig()
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if !envCfg.Credentials.HasKeys() {
		return aws.Credentials{}, errors.New("AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY not set")
	}
	creds := envCfg.Credentials
	creds.Source = "EnvironmentVariables"
	return creds, nil
}
