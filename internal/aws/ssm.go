// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package aws wraps the AWS SSM Parameter Store API for ssmenv.
//
// It builds SSM clients on top of an explicit credential chain and retrieves
// every parameter stored below a hierarchy path, following the service's
// pagination until the last page has been read.
package aws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// Common errors returned by the package
var (
	ErrEmptyPath     = errors.New("parameter path is required")
	ErrNoRegion      = errors.New("AWS region must be specified via --region, config file, or AWS_REGION environment variable")
	ErrAccessDenied  = errors.New("access denied")
	ErrInvalidPath   = errors.New("invalid parameter path")
	ErrNoCredentials = errors.New("no valid AWS credentials found")
)

// SSMAPI defines the interface for AWS SSM operations
type SSMAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// Parameter is a single name/value pair read from Parameter Store.
// Name is the full parameter name, including the queried path.
type Parameter struct {
	Name  string
	Value string
}

// Client represents an AWS SSM client
type Client struct {
	SSMClient SSMAPI
}

// Options configures the creation of a Client.
type Options struct {
	// Region is the AWS region; resolved from the environment or shared
	// config when empty.
	Region string
	// Role is an IAM role ARN to assume with the resolved credentials.
	Role string
	// CredentialTimeout bounds each credential source of the chain.
	// DefaultCredentialTimeout is used when zero.
	CredentialTimeout time.Duration
}

// NewClientFunc is the type for the client creation function
type NewClientFunc func(context.Context, Options) (*Client, error)

// DefaultNewClient is the default implementation of NewClientFunc
var DefaultNewClient NewClientFunc = func(ctx context.Context, opts Options) (*Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		// Instance metadata is only reached through the bounded
		// ec2-instance-role source of the chain.
		config.WithEC2IMDSClientEnableState(imds.ClientDisabled),
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, ErrNoRegion
	}

	chain := DefaultCredentialChain(cfg.Credentials, opts.CredentialTimeout)
	cfg.Credentials = aws.NewCredentialsCache(chain)

	if opts.Role != "" {
		// Create an STS client to assume the role
		stsClient := sts.NewFromConfig(cfg)
		provider := stscreds.NewAssumeRoleProvider(stsClient, opts.Role)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	slog.Debug("Created SSM client", "region", cfg.Region, "role", opts.Role)

	return &Client{
		SSMClient: ssm.NewFromConfig(cfg),
	}, nil
}

// NewClient is the function used to create new AWS SSM clients
var NewClient = DefaultNewClient

// GetParametersByPath retrieves every parameter below path, descending
// recursively and decrypting SecureString values. Pages are requested one
// after another; the first failing page aborts the whole retrieval and no
// partial result is returned.
func (c *Client) GetParametersByPath(ctx context.Context, path string) ([]Parameter, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	var params []Parameter
	paginator := ssm.NewGetParametersByPathPaginator(c.SSMClient, input)
	for page := 1; paginator.HasMorePages(); page++ {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(path, err)
		}

		for _, p := range output.Parameters {
			params = append(params, Parameter{
				Name:  aws.ToString(p.Name),
				Value: aws.ToString(p.Value),
			})
		}
		slog.Debug("Fetched parameter page", "path", path, "page", page, "count", len(output.Parameters))
	}

	return params, nil
}

// classifyError wraps an SSM error with the failing path and, for known
// error codes, with one of the package sentinels.
func classifyError(path string, err error) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "AccessDeniedException":
			return fmt.Errorf("%w: insufficient permissions to read parameters under %q: %w", ErrAccessDenied, path, err)
		case "ValidationException", "InvalidFilterKey", "InvalidFilterOption", "InvalidFilterValue":
			return fmt.Errorf("%w: %q, check the specified path: %w", ErrInvalidPath, path, err)
		}
	}
	return fmt.Errorf("failed to get parameters by path %q, check the specified path: %w", path, err)
}
