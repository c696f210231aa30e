// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package config provides configuration management for the ssmenv tool.
//
// It handles loading and merging of YAML configuration files from multiple
// locations with a defined precedence order. The package supports both global
// (user home directory) and local (current directory) configurations, with
// local settings taking precedence over global ones. SSMENV_* environment
// variables override both files.
//
// Configuration files are expected to be named .ssmenv.yaml and can define
// defaults for the AWS connection, variable naming, and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the global and local configuration files.
const FileName = ".ssmenv.yaml"

// EnvPrefix is the prefix of environment variables overriding the files.
const EnvPrefix = "SSMENV_"

// Common errors returned by the package
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the main configuration structure for ssmenv.
// Command-line flags take precedence over every field.
type Config struct {
	// Region is the default AWS region for operations
	Region string `yaml:"region,omitempty" env:"REGION"`
	// Role is the AWS IAM role to assume for operations
	Role string `yaml:"role,omitempty" env:"ROLE"`
	// Uppercase determines if environment variable names should be uppercase
	Uppercase *bool `yaml:"uppercase,omitempty" env:"UPPERCASE"`
	// AddPrefix is prepended to all environment variable names
	AddPrefix string `yaml:"add_prefix,omitempty" env:"ADD_PREFIX"`
	// CredentialTimeout bounds each AWS credential source
	CredentialTimeout time.Duration `yaml:"credential_timeout,omitempty" env:"CREDENTIAL_TIMEOUT"`
	// LogLevel is the default log level
	LogLevel string `yaml:"log_level,omitempty" env:"LOG_LEVEL"`
	// LogFormat is the default log format (text or pretty)
	LogFormat string `yaml:"log_format,omitempty" env:"LOG_FORMAT"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CredentialTimeout < 0 {
		return fmt.Errorf("%w: credential_timeout must not be negative, got %s", ErrInvalidConfig, c.CredentialTimeout)
	}

	switch c.LogFormat {
	case "", "text", "pretty":
	default:
		return fmt.Errorf("%w: invalid log format %q (must be 'text' or 'pretty')", ErrInvalidConfig, c.LogFormat)
	}

	return nil
}

// LoadConfig loads configuration with precedence:
// 1. SSMENV_* environment variables
// 2. Current directory (.ssmenv.yaml)
// 3. Home directory (~/.ssmenv.yaml)
//
// A configuration file that exists but cannot be loaded is an error.
// If no configuration is found, returns an empty configuration.
func LoadConfig() (*Config, error) {
	var cfg Config

	// Try loading from home directory first
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, FileName)
		if fileExists(homeConfig) {
			if err := loadFile(homeConfig, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load global config %s: %w", homeConfig, err)
			}
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid global config %s: %w", homeConfig, err)
			}
		}
	}

	// Try loading from current directory (overrides home config)
	if fileExists(FileName) {
		localCfg := Config{}
		if err := loadFile(FileName, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to load local config %s: %w", FileName, err)
		}
		if err := localCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid local config %s: %w", FileName, err)
		}
		if err := mergeConfig(&cfg, &localCfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse %s environment variables: %w", EnvPrefix, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s environment variables: %w", EnvPrefix, err)
	}

	return &cfg, nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

// loadFile loads and unmarshals a YAML configuration file.
func loadFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", sanitizeForLog(filename), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML in %s: %w", sanitizeForLog(filename), err)
	}
	return nil
}

// mergeConfig merges local configuration into global configuration.
// Set fields of local take precedence; a non-nil Uppercase overrides
// even when it points to false.
func mergeConfig(global, local *Config) error {
	if err := mergo.Merge(global, local, mergo.WithOverride, mergo.WithoutDereference); err != nil {
		return fmt.Errorf("failed to merge configuration: %w", err)
	}
	return nil
}

// sanitizeForLog removes control characters that could be used for log injection (CWE-117 mitigation)
func sanitizeForLog(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", "")
	return strings.ReplaceAll(s, "\x1b", "") // Remove escape sequences
}
