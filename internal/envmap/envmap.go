// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package envmap turns Parameter Store parameters into environment variables.
//
// Parameter names have the queried path stripped and are then optionally
// upper-cased and prefixed. The resulting mapping can be merged over an
// inherited process environment with Merge.
package envmap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"git.sr.ht/~wombelix/ssmenv/internal/aws"
)

// ErrPrefixMismatch is returned when a parameter does not live below the
// configured path. It signals an inconsistent fetch result, never user input.
var ErrPrefixMismatch = errors.New("parameter name does not start with path")

// Config controls how parameter names become variable names.
type Config struct {
	// Path is stripped from the front of every parameter name.
	Path string
	// Uppercase converts variable names to upper case.
	Uppercase bool
	// AddPrefix is prepended verbatim after the other transformations.
	AddPrefix string
}

// VariableName returns the variable name for a parameter name under cfg.
func (cfg Config) VariableName(paramName string) (string, error) {
	if !strings.HasPrefix(paramName, cfg.Path) {
		return "", fmt.Errorf("%w: parameter %q, path %q", ErrPrefixMismatch, paramName, cfg.Path)
	}

	name := paramName[len(cfg.Path):]
	if cfg.Uppercase {
		name = strings.ToUpper(name)
	}
	return cfg.AddPrefix + name, nil
}

// Build maps every parameter to a variable. Later parameters overwrite
// earlier ones that produce the same name. On error no mapping is returned.
func Build(cfg Config, params []aws.Parameter) (map[string]string, error) {
	env := make(map[string]string, len(params))
	for _, p := range params {
		name, err := cfg.VariableName(p.Name)
		if err != nil {
			return nil, err
		}
		env[name] = p.Value
	}
	return env, nil
}

// Names returns the variable names of env in sorted order.
func Names(env map[string]string) []string {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge applies env on top of environ, a list of KEY=VALUE entries as
// returned by os.Environ. Inherited entries keep their order unless env
// replaces them; the variables of env follow in sorted order.
func Merge(environ []string, env map[string]string) []string {
	merged := make([]string, 0, len(environ)+len(env))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := env[key]; ok {
			continue
		}
		merged = append(merged, kv)
	}
	for _, name := range Names(env) {
		merged = append(merged, name+"="+env[name])
	}
	return merged
}
