// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/matt-FFFFFF/everyfile/internal/params"
)

// Names of the parameters that configure the run.
const (
	SrcParam     = "src"
	DestParam    = "dest"
	FileParam    = "file"
	NotFileParam = "not-file"
	RunParam     = "run"
	RunJSParam   = "run-js"
	SilentParam  = "silent"
	DotParam     = "dot"
	ConfigParam  = "config"
)

var (
	// ErrNoCommand is returned when neither a shell nor a script command template is configured.
	ErrNoCommand = errors.New(`required parameter "run" not provided`)
	// ErrConfigFile is returned when the config file cannot be fetched or decoded.
	ErrConfigFile = errors.New("failed to load config file")
	// ErrInvalidConfig is returned when a configuration value is not usable.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Mode selects how a resolved command is executed.
type Mode int

const (
	// ModeShell runs the command with the platform shell.
	ModeShell Mode = iota
	// ModeScript evaluates the command as JavaScript.
	ModeScript
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeShell:
		return "shell"
	case ModeScript:
		return "script"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config is the configuration of a single run. It is built once and not modified afterwards.
type Config struct {
	SrcDir   string         // Empty means the command runs once.
	DestDir  string         // Empty means there is no destination file.
	Include  []string       // Include glob patterns, relative to SrcDir.
	Exclude  []string       // Exclude glob patterns, relative to SrcDir.
	Command  string         // Command template.
	Mode     Mode           // Execution mode of Command.
	Silent   bool           // Suppress echoed commands, command output and warnings.
	Dot      bool           // Let wildcards match dotfiles.
	Bindings *params.Params // Values available to the template as {{name}}.
}

// FromParams builds a Config from command line parameters alone.
func FromParams(p *params.Params) Config {
	return apply(Config{Bindings: params.New()}, p)
}

// Load builds a Config from command line parameters. If the config parameter is set,
// the named config file is loaded first and the command line parameters take precedence over it.
func Load(ctx context.Context, p *params.Params) (Config, error) {
	url, ok := last(p, ConfigParam)
	if !ok || url == "" {
		return FromParams(p), nil
	}

	ctxlog.Debug(ctx, "loading config file", "url", url)

	data, err := Getter(ctx, url)
	if err != nil {
		return Config{}, errors.Join(ErrConfigFile, err)
	}

	f, err := Decode(url, data)
	if err != nil {
		return Config{}, err
	}

	return apply(f.Config(), p), nil
}

// Validate returns every problem found in c.
func Validate(c Config) error {
	var result error

	if c.Command == "" {
		result = multierror.Append(result, ErrNoCommand)
	}

	if c.Mode != ModeShell && c.Mode != ModeScript {
		result = multierror.Append(result, fmt.Errorf("%w: unknown mode %s", ErrInvalidConfig, c.Mode))
	}

	for _, p := range slices.Concat(c.Include, c.Exclude) {
		if !doublestar.ValidatePattern(p) {
			result = multierror.Append(result, fmt.Errorf("%w: malformed glob pattern %q", ErrInvalidConfig, p))
		}
	}

	return result
}

// apply overlays the parameters on base.
func apply(base Config, p *params.Params) Config {
	c := base
	c.Include = slices.Clone(base.Include)
	c.Exclude = slices.Clone(base.Exclude)
	c.Bindings = base.Bindings.Clone()

	if v, ok := last(p, SrcParam); ok {
		c.SrcDir = v
	}

	if v, ok := last(p, DestParam); ok {
		c.DestDir = v
	}

	if p.Has(FileParam) {
		c.Include = p.Values(FileParam)
	}

	if p.Has(NotFileParam) {
		c.Exclude = p.Values(NotFileParam)
	}

	if p.Has(RunParam) || p.Has(RunJSParam) {
		run, _ := last(p, RunParam)
		runJS, _ := last(p, RunJSParam)

		c.Command = run
		if c.Command == "" {
			c.Command = runJS
		}

		c.Mode = ModeShell
		if p.Has(RunJSParam) {
			c.Mode = ModeScript
		}
	}

	if p.Has(SilentParam) {
		c.Silent = p.Bool(SilentParam)
	}

	if p.Has(DotParam) {
		c.Dot = p.Bool(DotParam)
	}

	overrides := p.Without(RunParam, RunJSParam, ConfigParam)

	for _, k := range overrides.Keys() {
		c.Bindings.Delete(k)

		for _, v := range overrides.Values(k) {
			c.Bindings.Add(k, v)
		}
	}

	return c
}

func last(p *params.Params, key string) (string, bool) {
	v := p.Values(key)
	if len(v) == 0 {
		return "", false
	}

	return v[len(v)-1], true
}
