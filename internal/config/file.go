// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/matt-FFFFFF/everyfile/internal/params"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrUnsupportedFormat is returned when the config file extension is neither YAML nor HCL.
var ErrUnsupportedFormat = errors.New("unsupported config file format, use .yaml, .yml or .hcl")

// File is the content of a config file.
type File struct {
	Src     string            `yaml:"src,omitempty" docdesc:"Source directory. Without it the command runs once."`
	Dest    string            `yaml:"dest,omitempty" docdesc:"Destination directory, enables {{dest-file}}."`
	File    StringList        `yaml:"file,omitempty" docdesc:"Include glob pattern(s) relative to src." doctype:"string|array"`
	NotFile StringList        `yaml:"not_file,omitempty" docdesc:"Exclude glob pattern(s) relative to src." doctype:"string|array"`
	Run     string            `yaml:"run,omitempty" docdesc:"Command template run by the shell."`
	RunJS   string            `yaml:"run_js,omitempty" docdesc:"Command template evaluated as JavaScript."`
	Silent  bool              `yaml:"silent,omitempty" docdesc:"Do not echo commands, output or warnings."`
	Dot     bool              `yaml:"dot,omitempty" docdesc:"Let wildcards match dotfiles."`
	Params  map[string]string `yaml:"params,omitempty" docdesc:"Extra placeholder values, overridden by command line flags."`
}

// StringList accepts either a single string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (l *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*l = StringList{s}
		return nil
	}

	var list []string
	if err := unmarshal(&list); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}

	*l = list

	return nil
}

// Config converts the file into a Config.
func (f *File) Config() Config {
	c := Config{
		SrcDir:   f.Src,
		DestDir:  f.Dest,
		Include:  []string(f.File),
		Exclude:  []string(f.NotFile),
		Command:  f.Run,
		Mode:     ModeShell,
		Silent:   f.Silent,
		Dot:      f.Dot,
		Bindings: params.FromMap(f.Params),
	}

	if f.RunJS != "" {
		c.Mode = ModeScript
		if c.Command == "" {
			c.Command = f.RunJS
		}
	}

	return c
}

// Decode decodes a config file. The format is chosen by the extension of name.
func Decode(name string, data []byte) (*File, error) {
	var (
		f   *File
		err error
	)

	switch ext := strings.ToLower(path.Ext(stripQuery(name))); ext {
	case ".yaml", ".yml":
		f, err = decodeYAML(data)
	case ".hcl":
		f, err = decodeHCL(name, data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, errors.Join(ErrConfigFile, err)
	}

	return f, nil
}

func decodeYAML(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.UnmarshalWithOptions(data, f, yaml.DisallowUnknownField()); err != nil {
		return nil, err
	}

	return f, nil
}

type hclFile struct {
	Src     string            `hcl:"src,optional"`
	Dest    string            `hcl:"dest,optional"`
	File    hcl.Expression    `hcl:"file,optional"`
	NotFile hcl.Expression    `hcl:"not_file,optional"`
	Run     string            `hcl:"run,optional"`
	RunJS   string            `hcl:"run_js,optional"`
	Silent  bool              `hcl:"silent,optional"`
	Dot     bool              `hcl:"dot,optional"`
	Params  map[string]string `hcl:"params,optional"`
}

func decodeHCL(name string, data []byte) (*File, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, diags
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hf hclFile
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &hf); diags.HasErrors() {
		return nil, diags
	}

	include, err := stringList(hf.File, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("file: %w", err)
	}

	exclude, err := stringList(hf.NotFile, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("not_file: %w", err)
	}

	return &File{
		Src:     hf.Src,
		Dest:    hf.Dest,
		File:    include,
		NotFile: exclude,
		Run:     hf.Run,
		RunJS:   hf.RunJS,
		Silent:  hf.Silent,
		Dot:     hf.Dot,
		Params:  hf.Params,
	}, nil
}

// stringList evaluates an expression that is either a string or a list of strings.
func stringList(expr hcl.Expression, evalCtx *hcl.EvalContext) (StringList, error) {
	if expr == nil {
		return nil, nil
	}

	v, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}

	if v.IsNull() {
		return nil, nil
	}

	if v.Type() == cty.String {
		return StringList{v.AsString()}, nil
	}

	if !v.CanIterateElements() || v.Type().IsMapType() || v.Type().IsObjectType() {
		return nil, fmt.Errorf("%w: expected a string or a list of strings, got %s", ErrInvalidConfig, v.Type().FriendlyName())
	}

	var list StringList

	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()

		s, err := convert.Convert(ev, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		if s.IsNull() {
			return nil, fmt.Errorf("%w: null list element", ErrInvalidConfig)
		}

		list = append(list, s.AsString())
	}

	return list, nil
}

func envObject() cty.Value {
	vars := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		vars[k] = cty.StringVal(v)
	}

	return cty.ObjectVal(vars)
}

func stripQuery(name string) string {
	if i := strings.IndexByte(name, '?'); i >= 0 {
		return name[:i]
	}

	return name
}
