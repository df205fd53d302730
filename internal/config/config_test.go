// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/everyfile/internal/params"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromParams(t *testing.T) {
	p := params.Parse([]string{
		"--src", "./in/",
		"--dest=./out/",
		"--file", "*.txt",
		"--file", "*.md",
		"--not-file", "skip.txt",
		"--run", "cp {{src-file}} {{dest-file}}",
		"--silent",
		"--target", "x",
	})

	c := FromParams(p)

	assert.Equal(t, "./in/", c.SrcDir)
	assert.Equal(t, "./out/", c.DestDir)
	assert.Equal(t, []string{"*.txt", "*.md"}, c.Include)
	assert.Equal(t, []string{"skip.txt"}, c.Exclude)
	assert.Equal(t, "cp {{src-file}} {{dest-file}}", c.Command)
	assert.Equal(t, ModeShell, c.Mode)
	assert.True(t, c.Silent)
	assert.False(t, c.Dot)

	v, ok := c.Bindings.Get("target")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.True(t, c.Bindings.Has("src"))
	assert.False(t, c.Bindings.Has("run"))
	assert.Equal(t, 6, c.Bindings.Len())
	assert.True(t, p.Has("run"), "parameters must not be modified")
}

func TestFromParams_CommandSelection(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		mode    Mode
	}{
		{name: "shell", args: []string{"--run", "ls"}, command: "ls", mode: ModeShell},
		{name: "script", args: []string{"--run-js", "console.log(1)"}, command: "console.log(1)", mode: ModeScript},
		{name: "both given, run wins as template", args: []string{"--run", "ls", "--run-js", "x()"}, command: "ls", mode: ModeScript},
		{name: "empty run falls back to run-js", args: []string{"--run=", "--run-js", "x()"}, command: "x()", mode: ModeScript},
		{name: "none", args: []string{"--src", "."}, command: "", mode: ModeShell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromParams(params.Parse(tt.args))
			assert.Equal(t, tt.command, c.Command)
			assert.Equal(t, tt.mode, c.Mode)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Config{Command: "ls", Include: []string{"**/*.go"}}))

	err := Validate(Config{})
	require.ErrorIs(t, err, ErrNoCommand)

	err = Validate(Config{Mode: Mode(7), Include: []string{"[a-"}, Exclude: []string{"{x"}})
	require.ErrorIs(t, err, ErrNoCommand)
	require.ErrorIs(t, err, ErrInvalidConfig)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 4)
}

func TestLoad_NoConfigParam(t *testing.T) {
	called := false
	stubs := gostub.Stub(&Getter, func(context.Context, string) ([]byte, error) {
		called = true
		return nil, nil
	})
	defer stubs.Reset()

	c, err := Load(context.Background(), params.Parse([]string{"--run", "ls"}))
	require.NoError(t, err)
	assert.Equal(t, "ls", c.Command)
	assert.False(t, called)
}

func TestLoad_YAMLWithPrecedence(t *testing.T) {
	content := `
src: ./from-file/
dest: ./out/
file:
  - "*.md"
  - "*.txt"
not_file: draft.md
run: echo {{file}}
silent: true
params:
  style: github
  target: file-target
`
	stubs := gostub.Stub(&Getter, func(_ context.Context, url string) ([]byte, error) {
		assert.Equal(t, "./everyfile.yaml", url)
		return []byte(content), nil
	})
	defer stubs.Reset()

	c, err := Load(context.Background(), params.Parse([]string{
		"--config", "./everyfile.yaml",
		"--src", "./from-cli/",
		"--target", "cli-target",
	}))
	require.NoError(t, err)

	assert.Equal(t, "./from-cli/", c.SrcDir)
	assert.Equal(t, "./out/", c.DestDir)
	assert.Equal(t, []string{"*.md", "*.txt"}, c.Include)
	assert.Equal(t, []string{"draft.md"}, c.Exclude)
	assert.Equal(t, "echo {{file}}", c.Command)
	assert.Equal(t, ModeShell, c.Mode)
	assert.True(t, c.Silent)

	style, _ := c.Bindings.Get("style")
	assert.Equal(t, "github", style)

	target, _ := c.Bindings.Get("target")
	assert.Equal(t, "cli-target", target)

	assert.False(t, c.Bindings.Has("config"))
}

func TestLoad_CLICommandOverridesFile(t *testing.T) {
	stubs := gostub.Stub(&Getter, func(context.Context, string) ([]byte, error) {
		return []byte("run: echo file\n"), nil
	})
	defer stubs.Reset()

	c, err := Load(context.Background(), params.Parse([]string{"--config", "c.yml", "--run-js", "go()"}))
	require.NoError(t, err)
	assert.Equal(t, "go()", c.Command)
	assert.Equal(t, ModeScript, c.Mode)
}

func TestLoad_HCL(t *testing.T) {
	t.Setenv("EVERYFILE_TEST_OUT", "/tmp/out")

	content := `
src    = "./src/"
dest   = "${env.EVERYFILE_TEST_OUT}/"
file   = "**/*.md"
run_js = "console.log('x')"
dot    = true
params = {
  style = "github"
}
`
	stubs := gostub.Stub(&Getter, func(context.Context, string) ([]byte, error) {
		return []byte(content), nil
	})
	defer stubs.Reset()

	c, err := Load(context.Background(), params.Parse([]string{"--config", "git::https://example.com/repo//everyfile.hcl?ref=main"}))
	require.NoError(t, err)

	assert.Equal(t, "./src/", c.SrcDir)
	assert.Equal(t, "/tmp/out/", c.DestDir)
	assert.Equal(t, []string{"**/*.md"}, c.Include)
	assert.Nil(t, c.Exclude)
	assert.Equal(t, "console.log('x')", c.Command)
	assert.Equal(t, ModeScript, c.Mode)
	assert.True(t, c.Dot)

	style, _ := c.Bindings.Get("style")
	assert.Equal(t, "github", style)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		content string
		getErr  error
	}{
		{name: "getter failure", url: "c.yaml", getErr: errors.New("boom")},
		{name: "unknown extension", url: "c.toml", content: "run = 'x'"},
		{name: "unknown yaml field", url: "c.yaml", content: "command: ls\n"},
		{name: "bad yaml list", url: "c.yaml", content: "file:\n  a: b\n"},
		{name: "bad hcl", url: "c.hcl", content: "run = \n"},
		{name: "bad hcl list", url: "c.hcl", content: "file = { a = 1 }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubs := gostub.Stub(&Getter, func(context.Context, string) ([]byte, error) {
				return []byte(tt.content), tt.getErr
			})
			defer stubs.Reset()

			_, err := Load(context.Background(), params.Parse([]string{"--config", tt.url}))
			require.ErrorIs(t, err, ErrConfigFile)
		})
	}
}

func TestSplitFileNameFromGetterURL(t *testing.T) {
	tests := []struct {
		url      string
		newURL   string
		fileName string
	}{
		{
			url:      "git::https://github.com/org/repo//path/to/everyfile.yaml?ref=v1",
			newURL:   "git::https://github.com/org/repo//path/to?ref=v1",
			fileName: "everyfile.yaml",
		},
		{
			url:      "git::https://github.com/org/repo//everyfile.yaml",
			newURL:   "git::https://github.com/org/repo",
			fileName: "everyfile.yaml",
		},
		{url: "https://example.com/everyfile.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			newURL, fileName := splitFileNameFromGetterURL(tt.url)
			assert.Equal(t, tt.newURL, newURL)
			assert.Equal(t, tt.fileName, fileName)
		})
	}
}
