// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/urfave/cli/v3"
)

const usageText = `everyfile --src DIR [--dest DIR] [--file GLOB]... [--not-file GLOB]... --run COMMAND
   everyfile --src DIR [--file GLOB]... --run-js SCRIPT
   everyfile --run COMMAND [--NAME VALUE]...`

const description = `Runs a command once for every file that matches a glob pattern.

Flags:
   --src DIR          source directory, without it the command runs once
   --dest DIR         destination directory, enables {{dest-file}}
   --file GLOB        include pattern relative to --src, repeatable
   --not-file GLOB    exclude pattern relative to --src, repeatable
   --run COMMAND      command template run by the shell
   --run-js SCRIPT    template evaluated as JavaScript
   --silent           do not echo commands, output or warnings
   --dot              let wildcards match dotfiles
   --config URL       YAML or HCL file with defaults for the flags above
   --config-schema    print the config file JSON schema, --config-schema=markdown for a table
   --help, --version

Placeholders in the template:
   {{src-file}} {{dest-file}} {{file}} {{file-path}} {{file-name}} {{file-ext}} {{file-name-ext}}
   {{NAME}} for any other --NAME VALUE flag

Set EVERYFILE_LOG_LEVEL to DEBUG, INFO, WARN or ERROR to control logging.`

// NewRootCmd creates the root command for the CLI.
// Flags are parsed by the action, so any --NAME VALUE pair becomes a placeholder binding.
func NewRootCmd() *cli.Command {
	return &cli.Command{
		Name:            "everyfile",
		Usage:           "run a command for every file",
		UsageText:       usageText,
		Description:     description,
		Writer:          os.Stdout,
		ErrWriter:       os.Stderr,
		SkipFlagParsing: true,
		HideHelp:        true,
		HideVersion:     true,
		Action:          actionFunc,
		Copyright:       "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
	}
}
