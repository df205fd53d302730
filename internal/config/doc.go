// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config builds the immutable run configuration.
//
// The configuration comes from the command line parameters, optionally layered over
// a YAML or HCL config file named by the --config parameter.
// Config file locations use Hashicorp's go-getter syntax, see https://github.com/hashicorp/go-getter.
//
// Example YAML config file:
//
//	src: ./src/
//	dest: ./out/
//	file:
//	  - "**/*.md"
//	not_file: "drafts/**"
//	run: pandoc {{src-file}} -o {{dest-file}}.html
//	params:
//	  style: github
//
// The same file in HCL, where environment variables are available as env.NAME:
//
//	src  = "./src/"
//	dest = "${env.OUT_DIR}/"
//	file = ["**/*.md"]
//	run  = "pandoc {{src-file}} -o {{dest-file}}.html"
//	params = {
//	  style = "github"
//	}
package config
