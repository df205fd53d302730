// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package params

import "strings"

// Parse parses command line arguments, without the program name.
func Parse(args []string) *Params {
	p := New()

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			for _, rest := range args[i+1:] {
				p.Add(PositionalKey, rest)
			}

			return p

		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			name := arg[2:]

			if k, v, ok := strings.Cut(name, "="); ok {
				p.Add(k, v)
				continue
			}

			if k, ok := strings.CutPrefix(name, "no-"); ok && k != "" {
				p.Add(k, falseValue)
				continue
			}

			if i+1 < len(args) && !isFlag(args[i+1]) {
				p.Add(name, args[i+1])
				i++

				continue
			}

			p.Add(name, trueValue)

		case isFlag(arg):
			i += parseShort(p, arg[1:], args[i+1:])

		default:
			p.Add(PositionalKey, arg)
		}
	}

	return p
}

// parseShort handles a group of single letter flags and returns how many
// of the following arguments it consumed.
func parseShort(p *Params, letters string, rest []string) int {
	if k, v, ok := strings.Cut(letters, "="); ok {
		if k == "" {
			p.Add(PositionalKey, "-"+letters)
			return 0
		}

		for _, c := range k[:len(k)-1] {
			p.Add(string(c), trueValue)
		}

		p.Add(k[len(k)-1:], v)

		return 0
	}

	last := letters[len(letters)-1:]
	for _, c := range letters[:len(letters)-1] {
		p.Add(string(c), trueValue)
	}

	if len(rest) > 0 && !isFlag(rest[0]) {
		p.Add(last, rest[0])
		return 1
	}

	p.Add(last, trueValue)

	return 0
}

// isFlag reports whether arg starts with one or two dashes followed by something other than a dash.
func isFlag(arg string) bool {
	switch {
	case len(arg) >= 2 && arg[0] == '-' && arg[1] != '-':
		return true
	case len(arg) >= 3 && strings.HasPrefix(arg, "--") && arg[2] != '-':
		return true
	default:
		return false
	}
}
