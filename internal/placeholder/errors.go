// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package placeholder

import (
	"errors"
	"fmt"
)

// ErrMissingBinding is matched by every *MissingBindingError.
var ErrMissingBinding = errors.New("missing binding")

// MissingBindingError is returned when a token needs a file path that is not available.
type MissingBindingError struct {
	Name string // token name, e.g. "src-file"
}

// Error implements the error interface.
func (e *MissingBindingError) Error() string {
	switch e.Name {
	case SrcFile:
		return "cannot get source path to substitute {{src-file}} param"
	case DestFile:
		return "cannot get destination path to substitute {{dest-file}} param"
	default:
		return fmt.Sprintf("cannot get path to substitute {{%s}} param", e.Name)
	}
}

// Is allows errors.Is(err, ErrMissingBinding).
func (e *MissingBindingError) Is(target error) bool {
	return target == ErrMissingBinding
}
