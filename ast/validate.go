// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"fmt"
	"os"
	"strings"
)

// ValidateSourcePath confirms that path names an analyzable Python source file.
//
// Description:
//
//	Pure read-only predicate run before any parsing: the path must exist on
//	the local filesystem and carry one of the Python source suffixes the
//	parser recognizes (.py, .pyi). The file content is not inspected here;
//	syntax problems surface later from PythonParser.Parse.
//
// Inputs:
//   - path: Filesystem path to the candidate source file.
//
// Outputs:
//   - error: Nil on success. Wraps ErrFileNotFound if nothing exists at the
//     path, ErrUnsupportedKind if the suffix is not recognized. Use
//     errors.Is() to distinguish the two.
//
// Example:
//
//	if err := ast.ValidateSourcePath("example.py"); err != nil {
//	    logger.Error("validation failed", "error", err)
//	    return err
//	}
func ValidateSourcePath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	for _, ext := range pythonExtensions {
		if strings.HasSuffix(path, ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedKind, path)
}
