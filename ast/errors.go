// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation and parse failure conditions.
//
// These errors can be checked using errors.Is() to determine the
// category of failure without inspecting error messages.
var (
	// ErrFileNotFound indicates that nothing exists at the input path.
	//
	// Example:
	//   if err := ast.ValidateSourcePath(path); errors.Is(err, ast.ErrFileNotFound) {
	//       // report and exit without writing output
	//   }
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedKind indicates that the input path does not carry a
	// recognized Python source suffix (.py or .pyi).
	ErrUnsupportedKind = errors.New("not a Python source file")

	// ErrInvalidContent indicates that the provided content is invalid
	// and cannot be processed.
	//
	// Common causes:
	//   - Nil content slice
	//   - Non-UTF-8 encoding
	//   - Binary file content
	ErrInvalidContent = errors.New("invalid content")

	// ErrFileTooLarge indicates that the content exceeds the parser's
	// configured maximum file size.
	ErrFileTooLarge = errors.New("file too large")
)

// ParseError provides detailed information about a syntax failure.
//
// ParseError wraps the parser's native diagnostic with the location
// of the first offending construct in the source file. It implements
// the error interface and can be unwrapped to access an underlying
// cause.
//
// Example:
//
//	tree, err := parser.Parse(ctx, content, "main.py")
//	if err != nil {
//	    var parseErr *ast.ParseError
//	    if errors.As(err, &parseErr) {
//	        fmt.Printf("Syntax error at %s:%d:%d: %s\n",
//	            parseErr.FilePath, parseErr.Line, parseErr.Column, parseErr.Message)
//	    }
//	}
type ParseError struct {
	// FilePath is the path to the file where the error occurred.
	FilePath string

	// Line is the 1-indexed line number where the error occurred.
	// May be 0 if the error is not associated with a specific line.
	Line int

	// Column is the 0-indexed column where the error occurred.
	// May be 0 if the error is not associated with a specific column.
	Column int

	// Message describes the error in human-readable form.
	Message string

	// Cause is the underlying error that triggered this parse error.
	// May be nil if this is a primary error.
	Cause error
}

// Error returns a formatted error message including file location.
//
// Format depends on available location information:
//   - With line and column: "file.py:10:5: unexpected token"
//   - With line only:       "file.py:10: unexpected token"
//   - Without location:     "file.py: unexpected token"
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
