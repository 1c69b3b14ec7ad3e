// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report assembles the final Markdown document around a generated
// diagram and writes it to disk.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrWriteFailed indicates the report could not be written to the
// output path.
var ErrWriteFailed = errors.New("report write failed")

// timestampLayout renders generation time as a human-readable UTC stamp.
const timestampLayout = "2006-01-02 15:04:05 MST"

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithClock overrides the time source. Used by tests to pin the
// generation timestamp.
func WithClock(clock func() time.Time) WriterOption {
	return func(w *Writer) {
		if clock != nil {
			w.now = clock
		}
	}
}

// Writer renders a Markdown report around a diagram and persists it.
//
// # Thread Safety
//
// Safe for concurrent use.
type Writer struct {
	now func() time.Time
}

// NewWriter creates a report writer.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Render assembles the full Markdown document for a diagram.
//
// # Inputs
//
//   - diagram: The fenced Mermaid block to embed.
//   - sourcePath: The analyzed source file; only its base name appears
//     in the header.
//
// # Outputs
//
//   - string: The complete Markdown document.
func (w *Writer) Render(diagram, sourcePath string) string {
	stamp := w.now().UTC().Format(timestampLayout)
	return fmt.Sprintf("# Generated Mermaid.js Diagram\n\n**File Name:** %s\n**Date and Time of Diagram Generation:** %s\n\n%s",
		filepath.Base(sourcePath), stamp, diagram)
}

// Write renders the report and writes it to outputPath.
//
// The file is created or truncated. On failure the returned error wraps
// ErrWriteFailed.
func (w *Writer) Write(diagram, sourcePath, outputPath string) error {
	document := w.Render(diagram, sourcePath)
	if err := os.WriteFile(outputPath, []byte(document), 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, outputPath, err)
	}
	return nil
}
