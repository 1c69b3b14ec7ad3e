// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
}

func TestWriter_Render(t *testing.T) {
	w := NewWriter(WithClock(fixedClock))

	got := w.Render("```mermaid\ngraph TD;\n```", "/tmp/some/dir/example.py")

	want := "# Generated Mermaid.js Diagram\n\n" +
		"**File Name:** example.py\n" +
		"**Date and Time of Diagram Generation:** 2025-03-14 09:26:53 UTC\n\n" +
		"```mermaid\ngraph TD;\n```"
	if got != want {
		t.Errorf("unexpected document:\n got: %q\nwant: %q", got, want)
	}
}

func TestWriter_Render_NonUTCClock(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	w := NewWriter(WithClock(func() time.Time {
		return time.Date(2025, time.March, 14, 1, 26, 53, 0, loc)
	}))

	got := w.Render("```mermaid\ngraph TD;\n```", "example.py")

	// The stamp is always normalized to UTC.
	if want := "2025-03-14 09:26:53 UTC"; !strings.Contains(got, want) {
		t.Errorf("expected UTC timestamp %q in:\n%s", want, got)
	}
}

func TestWriter_Write(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.md")
	w := NewWriter(WithClock(fixedClock))

	if err := w.Write("```mermaid\ngraph TD;\n```", "example.py", outputPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != w.Render("```mermaid\ngraph TD;\n```", "example.py") {
		t.Error("written file does not match rendered document")
	}
}

func TestWriter_Write_MissingParentDir(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "does", "not", "exist", "out.md")
	w := NewWriter()

	err := w.Write("```mermaid\ngraph TD;\n```", "example.py", outputPath)
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("expected ErrWriteFailed, got %v", err)
	}
}
