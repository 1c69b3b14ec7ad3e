// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ast validates and parses Python source files into syntax trees.
//
// The package wraps tree-sitter with the Python grammar. It owns the first
// two stages of the pipeline: ValidateSourcePath (existence and suffix
// checks) and PythonParser.Parse (source text to SourceTree). Structural
// analysis of the tree lives in the graph package.
package ast

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

const (
	// DefaultMaxFileSize is the maximum file size the parser will accept (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// pythonExtensions lists the file suffixes recognized as Python source.
var pythonExtensions = []string{".py", ".pyi"}

// PythonParserOption configures a PythonParser instance.
type PythonParserOption func(*PythonParser)

// WithMaxFileSize sets the maximum file size the parser will accept.
//
// Parameters:
//   - bytes: Maximum file size in bytes. Must be positive.
//
// Example:
//
//	parser := ast.NewPythonParser(ast.WithMaxFileSize(5 * 1024 * 1024)) // 5MB limit
func WithMaxFileSize(bytes int64) PythonParserOption {
	return func(p *PythonParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// PythonParser converts Python source text into a SourceTree.
//
// Description:
//
//	PythonParser uses tree-sitter with the Python grammar. Each Parse call
//	creates its own tree-sitter parser instance internally, so a single
//	PythonParser is safe for concurrent use from multiple goroutines.
//
//	The parser is strict for this tool's purposes: a tree containing error
//	nodes is rejected with a *ParseError rather than returned partially,
//	because downstream call-graph extraction assumes a well-formed tree.
//
// Example:
//
//	parser := ast.NewPythonParser()
//	tree, err := parser.Parse(ctx, content, "main.py")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type PythonParser struct {
	maxFileSize int64
}

// NewPythonParser creates a new PythonParser with the given options.
//
// Inputs:
//   - opts: Optional configuration functions (WithMaxFileSize).
//
// Outputs:
//   - *PythonParser: Configured parser instance, never nil.
func NewPythonParser(opts ...PythonParserOption) *PythonParser {
	p := &PythonParser{
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Language returns the canonical language name for this parser.
func (p *PythonParser) Language() string {
	return "python"
}

// Extensions returns the file extensions this parser handles.
//
// Returns:
//   - []string{".py", ".pyi"} for Python source and stub files
func (p *PythonParser) Extensions() []string {
	return pythonExtensions
}

// Parse converts Python source text into a SourceTree.
//
// Description:
//
//	Parse runs tree-sitter over the provided content and returns the
//	resulting syntax tree wrapped in a SourceTree. Unlike tree-sitter's
//	error-tolerant default, a tree containing error or missing nodes is
//	rejected with a *ParseError carrying the first such node's position.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing;
//     tree-sitter parsing itself cannot be interrupted mid-parse.
//   - content: Raw Python source bytes. Must be valid UTF-8.
//   - filePath: Path to the file, used for diagnostics only.
//
// Outputs:
//   - *SourceTree: The parsed tree. Caller must call Close() when done.
//   - error: Non-nil on failure:
//   - ErrFileTooLarge: content exceeds the configured maximum
//   - ErrInvalidContent: content is not valid UTF-8
//   - *ParseError: source contains syntax errors
//   - context errors: ctx was canceled or timed out
//
// Thread Safety:
//
//	Safe for concurrent use; each call creates a fresh tree-sitter parser.
func (p *PythonParser) Parse(ctx context.Context, content []byte, filePath string) (*SourceTree, error) {
	ctx, span := startParseSpan(ctx, "python", filePath, len(content))
	defer span.End()

	start := time.Now()

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, "python", time.Since(start), false)
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	if int64(len(content)) > p.maxFileSize {
		recordParseMetrics(ctx, "python", time.Since(start), false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	if !utf8.Valid(content) {
		recordParseMetrics(ctx, "python", time.Since(start), false)
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	// New instance per call for thread safety.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		recordParseMetrics(ctx, "python", time.Since(start), false)
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		recordParseMetrics(ctx, "python", time.Since(start), false)
		return nil, &ParseError{FilePath: filePath, Message: "tree-sitter returned nil root node"}
	}

	if root.HasError() {
		perr := firstSyntaxError(root, filePath)
		tree.Close()
		recordParseMetrics(ctx, "python", time.Since(start), false)
		return nil, perr
	}

	if err := ctx.Err(); err != nil {
		tree.Close()
		recordParseMetrics(ctx, "python", time.Since(start), false)
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	recordParseMetrics(ctx, "python", time.Since(start), true)

	return &SourceTree{
		tree:     tree,
		root:     root,
		content:  content,
		filePath: filePath,
	}, nil
}

// firstSyntaxError locates the first error or missing node in the tree and
// builds a *ParseError from its position.
func firstSyntaxError(root *sitter.Node, filePath string) *ParseError {
	var found *sitter.Node

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil || found != nil {
			return
		}
		if node.IsError() || node.IsMissing() {
			found = node
			return
		}
		if !node.HasError() {
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)

	if found == nil {
		return &ParseError{FilePath: filePath, Message: "source contains syntax errors"}
	}

	msg := "syntax error"
	if found.IsMissing() {
		msg = fmt.Sprintf("missing %s", found.Type())
	}
	return &ParseError{
		FilePath: filePath,
		Line:     int(found.StartPoint().Row + 1),
		Column:   int(found.StartPoint().Column),
		Message:  msg,
	}
}

// SourceTree is a parsed Python syntax tree together with the source bytes
// that back it.
//
// Tree-sitter nodes reference byte offsets into the original content, so the
// tree and the content travel together. The underlying tree owns C-allocated
// memory; callers must Close() the SourceTree when finished with it.
type SourceTree struct {
	tree     *sitter.Tree
	root     *sitter.Node
	content  []byte
	filePath string
}

// Root returns the root node of the syntax tree.
func (t *SourceTree) Root() *sitter.Node {
	return t.root
}

// Content returns the source bytes the tree was parsed from.
//
// The returned slice must not be mutated while the tree is in use.
func (t *SourceTree) Content() []byte {
	return t.content
}

// FilePath returns the path of the file the tree was parsed from.
func (t *SourceTree) FilePath() string {
	return t.filePath
}

// Close releases the tree-sitter resources backing the tree.
//
// The SourceTree must not be used after Close.
func (t *SourceTree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
		t.root = nil
	}
}
