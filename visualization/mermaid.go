// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package visualization serializes extracted call graphs into Mermaid.js
// diagram syntax suitable for embedding in Markdown.
package visualization

import (
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/mermaidomatic/graph"
)

// Edge label verbs. A call site lexically inside a loop is labeled
// in_loop; every other call site is labeled calls.
const (
	labelInLoop = "in_loop"
	labelCalls  = "calls"
)

// docAbsent is rendered in a node's DOC segment when the function has
// no docstring.
const docAbsent = "None"

// Options configures Mermaid generation.
type Options struct {
	// Direction is the graph layout direction (TD, LR, BT, RL).
	// Default: "TD"
	Direction string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Direction: "TD",
	}
}

// Generator serializes an analysis result into a fenced Mermaid block.
//
// # Description
//
// Emits one node statement per discovered function and one edge statement
// per recorded call site. Output is fully deterministic: nodes follow the
// result's function order and edges follow call-site order per caller.
//
// # Thread Safety
//
// Safe for concurrent use.
type Generator struct {
	options Options
}

// NewGenerator creates a new Mermaid generator.
func NewGenerator(opts *Options) *Generator {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	return &Generator{options: *opts}
}

// Generate serializes the analysis result into a fenced Mermaid block.
//
// # Inputs
//
//   - ctx: Context for cancellation.
//   - result: The analysis result to serialize.
//
// # Outputs
//
//   - string: The fenced ```mermaid block.
//   - error: Non-nil when ctx or result is nil.
func (g *Generator) Generate(ctx context.Context, result *graph.AnalysisResult) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context is required")
	}
	if result == nil {
		return "", fmt.Errorf("analysis result is required")
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("graph %s;\n", g.options.Direction))

	for _, name := range result.Functions {
		sb.WriteString(nodeStatement(name, result.Details[name]))
	}

	for _, name := range result.Functions {
		for _, edge := range result.Calls[name] {
			sb.WriteString(edgeStatement(edge))
		}
	}

	sb.WriteString("```")
	return sb.String(), nil
}

// nodeStatement renders one function node.
//
// The label packs the name, parameter list, return categories, and
// docstring into a single line, with literal \n\n sequences that Mermaid
// renders as blank-line breaks inside the node.
func nodeStatement(name string, rec *graph.FunctionRecord) string {
	params := ""
	returns := graph.NoReturnValue
	doc := docAbsent

	if rec != nil {
		params = strings.Join(rec.Params, ", ")
		if len(rec.Returns) > 0 {
			returns = strings.Join(rec.Returns, ", ")
		}
		if rec.Doc != "" {
			doc = escapeLabel(rec.Doc)
		}
	}

	return fmt.Sprintf("%s(%s\\n\\nPARAMS: %s\\n\\nRETURNS: %s\\n\\nDOC: %s)\n",
		name, name, params, returns, doc)
}

// edgeStatement renders one call-site edge with its label.
func edgeStatement(edge graph.CallEdge) string {
	verb := labelCalls
	if edge.InLoop {
		verb = labelInLoop
	}

	args := make([]string, len(edge.Args))
	for i, arg := range edge.Args {
		args[i] = escapeLabel(arg.Text)
	}

	return fmt.Sprintf("%s-->|\"%s params: %s\"|%s;\n",
		edge.Caller, verb, strings.Join(args, ", "), edge.Callee)
}

// escapeLabel makes free text safe inside a Mermaid label.
//
// Double quotes would terminate the label early and real newlines would
// break the statement, so both are replaced.
func escapeLabel(s string) string {
	replacer := strings.NewReplacer(
		"\"", "#quot;",
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
