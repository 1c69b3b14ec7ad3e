// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

// NoReturnValue is the sentinel return category reported for functions
// with no return statement carrying a value.
//
// It is a fixed label, never empty text, so serialized nodes always show
// a RETURNS entry.
const NoReturnValue = "no returned value"

// ArgKind classifies a call argument's syntactic form.
//
// This is a closed tagged variant: every argument at a recorded call site
// is exactly one of name reference, literal value, or other syntactic kind.
type ArgKind int

const (
	// ArgKindName is a bare name reference passed as an argument.
	ArgKindName ArgKind = iota

	// ArgKindLiteral is a literal value (number, string, boolean, None).
	ArgKindLiteral

	// ArgKindOther is any other expression form; Text carries a label
	// naming the syntactic kind (e.g. "binary_operator", "call").
	ArgKindOther
)

// String returns the string representation of the ArgKind.
func (k ArgKind) String() string {
	switch k {
	case ArgKindName:
		return "name"
	case ArgKindLiteral:
		return "literal"
	case ArgKindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Argument is one positional argument observed at a call site.
//
// Text holds the referenced name for ArgKindName, the literal value for
// ArgKindLiteral (string literals are unquoted), or the syntactic-kind
// label for ArgKindOther. Text is what the serializer renders.
type Argument struct {
	// Kind classifies the argument's syntactic form.
	Kind ArgKind

	// Text is the rendered descriptor for the argument.
	Text string
}

// CallEdge is a directed relation from a caller function to a callee name,
// recorded once per call site.
//
// Multiple edges between the same caller/callee pair are preserved; they
// represent distinct call sites in the source.
type CallEdge struct {
	// Caller is the name of the enclosing function.
	Caller string

	// Callee is the called function's name. Always a member of the
	// analyzed unit's function set.
	Callee string

	// InLoop is true when the call site is lexically nested, at any
	// depth, inside a for or while statement within the caller's body.
	// Nesting depth is not distinguished.
	InLoop bool

	// Args are the positional argument descriptors at the call site,
	// in argument order. Keyword arguments are not snapshotted.
	Args []Argument
}

// FunctionRecord is the descriptive metadata for one function name in the
// analyzed unit.
//
// Identity is the function name, unique within the unit: a later definition
// with the same name overwrites the record's fields but does not create a
// second graph node.
type FunctionRecord struct {
	// Name is the function's declared name.
	Name string

	// Params are the declared parameter names in declaration order.
	// A zero-parameter function has an empty, non-nil slice.
	Params []string

	// Returns are the distinct return-value categories observed in the
	// function body, in first-seen order. Contains exactly
	// [NoReturnValue] when no return statement carries a value.
	Returns []string

	// Doc is the function's docstring text, or "" when the first body
	// statement is not a standalone string literal.
	Doc string
}

// AnalysisResult is the output of one extraction pass over a source tree.
//
// The triple is immutable once returned from Extractor.Extract and is
// consumed only by the visualization serializer:
//
//   - Functions: discovered function names in first-definition order,
//     deduplicated (redefinitions do not append).
//   - Calls: caller name to outbound call edges, in call-site order.
//     Redefinitions append their bodies' call sites to the same caller.
//   - Details: function name to descriptive metadata; redefinitions
//     overwrite.
type AnalysisResult struct {
	// Functions is the ordered sequence of discovered function names.
	Functions []string

	// Calls maps a caller name to its outbound edges.
	Calls map[string][]CallEdge

	// Details maps a function name to its metadata record.
	Details map[string]*FunctionRecord
}
