// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph extracts a call graph from a parsed Python source tree.
//
// The Extractor walks the tree in two passes: the first collects the
// complete ordered set of function-definition names, the second analyzes
// each definition body for parameters, return categories, docstrings, and
// call sites. Because the full name set is known before edge construction,
// calls to functions defined later in the file still produce edges.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/mermaidomatic/ast"
)

// Node type constants for Python call-graph traversal.
//
// These match the node types defined in tree-sitter-python.
const (
	pyNodeFunctionDefinition    = "function_definition"
	pyNodeParameters            = "parameters"
	pyNodeTypedParameter        = "typed_parameter"
	pyNodeDefaultParameter      = "default_parameter"
	pyNodeTypedDefaultParameter = "typed_default_parameter"
	pyNodeListSplatPattern      = "list_splat_pattern"
	pyNodeDictSplatPattern      = "dictionary_splat_pattern"
	pyNodeBlock                 = "block"
	pyNodeExpressionStatement   = "expression_statement"
	pyNodeReturnStatement       = "return_statement"
	pyNodeForStatement          = "for_statement"
	pyNodeWhileStatement        = "while_statement"
	pyNodeIdentifier            = "identifier"
	pyNodeString                = "string"
	pyNodeConcatenatedString    = "concatenated_string"
	pyNodeCall                  = "call"
	pyNodeKeywordArgument       = "keyword_argument"
)

// returnCategories maps the tree-sitter node type of a returned expression
// to its human-readable return category.
//
// Types absent from this map fall back to "a <type> expression" so that
// classification is total and deterministic.
var returnCategories = map[string]string{
	pyNodeIdentifier:           "a name reference",
	"integer":                  "a number literal",
	"float":                    "a number literal",
	pyNodeString:               "a string literal",
	pyNodeConcatenatedString:   "a string literal",
	"true":                     "a boolean literal",
	"false":                    "a boolean literal",
	"none":                     "a None literal",
	pyNodeCall:                 "a function call",
	"list":                     "a list construction",
	"tuple":                    "a tuple construction",
	"expression_list":          "a tuple construction",
	"dictionary":               "a dict construction",
	"set":                      "a set construction",
	"list_comprehension":       "a comprehension",
	"set_comprehension":        "a comprehension",
	"dictionary_comprehension": "a comprehension",
	"generator_expression":     "a comprehension",
	"binary_operator":          "a binary operation",
	"boolean_operator":         "a boolean operation",
	"unary_operator":           "a unary operation",
	"comparison_operator":      "a comparison",
	"conditional_expression":   "a conditional expression",
	"lambda":                   "a lambda",
	"attribute":                "an attribute access",
	"subscript":                "a subscript",
	"await":                    "an await expression",
}

// Extractor builds an AnalysisResult from a parsed source tree.
//
// # Description
//
// The Extractor recovers function identities, signatures, inferred return
// categories, and call-site relationships from a single Python source tree.
// It records a call edge only when the call target is a bare identifier
// naming a function defined in the same unit; attribute calls, builtins,
// and imported names are silently ignored.
//
// # Thread Safety
//
// Extractor holds no state; a single instance is safe for concurrent use
// on distinct trees.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract traverses the tree and produces an AnalysisResult.
//
// # Description
//
// Pass 1 walks the entire tree depth-first collecting every
// function_definition node in document order and the deduplicated ordered
// name list. Pass 2 analyzes each definition: parameter names, return
// categories, docstring, and outbound call edges with loop context and
// argument snapshots. A name redefined later in the file keeps a single
// node entry; its metadata is overwritten by the later definition and call
// sites from both bodies are recorded.
//
// Nested function definitions are themselves discovered in pass 1; their
// subtrees are skipped while analyzing the enclosing function's body, so
// each call site is attributed to its innermost enclosing function.
//
// # Inputs
//
//   - ctx: Context for cancellation, checked between definitions.
//   - tree: A parsed source tree. Must not be nil or closed.
//
// # Outputs
//
//   - *AnalysisResult: The extracted model. Never nil on success; extraction
//     does not fail on well-formed trees.
//   - error: Non-nil only for nil inputs or context cancellation.
func (e *Extractor) Extract(ctx context.Context, tree *ast.SourceTree) (*AnalysisResult, error) {
	ctx, span := startExtractSpan(ctx, tree)
	defer span.End()

	start := time.Now()

	if tree == nil || tree.Root() == nil {
		return nil, fmt.Errorf("source tree is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction canceled before start: %w", err)
	}

	content := tree.Content()
	defs := collectFunctionDefs(tree.Root())

	// Pass 1: complete ordered name list, deduplicated.
	functions := make([]string, 0, len(defs))
	known := make(map[string]bool, len(defs))
	names := make([]string, len(defs))
	for i, def := range defs {
		name := nodeFieldText(def, "name", content)
		names[i] = name
		if name == "" {
			continue
		}
		if !known[name] {
			known[name] = true
			functions = append(functions, name)
		}
	}

	// Pass 2: per-definition metadata and call edges.
	calls := make(map[string][]CallEdge)
	details := make(map[string]*FunctionRecord, len(functions))
	edgeCount := 0
	for i, def := range defs {
		name := names[i]
		if name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction canceled: %w", err)
		}

		body := def.ChildByFieldName("body")
		details[name] = &FunctionRecord{
			Name:    name,
			Params:  parameterNames(def.ChildByFieldName("parameters"), content),
			Returns: returnCategorySet(body),
			Doc:     docstring(body, content),
		}

		edges := collectCallEdges(body, name, known, content)
		if len(edges) > 0 {
			calls[name] = append(calls[name], edges...)
			edgeCount += len(edges)
		}
	}

	setExtractSpanResult(span, len(functions), edgeCount)
	recordExtractMetrics(ctx, time.Since(start), len(functions), edgeCount)

	return &AnalysisResult{
		Functions: functions,
		Calls:     calls,
		Details:   details,
	}, nil
}

// collectFunctionDefs returns every function_definition node in the tree
// in depth-first document order, including nested and decorated ones.
func collectFunctionDefs(root *sitter.Node) []*sitter.Node {
	var defs []*sitter.Node

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.Type() == pyNodeFunctionDefinition {
			defs = append(defs, node)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)

	return defs
}

// nodeFieldText returns the source text of a named field child, or "".
func nodeFieldText(node *sitter.Node, field string, content []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return string(content[child.StartByte():child.EndByte()])
}

// parameterNames extracts the declared parameter names in declaration
// order from a parameters node.
//
// All parameter forms contribute their bare identifier: plain, typed,
// defaulted, and splat (*args / **kwargs). Separator tokens ("*", "/")
// contribute nothing. A nil or empty parameters node yields an empty,
// non-nil slice.
func parameterNames(params *sitter.Node, content []byte) []string {
	names := make([]string, 0)
	if params == nil {
		return names
	}

	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case pyNodeIdentifier:
			names = append(names, string(content[child.StartByte():child.EndByte()]))
		case pyNodeDefaultParameter, pyNodeTypedDefaultParameter:
			if name := nodeFieldText(child, "name", content); name != "" {
				names = append(names, name)
			}
		case pyNodeTypedParameter, pyNodeListSplatPattern, pyNodeDictSplatPattern:
			if ident := firstIdentifier(child); ident != nil {
				names = append(names, string(content[ident.StartByte():ident.EndByte()]))
			}
		}
	}

	return names
}

// firstIdentifier returns the first identifier descendant of a node.
func firstIdentifier(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == pyNodeIdentifier {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if ident := firstIdentifier(node.NamedChild(i)); ident != nil {
			return ident
		}
	}
	return nil
}

// returnCategorySet collects the distinct return categories observed in a
// function body, in first-seen order.
//
// Only return statements carrying a value contribute; a body with none
// yields exactly [NoReturnValue]. Nested function definitions are skipped;
// their returns belong to the nested function.
func returnCategorySet(body *sitter.Node) []string {
	categories := make([]string, 0, 2)
	seen := make(map[string]bool)

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil || node.Type() == pyNodeFunctionDefinition {
			return
		}
		if node.Type() == pyNodeReturnStatement && node.NamedChildCount() > 0 {
			category := classifyReturn(node.NamedChild(0))
			if !seen[category] {
				seen[category] = true
				categories = append(categories, category)
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			walk(body.Child(i))
		}
	}

	if len(categories) == 0 {
		return []string{NoReturnValue}
	}
	return categories
}

// classifyReturn maps a returned expression node to its return category.
func classifyReturn(expr *sitter.Node) string {
	if category, ok := returnCategories[expr.Type()]; ok {
		return category
	}
	return fmt.Sprintf("a %s expression", expr.Type())
}

// docstring returns the function's documentation text when the first body
// statement is a standalone string literal, otherwise "".
func docstring(body *sitter.Node, content []byte) string {
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first.Type() != pyNodeExpressionStatement || first.ChildCount() == 0 {
		return ""
	}
	strNode := first.Child(0)
	if strNode.Type() != pyNodeString {
		return ""
	}
	return stringContent(strNode, content)
}

// stringContent extracts the content of a string node, removing quotes.
func stringContent(node *sitter.Node, content []byte) string {
	raw := string(content[node.StartByte():node.EndByte()])

	// Strip string prefixes (r, b, f, u) before the opening quote.
	if idx := strings.IndexAny(raw, `"'`); idx > 0 {
		raw = raw[idx:]
	}
	return strings.Trim(raw, `"'`)
}

// collectCallEdges walks a function body and records an edge for every
// call whose target is a bare identifier naming a known function.
//
// loopDepth counts enclosing for/while statements; any call at depth > 0
// is flagged InLoop. Nested function definitions are skipped. Arguments
// of a recorded call are still walked, so calls nested inside argument
// expressions produce their own edges.
func collectCallEdges(body *sitter.Node, caller string, known map[string]bool, content []byte) []CallEdge {
	var edges []CallEdge

	var walk func(node *sitter.Node, loopDepth int)
	walk = func(node *sitter.Node, loopDepth int) {
		if node == nil || node.Type() == pyNodeFunctionDefinition {
			return
		}

		switch node.Type() {
		case pyNodeForStatement, pyNodeWhileStatement:
			loopDepth++
		case pyNodeCall:
			funcNode := node.ChildByFieldName("function")
			if funcNode != nil && funcNode.Type() == pyNodeIdentifier {
				callee := string(content[funcNode.StartByte():funcNode.EndByte()])
				if known[callee] {
					edges = append(edges, CallEdge{
						Caller: caller,
						Callee: callee,
						InLoop: loopDepth > 0,
						Args:   callArguments(node.ChildByFieldName("arguments"), content),
					})
				}
			}
		}

		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i), loopDepth)
		}
	}
	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			walk(body.Child(i), 0)
		}
	}

	return edges
}

// callArguments classifies the positional arguments of a call.
//
// Keyword arguments are skipped; only positional arguments are
// snapshotted onto the edge label.
func callArguments(argList *sitter.Node, content []byte) []Argument {
	args := make([]Argument, 0)
	if argList == nil {
		return args
	}

	for i := 0; i < int(argList.NamedChildCount()); i++ {
		child := argList.NamedChild(i)
		if child.Type() == pyNodeKeywordArgument {
			continue
		}
		args = append(args, classifyArgument(child, content))
	}

	return args
}

// classifyArgument maps one argument node to its descriptor.
func classifyArgument(node *sitter.Node, content []byte) Argument {
	switch node.Type() {
	case pyNodeIdentifier:
		return Argument{
			Kind: ArgKindName,
			Text: string(content[node.StartByte():node.EndByte()]),
		}
	case "integer", "float", "true", "false", "none":
		return Argument{
			Kind: ArgKindLiteral,
			Text: string(content[node.StartByte():node.EndByte()]),
		}
	case pyNodeString, pyNodeConcatenatedString:
		// Literal value, not source text: string literals render unquoted.
		return Argument{
			Kind: ArgKindLiteral,
			Text: stringContent(node, content),
		}
	default:
		return Argument{
			Kind: ArgKindOther,
			Text: node.Type(),
		}
	}
}
