// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/mermaidomatic/ast"
)

// extract parses source and runs the extractor, failing the test on error.
func extract(t *testing.T, source string) *AnalysisResult {
	t.Helper()

	parser := ast.NewPythonParser()
	tree, err := parser.Parse(context.Background(), []byte(source), "test.py")
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	result, err := NewExtractor().Extract(context.Background(), tree)
	require.NoError(t, err)
	return result
}

func TestExtract_HelperMainScenario(t *testing.T) {
	source := `def helper(x):
    return x

def main(n):
    for i in range(n):
        helper(n)
`
	result := extract(t, source)

	assert.Equal(t, []string{"helper", "main"}, result.Functions)

	helper := result.Details["helper"]
	require.NotNil(t, helper)
	assert.Equal(t, []string{"x"}, helper.Params)
	assert.Equal(t, []string{"a name reference"}, helper.Returns)

	main := result.Details["main"]
	require.NotNil(t, main)
	assert.Equal(t, []string{"n"}, main.Params)
	assert.Equal(t, []string{NoReturnValue}, main.Returns)

	edges := result.Calls["main"]
	require.Len(t, edges, 1)
	assert.Equal(t, "main", edges[0].Caller)
	assert.Equal(t, "helper", edges[0].Callee)
	assert.True(t, edges[0].InLoop)
	assert.Equal(t, []Argument{{Kind: ArgKindName, Text: "n"}}, edges[0].Args)
}

func TestExtract_ZeroParameters(t *testing.T) {
	result := extract(t, "def nothing():\n    pass\n")

	rec := result.Details["nothing"]
	require.NotNil(t, rec)
	assert.NotNil(t, rec.Params)
	assert.Empty(t, rec.Params)
}

func TestExtract_ParameterForms(t *testing.T) {
	source := `def f(a, b: int, c=1, d: int = 2, *args, **kwargs):
    pass
`
	result := extract(t, source)

	rec := result.Details["f"]
	require.NotNil(t, rec)
	assert.Equal(t, []string{"a", "b", "c", "d", "args", "kwargs"}, rec.Params)
}

func TestExtract_ReturnCategories(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "bare return is not a valued return",
			source: "def f():\n    return\n",
			want:   []string{NoReturnValue},
		},
		{
			name:   "no return at all",
			source: "def f():\n    pass\n",
			want:   []string{NoReturnValue},
		},
		{
			name:   "number literal",
			source: "def f():\n    return 42\n",
			want:   []string{"a number literal"},
		},
		{
			name:   "string literal",
			source: "def f():\n    return 'hi'\n",
			want:   []string{"a string literal"},
		},
		{
			name:   "function call",
			source: "def f():\n    return len('x')\n",
			want:   []string{"a function call"},
		},
		{
			name:   "list construction",
			source: "def f():\n    return [1, 2]\n",
			want:   []string{"a list construction"},
		},
		{
			name:   "tuple via expression list",
			source: "def f():\n    return 1, 2\n",
			want:   []string{"a tuple construction"},
		},
		{
			name:   "binary operation",
			source: "def f(x):\n    return x + 1\n",
			want:   []string{"a binary operation"},
		},
		{
			name:   "distinct categories deduplicated in first-seen order",
			source: "def f(x):\n    if x:\n        return 1\n    if x > 1:\n        return 2\n    return x\n",
			want:   []string{"a number literal", "a name reference"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extract(t, tt.source)
			rec := result.Details["f"]
			require.NotNil(t, rec)
			assert.Equal(t, tt.want, rec.Returns)
		})
	}
}

func TestExtract_Docstring(t *testing.T) {
	source := `def documented(x):
    """Returns x unchanged."""
    return x

def bare(x):
    return x
`
	result := extract(t, source)

	assert.Equal(t, "Returns x unchanged.", result.Details["documented"].Doc)
	assert.Equal(t, "", result.Details["bare"].Doc)
}

func TestExtract_UnknownCalleeIgnored(t *testing.T) {
	source := `def f(n):
    print(n)
    helper_from_elsewhere(n)
    n.method()
`
	result := extract(t, source)

	assert.Empty(t, result.Calls["f"])
}

func TestExtract_ForwardReferenceResolves(t *testing.T) {
	source := `def first(n):
    return second(n)

def second(n):
    return n
`
	result := extract(t, source)

	edges := result.Calls["first"]
	require.Len(t, edges, 1)
	assert.Equal(t, "second", edges[0].Callee)
	assert.False(t, edges[0].InLoop)
}

func TestExtract_SelfLoop(t *testing.T) {
	source := `def countdown(n):
    if n > 0:
        countdown(n - 1)
`
	result := extract(t, source)

	edges := result.Calls["countdown"]
	require.Len(t, edges, 1)
	assert.Equal(t, "countdown", edges[0].Caller)
	assert.Equal(t, "countdown", edges[0].Callee)
	require.Len(t, edges[0].Args, 1)
	assert.Equal(t, ArgKindOther, edges[0].Args[0].Kind)
	assert.Equal(t, "binary_operator", edges[0].Args[0].Text)
}

func TestExtract_LoopContext(t *testing.T) {
	source := `def helper(x):
    return x

def main(n):
    helper(1)
    for i in range(n):
        helper(2)
        while n:
            helper(3)
    helper(4)
`
	result := extract(t, source)

	edges := result.Calls["main"]
	require.Len(t, edges, 4)

	// One edge per call site, in call-site order; only lexical nesting
	// inside a loop sets the flag, and nested loops do not stack.
	assert.False(t, edges[0].InLoop, "call before the loop")
	assert.True(t, edges[1].InLoop, "call inside for")
	assert.True(t, edges[2].InLoop, "call inside for+while")
	assert.False(t, edges[3].InLoop, "call after the loop")
}

func TestExtract_ArgumentClassification(t *testing.T) {
	source := `def helper(a, b, c, d, e):
    return a

def main(x):
    helper(x, 5, 'label', x + 1, key=1)
`
	result := extract(t, source)

	edges := result.Calls["main"]
	require.Len(t, edges, 1)

	// Keyword arguments are not snapshotted.
	require.Len(t, edges[0].Args, 4)
	assert.Equal(t, Argument{Kind: ArgKindName, Text: "x"}, edges[0].Args[0])
	assert.Equal(t, Argument{Kind: ArgKindLiteral, Text: "5"}, edges[0].Args[1])
	assert.Equal(t, Argument{Kind: ArgKindLiteral, Text: "label"}, edges[0].Args[2])
	assert.Equal(t, Argument{Kind: ArgKindOther, Text: "binary_operator"}, edges[0].Args[3])
}

func TestExtract_CallInsideArgumentExpression(t *testing.T) {
	source := `def inner(x):
    return x

def outer(x):
    return x

def main(x):
    outer(inner(x))
`
	result := extract(t, source)

	edges := result.Calls["main"]
	require.Len(t, edges, 2)
	assert.Equal(t, "outer", edges[0].Callee)
	assert.Equal(t, "inner", edges[1].Callee)

	// The outer call's argument is itself a call.
	require.Len(t, edges[0].Args, 1)
	assert.Equal(t, Argument{Kind: ArgKindOther, Text: "call"}, edges[0].Args[0])
}

func TestExtract_Redefinition(t *testing.T) {
	source := `def helper(x):
    return x

def dup(a):
    """First version."""
    helper(a)
    return 1

def dup(b):
    """Second version."""
    return 'two'
`
	result := extract(t, source)

	// A redefined name keeps a single node entry.
	assert.Equal(t, []string{"helper", "dup"}, result.Functions)

	// Metadata is overwritten by the later definition.
	rec := result.Details["dup"]
	require.NotNil(t, rec)
	assert.Equal(t, []string{"b"}, rec.Params)
	assert.Equal(t, []string{"a string literal"}, rec.Returns)
	assert.Equal(t, "Second version.", rec.Doc)

	// Call sites from every definition body are kept.
	require.Len(t, result.Calls["dup"], 1)
	assert.Equal(t, "helper", result.Calls["dup"][0].Callee)
}

func TestExtract_NestedFunctionOwnsItsCalls(t *testing.T) {
	source := `def helper(x):
    return x

def outer(x):
    def inner(y):
        helper(y)
        return y
    return x
`
	result := extract(t, source)

	assert.Equal(t, []string{"helper", "outer", "inner"}, result.Functions)

	// The call inside inner belongs to inner, not outer.
	assert.Empty(t, result.Calls["outer"])
	require.Len(t, result.Calls["inner"], 1)
	assert.Equal(t, "helper", result.Calls["inner"][0].Callee)

	// inner's return categories are not attributed to outer.
	assert.Equal(t, []string{"a name reference"}, result.Details["outer"].Returns)
}

func TestExtract_MethodsDiscoveredAsFlatNames(t *testing.T) {
	source := `class Greeter:
    def greet(self, name):
        return name
`
	result := extract(t, source)

	assert.Equal(t, []string{"greet"}, result.Functions)
	assert.Equal(t, []string{"self", "name"}, result.Details["greet"].Params)
}

func TestExtract_NilTree(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), nil)
	assert.Error(t, err)
}

func TestExtract_CanceledContext(t *testing.T) {
	parser := ast.NewPythonParser()
	tree, err := parser.Parse(context.Background(), []byte("def f():\n    pass\n"), "test.py")
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewExtractor().Extract(ctx, tree)
	assert.Error(t, err)
}
