package declaration

import (
	"testing"

	"github.com/mvp-joe/typekeep/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the Fragment Printer:
// - Object types print one member per line with two-space indentation
// - Empty object types print as {}
// - Comments inside types are dropped
// - Generic, qualified, array, union, function and method syntax print with canonical spacing
// - String literal types are printed verbatim
// - Dynamic import types print without a space before the argument list
// - Printing is deterministic and re-parsing the output prints identically
// - PrintStatement always produces the ambient export shape
// - PrintType of nil is empty

func annotationOf(t *testing.T, source string) *syntax.Node {
	t.Helper()
	doc := syntax.Parse(source)
	require.Len(t, doc.Statements, 1, source)
	require.Len(t, doc.Statements[0].Bindings, 1, source)
	typ := doc.Statements[0].Bindings[0].Annotation
	require.NotNil(t, typ, source)
	return typ
}

func TestPrintType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  string
		want string
	}{
		{name: "reference", typ: "AnyComponents", want: "AnyComponents"},
		{name: "qualified reference", typ: "convex.AnyComponents", want: "convex.AnyComponents"},
		{name: "empty object", typ: "{ }", want: "{}"},
		{name: "object", typ: "{ a: string, b?: number }", want: "{\n  a: string;\n  b?: number;\n}"},
		{name: "comment dropped", typ: "{ /* note */ a: string // trailing\n }", want: "{\n  a: string;\n}"},
		{name: "generic", typ: "Promise< void >", want: "Promise<void>"},
		{name: "qualified generic", typ: `ns.Ref< "query" , 'internal' >`, want: `ns.Ref<"query", 'internal'>`},
		{name: "array of union", typ: "Array<string|number>[]", want: "Array<string | number>[]"},
		{name: "function", typ: "(ctx:Ctx,id:string)=>Promise<void>", want: "(ctx: Ctx, id: string) => Promise<void>"},
		{name: "typeof import", typ: `typeof import ( "./x" )`, want: `typeof import("./x")`},
		{name: "method", typ: "{ check(ctx: Ctx): void; readonly n?: number }", want: "{\n  check(ctx: Ctx): void;\n  readonly n?: number;\n}"},
		{
			name: "nested object in generic",
			typ:  `FunctionReference<"query", "internal", { key?: string }, null>`,
			want: "FunctionReference<\"query\", \"internal\", {\n  key?: string;\n}, null>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PrintType(annotationOf(t, "export declare const c: "+tt.typ+";"))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintType_Nil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", PrintType(nil))
}

func TestPrintType_ReparseIsStable(t *testing.T) {
	t.Parallel()

	types := []string{
		"{ a: { b: { c: string } }, d: Array<{ e: number }> }",
		"{ run(args: { id: string }, ...rest: unknown[]): Promise<{ ok: true } | { ok: false; error: string }> }",
		"{ [key: string]: { value: number } }",
		"Record<string, { enabled: boolean }> & { extra?: `prefix-${string}` }",
		"{ fn: <T>(x: T) => T; tuple: [first: string, second?: number] }",
		"keyof typeof config",
		"T extends string ? { s: T } : never",
	}

	for _, typ := range types {
		first := PrintType(annotationOf(t, "export declare const c: "+typ+";"))
		second := PrintType(annotationOf(t, "export declare const c: "+first+";"))
		assert.Equal(t, first, second, typ)
	}
}

func TestPrintStatement(t *testing.T) {
	t.Parallel()

	typ := annotationOf(t, "export let components: { a: string } = make();")
	assert.Equal(t, "export declare const components: {\n  a: string;\n};", PrintStatement("components", typ))
}

func TestSeparator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", separator("type_annotation", "x", ":"))
	assert.Equal(t, " ", separator("type_annotation", ":", "string"))
	assert.Equal(t, "", separator("generic_type", "Promise", "<void>"))
	assert.Equal(t, " ", separator("formal_parameters", ",", "...rest: T[]"))
	assert.Equal(t, "", separator("formal_parameters", "(", "...rest: T[]"))
	assert.Equal(t, " ", separator("function_type", "=>", "(A | B)"))
	assert.Equal(t, "", separator("call_signature", "<T>", "(x: T)"))
	assert.Equal(t, " ", separator("conditional_type", "T", "?"))
	assert.Equal(t, "", separator("property_signature", "name", "?"))
	assert.Equal(t, "", separator("call_expression", "import", `("./x")`))
}
