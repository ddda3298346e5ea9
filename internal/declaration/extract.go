package declaration

import (
	"github.com/mvp-joe/typekeep/internal/syntax"
)

// Locate returns the first binding named target among the exported top-level
// variable statements of doc, ambient or not. Nested scopes are never inspected.
func Locate(doc *syntax.Document, target string) *syntax.Binding {
	if doc == nil {
		return nil
	}
	for i := range doc.Statements {
		stmt := &doc.Statements[i]
		if stmt.Kind != syntax.VariableStatement || !stmt.Exported {
			continue
		}
		for j := range stmt.Bindings {
			if stmt.Bindings[j].Name == target {
				return &stmt.Bindings[j]
			}
		}
	}
	return nil
}

// Classify decides whether binding is a stub or a real type.
//
// Only a bare or qualified reference whose terminal name is a sentinel is a
// Stub. Any other declared type is Real, an empty object type included.
// A missing binding, or one with no annotation and no asserted initializer
// type, is NotFound.
func Classify(binding *syntax.Binding, sentinels SentinelSet) Result {
	if binding == nil {
		return Result{Kind: NotFound}
	}

	typ := binding.DeclaredType()
	if typ == nil {
		return Result{Kind: NotFound}
	}

	expr := syntax.ClassifyType(typ)
	if expr.Kind == syntax.TypeReference && sentinels.Contains(expr.Name) {
		return Result{Kind: Stub}
	}

	return Result{
		Kind:        Real,
		Declaration: PrintStatement(binding.Name, typ),
	}
}

// Extract parses artifact and classifies its exported binding named target.
func Extract(artifact, target string, sentinels SentinelSet) Result {
	return Classify(Locate(syntax.Parse(artifact), target), sentinels)
}

// ExtractAll classifies every target of policy from a single parse.
func ExtractAll(artifact string, policy Policy) map[string]Result {
	return ClassifyAll(syntax.Parse(artifact), policy)
}

// ClassifyAll classifies every target of policy within doc.
func ClassifyAll(doc *syntax.Document, policy Policy) map[string]Result {
	results := make(map[string]Result, len(policy))
	for target, sentinels := range policy {
		results[target] = Classify(Locate(doc, target), sentinels)
	}
	return results
}

// ExtractAnnotation returns the type text of the binding named target in
// declaration, without the "export declare const name:" prefix or the
// trailing semicolon. It returns false unless declaration holds an exported
// binding of target with an explicit annotation.
func ExtractAnnotation(declaration, target string) (string, bool) {
	binding := Locate(syntax.Parse(declaration), target)
	if binding == nil || binding.Annotation == nil {
		return "", false
	}
	return PrintType(binding.Annotation), true
}

// IsAmbientArtifact reports whether text has at least one top-level exported
// ambient variable statement. Marker text inside comments or strings does not count.
func IsAmbientArtifact(text string) bool {
	return IsAmbientDocument(syntax.Parse(text))
}

// IsAmbientDocument is IsAmbientArtifact over an already parsed document.
func IsAmbientDocument(doc *syntax.Document) bool {
	for _, stmt := range doc.Statements {
		if stmt.Kind == syntax.VariableStatement && stmt.Exported && stmt.Ambient {
			return true
		}
	}
	return false
}
