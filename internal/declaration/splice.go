package declaration

import (
	"github.com/mvp-joe/typekeep/internal/syntax"
)

// Splice replaces the stub type of target in fresh with the type carried by
// preserved. The stub may be an annotation (ambient artifacts) or an asserted
// initializer type (runtime artifacts); only its byte range is rewritten.
//
// fresh is returned unchanged when preserved is not Real, or when the fresh
// binding is missing or already real.
func Splice(fresh, target string, preserved Result, sentinels SentinelSet) (string, bool) {
	if preserved.Kind != Real {
		return fresh, false
	}

	annotation, ok := ExtractAnnotation(preserved.Declaration, target)
	if !ok {
		return fresh, false
	}

	binding := Locate(syntax.Parse(fresh), target)
	if Classify(binding, sentinels).Kind != Stub {
		return fresh, false
	}

	typ := binding.DeclaredType()
	if typ.Start < 0 || typ.End > len(fresh) || typ.Start > typ.End {
		return fresh, false
	}

	return fresh[:typ.Start] + annotation + fresh[typ.End:], true
}
