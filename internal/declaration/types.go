package declaration

import "sort"

// Kind is the outcome of classifying one target binding.
type Kind int

const (
	// NotFound covers an absent binding, unparseable input and a binding
	// without any usable type.
	NotFound Kind = iota
	// Stub is a binding typed as a bare or qualified reference to a sentinel.
	Stub
	// Real is any other typed binding, including the empty object type.
	Real
)

func (k Kind) String() string {
	switch k {
	case Stub:
		return "stub"
	case Real:
		return "real"
	default:
		return "not found"
	}
}

// Result is the extraction result for one target.
type Result struct {
	Kind Kind

	// Declaration is the printed ambient statement, set only for Real.
	Declaration string
}

// IsStub reports whether r is a Stub. NotFound and Real are not stubs.
func IsStub(r Result) bool {
	return r.Kind == Stub
}

// SentinelSet is the set of placeholder type names recognised as stubs.
type SentinelSet map[string]struct{}

// NewSentinelSet builds a set from names. Empty names are ignored.
func NewSentinelSet(names ...string) SentinelSet {
	set := make(SentinelSet, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is a sentinel.
func (s SentinelSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the sentinels in sorted order.
func (s SentinelSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Policy maps each target binding name to its own sentinel set.
type Policy map[string]SentinelSet

// Targets returns the policy's target names in sorted order.
func (p Policy) Targets() []string {
	targets := make([]string, 0, len(p))
	for target := range p {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}
