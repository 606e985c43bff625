// Package rtcap implements the RuntimeCapability join-semilattice (base
// spec §3 "Capability lattice"). The base spec names distinguished points
// (BasicMeasurementFeedback, BasicQuantumFunctionality, FullComputation)
// without specifying the lattice's shape; this is modelled as the Q#-style
// 2-D product order — result opacity crossed with classical capability — so
// that combine(a, b) is a real least-upper-bound rather than an arbitrary
// max over an invented total order (see DESIGN.md). Those three named points
// form a chain (BasicMeasurementFeedback ≤ BasicQuantumFunctionality ≤
// FullComputation); other points, such as BasicExecution and
// BasicMeasurementFeedback, are incomparable.
package rtcap

import "fmt"

// ResultOpacity ranks how much a runtime target can observe and branch on
// a measurement Result value.
type ResultOpacity int

const (
	Opaque ResultOpacity = iota
	Controlled
	Transparent
)

func (r ResultOpacity) String() string {
	switch r {
	case Opaque:
		return "Opaque"
	case Controlled:
		return "Controlled"
	case Transparent:
		return "Transparent"
	default:
		return "?"
	}
}

// ClassicalCapability ranks how much classical computation a runtime
// target supports alongside quantum operations.
type ClassicalCapability int

const (
	Empty ClassicalCapability = iota
	Integral
	Full
)

func (c ClassicalCapability) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Integral:
		return "Integral"
	case Full:
		return "Full"
	default:
		return "?"
	}
}

// RuntimeCapability is a single point in the lattice.
type RuntimeCapability struct {
	Result    ResultOpacity
	Classical ClassicalCapability
}

// Base is the lattice's identity element (base spec §3).
var Base = RuntimeCapability{Result: Opaque, Classical: Empty}

// Distinguished points named in base spec §3/§8.
var (
	BasicMeasurementFeedback = RuntimeCapability{Result: Controlled, Classical: Empty}
	BasicQuantumFunctionality = RuntimeCapability{Result: Transparent, Classical: Empty}
	BasicExecution            = RuntimeCapability{Result: Opaque, Classical: Integral}
	AdaptiveExecution         = RuntimeCapability{Result: Controlled, Classical: Integral}
	FullComputation           = RuntimeCapability{Result: Transparent, Classical: Full}
)

var canonicalNames = map[RuntimeCapability]string{
	Base:                      "Base",
	BasicMeasurementFeedback:  "BasicMeasurementFeedback",
	BasicQuantumFunctionality: "BasicQuantumFunctionality",
	BasicExecution:            "BasicExecution",
	AdaptiveExecution:         "AdaptiveExecution",
	FullComputation:           "FullComputation",
}

// String returns the capability's canonical name (base spec §6 "Attribute
// wire form": "the capability's canonical name"). Falls back to a composite
// rendering for points without a distinguished name.
func (c RuntimeCapability) String() string {
	if name, ok := canonicalNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Result=%s,Classical=%s", c.Result, c.Classical)
}

// ParseName resolves a capability's canonical name back to its point,
// for decoding target policy configuration (SPEC_FULL.md §10.3).
func ParseName(name string) (RuntimeCapability, bool) {
	for cap, n := range canonicalNames {
		if n == name {
			return cap, true
		}
	}
	return RuntimeCapability{}, false
}

// Combine computes the least upper bound of a and b (base spec §3: "join-
// semilattice... combine(a,b) (least upper bound)... associative,
// commutative, idempotent").
func Combine(a, b RuntimeCapability) RuntimeCapability {
	result := a.Result
	if b.Result > result {
		result = b.Result
	}
	classical := a.Classical
	if b.Classical > classical {
		classical = b.Classical
	}
	return RuntimeCapability{Result: result, Classical: classical}
}

// CombineAll folds Combine over a slice, returning Base for an empty slice
// (base spec §4.E: "Empty set → Base").
func CombineAll(caps []RuntimeCapability) RuntimeCapability {
	acc := Base
	for _, c := range caps {
		acc = Combine(acc, c)
	}
	return acc
}

// LessOrEqual reports whether c is below or equal to other in the lattice
// order (both coordinates non-greater).
func (c RuntimeCapability) LessOrEqual(other RuntimeCapability) bool {
	return c.Result <= other.Result && c.Classical <= other.Classical
}

// Exceeds reports whether c is strictly not covered by target — i.e. c is
// not LessOrEqual(target). Used by Pattern.Diagnose (base spec §4.D:
// "iff capability > t").
func (c RuntimeCapability) Exceeds(target RuntimeCapability) bool {
	return !c.LessOrEqual(target)
}
