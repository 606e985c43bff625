package ast

import "github.com/funvibe/qcapcore/internal/types"

// SymbolPattern is the parameter/binding symbol-pattern tree matched against
// a resolved input type (base spec §4.C step 2, §3 "argument pattern").
type SymbolPattern interface {
	symbolPatternNode()
	// Names returns every bound name introduced by this pattern, in
	// left-to-right source order.
	Names() []SymbolName
}

// SymbolName is a single bound name with its resolved type.
type SymbolName struct {
	Name string
	Type types.Type
}

func (s SymbolName) symbolPatternNode() {}
func (s SymbolName) Names() []SymbolName { return []SymbolName{s} }

// SymbolTuple groups several patterns positionally, matching a Tuple type
// of the same arity (base spec §4.C step 2: "Symbol-tuple ↔ tuple-type of
// matching arity → recurse element-wise").
type SymbolTuple struct {
	Items []SymbolPattern
}

func (SymbolTuple) symbolPatternNode() {}
func (t SymbolTuple) Names() []SymbolName {
	var out []SymbolName
	for _, item := range t.Items {
		out = append(out, item.Names()...)
	}
	return out
}

// DiscardedSymbol is the wildcard pattern `_`: it matches any type but
// binds no name.
type DiscardedSymbol struct {
	Type types.Type
}

func (DiscardedSymbol) symbolPatternNode()   {}
func (DiscardedSymbol) Names() []SymbolName { return nil }
