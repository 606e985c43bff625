// Package ast is the Program data model (base spec §3). Nodes here do not
// carry an Accept/Visitor method set: base spec design note 1 ("coroutine-/
// visitor-style recursion → explicit tagged tree plus arena-free visitor...
// override by supplying closures for specific tags") asks for traversal to
// be a dispatch table keyed on the node's Go type, which package walker
// implements with type switches over these concrete types rather than
// double-dispatch through an Accept method (see DESIGN.md).
package ast

import (
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

// Program is the root of the tree: an ordered sequence of Namespaces.
type Program struct {
	Namespaces []*Namespace
}

// Namespace is a qualified name plus an ordered sequence of Elements.
type Namespace struct {
	Name     string
	Elements []Element
}

// Element is either a Callable or a type declaration; only Callables
// concern this spec (base spec §3).
type Element interface {
	elementNode()
}

// TypeDeclaration is a minimal placeholder Element for namespace-level type
// declarations, which this core copies through unexamined.
type TypeDeclaration struct {
	Name     string
	Location source.Range
}

func (*TypeDeclaration) elementNode() {}

// CallableKind distinguishes the three declarable callable kinds.
type CallableKind int

const (
	Function CallableKind = iota
	Operation
	TypeConstructor
)

func (k CallableKind) String() string {
	switch k {
	case Function:
		return "Function"
	case Operation:
		return "Operation"
	case TypeConstructor:
		return "TypeConstructor"
	default:
		return "?"
	}
}

// Access is the declared accessibility of a callable.
type Access int

const (
	Public Access = iota
	Internal
)

func (a Access) String() string {
	if a == Public {
		return "Public"
	}
	return "Internal"
}

// Attribute is a callable annotation (base spec §6 "Attribute wire form").
type Attribute struct {
	Name      string
	Arguments []string
}

// RequiresCapabilityReason is the fixed human-readable reason string the
// solver attaches to every inferred RequiresCapability attribute (§4.E
// "Emission").
const RequiresCapabilityReason = "Inferred automatically by the compiler."

// RequiresCapabilityAttribute builds the two-argument attribute the solver
// emits.
func RequiresCapabilityAttribute(capabilityName string) Attribute {
	return Attribute{Name: "RequiresCapability", Arguments: []string{capabilityName, RequiresCapabilityReason}}
}

// RequiresCapability extracts the capability name from an explicit
// RequiresCapability attribute, if present.
func RequiresCapability(attrs []Attribute) (string, bool) {
	for _, a := range attrs {
		if a.Name == "RequiresCapability" && len(a.Arguments) > 0 {
			return a.Arguments[0], true
		}
	}
	return "", false
}

// Callable is a named function or operation (base spec §3).
type Callable struct {
	Name            string // fully-qualified
	Kind            CallableKind
	Access          Access
	Location        source.Range
	Signature       types.Type // Function or Operation type; nil for TypeConstructor
	ArgumentPattern SymbolPattern
	Specializations []*Specialization
	Attributes      []Attribute
	Documentation   string
	Comments        []string
}

func (*Callable) elementNode() {}

// HasExplicitCapability reports whether the callable already carries a
// RequiresCapability attribute (base spec §4.E).
func (c *Callable) HasExplicitCapability() bool {
	_, ok := RequiresCapability(c.Attributes)
	return ok
}
