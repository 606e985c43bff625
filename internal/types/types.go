// Package types models ResolvedType (base spec §3): the already-resolved,
// already-checked type of every TypedExpression the core consumes. There is
// no unification here — that happened upstream, in the surface type checker
// this core explicitly does not reimplement (base spec §1).
package types

import (
	"fmt"
	"strings"
)

// Type is the interface every resolved type implements.
type Type interface {
	String() string
	isType()
}

// BaseKind enumerates the primitive, non-composite resolved types.
type BaseKind int

const (
	Int BaseKind = iota
	BigInt
	Double
	Bool
	String
	Qubit
	Result
	Pauli
	Range
	Unit
)

func (k BaseKind) String() string {
	switch k {
	case Int:
		return "Int"
	case BigInt:
		return "BigInt"
	case Double:
		return "Double"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Qubit:
		return "Qubit"
	case Result:
		return "Result"
	case Pauli:
		return "Pauli"
	case Range:
		return "Range"
	case Unit:
		return "Unit"
	default:
		return "?"
	}
}

// Base is a primitive resolved type.
type Base struct {
	Kind BaseKind
}

func (b Base) String() string { return b.Kind.String() }
func (Base) isType()          {}

// Characteristics are the resolved, declared characteristics of a callable
// value's type (base spec: CallableInformation "resolved characteristics").
type Characteristics struct {
	Adjointable  bool
	Controllable bool
}

// EmptyCharacteristics is used for Function-kind lambdas, which carry no
// adjoint/controlled characteristics (base spec §4.C step 5).
var EmptyCharacteristics = Characteristics{}

// InferredInfo is the per-callable-type inferred information the base spec's
// data model attaches alongside resolved characteristics (e.g. whether a
// value closes over a local quantum dependency).
type InferredInfo struct {
	HasLocalQuantumDependency bool
}

// CallableInformation bundles resolved characteristics with inferred info.
type CallableInformation struct {
	Characteristics Characteristics
	Inferred        InferredInfo
}

// Empty is the zero CallableInformation.
var Empty = CallableInformation{}

// Function is a classical function type: (Input) -> Output.
type Function struct {
	Input  Type
	Output Type
	Info   CallableInformation
}

func (f Function) String() string {
	return fmt.Sprintf("(%s -> %s)", f.Input.String(), f.Output.String())
}
func (Function) isType() {}

// Operation is a quantum operation type: Input => Output.
type Operation struct {
	Input  Type
	Output Type
	Info   CallableInformation
}

func (o Operation) String() string {
	return fmt.Sprintf("(%s => %s)", o.Input.String(), o.Output.String())
}
func (Operation) isType() {}

// Tuple is a fixed-arity tuple type. A zero-item Tuple is not Unit: IsUnit
// and Equal both tell the two apart, so an empty symbol-tuple lambda
// parameter matches only Unit (base spec §4.C step 2).
type Tuple struct {
	Items []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (Tuple) isType() {}

// Array is a homogeneous array type.
type Array struct {
	Element Type
}

func (a Array) String() string { return "[" + a.Element.String() + "]" }
func (Array) isType()          {}

// TypeParameter is a generic type parameter reference (already resolved to a
// rigid placeholder by the upstream type checker; this core never
// instantiates or unifies it, only copies it through).
type TypeParameter struct {
	Name string
}

func (tp TypeParameter) String() string { return "'" + tp.Name }
func (TypeParameter) isType()           {}

// UserDefined is a resolved reference to a user-declared type.
type UserDefined struct {
	Name string // fully qualified
}

func (u UserDefined) String() string { return u.Name }
func (UserDefined) isType()          {}

// Equal reports structural equality of two resolved types. Used by the
// walker's type-preservation check (base spec §4.A TreeInvariantError).
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Base:
		bv, ok := b.(Base)
		return ok && av.Kind == bv.Kind
	case Function:
		bv, ok := b.(Function)
		return ok && Equal(av.Input, bv.Input) && Equal(av.Output, bv.Output)
	case Operation:
		bv, ok := b.(Operation)
		return ok && Equal(av.Input, bv.Input) && Equal(av.Output, bv.Output)
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case Array:
		bv, ok := b.(Array)
		return ok && Equal(av.Element, bv.Element)
	case TypeParameter:
		bv, ok := b.(TypeParameter)
		return ok && av.Name == bv.Name
	case UserDefined:
		bv, ok := b.(UserDefined)
		return ok && av.Name == bv.Name
	default:
		return false
	}
}

// IsUnit reports whether t is the Unit base type.
func IsUnit(t Type) bool {
	b, ok := t.(Base)
	return ok && b.Kind == Unit
}
