package ast

import (
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

// ExpressionKind is the tagged union of expression forms (base spec §3
// TypedExpression "expression kind (tagged union including Lambda, Call,
// Identifier, …)"). Traversal dispatches on the concrete Go type via a type
// switch in package walker, per the redesign note on program.go.
type ExpressionKind interface {
	expressionKindNode()
}

// InferredExprInfo is the "inferred information" base spec §3 attaches to
// every TypedExpression (mutability, local quantum dependency).
type InferredExprInfo struct {
	Mutable                  bool
	HasLocalQuantumDependency bool
}

// TypedExpression is a fully resolved expression node (base spec §3).
type TypedExpression struct {
	Kind     ExpressionKind
	Type     types.Type
	TypeArgs map[string]types.Type // type-argument resolution, possibly nil
	Inferred InferredExprInfo
	Range    source.Range
}

// Identifier references a bound local or a top-level callable by name.
type Identifier struct {
	Name string
}

func (Identifier) expressionKindNode() {}

// CallableRef is a reference to a top-level callable used as a first-class
// value (e.g. the result of lifting a capture-free lambda — base spec
// §4.C step 5; see DESIGN.md's resolution of the free-variable/call-site
// open question in §9).
type CallableRef struct {
	Name string
}

func (CallableRef) expressionKindNode() {}

// IntLiteral, BigIntLiteral, DoubleLiteral, BoolLiteral, StringLiteral,
// ResultLiteral are the scalar literal kinds.
type IntLiteral struct{ Value int64 }
type BigIntLiteral struct{ Value string }
type DoubleLiteral struct{ Value float64 }
type BoolLiteral struct{ Value bool }
type StringLiteral struct{ Value string }
type ResultLiteral struct{ Zero bool } // true => Zero, false => One

func (IntLiteral) expressionKindNode()    {}
func (BigIntLiteral) expressionKindNode() {}
func (DoubleLiteral) expressionKindNode() {}
func (BoolLiteral) expressionKindNode()   {}
func (StringLiteral) expressionKindNode() {}
func (ResultLiteral) expressionKindNode() {}

// RangeLiteral is a `start..step..end` range expression; Step may be nil.
type RangeLiteral struct {
	Start *TypedExpression
	Step  *TypedExpression
	End   *TypedExpression
}

func (RangeLiteral) expressionKindNode() {}

// TupleLiteral builds a tuple value.
type TupleLiteral struct {
	Items []*TypedExpression
}

func (TupleLiteral) expressionKindNode() {}

// ArrayLiteral is a fixed, literally-enumerated array.
type ArrayLiteral struct {
	Items []*TypedExpression
}

func (ArrayLiteral) expressionKindNode() {}

// NewSizedArray constructs an array whose length is a runtime expression
// (base spec §4.D.4 ArrayAnalyzer: "dynamically-sized array constructions").
type NewSizedArray struct {
	Element types.Type
	Size    *TypedExpression
}

func (NewSizedArray) expressionKindNode() {}

// ArrayUpdate rebuilds (copy-and-update, InPlace=false) or mutates in place
// (InPlace=true) a single array element (base spec §4.D.4).
type ArrayUpdate struct {
	Array   *TypedExpression
	Index   *TypedExpression
	Value   *TypedExpression
	InPlace bool
}

func (ArrayUpdate) expressionKindNode() {}

// BinaryExpression covers infix operators, including Result equality
// comparisons (base spec §4.D.1 ResultAnalyzer).
type BinaryExpression struct {
	Op    string
	Left  *TypedExpression
	Right *TypedExpression
}

func (BinaryExpression) expressionKindNode() {}

// CallKind distinguishes which specialisation a Call invokes, and is part
// of the call graph's edge key (base spec §3 "direct-dependency groups
// keyed by call-kind").
type CallKind int

const (
	CallPlain CallKind = iota
	CallAdjoint
	CallControlled
	CallControlledAdjoint
)

func (k CallKind) String() string {
	switch k {
	case CallPlain:
		return "Call"
	case CallAdjoint:
		return "Adjoint"
	case CallControlled:
		return "Controlled"
	case CallControlledAdjoint:
		return "ControlledAdjoint"
	default:
		return "?"
	}
}

// Call invokes Callee with Argument.
type Call struct {
	Callee   *TypedExpression
	Argument *TypedExpression
	CallKind CallKind
}

func (Call) expressionKindNode() {}

// LambdaKind mirrors the kind a Lambda expression introduces (base spec §3
// Lambda: "kind ∈ {Function, Operation}").
type LambdaKind int

const (
	LambdaFunction LambdaKind = iota
	LambdaOperation
)

func (k LambdaKind) String() string {
	if k == LambdaOperation {
		return "Operation"
	}
	return "Function"
}

// Lambda is an anonymous function/operation expression (base spec §3).
type Lambda struct {
	Kind      LambdaKind
	Parameter SymbolPattern
	Body      *TypedExpression
	Info      types.CallableInformation
}

func (Lambda) expressionKindNode() {}

// PartialApp is a partial application: Callee applied to Captured, with the
// remaining argument slot left open, producing a callable value of the
// lambda's original type (base spec §4.C step 5; DESIGN.md resolution of
// the free-variable/call-site open question in §9).
type PartialApp struct {
	Callee   *TypedExpression
	Captured *TypedExpression
}

func (PartialApp) expressionKindNode() {}
