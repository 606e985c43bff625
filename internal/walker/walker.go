// Package walker implements the Tree Walker (base spec §4.A): a generic,
// stateful pre/post-order traversal over namespaces, callables,
// specialisations, scopes, statements and expressions.
//
// Per base spec design note 1, this is NOT an Accept/Visitor
// double-dispatch: each syntactic category gets an exported `Default On*`
// function (a plain type-switch over the concrete ast types) plus a
// same-shaped field on *Walker initialised to that default. Overriding a
// category is a field assignment; the override calls the package-level
// Default function explicitly when it wants base recursion (design note 3:
// "replace 'override a virtual; base does the rest' ... with a pair
// {default_behavior, user_callback}... user callbacks call the default
// explicitly").
package walker

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/types"
)

// Walker carries the current override set plus arbitrary caller-defined
// SharedState (base spec §4.A). Zero value is not usable; construct with
// New.
type Walker struct {
	// State is the caller's SharedState, type-asserted inside overrides.
	State interface{}

	OnNamespace      func(w *Walker, ns *ast.Namespace) *ast.Namespace
	OnCallable       func(w *Walker, c *ast.Callable) *ast.Callable
	OnSpecialization func(w *Walker, s *ast.Specialization) *ast.Specialization
	OnScope          func(w *Walker, sc *ast.Scope) *ast.Scope
	OnStatement      func(w *Walker, st ast.Statement) ast.Statement
	OnExpression     func(w *Walker, e *ast.TypedExpression) *ast.TypedExpression
	OnType           func(w *Walker, t types.Type) types.Type

	// err holds the first TreeInvariantError encountered; Err returns it as
	// a *diag.FatalError (base spec §4.A, §7).
	err *diag.FatalError
}

// New builds a Walker wired to the default (fully recursive, identity)
// behaviours, with the given SharedState.
func New(state interface{}) *Walker {
	w := &Walker{State: state}
	w.OnNamespace = DefaultOnNamespace
	w.OnCallable = DefaultOnCallable
	w.OnSpecialization = DefaultOnSpecialization
	w.OnScope = DefaultOnScope
	w.OnStatement = DefaultOnStatement
	w.OnExpression = DefaultOnExpression
	w.OnType = DefaultOnType
	return w
}

// Err returns the first TreeInvariantError raised during the walk, if any.
func (w *Walker) Err() *diag.FatalError { return w.err }

func (w *Walker) fail(err *diag.FatalError) {
	if w.err == nil {
		w.err = err
	}
}

// Fail records a FatalError raised by an override (e.g. the lifter's
// LambdaShape violation), keeping only the first one raised during a walk.
func (w *Walker) Fail(err *diag.FatalError) { w.fail(err) }

// WalkProgram runs the walk over every namespace in source order (base
// spec §5: "each pass visits namespaces in declared order").
func WalkProgram(w *Walker, p *ast.Program) *ast.Program {
	namespaces := make([]*ast.Namespace, len(p.Namespaces))
	for i, ns := range p.Namespaces {
		namespaces[i] = w.OnNamespace(w, ns)
	}
	return &ast.Program{Namespaces: namespaces}
}

// DefaultOnNamespace recurses into every Element in source order.
func DefaultOnNamespace(w *Walker, ns *ast.Namespace) *ast.Namespace {
	elements := make([]ast.Element, len(ns.Elements))
	for i, el := range ns.Elements {
		switch e := el.(type) {
		case *ast.Callable:
			elements[i] = w.OnCallable(w, e)
		default:
			elements[i] = el
		}
	}
	return &ast.Namespace{Name: ns.Name, Elements: elements}
}

// DefaultOnCallable recurses into every specialisation in source order.
func DefaultOnCallable(w *Walker, c *ast.Callable) *ast.Callable {
	specs := make([]*ast.Specialization, len(c.Specializations))
	for i, s := range c.Specializations {
		specs[i] = w.OnSpecialization(w, s)
	}
	out := *c
	out.Specializations = specs
	return &out
}

// DefaultOnSpecialization recurses into the Provided scope, if any.
func DefaultOnSpecialization(w *Walker, s *ast.Specialization) *ast.Specialization {
	if s.Body != ast.Provided || s.Scope == nil {
		return s
	}
	out := *s
	out.Scope = w.OnScope(w, s.Scope)
	return &out
}

// DefaultOnScope recurses into every statement in source order.
func DefaultOnScope(w *Walker, sc *ast.Scope) *ast.Scope {
	statements := make([]ast.Statement, len(sc.Statements))
	for i, st := range sc.Statements {
		statements[i] = w.OnStatement(w, st)
	}
	return &ast.Scope{KnownSymbols: sc.KnownSymbols, Statements: statements}
}

func typePreserved(w *Walker, old, new_ *ast.TypedExpression) {
	if old == nil || new_ == nil {
		return
	}
	if old.Type != nil && !types.Equal(old.Type, new_.Type) {
		w.fail(diag.NewFatal(diag.PhaseWalk, old.Range,
			"override replaced expression of type %s with one of type %s", old.Type, new_.Type))
	}
}

// DefaultOnStatement recurses into every TypedExpression/Scope child of st,
// in source order, and returns a rebuilt node of the same concrete type.
func DefaultOnStatement(w *Walker, st ast.Statement) ast.Statement {
	switch s := st.(type) {
	case *ast.ExpressionStatement:
		out := *s
		out.Expr = w.OnExpression(w, s.Expr)
		return &out
	case *ast.LocalDeclaration:
		out := *s
		out.Value = w.OnExpression(w, s.Value)
		return &out
	case *ast.Assignment:
		out := *s
		out.Value = w.OnExpression(w, s.Value)
		return &out
	case *ast.Conditional:
		out := *s
		branches := make([]ast.CondBranch, len(s.Branches))
		for i, b := range s.Branches {
			branches[i] = ast.CondBranch{
				Condition: w.OnExpression(w, b.Condition),
				Body:      w.OnScope(w, b.Body),
			}
		}
		out.Branches = branches
		if s.Else != nil {
			out.Else = w.OnScope(w, s.Else)
		}
		return &out
	case *ast.ForStatement:
		out := *s
		out.Iterable = w.OnExpression(w, s.Iterable)
		out.Body = w.OnScope(w, s.Body)
		return &out
	case *ast.WhileStatement:
		out := *s
		out.Condition = w.OnExpression(w, s.Condition)
		out.Body = w.OnScope(w, s.Body)
		return &out
	case *ast.RepeatUntilStatement:
		out := *s
		out.Body = w.OnScope(w, s.Body)
		out.Until = w.OnExpression(w, s.Until)
		if s.Fixup != nil {
			out.Fixup = w.OnScope(w, s.Fixup)
		}
		return &out
	case *ast.QubitAllocation:
		out := *s
		if s.Body != nil {
			out.Body = w.OnScope(w, s.Body)
		}
		return &out
	case *ast.ReturnStatement:
		out := *s
		out.Value = w.OnExpression(w, s.Value)
		return &out
	case *ast.FailStatement:
		out := *s
		out.Message = w.OnExpression(w, s.Message)
		return &out
	default:
		w.fail(diag.NewFatal(diag.PhaseWalk, st.GetRange(), "unknown statement kind %T", st))
		return st
	}
}

// DefaultOnExpression recurses into every TypedExpression child of e, in
// source order, rebuilding e.Kind with the visited children. It does not
// itself check type preservation (base spec §4.A TreeInvariantError): a
// rewriting override compares its own replacement against the original via
// RequireSameType.
func DefaultOnExpression(w *Walker, e *ast.TypedExpression) *ast.TypedExpression {
	if e == nil {
		return nil
	}
	out := *e
	switch k := e.Kind.(type) {
	case ast.Identifier, ast.CallableRef, ast.IntLiteral, ast.BigIntLiteral,
		ast.DoubleLiteral, ast.BoolLiteral, ast.StringLiteral, ast.ResultLiteral:
		// leaves, nothing to recurse into
	case ast.RangeLiteral:
		nk := k
		nk.Start = w.OnExpression(w, k.Start)
		if k.Step != nil {
			nk.Step = w.OnExpression(w, k.Step)
		}
		nk.End = w.OnExpression(w, k.End)
		out.Kind = nk
	case ast.TupleLiteral:
		nk := k
		nk.Items = mapExprs(w, k.Items)
		out.Kind = nk
	case ast.ArrayLiteral:
		nk := k
		nk.Items = mapExprs(w, k.Items)
		out.Kind = nk
	case ast.NewSizedArray:
		nk := k
		nk.Size = w.OnExpression(w, k.Size)
		out.Kind = nk
	case ast.ArrayUpdate:
		nk := k
		nk.Array = w.OnExpression(w, k.Array)
		nk.Index = w.OnExpression(w, k.Index)
		nk.Value = w.OnExpression(w, k.Value)
		out.Kind = nk
	case ast.BinaryExpression:
		nk := k
		nk.Left = w.OnExpression(w, k.Left)
		nk.Right = w.OnExpression(w, k.Right)
		out.Kind = nk
	case ast.Call:
		nk := k
		nk.Callee = w.OnExpression(w, k.Callee)
		nk.Argument = w.OnExpression(w, k.Argument)
		out.Kind = nk
	case ast.Lambda:
		nk := k
		nk.Body = w.OnExpression(w, k.Body)
		out.Kind = nk
	case ast.PartialApp:
		nk := k
		nk.Callee = w.OnExpression(w, k.Callee)
		nk.Captured = w.OnExpression(w, k.Captured)
		out.Kind = nk
	default:
		w.fail(diag.NewFatal(diag.PhaseWalk, e.Range, "unknown expression kind %T", e.Kind))
		return e
	}
	return &out
}

func mapExprs(w *Walker, items []*ast.TypedExpression) []*ast.TypedExpression {
	out := make([]*ast.TypedExpression, len(items))
	for i, it := range items {
		out[i] = w.OnExpression(w, it)
	}
	return out
}

// DefaultOnType is the identity: resolved types have no children this core
// rewrites.
func DefaultOnType(w *Walker, t types.Type) types.Type { return t }

// RequireSameType is called by rewriting overrides before returning a
// replacement expression, to enforce base spec §4.A's TreeInvariantError.
func RequireSameType(w *Walker, original, replacement *ast.TypedExpression) {
	typePreserved(w, original, replacement)
}
