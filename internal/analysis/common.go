// Package analysis implements the four Pattern Analysers (base spec §4.D)
// plus the Registry supplement (SPEC_FULL.md §12). Each analyser observes
// a Callable's declaration without mutating it and returns a Pattern
// sequence; none hold state between invocations (base spec §5). Traversal
// here is direct structural recursion over the ast types, the same shape
// package walker's Default* functions use, rather than constructing a
// walker.Walker override set — these passes never rewrite, so the
// override/composition machinery package walker exists for buys nothing.
package analysis

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/pattern"
)

// Analyzer is one independent pattern analyser (base spec §4.D).
type Analyzer interface {
	Name() string
	Analyze(c *ast.Callable, pol policy.TargetPolicy) []pattern.Pattern
}

// Registry is the set of analysers the solver runs against every
// source-declared callable (SPEC_FULL.md §12: additive over the base
// spec's four hardcoded passes, so a host can add a fifth without
// modifying the solver).
var Registry []Analyzer

// Register appends a to Registry. Called from each analyser's init.
func Register(a Analyzer) {
	Registry = append(Registry, a)
}

func forEachProvidedScope(c *ast.Callable, fn func(sc *ast.Scope)) {
	for _, sp := range c.Specializations {
		if sp.Body == ast.Provided && sp.Scope != nil {
			fn(sp.Scope)
		}
	}
}

// walkStatements visits every statement in stmts and recurses into every
// nested Scope (branch bodies, loop bodies, fixup blocks), in source
// order, matching the traversal order package walker's DefaultOnScope
// uses.
func walkStatements(stmts []ast.Statement, visit func(ast.Statement)) {
	for _, st := range stmts {
		visit(st)
		switch s := st.(type) {
		case *ast.Conditional:
			for _, b := range s.Branches {
				walkStatements(b.Body.Statements, visit)
			}
			if s.Else != nil {
				walkStatements(s.Else.Statements, visit)
			}
		case *ast.ForStatement:
			walkStatements(s.Body.Statements, visit)
		case *ast.WhileStatement:
			walkStatements(s.Body.Statements, visit)
		case *ast.RepeatUntilStatement:
			walkStatements(s.Body.Statements, visit)
			if s.Fixup != nil {
				walkStatements(s.Fixup.Statements, visit)
			}
		case *ast.QubitAllocation:
			if s.Body != nil {
				walkStatements(s.Body.Statements, visit)
			}
		}
	}
}

// statementExpressions returns the TypedExpressions attached directly to
// st (not expressions belonging to a nested Scope).
func statementExpressions(st ast.Statement) []*ast.TypedExpression {
	switch s := st.(type) {
	case *ast.ExpressionStatement:
		return []*ast.TypedExpression{s.Expr}
	case *ast.LocalDeclaration:
		return []*ast.TypedExpression{s.Value}
	case *ast.Assignment:
		return []*ast.TypedExpression{s.Value}
	case *ast.Conditional:
		exprs := make([]*ast.TypedExpression, 0, len(s.Branches))
		for _, b := range s.Branches {
			exprs = append(exprs, b.Condition)
		}
		return exprs
	case *ast.ForStatement:
		return []*ast.TypedExpression{s.Iterable}
	case *ast.WhileStatement:
		return []*ast.TypedExpression{s.Condition}
	case *ast.RepeatUntilStatement:
		return []*ast.TypedExpression{s.Until}
	case *ast.ReturnStatement:
		return []*ast.TypedExpression{s.Value}
	case *ast.FailStatement:
		return []*ast.TypedExpression{s.Message}
	default:
		return nil
	}
}

// walkExpressions visits e and every TypedExpression child, in source
// order, matching package walker's DefaultOnExpression recursion shape.
func walkExpressions(e *ast.TypedExpression, visit func(*ast.TypedExpression)) {
	if e == nil {
		return
	}
	visit(e)
	switch k := e.Kind.(type) {
	case ast.RangeLiteral:
		walkExpressions(k.Start, visit)
		if k.Step != nil {
			walkExpressions(k.Step, visit)
		}
		walkExpressions(k.End, visit)
	case ast.TupleLiteral:
		for _, it := range k.Items {
			walkExpressions(it, visit)
		}
	case ast.ArrayLiteral:
		for _, it := range k.Items {
			walkExpressions(it, visit)
		}
	case ast.NewSizedArray:
		walkExpressions(k.Size, visit)
	case ast.ArrayUpdate:
		walkExpressions(k.Array, visit)
		walkExpressions(k.Index, visit)
		walkExpressions(k.Value, visit)
	case ast.BinaryExpression:
		walkExpressions(k.Left, visit)
		walkExpressions(k.Right, visit)
	case ast.Call:
		walkExpressions(k.Callee, visit)
		walkExpressions(k.Argument, visit)
	case ast.Lambda:
		walkExpressions(k.Body, visit)
	case ast.PartialApp:
		walkExpressions(k.Callee, visit)
		walkExpressions(k.Captured, visit)
	}
}

// forEachStatementExpression walks every statement in sc (recursing into
// nested scopes) and, for each, every TypedExpression attached to it
// (recursing into sub-expressions).
func forEachStatementExpression(sc *ast.Scope, visit func(ast.Statement, *ast.TypedExpression)) {
	walkStatements(sc.Statements, func(st ast.Statement) {
		for _, e := range statementExpressions(st) {
			walkExpressions(e, func(ex *ast.TypedExpression) {
				visit(st, ex)
			})
		}
	})
}
