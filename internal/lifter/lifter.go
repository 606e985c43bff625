// Package lifter implements the Lambda Lifter (base spec §4.C): it rewrites
// every Lambda expression into a reference (or partial application) to a
// freshly named top-level callable, appended to its enclosing namespace.
package lifter

import (
	"github.com/google/uuid"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/scope"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
	"github.com/funvibe/qcapcore/internal/walker"
)

type liftState struct {
	tracker       *scope.Tracker
	generated     *[]*ast.Callable
	enclosingFQN  string
	namespaceName string
	runID         string
}

// Run lifts every lambda in p, namespace by namespace, and returns the
// rewritten program (base spec §6 `liftLambdas`). A LambdaShape or
// tree-invariant violation aborts the pass for that namespace's remaining
// work; per base spec §7, the caller then gets the ORIGINAL Program back
// plus an Error-severity diagnostic, never a bare Go error (SPEC_FULL.md
// §10.1). Every diagnostic emitted during the run is tagged with the same
// run ID for host-side log correlation (SPEC_FULL.md §11).
func Run(p *ast.Program) (*ast.Program, []diag.Diagnostic) {
	runID := uuid.New().String()
	namespaces := make([]*ast.Namespace, len(p.Namespaces))
	for i, ns := range p.Namespaces {
		lifted, err := liftNamespace(ns, runID)
		if err != nil {
			return p, []diag.Diagnostic{err.ToDiagnostic(runID)}
		}
		namespaces[i] = lifted
	}
	return &ast.Program{Namespaces: namespaces}, nil
}

func liftNamespace(ns *ast.Namespace, runID string) (*ast.Namespace, *diag.FatalError) {
	var generated []*ast.Callable
	st := &liftState{
		tracker:       scope.NewTracker(namespaceSymbolNames(ns)),
		generated:     &generated,
		namespaceName: ns.Name,
		runID:         runID,
	}
	w := walker.New(st)
	w.OnCallable = liftCallable
	w.OnScope = liftScope
	w.OnExpression = liftExpression

	elements := make([]ast.Element, 0, len(ns.Elements))
	for _, el := range ns.Elements {
		c, ok := el.(*ast.Callable)
		if !ok {
			elements = append(elements, el)
			continue
		}
		lifted := w.OnCallable(w, c)
		if err := w.Err(); err != nil {
			return ns, err
		}
		elements = append(elements, lifted)
	}
	// Generated callables are drained into the namespace at post-visit, in
	// the order they were produced (base spec §4.C step 6, §5 ordering
	// guarantee).
	for _, g := range generated {
		elements = append(elements, g)
	}
	return &ast.Namespace{Name: ns.Name, Elements: elements}, nil
}

func liftCallable(w *walker.Walker, c *ast.Callable) *ast.Callable {
	st := w.State.(*liftState)
	prevFQN := st.enclosingFQN
	st.enclosingFQN = c.Name
	out := walker.DefaultOnCallable(w, c)
	st.enclosingFQN = prevFQN
	return out
}

// liftScope implements base spec §4.B's push/extend-after/pop discipline
// inline, since the generic walker.DefaultOnScope has no scope-tracker
// hook: it only rebuilds children, it does not know about SharedState.
func liftScope(w *walker.Walker, sc *ast.Scope) *ast.Scope {
	st := w.State.(*liftState)
	st.tracker.PushScope(sc.KnownSymbols)
	statements := make([]ast.Statement, len(sc.Statements))
	for i, stmt := range sc.Statements {
		out := w.OnStatement(w, stmt)
		statements[i] = out
		if w.Err() != nil {
			st.tracker.PopScope()
			return sc
		}
		st.tracker.Extend(out.Declares())
	}
	st.tracker.PopScope()
	return &ast.Scope{KnownSymbols: sc.KnownSymbols, Statements: statements}
}

func splitCallableType(t types.Type, r source.Range) (input, output types.Type, err *diag.FatalError) {
	switch tt := t.(type) {
	case types.Function:
		return tt.Input, tt.Output, nil
	case types.Operation:
		return tt.Input, tt.Output, nil
	default:
		return nil, nil, diag.NewFatal(diag.PhaseLift, r,
			"LambdaShape: lambda expression has non-callable resolved type %s", t)
	}
}

// liftExpression is the walker override that does the actual lifting (base
// spec §4.C contract). Non-Lambda expressions fall through to the default
// recursive rebuild.
func liftExpression(w *walker.Walker, e *ast.TypedExpression) *ast.TypedExpression {
	st := w.State.(*liftState)
	lam, isLambda := e.Kind.(ast.Lambda)
	if !isLambda {
		return walker.DefaultOnExpression(w, e)
	}

	// Step 1: lift lambdas inside the body first (post-order). The
	// lambda's own parameters are in scope for the body only.
	paramNames := lam.Parameter.Names()
	st.tracker.PushScope(paramNames)
	newBody := w.OnExpression(w, lam.Body)
	st.tracker.PopScope()
	if w.Err() != nil {
		return e
	}

	input, output, ferr := splitCallableType(e.Type, e.Range)
	if ferr != nil {
		w.Fail(ferr)
		return e
	}

	// Step 2: match the lambda's parameter symbol tree against the input
	// type.
	genParamPattern, ferr := buildParameterPattern(lam.Parameter, input, e.Range)
	if ferr != nil {
		w.Fail(ferr)
		return e
	}

	// Step 3/5: captured environment is known-variables at this point (the
	// lambda's own parameters already popped back out).
	known := st.tracker.KnownVariables()
	free := freeVariables(newBody, known, paramNames)

	name := st.tracker.FreshCallableName(st.enclosingFQN, "Lambda")
	fqName := st.namespaceName + "." + name

	fullParamPattern := genParamPattern
	fullInput := input
	if len(free) > 0 {
		fullParamPattern = ast.SymbolTuple{Items: []ast.SymbolPattern{
			ast.SymbolTuple{Items: symbolPatternsOf(free)},
			genParamPattern,
		}}
		fullInput = types.Tuple{Items: []types.Type{
			types.Tuple{Items: typesOf(free)},
			input,
		}}
	}

	// Step 4/5: characteristics from the lambda's own CallableInformation,
	// Empty for Function-kind lambdas (base spec §4.C step 5).
	info := types.CallableInformation{Inferred: lam.Info.Inferred}
	if lam.Kind == ast.LambdaOperation {
		info.Characteristics = lam.Info.Characteristics
	} else {
		info.Characteristics = types.EmptyCharacteristics
	}

	var genSignature types.Type
	var genKind ast.CallableKind
	if lam.Kind == ast.LambdaOperation {
		genSignature = types.Operation{Input: fullInput, Output: output, Info: info}
		genKind = ast.Operation
	} else {
		genSignature = types.Function{Input: fullInput, Output: output, Info: info}
		genKind = ast.Function
	}

	bodyScope := &ast.Scope{
		KnownSymbols: knownToSymbolNames(known),
		Statements:   []ast.Statement{&ast.ReturnStatement{Value: newBody, Range: e.Range}},
	}

	genCallable := &ast.Callable{
		Name:            fqName,
		Kind:            genKind,
		Access:          ast.Internal,
		Location:        e.Range,
		Signature:       genSignature,
		ArgumentPattern: fullParamPattern,
		Specializations: []*ast.Specialization{{Kind: ast.SpecBody, Body: ast.Provided, Scope: bodyScope}},
	}
	*st.generated = append(*st.generated, genCallable)

	// Step 5: synthesise the replacement expression, typed as the lambda's
	// own original resolved type (DESIGN.md's resolution of the §9 open
	// question): a plain CallableRef when there is nothing to capture, a
	// PartialApp over the captured tuple otherwise — uniformly for
	// Function and Operation lambdas.
	var replacement *ast.TypedExpression
	if len(free) == 0 {
		replacement = &ast.TypedExpression{
			Kind: ast.CallableRef{Name: fqName}, Type: e.Type, Range: e.Range, Inferred: e.Inferred,
		}
	} else {
		calleeRef := &ast.TypedExpression{Kind: ast.CallableRef{Name: fqName}, Type: genSignature, Range: e.Range}
		replacement = &ast.TypedExpression{
			Kind:     ast.PartialApp{Callee: calleeRef, Captured: capturedTupleExpr(free, e.Range)},
			Type:     e.Type,
			Range:    e.Range,
			Inferred: e.Inferred,
		}
	}
	walker.RequireSameType(w, e, replacement)
	return replacement
}
