package lifter

import (
	"testing"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

func intType() types.Type { return types.Base{Kind: types.Int} }

func ident(name string, t types.Type) *ast.TypedExpression {
	return &ast.TypedExpression{Kind: ast.Identifier{Name: name}, Type: t}
}

// programWithLambda builds a single-namespace, single-operation program whose body is
// just `return <lambdaExpr>`.
func programWithLambda(lambdaExpr *ast.TypedExpression) *ast.Program {
	c := &ast.Callable{
		Name: "Demo.Host",
		Kind: ast.Operation,
		Signature: types.Operation{
			Input:  types.Base{Kind: types.Unit},
			Output: lambdaExpr.Type,
		},
		ArgumentPattern: ast.DiscardedSymbol{Type: types.Base{Kind: types.Unit}},
		Specializations: []*ast.Specialization{{
			Kind: ast.SpecBody, Body: ast.Provided,
			Scope: &ast.Scope{Statements: []ast.Statement{
				&ast.ReturnStatement{Value: lambdaExpr, Range: source.Zero},
			}},
		}},
	}
	return &ast.Program{Namespaces: []*ast.Namespace{{Name: "Demo", Elements: []ast.Element{c}}}}
}

func noCaptureLambda() *ast.TypedExpression {
	return &ast.TypedExpression{
		Kind: ast.Lambda{
			Kind:      ast.LambdaFunction,
			Parameter: ast.SymbolName{Name: "x", Type: intType()},
			Body:      ident("x", intType()),
		},
		Type: types.Function{Input: intType(), Output: intType()},
	}
}

func capturingLambda() *ast.TypedExpression {
	// The lambda's parameter `x` plus a free reference to `base`, which is
	// only visible if the surrounding scope has already bound it by the
	// time the lambda is reached.
	return &ast.TypedExpression{
		Kind: ast.Lambda{
			Kind:      ast.LambdaFunction,
			Parameter: ast.SymbolName{Name: "x", Type: intType()},
			Body: &ast.TypedExpression{
				Kind: ast.BinaryExpression{Op: "+", Left: ident("base", intType()), Right: ident("x", intType())},
				Type: intType(),
			},
		},
		Type: types.Function{Input: intType(), Output: intType()},
	}
}

func programWithCapturingLambda() *ast.Program {
	lam := capturingLambda()
	c := &ast.Callable{
		Name: "Demo.MakeAdder",
		Kind: ast.Function,
		Signature: types.Function{
			Input:  intType(),
			Output: lam.Type,
		},
		ArgumentPattern: ast.SymbolName{Name: "base", Type: intType()},
		Specializations: []*ast.Specialization{{
			Kind: ast.SpecBody, Body: ast.Provided,
			Scope: &ast.Scope{
				KnownSymbols: []ast.SymbolName{{Name: "base", Type: intType()}},
				Statements: []ast.Statement{
					&ast.ReturnStatement{Value: lam, Range: source.Zero},
				},
			},
		}},
	}
	return &ast.Program{Namespaces: []*ast.Namespace{{Name: "Demo", Elements: []ast.Element{c}}}}
}

func returnValue(c *ast.Callable) *ast.TypedExpression {
	sc := c.Specializations[0].Scope
	ret := sc.Statements[len(sc.Statements)-1].(*ast.ReturnStatement)
	return ret.Value
}

func findCallable(p *ast.Program, name string) *ast.Callable {
	for _, ns := range p.Namespaces {
		for _, el := range ns.Elements {
			if c, ok := el.(*ast.Callable); ok && c.Name == name {
				return c
			}
		}
	}
	return nil
}

func TestNoCaptureLambdaLiftsToCallableRef(t *testing.T) {
	out, diags := Run(programWithLambda(noCaptureLambda()))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	host := findCallable(out, "Demo.Host")
	if host == nil {
		t.Fatal("host callable not found in lifted program")
	}
	repl := returnValue(host)
	ref, ok := repl.Kind.(ast.CallableRef)
	if !ok {
		t.Fatalf("replacement kind = %T, want ast.CallableRef", repl.Kind)
	}
	if ref.Name != "Demo.__Host_Lambda_0__" {
		t.Errorf("generated name = %q, want Demo.__Host_Lambda_0__", ref.Name)
	}

	gen := findCallable(out, "Demo.__Host_Lambda_0__")
	if gen == nil {
		t.Fatal("generated callable not appended to the namespace")
	}
	if gen.Access != ast.Internal {
		t.Errorf("generated callable Access = %v, want Internal", gen.Access)
	}
}

func TestNoLambdaSurvivesLifting(t *testing.T) {
	out, diags := Run(programWithCapturingLambda())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	for _, ns := range out.Namespaces {
		for _, el := range ns.Elements {
			c, ok := el.(*ast.Callable)
			if !ok {
				continue
			}
			for _, sp := range c.Specializations {
				if sp.Scope == nil {
					continue
				}
				assertNoLambda(t, sp.Scope)
			}
		}
	}
}

func assertNoLambda(t *testing.T, sc *ast.Scope) {
	t.Helper()
	for _, st := range sc.Statements {
		for _, e := range exprsOf(st) {
			walkNoLambda(t, e)
		}
	}
}

func exprsOf(st ast.Statement) []*ast.TypedExpression {
	switch s := st.(type) {
	case *ast.ReturnStatement:
		return []*ast.TypedExpression{s.Value}
	case *ast.ExpressionStatement:
		return []*ast.TypedExpression{s.Expr}
	default:
		return nil
	}
}

func walkNoLambda(t *testing.T, e *ast.TypedExpression) {
	t.Helper()
	if e == nil {
		return
	}
	switch k := e.Kind.(type) {
	case ast.Lambda:
		t.Fatal("a Lambda expression survived lifting")
	case ast.PartialApp:
		walkNoLambda(t, k.Callee)
		walkNoLambda(t, k.Captured)
	case ast.BinaryExpression:
		walkNoLambda(t, k.Left)
		walkNoLambda(t, k.Right)
	}
}

func TestCapturingLambdaLiftsToPartialApp(t *testing.T) {
	out, diags := Run(programWithCapturingLambda())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	host := findCallable(out, "Demo.MakeAdder")
	repl := returnValue(host)
	pa, ok := repl.Kind.(ast.PartialApp)
	if !ok {
		t.Fatalf("replacement kind = %T, want ast.PartialApp", repl.Kind)
	}
	if repl.Type.(types.Function).Input == nil {
		t.Fatal("PartialApp replacement must keep the lambda's own original type")
	}
	captured, ok := pa.Captured.Kind.(ast.TupleLiteral)
	if !ok || len(captured.Items) != 1 {
		t.Fatalf("captured = %#v, want a one-item tuple (the free variable 'base')", pa.Captured.Kind)
	}
	if id, ok := captured.Items[0].Kind.(ast.Identifier); !ok || id.Name != "base" {
		t.Errorf("captured tuple item = %#v, want Identifier(base)", captured.Items[0].Kind)
	}
}

func TestLiftingIsIdempotent(t *testing.T) {
	once, diags := Run(programWithLambda(noCaptureLambda()))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	twice, diags2 := Run(once)
	if len(diags2) != 0 {
		t.Fatalf("unexpected diagnostics on second pass: %v", diags2)
	}
	if len(twice.Namespaces[0].Elements) != len(once.Namespaces[0].Elements) {
		t.Errorf("second lifting pass changed the element count: %d vs %d",
			len(twice.Namespaces[0].Elements), len(once.Namespaces[0].Elements))
	}
}

func TestLambdaShapeMismatchReturnsOriginalProgramPlusDiagnostic(t *testing.T) {
	// A lambda whose parameter is a two-item tuple but whose resolved input
	// type is a bare Int: a LambdaShape violation (base spec §7).
	bad := &ast.TypedExpression{
		Kind: ast.Lambda{
			Kind: ast.LambdaFunction,
			Parameter: ast.SymbolTuple{Items: []ast.SymbolPattern{
				ast.SymbolName{Name: "a", Type: intType()},
				ast.SymbolName{Name: "b", Type: intType()},
			}},
			Body: ident("a", intType()),
		},
		Type: types.Function{Input: intType(), Output: intType()},
	}
	original := programWithLambda(bad)
	out, diags := Run(original)
	if len(diags) != 1 {
		t.Fatalf("diags = %v, want exactly one FatalError diagnostic", diags)
	}
	if out != original {
		t.Error("a LambdaShape violation must return the ORIGINAL program unchanged, not a partial rewrite")
	}
}
