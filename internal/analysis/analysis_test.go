package analysis

import (
	"testing"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/rtcap"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

func providedOperation(stmts []ast.Statement) *ast.Callable {
	return &ast.Callable{
		Name: "NS.Op",
		Kind: ast.Operation,
		Specializations: []*ast.Specialization{{
			Kind: ast.SpecBody, Body: ast.Provided,
			Scope: &ast.Scope{Statements: stmts},
		}},
	}
}

func resultIdent(name string) *ast.TypedExpression {
	return &ast.TypedExpression{Kind: ast.Identifier{Name: name}, Type: types.Base{Kind: types.Result}}
}

func resultCompare() *ast.TypedExpression {
	return &ast.TypedExpression{
		Kind: ast.BinaryExpression{Op: "==", Left: resultIdent("m"), Right: &ast.TypedExpression{
			Kind: ast.ResultLiteral{Zero: true}, Type: types.Base{Kind: types.Result},
		}},
		Type:  types.Base{Kind: types.Bool},
		Range: source.Zero,
	}
}

func TestRegistryHasFourAnalysers(t *testing.T) {
	if len(Registry) != 4 {
		t.Fatalf("Registry has %d analysers, want 4", len(Registry))
	}
	names := map[string]bool{}
	for _, a := range Registry {
		names[a.Name()] = true
	}
	for _, want := range []string{"ResultAnalyzer", "StatementAnalyzer", "TypeAnalyzer", "ArrayAnalyzer"} {
		if !names[want] {
			t.Errorf("Registry missing %s", want)
		}
	}
}

func TestResultAnalyzerGuardedComparison(t *testing.T) {
	c := providedOperation([]ast.Statement{
		&ast.Conditional{
			Branches: []ast.CondBranch{{
				Condition: resultCompare(),
				Body:      &ast.Scope{Statements: []ast.Statement{&ast.ReturnStatement{Value: resultIdent("m")}}},
			}},
			Range: source.Zero,
		},
	})
	pats := ResultAnalyzer{}.Analyze(c, policy.Default)

	var sawFeedback, sawMutation bool
	for _, p := range pats {
		if p.Capability == rtcap.BasicMeasurementFeedback {
			sawFeedback = true
		}
		if p.Diagnostic != nil && p.Diagnostic.Code == diag.CodeMutationInResultConditional {
			sawMutation = true
			if len(p.Diagnostic.Arguments) != 1 || p.Diagnostic.Arguments[0] != "<return>" {
				t.Errorf("mutation pattern arguments = %v, want [<return>]", p.Diagnostic.Arguments)
			}
		}
	}
	if !sawFeedback {
		t.Error("expected a BasicMeasurementFeedback pattern for the guarded comparison")
	}
	if !sawMutation {
		t.Error("expected a mutation-in-conditional pattern for the return inside the guarded branch")
	}
}

func TestResultAnalyzerUnguardedComparisonFlagsAdaptive(t *testing.T) {
	c := providedOperation([]ast.Statement{
		&ast.ExpressionStatement{Expr: resultCompare()},
	})
	pats := ResultAnalyzer{}.Analyze(c, policy.Default)
	if len(pats) != 1 || pats[0].Capability != rtcap.AdaptiveExecution {
		t.Fatalf("got %v, want exactly one AdaptiveExecution pattern", pats)
	}
	if pats[0].Diagnostic.Code != diag.CodeResultComparisonOutsideIf {
		t.Errorf("Code = %v, want CodeResultComparisonOutsideIf", pats[0].Diagnostic.Code)
	}
}

func TestResultAnalyzerSkipsFunctions(t *testing.T) {
	c := providedOperation([]ast.Statement{&ast.ExpressionStatement{Expr: resultCompare()}})
	c.Kind = ast.Function
	if pats := (ResultAnalyzer{}).Analyze(c, policy.Default); pats != nil {
		t.Errorf("expected no patterns for a Function callable, got %v", pats)
	}
}

func TestStatementAnalyzerWhileLoop(t *testing.T) {
	c := providedOperation([]ast.Statement{
		&ast.WhileStatement{Condition: resultIdent("_"), Body: &ast.Scope{}, Range: source.Zero},
	})
	pats := StatementAnalyzer{}.Analyze(c, policy.Default)
	if len(pats) != 1 {
		t.Fatalf("got %d patterns, want 1", len(pats))
	}
	if pats[0].Capability != policy.Default.UnboundedLoop {
		t.Errorf("Capability = %v, want %v", pats[0].Capability, policy.Default.UnboundedLoop)
	}
	if pats[0].Diagnostic.Code != diag.CodeUnboundedLoop {
		t.Errorf("Code = %v, want CodeUnboundedLoop", pats[0].Diagnostic.Code)
	}
}

func TestStatementAnalyzerForUsesPolicyPerConstruct(t *testing.T) {
	c := providedOperation([]ast.Statement{
		&ast.ForStatement{Iterable: resultIdent("_"), Body: &ast.Scope{}, Range: source.Zero},
	})
	pol := policy.TargetPolicy{ClassicalControlFlow: map[string]rtcap.RuntimeCapability{"for": rtcap.FullComputation}}
	pats := StatementAnalyzer{}.Analyze(c, pol)
	if len(pats) != 1 || pats[0].Capability != rtcap.FullComputation {
		t.Fatalf("got %v, want a single FullComputation pattern", pats)
	}
	if pats[0].Diagnostic.Arguments[0] != "for" {
		t.Errorf("Arguments[0] = %q, want %q", pats[0].Diagnostic.Arguments[0], "for")
	}
}

func TestTypeAnalyzerFlagsBigIntAndDouble(t *testing.T) {
	bigIntExpr := &ast.TypedExpression{Kind: ast.BigIntLiteral{Value: "9"}, Type: types.Base{Kind: types.BigInt}, Range: source.Zero}
	doubleExpr := &ast.TypedExpression{Kind: ast.DoubleLiteral{Value: 1.5}, Type: types.Base{Kind: types.Double}, Range: source.Zero}
	c := providedOperation([]ast.Statement{
		&ast.ExpressionStatement{Expr: bigIntExpr},
		&ast.ExpressionStatement{Expr: doubleExpr},
	})
	pats := TypeAnalyzer{}.Analyze(c, policy.Default)
	if len(pats) != 2 {
		t.Fatalf("got %d patterns, want 2", len(pats))
	}
	seen := map[diag.Code]bool{}
	for _, p := range pats {
		seen[p.Diagnostic.Code] = true
	}
	if !seen[diag.CodeBigIntUse] || !seen[diag.CodeDoubleUse] {
		t.Errorf("expected both CodeBigIntUse and CodeDoubleUse, got %v", pats)
	}
}

func TestTypeAnalyzerRunsOnFunctionsToo(t *testing.T) {
	c := &ast.Callable{
		Name: "NS.Fn",
		Kind: ast.Function,
		Specializations: []*ast.Specialization{{
			Kind: ast.SpecBody, Body: ast.Provided,
			Scope: &ast.Scope{Statements: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.TypedExpression{Kind: ast.BigIntLiteral{Value: "1"}, Type: types.Base{Kind: types.BigInt}}},
			}},
		}},
	}
	if pats := (TypeAnalyzer{}).Analyze(c, policy.Default); len(pats) != 1 {
		t.Fatalf("got %d patterns, want 1 (TypeAnalyzer is not restricted to operations)", len(pats))
	}
}

func TestArrayAnalyzerFlagsDynamicSizeAndInPlaceWrite(t *testing.T) {
	sized := &ast.TypedExpression{
		Kind:  ast.NewSizedArray{Element: types.Base{Kind: types.Int}, Size: resultIdent("n")},
		Type:  types.Array{Element: types.Base{Kind: types.Int}},
		Range: source.Zero,
	}
	update := &ast.TypedExpression{
		Kind: ast.ArrayUpdate{
			Array:   sized,
			Index:   &ast.TypedExpression{Kind: ast.IntLiteral{Value: 0}, Type: types.Base{Kind: types.Int}},
			Value:   &ast.TypedExpression{Kind: ast.IntLiteral{Value: 1}, Type: types.Base{Kind: types.Int}},
			InPlace: true,
		},
		Type:  types.Array{Element: types.Base{Kind: types.Int}},
		Range: source.Zero,
	}
	c := providedOperation([]ast.Statement{&ast.ExpressionStatement{Expr: update}})
	pats := ArrayAnalyzer{}.Analyze(c, policy.Default)

	var sawSized, sawInPlace bool
	for _, p := range pats {
		switch p.Diagnostic.Code {
		case diag.CodeDynamicArraySize:
			sawSized = true
		case diag.CodeInPlaceArrayWrite:
			sawInPlace = true
		}
	}
	if !sawSized {
		t.Error("expected a dynamic-array-size pattern (array update wraps a NewSizedArray)")
	}
	if !sawInPlace {
		t.Error("expected an in-place-array-write pattern")
	}
}

func TestArrayAnalyzerIgnoresCopyUpdate(t *testing.T) {
	update := &ast.TypedExpression{
		Kind: ast.ArrayUpdate{
			Array:   &ast.TypedExpression{Kind: ast.Identifier{Name: "arr"}, Type: types.Array{Element: types.Base{Kind: types.Int}}},
			Index:   &ast.TypedExpression{Kind: ast.IntLiteral{Value: 0}, Type: types.Base{Kind: types.Int}},
			Value:   &ast.TypedExpression{Kind: ast.IntLiteral{Value: 1}, Type: types.Base{Kind: types.Int}},
			InPlace: false,
		},
		Type: types.Array{Element: types.Base{Kind: types.Int}},
	}
	c := providedOperation([]ast.Statement{&ast.ExpressionStatement{Expr: update}})
	pats := ArrayAnalyzer{}.Analyze(c, policy.Default)
	for _, p := range pats {
		if p.Diagnostic.Code == diag.CodeInPlaceArrayWrite {
			t.Error("a copy-and-update ArrayUpdate must not flag in-place-write")
		}
	}
}
