package analysis

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/pattern"
	"github.com/funvibe/qcapcore/internal/types"
)

func init() { Register(TypeAnalyzer{}) }

// TypeAnalyzer flags uses of types that require higher capability (base
// spec §4.D.3): BigInt and Double values appearing anywhere in a provided
// body.
type TypeAnalyzer struct{}

func (TypeAnalyzer) Name() string { return "TypeAnalyzer" }

func (TypeAnalyzer) Analyze(c *ast.Callable, pol policy.TargetPolicy) []pattern.Pattern {
	var out []pattern.Pattern
	forEachProvidedScope(c, func(sc *ast.Scope) {
		forEachStatementExpression(sc, func(_ ast.Statement, ex *ast.TypedExpression) {
			b, ok := ex.Type.(types.Base)
			if !ok {
				return
			}
			switch b.Kind {
			case types.BigInt:
				out = append(out, pattern.Pattern{
					Capability: pol.BigInt,
					Diagnostic: &pattern.Payload{Code: diag.CodeBigIntUse, Range: ex.Range},
				})
			case types.Double:
				out = append(out, pattern.Pattern{
					Capability: pol.Double,
					Diagnostic: &pattern.Payload{Code: diag.CodeDoubleUse, Range: ex.Range},
				})
			}
		})
	})
	return out
}
