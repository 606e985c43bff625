package analysis

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/pattern"
)

func init() { Register(ArrayAnalyzer{}) }

// ArrayAnalyzer flags dynamically-sized array constructions and in-place
// updates whose capability exceeds Base (base spec §4.D.4).
type ArrayAnalyzer struct{}

func (ArrayAnalyzer) Name() string { return "ArrayAnalyzer" }

func (ArrayAnalyzer) Analyze(c *ast.Callable, pol policy.TargetPolicy) []pattern.Pattern {
	var out []pattern.Pattern
	forEachProvidedScope(c, func(sc *ast.Scope) {
		forEachStatementExpression(sc, func(_ ast.Statement, ex *ast.TypedExpression) {
			switch k := ex.Kind.(type) {
			case ast.NewSizedArray:
				out = append(out, pattern.Pattern{
					Capability: pol.DynamicArraySize,
					Diagnostic: &pattern.Payload{Code: diag.CodeDynamicArraySize, Range: ex.Range},
				})
			case ast.ArrayUpdate:
				if k.InPlace {
					out = append(out, pattern.Pattern{
						Capability: pol.InPlaceArrayWrite,
						Diagnostic: &pattern.Payload{Code: diag.CodeInPlaceArrayWrite, Range: ex.Range},
					})
				}
			}
		})
	})
	return out
}
