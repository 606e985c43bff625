package analysis

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/pattern"
	"github.com/funvibe/qcapcore/internal/rtcap"
	"github.com/funvibe/qcapcore/internal/types"
)

func init() { Register(ResultAnalyzer{}) }

// ResultAnalyzer flags comparisons between Result values (base spec
// §4.D.1): inside an operation body, such a comparison demands at least
// BasicMeasurementFeedback; a comparison not used directly as an if-block's
// condition demands more (AdaptiveExecution, since the runtime must also
// carry the comparison's outcome into ordinary classical control flow); a
// return or assignment found inside a block conditioned on a guarded
// comparison also demands AdaptiveExecution, and is reported (QC003).
type ResultAnalyzer struct{}

func (ResultAnalyzer) Name() string { return "ResultAnalyzer" }

func isResultType(t types.Type) bool {
	b, ok := t.(types.Base)
	return ok && b.Kind == types.Result
}

func isResultCompare(e *ast.TypedExpression) bool {
	if e == nil {
		return false
	}
	bin, ok := e.Kind.(ast.BinaryExpression)
	if !ok {
		return false
	}
	if bin.Op != "==" && bin.Op != "!=" {
		return false
	}
	return isResultType(bin.Left.Type) && isResultType(bin.Right.Type)
}

// mutatedName finds the first assignment or return statement inside sc: it
// returns the assignment's target name, or "<return>" for a return
// statement, and whether one was found.
func mutatedName(sc *ast.Scope) (string, bool) {
	name := ""
	found := false
	walkStatements(sc.Statements, func(st ast.Statement) {
		if found {
			return
		}
		switch s := st.(type) {
		case *ast.Assignment:
			if names := s.Target.Names(); len(names) > 0 {
				name = names[0].Name
			}
			found = true
		case *ast.ReturnStatement:
			name = "<return>"
			found = true
		}
	})
	return name, found
}

func (ResultAnalyzer) Analyze(c *ast.Callable, _ policy.TargetPolicy) []pattern.Pattern {
	if c.Kind != ast.Operation {
		return nil
	}
	var out []pattern.Pattern
	forEachProvidedScope(c, func(sc *ast.Scope) {
		guarded := make(map[*ast.TypedExpression]bool)
		walkStatements(sc.Statements, func(st ast.Statement) {
			cond, ok := st.(*ast.Conditional)
			if !ok {
				return
			}
			for _, b := range cond.Branches {
				if !isResultCompare(b.Condition) {
					continue
				}
				guarded[b.Condition] = true
				out = append(out, pattern.Pattern{
					Capability: rtcap.BasicMeasurementFeedback,
					Diagnostic: &pattern.Payload{
						Code:  diag.CodeResultComparisonNeedsFeedback,
						Range: b.Condition.Range,
					},
				})
				if name, ok := mutatedName(b.Body); ok {
					out = append(out, pattern.Pattern{
						Capability: rtcap.AdaptiveExecution,
						Diagnostic: &pattern.Payload{
							Code:      diag.CodeMutationInResultConditional,
							Arguments: []string{name},
							Range:     b.Condition.Range,
						},
					})
				}
			}
		})
		forEachStatementExpression(sc, func(_ ast.Statement, ex *ast.TypedExpression) {
			if !isResultCompare(ex) || guarded[ex] {
				return
			}
			out = append(out, pattern.Pattern{
				Capability: rtcap.AdaptiveExecution,
				Diagnostic: &pattern.Payload{
					Code:  diag.CodeResultComparisonOutsideIf,
					Range: ex.Range,
				},
			})
		})
	})
	return out
}
