package analysis

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/pattern"
)

func init() { Register(StatementAnalyzer{}) }

// StatementAnalyzer flags statement kinds that exceed Base (base spec
// §4.D.2): arbitrary while loops and repeat-until loops in operation
// bodies, and classical control constructs (for, conditional) whose
// demanded capability is set by the target policy.
type StatementAnalyzer struct{}

func (StatementAnalyzer) Name() string { return "StatementAnalyzer" }

func (StatementAnalyzer) Analyze(c *ast.Callable, pol policy.TargetPolicy) []pattern.Pattern {
	if c.Kind != ast.Operation {
		return nil
	}
	var out []pattern.Pattern
	forEachProvidedScope(c, func(sc *ast.Scope) {
		walkStatements(sc.Statements, func(st ast.Statement) {
			switch s := st.(type) {
			case *ast.WhileStatement:
				out = append(out, pattern.Pattern{
					Capability: pol.UnboundedLoop,
					Diagnostic: &pattern.Payload{Code: diag.CodeUnboundedLoop, Range: s.Range},
				})
			case *ast.RepeatUntilStatement:
				out = append(out, pattern.Pattern{
					Capability: pol.RepeatUntil,
					Diagnostic: &pattern.Payload{Code: diag.CodeRepeatUntilExceedsBase, Range: s.Range},
				})
			case *ast.ForStatement:
				out = append(out, pattern.Pattern{
					Capability: pol.ClassicalControlFlowCapability("for"),
					Diagnostic: &pattern.Payload{Code: diag.CodeClassicalControlFlow, Arguments: []string{"for"}, Range: s.Range},
				})
			case *ast.Conditional:
				out = append(out, pattern.Pattern{
					Capability: pol.ClassicalControlFlowCapability("conditional"),
					Diagnostic: &pattern.Payload{Code: diag.CodeClassicalControlFlow, Arguments: []string{"conditional"}, Range: s.Range},
				})
			}
		})
	})
	return out
}
