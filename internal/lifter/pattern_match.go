package lifter

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

// buildParameterPattern matches a lambda's parameter symbol pattern against
// the input half of its resolved type (base spec §4.C step 2), producing
// the generated callable's own parameter pattern (before any free-variable
// prefix is added).
func buildParameterPattern(pat ast.SymbolPattern, input types.Type, r source.Range) (ast.SymbolPattern, *diag.FatalError) {
	switch p := pat.(type) {
	case ast.SymbolName:
		return ast.SymbolName{Name: p.Name, Type: input}, nil

	case ast.DiscardedSymbol:
		return ast.DiscardedSymbol{Type: input}, nil

	case ast.SymbolTuple:
		if len(p.Items) == 0 {
			if !types.IsUnit(input) {
				return nil, diag.NewFatal(diag.PhaseLift, r,
					"LambdaShape: expected Unit for empty symbol-tuple parameter, got %s", input)
			}
			return ast.SymbolName{Name: "__lambdaUnitParam__", Type: input}, nil
		}
		tup, ok := input.(types.Tuple)
		if !ok || len(tup.Items) != len(p.Items) {
			return nil, diag.NewFatal(diag.PhaseLift, r,
				"LambdaShape: expected tuple type of arity %d, got %s", len(p.Items), input)
		}
		items := make([]ast.SymbolPattern, len(p.Items))
		for i, item := range p.Items {
			sub, err := buildParameterPattern(item, tup.Items[i], r)
			if err != nil {
				return nil, err
			}
			items[i] = sub
		}
		return ast.SymbolTuple{Items: items}, nil

	default:
		return nil, diag.NewFatal(diag.PhaseLift, r, "LambdaShape: unknown symbol pattern kind %T", pat)
	}
}
