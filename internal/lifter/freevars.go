package lifter

import (
	"sort"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/types"
)

// freeVariables returns the identifiers used in body that resolve to a
// binding in known (the captured environment) and are not shadowed by
// bound, ordered by first syntactic use in the body (base spec §4.C step
// 5; DESIGN.md's resolution of the free-variable-ordering open question in
// §9).
func freeVariables(body *ast.TypedExpression, known map[string]types.Type, bound []ast.SymbolName) []ast.SymbolName {
	shadowed := make(map[string]bool, len(bound))
	for _, b := range bound {
		shadowed[b.Name] = true
	}
	seen := make(map[string]bool)
	var order []ast.SymbolName

	var walk func(e *ast.TypedExpression)
	walk = func(e *ast.TypedExpression) {
		if e == nil {
			return
		}
		if id, ok := e.Kind.(ast.Identifier); ok {
			if !shadowed[id.Name] && !seen[id.Name] {
				if t, ok2 := known[id.Name]; ok2 {
					seen[id.Name] = true
					order = append(order, ast.SymbolName{Name: id.Name, Type: t})
				}
			}
		}
		switch k := e.Kind.(type) {
		case ast.RangeLiteral:
			walk(k.Start)
			walk(k.Step)
			walk(k.End)
		case ast.TupleLiteral:
			for _, it := range k.Items {
				walk(it)
			}
		case ast.ArrayLiteral:
			for _, it := range k.Items {
				walk(it)
			}
		case ast.NewSizedArray:
			walk(k.Size)
		case ast.ArrayUpdate:
			walk(k.Array)
			walk(k.Index)
			walk(k.Value)
		case ast.BinaryExpression:
			walk(k.Left)
			walk(k.Right)
		case ast.Call:
			walk(k.Callee)
			walk(k.Argument)
		case ast.Lambda:
			walk(k.Body)
		case ast.PartialApp:
			walk(k.Callee)
			walk(k.Captured)
		}
	}
	walk(body)
	return order
}

func typesOf(names []ast.SymbolName) []types.Type {
	out := make([]types.Type, len(names))
	for i, n := range names {
		out[i] = n.Type
	}
	return out
}

func symbolPatternsOf(names []ast.SymbolName) []ast.SymbolPattern {
	out := make([]ast.SymbolPattern, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

// knownToSymbolNames snapshots a known-variables map into a deterministically
// ordered slice (map iteration order is not stable; Scope.KnownSymbols must
// be, so output stays reproducible across runs).
func knownToSymbolNames(known map[string]types.Type) []ast.SymbolName {
	out := make([]ast.SymbolName, 0, len(known))
	for name, t := range known {
		out = append(out, ast.SymbolName{Name: name, Type: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
