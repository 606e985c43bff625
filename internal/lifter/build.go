package lifter

import (
	"strings"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

// capturedTupleExpr builds the TupleLiteral of plain Identifier references
// supplied as the captured-environment argument at the lambda's call site
// (base spec §4.C step 5).
func capturedTupleExpr(free []ast.SymbolName, r source.Range) *ast.TypedExpression {
	items := make([]*ast.TypedExpression, len(free))
	for i, f := range free {
		items[i] = &ast.TypedExpression{Kind: ast.Identifier{Name: f.Name}, Type: f.Type, Range: r}
	}
	return &ast.TypedExpression{
		Kind:  ast.TupleLiteral{Items: items},
		Type:  types.Tuple{Items: typesOf(free)},
		Range: r,
	}
}

func namespaceSymbolNames(ns *ast.Namespace) map[string]bool {
	names := make(map[string]bool, len(ns.Elements))
	for _, el := range ns.Elements {
		if c, ok := el.(*ast.Callable); ok {
			names[shortNameOf(ns.Name, c.Name)] = true
		}
	}
	return names
}

func shortNameOf(nsName, fqn string) string {
	prefix := nsName + "."
	if strings.HasPrefix(fqn, prefix) {
		return fqn[len(prefix):]
	}
	return fqn
}
