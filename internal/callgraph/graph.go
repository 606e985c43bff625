// Package callgraph builds the directed graph over callable names (base
// spec §3 "Call graph") and finds its cycles. Tarjan's SCC algorithm is
// implemented iteratively with an explicit frame stack rather than deep
// recursion.
package callgraph

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

// Edge is one direct dependency, keyed by call-kind and type-argument
// resolution (base spec §3: "direct-dependency groups keyed by call-kind
// and type-argument resolution"). Range is the call expression's own
// position; the solver reports its unresolved-callee diagnostic against it.
// The solver's explanatory warnings are not reported at this range: they
// carry the offending position inside the callee (base spec §4.E).
type Edge struct {
	Callee   string
	CallKind ast.CallKind
	TypeArgs map[string]types.Type
	Range    source.Range
}

// Graph is the call graph: every source-declared callable's name mapped to
// its direct dependencies.
type Graph struct {
	order []string
	edges map[string][]Edge
}

// Build walks every provided specialisation of every callable in p and
// records an Edge for each Call expression whose callee resolves to a
// named callable.
func Build(p *ast.Program) *Graph {
	g := &Graph{edges: make(map[string][]Edge)}
	for _, ns := range p.Namespaces {
		for _, el := range ns.Elements {
			c, ok := el.(*ast.Callable)
			if !ok {
				continue
			}
			g.order = append(g.order, c.Name)
			if _, exists := g.edges[c.Name]; !exists {
				g.edges[c.Name] = nil
			}
			for _, sp := range c.Specializations {
				if sp.Body != ast.Provided || sp.Scope == nil {
					continue
				}
				collectCalls(sp.Scope, func(call ast.Call, typeArgs map[string]types.Type, r source.Range) {
					name, ok := calleeName(call.Callee)
					if !ok {
						return
					}
					g.edges[c.Name] = append(g.edges[c.Name], Edge{
						Callee:   name,
						CallKind: call.CallKind,
						TypeArgs: typeArgs,
						Range:    r,
					})
				})
			}
		}
	}
	return g
}

// calleeName unwraps a callee expression down to the named callable it
// refers to, if any: a plain Identifier/CallableRef, or (after lifting) a
// PartialApp whose own Callee is one of those.
func calleeName(e *ast.TypedExpression) (string, bool) {
	if e == nil {
		return "", false
	}
	switch k := e.Kind.(type) {
	case ast.Identifier:
		return k.Name, true
	case ast.CallableRef:
		return k.Name, true
	case ast.PartialApp:
		return calleeName(k.Callee)
	default:
		return "", false
	}
}

func collectCalls(sc *ast.Scope, visit func(ast.Call, map[string]types.Type, source.Range)) {
	for _, st := range sc.Statements {
		collectCallsInStatement(st, visit)
	}
}

func collectCallsInStatement(st ast.Statement, visit func(ast.Call, map[string]types.Type, source.Range)) {
	switch s := st.(type) {
	case *ast.ExpressionStatement:
		collectCallsInExpr(s.Expr, visit)
	case *ast.LocalDeclaration:
		collectCallsInExpr(s.Value, visit)
	case *ast.Assignment:
		collectCallsInExpr(s.Value, visit)
	case *ast.Conditional:
		for _, b := range s.Branches {
			collectCallsInExpr(b.Condition, visit)
			collectCalls(b.Body, visit)
		}
		if s.Else != nil {
			collectCalls(s.Else, visit)
		}
	case *ast.ForStatement:
		collectCallsInExpr(s.Iterable, visit)
		collectCalls(s.Body, visit)
	case *ast.WhileStatement:
		collectCallsInExpr(s.Condition, visit)
		collectCalls(s.Body, visit)
	case *ast.RepeatUntilStatement:
		collectCalls(s.Body, visit)
		collectCallsInExpr(s.Until, visit)
		if s.Fixup != nil {
			collectCalls(s.Fixup, visit)
		}
	case *ast.QubitAllocation:
		if s.Body != nil {
			collectCalls(s.Body, visit)
		}
	case *ast.ReturnStatement:
		collectCallsInExpr(s.Value, visit)
	case *ast.FailStatement:
		collectCallsInExpr(s.Message, visit)
	}
}

func collectCallsInExpr(e *ast.TypedExpression, visit func(ast.Call, map[string]types.Type, source.Range)) {
	if e == nil {
		return
	}
	switch k := e.Kind.(type) {
	case ast.RangeLiteral:
		collectCallsInExpr(k.Start, visit)
		collectCallsInExpr(k.Step, visit)
		collectCallsInExpr(k.End, visit)
	case ast.TupleLiteral:
		for _, it := range k.Items {
			collectCallsInExpr(it, visit)
		}
	case ast.ArrayLiteral:
		for _, it := range k.Items {
			collectCallsInExpr(it, visit)
		}
	case ast.NewSizedArray:
		collectCallsInExpr(k.Size, visit)
	case ast.ArrayUpdate:
		collectCallsInExpr(k.Array, visit)
		collectCallsInExpr(k.Index, visit)
		collectCallsInExpr(k.Value, visit)
	case ast.BinaryExpression:
		collectCallsInExpr(k.Left, visit)
		collectCallsInExpr(k.Right, visit)
	case ast.Call:
		collectCallsInExpr(k.Callee, visit)
		collectCallsInExpr(k.Argument, visit)
		visit(k, e.TypeArgs, e.Range)
	case ast.Lambda:
		collectCallsInExpr(k.Body, visit)
	case ast.PartialApp:
		collectCallsInExpr(k.Callee, visit)
		collectCallsInExpr(k.Captured, visit)
	}
}

// DirectDependencies returns node's direct dependency edges, in the order
// they were recorded (base spec §4.E "Ordering/tie-breaks": "iteration
// order of the call graph's direct-dependency map").
func (g *Graph) DirectDependencies(node string) []Edge {
	return g.edges[node]
}

// Nodes returns every node the graph was built with, in source order.
func (g *Graph) Nodes() []string {
	return g.order
}

// Has reports whether node was declared in the compilation this graph was
// built from (base spec §4.E: "c is not declared in a source file").
func (g *Graph) Has(node string) bool {
	_, ok := g.edges[node]
	return ok
}
