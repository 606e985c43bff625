package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

// Fixture mirrors a toy qcapinspect.yaml file: just enough of the data model
// (base spec §3) to exercise the lifter and solver end to end without a
// surface parser/type checker, which base spec §1 places out of scope for
// the core. Every node is tagged by a "kind" string and decoded through
// yaml.Node, the way the lineage's internal/ext decodes funxy.yaml — except
// here the shape is a recursive tree rather than a flat Config struct.
type fixtureProgram struct {
	Namespaces []fixtureNamespace `yaml:"namespaces"`
}

type fixtureNamespace struct {
	Name      string            `yaml:"name"`
	Callables []fixtureCallable `yaml:"callables"`
}

type fixtureCallable struct {
	Name   string      `yaml:"name"`
	Kind   string      `yaml:"kind"` // "Function" | "Operation"
	Param  fixtureNode `yaml:"param"`
	Input  fixtureNode `yaml:"input"`
	Output fixtureNode `yaml:"output"`
	Known  []fixtureSymbol `yaml:"known"` // extra known symbols visible in Body, beyond Param
	Body   []fixtureNode   `yaml:"body"`
}

type fixtureSymbol struct {
	Name string      `yaml:"name"`
	Type fixtureNode `yaml:"type"`
}

// fixtureNode is a single recursive node: a type, a pattern, a statement or
// an expression, disambiguated by the caller's context and the "kind" field.
type fixtureNode struct {
	raw map[string]interface{}
	str string
}

func (n *fixtureNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&n.str)
	}
	return value.Decode(&n.raw)
}

func (n fixtureNode) kind() string {
	if n.str != "" {
		return n.str
	}
	k, _ := n.raw["kind"].(string)
	return k
}

func (n fixtureNode) sub(key string) fixtureNode {
	return toNode(n.raw[key])
}

func (n fixtureNode) subs(key string) []fixtureNode {
	raw, _ := n.raw[key].([]interface{})
	out := make([]fixtureNode, len(raw))
	for i, r := range raw {
		out[i] = toNode(r)
	}
	return out
}

func (n fixtureNode) strField(key string) string {
	s, _ := n.raw[key].(string)
	return s
}

func (n fixtureNode) boolField(key string) bool {
	b, _ := n.raw[key].(bool)
	return b
}

func (n fixtureNode) intField(key string) int64 {
	switch v := n.raw[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func (n fixtureNode) floatField(key string) float64 {
	switch v := n.raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toNode(raw interface{}) fixtureNode {
	switch v := raw.(type) {
	case string:
		return fixtureNode{str: v}
	case map[string]interface{}:
		return fixtureNode{raw: v}
	default:
		return fixtureNode{}
	}
}

// LoadFixture reads a YAML program fixture from path and builds an
// *ast.Program out of it. Every node is synthesised at source.Zero since the
// fixture has no real source text to point into — a host backed by an
// actual parser attaches real Ranges instead.
func LoadFixture(path string) (*ast.Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	var fp fixtureProgram
	if err := yaml.Unmarshal(raw, &fp); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return buildProgram(fp), nil
}

func buildProgram(fp fixtureProgram) *ast.Program {
	namespaces := make([]*ast.Namespace, len(fp.Namespaces))
	for i, fn := range fp.Namespaces {
		elements := make([]ast.Element, len(fn.Callables))
		for j, fc := range fn.Callables {
			elements[j] = buildCallable(fn.Name, fc)
		}
		namespaces[i] = &ast.Namespace{Name: fn.Name, Elements: elements}
	}
	return &ast.Program{Namespaces: namespaces}
}

func buildCallable(nsName string, fc fixtureCallable) *ast.Callable {
	kind := ast.Function
	if fc.Kind == "Operation" {
		kind = ast.Operation
	}
	input := buildType(fc.Input)
	output := buildType(fc.Output)
	param := buildPattern(fc.Param, input)

	known := param.Names()
	for _, ks := range fc.Known {
		known = append(known, ast.SymbolName{Name: ks.Name, Type: buildType(ks.Type)})
	}

	stmts := make([]ast.Statement, len(fc.Body))
	for i, fb := range fc.Body {
		stmts[i] = buildStatement(fb)
	}

	info := types.CallableInformation{}
	var signature types.Type
	if kind == ast.Operation {
		signature = types.Operation{Input: input, Output: output, Info: info}
	} else {
		signature = types.Function{Input: input, Output: output, Info: info}
	}

	return &ast.Callable{
		Name:            nsName + "." + fc.Name,
		Kind:            kind,
		Access:          ast.Public,
		Location:        source.Zero,
		Signature:       signature,
		ArgumentPattern: param,
		Specializations: []*ast.Specialization{{
			Kind: ast.SpecBody,
			Body: ast.Provided,
			Scope: &ast.Scope{KnownSymbols: known, Statements: stmts},
		}},
	}
}

func buildType(n fixtureNode) types.Type {
	switch n.kind() {
	case "", "Int":
		return types.Base{Kind: types.Int}
	case "BigInt":
		return types.Base{Kind: types.BigInt}
	case "Double":
		return types.Base{Kind: types.Double}
	case "Bool":
		return types.Base{Kind: types.Bool}
	case "String":
		return types.Base{Kind: types.String}
	case "Qubit":
		return types.Base{Kind: types.Qubit}
	case "Result":
		return types.Base{Kind: types.Result}
	case "Pauli":
		return types.Base{Kind: types.Pauli}
	case "Range":
		return types.Base{Kind: types.Range}
	case "Unit":
		return types.Base{Kind: types.Unit}
	case "Tuple":
		items := n.subs("items")
		out := make([]types.Type, len(items))
		for i, it := range items {
			out[i] = buildType(it)
		}
		return types.Tuple{Items: out}
	case "Array":
		return types.Array{Element: buildType(n.sub("element"))}
	case "Function":
		return types.Function{Input: buildType(n.sub("input")), Output: buildType(n.sub("output"))}
	case "Operation":
		return types.Operation{Input: buildType(n.sub("input")), Output: buildType(n.sub("output"))}
	default:
		return types.UserDefined{Name: n.kind()}
	}
}

func buildPattern(n fixtureNode, t types.Type) ast.SymbolPattern {
	switch n.kind() {
	case "discard":
		return ast.DiscardedSymbol{Type: t}
	case "tuple":
		items := n.subs("items")
		tupleType, _ := t.(types.Tuple)
		out := make([]ast.SymbolPattern, len(items))
		for i, it := range items {
			var elemType types.Type
			if i < len(tupleType.Items) {
				elemType = tupleType.Items[i]
			}
			out[i] = buildPattern(it, elemType)
		}
		return ast.SymbolTuple{Items: out}
	default:
		name := n.kind()
		if name == "" {
			name = n.strField("name")
		}
		return ast.SymbolName{Name: name, Type: t}
	}
}

func buildStatement(n fixtureNode) ast.Statement {
	switch n.kind() {
	case "expr":
		return &ast.ExpressionStatement{Expr: buildExpr(n.sub("value")), Range: source.Zero}
	case "let":
		t := buildType(n.sub("type"))
		return &ast.LocalDeclaration{
			Pattern: buildPattern(n.sub("pattern"), t),
			Mutable: n.boolField("mutable"),
			Value:   buildExpr(n.sub("value")),
			Range:   source.Zero,
		}
	case "set":
		return &ast.Assignment{
			Target: ast.SymbolName{Name: n.strField("target")},
			Value:  buildExpr(n.sub("value")),
			Range:  source.Zero,
		}
	case "if":
		branches := n.subs("branches")
		out := make([]ast.CondBranch, len(branches))
		for i, b := range branches {
			out[i] = ast.CondBranch{Condition: buildExpr(b.sub("condition")), Body: buildScope(b.subs("body"))}
		}
		var elseScope *ast.Scope
		if els := n.subs("else"); len(els) > 0 || n.raw["else"] != nil {
			elseScope = buildScope(els)
		}
		return &ast.Conditional{Branches: out, Else: elseScope, Range: source.Zero}
	case "for":
		t := buildType(n.sub("elementType"))
		return &ast.ForStatement{
			Pattern:  buildPattern(n.sub("pattern"), t),
			Iterable: buildExpr(n.sub("iterable")),
			Body:     buildScope(n.subs("body")),
			Range:    source.Zero,
		}
	case "while":
		return &ast.WhileStatement{
			Condition: buildExpr(n.sub("condition")),
			Body:      buildScope(n.subs("body")),
			Range:     source.Zero,
		}
	case "repeat":
		var fixup *ast.Scope
		if fx := n.subs("fixup"); len(fx) > 0 {
			fixup = buildScope(fx)
		}
		return &ast.RepeatUntilStatement{
			Body:  buildScope(n.subs("body")),
			Until: buildExpr(n.sub("until")),
			Fixup: fixup,
			Range: source.Zero,
		}
	case "use":
		t := buildType(n.sub("type"))
		var body *ast.Scope
		if b := n.subs("body"); len(b) > 0 {
			body = buildScope(b)
		}
		return &ast.QubitAllocation{
			Pattern: buildPattern(n.sub("pattern"), t),
			Borrow:  n.boolField("borrow"),
			Body:    body,
			Range:   source.Zero,
		}
	case "return":
		return &ast.ReturnStatement{Value: buildExpr(n.sub("value")), Range: source.Zero}
	case "fail":
		return &ast.FailStatement{Message: buildExpr(n.sub("message")), Range: source.Zero}
	default:
		return &ast.ExpressionStatement{Expr: buildExpr(n), Range: source.Zero}
	}
}

func buildScope(body []fixtureNode) *ast.Scope {
	stmts := make([]ast.Statement, len(body))
	for i, b := range body {
		stmts[i] = buildStatement(b)
	}
	return &ast.Scope{Statements: stmts}
}

func buildExpr(n fixtureNode) *ast.TypedExpression {
	switch n.kind() {
	case "int":
		return &ast.TypedExpression{Kind: ast.IntLiteral{Value: n.intField("value")}, Type: types.Base{Kind: types.Int}, Range: source.Zero}
	case "bigint":
		return &ast.TypedExpression{Kind: ast.BigIntLiteral{Value: n.strField("value")}, Type: types.Base{Kind: types.BigInt}, Range: source.Zero}
	case "double":
		return &ast.TypedExpression{Kind: ast.DoubleLiteral{Value: n.floatField("value")}, Type: types.Base{Kind: types.Double}, Range: source.Zero}
	case "bool":
		return &ast.TypedExpression{Kind: ast.BoolLiteral{Value: n.boolField("value")}, Type: types.Base{Kind: types.Bool}, Range: source.Zero}
	case "string":
		return &ast.TypedExpression{Kind: ast.StringLiteral{Value: n.strField("value")}, Type: types.Base{Kind: types.String}, Range: source.Zero}
	case "result":
		return &ast.TypedExpression{Kind: ast.ResultLiteral{Zero: n.boolField("zero")}, Type: types.Base{Kind: types.Result}, Range: source.Zero}
	case "ident":
		name := n.strField("name")
		return &ast.TypedExpression{Kind: ast.Identifier{Name: name}, Type: buildType(n.sub("type")), Range: source.Zero}
	case "tuple":
		items := n.subs("items")
		exprs := make([]*ast.TypedExpression, len(items))
		elemTypes := make([]types.Type, len(items))
		for i, it := range items {
			exprs[i] = buildExpr(it)
			elemTypes[i] = exprs[i].Type
		}
		return &ast.TypedExpression{Kind: ast.TupleLiteral{Items: exprs}, Type: types.Tuple{Items: elemTypes}, Range: source.Zero}
	case "array":
		items := n.subs("items")
		exprs := make([]*ast.TypedExpression, len(items))
		var elem types.Type
		for i, it := range items {
			exprs[i] = buildExpr(it)
			elem = exprs[i].Type
		}
		return &ast.TypedExpression{Kind: ast.ArrayLiteral{Items: exprs}, Type: types.Array{Element: elem}, Range: source.Zero}
	case "newSizedArray":
		elem := buildType(n.sub("element"))
		return &ast.TypedExpression{
			Kind:  ast.NewSizedArray{Element: elem, Size: buildExpr(n.sub("size"))},
			Type:  types.Array{Element: elem},
			Range: source.Zero,
		}
	case "arrayUpdate":
		arr := buildExpr(n.sub("array"))
		return &ast.TypedExpression{
			Kind: ast.ArrayUpdate{
				Array:   arr,
				Index:   buildExpr(n.sub("index")),
				Value:   buildExpr(n.sub("value")),
				InPlace: n.boolField("inPlace"),
			},
			Type:  arr.Type,
			Range: source.Zero,
		}
	case "binary":
		left := buildExpr(n.sub("left"))
		resultType := buildType(n.sub("type"))
		return &ast.TypedExpression{
			Kind:  ast.BinaryExpression{Op: n.strField("op"), Left: left, Right: buildExpr(n.sub("right"))},
			Type:  resultType,
			Range: source.Zero,
		}
	case "call":
		return &ast.TypedExpression{
			Kind:  ast.Call{Callee: buildExpr(n.sub("callee")), Argument: buildExpr(n.sub("argument")), CallKind: ast.CallPlain},
			Type:  buildType(n.sub("type")),
			Range: source.Zero,
		}
	case "lambda":
		lamKind := ast.LambdaFunction
		if n.strField("lambdaKind") == "Operation" {
			lamKind = ast.LambdaOperation
		}
		paramType := buildType(n.sub("paramType"))
		pat := buildPattern(n.sub("param"), paramType)
		outType := buildType(n.sub("outputType"))
		var sig types.Type
		if lamKind == ast.LambdaOperation {
			sig = types.Operation{Input: paramType, Output: outType}
		} else {
			sig = types.Function{Input: paramType, Output: outType}
		}
		return &ast.TypedExpression{
			Kind: ast.Lambda{Kind: lamKind, Parameter: pat, Body: buildExpr(n.sub("body"))},
			Type: sig, Range: source.Zero,
		}
	default:
		name := n.strField("name")
		return &ast.TypedExpression{Kind: ast.Identifier{Name: name}, Type: types.Base{Kind: types.Unit}, Range: source.Zero}
	}
}
