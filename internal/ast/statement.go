package ast

import "github.com/funvibe/qcapcore/internal/source"

// Statement is the tagged union of statement forms (base spec §3).
// Traversal dispatches on the concrete Go type via a type switch in
// package walker (see program.go's note on the Accept/Visitor departure).
type Statement interface {
	statementNode()
	// Declares returns the symbol bindings this statement introduces into
	// its ENCLOSING scope (base spec §4.B: "extend known-variables by that
	// Statement's symbol declarations"). Statements whose bindings are
	// fully contained within their own nested Scope (Conditional, For,
	// While, RepeatUntil, a block-scoped QubitAllocation) return nil.
	Declares() []SymbolName
	GetRange() source.Range
}

// ExpressionStatement is a statement consisting of a single expression,
// evaluated for effect.
type ExpressionStatement struct {
	Expr  *TypedExpression
	Range source.Range
}

func (*ExpressionStatement) statementNode()           {}
func (*ExpressionStatement) Declares() []SymbolName    { return nil }
func (s *ExpressionStatement) GetRange() source.Range { return s.Range }

// LocalDeclaration binds Pattern to Value; Mutable distinguishes `mutable`
// from `let`/immutable bindings.
type LocalDeclaration struct {
	Pattern SymbolPattern
	Mutable bool
	Value   *TypedExpression
	Range   source.Range
}

func (*LocalDeclaration) statementNode()           {}
func (s *LocalDeclaration) Declares() []SymbolName  { return s.Pattern.Names() }
func (s *LocalDeclaration) GetRange() source.Range { return s.Range }

// Assignment is `set <target> = <value>` over a previously-declared
// mutable binding; it introduces no new symbol.
type Assignment struct {
	Target SymbolPattern
	Value  *TypedExpression
	Range  source.Range
}

func (*Assignment) statementNode()           {}
func (*Assignment) Declares() []SymbolName    { return nil }
func (s *Assignment) GetRange() source.Range { return s.Range }

// CondBranch is one `elif`/`if` arm of a Conditional.
type CondBranch struct {
	Condition *TypedExpression
	Body      *Scope
}

// Conditional is an if/elif/else chain. Branch bodies and Else are each
// their own Scope and do not leak bindings outward.
type Conditional struct {
	Branches []CondBranch
	Else     *Scope // nil if there is no else
	Range    source.Range
}

func (*Conditional) statementNode()           {}
func (*Conditional) Declares() []SymbolName    { return nil }
func (s *Conditional) GetRange() source.Range { return s.Range }

// ForStatement iterates Pattern over Iterable, running Body once per
// element; Pattern is scoped to Body only.
type ForStatement struct {
	Pattern  SymbolPattern
	Iterable *TypedExpression
	Body     *Scope
	Range    source.Range
}

func (*ForStatement) statementNode()           {}
func (*ForStatement) Declares() []SymbolName    { return nil }
func (s *ForStatement) GetRange() source.Range { return s.Range }

// WhileStatement is a classical while loop (base spec §4.D.2
// StatementAnalyzer: "arbitrary while loops in operation bodies raise
// capability").
type WhileStatement struct {
	Condition *TypedExpression
	Body      *Scope
	Range     source.Range
}

func (*WhileStatement) statementNode()           {}
func (*WhileStatement) Declares() []SymbolName    { return nil }
func (s *WhileStatement) GetRange() source.Range { return s.Range }

// RepeatUntilStatement runs Body, then evaluates Until; if false, runs the
// optional Fixup block and repeats.
type RepeatUntilStatement struct {
	Body  *Scope
	Until *TypedExpression
	Fixup *Scope // nil if there is no fixup block
	Range source.Range
}

func (*RepeatUntilStatement) statementNode()           {}
func (*RepeatUntilStatement) Declares() []SymbolName    { return nil }
func (s *RepeatUntilStatement) GetRange() source.Range { return s.Range }

// QubitAllocation is `use`/`borrow <pattern> = <init>`. When Body is nil
// the binding extends the enclosing scope for the remainder of its
// statements; when Body is set, the binding is scoped to Body only.
type QubitAllocation struct {
	Pattern SymbolPattern
	Borrow  bool
	Body    *Scope // nilable
	Range   source.Range
}

func (*QubitAllocation) statementNode() {}
func (s *QubitAllocation) Declares() []SymbolName {
	if s.Body != nil {
		return nil
	}
	return s.Pattern.Names()
}
func (s *QubitAllocation) GetRange() source.Range { return s.Range }

// ReturnStatement returns Value from the enclosing specialisation.
type ReturnStatement struct {
	Value *TypedExpression
	Range source.Range
}

func (*ReturnStatement) statementNode()           {}
func (*ReturnStatement) Declares() []SymbolName    { return nil }
func (s *ReturnStatement) GetRange() source.Range { return s.Range }

// FailStatement aborts execution with Message.
type FailStatement struct {
	Message *TypedExpression
	Range   source.Range
}

func (*FailStatement) statementNode()           {}
func (*FailStatement) Declares() []SymbolName    { return nil }
func (s *FailStatement) GetRange() source.Range { return s.Range }
