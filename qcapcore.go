// Package qcapcore is the capability-inference and lambda-lifting core: it
// exposes the two host-facing operations (base spec §6) over the lower
// internal/ packages. A host embeds this package, builds a Program from its
// own parser/type checker, and calls LiftLambdas then InferCapabilities.
package qcapcore

import (
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/lifter"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/solver"
)

// Program, Namespace, Callable and the rest of the data model are
// re-exported so a host never has to import internal/ast directly.
type (
	Program        = ast.Program
	Namespace      = ast.Namespace
	Callable       = ast.Callable
	Specialization = ast.Specialization
	Scope          = ast.Scope
	Statement      = ast.Statement
	TypedExpression = ast.TypedExpression
)

// Diagnostic is the wire-form diagnostic record (base spec §6).
type Diagnostic = diag.Diagnostic

// TargetPolicy is the host-configurable classical-construct policy
// consumed by the Pattern Analysers (SPEC_FULL.md §10.3).
type TargetPolicy = policy.TargetPolicy

// LibraryResolver lets a host supply the capability of referenced-library
// callables this compilation does not declare (base spec §6
// NamespaceManager/importedSpecializations).
type LibraryResolver = solver.LibraryResolver

// LiftLambdas rewrites every lambda expression in p into a reference (or
// partial application) to a freshly named top-level callable (base spec §6
// `liftLambdas`). On a
// LambdaShape or tree-invariant violation it returns the ORIGINAL program
// unchanged plus an Error-severity diagnostic (base spec §7).
func LiftLambdas(p *Program) (*Program, []Diagnostic) {
	return lifter.Run(p)
}

// InferCapabilities attaches a RequiresCapability attribute to every
// source-declared callable lacking one, using the embedded default target
// policy (base spec §6 `inferCapabilities`).
func InferCapabilities(p *Program) (*Program, []Diagnostic) {
	return solver.Run(p)
}

// InferCapabilitiesWithPolicy is InferCapabilities with an overriding
// target policy and an optional LibraryResolver (SPEC_FULL.md §10.3).
func InferCapabilitiesWithPolicy(p *Program, pol TargetPolicy, lib LibraryResolver) (*Program, []Diagnostic) {
	return solver.RunWithHost(p, pol, lib)
}
