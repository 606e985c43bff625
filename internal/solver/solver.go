// Package solver implements the Capability Solver (base spec §4.E): source
// capability via the four pattern analysers, a strongly-connected-component
// condensation of the call graph, then a memoised walk over the resulting
// DAG that attaches a RequiresCapability attribute to every source-declared
// callable lacking one, plus the internal and explanatory diagnostics §7
// and §4.E ask for at every call site.
package solver

import (
	"sort"

	"github.com/google/uuid"

	"github.com/funvibe/qcapcore/internal/analysis"
	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/callgraph"
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/pattern"
	"github.com/funvibe/qcapcore/internal/policy"
	"github.com/funvibe/qcapcore/internal/rtcap"
)

// LibraryResolver is the host-owned collaborator base spec §6 calls
// `NamespaceManager`/`importedSpecializations`: a read-only lookup of the
// capability a referenced-library callable (one this compilation does not
// declare) already carries. A nil resolver treats every such callable as
// Base (base spec §4.E "Dependent capability": "c is not declared in a
// source file → Base"). This is a deliberately narrowed stand-in for §6's
// full NamespaceManager: it models the single Capability lookup the solver
// needs and neither the Found/NotFound/Ambiguous tryGetCallable outcome nor
// importedSpecializations, since nothing downstream of the solver
// distinguishes "ambiguous" from "not found" (see DESIGN.md).
type LibraryResolver interface {
	Capability(name string) (rtcap.RuntimeCapability, bool)
}

// Run infers capabilities using the embedded default target policy (base
// spec §6 `inferCapabilities`).
func Run(p *ast.Program) (*ast.Program, []diag.Diagnostic) {
	return RunWithHost(p, policy.Default, nil)
}

// RunWithHost is Run with an overriding target policy (SPEC_FULL.md §10.3)
// and an optional LibraryResolver for referenced-library callables.
func RunWithHost(p *ast.Program, pol policy.TargetPolicy, lib LibraryResolver) (*ast.Program, []diag.Diagnostic) {
	r := &run{
		pol:            pol,
		lib:            lib,
		resolutions:    globalCallableResolutions(p),
		sourceCap:      make(map[string]rtcap.RuntimeCapability),
		componentFinal: make(map[string]rtcap.RuntimeCapability),
		ownPatterns:    make(map[string][]pattern.Pattern),
		runID:          uuid.New().String(),
	}
	r.graph = callgraph.Build(p)

	for _, c := range r.resolutions {
		r.sourceCap[c.Name] = r.computeSourceCapability(c)
	}
	r.buildComponents()
	r.emitCallSiteDiagnostics()

	return r.emit(p), r.diagnostics
}

type run struct {
	pol         policy.TargetPolicy
	lib         LibraryResolver
	graph       *callgraph.Graph
	resolutions map[string]*ast.Callable

	sourceCap map[string]rtcap.RuntimeCapability

	// componentOf maps every node to its strongly-connected component's
	// representative; componentMembers is the reverse, representative to
	// its sorted members; componentFinal memoises componentFinalCapability
	// per representative. Singleton non-cyclic nodes are their own
	// representative with a one-element member list.
	componentOf      map[string]string
	componentMembers map[string][]string
	componentFinal   map[string]rtcap.RuntimeCapability

	// ownPatterns is every Pattern a callable's own source produced,
	// retained past computeSourceCapability so emitCallSiteDiagnostics can
	// re-diagnose them once per call-graph edge into this callable (base
	// spec §4.E "Explanatory diagnostics").
	ownPatterns map[string][]pattern.Pattern

	diagnostics []diag.Diagnostic
	runID       string
}

// globalCallableResolutions indexes every Callable in p by its
// fully-qualified name (base spec §6 `GlobalCallableResolutions`).
func globalCallableResolutions(p *ast.Program) map[string]*ast.Callable {
	out := make(map[string]*ast.Callable)
	for _, ns := range p.Namespaces {
		for _, el := range ns.Elements {
			if c, ok := el.(*ast.Callable); ok {
				out[c.Name] = c
			}
		}
	}
	return out
}

// computeSourceCapability runs every registered analyser against c and
// joins the capabilities of every Pattern produced (base spec §4.E "Source
// capability of a callable"). Diagnostics are reported against a fixed
// target of rtcap.Base: checking inferred capability against a HOST target
// is explicitly out of scope (base spec §1 Non-goals: "no capability
// checking against a target — only inference and annotation"), so the
// solver's own diagnostic bag reports every site whose capability exceeds
// the lattice's bottom — i.e. every site the analysers flagged at all, not
// a conditional check against some external target the core never
// receives. See DESIGN.md for this resolution of the §4.D/§4.E "target"
// wording against the stated Non-goal. Every Pattern produced is also kept
// in ownPatterns, regardless of whether it was reportable here, so
// emitCallSiteDiagnostics can re-diagnose it for each call-graph edge.
func (r *run) computeSourceCapability(c *ast.Callable) rtcap.RuntimeCapability {
	var caps []rtcap.RuntimeCapability
	for _, a := range analysis.Registry {
		for _, pat := range a.Analyze(c, r.pol) {
			caps = append(caps, pat.Capability)
			if d, ok := pat.Diagnose(rtcap.Base); ok {
				r.addDiagnostic(d)
			}
			r.ownPatterns[c.Name] = append(r.ownPatterns[c.Name], pat)
		}
	}
	return rtcap.CombineAll(caps)
}

// addDiagnostic stamps d with this run's correlation ID before recording
// it (SPEC_FULL.md §11 domain-stack note).
func (r *run) addDiagnostic(d diag.Diagnostic) {
	d.RunID = r.runID
	r.diagnostics = append(r.diagnostics, d)
}

// buildComponents condenses every strongly-connected component of the call
// graph into one representative node (base spec §9 "iterative cycle
// precomputation + memoised DAG walk"). The resulting graph over
// representatives is acyclic by construction, so componentFinalCapability
// needs no path-local visited set to terminate, and every member of a
// cycle shares one memoised result instead of the order-dependent partial
// result a per-name walk with global memoisation could otherwise leak
// (base spec §8: "for cycles in source, all members receive the same
// capability").
func (r *run) buildComponents() {
	r.componentOf = make(map[string]string)
	r.componentMembers = make(map[string][]string)
	inCycle := make(map[string]bool)
	for _, cycle := range r.graph.Cycles() {
		members := append([]string(nil), cycle...)
		sort.Strings(members)
		rep := representative(cycle, r.graph.Nodes())
		for _, n := range members {
			r.componentOf[n] = rep
			inCycle[n] = true
		}
		r.componentMembers[rep] = members
	}
	for _, n := range r.graph.Nodes() {
		if inCycle[n] {
			continue
		}
		r.componentOf[n] = n
		r.componentMembers[n] = []string{n}
	}
}

// representative picks the component member that appears first in the
// graph's declaration order, so a component's identity (and therefore its
// memoisation key) is deterministic across runs.
func representative(members, order []string) string {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m] = true
	}
	for _, n := range order {
		if set[n] {
			return n
		}
	}
	return members[0]
}

// componentSourceCap joins the source capability of every member of rep's
// component (base spec §4.E "Cycle capability": cycle members are seeded
// with their cycle's joined source capability; a singleton component's
// "join" is just its own source capability).
func (r *run) componentSourceCap(rep string) rtcap.RuntimeCapability {
	var caps []rtcap.RuntimeCapability
	for _, n := range r.componentMembers[rep] {
		caps = append(caps, r.sourceCap[n])
	}
	return rtcap.CombineAll(caps)
}

// componentFinalCapability implements base spec §4.E "Dependent
// capability" over the condensation graph: rep's pooled source capability
// joined with the capability of every dependency external to its
// component. An edge that stays inside rep's own component contributes
// nothing further here, since that member's source capability is already
// folded into componentSourceCap — this is what keeps every member of a
// cycle converging on the same result regardless of which member is
// resolved first.
func (r *run) componentFinalCapability(rep string) rtcap.RuntimeCapability {
	if cap, ok := r.componentFinal[rep]; ok {
		return cap
	}
	acc := r.componentSourceCap(rep)
	for _, member := range r.componentMembers[rep] {
		for _, edge := range r.graph.DirectDependencies(member) {
			if r.componentOf[edge.Callee] == rep {
				continue
			}
			acc = rtcap.Combine(acc, r.capabilityOf(edge.Callee))
		}
	}
	r.componentFinal[rep] = acc
	return acc
}

// capabilityOf is base spec §4.E "Dependent capability" for a single
// callable name. An explicit RequiresCapability attribute always wins
// here, short-circuiting ahead of the name's own component: an explicit
// annotation is the author's own statement and is deliberately not
// harmonised across its cycle-mates. Otherwise the name defers to its
// component's joined result.
func (r *run) capabilityOf(name string) rtcap.RuntimeCapability {
	c, declared := r.resolutions[name]
	if !declared {
		return r.externalCapability(name)
	}
	if capName, ok := ast.RequiresCapability(c.Attributes); ok {
		if cap, ok2 := rtcap.ParseName(capName); ok2 {
			return cap
		}
	}
	return r.componentFinalCapability(r.componentOf[name])
}

// externalCapability is base spec §4.E "Dependent capability" for a callee
// not declared in this compilation: the LibraryResolver's answer, or Base
// with no resolver or no match.
func (r *run) externalCapability(name string) rtcap.RuntimeCapability {
	if r.lib != nil {
		if cap, ok := r.lib.Capability(name); ok {
			return cap
		}
	}
	return rtcap.Base
}

// emitCallSiteDiagnostics walks every edge of the call graph exactly once
// (base spec §4.E "Explanatory diagnostics"; base spec §7 "Unresolved
// reference"). This is a flat pass independent of the memoised capability
// walk above, so a callee shared by several callers yields its warnings once
// per call-graph edge rather than once overall. An unresolved-callee
// diagnostic carries the edge's call-site range; an explanatory warning
// carries the callee's name and the offending position inside the callee,
// not the call site's range, and covers only the callee's own patterns, not
// those of the callee's own dependencies.
func (r *run) emitCallSiteDiagnostics() {
	for _, name := range r.graph.Nodes() {
		for _, edge := range r.graph.DirectDependencies(name) {
			if _, declared := r.resolutions[edge.Callee]; !declared {
				if r.lib != nil {
					if _, ok := r.lib.Capability(edge.Callee); ok {
						continue
					}
				}
				r.addDiagnostic(diag.Diagnostic{
					Severity:  diag.Info,
					Code:      diag.CodeUnresolvedCallee,
					Arguments: []string{edge.Callee},
					Range:     edge.Range,
				})
				continue
			}
			for _, pat := range r.ownPatterns[edge.Callee] {
				cp := pattern.CallPattern{
					Pattern:  pat,
					Callee:   edge.Callee,
					TypeArgs: edge.TypeArgs,
				}
				if d, ok := cp.Explain(); ok {
					r.addDiagnostic(d)
				}
			}
		}
	}
}

// emit attaches a RequiresCapability attribute to every source-declared
// callable lacking one (base spec §4.E "Emission"), rebuilding the Program
// since it is an immutable value (base spec §3 "Ownership and lifecycle").
func (r *run) emit(p *ast.Program) *ast.Program {
	namespaces := make([]*ast.Namespace, len(p.Namespaces))
	for i, ns := range p.Namespaces {
		elements := make([]ast.Element, len(ns.Elements))
		for j, el := range ns.Elements {
			c, ok := el.(*ast.Callable)
			if !ok || c.HasExplicitCapability() {
				elements[j] = el
				continue
			}
			cap := r.capabilityOf(c.Name)
			out := *c
			out.Attributes = append(append([]ast.Attribute{}, c.Attributes...), ast.RequiresCapabilityAttribute(cap.String()))
			elements[j] = &out
		}
		namespaces[i] = &ast.Namespace{Name: ns.Name, Elements: elements}
	}
	return &ast.Program{Namespaces: namespaces}
}
