// Package scope implements the Scope & Symbol Tracker (base spec §4.B): the
// set of variables in scope at every point of traversal, plus fresh-symbol
// naming. Uses a stack-of-frames style (push/pop/extend) for known-variable
// tracking and an outer collision table for the namespace-wide fresh-name
// check.
package scope

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/types"
)

// Tracker maintains known-variables as a stack of frames, using an explicit
// stack rather than recursion.
type Tracker struct {
	frames []map[string]types.Type

	// namespaceNames is every symbol name already declared at namespace
	// scope, plus every fresh name minted so far — the collision table
	// fresh-name generation is checked against (base spec §4.B).
	namespaceNames map[string]bool

	// perCallableCounter tracks the next lambda-naming counter for each
	// enclosing callable, independently, starting at 0 (base spec §8
	// scenario 1 expects "__Foo_Lambda_0__" for the first lambda lifted out
	// of Foo). A collision retry perturbs the counter using a hash of the
	// enclosing callable's fully-qualified name, which is how "seeded from
	// a hash" (§4.B) is realised here without breaking the observable
	// zero-based numbering the scenarios pin down (see DESIGN.md).
	perCallableCounter map[string]int
}

// NewTracker builds a Tracker for one namespace, given every symbol name
// already declared at that namespace's top level.
func NewTracker(namespaceSymbolNames map[string]bool) *Tracker {
	names := make(map[string]bool, len(namespaceSymbolNames))
	for k := range namespaceSymbolNames {
		names[k] = true
	}
	return &Tracker{
		namespaceNames:     names,
		perCallableCounter: make(map[string]int),
	}
}

// PushScope pushes a new frame of known-variables (base spec §4.B: "On
// entering a Scope, push its declared known-symbols onto the current
// known-variables set").
func (t *Tracker) PushScope(known []ast.SymbolName) {
	frame := make(map[string]types.Type, len(known))
	for _, s := range known {
		frame[s.Name] = s.Type
	}
	t.frames = append(t.frames, frame)
}

// PopScope pops the most recently pushed frame ("on leaving, pop").
func (t *Tracker) PopScope() {
	if len(t.frames) == 0 {
		return
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// Extend adds the given declarations to the CURRENT (innermost) frame,
// called after a Statement has been fully visited (base spec §4.B: "after
// recursing into it, extend known-variables... so sibling statements that
// follow see the new binding").
func (t *Tracker) Extend(decls []ast.SymbolName) {
	if len(decls) == 0 {
		return
	}
	if len(t.frames) == 0 {
		t.frames = append(t.frames, map[string]types.Type{})
	}
	top := t.frames[len(t.frames)-1]
	for _, d := range decls {
		top[d.Name] = d.Type
	}
}

// KnownVariables returns the exact set of locals visible right now — the
// union of every pushed frame (base spec §4.B invariant).
func (t *Tracker) KnownVariables() map[string]types.Type {
	out := make(map[string]types.Type)
	for _, frame := range t.frames {
		for name, typ := range frame {
			out[name] = typ
		}
	}
	return out
}

// FreshCallableName mints a name unique within the namespace for a callable
// generated while lifting a lambda out of enclosingFQN (base spec §4.B).
// kindLabel is typically "Lambda".
func (t *Tracker) FreshCallableName(enclosingFQN, kindLabel string) string {
	base := shortName(enclosingFQN)
	n := t.perCallableCounter[enclosingFQN]
	salt := int(fnvHash(enclosingFQN) % 97)
	for {
		candidate := fmt.Sprintf("__%s_%s_%d__", base, kindLabel, n)
		if !t.namespaceNames[candidate] {
			t.namespaceNames[candidate] = true
			t.perCallableCounter[enclosingFQN] = n + 1
			return candidate
		}
		n += 1 + salt
	}
}

func shortName(fqn string) string {
	if i := strings.LastIndex(fqn, "."); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

func fnvHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
