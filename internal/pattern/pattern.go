// Package pattern implements the Pattern/CallPattern records produced by
// the analysers and consumed by the solver (base spec §3, §4.D). Per
// design note "Pattern lifecycle" (§9), a pattern does not carry a thunk:
// it is modelled as a plain pair (capability, optional diagnostic payload)
// plus the pure function ShouldReport, so analysers stay free of captured
// closures.
package pattern

import (
	"github.com/funvibe/qcapcore/internal/diag"
	"github.com/funvibe/qcapcore/internal/rtcap"
	"github.com/funvibe/qcapcore/internal/source"
	"github.com/funvibe/qcapcore/internal/types"
)

// Payload is the undiagnosed half of a flagged site: the diagnostic code,
// ordered arguments and range that WOULD be reported if the capability this
// Pattern carries exceeds the solver's eventual target.
type Payload struct {
	Code      diag.Code
	Arguments []string
	Range     source.Range
}

// Pattern is a single flagged syntactic site (base spec §3 "Pattern
// records"): the capability it demands, and the diagnostic payload to
// report if that capability is ever checked against an insufficient
// target. Diagnostic is nil for patterns that only contribute capability
// with nothing to report (none currently do, but the shape allows it).
type Pattern struct {
	Capability rtcap.RuntimeCapability
	Diagnostic *Payload
}

// ShouldReport is the pure predicate base spec §9 asks for in place of a
// captured `diagnose(target)` closure: a site's diagnostic is reportable
// iff its capability is not covered by target.
func ShouldReport(target, capability rtcap.RuntimeCapability) bool {
	return capability.Exceeds(target)
}

// Diagnose returns the concrete Diagnostic for this Pattern against target,
// iff ShouldReport holds and a Payload is attached (base spec §4.D:
// "diagnose(target) ... returns Some(Diagnostic(...)) iff capability > t").
func (p Pattern) Diagnose(target rtcap.RuntimeCapability) (diag.Diagnostic, bool) {
	if p.Diagnostic == nil || !ShouldReport(target, p.Capability) {
		return diag.Diagnostic{}, false
	}
	args := make([]string, 0, len(p.Diagnostic.Arguments)+1)
	args = append(args, p.Diagnostic.Arguments...)
	args = append(args, p.Capability.String())
	return diag.Diagnostic{
		Severity:  diag.Error,
		Code:      p.Diagnostic.Code,
		Arguments: args,
		Range:     p.Diagnostic.Range,
	}, true
}

// CallPattern extends Pattern with the call-site identity the solver needs
// to walk the call graph and emit explanatory diagnostics (base spec §3,
// §4.E). It does not carry the call site's own source.Range: Explain always
// reports the offending position inside Callee, never the call site, so
// there is nothing for a call-site range to do here.
type CallPattern struct {
	Pattern
	Callee   string
	TypeArgs map[string]types.Type
}

// Explain maps cp's own reportable Pattern into the Warning a caller sees at
// its call site naming Callee (base spec §4.E "Explanatory diagnostics":
// "a Warning with code mapped from the original Error ... carrying r's name
// ... and the original arguments"). The diagnostic's Range stays the
// offending position inside Callee, not the call site itself.
func (cp CallPattern) Explain() (diag.Diagnostic, bool) {
	d, ok := cp.Diagnose(rtcap.Base)
	if !ok {
		return diag.Diagnostic{}, false
	}
	warnCode, ok := diag.ToExplanatoryWarning(d.Code)
	if !ok {
		return diag.Diagnostic{}, false
	}
	args := make([]string, 0, len(d.Arguments)+1)
	args = append(args, cp.Callee)
	args = append(args, d.Arguments...)
	return diag.Diagnostic{
		Severity:  diag.Warning,
		Code:      warnCode,
		Arguments: args,
		Range:     d.Range,
	}, true
}
