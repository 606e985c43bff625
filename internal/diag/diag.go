// Package diag implements the diagnostic wire form (base spec §6) and the
// error taxonomy of §7. It is modelled directly on the lineage's
// internal/diagnostics package: a small error-code table, a Phase, and a
// DiagnosticError whose Error() renders a one-line, file/phase/code/message
// string — the same shape funvibe-funxy's analyzer returns from Analyze.
package diag

import (
	"fmt"

	"github.com/funvibe/qcapcore/internal/source"
)

// Severity is the diagnostic's wire-form severity (base spec §6).
type Severity int

const (
	Hidden Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Code enumerates diagnostic codes produced by the pattern analysers and
// the solver. Error-severity codes double as the keys of
// ToExplanatoryWarning (base spec §4.E, §9; SPEC_FULL.md §12).
type Code string

const (
	// Result analyser (4.D.1)
	CodeResultComparisonNeedsFeedback Code = "QC001" // comparing Results requires BasicMeasurementFeedback
	CodeResultComparisonOutsideIf     Code = "QC002" // comparison used outside an if-block over the measurement
	CodeMutationInResultConditional   Code = "QC003" // return/set of a mutable inside a Result-conditioned block

	// Statement analyser (4.D.2)
	CodeUnboundedLoop          Code = "QC010" // arbitrary while loop in an operation body
	CodeClassicalControlFlow   Code = "QC011" // classical control structure exceeding Base per target policy
	CodeRepeatUntilExceedsBase Code = "QC012" // repeat-until loop exceeding Base per target policy

	// Type analyser (4.D.3)
	CodeBigIntUse Code = "QC020" // use of BigInt in a context requiring higher capability
	CodeDoubleUse Code = "QC021" // use of Double in a context requiring higher capability

	// Array analyser (4.D.4)
	CodeDynamicArraySize  Code = "QC030" // dynamically-sized array construction
	CodeInPlaceArrayWrite Code = "QC031" // in-place array update exceeding Base

	// Solver / internal (4.E, §7)
	CodeUnresolvedCallee    Code = "QC900" // call graph references a callable not present in resolutions
	CodeInternalInvariant   Code = "QC999" // FatalError surfaced to the host as a diagnostic (§7 "invariant violation")
)

var messageTemplates = map[Code]string{
	CodeResultComparisonNeedsFeedback: "comparing Result values requires capability %s",
	CodeResultComparisonOutsideIf:     "Result comparison outside an if-block requires capability %s",
	CodeMutationInResultConditional:   "mutation of '%s' inside a Result-conditioned block requires capability %s",
	CodeUnboundedLoop:                 "unbounded while loop requires capability %s",
	CodeClassicalControlFlow:          "classical control construct '%s' requires capability %s",
	CodeRepeatUntilExceedsBase:        "repeat-until loop requires capability %s",
	CodeBigIntUse:                     "use of BigInt requires capability %s",
	CodeDoubleUse:                     "use of Double requires capability %s",
	CodeDynamicArraySize:              "dynamically-sized array construction requires capability %s",
	CodeInPlaceArrayWrite:             "in-place array update requires capability %s",
	CodeUnresolvedCallee:              "call graph references unresolved callable '%s'",
	CodeInternalInvariant:             "%s",
}

// explanatoryWarnings maps an error-severity Code to the warning-severity
// Code the solver emits for a call-graph edge whose callee's own body has a
// flagged site (base spec §4.E "Explanatory diagnostics"); sites in the
// callee's own dependencies produce no warning for the caller. Total over
// every Code the four analysers can produce (SPEC_FULL.md §12 supplement).
var explanatoryWarnings = map[Code]Code{
	CodeResultComparisonNeedsFeedback: "QW001",
	CodeResultComparisonOutsideIf:     "QW002",
	CodeMutationInResultConditional:   "QW003",
	CodeUnboundedLoop:                 "QW010",
	CodeClassicalControlFlow:          "QW011",
	CodeRepeatUntilExceedsBase:        "QW012",
	CodeBigIntUse:                     "QW020",
	CodeDoubleUse:                     "QW021",
	CodeDynamicArraySize:              "QW030",
	CodeInPlaceArrayWrite:             "QW031",
}

// ToExplanatoryWarning returns the warning code mapped from an error code,
// for use when a callee's own body has a flagged site (§4.E).
func ToExplanatoryWarning(c Code) (Code, bool) {
	w, ok := explanatoryWarnings[c]
	return w, ok
}

// Diagnostic is the wire-form record of base spec §6.
type Diagnostic struct {
	Severity  Severity
	Code      Code
	Arguments []string
	Range     source.Range
	// RunID correlates every diagnostic emitted during one lifter/solver
	// invocation (SPEC_FULL.md §11 domain-stack note); empty outside a run.
	RunID string
}

func (d Diagnostic) String() string {
	template, ok := messageTemplates[d.Code]
	msg := string(d.Code)
	if ok {
		args := make([]interface{}, len(d.Arguments))
		for i, a := range d.Arguments {
			args[i] = a
		}
		msg = fmt.Sprintf(template, args...)
	}
	line, col := d.Range.Start.Wire()
	return fmt.Sprintf("[%s] %d:%d %s: %s", d.Severity, line, col, d.Code, msg)
}

// Phase identifies which pass of the core raised a FatalError.
type Phase string

const (
	PhaseWalk    Phase = "walk"
	PhaseLift    Phase = "lift"
	PhaseSolve   Phase = "solve"
	PhaseAnalyse Phase = "analyse"
)

// FatalError represents an invariant violation (base spec §7): it aborts
// the pass it was raised from. Never thrown as a Go panic across the
// public interface — callers receive it as a returned error value.
type FatalError struct {
	Phase   Phase
	Code    Code
	Message string
	Range   source.Range
}

func (e *FatalError) Error() string {
	line, col := e.Range.Start.Wire()
	return fmt.Sprintf("[%s] fatal at %d:%d: %s", e.Phase, line, col, e.Message)
}

// NewFatal builds a FatalError. Used for LambdaShape and tree-invariant
// violations.
func NewFatal(phase Phase, r source.Range, format string, args ...interface{}) *FatalError {
	return &FatalError{Phase: phase, Message: fmt.Sprintf(format, args...), Range: r}
}

// ToDiagnostic surfaces a FatalError to the host as an Error-severity
// diagnostic (base spec §7: "the caller receives the original Program plus
// an error diagnostic"), rather than a Go error value crossing the public
// boundary (SPEC_FULL.md §10.1).
func (e *FatalError) ToDiagnostic(runID string) Diagnostic {
	return Diagnostic{
		Severity:  Error,
		Code:      CodeInternalInvariant,
		Arguments: []string{e.Message},
		Range:     e.Range,
		RunID:     runID,
	}
}
