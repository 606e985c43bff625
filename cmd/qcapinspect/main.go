// Command qcapinspect is a thin illustrative host over the core: it loads a
// toy YAML program fixture, runs lambda lifting then capability inference,
// and prints the resulting diagnostics and RequiresCapability attributes.
// It is not part of "the core" (base spec §6 forbids the core from owning a
// CLI) — it exists the way the lineage's cmd/funxy and cmd/lsp exist, as a
// host-side adapter, never a parser or type checker of its own.
package main

import (
	"fmt"
	"os"

	"github.com/funvibe/qcapcore"
	"github.com/funvibe/qcapcore/internal/diag"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: qcapinspect <fixture.yaml>")
		os.Exit(2)
	}

	program, err := LoadFixture(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	color := colorEnabled()

	lifted, liftDiags := qcapcore.LiftLambdas(program)
	if hasError(liftDiags) {
		fmt.Println("lambda lifting failed:")
		printDiagnostics(liftDiags, color)
		os.Exit(1)
	}

	annotated, solveDiags := qcapcore.InferCapabilities(lifted)

	fmt.Println("diagnostics:")
	printDiagnostics(solveDiags, color)
	fmt.Println()
	fmt.Println("inferred capabilities:")
	printCapabilities(annotated, color)
}

func hasError(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}
