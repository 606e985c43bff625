package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/diag"
)

// colorEnabled mirrors the lineage's detectColorLevel double-check
// (internal/evaluator/builtins_term.go): colorise only on a real terminal,
// and honour NO_COLOR.
func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiDim    = "\x1b[2m"
)

func severityColor(s diag.Severity) string {
	switch s {
	case diag.Error:
		return ansiRed
	case diag.Warning:
		return ansiYellow
	case diag.Info:
		return ansiCyan
	default:
		return ansiDim
	}
}

func printDiagnostics(ds []diag.Diagnostic, color bool) {
	if len(ds) == 0 {
		fmt.Println("no diagnostics")
		return
	}
	for _, d := range ds {
		line := d.String()
		if color {
			line = severityColor(d.Severity) + line + ansiReset
		}
		fmt.Println(line)
	}
}

func printCapabilities(p *ast.Program, color bool) {
	for _, ns := range p.Namespaces {
		for _, el := range ns.Elements {
			c, ok := el.(*ast.Callable)
			if !ok {
				continue
			}
			name, ok := ast.RequiresCapability(c.Attributes)
			if !ok {
				continue
			}
			label := fmt.Sprintf("%s requires %s", c.Name, name)
			if color {
				label = ansiDim + c.Name + ansiReset + " requires " + ansiCyan + name + ansiReset
			}
			fmt.Println(label)
		}
	}
}
