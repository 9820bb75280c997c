package cli

import (
	"fmt"
	"io"

	"binderscope/internal/catalog"
	"binderscope/internal/diff"
	"binderscope/internal/secontext"
)

// formatTransaction renders one transaction the same way everywhere:
// hex number, method name, raw argument and return descriptors.
func formatTransaction(number int64, name, arguments, returns string) string {
	return fmt.Sprintf("0x%x %s(%s)%s", number, name, arguments, returns)
}

// serviceHeader renders the service line of a report or dump, with the
// optional security-context annotation. An unresolved context renders
// the explicit unknown marker, never an empty string.
func serviceHeader(name string, isNew bool, contexts secontext.Map, showLabels bool) string {
	header := "service " + name
	if isNew {
		header = "[NEW] " + header
	}
	if showLabels {
		header += " ctx=" + contexts.Lookup(name)
	}
	return header
}

// renderReport writes the text form of one service diff. Existing
// services with no changes produce no output. In brief mode only the
// method name and its novelty are shown.
func renderReport(w io.Writer, r *diff.ServiceReport, brief bool, contexts secontext.Map, showLabels bool) {
	if !r.NewService && len(r.Changes) == 0 {
		return
	}

	fmt.Fprintln(w, serviceHeader(r.Service, r.NewService, contexts, showLabels))

	for _, c := range r.Changes {
		tag := "[NEW]"
		if c.Kind == diff.ChangeModified {
			tag = "[MOD]"
		}

		if brief {
			fmt.Fprintf(w, "  %s %s\n", tag, c.MethodName)
			continue
		}

		fmt.Fprintf(w, "  %s %s\n", tag, formatTransaction(c.Number, c.MethodName, c.Arguments, c.Returns))
		if c.Kind == diff.ChangeModified {
			fmt.Fprintf(w, "        was: %s\n", formatTransaction(c.Number, c.MethodName, c.OldArguments, c.OldReturns))
		}
	}
}

// renderServiceList writes one line per service: name, project (or "-"
// when unresolved), and optionally the security-context label.
func renderServiceList(w io.Writer, services []catalog.Service, contexts secontext.Map, showLabels bool) {
	for _, svc := range services {
		project := svc.Project
		if project == "" {
			project = "-"
		}
		if showLabels {
			fmt.Fprintf(w, "%s\t%s\t%s\n", svc.Name, project, contexts.Lookup(svc.Name))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", svc.Name, project)
	}
}

// renderDump writes a service and its full transaction list.
func renderDump(w io.Writer, svc catalog.Service, txns []catalog.Transaction) {
	if svc.HasProject() {
		fmt.Fprintf(w, "service %s (%s)\n", svc.Name, svc.Project)
	} else {
		fmt.Fprintf(w, "service %s\n", svc.Name)
	}
	for _, t := range txns {
		fmt.Fprintf(w, "  %s\n", formatTransaction(t.Number, t.MethodName, t.Arguments, t.Returns))
	}
}
