package main

import (
	"fmt"

	"github.com/fwojciec/vsx"
)

// Run executes the health command.
func (c *HealthCmd) Run(deps *Dependencies) error {
	report, err := deps.Health.Analyze(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Catalog: %d stencils, %d shapes\n", report.StencilCount, report.ShapeCount)

	if len(report.Issues) == 0 {
		fmt.Fprintln(deps.Stdout, "No issues found.")
		return nil
	}

	for _, issue := range report.Issues {
		fmt.Fprintf(deps.Stdout, "[%s] %s %s: %s\n", issue.Severity, issue.Kind, issue.StencilPath, issue.Detail)
	}
	fmt.Fprintf(deps.Stdout, "%d issues total\n", len(report.Issues))

	return nil
}
