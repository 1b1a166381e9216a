package main

import (
	"fmt"

	"github.com/fwojciec/vsx"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	var filter vsx.StencilFilter
	if c.Prefix != "" {
		filter.PathPrefix = &c.Prefix
	}

	stencils, err := deps.Stencils.FindStencils(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	if len(stencils) == 0 {
		fmt.Fprintln(deps.Stdout, "No stencils cataloged. Use 'vsx scan' to populate the catalog.")
		return nil
	}

	for _, s := range stencils {
		marker := " "
		if s.ScanError != "" {
			marker = "!"
		}
		fmt.Fprintf(deps.Stdout, "%s %4d  %s\n", marker, s.ShapeCount, s.Path)
	}

	return nil
}
