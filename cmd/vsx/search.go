package main

import (
	"fmt"

	"github.com/fwojciec/vsx"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	size := c.Size
	if size == 0 {
		size = deps.Config.Search.PageSize
	}
	mode := c.Mode
	if mode == "" {
		mode = deps.Config.Search.Mode
	}

	page, err := deps.Search.SearchShapes(deps.Ctx, vsx.SearchQuery{
		Term:     c.Term,
		Page:     c.Page,
		PageSize: size,
		Mode:     vsx.SearchMode(mode),
		ListAll:  c.All,
		Filters:  vsx.SearchFilters{DirectoryPrefix: c.Dir},
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	if page.Total == 0 {
		fmt.Fprintln(deps.Stdout, "No shapes found.")
		return nil
	}

	for _, result := range page.Results {
		fmt.Fprintf(deps.Stdout, "%d  %s  (%s)\n", result.Shape.ID, result.Shape.Name, result.StencilName)
	}
	fmt.Fprintf(deps.Stdout, "Page %d of %d results", page.Page, page.Total)
	if page.Degraded {
		fmt.Fprint(deps.Stdout, " (index degraded, substring fallback)")
	}
	fmt.Fprintln(deps.Stdout)

	return nil
}
