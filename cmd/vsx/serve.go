package main

import (
	"fmt"
	"os"
	"os/signal"

	vsxhttp "github.com/fwojciec/vsx/http"
)

// Run executes the serve command. The server runs until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Server.Addr
	}

	server := vsxhttp.NewServer()
	server.Addr = addr
	server.Logger = deps.Logger
	server.StencilService = deps.Stencils
	server.ShapeService = deps.Shapes
	server.SearchService = deps.Search
	server.FavoriteService = deps.Favorites
	server.CollectionService = deps.Collections
	server.DirectoryService = deps.Directories
	server.SavedSearchService = deps.SavedSearches
	server.HealthService = deps.Health
	server.ScanService = deps.Scans
	server.PreviewRenderer = deps.Previews
	server.Gateway = deps.Gateway
	server.Degraded = deps.DB.Degraded
	server.Ping = deps.DB.Ping
	server.RebuildIndex = deps.DB.RebuildIndex

	if err := server.Open(); err != nil {
		return fmt.Errorf("failed to start server on %q: %w", addr, err)
	}
	defer server.Close()

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", server.URL())

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(deps.Stdout, "Shutting down")
	return nil
}
