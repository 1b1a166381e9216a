package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/vsx"
	"github.com/fwojciec/vsx/config"
	"github.com/fwojciec/vsx/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *config.Config

	DB            *sqlite.DB
	Stencils      vsx.StencilService
	Shapes        vsx.ShapeService
	Search        vsx.SearchService
	Favorites     vsx.FavoriteService
	Collections   vsx.CollectionService
	Directories   vsx.DirectoryService
	SavedSearches vsx.SavedSearchService
	Health        vsx.HealthService
	Scans         vsx.ScanService
	Previews      vsx.PreviewRenderer
	Gateway       vsx.Gateway
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"Path to the configuration file" type:"path"`

	Scan   ScanCmd   `cmd:"" help:"Scan a directory tree for stencils"`
	Search SearchCmd `cmd:"" help:"Search cataloged shapes"`
	List   ListCmd   `cmd:"" help:"List cataloged stencils"`
	Health HealthCmd `cmd:"" help:"Analyze catalog data quality"`
	Dir    DirCmd    `cmd:"" help:"Manage saved scan directories"`
	Serve  ServeCmd  `cmd:"" help:"Run the HTTP JSON API server"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Root        string `arg:"" optional:"" help:"Directory to scan (defaults to the active directory preset)"`
	Concurrency int    `short:"c" help:"Concurrent extraction limit"`
	Quiet       bool   `short:"q" help:"Suppress per-file progress output"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Term string `arg:"" optional:"" help:"Search term"`
	Page int    `default:"1" help:"Result page"`
	Size int    `default:"0" help:"Page size (defaults to the configured size)"`
	Mode string `help:"Query strategy: auto, fts or like"`
	Dir  string `help:"Limit results to stencils under a path prefix"`
	All  bool   `help:"List all shapes when no term is given"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Prefix string `help:"Limit to stencils under a path prefix"`
}

// HealthCmd is the "health" subcommand.
type HealthCmd struct{}

// DirCmd is the "dir" subcommand group.
type DirCmd struct {
	Add      DirAddCmd      `cmd:"" help:"Save a scan directory preset"`
	List     DirListCmd     `cmd:"" help:"List saved directory presets"`
	Activate DirActivateCmd `cmd:"" help:"Mark a preset as the active scan root"`
	Delete   DirDeleteCmd   `cmd:"" help:"Delete a preset and its cataloged stencils"`
}

// DirAddCmd is the "dir add" subcommand.
type DirAddCmd struct {
	Path string `arg:"" help:"Directory path"`
	Name string `help:"Display name (defaults to the path's base name)"`
}

// DirListCmd is the "dir list" subcommand.
type DirListCmd struct{}

// DirActivateCmd is the "dir activate" subcommand.
type DirActivateCmd struct {
	ID int64 `arg:"" help:"Preset ID"`
}

// DirDeleteCmd is the "dir delete" subcommand.
type DirDeleteCmd struct {
	ID    int64 `arg:"" help:"Preset ID"`
	Force bool  `help:"Confirm deletion"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Bind address (defaults to the configured address)"`
}
