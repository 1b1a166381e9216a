// Package vsx provides a local catalog and search engine for Visio stencil
// files. It scans directory trees for stencils, extracts shape names,
// geometry and custom properties without requiring Visio, indexes them in
// SQLite with full-text search, and serves ranked queries, health checks
// and previews over a local JSON API.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, etree/, svg/).
package vsx
