// Package health derives data-quality findings from the catalog. Every
// analysis re-reads the current store state; nothing is persisted.
package health

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/vsx"
)

// Ensure Analyzer implements vsx.HealthService.
var _ vsx.HealthService = (*Analyzer)(nil)

// Analyzer implements vsx.HealthService over the catalog services.
type Analyzer struct {
	Stencils vsx.StencilService
	Shapes   vsx.ShapeService

	// Thresholds drives severity assignment. Zero value means
	// vsx.DefaultHealthThresholds.
	Thresholds vsx.HealthThresholds
}

// Analyze re-derives all issues from the current catalog state. Issues are
// emitted in stencil path order so repeated runs over an unchanged catalog
// produce identical reports.
func (a *Analyzer) Analyze(ctx context.Context) (*vsx.HealthReport, error) {
	thresholds := a.Thresholds
	if thresholds == (vsx.HealthThresholds{}) {
		thresholds = vsx.DefaultHealthThresholds()
	}

	stencils, err := a.Stencils.FindStencils(ctx, vsx.StencilFilter{})
	if err != nil {
		return nil, err
	}

	report := &vsx.HealthReport{
		StencilCount: len(stencils),
		IssuesByKind: make(map[vsx.IssueKind]int),
	}

	versions := make(map[versionKey][]string)

	for _, stencil := range stencils {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report.ShapeCount += stencil.ShapeCount
		versions[versionKeyFor(stencil)] = append(versions[versionKeyFor(stencil)], stencil.Path)

		switch stencil.ScanError {
		case vsx.ECORRUPT:
			addIssue(report, stencil, vsx.IssueCorrupt, vsx.SeverityHigh,
				"stencil archive failed to open or parse")
		case vsx.EUNSUPPORTED:
			addIssue(report, stencil, vsx.IssueUnsupported, vsx.SeverityLow,
				"legacy binary format; shapes could not be extracted")
		default:
			if stencil.ShapeCount == 0 {
				addIssue(report, stencil, vsx.IssueEmpty, vsx.SeverityLow,
					"stencil contains no shapes")
			}
		}

		if severity, ok := sizeSeverity(stencil.FileSize, thresholds); ok {
			addIssue(report, stencil, vsx.IssueOversized, severity,
				fmt.Sprintf("file size is %.1f MB", float64(stencil.FileSize)/(1<<20)))
		}

		if err := a.checkDuplicates(ctx, report, stencil, thresholds); err != nil {
			return nil, err
		}
	}

	a.checkMultiVersion(report, stencils, versions)

	return report, nil
}

// checkDuplicates reports shape names that occur more than once within one
// stencil.
func (a *Analyzer) checkDuplicates(ctx context.Context, report *vsx.HealthReport, stencil *vsx.Stencil, thresholds vsx.HealthThresholds) error {
	if stencil.ShapeCount < 2 {
		return nil
	}

	shapes, err := a.Shapes.FindShapesByStencil(ctx, stencil.Path)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, shape := range shapes {
		counts[shape.Name]++
	}

	names := make([]string, 0, len(counts))
	for name, n := range counts {
		if n >= 2 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		// A zero tier is disabled, so partially populated thresholds never
		// promote every duplicate to that tier.
		severity := vsx.SeverityLow
		switch n := counts[name]; {
		case thresholds.DuplicateHigh > 0 && n >= thresholds.DuplicateHigh:
			severity = vsx.SeverityHigh
		case thresholds.DuplicateMedium > 0 && n >= thresholds.DuplicateMedium:
			severity = vsx.SeverityMedium
		}
		addIssue(report, stencil, vsx.IssueDuplicate, severity,
			fmt.Sprintf("shape name %q occurs %d times", name, counts[name]))
	}
	return nil
}

// checkMultiVersion reports the same stencil content cataloged under more
// than one path, which happens when overlapping scan roots reach one file
// through different prefixes.
func (a *Analyzer) checkMultiVersion(report *vsx.HealthReport, stencils []*vsx.Stencil, versions map[versionKey][]string) {
	for _, stencil := range stencils {
		paths := versions[versionKeyFor(stencil)]
		if len(paths) < 2 {
			continue
		}

		others := make([]string, 0, len(paths)-1)
		for _, p := range paths {
			if p != stencil.Path {
				others = append(others, p)
			}
		}
		addIssue(report, stencil, vsx.IssueMultiVersion, vsx.SeverityMedium,
			"also cataloged at "+strings.Join(others, ", "))
	}
}

// versionKey identifies stencil content independent of its path.
type versionKey struct {
	name    string
	size    int64
	modTime time.Time
}

func versionKeyFor(s *vsx.Stencil) versionKey {
	return versionKey{
		name:    s.Name,
		size:    s.FileSize,
		modTime: s.LastModified.Truncate(time.Second),
	}
}

// sizeSeverity maps a byte size onto the configured tiers. Files below the
// low tier are not an issue.
func sizeSeverity(size int64, t vsx.HealthThresholds) (vsx.Severity, bool) {
	mb := size / (1 << 20)
	switch {
	case t.SizeHighMB > 0 && mb >= t.SizeHighMB:
		return vsx.SeverityHigh, true
	case t.SizeMediumMB > 0 && mb >= t.SizeMediumMB:
		return vsx.SeverityMedium, true
	case t.SizeLowMB > 0 && mb >= t.SizeLowMB:
		return vsx.SeverityLow, true
	}
	return "", false
}

func addIssue(report *vsx.HealthReport, stencil *vsx.Stencil, kind vsx.IssueKind, severity vsx.Severity, detail string) {
	report.Issues = append(report.Issues, &vsx.HealthIssue{
		StencilPath: stencil.Path,
		StencilName: stencil.Name,
		Kind:        kind,
		Severity:    severity,
		Detail:      detail,
	})
	report.IssuesByKind[kind]++
}
