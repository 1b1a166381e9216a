package vsx

import "context"

// IssueKind identifies a class of health finding.
type IssueKind string

// Health issue kinds.
const (
	IssueEmpty        IssueKind = "empty"
	IssueDuplicate    IssueKind = "duplicate"
	IssueOversized    IssueKind = "oversized"
	IssueCorrupt      IssueKind = "corrupt"
	IssueUnsupported  IssueKind = "unsupported"
	IssueMultiVersion IssueKind = "multi_version"
)

// Severity is derived from the issue kind and configured thresholds.
type Severity string

// Severities, lowest to highest.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HealthIssue is a derived diagnostic finding. Issues are never stored;
// every analysis re-derives them from the current catalog.
type HealthIssue struct {
	StencilPath string    `json:"stencilPath"`
	StencilName string    `json:"stencilName"`
	Kind        IssueKind `json:"kind"`
	Severity    Severity  `json:"severity"`
	Detail      string    `json:"detail"`
}

// HealthThresholds configures severity assignment. Size tiers are in
// megabytes; Duplicate tiers are occurrence counts.
type HealthThresholds struct {
	SizeLowMB    int64 `json:"sizeLowMb"`
	SizeMediumMB int64 `json:"sizeMediumMb"`
	SizeHighMB   int64 `json:"sizeHighMb"`

	DuplicateMedium int `json:"duplicateMedium"`
	DuplicateHigh   int `json:"duplicateHigh"`
}

// DefaultHealthThresholds returns the documented defaults (1/5/10 MB size
// tiers, duplicate counts of 5 and 10).
func DefaultHealthThresholds() HealthThresholds {
	return HealthThresholds{
		SizeLowMB:       1,
		SizeMediumMB:    5,
		SizeHighMB:      10,
		DuplicateMedium: 5,
		DuplicateHigh:   10,
	}
}

// HealthReport is the result of one analysis pass.
type HealthReport struct {
	Issues       []*HealthIssue    `json:"issues"`
	StencilCount int               `json:"stencilCount"`
	ShapeCount   int               `json:"shapeCount"`
	IssuesByKind map[IssueKind]int `json:"issuesByKind"`
}

// HealthService analyzes catalog data quality.
type HealthService interface {
	// Analyze re-derives all issues from the current catalog state.
	Analyze(ctx context.Context) (*HealthReport, error)
}
