// internal/compliance/types.go
// Compliance evaluation over the unified framework catalog: evidence
// matching, per-control status derivation and weighted coverage scoring.
package compliance

import (
	"errors"
	"time"

	"github.com/cyberops/isora/internal/framework"
)

// CheckStatus is the evaluation outcome for one control
type CheckStatus string

const (
	StatusCompliant    CheckStatus = "compliant"
	StatusPartial      CheckStatus = "partial"
	StatusGap          CheckStatus = "gap"
	StatusNotEvaluated CheckStatus = "not_evaluated"
)

// RemediationPriority orders gaps for follow-up
type RemediationPriority string

const (
	PriorityHigh   RemediationPriority = "high"
	PriorityMedium RemediationPriority = "medium"
	PriorityLow    RemediationPriority = "low"
)

var (
	ErrUnknownFramework = framework.ErrUnknownFramework
	ErrUnknownPhase     = framework.ErrUnknownPhase
	ErrNotFound         = errors.New("compliance: not found")
)

// Check is the evaluation result for a single control
type Check struct {
	Framework           framework.Framework `json:"framework"`
	ControlID           string              `json:"control_id"`
	ControlName         string              `json:"control_name"`
	Status              CheckStatus         `json:"status"`
	EvidenceRequired    []string            `json:"evidence_required,omitempty"`
	EvidenceProvided    []string            `json:"evidence_provided,omitempty"`
	GapDescription      string              `json:"gap_description,omitempty"`
	Recommendation      string              `json:"recommendation,omitempty"`
	RemediationPriority RemediationPriority `json:"remediation_priority"`
	EvaluatedBy         string              `json:"evaluated_by"`
	EvaluatedAt         time.Time           `json:"evaluated_at"`
}

// FrameworkStats aggregates check outcomes for one framework
type FrameworkStats struct {
	Framework     framework.Framework `json:"framework"`
	TotalControls int                 `json:"total_controls"`
	Compliant     int                 `json:"compliant"`
	Partial       int                 `json:"partial"`
	Gap           int                 `json:"gap"`
	NotEvaluated  int                 `json:"not_evaluated"`
	Score         float64             `json:"score"` // 0..100
}

// Report aggregates checks keyed by framework
type Report struct {
	GeneratedAt time.Time                               `json:"generated_at"`
	Checks      map[framework.Framework][]Check         `json:"checks"`
	Stats       map[framework.Framework]*FrameworkStats `json:"stats"`
}

// CriticalGaps returns the high-priority gap checks across all frameworks
func (r *Report) CriticalGaps() []Check {
	var out []Check
	for _, checks := range r.Checks {
		for _, chk := range checks {
			if chk.Status == StatusGap && chk.RemediationPriority == PriorityHigh {
				out = append(out, chk)
			}
		}
	}
	return out
}

// Score computes the canonical compliance score:
// 100 * (compliant + 0.5*partial) / total, or 0 when total is 0.
func Score(compliant, partial, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * (float64(compliant) + 0.5*float64(partial)) / float64(total)
}

// EvaluationInput carries the collected state for one phase evaluation
type EvaluationInput struct {
	Phase                 framework.Phase `json:"phase"`
	CompletedActions      []string        `json:"completed_actions"`
	EvidenceCollected     []string        `json:"evidence_collected"`
	DocumentationProvided []string        `json:"documentation_provided"`
	EvaluatedBy           string          `json:"evaluated_by"`
}
