// internal/compliance/evaluator.go
package compliance

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/framework"
)

// Evaluator derives per-control compliance from collected evidence
type Evaluator struct {
	catalog *framework.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewEvaluator creates a compliance evaluator over the given catalog
func NewEvaluator(catalog *framework.Catalog, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// EvaluatePhase evaluates every control a framework maps to the given phase.
// One control failing to evaluate does not abort the rest.
func (e *Evaluator) EvaluatePhase(fw framework.Framework, in EvaluationInput) ([]Check, *FrameworkStats, error) {
	if !framework.ValidFramework(fw) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFramework, fw)
	}
	pm, err := e.catalog.PhaseMapping(fw, in.Phase)
	if err != nil {
		return nil, nil, err
	}

	mandatory := make(map[string]bool, len(pm.Mandatory))
	for _, id := range pm.Mandatory {
		mandatory[id] = true
	}

	corpus := buildCorpus(in)
	completed := make(map[string]bool, len(in.CompletedActions))
	for _, a := range in.CompletedActions {
		completed[a] = true
	}

	checks := make([]Check, 0, len(pm.Controls))
	stats := &FrameworkStats{Framework: fw}
	for _, controlID := range pm.Controls {
		ctrl, err := e.catalog.Control(fw, controlID)
		if err != nil {
			e.logger.Warn("skipping unevaluable control",
				zap.String("framework", string(fw)),
				zap.String("control", controlID),
				zap.Error(err))
			continue
		}
		chk := e.evaluateControl(ctrl, in, pm, completed, corpus, mandatory[controlID])
		checks = append(checks, chk)

		stats.TotalControls++
		switch chk.Status {
		case StatusCompliant:
			stats.Compliant++
		case StatusPartial:
			stats.Partial++
		case StatusGap:
			stats.Gap++
		default:
			stats.NotEvaluated++
		}
	}
	stats.Score = Score(stats.Compliant, stats.Partial, stats.TotalControls)
	return checks, stats, nil
}

func (e *Evaluator) evaluateControl(ctrl framework.Control, in EvaluationInput,
	pm framework.PhaseMapping, completed map[string]bool, corpus string, isMandatory bool) Check {

	chk := Check{
		Framework:        ctrl.Framework,
		ControlID:        ctrl.ControlID,
		ControlName:      ctrl.Name,
		EvidenceRequired: ctrl.EvidenceRequirements,
		EvaluatedBy:      in.EvaluatedBy,
		EvaluatedAt:      e.now().UTC(),
	}

	if required, ok := checklistItems(ctrl.Framework, pm.Phase, ctrl.ControlID); ok {
		matched := 0
		for _, item := range required {
			if completed[item] {
				matched++
			}
		}
		switch {
		case matched == len(required):
			chk.Status = StatusCompliant
		case matched > 0:
			chk.Status = StatusPartial
		default:
			chk.Status = StatusGap
		}
	} else {
		chk.Status = keywordStatus(ctrl.Framework, ctrl.ControlID, corpus)
	}

	chk.EvidenceProvided = matchEvidence(ctrl.Framework, ctrl.ControlID, in.EvidenceCollected)

	if chk.Status == StatusGap || chk.Status == StatusPartial {
		chk.GapDescription = fmt.Sprintf("Insufficient evidence for %s (%s)", ctrl.ControlID, ctrl.Name)
		chk.Recommendation = recommendationFor(ctrl.ControlID)
	}

	if isMandatory {
		chk.RemediationPriority = PriorityHigh
	} else {
		chk.RemediationPriority = PriorityMedium
	}
	return chk
}

// EvaluateFrameworks runs EvaluatePhase across several frameworks and
// assembles the aggregated report. A framework without a mapping for the
// phase is skipped rather than failing the whole report.
func (e *Evaluator) EvaluateFrameworks(fws []framework.Framework, in EvaluationInput) (*Report, error) {
	if !framework.ValidPhase(in.Phase) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhase, in.Phase)
	}
	report := &Report{
		GeneratedAt: e.now().UTC(),
		Checks:      make(map[framework.Framework][]Check),
		Stats:       make(map[framework.Framework]*FrameworkStats),
	}
	for _, fw := range fws {
		checks, stats, err := e.EvaluatePhase(fw, in)
		if err != nil {
			e.logger.Warn("framework evaluation skipped",
				zap.String("framework", string(fw)), zap.Error(err))
			continue
		}
		report.Checks[fw] = checks
		report.Stats[fw] = stats
	}
	if len(report.Checks) == 0 {
		return nil, fmt.Errorf("%w: no evaluable framework for phase %s", ErrNotFound, in.Phase)
	}
	return report, nil
}

func checklistItems(fw framework.Framework, phase framework.Phase, controlID string) ([]string, bool) {
	byPhase, ok := checklistBindings[fw]
	if !ok {
		return nil, false
	}
	byControl, ok := byPhase[phase]
	if !ok {
		return nil, false
	}
	items, ok := byControl[controlID]
	return items, ok && len(items) > 0
}

func keywordStatus(fw framework.Framework, controlID, corpus string) CheckStatus {
	keywords := controlKeywords[fw][controlID]
	if len(keywords) == 0 {
		return StatusNotEvaluated
	}
	found := 0
	for _, kw := range keywords {
		if strings.Contains(corpus, kw) {
			found++
		}
	}
	switch {
	case found == len(keywords):
		return StatusCompliant
	case found > 0:
		return StatusPartial
	default:
		return StatusGap
	}
}

func matchEvidence(fw framework.Framework, controlID string, evidence []string) []string {
	keywords := controlKeywords[fw][controlID]
	if len(keywords) == 0 {
		return nil
	}
	var out []string
	for _, ev := range evidence {
		lowered := strings.ToLower(ev)
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

func recommendationFor(controlID string) string {
	if rec, ok := recommendations[controlID]; ok {
		return rec
	}
	// fall back to the parent control's text: A.5.26 -> A.5, DER.2.1.A6 -> DER.2.1
	if idx := strings.LastIndex(controlID, "."); idx > 0 {
		if rec, ok := recommendations[controlID[:idx]]; ok {
			return rec
		}
	}
	return genericRecommendation
}

func buildCorpus(in EvaluationInput) string {
	parts := make([]string, 0, len(in.CompletedActions)+len(in.EvidenceCollected)+len(in.DocumentationProvided))
	parts = append(parts, in.CompletedActions...)
	parts = append(parts, in.EvidenceCollected...)
	parts = append(parts, in.DocumentationProvided...)
	return strings.ToLower(strings.Join(parts, " "))
}
