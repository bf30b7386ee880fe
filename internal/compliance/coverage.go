// internal/compliance/coverage.go
package compliance

import (
	"github.com/cyberops/isora/internal/framework"
)

// CategoryCoverage reports unified coverage within one category
type CategoryCoverage struct {
	Category string  `json:"category"`
	Covered  int     `json:"covered"`
	Total    int     `json:"total"`
	Pct      float64 `json:"pct"`
}

// CrossFrameworkCoverage is the unified control coverage view. Equivalent
// native controls completed under different frameworks count as a single
// covered unified control.
type CrossFrameworkCoverage struct {
	Covered    int                         `json:"covered"`
	Total      int                         `json:"total"`
	Pct        float64                     `json:"pct"`
	Categories map[string]CategoryCoverage `json:"categories"`
	CoveredIDs []string                    `json:"covered_ids"`
}

// ComputeCrossFrameworkCoverage evaluates unified controls against the
// completed native control IDs per framework.
func (e *Evaluator) ComputeCrossFrameworkCoverage(completed map[framework.Framework][]string) CrossFrameworkCoverage {
	completedSet := make(map[framework.Framework]map[string]bool, len(completed))
	for fw, ids := range completed {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		completedSet[fw] = set
	}

	cov := CrossFrameworkCoverage{
		Categories: make(map[string]CategoryCoverage),
	}
	for _, uc := range e.catalog.UnifiedControls() {
		cov.Total++
		cat := cov.Categories[uc.Category]
		cat.Category = uc.Category
		cat.Total++

		if unifiedCovered(uc, completedSet) {
			cov.Covered++
			cat.Covered++
			cov.CoveredIDs = append(cov.CoveredIDs, uc.UnifiedID)
		}
		cov.Categories[uc.Category] = cat
	}

	if cov.Total > 0 {
		cov.Pct = 100 * float64(cov.Covered) / float64(cov.Total)
	}
	for name, cat := range cov.Categories {
		if cat.Total > 0 {
			cat.Pct = 100 * float64(cat.Covered) / float64(cat.Total)
		}
		cov.Categories[name] = cat
	}
	return cov
}

func unifiedCovered(uc framework.UnifiedControl, completed map[framework.Framework]map[string]bool) bool {
	for fw, ids := range uc.Mappings {
		set, ok := completed[fw]
		if !ok {
			continue
		}
		for _, id := range ids {
			if set[id] {
				return true
			}
		}
	}
	return false
}
