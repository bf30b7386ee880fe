// internal/framework/catalog.go
package framework

import (
	"fmt"
	"sort"
)

// CatalogVersion stamps the static regulatory content
const CatalogVersion = "2025.2"

// Catalog provides indexed lookups over the static framework data
type Catalog struct {
	Version  string
	controls map[Framework]map[string]Control
	order    map[Framework][]string // control IDs in declaration order
	phases   map[Framework]map[Phase]PhaseMapping
	unified  []UnifiedControl
	// nativeToUnified indexes (framework, controlID) -> unified control
	nativeToUnified map[Framework]map[string]*UnifiedControl
}

// NewCatalog builds the indexed catalog from the static data
func NewCatalog() *Catalog {
	c := &Catalog{
		Version:         CatalogVersion,
		controls:        make(map[Framework]map[string]Control),
		order:           make(map[Framework][]string),
		phases:          make(map[Framework]map[Phase]PhaseMapping),
		unified:         unifiedControls,
		nativeToUnified: make(map[Framework]map[string]*UnifiedControl),
	}

	for _, set := range [][]Control{
		bsiControls, iso27001Controls, iso27035Controls,
		nistCSF2Controls, nist80053Controls, nist80061Controls,
		mitreControls, owaspControls, nis2Controls,
	} {
		for _, ctrl := range set {
			if c.controls[ctrl.Framework] == nil {
				c.controls[ctrl.Framework] = make(map[string]Control)
			}
			c.controls[ctrl.Framework][ctrl.ControlID] = ctrl
			c.order[ctrl.Framework] = append(c.order[ctrl.Framework], ctrl.ControlID)
		}
	}

	for _, set := range [][]PhaseMapping{
		bsiPhaseMappings, iso27001PhaseMappings, iso27035PhaseMappings,
		nistCSF2PhaseMappings, nist80053PhaseMappings, nist80061PhaseMappings,
		mitrePhaseMappings, owaspPhaseMappings, nis2PhaseMappings,
	} {
		for _, pm := range set {
			if c.phases[pm.Framework] == nil {
				c.phases[pm.Framework] = make(map[Phase]PhaseMapping)
			}
			c.phases[pm.Framework][pm.Phase] = pm
		}
	}

	for i := range c.unified {
		uc := &c.unified[i]
		for fw, ids := range uc.Mappings {
			if c.nativeToUnified[fw] == nil {
				c.nativeToUnified[fw] = make(map[string]*UnifiedControl)
			}
			for _, id := range ids {
				c.nativeToUnified[fw][id] = uc
			}
		}
	}

	return c
}

// AllControls returns every control of a framework in catalog order
func (c *Catalog) AllControls(fw Framework) ([]Control, error) {
	byID, ok := c.controls[fw]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFramework, fw)
	}
	out := make([]Control, 0, len(byID))
	for _, id := range c.order[fw] {
		out = append(out, byID[id])
	}
	return out, nil
}

// Control returns a single control by framework and native ID
func (c *Catalog) Control(fw Framework, controlID string) (Control, error) {
	byID, ok := c.controls[fw]
	if !ok {
		return Control{}, fmt.Errorf("%w: %s", ErrUnknownFramework, fw)
	}
	ctrl, ok := byID[controlID]
	if !ok {
		return Control{}, fmt.Errorf("%w: %s/%s", ErrControlNotFound, fw, controlID)
	}
	return ctrl, nil
}

// PhaseMapping returns the phase binding for a framework
func (c *Catalog) PhaseMapping(fw Framework, phase Phase) (PhaseMapping, error) {
	if !ValidPhase(phase) {
		return PhaseMapping{}, fmt.Errorf("%w: %s", ErrUnknownPhase, phase)
	}
	byPhase, ok := c.phases[fw]
	if !ok {
		return PhaseMapping{}, fmt.Errorf("%w: %s", ErrUnknownFramework, fw)
	}
	pm, ok := byPhase[phase]
	if !ok {
		return PhaseMapping{}, fmt.Errorf("%w: %s has no mapping for %s", ErrUnknownPhase, fw, phase)
	}
	return pm, nil
}

// ControlsForPhase resolves a phase mapping to full control records
func (c *Catalog) ControlsForPhase(fw Framework, phase Phase) ([]Control, error) {
	pm, err := c.PhaseMapping(fw, phase)
	if err != nil {
		return nil, err
	}
	out := make([]Control, 0, len(pm.Controls))
	for _, id := range pm.Controls {
		ctrl, err := c.Control(fw, id)
		if err != nil {
			return nil, err
		}
		out = append(out, ctrl)
	}
	return out, nil
}

// EquivalentControls returns the native IDs equivalent to the given control
// in every other framework covered by its unified control. The result does
// not include the queried framework itself.
func (c *Catalog) EquivalentControls(fw Framework, controlID string) (map[Framework][]string, error) {
	if _, err := c.Control(fw, controlID); err != nil {
		return nil, err
	}
	uc, ok := c.lookupUnified(fw, controlID)
	if !ok {
		return map[Framework][]string{}, nil
	}
	out := make(map[Framework][]string, len(uc.Mappings))
	for other, ids := range uc.Mappings {
		if other == fw {
			continue
		}
		out[other] = append([]string(nil), ids...)
	}
	return out, nil
}

// ControlsForPhaseUnified returns the unified controls whose members appear
// in any framework's mapping for the given phase.
func (c *Catalog) ControlsForPhaseUnified(phase Phase) ([]UnifiedControl, error) {
	if !ValidPhase(phase) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhase, phase)
	}
	seen := make(map[string]bool)
	var out []UnifiedControl
	for fw, byPhase := range c.phases {
		pm, ok := byPhase[phase]
		if !ok {
			continue
		}
		for _, id := range pm.Controls {
			if uc, found := c.lookupUnified(fw, id); found && !seen[uc.UnifiedID] {
				seen[uc.UnifiedID] = true
				out = append(out, *uc)
			}
		}
	}
	// Map iteration order over frameworks is random; callers get a
	// stable listing.
	sort.Slice(out, func(i, j int) bool { return out[i].UnifiedID < out[j].UnifiedID })
	return out, nil
}

// ControlDetails returns the merged view of one control with its unified
// classification and all cross-framework references.
func (c *Catalog) ControlDetails(fw Framework, controlID string) (ControlDetails, error) {
	ctrl, err := c.Control(fw, controlID)
	if err != nil {
		return ControlDetails{}, err
	}
	details := ControlDetails{Control: ctrl}
	if uc, ok := c.lookupUnified(fw, controlID); ok {
		details.UnifiedID = uc.UnifiedID
		details.Category = uc.Category
		equiv, _ := c.EquivalentControls(fw, controlID)
		details.Equivalent = equiv
	}
	return details, nil
}

// UnifiedControls returns all cross-framework equivalence classes
func (c *Catalog) UnifiedControls() []UnifiedControl {
	return append([]UnifiedControl(nil), c.unified...)
}

// Frameworks returns the frameworks with catalog content
func (c *Catalog) Frameworks() []Framework {
	out := make([]Framework, 0, len(c.controls))
	for _, fw := range []Framework{
		BSIGrundschutz, NISTCSF2, NIST80053, NIST80061,
		ISO27001, ISO27035, MITREAttack, OWASPTop10, NIS2,
	} {
		if _, ok := c.controls[fw]; ok {
			out = append(out, fw)
		}
	}
	return out
}

func (c *Catalog) lookupUnified(fw Framework, controlID string) (*UnifiedControl, bool) {
	byID, ok := c.nativeToUnified[fw]
	if !ok {
		return nil, false
	}
	uc, ok := byID[controlID]
	return uc, ok
}
