// internal/framework/framework.go
// Static regulatory framework catalog: controls, incident-response phase
// mappings and cross-framework control equivalences.
package framework

import (
	"errors"
)

// Framework identifies a supported regulatory framework
type Framework string

const (
	BSIGrundschutz Framework = "BSI_GRUNDSCHUTZ"
	NISTCSF2       Framework = "NIST_CSF_2"
	NIST80053      Framework = "NIST_800_53"
	NIST80061      Framework = "NIST_800_61"
	ISO27001       Framework = "ISO_27001"
	ISO27035       Framework = "ISO_27035"
	MITREAttack    Framework = "MITRE_ATTACK"
	OWASPTop10     Framework = "OWASP_TOP_10"
	NIS2           Framework = "NIS2"
)

// Phase is one of the six incident-response lifecycle phases
type Phase string

const (
	PhaseDetection    Phase = "detection"
	PhaseAnalysis     Phase = "analysis"
	PhaseContainment  Phase = "containment"
	PhaseEradication  Phase = "eradication"
	PhaseRecovery     Phase = "recovery"
	PhasePostIncident Phase = "post_incident"
)

// Phases lists all IR phases in lifecycle order
var Phases = []Phase{
	PhaseDetection,
	PhaseAnalysis,
	PhaseContainment,
	PhaseEradication,
	PhaseRecovery,
	PhasePostIncident,
}

var (
	ErrUnknownFramework = errors.New("framework: unknown framework")
	ErrUnknownPhase     = errors.New("framework: unknown phase")
	ErrControlNotFound  = errors.New("framework: control not found")
)

// Control is a framework-native control definition
type Control struct {
	Framework            Framework `json:"framework"`
	ControlID            string    `json:"control_id"` // e.g. "DER.2.1", "A.5.26", "IR-4"
	Name                 string    `json:"name"`
	Family               string    `json:"family"`
	Description          string    `json:"description"`
	EvidenceRequirements []string  `json:"evidence_requirements,omitempty"`
}

// PhaseMapping binds one framework to one IR phase
type PhaseMapping struct {
	Framework             Framework `json:"framework"`
	Phase                 Phase     `json:"phase"`
	Controls              []string  `json:"controls"`
	Mandatory             []string  `json:"mandatory"`
	DocumentationRequired bool      `json:"documentation_required"`
}

// UnifiedControl groups equivalent native controls across frameworks
type UnifiedControl struct {
	UnifiedID string                 `json:"unified_id"`
	Category  string                 `json:"category"`
	Name      string                 `json:"name"`
	Mappings  map[Framework][]string `json:"mappings"`
}

// ControlDetails is the merged view of one control with all its cross-refs
type ControlDetails struct {
	Control    Control                `json:"control"`
	UnifiedID  string                 `json:"unified_id,omitempty"`
	Category   string                 `json:"category,omitempty"`
	Equivalent map[Framework][]string `json:"equivalent,omitempty"`
}

// ValidFramework reports whether f is a member of the closed framework enum
func ValidFramework(f Framework) bool {
	switch f {
	case BSIGrundschutz, NISTCSF2, NIST80053, NIST80061,
		ISO27001, ISO27035, MITREAttack, OWASPTop10, NIS2:
		return true
	}
	return false
}

// ValidPhase reports whether p is one of the six IR phases
func ValidPhase(p Phase) bool {
	for _, known := range Phases {
		if p == known {
			return true
		}
	}
	return false
}
