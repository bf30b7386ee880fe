// internal/framework/unified.go
// Cross-framework control equivalences. Each unified control is an
// equivalence class of native controls with the same intent.
package framework

var unifiedControls = []UnifiedControl{
	{
		UnifiedID: "U-DETECT-MONITOR",
		Category:  "detection",
		Name:      "Continuous security monitoring",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.1.A1", "DER.1.A5"},
			ISO27001:       {"A.8.15", "A.8.16"},
			ISO27035:       {"27035-5.3"},
			NISTCSF2:       {"DE.CM-01"},
			NIST80053:      {"AU-6", "SI-4"},
			OWASPTop10:     {"A09:2021"},
		},
	},
	{
		UnifiedID: "U-EVENT-TRIAGE",
		Category:  "detection",
		Name:      "Event assessment and incident declaration",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.1.A1"},
			ISO27001:       {"A.5.25", "A.6.8"},
			ISO27035:       {"27035-5.4"},
			NISTCSF2:       {"DE.AE-02", "DE.AE-08"},
			NIST80061:      {"61-3.2"},
		},
	},
	{
		UnifiedID: "U-INCIDENT-RESPONSE",
		Category:  "incident_response",
		Name:      "Incident response execution",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.1"},
			ISO27001:       {"A.5.26"},
			ISO27035:       {"27035-5.5"},
			NISTCSF2:       {"RS.MA-01"},
			NIST80053:      {"IR-4"},
			NIST80061:      {"61-3.3"},
		},
	},
	{
		UnifiedID: "U-CONTAINMENT",
		Category:  "incident_response",
		Name:      "Incident containment",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.1.A6"},
			NISTCSF2:       {"RS.MI-01"},
			MITREAttack:    {"M1030", "M1031"},
		},
	},
	{
		UnifiedID: "U-EVIDENCE",
		Category:  "forensics",
		Name:      "Evidence collection and preservation",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.2.A6"},
			ISO27001:       {"A.5.28"},
			NIST80053:      {"IR-5"},
		},
	},
	{
		UnifiedID: "U-RECOVERY",
		Category:  "recovery",
		Name:      "Service restoration and continuity",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.1.A7"},
			ISO27001:       {"A.5.29"},
			NISTCSF2:       {"RC.RP-01"},
			NIS2:           {"Art21.2c"},
			MITREAttack:    {"M1053"},
		},
	},
	{
		UnifiedID: "U-REGULATORY-REPORTING",
		Category:  "reporting",
		Name:      "Regulatory incident reporting",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.2.A1"},
			NIST80053:      {"IR-6"},
			NIS2:           {"Art23.4a", "Art23.4b", "Art23.4d"},
		},
	},
	{
		UnifiedID: "U-LESSONS-LEARNED",
		Category:  "post_incident",
		Name:      "Post-incident learning and improvement",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.1.A9"},
			ISO27001:       {"A.5.27"},
			ISO27035:       {"27035-5.6"},
			NISTCSF2:       {"ID.IM-04"},
			NIST80061:      {"61-3.4"},
		},
	},
	{
		UnifiedID: "U-IR-PLANNING",
		Category:  "preparation",
		Name:      "Incident response planning and preparation",
		Mappings: map[Framework][]string{
			BSIGrundschutz: {"DER.2.1.A3"},
			ISO27001:       {"A.5.24"},
			ISO27035:       {"27035-5.2"},
			NIST80053:      {"IR-8"},
			NIST80061:      {"61-3.1"},
			NIS2:           {"Art21.2b"},
		},
	},
}
