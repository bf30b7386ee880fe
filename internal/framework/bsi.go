// internal/framework/bsi.go
// BSI IT-Grundschutz (Edition 2023) — DER building blocks relevant to
// security incident handling.
package framework

var bsiControls = []Control{
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.1.A1",
		Name:        "Erstellung einer Sicherheitsrichtlinie für die Detektion",
		Family:      "DER.1 Detektion",
		Description: "A detection policy defines which security-relevant events are collected and who evaluates them.",
		EvidenceRequirements: []string{
			"Detection policy document",
			"Log source inventory",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.1.A5",
		Name:        "Einsatz von mitgelieferten Systemfunktionen zur Detektion",
		Family:      "DER.1 Detektion",
		Description: "Built-in detection functions of IT systems are enabled and their alerts reviewed regularly.",
		EvidenceRequirements: []string{
			"Alert review records",
			"System detection configuration",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.1.A1",
		Name:        "Definition eines Sicherheitsvorfalls",
		Family:      "DER.2.1 Behandlung von Sicherheitsvorfällen",
		Description: "The organization defines what constitutes a security incident and distinguishes it from an operational fault.",
		EvidenceRequirements: []string{
			"Incident definition in the security policy",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.1.A3",
		Name:        "Festlegung von Verantwortlichkeiten",
		Family:      "DER.2.1 Behandlung von Sicherheitsvorfällen",
		Description: "Responsibilities and escalation paths for incident handling are defined and communicated.",
		EvidenceRequirements: []string{
			"Role assignment matrix",
			"Escalation procedure",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.1",
		Name:        "Behandlung von Sicherheitsvorfällen",
		Family:      "DER.2.1 Behandlung von Sicherheitsvorfällen",
		Description: "Security incidents are handled through a defined process covering triage, containment, eradication and recovery.",
		EvidenceRequirements: []string{
			"Incident handling procedure",
			"Incident tickets with timeline",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.1.A6",
		Name:        "Eindämmung der Auswirkung eines Sicherheitsvorfalls",
		Family:      "DER.2.1 Behandlung von Sicherheitsvorfällen",
		Description: "Measures to contain the effects of an incident are selected and executed without destroying evidence.",
		EvidenceRequirements: []string{
			"Containment decision record",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.1.A7",
		Name:        "Wiederherstellung der Betriebsumgebung",
		Family:      "DER.2.1 Behandlung von Sicherheitsvorfällen",
		Description: "Affected systems are cleaned, restored from trusted media and returned to operation in a controlled way.",
		EvidenceRequirements: []string{
			"Restore protocol",
			"Verification of system integrity",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.1.A9",
		Name:        "Auswertung von Sicherheitsvorfällen",
		Family:      "DER.2.1 Behandlung von Sicherheitsvorfällen",
		Description: "Closed incidents are evaluated to improve detection and handling; lessons learned feed back into the ISMS.",
		EvidenceRequirements: []string{
			"Post-incident review report",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.2.A1",
		Name:        "Prüfung rechtlicher und regulatorischer Meldepflichten",
		Family:      "DER.2.2 Vorsorge für die IT-Forensik",
		Description: "Legal and regulatory reporting obligations are checked for every incident and deadlines tracked.",
		EvidenceRequirements: []string{
			"Reporting obligation checklist",
		},
	},
	{
		Framework:   BSIGrundschutz,
		ControlID:   "DER.2.2.A6",
		Name:        "Forensische Sicherung von Beweismitteln",
		Family:      "DER.2.2 Vorsorge für die IT-Forensik",
		Description: "Evidence is preserved forensically sound, with chain of custody, before systems are altered.",
		EvidenceRequirements: []string{
			"Forensic image records",
			"Chain of custody log",
		},
	},
}

var bsiPhaseMappings = []PhaseMapping{
	{
		Framework: BSIGrundschutz, Phase: PhaseDetection,
		Controls:              []string{"DER.1.A1", "DER.1.A5", "DER.2.1.A1"},
		Mandatory:             []string{"DER.1.A1", "DER.2.1.A1"},
		DocumentationRequired: true,
	},
	{
		Framework: BSIGrundschutz, Phase: PhaseAnalysis,
		Controls:              []string{"DER.2.1.A3", "DER.2.2.A6"},
		Mandatory:             []string{"DER.2.1.A3"},
		DocumentationRequired: true,
	},
	{
		Framework: BSIGrundschutz, Phase: PhaseContainment,
		Controls:              []string{"DER.2.1", "DER.2.1.A6"},
		Mandatory:             []string{"DER.2.1.A6"},
		DocumentationRequired: true,
	},
	{
		Framework: BSIGrundschutz, Phase: PhaseEradication,
		Controls:  []string{"DER.2.1", "DER.2.1.A7"},
		Mandatory: []string{"DER.2.1.A7"},
	},
	{
		Framework: BSIGrundschutz, Phase: PhaseRecovery,
		Controls:  []string{"DER.2.1.A7"},
		Mandatory: []string{"DER.2.1.A7"},
	},
	{
		Framework: BSIGrundschutz, Phase: PhasePostIncident,
		Controls:              []string{"DER.2.1.A9", "DER.2.2.A1"},
		Mandatory:             []string{"DER.2.1.A9"},
		DocumentationRequired: true,
	},
}
