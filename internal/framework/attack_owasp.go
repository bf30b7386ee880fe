// internal/framework/attack_owasp.go
// MITRE ATT&CK mitigations/techniques used as response controls and the
// OWASP Top 10 (2021) categories.
package framework

var mitreControls = []Control{
	{
		Framework:   MITREAttack,
		ControlID:   "M1047",
		Name:        "Audit",
		Family:      "Mitigations",
		Description: "Perform audits of systems and permissions to detect malicious changes and weaknesses.",
		EvidenceRequirements: []string{
			"Audit reports",
		},
	},
	{
		Framework:   MITREAttack,
		ControlID:   "M1049",
		Name:        "Antivirus/Antimalware",
		Family:      "Mitigations",
		Description: "Use signatures and heuristics to detect and quarantine malicious software.",
		EvidenceRequirements: []string{
			"Endpoint protection coverage",
			"Quarantine logs",
		},
	},
	{
		Framework:   MITREAttack,
		ControlID:   "M1030",
		Name:        "Network Segmentation",
		Family:      "Mitigations",
		Description: "Architect network sections to isolate critical systems and limit adversary lateral movement.",
		EvidenceRequirements: []string{
			"Segmentation diagram",
			"Firewall rule review",
		},
	},
	{
		Framework:   MITREAttack,
		ControlID:   "M1053",
		Name:        "Data Backup",
		Family:      "Mitigations",
		Description: "Take and protect backups so data can be restored after destructive impact techniques.",
		EvidenceRequirements: []string{
			"Backup schedule",
			"Restore test records",
		},
	},
	{
		Framework:   MITREAttack,
		ControlID:   "M1031",
		Name:        "Network Intrusion Prevention",
		Family:      "Mitigations",
		Description: "Use intrusion detection signatures to block traffic associated with known adversary techniques.",
		EvidenceRequirements: []string{
			"IDS/IPS signature update records",
		},
	},
}

var mitrePhaseMappings = []PhaseMapping{
	{
		Framework: MITREAttack, Phase: PhaseDetection,
		Controls:  []string{"M1047", "M1031"},
		Mandatory: []string{},
	},
	{
		Framework: MITREAttack, Phase: PhaseAnalysis,
		Controls:  []string{"M1047"},
		Mandatory: []string{},
	},
	{
		Framework: MITREAttack, Phase: PhaseContainment,
		Controls:  []string{"M1030", "M1031"},
		Mandatory: []string{"M1030"},
	},
	{
		Framework: MITREAttack, Phase: PhaseEradication,
		Controls:  []string{"M1049"},
		Mandatory: []string{"M1049"},
	},
	{
		Framework: MITREAttack, Phase: PhaseRecovery,
		Controls:  []string{"M1053"},
		Mandatory: []string{"M1053"},
	},
	{
		Framework: MITREAttack, Phase: PhasePostIncident,
		Controls:  []string{"M1047"},
		Mandatory: []string{},
	},
}

var owaspControls = []Control{
	{
		Framework:   OWASPTop10,
		ControlID:   "A01:2021",
		Name:        "Broken Access Control",
		Family:      "OWASP Top 10 2021",
		Description: "Restrictions on authenticated users are properly enforced; access control failures are detected and logged.",
		EvidenceRequirements: []string{
			"Access control test results",
			"Authorization failure logs",
		},
	},
	{
		Framework:   OWASPTop10,
		ControlID:   "A05:2021",
		Name:        "Security Misconfiguration",
		Family:      "OWASP Top 10 2021",
		Description: "Hardened configurations are deployed and verified across the application stack.",
		EvidenceRequirements: []string{
			"Configuration baseline",
			"Hardening scan results",
		},
	},
	{
		Framework:   OWASPTop10,
		ControlID:   "A06:2021",
		Name:        "Vulnerable and Outdated Components",
		Family:      "OWASP Top 10 2021",
		Description: "Component inventories are maintained and known-vulnerable dependencies are patched or removed.",
		EvidenceRequirements: []string{
			"Dependency inventory",
			"Patch records",
		},
	},
	{
		Framework:   OWASPTop10,
		ControlID:   "A09:2021",
		Name:        "Security Logging and Monitoring Failures",
		Family:      "OWASP Top 10 2021",
		Description: "Auditable events are logged with enough context, monitored and alerting thresholds defined.",
		EvidenceRequirements: []string{
			"Logging coverage review",
			"Alerting configuration",
		},
	},
}

var owaspPhaseMappings = []PhaseMapping{
	{
		Framework: OWASPTop10, Phase: PhaseDetection,
		Controls:  []string{"A09:2021"},
		Mandatory: []string{"A09:2021"},
	},
	{
		Framework: OWASPTop10, Phase: PhaseAnalysis,
		Controls:  []string{"A09:2021", "A01:2021"},
		Mandatory: []string{},
	},
	{
		Framework: OWASPTop10, Phase: PhaseContainment,
		Controls:  []string{"A01:2021", "A05:2021"},
		Mandatory: []string{},
	},
	{
		Framework: OWASPTop10, Phase: PhaseEradication,
		Controls:  []string{"A06:2021", "A05:2021"},
		Mandatory: []string{"A06:2021"},
	},
	{
		Framework: OWASPTop10, Phase: PhaseRecovery,
		Controls:  []string{"A05:2021"},
		Mandatory: []string{},
	},
	{
		Framework: OWASPTop10, Phase: PhasePostIncident,
		Controls:  []string{"A09:2021"},
		Mandatory: []string{},
	},
}
