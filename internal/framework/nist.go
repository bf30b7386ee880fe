// internal/framework/nist.go
// NIST CSF 2.0 functions, NIST SP 800-53 Rev. 5 IR family and
// NIST SP 800-61 Rev. 2 lifecycle controls.
package framework

var nistCSF2Controls = []Control{
	{
		Framework:   NISTCSF2,
		ControlID:   "DE.CM-01",
		Name:        "Networks and network services are monitored",
		Family:      "DETECT / Continuous Monitoring",
		Description: "Networks and network services are monitored to find potentially adverse events.",
		EvidenceRequirements: []string{
			"Network monitoring coverage",
			"Alert samples",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "DE.AE-02",
		Name:        "Adverse events are analyzed",
		Family:      "DETECT / Adverse Event Analysis",
		Description: "Potentially adverse events are analyzed to better understand associated activities.",
		EvidenceRequirements: []string{
			"Analysis runbooks",
			"Triage records",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "DE.AE-08",
		Name:        "Incidents are declared",
		Family:      "DETECT / Adverse Event Analysis",
		Description: "Incidents are declared when adverse events meet the defined incident criteria.",
		EvidenceRequirements: []string{
			"Incident declaration criteria",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "RS.MA-01",
		Name:        "Incident response plan is executed",
		Family:      "RESPOND / Incident Management",
		Description: "The incident response plan is executed in coordination with relevant third parties once an incident is declared.",
		EvidenceRequirements: []string{
			"Incident response plan",
			"Execution timeline",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "RS.AN-03",
		Name:        "Analysis is performed to determine what has taken place",
		Family:      "RESPOND / Incident Analysis",
		Description: "Analysis is performed to establish what has taken place during an incident and the root cause.",
		EvidenceRequirements: []string{
			"Root cause analysis",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "RS.MI-01",
		Name:        "Incidents are contained",
		Family:      "RESPOND / Incident Mitigation",
		Description: "Incidents are contained to prevent expansion of the event.",
		EvidenceRequirements: []string{
			"Containment actions log",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "RS.MI-02",
		Name:        "Incidents are eradicated",
		Family:      "RESPOND / Incident Mitigation",
		Description: "Incidents are eradicated by eliminating the root cause components from affected systems.",
		EvidenceRequirements: []string{
			"Eradication verification",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "RC.RP-01",
		Name:        "Recovery portion of the incident response plan is executed",
		Family:      "RECOVER / Incident Recovery Plan Execution",
		Description: "The recovery portion of the incident response plan is executed once initiated from the response process.",
		EvidenceRequirements: []string{
			"Recovery checklist",
			"Restoration records",
		},
	},
	{
		Framework:   NISTCSF2,
		ControlID:   "ID.IM-04",
		Name:        "Incident response plans are improved",
		Family:      "IDENTIFY / Improvement",
		Description: "Cybersecurity plans incorporate lessons learned from incidents and exercises.",
		EvidenceRequirements: []string{
			"Plan revision history",
			"Lessons learned register",
		},
	},
}

var nistCSF2PhaseMappings = []PhaseMapping{
	{
		Framework: NISTCSF2, Phase: PhaseDetection,
		Controls:              []string{"DE.CM-01", "DE.AE-08"},
		Mandatory:             []string{"DE.AE-08"},
		DocumentationRequired: true,
	},
	{
		Framework: NISTCSF2, Phase: PhaseAnalysis,
		Controls:  []string{"DE.AE-02", "RS.AN-03"},
		Mandatory: []string{"RS.AN-03"},
	},
	{
		Framework: NISTCSF2, Phase: PhaseContainment,
		Controls:  []string{"RS.MA-01", "RS.MI-01"},
		Mandatory: []string{"RS.MI-01"},
	},
	{
		Framework: NISTCSF2, Phase: PhaseEradication,
		Controls:  []string{"RS.MI-02"},
		Mandatory: []string{"RS.MI-02"},
	},
	{
		Framework: NISTCSF2, Phase: PhaseRecovery,
		Controls:  []string{"RC.RP-01"},
		Mandatory: []string{"RC.RP-01"},
	},
	{
		Framework: NISTCSF2, Phase: PhasePostIncident,
		Controls:              []string{"ID.IM-04"},
		Mandatory:             []string{"ID.IM-04"},
		DocumentationRequired: true,
	},
}

var nist80053Controls = []Control{
	{
		Framework:   NIST80053,
		ControlID:   "IR-4",
		Name:        "Incident Handling",
		Family:      "IR Incident Response",
		Description: "The organization implements an incident handling capability covering preparation, detection, analysis, containment, eradication and recovery.",
		EvidenceRequirements: []string{
			"Incident handling procedure",
			"Handled incident records",
		},
	},
	{
		Framework:   NIST80053,
		ControlID:   "IR-5",
		Name:        "Incident Monitoring",
		Family:      "IR Incident Response",
		Description: "Incidents are tracked and documented on an ongoing basis.",
		EvidenceRequirements: []string{
			"Incident tracking system extract",
		},
	},
	{
		Framework:   NIST80053,
		ControlID:   "IR-6",
		Name:        "Incident Reporting",
		Family:      "IR Incident Response",
		Description: "Suspected incidents are reported to authorities and internal stakeholders within organization-defined time periods.",
		EvidenceRequirements: []string{
			"Reporting timelines",
			"Authority notifications",
		},
	},
	{
		Framework:   NIST80053,
		ControlID:   "IR-8",
		Name:        "Incident Response Plan",
		Family:      "IR Incident Response",
		Description: "An incident response plan is developed, distributed, reviewed and updated.",
		EvidenceRequirements: []string{
			"Incident response plan with revision history",
		},
	},
	{
		Framework:   NIST80053,
		ControlID:   "AU-6",
		Name:        "Audit Record Review, Analysis, and Reporting",
		Family:      "AU Audit and Accountability",
		Description: "Audit records are reviewed and analysed for indications of inappropriate or unusual activity.",
		EvidenceRequirements: []string{
			"Audit review records",
		},
	},
	{
		Framework:   NIST80053,
		ControlID:   "SI-4",
		Name:        "System Monitoring",
		Family:      "SI System and Information Integrity",
		Description: "The system is monitored to detect attacks, indicators of potential attacks and unauthorized connections.",
		EvidenceRequirements: []string{
			"Monitoring tool configuration",
			"Detection alerts",
		},
	},
}

var nist80053PhaseMappings = []PhaseMapping{
	{
		Framework: NIST80053, Phase: PhaseDetection,
		Controls:  []string{"AU-6", "SI-4"},
		Mandatory: []string{"SI-4"},
	},
	{
		Framework: NIST80053, Phase: PhaseAnalysis,
		Controls:  []string{"IR-4", "IR-5"},
		Mandatory: []string{"IR-4"},
	},
	{
		Framework: NIST80053, Phase: PhaseContainment,
		Controls:  []string{"IR-4"},
		Mandatory: []string{"IR-4"},
	},
	{
		Framework: NIST80053, Phase: PhaseEradication,
		Controls:  []string{"IR-4"},
		Mandatory: []string{"IR-4"},
	},
	{
		Framework: NIST80053, Phase: PhaseRecovery,
		Controls:  []string{"IR-4", "IR-8"},
		Mandatory: []string{},
	},
	{
		Framework: NIST80053, Phase: PhasePostIncident,
		Controls:              []string{"IR-6", "IR-8"},
		Mandatory:             []string{"IR-6"},
		DocumentationRequired: true,
	},
}

var nist80061Controls = []Control{
	{
		Framework:   NIST80061,
		ControlID:   "61-3.1",
		Name:        "Preparation",
		Family:      "Incident Response Life Cycle",
		Description: "Incident response capability is established: tooling, communication channels and team training.",
		EvidenceRequirements: []string{
			"Jump kit inventory",
			"Training records",
		},
	},
	{
		Framework:   NIST80061,
		ControlID:   "61-3.2",
		Name:        "Detection and Analysis",
		Family:      "Incident Response Life Cycle",
		Description: "Precursors and indicators are detected, validated, documented and prioritized.",
		EvidenceRequirements: []string{
			"Indicator documentation",
			"Prioritization rationale",
		},
	},
	{
		Framework:   NIST80061,
		ControlID:   "61-3.3",
		Name:        "Containment, Eradication, and Recovery",
		Family:      "Incident Response Life Cycle",
		Description: "A containment strategy is chosen, attacker artifacts removed and systems restored to normal operation.",
		EvidenceRequirements: []string{
			"Containment strategy record",
			"Recovery verification",
		},
	},
	{
		Framework:   NIST80061,
		ControlID:   "61-3.4",
		Name:        "Post-Incident Activity",
		Family:      "Incident Response Life Cycle",
		Description: "Lessons learned meetings are held and collected incident data is used to improve the process.",
		EvidenceRequirements: []string{
			"Lessons learned meeting minutes",
		},
	},
}

var nist80061PhaseMappings = []PhaseMapping{
	{
		Framework: NIST80061, Phase: PhaseDetection,
		Controls:  []string{"61-3.1", "61-3.2"},
		Mandatory: []string{"61-3.2"},
	},
	{
		Framework: NIST80061, Phase: PhaseAnalysis,
		Controls:  []string{"61-3.2"},
		Mandatory: []string{"61-3.2"},
	},
	{
		Framework: NIST80061, Phase: PhaseContainment,
		Controls:  []string{"61-3.3"},
		Mandatory: []string{"61-3.3"},
	},
	{
		Framework: NIST80061, Phase: PhaseEradication,
		Controls:  []string{"61-3.3"},
		Mandatory: []string{"61-3.3"},
	},
	{
		Framework: NIST80061, Phase: PhaseRecovery,
		Controls:  []string{"61-3.3"},
		Mandatory: []string{"61-3.3"},
	},
	{
		Framework: NIST80061, Phase: PhasePostIncident,
		Controls:              []string{"61-3.4"},
		Mandatory:             []string{"61-3.4"},
		DocumentationRequired: true,
	},
}
