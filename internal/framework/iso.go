// internal/framework/iso.go
// ISO/IEC 27001:2022 Annex A (incident-relevant subset) and ISO/IEC 27035
// incident management controls.
package framework

var iso27001Controls = []Control{
	{
		Framework:   ISO27001,
		ControlID:   "A.5.24",
		Name:        "Information security incident management planning and preparation",
		Family:      "A.5 Organizational controls",
		Description: "The organization plans and prepares for managing information security incidents by defining processes, roles and responsibilities.",
		EvidenceRequirements: []string{
			"Incident management plan",
			"Defined incident roles",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.5.25",
		Name:        "Assessment and decision on information security events",
		Family:      "A.5 Organizational controls",
		Description: "Security events are assessed and it is decided whether they are to be categorized as incidents.",
		EvidenceRequirements: []string{
			"Event triage records",
			"Classification criteria",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.5.26",
		Name:        "Response to information security incidents",
		Family:      "A.5 Organizational controls",
		Description: "Information security incidents are responded to in accordance with the documented procedures.",
		EvidenceRequirements: []string{
			"Incident response procedure",
			"Response action log",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.5.27",
		Name:        "Learning from information security incidents",
		Family:      "A.5 Organizational controls",
		Description: "Knowledge gained from incidents is used to strengthen and improve the controls.",
		EvidenceRequirements: []string{
			"Lessons learned report",
			"Control improvement records",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.5.28",
		Name:        "Collection of evidence",
		Family:      "A.5 Organizational controls",
		Description: "Procedures for identification, collection and preservation of evidence related to security events are established.",
		EvidenceRequirements: []string{
			"Evidence collection procedure",
			"Chain of custody records",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.5.29",
		Name:        "Information security during disruption",
		Family:      "A.5 Organizational controls",
		Description: "The organization plans how to maintain information security at an appropriate level during disruption.",
		EvidenceRequirements: []string{
			"Continuity plan",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.6.8",
		Name:        "Information security event reporting",
		Family:      "A.6 People controls",
		Description: "Personnel report observed or suspected information security events through appropriate channels in a timely manner.",
		EvidenceRequirements: []string{
			"Reporting channel documentation",
			"Event reports",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.8.15",
		Name:        "Logging",
		Family:      "A.8 Technological controls",
		Description: "Logs recording activities, exceptions, faults and other relevant events are produced, stored, protected and analysed.",
		EvidenceRequirements: []string{
			"Log retention configuration",
			"Log analysis records",
		},
	},
	{
		Framework:   ISO27001,
		ControlID:   "A.8.16",
		Name:        "Monitoring activities",
		Family:      "A.8 Technological controls",
		Description: "Networks, systems and applications are monitored for anomalous behaviour and appropriate actions taken.",
		EvidenceRequirements: []string{
			"Monitoring coverage documentation",
			"Anomaly alert records",
		},
	},
}

var iso27001PhaseMappings = []PhaseMapping{
	{
		Framework: ISO27001, Phase: PhaseDetection,
		Controls:              []string{"A.6.8", "A.8.15", "A.8.16"},
		Mandatory:             []string{"A.8.16"},
		DocumentationRequired: true,
	},
	{
		Framework: ISO27001, Phase: PhaseAnalysis,
		Controls:              []string{"A.5.25", "A.5.28"},
		Mandatory:             []string{"A.5.25"},
		DocumentationRequired: true,
	},
	{
		Framework: ISO27001, Phase: PhaseContainment,
		Controls:  []string{"A.5.26", "A.5.29"},
		Mandatory: []string{"A.5.26"},
	},
	{
		Framework: ISO27001, Phase: PhaseEradication,
		Controls:  []string{"A.5.26"},
		Mandatory: []string{"A.5.26"},
	},
	{
		Framework: ISO27001, Phase: PhaseRecovery,
		Controls:  []string{"A.5.26", "A.5.29"},
		Mandatory: []string{},
	},
	{
		Framework: ISO27001, Phase: PhasePostIncident,
		Controls:              []string{"A.5.27", "A.5.24"},
		Mandatory:             []string{"A.5.27"},
		DocumentationRequired: true,
	},
}

var iso27035Controls = []Control{
	{
		Framework:   ISO27035,
		ControlID:   "27035-5.2",
		Name:        "Plan and prepare",
		Family:      "Incident management process",
		Description: "Incident management policy, plan and team are established before incidents occur.",
		EvidenceRequirements: []string{
			"Incident management policy",
			"IRT charter",
		},
	},
	{
		Framework:   ISO27035,
		ControlID:   "27035-5.3",
		Name:        "Detect and report",
		Family:      "Incident management process",
		Description: "Events are detected through monitoring and reported via defined channels.",
		EvidenceRequirements: []string{
			"Event reports",
			"Detection tooling inventory",
		},
	},
	{
		Framework:   ISO27035,
		ControlID:   "27035-5.4",
		Name:        "Assess and decide",
		Family:      "Incident management process",
		Description: "Reported events are assessed, categorized and a decision is made whether an incident exists.",
		EvidenceRequirements: []string{
			"Assessment records",
			"Severity classification",
		},
	},
	{
		Framework:   ISO27035,
		ControlID:   "27035-5.5",
		Name:        "Respond",
		Family:      "Incident management process",
		Description: "Incidents are contained, eradicated and recovered from according to their categorization.",
		EvidenceRequirements: []string{
			"Response action log",
		},
	},
	{
		Framework:   ISO27035,
		ControlID:   "27035-5.6",
		Name:        "Learn lessons",
		Family:      "Incident management process",
		Description: "Lessons identified from incidents are converted into improvements of controls and the incident process itself.",
		EvidenceRequirements: []string{
			"Lessons learned report",
		},
	},
}

var iso27035PhaseMappings = []PhaseMapping{
	{
		Framework: ISO27035, Phase: PhaseDetection,
		Controls:              []string{"27035-5.2", "27035-5.3"},
		Mandatory:             []string{"27035-5.3"},
		DocumentationRequired: true,
	},
	{
		Framework: ISO27035, Phase: PhaseAnalysis,
		Controls:  []string{"27035-5.4"},
		Mandatory: []string{"27035-5.4"},
	},
	{
		Framework: ISO27035, Phase: PhaseContainment,
		Controls:  []string{"27035-5.5"},
		Mandatory: []string{"27035-5.5"},
	},
	{
		Framework: ISO27035, Phase: PhaseEradication,
		Controls:  []string{"27035-5.5"},
		Mandatory: []string{"27035-5.5"},
	},
	{
		Framework: ISO27035, Phase: PhaseRecovery,
		Controls:  []string{"27035-5.5"},
		Mandatory: []string{},
	},
	{
		Framework: ISO27035, Phase: PhasePostIncident,
		Controls:              []string{"27035-5.6"},
		Mandatory:             []string{"27035-5.6"},
		DocumentationRequired: true,
	},
}
