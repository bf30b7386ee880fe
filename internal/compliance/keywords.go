// internal/compliance/keywords.go
package compliance

import (
	"github.com/cyberops/isora/internal/framework"
)

// checklistBindings declares, per framework+phase, which checklist item IDs
// satisfy a control. When a binding exists it takes precedence over keyword
// matching.
var checklistBindings = map[framework.Framework]map[framework.Phase]map[string][]string{
	framework.BSIGrundschutz: {
		framework.PhaseDetection: {
			"DER.1.A1":   {"detection-policy-defined", "log-sources-inventoried"},
			"DER.1.A5":   {"system-detection-enabled", "alerts-reviewed"},
			"DER.2.1.A1": {"incident-definition-documented"},
		},
		framework.PhaseContainment: {
			"DER.2.1":    {"containment-strategy-selected", "systems-isolated"},
			"DER.2.1.A6": {"containment-strategy-selected"},
		},
		framework.PhasePostIncident: {
			"DER.2.1.A9": {"lessons-learned-held", "improvements-tracked"},
			"DER.2.2.A1": {"reporting-obligations-checked"},
		},
	},
	framework.ISO27001: {
		framework.PhaseAnalysis: {
			"A.5.25": {"event-assessed", "incident-classified"},
			"A.5.28": {"evidence-preserved", "chain-of-custody-started"},
		},
		framework.PhasePostIncident: {
			"A.5.27": {"lessons-learned-held"},
			"A.5.24": {"ir-plan-updated"},
		},
	},
	framework.NISTCSF2: {
		framework.PhaseContainment: {
			"RS.MA-01": {"ir-plan-activated"},
			"RS.MI-01": {"systems-isolated", "spread-stopped"},
		},
		framework.PhaseEradication: {
			"RS.MI-02": {"malware-removed", "root-cause-eliminated"},
		},
		framework.PhaseRecovery: {
			"RC.RP-01": {"systems-restored", "recovery-verified"},
		},
	},
}

// controlKeywords drives the fallback evaluation: a control is compliant
// when all its keywords occur in the collected actions/evidence text.
var controlKeywords = map[framework.Framework]map[string][]string{
	framework.BSIGrundschutz: {
		"DER.1.A1":   {"detection", "policy"},
		"DER.1.A5":   {"alert", "review"},
		"DER.2.1.A1": {"incident", "definition"},
		"DER.2.1.A3": {"responsibilit", "escalation"},
		"DER.2.1":    {"incident", "handling"},
		"DER.2.1.A6": {"containment"},
		"DER.2.1.A7": {"restore"},
		"DER.2.1.A9": {"lessons"},
		"DER.2.2.A1": {"reporting", "obligation"},
		"DER.2.2.A6": {"forensic", "evidence"},
	},
	framework.ISO27001: {
		"A.5.24": {"plan", "prepar"},
		"A.5.25": {"assess", "classif"},
		"A.5.26": {"respon", "procedure"},
		"A.5.27": {"lessons", "improve"},
		"A.5.28": {"evidence", "custody"},
		"A.5.29": {"continuity"},
		"A.6.8":  {"report", "channel"},
		"A.8.15": {"log"},
		"A.8.16": {"monitor"},
	},
	framework.ISO27035: {
		"27035-5.2": {"plan", "prepar"},
		"27035-5.3": {"detect", "report"},
		"27035-5.4": {"assess", "decide"},
		"27035-5.5": {"respon"},
		"27035-5.6": {"lessons"},
	},
	framework.NISTCSF2: {
		"DE.CM-01": {"network", "monitor"},
		"DE.AE-02": {"analy"},
		"DE.AE-08": {"declar"},
		"RS.MA-01": {"plan", "execut"},
		"RS.AN-03": {"root cause"},
		"RS.MI-01": {"contain"},
		"RS.MI-02": {"eradicat"},
		"RC.RP-01": {"recover"},
		"ID.IM-04": {"improve", "lessons"},
	},
	framework.NIST80053: {
		"IR-4": {"incident", "handling"},
		"IR-5": {"track"},
		"IR-6": {"report", "authorit"},
		"IR-8": {"plan"},
		"AU-6": {"audit", "review"},
		"SI-4": {"monitor"},
	},
	framework.NIST80061: {
		"61-3.1": {"prepar"},
		"61-3.2": {"indicator", "priorit"},
		"61-3.3": {"contain", "recover"},
		"61-3.4": {"lessons"},
	},
	framework.MITREAttack: {
		"M1047": {"audit"},
		"M1049": {"antivirus"},
		"M1030": {"segment"},
		"M1053": {"backup"},
		"M1031": {"intrusion", "prevention"},
	},
	framework.OWASPTop10: {
		"A01:2021": {"access control"},
		"A05:2021": {"configuration", "harden"},
		"A06:2021": {"component", "patch"},
		"A09:2021": {"logging", "monitor"},
	},
	framework.NIS2: {
		"Art21.2b": {"incident", "handling"},
		"Art21.2c": {"continuity", "backup"},
		"Art23.3":  {"significan", "assess"},
		"Art23.4a": {"early warning"},
		"Art23.4b": {"notification", "72"},
		"Art23.4d": {"final report"},
	},
}

// recommendations are canned remediation texts keyed by control ID
var recommendations = map[string]string{
	"DER.1.A1":   "Document a detection policy naming log sources and review responsibilities.",
	"DER.2.1":    "Establish and exercise the incident handling procedure end to end.",
	"DER.2.1.A6": "Define containment playbooks that preserve forensic evidence.",
	"DER.2.1.A9": "Hold a structured post-incident review and track resulting actions.",
	"A.5.25":     "Define classification criteria and record the assessment of every reported event.",
	"A.5.26":     "Respond to incidents following the documented procedure and log every action taken.",
	"A.5.27":     "Feed lessons learned back into the ISMS and update affected controls.",
	"A.5.28":     "Collect evidence with a documented chain of custody before altering systems.",
	"RS.MI-01":   "Isolate affected systems promptly to stop spread; document the decision.",
	"RS.MI-02":   "Remove attacker artifacts and verify eradication before recovery.",
	"RC.RP-01":   "Execute the recovery plan and verify integrity of restored services.",
	"IR-4":       "Implement the full incident handling lifecycle per the incident response plan.",
	"IR-6":       "Report incidents to the designated authorities within the required time period.",
	"Art23.4a":   "Submit the early warning to the national CSIRT within 24 hours of awareness.",
	"Art23.4b":   "Submit the incident notification with a severity assessment within 72 hours.",
	"Art23.4d":   "Submit the final report including root cause analysis within one month.",
}

// genericRecommendation is the parent-control fallback
const genericRecommendation = "Review the control requirements and collect the listed evidence for this phase."
