// internal/assessment/annexa.go
// ISO/IEC 27001:2022 Annex A control catalog. 93 controls across four
// themes: organizational (37), people (8), physical (14),
// technological (34).
package assessment

// Theme is the Annex A control theme
type Theme string

const (
	ThemeOrganizational Theme = "organizational" // A.5
	ThemePeople         Theme = "people"         // A.6
	ThemePhysical       Theme = "physical"       // A.7
	ThemeTechnological  Theme = "technological"  // A.8
)

// Control is one Annex A control
type Control struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Theme Theme  `json:"theme"`
}

// AnnexA is the full 2022 catalog in standard order
var AnnexA = []Control{
	{"A.5.1", "Policies for information security", ThemeOrganizational},
	{"A.5.2", "Information security roles and responsibilities", ThemeOrganizational},
	{"A.5.3", "Segregation of duties", ThemeOrganizational},
	{"A.5.4", "Management responsibilities", ThemeOrganizational},
	{"A.5.5", "Contact with authorities", ThemeOrganizational},
	{"A.5.6", "Contact with special interest groups", ThemeOrganizational},
	{"A.5.7", "Threat intelligence", ThemeOrganizational},
	{"A.5.8", "Information security in project management", ThemeOrganizational},
	{"A.5.9", "Inventory of information and other associated assets", ThemeOrganizational},
	{"A.5.10", "Acceptable use of information and other associated assets", ThemeOrganizational},
	{"A.5.11", "Return of assets", ThemeOrganizational},
	{"A.5.12", "Classification of information", ThemeOrganizational},
	{"A.5.13", "Labelling of information", ThemeOrganizational},
	{"A.5.14", "Information transfer", ThemeOrganizational},
	{"A.5.15", "Access control", ThemeOrganizational},
	{"A.5.16", "Identity management", ThemeOrganizational},
	{"A.5.17", "Authentication information", ThemeOrganizational},
	{"A.5.18", "Access rights", ThemeOrganizational},
	{"A.5.19", "Information security in supplier relationships", ThemeOrganizational},
	{"A.5.20", "Addressing information security within supplier agreements", ThemeOrganizational},
	{"A.5.21", "Managing information security in the ICT supply chain", ThemeOrganizational},
	{"A.5.22", "Monitoring, review and change management of supplier services", ThemeOrganizational},
	{"A.5.23", "Information security for use of cloud services", ThemeOrganizational},
	{"A.5.24", "Information security incident management planning and preparation", ThemeOrganizational},
	{"A.5.25", "Assessment and decision on information security events", ThemeOrganizational},
	{"A.5.26", "Response to information security incidents", ThemeOrganizational},
	{"A.5.27", "Learning from information security incidents", ThemeOrganizational},
	{"A.5.28", "Collection of evidence", ThemeOrganizational},
	{"A.5.29", "Information security during disruption", ThemeOrganizational},
	{"A.5.30", "ICT readiness for business continuity", ThemeOrganizational},
	{"A.5.31", "Legal, statutory, regulatory and contractual requirements", ThemeOrganizational},
	{"A.5.32", "Intellectual property rights", ThemeOrganizational},
	{"A.5.33", "Protection of records", ThemeOrganizational},
	{"A.5.34", "Privacy and protection of PII", ThemeOrganizational},
	{"A.5.35", "Independent review of information security", ThemeOrganizational},
	{"A.5.36", "Compliance with policies, rules and standards for information security", ThemeOrganizational},
	{"A.5.37", "Documented operating procedures", ThemeOrganizational},
	{"A.6.1", "Screening", ThemePeople},
	{"A.6.2", "Terms and conditions of employment", ThemePeople},
	{"A.6.3", "Information security awareness, education and training", ThemePeople},
	{"A.6.4", "Disciplinary process", ThemePeople},
	{"A.6.5", "Responsibilities after termination or change of employment", ThemePeople},
	{"A.6.6", "Confidentiality or non-disclosure agreements", ThemePeople},
	{"A.6.7", "Remote working", ThemePeople},
	{"A.6.8", "Information security event reporting", ThemePeople},
	{"A.7.1", "Physical security perimeters", ThemePhysical},
	{"A.7.2", "Physical entry", ThemePhysical},
	{"A.7.3", "Securing offices, rooms and facilities", ThemePhysical},
	{"A.7.4", "Physical security monitoring", ThemePhysical},
	{"A.7.5", "Protecting against physical and environmental threats", ThemePhysical},
	{"A.7.6", "Working in secure areas", ThemePhysical},
	{"A.7.7", "Clear desk and clear screen", ThemePhysical},
	{"A.7.8", "Equipment siting and protection", ThemePhysical},
	{"A.7.9", "Security of assets off-premises", ThemePhysical},
	{"A.7.10", "Storage media", ThemePhysical},
	{"A.7.11", "Supporting utilities", ThemePhysical},
	{"A.7.12", "Cabling security", ThemePhysical},
	{"A.7.13", "Equipment maintenance", ThemePhysical},
	{"A.7.14", "Secure disposal or re-use of equipment", ThemePhysical},
	{"A.8.1", "User endpoint devices", ThemeTechnological},
	{"A.8.2", "Privileged access rights", ThemeTechnological},
	{"A.8.3", "Information access restriction", ThemeTechnological},
	{"A.8.4", "Access to source code", ThemeTechnological},
	{"A.8.5", "Secure authentication", ThemeTechnological},
	{"A.8.6", "Capacity management", ThemeTechnological},
	{"A.8.7", "Protection against malware", ThemeTechnological},
	{"A.8.8", "Management of technical vulnerabilities", ThemeTechnological},
	{"A.8.9", "Configuration management", ThemeTechnological},
	{"A.8.10", "Information deletion", ThemeTechnological},
	{"A.8.11", "Data masking", ThemeTechnological},
	{"A.8.12", "Data leakage prevention", ThemeTechnological},
	{"A.8.13", "Information backup", ThemeTechnological},
	{"A.8.14", "Redundancy of information processing facilities", ThemeTechnological},
	{"A.8.15", "Logging", ThemeTechnological},
	{"A.8.16", "Monitoring activities", ThemeTechnological},
	{"A.8.17", "Clock synchronization", ThemeTechnological},
	{"A.8.18", "Use of privileged utility programs", ThemeTechnological},
	{"A.8.19", "Installation of software on operational systems", ThemeTechnological},
	{"A.8.20", "Networks security", ThemeTechnological},
	{"A.8.21", "Security of network services", ThemeTechnological},
	{"A.8.22", "Segregation of networks", ThemeTechnological},
	{"A.8.23", "Web filtering", ThemeTechnological},
	{"A.8.24", "Use of cryptography", ThemeTechnological},
	{"A.8.25", "Secure development life cycle", ThemeTechnological},
	{"A.8.26", "Application security requirements", ThemeTechnological},
	{"A.8.27", "Secure system architecture and engineering principles", ThemeTechnological},
	{"A.8.28", "Secure coding", ThemeTechnological},
	{"A.8.29", "Security testing in development and acceptance", ThemeTechnological},
	{"A.8.30", "Outsourced development", ThemeTechnological},
	{"A.8.31", "Separation of development, test and production environments", ThemeTechnological},
	{"A.8.32", "Change management", ThemeTechnological},
	{"A.8.33", "Test information", ThemeTechnological},
	{"A.8.34", "Protection of information systems during audit testing", ThemeTechnological},
}

// controlIndex maps code to catalog position
var controlIndex = func() map[string]int {
	m := make(map[string]int, len(AnnexA))
	for i, c := range AnnexA {
		m[c.Code] = i
	}
	return m
}()

// ControlByCode resolves a catalog control
func ControlByCode(code string) (Control, bool) {
	if i, ok := controlIndex[code]; ok {
		return AnnexA[i], true
	}
	return Control{}, false
}
