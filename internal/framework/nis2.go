// internal/framework/nis2.go
// NIS2 Directive (EU) 2022/2555 — Article 21 measures, Article 23 reporting,
// sector classification and member-state CSIRT registry.
package framework

var nis2Controls = []Control{
	{
		Framework:   NIS2,
		ControlID:   "Art21.2b",
		Name:        "Incident handling",
		Family:      "Article 21 Cybersecurity risk-management measures",
		Description: "Essential and important entities take measures for incident handling covering prevention, detection and response.",
		EvidenceRequirements: []string{
			"Incident handling procedure",
			"Incident register",
		},
	},
	{
		Framework:   NIS2,
		ControlID:   "Art21.2c",
		Name:        "Business continuity and crisis management",
		Family:      "Article 21 Cybersecurity risk-management measures",
		Description: "Backup management, disaster recovery and crisis management keep services available during and after incidents.",
		EvidenceRequirements: []string{
			"Continuity plan",
			"Backup and restore tests",
		},
	},
	{
		Framework:   NIS2,
		ControlID:   "Art23.3",
		Name:        "Significant incident classification",
		Family:      "Article 23 Reporting obligations",
		Description: "Incidents are assessed for significance: severe operational disruption, financial loss or considerable damage to others.",
		EvidenceRequirements: []string{
			"Significance assessment record",
		},
	},
	{
		Framework:   NIS2,
		ControlID:   "Art23.4a",
		Name:        "Early warning within 24 hours",
		Family:      "Article 23 Reporting obligations",
		Description: "An early warning is submitted to the CSIRT or competent authority without undue delay and within 24 hours of awareness.",
		EvidenceRequirements: []string{
			"Early warning submission receipt",
		},
	},
	{
		Framework:   NIS2,
		ControlID:   "Art23.4b",
		Name:        "Incident notification within 72 hours",
		Family:      "Article 23 Reporting obligations",
		Description: "An incident notification with initial assessment of severity and impact is submitted within 72 hours of awareness.",
		EvidenceRequirements: []string{
			"Incident notification receipt",
			"Severity assessment",
		},
	},
	{
		Framework:   NIS2,
		ControlID:   "Art23.4d",
		Name:        "Final report within one month",
		Family:      "Article 23 Reporting obligations",
		Description: "A final report with root cause, mitigation and cross-border impact is submitted no later than one month after the incident notification.",
		EvidenceRequirements: []string{
			"Final report submission",
			"Root cause analysis",
		},
	},
}

var nis2PhaseMappings = []PhaseMapping{
	{
		Framework: NIS2, Phase: PhaseDetection,
		Controls:              []string{"Art21.2b", "Art23.3"},
		Mandatory:             []string{"Art21.2b"},
		DocumentationRequired: true,
	},
	{
		Framework: NIS2, Phase: PhaseAnalysis,
		Controls:              []string{"Art23.3", "Art23.4a"},
		Mandatory:             []string{"Art23.4a"},
		DocumentationRequired: true,
	},
	{
		Framework: NIS2, Phase: PhaseContainment,
		Controls:  []string{"Art21.2b", "Art23.4b"},
		Mandatory: []string{"Art23.4b"},
	},
	{
		Framework: NIS2, Phase: PhaseEradication,
		Controls:  []string{"Art21.2b"},
		Mandatory: []string{"Art21.2b"},
	},
	{
		Framework: NIS2, Phase: PhaseRecovery,
		Controls:  []string{"Art21.2c"},
		Mandatory: []string{"Art21.2c"},
	},
	{
		Framework: NIS2, Phase: PhasePostIncident,
		Controls:              []string{"Art23.4d"},
		Mandatory:             []string{"Art23.4d"},
		DocumentationRequired: true,
	},
}

// EntityType is the NIS2 entity classification
type EntityType string

const (
	EntityEssential EntityType = "essential"
	EntityImportant EntityType = "important"
)

// Sector is the closed NIS2 sector enum (Annex I and II)
type Sector string

const (
	SectorEnergy            Sector = "energy"
	SectorTransport         Sector = "transport"
	SectorBanking           Sector = "banking"
	SectorFinancialMarkets  Sector = "financial_market_infrastructure"
	SectorHealth            Sector = "health"
	SectorDrinkingWater     Sector = "drinking_water"
	SectorWasteWater        Sector = "waste_water"
	SectorDigitalInfra      Sector = "digital_infrastructure"
	SectorICTManagement     Sector = "ict_service_management"
	SectorPublicAdmin       Sector = "public_administration"
	SectorSpace             Sector = "space"
	SectorPostal            Sector = "postal_courier"
	SectorWasteManagement   Sector = "waste_management"
	SectorChemicals         Sector = "chemicals"
	SectorFood              Sector = "food"
	SectorManufacturing     Sector = "manufacturing"
	SectorDigitalProviders  Sector = "digital_providers"
	SectorResearch          Sector = "research"
)

// sectorEntityType maps each sector to its default NIS2 entity type.
// Annex I sectors default to essential, Annex II to important.
var sectorEntityType = map[Sector]EntityType{
	SectorEnergy:           EntityEssential,
	SectorTransport:        EntityEssential,
	SectorBanking:          EntityEssential,
	SectorFinancialMarkets: EntityEssential,
	SectorHealth:           EntityEssential,
	SectorDrinkingWater:    EntityEssential,
	SectorWasteWater:       EntityEssential,
	SectorDigitalInfra:     EntityEssential,
	SectorICTManagement:    EntityEssential,
	SectorPublicAdmin:      EntityEssential,
	SectorSpace:            EntityEssential,
	SectorPostal:           EntityImportant,
	SectorWasteManagement:  EntityImportant,
	SectorChemicals:        EntityImportant,
	SectorFood:             EntityImportant,
	SectorManufacturing:    EntityImportant,
	SectorDigitalProviders: EntityImportant,
	SectorResearch:         EntityImportant,
}

// DefaultEntityType returns the default NIS2 classification for a sector
func DefaultEntityType(s Sector) (EntityType, bool) {
	et, ok := sectorEntityType[s]
	return et, ok
}

// ValidSector reports membership in the closed sector enum
func ValidSector(s Sector) bool {
	_, ok := sectorEntityType[s]
	return ok
}

// MemberState describes an EU member state and its national CSIRT
type MemberState struct {
	Code  string `json:"code"` // ISO-2
	Name  string `json:"name"`
	CSIRT string `json:"csirt"`
}

// memberStates is the closed ISO-2 list of EU member states
var memberStates = map[string]MemberState{
	"AT": {"AT", "Austria", "CERT.at"},
	"BE": {"BE", "Belgium", "CCB/CERT.be"},
	"BG": {"BG", "Bulgaria", "CERT Bulgaria"},
	"HR": {"HR", "Croatia", "CERT ZSIS / HR-CERT"},
	"CY": {"CY", "Cyprus", "CSIRT-CY"},
	"CZ": {"CZ", "Czechia", "GovCERT.CZ"},
	"DK": {"DK", "Denmark", "CFCS"},
	"EE": {"EE", "Estonia", "CERT-EE"},
	"FI": {"FI", "Finland", "NCSC-FI"},
	"FR": {"FR", "France", "CERT-FR (ANSSI)"},
	"DE": {"DE", "Germany", "CERT-Bund (BSI)"},
	"GR": {"GR", "Greece", "GR-CSIRT"},
	"HU": {"HU", "Hungary", "NCSC Hungary"},
	"IE": {"IE", "Ireland", "CSIRT-IE (NCSC)"},
	"IT": {"IT", "Italy", "CSIRT Italia (ACN)"},
	"LV": {"LV", "Latvia", "CERT.LV"},
	"LT": {"LT", "Lithuania", "NKSC / CERT-LT"},
	"LU": {"LU", "Luxembourg", "CIRCL / GOVCERT.LU"},
	"MT": {"MT", "Malta", "CSIRTMalta"},
	"NL": {"NL", "Netherlands", "NCSC-NL"},
	"PL": {"PL", "Poland", "CERT Polska"},
	"PT": {"PT", "Portugal", "CERT.PT"},
	"RO": {"RO", "Romania", "DNSC / CERT-RO"},
	"SK": {"SK", "Slovakia", "SK-CERT"},
	"SI": {"SI", "Slovenia", "SI-CERT"},
	"ES": {"ES", "Spain", "INCIBE-CERT / CCN-CERT"},
	"SE": {"SE", "Sweden", "CERT-SE"},
}

// MemberStateByCode looks up an EU member state by its ISO-2 code
func MemberStateByCode(code string) (MemberState, bool) {
	ms, ok := memberStates[code]
	return ms, ok
}
