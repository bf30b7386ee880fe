// internal/ioc/types.go
// Canonical indicator-of-compromise model shared by the feed adapters,
// the enrichment aggregator and the threat-intel API.
package ioc

import (
	"time"
)

// Type classifies an indicator value
type Type string

const (
	TypeIP          Type = "ip"
	TypeDomain      Type = "domain"
	TypeHostname    Type = "hostname"
	TypeURL         Type = "url"
	TypeMD5         Type = "md5"
	TypeSHA1        Type = "sha1"
	TypeSHA256      Type = "sha256"
	TypeEmail       Type = "email"
	TypeCVE         Type = "cve"
	TypeMutex       Type = "mutex"
	TypeFilePath    Type = "file_path"
	TypeProcess     Type = "process"
	TypeRegistryKey Type = "registry_key"
	TypeUnknown     Type = "unknown"
)

// Status tracks indicator lifecycle
type Status string

const (
	StatusActive     Status = "active"
	StatusExpired    Status = "expired"
	StatusSuppressed Status = "suppressed"
)

// ThreatLevel is the assessed severity of an indicator
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "critical"
	ThreatHigh     ThreatLevel = "high"
	ThreatMedium   ThreatLevel = "medium"
	ThreatLow      ThreatLevel = "low"
	ThreatClean    ThreatLevel = "clean"
	ThreatUnknown  ThreatLevel = "unknown"
)

// threatRank orders levels for merge resolution (higher wins)
var threatRank = map[ThreatLevel]int{
	ThreatCritical: 5,
	ThreatHigh:     4,
	ThreatMedium:   3,
	ThreatLow:      2,
	ThreatClean:    1,
	ThreatUnknown:  0,
}

// Rank returns the merge precedence of a threat level
func (t ThreatLevel) Rank() int {
	return threatRank[t]
}

// MaxThreat returns the more severe of two levels
func MaxThreat(a, b ThreatLevel) ThreatLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Collection caps applied during merge
const (
	MaxTags            = 20
	MaxCategories      = 10
	MaxMitreTechniques = 15
	MaxRelatedActors   = 10
	MaxRelatedCampaigns = 10
)

// IOC is the normalized indicator shared across the platform.
// Identity is (Normalize(Value, Type), Type).
type IOC struct {
	ID               string                 `json:"id,omitempty"`
	TenantID         string                 `json:"tenant_id,omitempty"`
	Value            string                 `json:"value"`
	Type             Type                   `json:"type"`
	Status           Status                 `json:"status"`
	ThreatLevel      ThreatLevel            `json:"threat_level"`
	Confidence       float64                `json:"confidence"` // 0..1
	RiskScore        float64                `json:"risk_score"` // 0..100
	Tags             []string               `json:"tags,omitempty"`
	Categories       []string               `json:"categories,omitempty"`
	Source           string                 `json:"source,omitempty"` // comma-joined provider IDs
	SourceRef        string                 `json:"source_ref,omitempty"`
	FirstSeen        time.Time              `json:"first_seen"`
	LastSeen         time.Time              `json:"last_seen"`
	Country          string                 `json:"country,omitempty"`
	ASN              string                 `json:"asn,omitempty"`
	MitreTechniques  []string               `json:"mitre_techniques,omitempty"`
	RelatedActors    []string               `json:"related_actors,omitempty"`
	RelatedCampaigns []string               `json:"related_campaigns,omitempty"`
	EnrichmentData   map[string]interface{} `json:"enrichment_data,omitempty"`
}

// Key returns the deduplication key for the indicator
func (i *IOC) Key() string {
	return string(i.Type) + ":" + Normalize(i.Value, i.Type)
}

// Sources splits the comma-joined provider list
func (i *IOC) Sources() []string {
	if i.Source == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, s := range splitTrim(i.Source, ",") {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
