// internal/ioc/score.go
package ioc

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// base score by threat level
var baseScore = map[ThreatLevel]float64{
	ThreatCritical: 80,
	ThreatHigh:     60,
	ThreatMedium:   40,
	ThreatLow:      20,
	ThreatUnknown:  10,
	ThreatClean:    0,
}

// tags that mark an indicator as tied to an active threat family
var highRiskTags = map[string]bool{
	"ransomware": true,
	"c2":         true,
	"apt":        true,
	"malware":    true,
	"trojan":     true,
	"botnet":     true,
	"phishing":   true,
	"exploit":    true,
	"backdoor":   true,
	"rat":        true,
}

// RiskScore computes the 0..100 composite risk of an indicator:
// threat-level base, confidence modifier, multi-source bonus,
// actor/campaign bonuses, technique bonus and a one-shot high-risk tag bonus.
func RiskScore(i *IOC) float64 {
	score := baseScore[i.ThreatLevel]

	score += (i.Confidence - 0.5) * 20

	if n := len(i.Sources()); n > 0 {
		score += minF(2*float64(n), 10)
	}

	if n := len(i.RelatedActors); n > 0 {
		score += minF(3*float64(n), 9)
	}
	if n := len(i.RelatedCampaigns); n > 0 {
		score += minF(3*float64(n), 9)
	}

	if n := len(i.MitreTechniques); n > 0 {
		score += minF(2*float64(n), 6)
	}

	for _, tag := range i.Tags {
		if highRiskTags[strings.ToLower(tag)] {
			score += 5
			break
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Fingerprint returns a stable content address for the indicator:
// SHA-256 over "type:normalized-value".
func Fingerprint(value string, t Type) string {
	sum := sha256.Sum256([]byte(string(t) + ":" + Normalize(value, t)))
	return hex.EncodeToString(sum[:])
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
