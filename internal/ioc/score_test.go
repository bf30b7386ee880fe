// internal/ioc/score_test.go
package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskScore(t *testing.T) {
	t.Run("medium c2 indicator with one actor", func(t *testing.T) {
		x := IOC{
			Value:         "8.8.8.8",
			Type:          TypeIP,
			ThreatLevel:   ThreatMedium,
			Confidence:    0.8,
			Tags:          []string{"c2", "ransomware"},
			RelatedActors: []string{"APT28"},
		}
		// 40 base + (0.8-0.5)*20 + 5 tag bonus + min(3*1, 9) actor bonus
		assert.InDelta(t, 54.0, RiskScore(&x), 0.0001)
	})

	t.Run("tag bonus applies once", func(t *testing.T) {
		one := IOC{ThreatLevel: ThreatLow, Confidence: 0.5, Tags: []string{"malware"}}
		many := IOC{ThreatLevel: ThreatLow, Confidence: 0.5, Tags: []string{"malware", "trojan", "botnet"}}
		assert.Equal(t, RiskScore(&one), RiskScore(&many))
	})

	t.Run("multi source bonus is capped", func(t *testing.T) {
		x := IOC{ThreatLevel: ThreatMedium, Confidence: 0.5, Source: "a,b,c,d,e,f,g"}
		// 40 + min(2*7, 10)
		assert.InDelta(t, 50.0, RiskScore(&x), 0.0001)
	})

	t.Run("score is clamped to 100", func(t *testing.T) {
		x := IOC{
			ThreatLevel:      ThreatCritical,
			Confidence:       1.0,
			Source:           "a,b,c,d,e,f",
			Tags:             []string{"ransomware"},
			RelatedActors:    []string{"a1", "a2", "a3", "a4"},
			RelatedCampaigns: []string{"c1", "c2", "c3", "c4"},
			MitreTechniques:  []string{"T1", "T2", "T3", "T4"},
		}
		assert.Equal(t, 100.0, RiskScore(&x))
	})

	t.Run("clean low-confidence indicator floors at 0", func(t *testing.T) {
		x := IOC{ThreatLevel: ThreatClean, Confidence: 0.0}
		assert.Equal(t, 0.0, RiskScore(&x))
	})
}

func TestRiskScore_Bounds(t *testing.T) {
	levels := []ThreatLevel{ThreatCritical, ThreatHigh, ThreatMedium, ThreatLow, ThreatClean, ThreatUnknown}
	for _, lvl := range levels {
		for _, conf := range []float64{0, 0.25, 0.5, 0.75, 1} {
			x := IOC{ThreatLevel: lvl, Confidence: conf, Tags: []string{"apt"}, Source: "a,b,c"}
			s := RiskScore(&x)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	}
}

func TestFingerprint(t *testing.T) {
	t.Run("stable across raw forms", func(t *testing.T) {
		assert.Equal(t, Fingerprint("EVIL.com.", TypeDomain), Fingerprint("evil.com", TypeDomain))
	})
	t.Run("type is part of identity", func(t *testing.T) {
		assert.NotEqual(t, Fingerprint("evil.com", TypeDomain), Fingerprint("evil.com", TypeHostname))
	})
	t.Run("64 hex chars", func(t *testing.T) {
		assert.Len(t, Fingerprint("8.8.8.8", TypeIP), 64)
	})
}
