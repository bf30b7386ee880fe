// internal/ioc/merge.go
package ioc

// Merge combines two observations of the same indicator. It is commutative
// for threat level, confidence, tags and sources, and idempotent:
// Merge(x, x) == x.
func Merge(a, b IOC) IOC {
	out := a

	out.ThreatLevel = MaxThreat(a.ThreatLevel, b.ThreatLevel)
	if b.Confidence > out.Confidence {
		out.Confidence = b.Confidence
	}

	out.Tags = unionCapped(a.Tags, b.Tags, MaxTags)
	out.Categories = unionCapped(a.Categories, b.Categories, MaxCategories)
	out.MitreTechniques = unionCapped(a.MitreTechniques, b.MitreTechniques, MaxMitreTechniques)
	out.RelatedActors = unionCapped(a.RelatedActors, b.RelatedActors, MaxRelatedActors)
	out.RelatedCampaigns = unionCapped(a.RelatedCampaigns, b.RelatedCampaigns, MaxRelatedCampaigns)

	out.Source = joinSources(a, b)

	if !b.FirstSeen.IsZero() && (out.FirstSeen.IsZero() || b.FirstSeen.Before(out.FirstSeen)) {
		out.FirstSeen = b.FirstSeen
	}
	if b.LastSeen.After(out.LastSeen) {
		out.LastSeen = b.LastSeen
	}

	if out.Country == "" {
		out.Country = b.Country
	}
	if out.ASN == "" {
		out.ASN = b.ASN
	}
	if out.SourceRef == "" {
		out.SourceRef = b.SourceRef
	}

	if len(b.EnrichmentData) > 0 {
		if out.EnrichmentData == nil {
			out.EnrichmentData = make(map[string]interface{}, len(b.EnrichmentData))
			for k, v := range a.EnrichmentData {
				out.EnrichmentData[k] = v
			}
		} else {
			merged := make(map[string]interface{}, len(out.EnrichmentData)+len(b.EnrichmentData))
			for k, v := range out.EnrichmentData {
				merged[k] = v
			}
			out.EnrichmentData = merged
		}
		for k, v := range b.EnrichmentData {
			out.EnrichmentData[k] = v
		}
	}

	out.RiskScore = RiskScore(&out)
	return out
}

// Deduplicate groups indicators by (normalized value, type) and left-folds
// Merge within each group. Input order of first occurrence is preserved.
func Deduplicate(iocs []IOC) []IOC {
	if len(iocs) <= 1 {
		return iocs
	}

	index := make(map[string]int, len(iocs))
	out := make([]IOC, 0, len(iocs))
	for _, it := range iocs {
		it.Value = Normalize(it.Value, it.Type)
		key := it.Key()
		if pos, ok := index[key]; ok {
			out[pos] = Merge(out[pos], it)
			continue
		}
		index[key] = len(out)
		out = append(out, it)
	}
	return out
}

func unionCapped(a, b []string, cap int) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
			if len(out) == cap {
				return out
			}
		}
	}
	return out
}

func joinSources(a, b IOC) string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{a.Sources(), b.Sources()} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return ""
	}
	joined := out[0]
	for _, s := range out[1:] {
		joined += "," + s
	}
	return joined
}
