// internal/enrich/enrich.go
// Multi-source indicator enrichment: fans out across threat-intel
// sources, aggregates their verdicts with a weighted vote, and attaches
// response guidance.
package enrich

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cyberops/isora/internal/feeds"
	"github.com/cyberops/isora/internal/ioc"
)

// SourceResult is one provider's verdict on an indicator
type SourceResult struct {
	Source       string          `json:"source"`
	Available    bool            `json:"available"`
	ThreatLevel  ioc.ThreatLevel `json:"threat_level"`
	Confidence   float64         `json:"confidence"`
	RawScore     float64         `json:"raw_score,omitempty"`
	Detections   int             `json:"detections,omitempty"`
	TotalEngines int             `json:"total_engines,omitempty"`
	Categories   []string        `json:"categories,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Country      string          `json:"country,omitempty"`
	ASN          string          `json:"asn,omitempty"`
	ISP          string          `json:"isp,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// Result is the aggregated enrichment view of one indicator
type Result struct {
	Value              string                  `json:"value"`
	Type               ioc.Type                `json:"type"`
	OverallThreatLevel ioc.ThreatLevel         `json:"overall_threat_level"`
	RiskScore          float64                 `json:"risk_score"`
	Confidence         float64                 `json:"confidence"`
	Sources            map[string]SourceResult `json:"sources"`
	Tags               []string                `json:"tags,omitempty"`
	Categories         []string                `json:"categories,omitempty"`
	Country            string                  `json:"country,omitempty"`
	ASN                string                  `json:"asn,omitempty"`
	ISP                string                  `json:"isp,omitempty"`
	MitreTechniques    []string                `json:"mitre_techniques,omitempty"`
	RecommendedActions []string                `json:"recommended_actions,omitempty"`
	IsCached           bool                    `json:"is_cached"`
	EnrichedAt         time.Time               `json:"enriched_at"`
}

// Source is one queryable provider
type Source interface {
	Name() string
	Lookup(ctx context.Context, value string, typ ioc.Type) SourceResult
}

// threatWeights drive the aggregation vote; unknown abstains
var threatWeights = map[ioc.ThreatLevel]float64{
	ioc.ThreatCritical: 100,
	ioc.ThreatHigh:     75,
	ioc.ThreatMedium:   50,
	ioc.ThreatLow:      25,
	ioc.ThreatClean:    0,
}

// defaultSources names the providers consulted per type when the caller
// does not pick any. Unregistered names are reported unavailable.
var defaultSources = map[ioc.Type][]string{
	ioc.TypeIP:       {"virustotal", "abuseipdb", "shodan", "greynoise", "otx"},
	ioc.TypeDomain:   {"virustotal", "otx", "misp"},
	ioc.TypeHostname: {"virustotal", "otx", "misp"},
	ioc.TypeURL:      {"virustotal", "otx"},
	ioc.TypeMD5:      {"virustotal", "otx"},
	ioc.TypeSHA1:     {"virustotal", "otx"},
	ioc.TypeSHA256:   {"virustotal", "otx"},
	ioc.TypeCVE:      {"otx", "misp"},
	ioc.TypeEmail:    {"misp"},
}

// Aggregator fans an indicator out across registered sources
type Aggregator struct {
	sources map[string]Source
	cache   *Cache
	logger  *zap.Logger
	now     func() time.Time
}

// NewAggregator creates an aggregator with the given cache TTL
func NewAggregator(cacheTTL time.Duration, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		sources: make(map[string]Source),
		cache:   NewCache(cacheTTL),
		logger:  logger,
		now:     time.Now,
	}
}

// Register adds a source under its name
func (a *Aggregator) Register(source Source) {
	a.sources[source.Name()] = source
}

// Enrich looks the indicator up across the requested sources (or the
// per-type default set) and aggregates the verdicts. Results are served
// from cache within the TTL.
func (a *Aggregator) Enrich(ctx context.Context, value string, typ ioc.Type, requested []string) (*Result, error) {
	if typ == "" || typ == ioc.TypeUnknown {
		typ = ioc.DetectType(value)
	}
	if err := ioc.Validate(value, typ); err != nil {
		return nil, err
	}
	normalized := ioc.Normalize(value, typ)

	cacheKey := string(typ) + ":" + normalized
	if cached, ok := a.cache.Get(cacheKey); ok {
		return &cached, nil
	}

	names := requested
	if len(names) == 0 {
		names = defaultSources[typ]
	}

	results := make([]SourceResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			source, ok := a.sources[name]
			if !ok {
				results[i] = SourceResult{Source: name, ThreatLevel: ioc.ThreatUnknown, Error: "source not configured"}
				return nil
			}
			results[i] = source.Lookup(gctx, normalized, typ)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := a.aggregate(normalized, typ, results)
	a.cache.Put(cacheKey, *result)
	return result, nil
}

// aggregate folds per-source verdicts into the overall view
func (a *Aggregator) aggregate(value string, typ ioc.Type, results []SourceResult) *Result {
	out := &Result{
		Value:      value,
		Type:       typ,
		Sources:    make(map[string]SourceResult, len(results)),
		EnrichedAt: a.now().UTC(),
	}

	var weightedSum, confidenceSum float64
	voters := 0
	tagSet := make(map[string]bool)
	categorySet := make(map[string]bool)

	for _, sr := range results {
		out.Sources[sr.Source] = sr
		if !sr.Available || sr.ThreatLevel == ioc.ThreatUnknown || sr.ThreatLevel == "" {
			continue
		}
		weight := threatWeights[sr.ThreatLevel]
		weightedSum += weight * sr.Confidence
		confidenceSum += sr.Confidence
		voters += 1

		for _, tag := range sr.Tags {
			if !tagSet[tag] {
				tagSet[tag] = true
				out.Tags = append(out.Tags, tag)
			}
		}
		for _, category := range sr.Categories {
			if !categorySet[category] {
				categorySet[category] = true
				out.Categories = append(out.Categories, category)
			}
		}
		if out.Country == "" {
			out.Country = sr.Country
		}
		if out.ASN == "" {
			out.ASN = sr.ASN
		}
		if out.ISP == "" {
			out.ISP = sr.ISP
		}
	}

	if voters == 0 || confidenceSum == 0 {
		out.OverallThreatLevel = ioc.ThreatUnknown
		return out
	}

	avg := weightedSum / confidenceSum
	out.RiskScore = avg
	out.OverallThreatLevel = bucketThreatLevel(avg)

	out.Confidence = confidenceSum / float64(voters)
	if out.Confidence > 1 {
		out.Confidence = 1
	}

	sort.Strings(out.Tags)
	out.MitreTechniques = TechniquesForTags(out.Tags)
	out.RecommendedActions = RecommendedActions(out.OverallThreatLevel, typ)
	return out
}

// bucketThreatLevel maps the weighted average onto the level enum
func bucketThreatLevel(avg float64) ioc.ThreatLevel {
	switch {
	case avg >= 80:
		return ioc.ThreatCritical
	case avg >= 60:
		return ioc.ThreatHigh
	case avg >= 40:
		return ioc.ThreatMedium
	case avg >= 10:
		return ioc.ThreatLow
	default:
		return ioc.ThreatClean
	}
}

// AdapterSource exposes a feed adapter as an enrichment source
type AdapterSource struct {
	adapter feeds.Adapter
}

// NewAdapterSource wraps a feed adapter
func NewAdapterSource(adapter feeds.Adapter) *AdapterSource {
	return &AdapterSource{adapter: adapter}
}

func (s *AdapterSource) Name() string { return s.adapter.Provider() }

// Lookup resolves the indicator through the adapter; provider errors
// are folded into the result so one broken source never fails the
// whole enrichment.
func (s *AdapterSource) Lookup(ctx context.Context, value string, typ ioc.Type) SourceResult {
	found, err := s.adapter.LookupOne(ctx, value, typ)
	if err != nil {
		sr := SourceResult{Source: s.Name(), ThreatLevel: ioc.ThreatUnknown}
		if !errors.Is(err, feeds.ErrNotFound) {
			sr.Error = err.Error()
		}
		return sr
	}

	sr := SourceResult{
		Source:      s.Name(),
		Available:   true,
		ThreatLevel: found.ThreatLevel,
		Confidence:  found.Confidence,
		RawScore:    found.RiskScore,
		Categories:  found.Categories,
		Tags:        found.Tags,
		Country:     found.Country,
		ASN:         found.ASN,
	}
	if detections, ok := found.EnrichmentData["detections"].(int); ok {
		sr.Detections = detections
	}
	if total, ok := found.EnrichmentData["total_engines"].(int); ok {
		sr.TotalEngines = total
	}
	return sr
}
