// internal/feeds/virustotal.go
package feeds

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cyberops/isora/internal/ioc"
)

// vtRequestInterval is the free-tier pace: one request per 15 seconds
const vtRequestInterval = 15 * time.Second

// VirusTotalAdapter is a lookup-only adapter over the VirusTotal v3 API.
// It is not designed for bulk ingestion: FetchSince returns nothing.
type VirusTotalAdapter struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewVirusTotal creates a VirusTotal adapter
func NewVirusTotal(cfg Config, logger *zap.Logger) (*VirusTotalAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: virustotal requires an api key", ErrConfig)
	}
	return &VirusTotalAdapter{
		cfg:     cfg,
		client:  newHTTPClient(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Every(vtRequestInterval), 1),
		logger:  logger.Named("virustotal"),
	}, nil
}

func (a *VirusTotalAdapter) Provider() string { return "virustotal" }

func (a *VirusTotalAdapter) Close() error { return nil }

// TestConnection probes a well-known object to verify the key
func (a *VirusTotalAdapter) TestConnection(ctx context.Context) error {
	resp, err := a.get(ctx, "/api/v3/ip_addresses/8.8.8.8")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(a.Provider(), resp)
	}
	return nil
}

// FetchSince is a deliberate no-op: VirusTotal has no feed semantics on
// the tiers this adapter targets.
func (a *VirusTotalAdapter) FetchSince(ctx context.Context, since *time.Time, limit int) ([]ioc.IOC, error) {
	return nil, nil
}

// LookupOne dispatches by indicator type to the matching object endpoint
func (a *VirusTotalAdapter) LookupOne(ctx context.Context, value string, typ ioc.Type) (*ioc.IOC, error) {
	if typ == "" || typ == ioc.TypeUnknown {
		typ = ioc.DetectType(value)
	}

	var path string
	switch typ {
	case ioc.TypeIP:
		path = "/api/v3/ip_addresses/" + url.PathEscape(value)
	case ioc.TypeDomain, ioc.TypeHostname:
		path = "/api/v3/domains/" + url.PathEscape(ioc.Normalize(value, typ))
	case ioc.TypeURL:
		id := base64.RawURLEncoding.EncodeToString([]byte(value))
		path = "/api/v3/urls/" + id
	case ioc.TypeMD5, ioc.TypeSHA1, ioc.TypeSHA256:
		path = "/api/v3/files/" + url.PathEscape(ioc.Normalize(value, typ))
	default:
		return nil, fmt.Errorf("%w: virustotal cannot look up type %q", ErrConfig, typ)
	}

	resp, err := a.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.Provider(), resp)
	}

	var parsed vtObjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, parseError(a.Provider(), err)
	}

	result := a.objectIOC(value, typ, parsed.Data.Attributes)
	return &result, nil
}

// get issues a paced, authenticated GET
func (a *VirusTotalAdapter) get(ctx context.Context, path string) (*http.Response, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, connectionError(a.Provider(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(a.cfg.BaseURL, "/")+path, nil)
	if err != nil {
		return nil, connectionError(a.Provider(), err)
	}
	req.Header.Set("x-apikey", a.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, connectionError(a.Provider(), err)
	}
	return resp, nil
}

// objectIOC converts a VT object into the normalized model. Threat level
// derives from the detection ratio across all engines.
func (a *VirusTotalAdapter) objectIOC(value string, typ ioc.Type, attrs vtAttributes) ioc.IOC {
	stats := attrs.LastAnalysisStats
	total := stats.Malicious + stats.Suspicious + stats.Harmless + stats.Undetected + stats.Timeout
	detections := stats.Malicious + stats.Suspicious

	var categories []string
	for _, category := range attrs.Categories {
		categories = append(categories, category)
	}

	result := ioc.IOC{
		Value:       ioc.Normalize(value, typ),
		Type:        typ,
		Status:      ioc.StatusActive,
		ThreatLevel: vtThreatLevel(detections, total),
		Confidence:  vtConfidence(total),
		Tags:        attrs.Tags,
		Categories:  categories,
		Source:      a.Provider(),
		Country:     attrs.Country,
		FirstSeen:   time.Now().UTC(),
		LastSeen:    time.Now().UTC(),
		EnrichmentData: map[string]interface{}{
			"detections":    detections,
			"total_engines": total,
		},
	}
	if attrs.ASN != 0 {
		result.ASN = "AS" + strconv.Itoa(attrs.ASN)
	}
	result.RiskScore = ioc.RiskScore(&result)
	return result
}

// vtThreatLevel buckets the detection ratio
func vtThreatLevel(detections, total int) ioc.ThreatLevel {
	if total == 0 {
		return ioc.ThreatUnknown
	}
	ratio := float64(detections) / float64(total)
	switch {
	case ratio > 0.5:
		return ioc.ThreatCritical
	case ratio > 0.3:
		return ioc.ThreatHigh
	case ratio > 0.1:
		return ioc.ThreatMedium
	case detections > 0:
		return ioc.ThreatLow
	default:
		return ioc.ThreatClean
	}
}

// vtConfidence scales with engine coverage, saturating at a full panel
func vtConfidence(total int) float64 {
	if total <= 0 {
		return 0
	}
	confidence := float64(total) / 70.0
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// Wire types for the VirusTotal v3 responses

type vtObjectResponse struct {
	Data struct {
		ID         string       `json:"id"`
		Attributes vtAttributes `json:"attributes"`
	} `json:"data"`
}

type vtAttributes struct {
	LastAnalysisStats struct {
		Malicious  int `json:"malicious"`
		Suspicious int `json:"suspicious"`
		Harmless   int `json:"harmless"`
		Undetected int `json:"undetected"`
		Timeout    int `json:"timeout"`
	} `json:"last_analysis_stats"`
	Country    string            `json:"country"`
	ASN        int               `json:"asn"`
	Tags       []string          `json:"tags"`
	Categories map[string]string `json:"categories"`
}
