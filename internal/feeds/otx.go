// internal/feeds/otx.go
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/ioc"
)

// otxConfidence is what a subscribed pulse indicator is worth
const otxConfidence = 0.7

// OTXAdapter drives AlienVault OTX via the subscribed-pulses API
type OTXAdapter struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewOTX creates an OTX adapter
func NewOTX(cfg Config, logger *zap.Logger) (*OTXAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: otx requires an api key", ErrConfig)
	}
	return &OTXAdapter{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.Named("otx"),
	}, nil
}

func (a *OTXAdapter) Provider() string { return "otx" }

func (a *OTXAdapter) Close() error { return nil }

// TestConnection verifies the API key against the user endpoint
func (a *OTXAdapter) TestConnection(ctx context.Context) error {
	resp, err := a.get(ctx, "/api/v1/user/me", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(a.Provider(), resp)
	}
	return nil
}

// FetchSince pulls subscribed pulses modified since the given time and
// flattens their indicators.
func (a *OTXAdapter) FetchSince(ctx context.Context, since *time.Time, limit int) ([]ioc.IOC, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if since != nil {
		params.Set("modified_since", since.UTC().Format(time.RFC3339))
	}

	resp, err := a.get(ctx, "/api/v1/pulses/subscribed", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.Provider(), resp)
	}

	var parsed otxPulseList
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, parseError(a.Provider(), err)
	}

	var out []ioc.IOC
	for _, pulse := range parsed.Results {
		out = append(out, a.pulseIOCs(pulse)...)
		if len(out) >= limit {
			out = out[:limit]
			break
		}
	}
	a.logger.Debug("otx fetch complete",
		zap.Int("pulses", len(parsed.Results)),
		zap.Int("iocs", len(out)))
	return out, nil
}

// LookupOne consults the indicator detail endpoint
func (a *OTXAdapter) LookupOne(ctx context.Context, value string, typ ioc.Type) (*ioc.IOC, error) {
	if typ == "" || typ == ioc.TypeUnknown {
		typ = ioc.DetectType(value)
	}
	section, ok := otxIndicatorSections[typ]
	if !ok {
		return nil, fmt.Errorf("%w: otx cannot look up type %q", ErrConfig, typ)
	}

	resp, err := a.get(ctx, "/api/v1/indicators/"+section+"/"+url.PathEscape(value)+"/general", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.Provider(), resp)
	}

	var parsed struct {
		Indicator string `json:"indicator"`
		PulseInfo struct {
			Count  int        `json:"count"`
			Pulses []otxPulse `json:"pulses"`
		} `json:"pulse_info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, parseError(a.Provider(), err)
	}
	if parsed.PulseInfo.Count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, value)
	}

	// Fold every referencing pulse into one indicator view.
	normalized := ioc.Normalize(value, typ)
	merged := ioc.IOC{
		Value:       normalized,
		Type:        typ,
		Status:      ioc.StatusActive,
		ThreatLevel: ioc.ThreatUnknown,
		Source:      a.Provider(),
	}
	for _, pulse := range parsed.PulseInfo.Pulses {
		pulse.Indicators = []otxIndicator{{Indicator: value, Type: otxTypeName(typ)}}
		for _, candidate := range a.pulseIOCs(pulse) {
			merged = ioc.Merge(merged, candidate)
		}
	}
	return &merged, nil
}

// get issues an authenticated GET against the OTX base URL
func (a *OTXAdapter) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	target := strings.TrimRight(a.cfg.BaseURL, "/") + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, connectionError(a.Provider(), err)
	}
	req.Header.Set("X-OTX-API-KEY", a.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, connectionError(a.Provider(), err)
	}
	return resp, nil
}

// pulseIOCs converts every indicator of one pulse. Pulse-level context
// (tags, adversary, ATT&CK IDs) propagates to each indicator.
func (a *OTXAdapter) pulseIOCs(pulse otxPulse) []ioc.IOC {
	threat := ioc.ThreatMedium
	if isAPTAdversary(pulse.Adversary) {
		threat = ioc.ThreatHigh
	}

	tags := append([]string{}, pulse.Tags...)
	var categories []string
	categories = append(categories, pulse.TargetedCountries...)
	categories = append(categories, pulse.Industries...)

	var actors []string
	if pulse.Adversary != "" {
		actors = append(actors, pulse.Adversary)
	}

	out := make([]ioc.IOC, 0, len(pulse.Indicators))
	for _, indicator := range pulse.Indicators {
		typ := otxIndicatorType(indicator.Type)
		if typ == ioc.TypeUnknown {
			typ = ioc.DetectType(indicator.Indicator)
		}
		seen := otxTimestamp(indicator.Created, pulse.Modified)
		result := ioc.IOC{
			Value:           ioc.Normalize(indicator.Indicator, typ),
			Type:            typ,
			Status:          ioc.StatusActive,
			ThreatLevel:     threat,
			Confidence:      otxConfidence,
			Tags:            tags,
			Categories:      categories,
			Source:          a.Provider(),
			SourceRef:       "pulse:" + pulse.ID,
			FirstSeen:       seen,
			LastSeen:        seen,
			MitreTechniques: append([]string{}, pulse.AttackIDs...),
			RelatedActors:   actors,
		}
		result.RiskScore = ioc.RiskScore(&result)
		out = append(out, result)
	}
	return out
}

// isAPTAdversary reports whether the adversary name carries an APT marker
func isAPTAdversary(adversary string) bool {
	return strings.Contains(strings.ToUpper(adversary), "APT")
}

// otxIndicatorTypes maps OTX indicator types onto the IOC type enum
var otxIndicatorTypes = map[string]ioc.Type{
	"IPv4":            ioc.TypeIP,
	"IPv6":            ioc.TypeIP,
	"domain":          ioc.TypeDomain,
	"hostname":        ioc.TypeHostname,
	"URL":             ioc.TypeURL,
	"URI":             ioc.TypeURL,
	"FileHash-MD5":    ioc.TypeMD5,
	"FileHash-SHA1":   ioc.TypeSHA1,
	"FileHash-SHA256": ioc.TypeSHA256,
	"email":           ioc.TypeEmail,
	"CVE":             ioc.TypeCVE,
	"Mutex":           ioc.TypeMutex,
	"FilePath":        ioc.TypeFilePath,
}

func otxIndicatorType(t string) ioc.Type {
	if mapped, ok := otxIndicatorTypes[t]; ok {
		return mapped
	}
	return ioc.TypeUnknown
}

// otxTypeNames is the reverse mapping, used when synthesizing indicators.
// Types with several OTX spellings (IPv4/IPv6, URL/URI) pin one canonical
// name here.
var otxTypeNames = map[ioc.Type]string{
	ioc.TypeIP:       "IPv4",
	ioc.TypeDomain:   "domain",
	ioc.TypeHostname: "hostname",
	ioc.TypeURL:      "URL",
	ioc.TypeMD5:      "FileHash-MD5",
	ioc.TypeSHA1:     "FileHash-SHA1",
	ioc.TypeSHA256:   "FileHash-SHA256",
	ioc.TypeEmail:    "email",
	ioc.TypeCVE:      "CVE",
	ioc.TypeMutex:    "Mutex",
	ioc.TypeFilePath: "FilePath",
}

func otxTypeName(t ioc.Type) string {
	return otxTypeNames[t]
}

// otxIndicatorSections routes lookups to the right API section
var otxIndicatorSections = map[ioc.Type]string{
	ioc.TypeIP:       "IPv4",
	ioc.TypeDomain:   "domain",
	ioc.TypeHostname: "hostname",
	ioc.TypeURL:      "url",
	ioc.TypeMD5:      "file",
	ioc.TypeSHA1:     "file",
	ioc.TypeSHA256:   "file",
	ioc.TypeCVE:      "cve",
}

// otxTimestamp prefers the indicator timestamp over the pulse's
func otxTimestamp(candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04:05.999999"} {
			if parsed, err := time.Parse(layout, c); err == nil {
				return parsed.UTC()
			}
		}
	}
	return time.Now().UTC()
}

// Wire types for the OTX responses

type otxPulseList struct {
	Results []otxPulse `json:"results"`
	Next    string     `json:"next"`
}

type otxPulse struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Adversary         string         `json:"adversary"`
	Tags              []string       `json:"tags"`
	TargetedCountries []string       `json:"targeted_countries"`
	Industries        []string       `json:"industries"`
	AttackIDs         []string       `json:"attack_ids"`
	Modified          string         `json:"modified"`
	Indicators        []otxIndicator `json:"indicators"`
}

type otxIndicator struct {
	Indicator string `json:"indicator"`
	Type      string `json:"type"`
	Created   string `json:"created"`
}
