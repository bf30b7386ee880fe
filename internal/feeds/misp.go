// internal/feeds/misp.go
package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/ioc"
)

// MISPAdapter drives a MISP instance via its REST search API
type MISPAdapter struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewMISP creates a MISP adapter
func NewMISP(cfg Config, logger *zap.Logger) (*MISPAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: misp requires an api key", ErrConfig)
	}
	return &MISPAdapter{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.Named("misp"),
	}, nil
}

func (a *MISPAdapter) Provider() string { return "misp" }

func (a *MISPAdapter) Close() error { return nil }

// TestConnection probes the server version endpoint
func (a *MISPAdapter) TestConnection(ctx context.Context) error {
	resp, err := a.do(ctx, http.MethodGet, "/servers/getVersion", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(a.Provider(), resp)
	}
	return nil
}

// FetchSince searches published, actionable (to_ids) events and flattens
// their attributes into normalized IOCs.
func (a *MISPAdapter) FetchSince(ctx context.Context, since *time.Time, limit int) ([]ioc.IOC, error) {
	body := map[string]interface{}{
		"returnFormat": "json",
		"to_ids":       true,
		"published":    true,
		"limit":        limit,
	}
	if since != nil {
		body["timestamp"] = strconv.FormatInt(since.Unix(), 10)
	}
	if len(a.cfg.TagFilters) > 0 {
		body["tags"] = a.cfg.TagFilters
	}

	resp, err := a.do(ctx, http.MethodPost, "/events/restSearch", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.Provider(), resp)
	}

	var parsed mispSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, parseError(a.Provider(), err)
	}

	var out []ioc.IOC
	for _, wrapper := range parsed.Response {
		event := wrapper.Event
		if a.cfg.MinThreatLevel != "" && a.cfg.MinThreatLevel != ioc.ThreatUnknown {
			if mispThreatLevel(event.ThreatLevelID).Rank() < a.cfg.MinThreatLevel.Rank() {
				continue
			}
		}
		out = append(out, a.eventIOCs(event)...)
		if len(out) >= limit {
			out = out[:limit]
			break
		}
	}
	a.logger.Debug("misp fetch complete",
		zap.Int("events", len(parsed.Response)),
		zap.Int("iocs", len(out)))
	return out, nil
}

// LookupOne searches attributes for an exact value match
func (a *MISPAdapter) LookupOne(ctx context.Context, value string, typ ioc.Type) (*ioc.IOC, error) {
	if typ == "" || typ == ioc.TypeUnknown {
		typ = ioc.DetectType(value)
	}

	body := map[string]interface{}{
		"returnFormat": "json",
		"value":        value,
		"limit":        1,
	}
	resp, err := a.do(ctx, http.MethodPost, "/attributes/restSearch", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.Provider(), resp)
	}

	var parsed struct {
		Response struct {
			Attribute []mispAttribute `json:"Attribute"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, parseError(a.Provider(), err)
	}
	if len(parsed.Response.Attribute) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, value)
	}

	result := a.attributeIOC(parsed.Response.Attribute[0], eventContext{threatLevel: ioc.ThreatUnknown})
	return &result, nil
}

// do issues an authenticated request against the MISP base URL
func (a *MISPAdapter) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, parseError(a.Provider(), err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(a.cfg.BaseURL, "/")+path, reader)
	if err != nil {
		return nil, connectionError(a.Provider(), err)
	}
	req.Header.Set("Authorization", a.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, connectionError(a.Provider(), err)
	}
	return resp, nil
}

// eventContext carries the event-level metadata shared by every
// attribute of one event.
type eventContext struct {
	eventID     string
	threatLevel ioc.ThreatLevel
	tags        []string
	actors      []string
	campaigns   []string
	techniques  []string
}

// eventIOCs flattens one event into IOCs: event tags and galaxies apply
// to every attribute, top-level and object-member attributes alike.
func (a *MISPAdapter) eventIOCs(event mispEvent) []ioc.IOC {
	ec := eventContext{
		eventID:     event.ID,
		threatLevel: mispThreatLevel(event.ThreatLevelID),
	}
	for _, tag := range event.Tag {
		if strings.HasPrefix(tag.Name, "misp-galaxy:") {
			continue
		}
		ec.tags = append(ec.tags, tag.Name)
	}
	for _, galaxy := range event.Galaxy {
		for _, cluster := range galaxy.GalaxyCluster {
			switch {
			case strings.Contains(galaxy.Type, "threat-actor"):
				ec.actors = append(ec.actors, cluster.Value)
			case strings.Contains(galaxy.Type, "campaign"):
				ec.campaigns = append(ec.campaigns, cluster.Value)
			case strings.Contains(galaxy.Type, "attack-pattern"):
				if technique := clusterTechnique(cluster); technique != "" {
					ec.techniques = append(ec.techniques, technique)
				}
			}
		}
	}

	attributes := append([]mispAttribute{}, event.Attribute...)
	for _, object := range event.Object {
		attributes = append(attributes, object.Attribute...)
	}

	out := make([]ioc.IOC, 0, len(attributes))
	for _, attr := range attributes {
		out = append(out, a.attributeIOC(attr, ec))
	}
	return out
}

// attributeIOC converts one MISP attribute into the normalized model
func (a *MISPAdapter) attributeIOC(attr mispAttribute, ec eventContext) ioc.IOC {
	typ := mispAttributeType(attr.Type)
	if typ == ioc.TypeUnknown {
		typ = ioc.DetectType(attr.Value)
	}

	confidence := 0.5
	if attr.ToIDS {
		confidence = 0.8
	}

	seen := mispTimestamp(attr.Timestamp)
	result := ioc.IOC{
		Value:            ioc.Normalize(attr.Value, typ),
		Type:             typ,
		Status:           ioc.StatusActive,
		ThreatLevel:      ec.threatLevel,
		Confidence:       confidence,
		Tags:             ec.tags,
		Source:           a.Provider(),
		SourceRef:        "event:" + ec.eventID,
		FirstSeen:        seen,
		LastSeen:         seen,
		MitreTechniques:  ec.techniques,
		RelatedActors:    ec.actors,
		RelatedCampaigns: ec.campaigns,
	}
	result.RiskScore = ioc.RiskScore(&result)
	return result
}

// mispThreatLevel maps the numeric MISP event level
func mispThreatLevel(id string) ioc.ThreatLevel {
	switch id {
	case "1":
		return ioc.ThreatHigh
	case "2":
		return ioc.ThreatMedium
	case "3":
		return ioc.ThreatLow
	default:
		return ioc.ThreatUnknown
	}
}

// clusterTechnique renders a MITRE galaxy cluster as "Txxxx - Name"
func clusterTechnique(cluster mispCluster) string {
	var extID string
	for _, id := range cluster.Meta.ExternalID {
		if strings.HasPrefix(id, "T") {
			extID = id
			break
		}
	}
	if extID == "" {
		return ""
	}
	name := strings.TrimSuffix(cluster.Value, " - "+extID)
	return extID + " - " + name
}

// mispAttributeTypes maps MISP attribute types onto the IOC type enum
var mispAttributeTypes = map[string]ioc.Type{
	"ip-src":        ioc.TypeIP,
	"ip-dst":        ioc.TypeIP,
	"domain":        ioc.TypeDomain,
	"hostname":      ioc.TypeHostname,
	"url":           ioc.TypeURL,
	"uri":           ioc.TypeURL,
	"md5":           ioc.TypeMD5,
	"sha1":          ioc.TypeSHA1,
	"sha256":        ioc.TypeSHA256,
	"email":         ioc.TypeEmail,
	"email-src":     ioc.TypeEmail,
	"email-dst":     ioc.TypeEmail,
	"vulnerability": ioc.TypeCVE,
	"mutex":         ioc.TypeMutex,
	"filename":      ioc.TypeFilePath,
	"regkey":        ioc.TypeRegistryKey,
}

func mispAttributeType(t string) ioc.Type {
	if mapped, ok := mispAttributeTypes[t]; ok {
		return mapped
	}
	return ioc.TypeUnknown
}

// mispTimestamp parses MISP's unix-second string timestamps
func mispTimestamp(s string) time.Time {
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil && unix > 0 {
		return time.Unix(unix, 0).UTC()
	}
	return time.Now().UTC()
}

// Wire types for the MISP REST responses

type mispSearchResponse struct {
	Response []struct {
		Event mispEvent `json:"Event"`
	} `json:"response"`
}

type mispEvent struct {
	ID            string          `json:"id"`
	Info          string          `json:"info"`
	ThreatLevelID string          `json:"threat_level_id"`
	Timestamp     string          `json:"timestamp"`
	Tag           []mispTag       `json:"Tag"`
	Galaxy        []mispGalaxy    `json:"Galaxy"`
	Attribute     []mispAttribute `json:"Attribute"`
	Object        []struct {
		Attribute []mispAttribute `json:"Attribute"`
	} `json:"Object"`
}

type mispTag struct {
	Name string `json:"name"`
}

type mispGalaxy struct {
	Type          string        `json:"type"`
	GalaxyCluster []mispCluster `json:"GalaxyCluster"`
}

type mispCluster struct {
	Value string `json:"value"`
	Meta  struct {
		ExternalID []string `json:"external_id"`
	} `json:"meta"`
}

type mispAttribute struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Value     string `json:"value"`
	ToIDS     bool   `json:"to_ids"`
	Timestamp string `json:"timestamp"`
}
